package main

import "time"

type Config struct {
	BadgerFilepath  string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath   string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel        string        `env:"LOG_LEVEL,required=true"`
	JWTSecret       string        `env:"JWT_SECRET,required=true"`
	AccessDuration  time.Duration `env:"ACCESS_TOKEN_DURATION,default=15m"`
	RefreshDuration time.Duration `env:"REFRESH_TOKEN_DURATION,default=168h"`
	PresenceWindow  time.Duration `env:"PRESENCE_WINDOW,default=5m"`
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=8080"`
	// DebugPort serves the store inspector when set. Leave at 0 in production.
	DebugPort int `env:"DEBUG_PORT,default=0"`
}
