// Package domain contains core concepts of the team-messaging system.
// This file defines the User entity and its invariants.
// No storage, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. Username and Email are globally unique
// across the store; PasswordHash is never exposed through the API.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	LastActivity time.Time
	CreatedAt    time.Time
}

// Online reports whether the user showed session activity within the
// presence window. Presence is derived, never stored.
func (u User) Online(window time.Duration, now time.Time) bool {
	if u.LastActivity.IsZero() {
		return false
	}
	return now.Sub(u.LastActivity) < window
}

// UserField enumerates the mutable fields of a User. The closed set
// replaces a free-form option string so every field carries its own
// validation rule.
type UserField string

const (
	UserFieldUsername UserField = "username"
	UserFieldEmail    UserField = "email"
)
