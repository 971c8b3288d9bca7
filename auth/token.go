package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims is the payload stored inside every issued JWT.
type Claims struct {
	UserID string    `json:"user_id"`
	Type   TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is what a successful login hands back to the client. The
// refresh token outlives the access token and is only good for exchange.
type TokenPair struct {
	Token        string
	RefreshToken string
}

// TokenManager signs and validates the session tokens. The secret comes
// from configuration, never from source.
type TokenManager struct {
	secret          []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
}

func NewTokenManager(secret string, accessDuration, refreshDuration time.Duration) *TokenManager {
	return &TokenManager{
		secret:          []byte(secret),
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}
}

// GeneratePair issues a fresh access/refresh token pair for a user.
func (m *TokenManager) GeneratePair(userID uuid.UUID) (TokenPair, error) {
	access, err := m.sign(userID, AccessToken, m.accessDuration)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.sign(userID, RefreshToken, m.refreshDuration)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Token: access, RefreshToken: refresh}, nil
}

func (m *TokenManager) sign(userID uuid.UUID, typ TokenType, duration time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "team-chat",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses a token string and checks signature, expiration and
// expected token type.
func (m *TokenManager) Validate(tokenString string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Type != expected {
		return nil, fmt.Errorf("unexpected token type %q", claims.Type)
	}
	return claims, nil
}
