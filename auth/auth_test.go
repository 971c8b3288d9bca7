package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MonMotDePasseTr0pSûr!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("MauvaisMDP", hash)
	req.NoError(err)
	req.False(match)
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{"alice", "test@example.com", "ComplexPass123!"}, false},
		{"Invalid email", RegisterRequest{"alice", "notanemail", "ComplexPass123!"}, true},
		{"Username too short", RegisterRequest{"al", "test@example.com", "ComplexPass123!"}, true},
		{"Username not alphanumeric", RegisterRequest{"al ice!", "test@example.com", "ComplexPass123!"}, true},
		{"Password too short", RegisterRequest{"alice", "test@example.com", "Short1!"}, true},
		{"Missing digit", RegisterRequest{"alice", "test@example.com", "NoDigitPassword!"}, true},
		{"Missing special char", RegisterRequest{"alice", "test@example.com", "NoSpecialChar123"}, true},
		{"Missing uppercase", RegisterRequest{"alice", "test@example.com", "nouppercase123!"}, true},
		{"Password too long (edge case)", RegisterRequest{"alice", "test@example.com", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestTokenManager(t *testing.T) {
	manager := NewTokenManager("test-secret-at-least-32-characters!", time.Hour, 7*24*time.Hour)
	userID := uuid.New()

	t.Run("should validate a freshly issued access token", func(t *testing.T) {
		req := require.New(t)

		pair, err := manager.GeneratePair(userID)
		req.NoError(err)
		req.NotEmpty(pair.Token)
		req.NotEmpty(pair.RefreshToken)
		req.NotEqual(pair.Token, pair.RefreshToken)

		claims, err := manager.Validate(pair.Token, AccessToken)
		req.NoError(err)
		req.Equal(userID.String(), claims.UserID)
	})

	t.Run("should reject a refresh token used as access token", func(t *testing.T) {
		req := require.New(t)

		pair, err := manager.GeneratePair(userID)
		req.NoError(err)

		_, err = manager.Validate(pair.RefreshToken, AccessToken)
		req.Error(err)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		req := require.New(t)
		expired := NewTokenManager("test-secret-at-least-32-characters!", -time.Minute, -time.Minute)

		pair, err := expired.GeneratePair(userID)
		req.NoError(err)

		_, err = manager.Validate(pair.Token, AccessToken)
		req.Error(err)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		req := require.New(t)
		other := NewTokenManager("a-completely-different-secret-here!", time.Hour, time.Hour)

		pair, err := other.GeneratePair(userID)
		req.NoError(err)

		_, err = manager.Validate(pair.Token, AccessToken)
		req.Error(err)
	})
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
