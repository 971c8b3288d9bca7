package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const userIDKey contextKey = "user_id"

// WithIdentity injects the authenticated user id into a context.
func WithIdentity(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Identity extracts the authenticated user id from a context.
func Identity(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// ActivityRecorder is notified whenever an authenticated request comes
// through, so presence can be derived from session activity.
type ActivityRecorder interface {
	TouchActivity(ctx context.Context, userID uuid.UUID) error
}

// Middleware validates a bearer token when one is present and enriches
// the request context with the caller identity. Requests without an
// Authorization header pass through anonymous: register and login are
// public, everything else is rejected at the resolver level.
func Middleware(tokens *TokenManager, activity ActivityRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			claims, err := tokens.Validate(tokenStr, AccessToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "malformed token subject")
			}

			ctx := WithIdentity(c.Request().Context(), userID)
			if activity != nil {
				// Best effort: presence must not fail the request.
				_ = activity.TouchActivity(ctx, userID)
			}

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
