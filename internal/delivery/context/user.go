package context

import (
	"context"

	"github.com/labstack/echo/v4"
)

// KeyUserID is the key for storing the authenticated user's ID.
const KeyUserID ContextKey = "user_id"

// SetUserID binds the authenticated user ID to both the echo.Context and the request's context.Context.
func SetUserID(c echo.Context, userID uint) {
	c.Set(string(KeyUserID), userID)
	c.SetRequest(c.Request().WithContext(WithUserID(c.Request().Context(), userID)))
}

// GetUserID returns the user ID bound by the access guard.
func GetUserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get(string(KeyUserID)).(uint)

	return userID, ok && userID != 0
}

// WithUserID returns a new context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, KeyUserID, userID)
}

// GetUserIDFromContext extracts the authenticated user ID from standard context.Context.
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(KeyUserID).(uint)

	return userID, ok && userID != 0
}
