package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned by Verify when the token's exp claim is in the past.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid is returned by Verify for bad signatures, algorithms or claims.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload carried by an access token.
type Claims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited identity tokens.
// Tokens are stateless: expiry is the only way they stop being valid.
type TokenService interface {
	// Issue creates a token for userID using the configured time-to-live.
	Issue(userID uint) (string, error)

	// IssueWithTTL creates a token for userID that expires after ttl.
	IssueWithTTL(userID uint, ttl time.Duration) (string, error)

	// Verify checks the token signature and expiry and returns its claims.
	// It fails with ErrTokenExpired or ErrTokenInvalid.
	Verify(token string) (*Claims, error)
}
