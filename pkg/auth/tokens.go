package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrInvalidToken = errors.New("invalid token")
	ErrUserNotFound = errors.New("user not found")
)

// Claims is the identity carried inside a session token.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

// TokenGenerator abstracts token creation (e.g., JWT).
// It allows use cases to stay framework-agnostic.
type TokenGenerator interface {
	Generate(ctx context.Context, user User) (string, error)
}

// TokenVerifier checks a token and returns its claims, or ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (Claims, error)
}
