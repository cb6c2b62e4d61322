package auth

import (
	"context"
	"errors"
	"fmt"
)

// Gate resolves a session token to a stored user. It holds no state between
// requests; the only revocation check is that the user still exists.
type Gate struct {
	tokens TokenVerifier
	users  UserRepository
}

func NewGate(tokens TokenVerifier, users UserRepository) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate returns the user behind token, or one of ErrAuthRequired,
// ErrInvalidToken, ErrUserNotFound. Any other error comes from the store.
func (g *Gate) Authenticate(ctx context.Context, token string) (User, error) {
	if token == "" {
		return User{}, ErrAuthRequired
	}
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return User{}, ErrInvalidToken
	}
	user, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("resolve session user: %w", err)
	}
	return user, nil
}
