package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUploadFailed       = errors.New("profile image upload failed")
)

// UserRepository abstracts persistence concerns from the domain layer.
// Implementations must enforce email uniqueness themselves and report a
// violation as ErrUserAlreadyExists.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// Update applies the non-nil fields of patch and returns the stored user.
	Update(ctx context.Context, id uuid.UUID, patch ProfilePatch) (User, error)
}

// ImageUploader stores a profile image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, src string) (string, error)
}
