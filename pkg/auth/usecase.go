package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/accounts/pkg/logging"
)

// DefaultUploadTimeout bounds a single profile image upload.
const DefaultUploadTimeout = 15 * time.Second

// fallbackPlaceholderHash is a valid cost-12 bcrypt hash of no account's
// password, used when the hasher cannot produce its own placeholder.
const fallbackPlaceholderHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AuthUseCase describes authentication and account behavior.
type AuthUseCase interface {
	Signup(ctx context.Context, in SignupInput) (AuthResult, error)
	Login(ctx context.Context, in LoginInput) (AuthResult, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (User, error)
}

type AuthResult struct {
	User  User
	Token string
}

type authService struct {
	repo          UserRepository
	hasher        PasswordHasher
	tokens        TokenGenerator
	images        ImageUploader
	log           logging.Logger
	uploadTimeout time.Duration

	// placeholderHash is compared against on unknown emails so a miss costs
	// as much as a wrong password.
	placeholderHash string
}

// NewAuthService returns default implementation of AuthUseCase. images may be
// nil, in which case every profile image update fails with ErrUploadFailed.
func NewAuthService(
	repo UserRepository,
	hasher PasswordHasher,
	tokens TokenGenerator,
	images ImageUploader,
	log logging.Logger,
	uploadTimeout time.Duration,
) AuthUseCase {
	if uploadTimeout <= 0 {
		uploadTimeout = DefaultUploadTimeout
	}
	placeholder, err := hasher.Hash(uuid.NewString())
	if err != nil || placeholder == "" {
		placeholder = fallbackPlaceholderHash
	}
	return &authService{
		repo:            repo,
		hasher:          hasher,
		tokens:          tokens,
		images:          images,
		log:             log,
		uploadTimeout:   uploadTimeout,
		placeholderHash: placeholder,
	}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	v := ValidateSignup(in)
	if !v.IsValid {
		return AuthResult{}, v.Errors
	}
	in = v.Sanitized

	// Best-effort check; the store's unique index settles races.
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return AuthResult{}, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return AuthResult{}, fmt.Errorf("lookup email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := User{
		ID:           uuid.New(),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			s.log.Warn(ctx, "signup lost uniqueness race", "email", user.Email)
			return AuthResult{}, ErrUserAlreadyExists
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	s.log.Info(ctx, "user signed up", "user_id", user.ID.String())
	return AuthResult{User: user, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	v := ValidateLogin(in)
	if !v.IsValid {
		return AuthResult{}, v.Errors
	}
	in = v.Sanitized

	user, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.hasher.Verify(in.Password, s.placeholderHash)
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup email: %w", err)
	}
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *authService) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (User, error) {
	v := ValidateProfileUpdate(patch)
	if !v.IsValid {
		return User{}, v.Errors
	}
	patch = v.Sanitized

	if patch.ProfileImg != nil {
		url, err := s.upload(ctx, *patch.ProfileImg)
		if err != nil {
			s.log.Error(ctx, "profile image upload failed", "user_id", id.String(), "error", err)
			return User{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		patch.ProfileImg = &url
	}

	if patch.Empty() {
		return s.repo.GetByID(ctx, id)
	}
	user, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *authService) upload(ctx context.Context, src string) (string, error) {
	if s.images == nil {
		return "", errors.New("image host is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()
	return s.images.Upload(ctx, src)
}
