package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/artem13815/accounts/pkg/auth"
	"github.com/artem13815/accounts/pkg/logging"
	"github.com/artem13815/accounts/pkg/repository/memory"
)

type fakeTokens struct{}

func (fakeTokens) Generate(_ context.Context, u auth.User) (string, error) {
	return "token-" + u.ID.String(), nil
}

type fakeUploader struct {
	mu    sync.Mutex
	url   string
	err   error
	delay time.Duration
	srcs  []string
}

func (f *fakeUploader) Upload(ctx context.Context, src string) (string, error) {
	f.mu.Lock()
	f.srcs = append(f.srcs, src)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.url, f.err
}

// racingRepo reports no existing user on lookup, so the unique index has to
// catch the duplicate.
type racingRepo struct {
	*memory.UserRepository
}

func (racingRepo) GetByEmail(context.Context, string) (auth.User, error) {
	return auth.User{}, auth.ErrNotFound
}

func newService(t *testing.T, repo auth.UserRepository, images auth.ImageUploader) auth.AuthUseCase {
	t.Helper()
	return auth.NewAuthService(repo, auth.NewBcryptHasher(bcrypt.MinCost), fakeTokens{}, images, logging.Discard(), 50*time.Millisecond)
}

func validSignup() auth.SignupInput {
	return auth.SignupInput{FirstName: "Ann", LastName: "Lee", Email: "A@X.com ", Password: "Abc12345!"}
}

func TestSignup_CreatesUser(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newService(t, repo, nil)

	res, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", res.User.Email)
	assert.Equal(t, "Ann", res.User.FirstName)
	assert.Equal(t, "token-"+res.User.ID.String(), res.Token)
	assert.NotEqual(t, "Abc12345!", res.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("Abc12345!")))
	assert.Equal(t, 1, repo.Len())
}

func TestSignup_ValidationErrors(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newService(t, repo, nil)

	in := validSignup()
	in.Password = "short1!"
	_, err := svc.Signup(context.Background(), in)

	var verr auth.ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "password")
	assert.Zero(t, repo.Len())
}

func TestSignup_DuplicateEmailIgnoresCase(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newService(t, repo, nil)
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	in := validSignup()
	in.Email = "a@x.COM"
	_, err = svc.Signup(ctx, in)

	assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
	assert.Equal(t, 1, repo.Len())
}

func TestSignup_UniqueIndexRaceMapsToConflict(t *testing.T) {
	mem := memory.NewUserRepository()
	svc := newService(t, racingRepo{mem}, nil)
	ctx := context.Background()

	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)
	_, err = svc.Signup(ctx, validSignup())

	assert.ErrorIs(t, err, auth.ErrUserAlreadyExists)
	assert.Equal(t, 1, mem.Len())
}

func TestLogin(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newService(t, repo, nil)
	ctx := context.Background()
	created, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	res, err := svc.Login(ctx, auth.LoginInput{Email: " A@x.com", Password: "Abc12345!"})
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newService(t, repo, nil)
	ctx := context.Background()
	_, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, auth.LoginInput{Email: "a@x.com", Password: "Abc12345?"})
	_, unknownEmail := svc.Login(ctx, auth.LoginInput{Email: "nobody@x.com", Password: "Abc12345!"})

	assert.ErrorIs(t, wrongPassword, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, auth.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_ValidationErrors(t *testing.T) {
	svc := newService(t, memory.NewUserRepository(), nil)

	_, err := svc.Login(context.Background(), auth.LoginInput{Email: "bad"})

	var verr auth.ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr, "email")
	assert.Contains(t, verr, "password")
}

func TestUpdateProfile_PartialPatch(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newService(t, repo, nil)
	ctx := context.Background()
	created, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	name := "Anna"
	u, err := svc.UpdateProfile(ctx, created.User.ID, auth.ProfilePatch{FirstName: &name})
	require.NoError(t, err)

	assert.Equal(t, "Anna", u.FirstName)
	assert.Equal(t, "Lee", u.LastName)
	assert.Equal(t, "a@x.com", u.Email)
}

func TestUpdateProfile_EmptyPatchReturnsCurrentUser(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newService(t, repo, nil)
	ctx := context.Background()
	created, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	u, err := svc.UpdateProfile(ctx, created.User.ID, auth.ProfilePatch{})
	require.NoError(t, err)
	assert.Equal(t, created.User.FirstName, u.FirstName)
}

func TestUpdateProfile_UploadsImage(t *testing.T) {
	repo := memory.NewUserRepository()
	images := &fakeUploader{url: "https://cdn.example.com/profile_images/1.jpg"}
	svc := newService(t, repo, images)
	ctx := context.Background()
	created, err := svc.Signup(ctx, validSignup())
	require.NoError(t, err)

	src := "data:image/png;base64,AAAA"
	u, err := svc.UpdateProfile(ctx, created.User.ID, auth.ProfilePatch{ProfileImg: &src})
	require.NoError(t, err)

	assert.Equal(t, images.url, u.ProfileImg)
	assert.Equal(t, []string{src}, images.srcs)
}

func TestUpdateProfile_UploadFailureLeavesUserUntouched(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		images auth.ImageUploader
	}{
		{"upload error", &fakeUploader{err: errors.New("boom")}},
		{"upload timeout", &fakeUploader{url: "late", delay: time.Second}},
		{"no image host", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewUserRepository()
			svc := newService(t, repo, tt.images)
			created, err := svc.Signup(ctx, validSignup())
			require.NoError(t, err)

			name := "Anna"
			src := "data:image/png;base64,AAAA"
			_, err = svc.UpdateProfile(ctx, created.User.ID, auth.ProfilePatch{FirstName: &name, ProfileImg: &src})
			assert.ErrorIs(t, err, auth.ErrUploadFailed)

			stored, err := repo.GetByID(ctx, created.User.ID)
			require.NoError(t, err)
			assert.Equal(t, "Ann", stored.FirstName)
			assert.Empty(t, stored.ProfileImg)
		})
	}
}

func TestUpdateProfile_Errors(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newService(t, repo, nil)
	ctx := context.Background()

	name := "Anna"
	_, err := svc.UpdateProfile(ctx, uuid.New(), auth.ProfilePatch{FirstName: &name})
	assert.ErrorIs(t, err, auth.ErrNotFound)

	blank := ""
	_, err = svc.UpdateProfile(ctx, uuid.New(), auth.ProfilePatch{LastName: &blank})
	var verr auth.ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Last name is required", verr["lastName"])
}

// recordingHasher remembers which hashes Verify was asked to compare.
type recordingHasher struct {
	auth.PasswordHasher
	hashErr  error
	mu       sync.Mutex
	verified []string
}

func (h *recordingHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return h.PasswordHasher.Hash(password)
}

func (h *recordingHasher) Verify(password, hash string) bool {
	h.mu.Lock()
	h.verified = append(h.verified, hash)
	h.mu.Unlock()
	return h.PasswordHasher.Verify(password, hash)
}

func TestLogin_UnknownEmailStillComparesAHash(t *testing.T) {
	tests := []struct {
		name    string
		hashErr error
		cost    int
	}{
		{"hasher placeholder", nil, bcrypt.MinCost},
		{"fallback placeholder when hashing fails", errors.New("entropy exhausted"), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := &recordingHasher{PasswordHasher: auth.NewBcryptHasher(bcrypt.MinCost), hashErr: tt.hashErr}
			svc := auth.NewAuthService(memory.NewUserRepository(), hasher, fakeTokens{}, nil, logging.Discard(), time.Second)

			_, err := svc.Login(context.Background(), auth.LoginInput{Email: "nobody@x.com", Password: "Abc12345!"})
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

			require.Len(t, hasher.verified, 1)
			cost, err := bcrypt.Cost([]byte(hasher.verified[0]))
			require.NoError(t, err)
			assert.Equal(t, tt.cost, cost)
		})
	}
}
