package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/accounts/api/http/presenter"
	"github.com/artem13815/accounts/pkg/auth"
	"github.com/artem13815/accounts/pkg/logging"
	"github.com/artem13815/accounts/pkg/security/jwt"
)

type AuthHandler struct {
	useCase      auth.AuthUseCase
	cookies      *jwt.Cookies
	log          logging.Logger
	exposeErrors bool
}

// NewAuthHandler builds the account endpoints. exposeErrors adds raw error
// text to 500 responses and must only be set in development.
func NewAuthHandler(useCase auth.AuthUseCase, cookies *jwt.Cookies, log logging.Logger, exposeErrors bool) *AuthHandler {
	return &AuthHandler{useCase: useCase, cookies: cookies, log: log, exposeErrors: exposeErrors}
}

type signupRequest struct {
	FirstName string `json:"firstName" example:"Ann"`
	LastName  string `json:"lastName" example:"Lee"`
	Email     string `json:"email" example:"ann@example.com"`
	Password  string `json:"password" example:"Abc12345!"`
}

type loginRequest struct {
	Email    string `json:"email" example:"ann@example.com"`
	Password string `json:"password" example:"Abc12345!"`
}

type updateProfileRequest struct {
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	ProfileImg *string `json:"profileImg,omitempty" example:"data:image/png;base64,iVBORw0KGgo..."`
}

type sessionData struct {
	User  presenter.User `json:"user"`
	Token string         `json:"token,omitempty"`
}

// Signup handles user registration.
// @Summary Sign up
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body signupRequest true "signup payload"
// @Success 201 {object} presenter.Envelope{data=sessionData}
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid JSON payload")
	}

	result, err := h.useCase.Signup(c.Context(), auth.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return h.fail(c, "signup", err)
	}

	h.cookies.Attach(c, result.Token)
	return presenter.Success(c, http.StatusCreated, "User created successfully", sessionData{
		User:  presenter.NewUser(result.User),
		Token: result.Token,
	})
}

// Login handles user login.
// @Summary Log in
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} presenter.Envelope{data=sessionData}
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid JSON payload")
	}

	result, err := h.useCase.Login(c.Context(), auth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return h.fail(c, "login", err)
	}

	h.cookies.Attach(c, result.Token)
	return presenter.Success(c, http.StatusOK, "Login successful", sessionData{
		User:  presenter.NewUser(result.User),
		Token: result.Token,
	})
}

// Logout clears the session cookie. Tokens are stateless, so nothing is
// revoked server-side.
// @Summary Log out
// @Tags    auth
// @Produce json
// @Success 200 {object} presenter.Envelope
// @Router  /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookies.Clear(c)
	return presenter.Success(c, http.StatusOK, "Logout successful", nil)
}

// UpdateProfile applies a partial profile update for the session user.
// @Summary Update profile
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body updateProfileRequest true "fields to change"
// @Security CookieAuth
// @Success 200 {object} presenter.Envelope{data=sessionData}
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /auth/update-profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := jwt.UserFromLocals(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "Authentication required")
	}
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "Invalid JSON payload")
	}

	updated, err := h.useCase.UpdateProfile(c.Context(), user.ID, auth.ProfilePatch{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		ProfileImg: req.ProfileImg,
	})
	if err != nil {
		return h.fail(c, "update profile", err)
	}
	return presenter.Success(c, http.StatusOK, "Profile updated successfully", sessionData{User: presenter.NewUser(updated)})
}

// Check returns the user behind the session cookie.
// @Summary Check session
// @Tags    auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} presenter.Envelope{data=sessionData}
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/check [get]
func (h *AuthHandler) Check(c *fiber.Ctx) error {
	user, ok := jwt.UserFromLocals(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "Authentication required")
	}
	return presenter.Success(c, http.StatusOK, "Authenticated", sessionData{User: presenter.NewUser(user)})
}

func (h *AuthHandler) fail(c *fiber.Ctx, op string, err error) error {
	var verr auth.ValidationErrors
	switch {
	case errors.As(err, &verr):
		return presenter.ValidationFailed(c, verr)
	case errors.Is(err, auth.ErrUserAlreadyExists):
		return presenter.Error(c, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return presenter.Error(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrUploadFailed):
		return presenter.Error(c, http.StatusBadRequest, "Failed to upload profile image")
	case errors.Is(err, auth.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "User not found")
	default:
		h.log.Error(c.Context(), op+" failed", "error", err)
		return presenter.Internal(c, err, h.exposeErrors)
	}
}
