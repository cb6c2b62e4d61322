package presenter

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/accounts/pkg/auth"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	// Error carries the raw error text in development only.
	Error string `json:"error,omitempty"`
}

// ErrorResponse documents failure bodies.
type ErrorResponse struct {
	Success bool              `json:"success" example:"false"`
	Message string            `json:"message" example:"Invalid credentials"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// User is the outward view of auth.User; the password hash never leaves the service.
type User struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	ProfileImg string    `json:"profileImg"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewUser(u auth.User) User {
	return User{
		ID:         u.ID.String(),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		ProfileImg: u.ProfileImg,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Success(c *fiber.Ctx, status int, message string, data any) error {
	return JSON(c, status, Envelope{Success: true, Message: message, Data: data})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, Envelope{Message: message})
}

func ValidationFailed(c *fiber.Ctx, errs map[string]string) error {
	return JSON(c, http.StatusBadRequest, Envelope{Message: "Validation failed", Errors: errs})
}

// Internal reports a 500; err's text is included only when expose is set.
func Internal(c *fiber.Ctx, err error, expose bool) error {
	body := Envelope{Message: "Internal server error"}
	if expose && err != nil {
		body.Error = err.Error()
	}
	return JSON(c, http.StatusInternalServerError, body)
}

// ErrorHandler is the Fiber fallback for errors escaping handlers, including
// recovered panics and framework errors such as 404 routes.
func ErrorHandler(expose bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < http.StatusInternalServerError {
			return Error(c, fe.Code, fe.Message)
		}
		return Internal(c, err, expose)
	}
}
