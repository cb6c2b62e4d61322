package jwt

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/accounts/pkg/auth"
	"github.com/artem13815/accounts/pkg/logging"
)

// LocalsUser is the c.Locals key holding the authenticated auth.User.
const LocalsUser = "user"

// NewAuthMiddleware returns a Fiber middleware that reads the session cookie,
// resolves it through the gate and either short-circuits with 401/500 or
// stores the user under LocalsUser and continues.
func NewAuthMiddleware(gate *auth.Gate, cookies *Cookies, log logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := gate.Authenticate(c.Context(), cookies.Read(c))
		switch {
		case err == nil:
			c.Locals(LocalsUser, user)
			return c.Next()
		case errors.Is(err, auth.ErrAuthRequired):
			return deny(c, http.StatusUnauthorized, "Authentication required")
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUserNotFound):
			return deny(c, http.StatusUnauthorized, "Invalid token")
		default:
			log.Error(c.Context(), "authentication failed", "error", err)
			return deny(c, http.StatusInternalServerError, "Internal server error")
		}
	}
}

// UserFromLocals returns the user stored by the auth middleware.
func UserFromLocals(c *fiber.Ctx) (auth.User, bool) {
	u, ok := c.Locals(LocalsUser).(auth.User)
	return u, ok
}

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}
