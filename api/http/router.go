package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/accounts/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app. requireSession gates
// the routes that need a logged-in user.
func Register(app *fiber.App, auth *handlers.AuthHandler, health *handlers.HealthHandler, requireSession fiber.Handler) {
	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", health.Health)
	api.Get("/ready", health.Ready)

	a := api.Group("/auth")
	a.Post("/signup", auth.Signup)
	a.Post("/login", auth.Login)
	a.Post("/logout", auth.Logout)
	a.Put("/update-profile", requireSession, auth.UpdateProfile)
	a.Get("/check", requireSession, auth.Check)
}
