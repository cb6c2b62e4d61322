package jwt

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the single name used to set, read and clear the session cookie.
const CookieName = "token"

// Cookies moves session tokens over an HTTP-only, same-site-strict cookie.
type Cookies struct {
	secure bool
}

// NewCookies returns a transport; secure marks the cookie HTTPS-only.
func NewCookies(secure bool) *Cookies {
	return &Cookies{secure: secure}
}

func (k *Cookies) Attach(c *fiber.Ctx, token string) {
	ck := k.base(token)
	ck.MaxAge = int(TokenTTL.Seconds())
	ck.Expires = time.Now().Add(TokenTTL)
	c.Cookie(ck)
}

// Clear tells the client to drop the cookie. It shares every attribute with
// Attach so the browser matches the same cookie.
func (k *Cookies) Clear(c *fiber.Ctx) {
	ck := k.base("")
	ck.Expires = time.Now().Add(-time.Hour)
	c.Cookie(ck)
}

func (k *Cookies) Read(c *fiber.Ctx) string {
	return c.Cookies(CookieName)
}

func (k *Cookies) base(value string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   k.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
