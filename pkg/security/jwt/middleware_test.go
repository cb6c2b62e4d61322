package jwt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/accounts/pkg/auth"
	"github.com/artem13815/accounts/pkg/logging"
	"github.com/artem13815/accounts/pkg/repository/memory"
)

type gateFixture struct {
	app   *fiber.App
	users *memory.UserRepository
	gen   *Generator
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	users := memory.NewUserRepository()
	gen := NewGenerator(testSecret, "accounts-service")
	cookies := NewCookies(false)

	app := fiber.New()
	app.Get("/me", NewAuthMiddleware(auth.NewGate(gen, users), cookies, logging.Discard()), func(c *fiber.Ctx) error {
		u, ok := UserFromLocals(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.SendString(u.Email)
	})
	app.Post("/login", func(c *fiber.Ctx) error {
		cookies.Attach(c, "abc")
		return c.SendStatus(http.StatusOK)
	})
	app.Post("/logout", func(c *fiber.Ctx) error {
		cookies.Clear(c)
		return c.SendStatus(http.StatusOK)
	})
	return &gateFixture{app: app, users: users, gen: gen}
}

func (f *gateFixture) get(t *testing.T, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func messageOf(t *testing.T, body string) string {
	t.Helper()
	var m struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	assert.False(t, m.Success)
	return m.Message
}

func TestAuthMiddleware(t *testing.T) {
	f := newGateFixture(t)
	ctx := context.Background()
	user := auth.User{ID: uuid.New(), Email: "a@x.com"}
	require.NoError(t, f.users.Create(ctx, user))
	token, err := f.gen.Generate(ctx, user)
	require.NoError(t, err)

	status, body := f.get(t, token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@x.com", body)

	status, body = f.get(t, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication required", messageOf(t, body))

	status, body = f.get(t, "tampered")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", messageOf(t, body))

	f.users.Delete(user.ID)
	status, body = f.get(t, token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", messageOf(t, body))
}

func TestCookies_AttachAndClearShareAttributes(t *testing.T) {
	f := newGateFixture(t)

	resp, err := f.app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	set := resp.Cookies()
	require.Len(t, set, 1)
	assert.Equal(t, CookieName, set[0].Name)
	assert.Equal(t, "abc", set[0].Value)
	assert.True(t, set[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, set[0].SameSite)
	assert.Equal(t, "/", set[0].Path)
	assert.Equal(t, int(TokenTTL.Seconds()), set[0].MaxAge)

	resp, err = f.app.Test(httptest.NewRequest(http.MethodPost, "/logout", nil), -1)
	require.NoError(t, err)
	cleared := resp.Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, CookieName, cleared[0].Name)
	assert.Empty(t, cleared[0].Value)
	assert.True(t, cleared[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cleared[0].SameSite)
	assert.Equal(t, "/", cleared[0].Path)
}

func TestCookies_SecureFlag(t *testing.T) {
	for _, secure := range []bool{true, false} {
		cookies := NewCookies(secure)
		app := fiber.New()
		app.Post("/login", func(c *fiber.Ctx) error {
			cookies.Attach(c, "abc")
			return c.SendStatus(http.StatusOK)
		})
		app.Post("/logout", func(c *fiber.Ctx) error {
			cookies.Clear(c)
			return c.SendStatus(http.StatusOK)
		})

		for _, path := range []string{"/login", "/logout"} {
			resp, err := app.Test(httptest.NewRequest(http.MethodPost, path, nil), -1)
			require.NoError(t, err)
			set := resp.Cookies()
			require.Len(t, set, 1)
			assert.Equal(t, secure, set[0].Secure, "%s secure=%v", path, secure)
		}
	}
}
