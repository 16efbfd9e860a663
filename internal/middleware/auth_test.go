package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pulsetrack/ingest-api/internal/config"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func identityApp() *fiber.App {
	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New()
	app.Post("/whoami", Identity(cfg), func(c *fiber.Ctx) error {
		if id := UserID(c); id != nil {
			return c.SendString(*id)
		}
		return c.SendString("anonymous")
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, header, body string) string {
	t.Helper()
	req := httptest.NewRequest("POST", "/whoami", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func TestIdentity_BearerToken(t *testing.T) {
	t.Parallel()

	app := identityApp()
	got := whoami(t, app, "Bearer "+signedToken(t, "u42"), `{}`)
	if got != "u42" {
		t.Errorf("identity = %q, want u42", got)
	}
}

func TestIdentity_BodyAccessToken(t *testing.T) {
	t.Parallel()

	app := identityApp()
	got := whoami(t, app, "", `{"accessToken":"`+signedToken(t, "u7")+`"}`)
	if got != "u7" {
		t.Errorf("identity = %q, want u7", got)
	}
}

func TestIdentity_NeverBlocks(t *testing.T) {
	t.Parallel()

	app := identityApp()

	// No token at all.
	if got := whoami(t, app, "", `{}`); got != "anonymous" {
		t.Errorf("no token: %q", got)
	}
	// Garbage token.
	if got := whoami(t, app, "Bearer not.a.jwt", `{}`); got != "anonymous" {
		t.Errorf("garbage token: %q", got)
	}
	// Token signed with the wrong key.
	wrong := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	s, _ := wrong.SignedString([]byte("other-secret"))
	if got := whoami(t, app, "Bearer "+s, `{}`); got != "anonymous" {
		t.Errorf("wrong key: %q", got)
	}
}
