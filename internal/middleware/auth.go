package middleware

import (
	"strings"

	json "github.com/goccy/go-json"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pulsetrack/ingest-api/internal/config"
)

const userIDKey = "user_id"

// Identity derives an optional user identity from `Authorization: Bearer` or
// the body field `accessToken`. It never blocks: a missing token, a bad
// signature or absent claims all resolve to an anonymous request.
func Identity(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = bodyAccessToken(c)
		}
		if token == "" {
			return c.Next()
		}

		if id := resolveUserID(token, cfg.JWTSecret); id != "" {
			c.Locals(userIDKey, id)
		}
		return c.Next()
	}
}

// UserID returns the derived user identity, nil for anonymous requests.
func UserID(c *fiber.Ctx) *string {
	if id, ok := c.Locals(userIDKey).(string); ok && id != "" {
		return &id
	}
	return nil
}

// JWTProtected guards the ops surface; unlike Identity it rejects requests
// without a valid token.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "unauthorized: invalid or expired token",
			})
		},
	})
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

func bodyAccessToken(c *fiber.Ctx) string {
	body := c.Body()
	if len(body) == 0 {
		return ""
	}
	var partial struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &partial); err != nil {
		return ""
	}
	return partial.AccessToken
}

func resolveUserID(token, secret string) string {
	if secret == "" {
		return ""
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}
