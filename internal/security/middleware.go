package security

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
)

func APIKeyGuard(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("X-API-Key") != apiKey {
			return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}

// WebhookGuard verifies the provider's HMAC-SHA512 body signature. An empty
// secret disables verification.
func WebhookGuard(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		mac := hmac.New(sha512.New, []byte(secret))
		mac.Write(c.Body())
		want := hex.EncodeToString(mac.Sum(nil))

		sig := c.Get("HMAC")
		if sig == "" || !hmac.Equal([]byte(sig), []byte(want)) {
			return c.Status(401).JSON(fiber.Map{"error": "bad signature"})
		}
		return c.Next()
	}
}
