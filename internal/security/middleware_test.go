package security

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func guardedApp(h fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Post("/webhook", h, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookGuard_ValidSignature(t *testing.T) {
	app := guardedApp(WebhookGuard("s3cret"))
	body := []byte(`{"track_id":"TRK1"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("HMAC", sign("s3cret", body))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestWebhookGuard_RejectsBadSignature(t *testing.T) {
	app := guardedApp(WebhookGuard("s3cret"))
	body := []byte(`{"track_id":"TRK1"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("HMAC", sign("wrong-secret", body))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestWebhookGuard_RejectsMissingSignature(t *testing.T) {
	app := guardedApp(WebhookGuard("s3cret"))

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(`{}`)))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestWebhookGuard_EmptySecretDisablesVerification(t *testing.T) {
	app := guardedApp(WebhookGuard(""))

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(`{}`)))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAPIKeyGuard(t *testing.T) {
	app := guardedApp(APIKeyGuard("k1"))

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(nil))
	req.Header.Set("X-API-Key", "k1")
	resp, _ := app.Test(req)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 with valid key, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(nil))
	req.Header.Set("X-API-Key", "nope")
	resp, _ = app.Test(req)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 with bad key, got %d", resp.StatusCode)
	}
}
