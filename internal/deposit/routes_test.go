package deposit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"tg-topup/internal/provider"
)

func newAPIApp(svc *Service) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/api"), svc)
	return app
}

func TestRoutes_CreateDeposit(t *testing.T) {
	store := newFakeStore()
	prov := &fakeProvider{addr: provider.Address{Address: "T1abc", TrackID: "TRK1", QRCode: "https://qr"}}
	svc, _, _ := newTestService(store, prov)
	app := newAPIApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/deposits",
		bytes.NewReader([]byte(`{"chat_id":"U1","amount":50}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	if body["address"] != "T1abc" || body["track_id"] != "TRK1" {
		t.Fatalf("unexpected response: %v", body)
	}

	stored, _ := store.FindByTrackID("TRK1")
	if stored == nil || stored.Amount != 50 || stored.Status != StatusPending {
		t.Fatalf("expected pending record with requested amount, got %+v", stored)
	}
}

func TestRoutes_CreateDepositRequiresChatID(t *testing.T) {
	svc, _, _ := newTestService(newFakeStore(), &fakeProvider{})
	app := newAPIApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/deposits", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRoutes_CreateDepositProviderDown(t *testing.T) {
	prov := &fakeProvider{err: &provider.RequestError{Message: "connection refused"}}
	svc, _, _ := newTestService(newFakeStore(), prov)
	app := newAPIApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/deposits",
		bytes.NewReader([]byte(`{"chat_id":"U1"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503 when address issuance fails, got %d", resp.StatusCode)
	}
}

func TestRoutes_Balance(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store, &fakeProvider{})
	seedPending(t, store, "TRK1")
	if _, err := store.UpdateIf("TRK1", StatusPending, StatusPaid, 25.5); err != nil {
		t.Fatalf("update: %v", err)
	}
	app := newAPIApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/balance/U1", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var body map[string]float64
	json.NewDecoder(resp.Body).Decode(&body)
	if body["balance"] != 25.5 {
		t.Fatalf("expected balance 25.5, got %v", body["balance"])
	}
}
