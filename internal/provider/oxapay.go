package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const requestTimeout = 15 * time.Second

// Address is the normalized result of a static-address allocation.
type Address struct {
	Address string
	TrackID string
	QRCode  string
}

// RequestError carries the provider's message for a failed allocation.
// Callers always receive it as an error value, never a panic.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider: %s (status %d)", e.Message, e.Status)
	}
	return "provider: " + e.Message
}

type Client struct {
	apiKey   string
	baseURL  string
	network  string
	currency string
	http     *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		network:  "TRON",
		currency: "USDT",
		http:     &http.Client{Timeout: requestTimeout},
	}
}

type apiResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Address string `json:"address"`
		TrackID any    `json:"track_id"`
		QRCode  string `json:"qr_code"`
	} `json:"data"`
}

// RequestAddress allocates a receiving address for orderID. It performs no
// retries and leaves no local state behind on failure.
func (c *Client) RequestAddress(ctx context.Context, orderID string) (Address, error) {
	payload := map[string]any{
		"network":         c.network,
		"to_currency":     c.currency,
		"auto_withdrawal": false,
		"order_id":        orderID,
		"description":     "Deposit for " + orderID,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return Address{}, &RequestError{Message: err.Error()}
	}
	req.Header.Set("merchant_api_key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Address{}, &RequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Address{}, &RequestError{Status: resp.StatusCode, Message: "unexpected HTTP status"}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var out apiResponse
	if err := dec.Decode(&out); err != nil {
		return Address{}, &RequestError{Message: "invalid response body"}
	}

	if out.Status != 200 || out.Data.Address == "" {
		msg := out.Message
		if msg == "" {
			msg = "no address returned"
		}
		return Address{}, &RequestError{Status: out.Status, Message: msg}
	}

	return Address{
		Address: out.Data.Address,
		TrackID: trackIDString(out.Data.TrackID),
		QRCode:  out.Data.QRCode,
	}, nil
}

// track_id has been observed both as a string and as a number.
func trackIDString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}
