package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"tg-topup/internal/deposit"
)

// ErrMissingTrackID means the payload carried no usable track id anywhere.
// The request is malformed and must not be retried by the provider.
var ErrMissingTrackID = errors.New("webhook: missing track id")

// The provider delivers several payload shapes: flat, nested under "data",
// and occasionally amounts only inside a "txs" list. Each field is resolved
// by probing a fixed priority order of locations; first match wins.
var (
	trackIDPaths = [][]string{{"track_id"}, {"data", "track_id"}}
	statusPaths  = [][]string{{"status"}, {"data", "status"}}
	amountPaths  = [][]string{{"paid_amount"}, {"amount"}, {"data", "paid_amount"}, {"data", "amount"}}
)

// Normalize maps an untyped webhook body onto the canonical notification.
// It is a pure transform: no persistence, no side effects.
func Normalize(body []byte) (deposit.Notification, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return deposit.Notification{}, ErrMissingTrackID
	}

	trackID := firstString(raw, trackIDPaths)
	if trackID == "" {
		return deposit.Notification{}, ErrMissingTrackID
	}

	// A missing status is an intermediate update, not an error.
	status := firstString(raw, statusPaths)

	amount := firstNumber(raw, amountPaths)
	if amount == 0 {
		amount = firstTxAmount(raw)
	}

	return deposit.Notification{TrackID: trackID, Status: status, Amount: amount}, nil
}

func firstString(raw map[string]interface{}, paths [][]string) string {
	for _, path := range paths {
		if v, ok := lookup(raw, path); ok {
			if s := asString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstNumber(raw map[string]interface{}, paths [][]string) float64 {
	for _, path := range paths {
		if v, ok := lookup(raw, path); ok {
			if f, ok := asNumber(v); ok && f != 0 {
				return f
			}
		}
	}
	return 0
}

// firstTxAmount falls back to the received amount of the first entry in the
// sub-transaction list, when one is present.
func firstTxAmount(raw map[string]interface{}) float64 {
	txs, ok := raw["txs"].([]interface{})
	if !ok || len(txs) == 0 {
		return 0
	}
	first, ok := txs[0].(map[string]interface{})
	if !ok {
		return 0
	}
	if f, ok := asNumber(first["received_amount"]); ok {
		return f
	}
	return 0
}

func lookup(raw map[string]interface{}, path []string) (interface{}, bool) {
	var v interface{} = raw
	for _, key := range path {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if v, ok = m[key]; !ok {
			return nil, false
		}
	}
	return v, true
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	}
	return ""
}

func asNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}
