package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// pollTimeout must stay under the HTTP client timeout.
const pollTimeout = 10

type Client struct {
	token string
	base  string
	http  *http.Client
}

func New(token string) *Client {
	return &Client{
		token: token,
		base:  defaultBaseURL,
		http:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SendMessage(chatID, text string) error {
	return c.call("sendMessage", map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "MarkdownV2",
	})
}

func (c *Client) SendPhoto(chatID, photoURL, caption string) error {
	return c.call("sendPhoto", map[string]any{
		"chat_id": chatID,
		"photo":   photoURL,
		"caption": caption,
	})
}

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	Text string `json:"text"`
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
}

// GetUpdates long-polls the bot API starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	payload := map[string]any{"offset": offset, "timeout": pollTimeout}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("getUpdates"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out struct {
		OK     bool     `json:"ok"`
		Result []Update `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, fmt.Errorf("telegram: getUpdates not ok")
	}
	return out.Result, nil
}

func (c *Client) call(method string, payload map[string]any) error {
	body, _ := json.Marshal(payload)

	resp, err := c.http.Post(c.url(method), "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var out struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if !out.OK {
		return fmt.Errorf("telegram: %s: %s", method, out.Description)
	}
	return nil
}

func (c *Client) url(method string) string {
	return c.base + "/bot" + c.token + "/" + method
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]",
	"(", "\\(", ")", "\\)", "~", "\\~", "`", "\\`",
	">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}",
	".", "\\.", "!", "\\!",
)

// EscapeMarkdown escapes the MarkdownV2 reserved characters.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
