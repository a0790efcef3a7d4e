// Package telegram is a minimal Telegram Bot API client.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const DefaultBaseURL = "https://api.telegram.org"

// ErrAPI wraps a non-ok Bot API answer.
var ErrAPI = errors.New("telegram: api error")

// Bot is the subset of the Bot API the service uses.
type Bot interface {
	SendMessage(ctx context.Context, token string, chatID int64, text string) error
	SetWebhook(ctx context.Context, token, url, secret string) error
	DeleteWebhook(ctx context.Context, token string) error
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// MaxRetries caps retries on 429 and 5xx answers.
	MaxRetries uint64
	// Backoff is the first retry delay; it grows on a fibonacci sequence.
	Backoff time.Duration
}

type Client struct {
	baseURL string
	http    *http.Client
	retries uint64
	backoff time.Duration
}

func New(cfg Config) *Client {
	c := &Client{baseURL: cfg.BaseURL, http: cfg.HTTPClient, retries: cfg.MaxRetries, backoff: cfg.Backoff}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
	}
	if c.backoff <= 0 {
		c.backoff = 300 * time.Millisecond
	}
	return c
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

func (c *Client) SendMessage(ctx context.Context, token string, chatID int64, text string) error {
	return c.call(ctx, token, "sendMessage", map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	})
}

func (c *Client) SetWebhook(ctx context.Context, token, url, secret string) error {
	return c.call(ctx, token, "setWebhook", map[string]any{
		"url":             url,
		"secret_token":    secret,
		"allowed_updates": []string{"message"},
	})
}

func (c *Client) DeleteWebhook(ctx context.Context, token string) error {
	return c.call(ctx, token, "deleteWebhook", map[string]any{"drop_pending_updates": true})
}

func (c *Client) call(ctx context.Context, token, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b := retry.WithMaxRetries(c.retries, retry.WithCappedDuration(5*time.Second, retry.NewFibonacci(c.backoff)))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bot"+token+"/"+method, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("telegram: %s: %w", method, sanitize(err, token)))
		}
		defer resp.Body.Close()

		var out apiResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			out.Description = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode == http.StatusOK && out.OK {
			return nil
		}

		apiErr := fmt.Errorf("%w: %s: %d %s", ErrAPI, method, resp.StatusCode, out.Description)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(apiErr)
		}
		return apiErr
	})
}

// sanitize drops the url of transport errors, it embeds the bot token.
func sanitize(err error, token string) error {
	var uerr interface{ Unwrap() error }
	if token != "" && errors.As(err, &uerr) {
		if inner := uerr.Unwrap(); inner != nil {
			return inner
		}
	}
	return err
}
