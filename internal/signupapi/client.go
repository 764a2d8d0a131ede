// Package signupapi delivers completed signup drafts to the account service.
package signupapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zarlcorp/zsignup/internal/config"
	"github.com/zarlcorp/zsignup/internal/signup"
)

// Config holds the account service endpoint.
type Config struct {
	URL   string `env:"SIGNUP_URL"`
	Token string `env:"SIGNUP_TOKEN"`
}

// LoadConfig reads the endpoint settings from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load signup api config: %w", err)
	}
	return cfg, nil
}

// Configured reports whether a remote endpoint is set.
func (c Config) Configured() bool {
	return c.URL != ""
}

// Client posts drafts to the account service as JSON.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the configured endpoint.
func NewClient(cfg Config) *Client {
	return &Client{
		token:   cfg.Token,
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit posts d to /signup. Any 2xx status is success; anything else
// becomes an *Error carrying the service's message.
func (c *Client) Submit(ctx context.Context, d signup.Draft) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/signup", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &Error{StatusCode: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
}

// errorMessage pulls a human-readable message out of an error body,
// preferring "error" over "message" and falling back to the status text.
func errorMessage(raw []byte, status int) string {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(raw, &apiErr); err == nil {
		if msg := strings.TrimSpace(apiErr.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
	}
	return http.StatusText(status)
}

// Error is a rejection from the account service. Its message is meant to be
// shown to the user as is.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
