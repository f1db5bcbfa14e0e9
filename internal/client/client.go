// Package client talks to the Fappie HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/fappie/backend/internal/model/conversation"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrBackend      = errors.New("generation failed")
)

// APIError is a non-2xx response. It matches ErrUnauthorized, ErrBadRequest or
// ErrBackend through errors.Is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrBadRequest:
		return e.Status == http.StatusBadRequest
	case ErrBackend:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// Client keeps the session cookie between calls.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New creates a client for the server at baseURL. Generation has no client
// side deadline; cancel ctx to abandon a call.
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: u,
		http: &http.Client{
			Jar:       jar,
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment, IdleConnTimeout: 90 * time.Second},
		},
	}, nil
}

// Login exchanges the password for a session cookie.
func (c *Client) Login(ctx context.Context, password string) error {
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/api/auth", map[string]string{"password": password}, &out); err != nil {
		return err
	}
	if !out.Success {
		return &APIError{Status: http.StatusUnauthorized}
	}
	return nil
}

// Logout clears the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/api/logout", struct{}{}, nil)
}

type generateResponse struct {
	Result *string `json:"result"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	Chat   string  `json:"chat"`
}

// Generate sends req; the response shape tells plain from structured replies.
func (c *Client) Generate(ctx context.Context, req conversation.GenerateRequest) (conversation.Reply, error) {
	var out generateResponse
	if err := c.post(ctx, "/api/generate", req, &out); err != nil {
		return conversation.Reply{}, err
	}

	if out.Result != nil {
		return conversation.Reply{Text: *out.Result}, nil
	}
	return conversation.Reply{
		Title:      out.Title,
		Body:       out.Body,
		Chat:       out.Chat,
		Structured: true,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String()+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
