package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cruisedesk/sales-service/config"
)

// client is the shared plumbing of all backend clients: pooled transport,
// tenancy header, service auth, and backend error extraction.
type client struct {
	baseURL    string
	httpClient *http.Client
	jwtSecret  string
}

func newClient(baseURL, jwtSecret string, cfg *config.Backends) client {
	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     time.Duration(cfg.IdleConnTimeout) * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return client{
		baseURL:   baseURL,
		jwtSecret: jwtSecret,
		httpClient: &http.Client{
			Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
			Transport: transport,
		},
	}
}

// backendError mirrors the error payloads of the platform services: gin-style
// {error, message} or FastAPI-style {detail}.
type backendError struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

// do issues the request and decodes a JSON response into out (skipped when
// out is nil). Non-2xx responses are turned into errors carrying the
// backend's own message, falling back to the raw body.
func (c *client) do(ctx context.Context, method, path, companyID string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Auth", c.jwtSecret)
	if companyID != "" {
		req.Header.Set("X-Company-Id", companyID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.asError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *client) asError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var payload backendError
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return fmt.Errorf("backend error (status %d): %s", resp.StatusCode, payload.Message)
		}
		if len(payload.Detail) > 0 {
			var detail string
			if err := json.Unmarshal(payload.Detail, &detail); err == nil {
				return fmt.Errorf("backend error (status %d): %s", resp.StatusCode, detail)
			}
			return fmt.Errorf("backend error (status %d): %s", resp.StatusCode, string(payload.Detail))
		}
		if payload.Error != "" {
			return fmt.Errorf("backend error (status %d): %s", resp.StatusCode, payload.Error)
		}
	}

	return fmt.Errorf("backend error (status %d): %s", resp.StatusCode, string(raw))
}
