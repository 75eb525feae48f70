package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"coaching-admin-client/internal/config"
	"coaching-admin-client/internal/credentials"
	"coaching-admin-client/internal/logger"
	"coaching-admin-client/internal/model"
	"coaching-admin-client/pkg/errors"

	"github.com/rs/zerolog"
)

// Client is the single path to the backend: it attaches the bearer token,
// enforces the per-attempt timeout, retries transport-level failures with
// capped exponential backoff, and unwraps the {success,data,message}
// envelope. Authorization failures never retry.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	creds      credentials.Provider
	log        zerolog.Logger
}

func NewClient(cfg *config.Config, creds credentials.Provider) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Backend.RequestTimeout,
		},
		creds: creds,
		log:   logger.Component("rest"),
	}
}

// Get fetches path and decodes the envelope's data field into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.DoJSON(ctx, http.MethodGet, path, nil, out)
}

// DoJSON sends body (marshalled as JSON when non-nil) and decodes the
// envelope's data field into out when out is non-nil.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}
	return c.do(ctx, method, path, payload, "application/json", out)
}

// DoMultipart sends fields plus file parts as multipart/form-data. Files
// may be empty; on edit forms an omitted part means the server keeps the
// stored attachment.
func (c *Client) DoMultipart(ctx context.Context, method, path string, fields map[string]string, files []FilePart, out interface{}) error {
	payload, contentType, err := BuildMultipart(fields, files)
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	return c.do(ctx, method, path, payload, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, contentType string, out interface{}) error {
	// Missing credentials block the call before any network I/O.
	token, err := c.creds.GetToken(ctx)
	if err != nil {
		return err
	}

	url := c.cfg.Backend.BaseURL + path

	var lastErr error
	for attempt := 0; attempt < c.cfg.Backend.RetryAttempts; attempt++ {
		if attempt > 0 {
			delay := c.cfg.Backend.RetryDelay * time.Duration(1<<uint(attempt-1))
			if delay > c.cfg.Backend.RetryMaxDelay {
				delay = c.cfg.Backend.RetryMaxDelay
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			c.log.Warn().Err(lastErr).Int("attempt", attempt+1).Str("path", path).Msg("Retrying request")
		}

		err := c.attempt(ctx, method, url, payload, contentType, token, out)
		if err == nil {
			return nil
		}
		if !errors.IsRetryable(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("max retries exhausted for %s %s: %w", method, path, lastErr)
}

func (c *Client) attempt(ctx context.Context, method, url string, payload []byte, contentType, token string, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewRetryableError(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		// Auth failures fail fast, retrying with the same token is pointless.
		return c.envelopeError(resp)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return errors.NewRetryableError(fmt.Errorf("HTTP %d", resp.StatusCode), "backend unavailable")
	}

	var envelope model.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		if resp.StatusCode >= 500 {
			return errors.NewRetryableError(fmt.Errorf("HTTP %d", resp.StatusCode), "backend error")
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		return errors.NewAPIError(resp.StatusCode, envelope.Message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) envelopeError(resp *http.Response) error {
	var envelope model.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.NewAPIError(resp.StatusCode, "")
	}
	return errors.NewAPIError(resp.StatusCode, envelope.Message)
}
