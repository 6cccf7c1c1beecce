// Package api implements the single configured HTTP client the rest of the
// application talks to the pharmacy API through. It attaches the persisted
// bearer token to every outgoing request and centralizes the base address;
// it does no retrying, no interpretation of error payloads, and never
// mutates session state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zephyrodes/farmacia/internal/api/metrics"
	"github.com/Zephyrodes/farmacia/internal/core/ports"
)

// Client implements ports.Requester over net/http.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenStore
	log     zerolog.Logger
}

// New builds a Client. timeout bounds each request; zero keeps the
// transport default, which is the documented policy.
func New(baseURL string, tokens ports.TokenStore, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// Do issues a single request. body is JSON-encoded when non-nil; a 2xx
// response is JSON-decoded into out when out is non-nil. Non-2xx responses
// become *Error carrying the payload untouched. Each call is fire-once.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, extra http.Header) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	c.authorize(req)

	return c.send(req, out)
}

// PostForm sends form-encoded credentials, as the token-issuing endpoint
// requires.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.authorize(req)

	return c.send(req, out)
}

// authorize attaches the persisted bearer token, if any. Caller-supplied
// headers other than Authorization are never touched.
func (c *Client) authorize(req *http.Request) {
	token, err := c.tokens.Load()
	if err != nil {
		c.log.Warn().Err(err).Msg("token store read failed, sending unauthenticated")
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) send(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(req.Method, "transport_error").Inc()
		return fmt.Errorf("api: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	metrics.RequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.RequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Status: resp.StatusCode,
			Method: req.Method,
			Path:   req.URL.Path,
			Body:   payload,
		}
		c.log.Debug().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Msg("request rejected")
		return apiErr
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}
