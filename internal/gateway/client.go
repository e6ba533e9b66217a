// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package gateway is the single HTTP client every backend call goes through.
// It attaches the stored bearer credential to outgoing requests, and when the backend
// answers 401 it clears the credential and notifies the session layer before
// returning the failure to the caller. It never retries and never reshapes errors
// beyond HTTPError.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"agentconsole/cli/internal/logging"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every request when no other timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is kept on HTTPError.
const maxErrorBody = 64 << 10

// TokenStore is the credential accessor the gateway reads and clears.
type TokenStore interface {
	Get() (string, bool)
	Clear() error
}

// Client implements the request gateway over REST endpoints.
type Client struct {
	// baseURL is the backend origin all paths are resolved against
	baseURL *url.URL
	// http carries the auth transport and the configured timeout
	http   *http.Client
	tokens TokenStore
	log    zerolog.Logger

	mu             sync.RWMutex
	onUnauthorized func()
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("component", "gateway").Logger() }
}

// WithTransport replaces the underlying transport the auth transport delegates to.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if at, ok := c.http.Transport.(*authTransport); ok {
			at.base = rt
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if at, ok := c.http.Transport.(*authTransport); ok {
			at.userAgent = ua
		}
	}
}

// New creates a gateway for baseURL reading credentials from tokens.
func New(baseURL string, tokens TokenStore, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	if tokens == nil {
		return nil, errors.New("gateway requires a token store")
	}

	c := &Client{
		baseURL: u,
		tokens:  tokens,
		log:     zerolog.Nop(),
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: &authTransport{base: http.DefaultTransport, tokens: tokens, userAgent: "agentconsole-cli"},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// OnUnauthorized registers the handler run after a 401 cleared the credential.
// It replaces any previously registered handler.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// Get issues GET path and decodes the JSON response into out (when non-nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues POST path with in encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

// Put issues PUT path with in encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, path, in, out)
}

// Delete issues DELETE path.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs one request. Non-2xx responses return *HTTPError; transport failures
// return *TransportError. A 401 clears the token store and runs the unauthorized
// handler before the error is returned.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(requestIDHeader, uuid.NewString())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(errors.New(logging.Mask(err.Error()))).Str("method", method).Str("path", path).
			Dur("elapsed", time.Since(start)).Msg("request failed")
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get(requestIDHeader)).Dur("elapsed", time.Since(start)).Msg("response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := newHTTPError(method, path, resp)
		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized()
		}
		return httpErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// handleUnauthorized clears the credential and forces the session back to the login surface.
func (c *Client) handleUnauthorized() {
	if err := c.tokens.Clear(); err != nil {
		c.log.Warn().Err(err).Msg("clear access token after 401")
	}
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}
