// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gateway

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const requestIDHeader = "X-Request-ID"

// authTransport injects the bearer credential and ambient headers into every request.
type authTransport struct {
	base      http.RoundTripper
	tokens    TokenStore
	userAgent string
}

// RoundTrip implements http.RoundTripper. The caller's request is never mutated.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/json")
	}
	if t.userAgent != "" {
		r.Header.Set("User-Agent", t.userAgent)
	}
	if r.Header.Get(requestIDHeader) == "" {
		r.Header.Set(requestIDHeader, uuid.NewString())
	}

	if token, ok := t.tokens.Get(); ok {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(r)
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}
