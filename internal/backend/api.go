// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides typed access to the agentconsole backend service.
// It covers authentication, the health probe and CRUD over the managed resources.
// Every call goes through a Requester, normally the shared *gateway.Client, so the
// bearer credential and 401 handling are applied uniformly.
package backend

import (
	"context"
	"errors"
	"net/http"
)

// Requester performs one JSON round trip against the backend.
// *gateway.Client implements it.
type Requester interface {
	Do(ctx context.Context, method, path string, in, out any) error
}

// ErrNoAccessToken is returned when a successful login response carries no token.
var ErrNoAccessToken = errors.New("login response did not include an access token")

// HTTP implements the backend calls over REST endpoints.
type HTTP struct {
	// rq sends requests through the shared gateway
	rq        Requester
	endpoints Endpoints
}

// New creates a backend client using the default endpoint paths.
func New(rq Requester) *HTTP {
	return NewWithEndpoints(rq, DefaultEndpoints())
}

// NewWithEndpoints creates a backend client with custom endpoint paths.
// Empty paths fall back to their defaults.
func NewWithEndpoints(rq Requester, endpoints Endpoints) *HTTP {
	return &HTTP{rq: rq, endpoints: endpoints.withDefaults()}
}

// Endpoints returns the paths this client talks to.
func (h *HTTP) Endpoints() Endpoints { return h.endpoints }

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login calls POST /login and returns the issued access token.
func (h *HTTP) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	if err := h.rq.Do(ctx, http.MethodPost, h.endpoints.Login, loginRequest{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	return out.AccessToken, nil
}

// ValidateAccessToken calls GET /validate-access-token and returns the user the
// current credential belongs to.
func (h *HTTP) ValidateAccessToken(ctx context.Context) (User, error) {
	var u User
	if err := h.rq.Do(ctx, http.MethodGet, h.endpoints.ValidateToken, nil, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Health is the payload of the health probe.
type Health struct {
	Status    string    `json:"status"`
	Timestamp Timestamp `json:"timestamp"`
	Version   string    `json:"version"`
}

// Health calls GET /health. No authentication is required.
func (h *HTTP) Health(ctx context.Context) (Health, error) {
	var out Health
	if err := h.rq.Do(ctx, http.MethodGet, h.endpoints.Health, nil, &out); err != nil {
		return Health{}, err
	}
	if out.Version == "" {
		out.Version = "unknown"
	}
	return out, nil
}

// Agents returns the /agents collection.
func (h *HTTP) Agents() *Collection[Agent] { return NewCollection[Agent](h.rq, h.endpoints.Agents) }

// Projects returns the /projects collection.
func (h *HTTP) Projects() *Collection[Project] {
	return NewCollection[Project](h.rq, h.endpoints.Projects)
}

// Tools returns the /tools collection.
func (h *HTTP) Tools() *Collection[Tool] { return NewCollection[Tool](h.rq, h.endpoints.Tools) }

// Toolkits returns the /toolkits collection.
func (h *HTTP) Toolkits() *Collection[Toolkit] {
	return NewCollection[Toolkit](h.rq, h.endpoints.Toolkits)
}

// Resources returns the /resources collection.
func (h *HTTP) Resources() *Collection[Resource] {
	return NewCollection[Resource](h.rq, h.endpoints.Resources)
}

// Configs returns the /configs collection.
func (h *HTTP) Configs() *Collection[Config] {
	return NewCollection[Config](h.rq, h.endpoints.Configs)
}

// Organisations returns the /organisations collection.
func (h *HTTP) Organisations() *Collection[Organisation] {
	return NewCollection[Organisation](h.rq, h.endpoints.Organisations)
}

// Users returns the /users collection.
func (h *HTTP) Users() *Collection[User] { return NewCollection[User](h.rq, h.endpoints.Users) }
