// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnauthorized matches any HTTPError with status 401.
var ErrUnauthorized = errors.New("unauthorized")

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	// Body is the raw response body, truncated to 64 KiB
	Body []byte
	// Detail is the backend's human-readable reason, when it sent one
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Status)
}

// HTTPStatus returns the response status code.
func (e *HTTPError) HTTPStatus() int { return e.StatusCode }

// ServerMessage returns the backend-supplied detail.
func (e *HTTPError) ServerMessage() string { return e.Detail }

// Is reports 401 responses as ErrUnauthorized.
func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

func newHTTPError(method, path string, resp *http.Response) *HTTPError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Status:     status,
		Body:       body,
		Detail:     extractDetail(body),
	}
}

// extractDetail pulls the reason out of the backend's error payload.
// It understands {"detail": "..."}, validation lists {"detail": [{"msg": "..."}]},
// and {"message": "..."}; anything else yields the trimmed body when it is short plain text.
func extractDetail(body []byte) string {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		text := strings.TrimSpace(string(body))
		if len(text) > 200 || strings.HasPrefix(text, "<") {
			return ""
		}
		return text
	}

	switch d := raw["detail"].(type) {
	case string:
		return strings.TrimSpace(d)
	case []any:
		var msgs []string
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if s, ok := m["msg"].(string); ok && s != "" {
					msgs = append(msgs, s)
				}
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	if m, ok := raw["message"].(string); ok {
		return strings.TrimSpace(m)
	}
	return ""
}

// TransportError is returned when no HTTP response was received.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Transport marks the error as a network-level failure.
func (e *TransportError) Transport() bool { return true }
