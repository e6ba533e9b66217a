// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, plus APIError: the normalized shape every failed backend
// operation is reduced to before it is shown to the user or stored in UI state.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// Network indicates the request never produced an HTTP response.
	Network Kind = "network"
	// HTTP indicates the backend answered with a non-2xx status.
	HTTP Kind = "http"
	// Unauthorized indicates the backend rejected the credential (HTTP 401).
	Unauthorized Kind = "unauthorized"
	// Unknown covers failures that carry no transport or status information.
	Unknown Kind = "unknown"
	// InvalidInput indicates bad command-line input caught before any request.
	InvalidInput Kind = "invalid_input"
	// StorageUnavailable indicates the OS credential store could not be opened.
	StorageUnavailable Kind = "storage_unavailable"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }
