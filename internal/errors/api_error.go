package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultMessage is used when a failure carries no text at all.
const DefaultMessage = "An error occurred"

// APIError is the normalized form of a failed network or HTTP operation.
// It is produced per operation and never persisted.
type APIError struct {
	Message    string
	StatusCode int
	Timestamp  time.Time
	Kind       Kind
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// statusCarrier is implemented by errors that know the HTTP status they came from.
type statusCarrier interface {
	HTTPStatus() int
}

// Normalize reduces any error to an APIError stamped with at.
// The message is the error's own text, falling back to DefaultMessage; the status
// code is the HTTP status when the error carries one, else 500.
// An error that already wraps an APIError keeps its message, status and kind
// but is restamped with at on a copy.
func Normalize(err error, at time.Time) *APIError {
	if err == nil {
		return nil
	}
	var existing *APIError
	if stderrors.As(err, &existing) {
		restamped := *existing
		restamped.Timestamp = at
		return &restamped
	}

	out := &APIError{
		Message:    err.Error(),
		StatusCode: http.StatusInternalServerError,
		Timestamp:  at,
		Kind:       Unknown,
		Err:        err,
	}
	if out.Message == "" {
		out.Message = DefaultMessage
	}

	var sc statusCarrier
	if stderrors.As(err, &sc) && sc.HTTPStatus() > 0 {
		out.StatusCode = sc.HTTPStatus()
		out.Kind = HTTP
		if out.StatusCode == http.StatusUnauthorized {
			out.Kind = Unauthorized
		}
		return out
	}

	var te transportError
	if stderrors.As(err, &te) && te.Transport() {
		out.Kind = Network
	}
	return out
}

// transportError is implemented by errors raised before any HTTP response arrived.
type transportError interface {
	Transport() bool
}

// ServerMessage returns the human-readable detail the backend attached to err, if any.
func ServerMessage(err error) string {
	var sm interface{ ServerMessage() string }
	if stderrors.As(err, &sm) {
		return sm.ServerMessage()
	}
	return ""
}
