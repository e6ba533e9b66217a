package async

import (
	"time"

	apperr "agentconsole/cli/internal/errors"
)

type config[T any] struct {
	initial   T
	onSuccess func(T)
	onError   func(*apperr.APIError)
	onChange  func(OperationState[T])
	now       func() time.Time
	supersede bool
}

// Option configures a Runner.
type Option[T any] func(*config[T])

// WithInitialData sets the data the runner starts with and returns to on Reset.
func WithInitialData[T any](v T) Option[T] {
	return func(c *config[T]) { c.initial = v }
}

// OnSuccess is called after a successful invocation updated the state.
func OnSuccess[T any](fn func(T)) Option[T] {
	return func(c *config[T]) { c.onSuccess = fn }
}

// OnError is called after a failed invocation updated the state.
func OnError[T any](fn func(*apperr.APIError)) Option[T] {
	return func(c *config[T]) { c.onError = fn }
}

// OnChange is called with every new state, outside the runner's lock.
func OnChange[T any](fn func(OperationState[T])) Option[T] {
	return func(c *config[T]) { c.onChange = fn }
}

// WithClock replaces time.Now for error timestamps.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *config[T]) {
		if now != nil {
			c.now = now
		}
	}
}

// Superseding makes every new call invalidate the ones still in flight,
// so only the most recently started call may update the state.
func Superseding[T any]() Option[T] {
	return func(c *config[T]) { c.supersede = true }
}
