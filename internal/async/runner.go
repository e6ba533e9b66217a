// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package async tracks the lifecycle of one-shot asynchronous operations.
//
// A Runner wraps an action and records its progress as an OperationState: idle,
// loading, success or error, together with the latest data and the normalized
// failure. Commands use it to drive spinners and notifications without repeating
// the bookkeeping around every backend call.
package async

import (
	"context"
	"sync"
	"time"

	apperr "agentconsole/cli/internal/errors"
)

// State is the phase an operation is in.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "unknown"
}

// OperationState is a snapshot of a Runner.
type OperationState[T any] struct {
	Data  T
	State State
	Err   *apperr.APIError
}

// Result is the tagged outcome of a single invocation.
type Result[T any] struct {
	Value T
	Err   *apperr.APIError
	// Stale is set when the outcome was discarded because Reset or a newer
	// superseding call happened while it was in flight.
	Stale bool
}

// Ok reports whether the invocation succeeded.
func (r Result[T]) Ok() bool { return r.Err == nil }

// Func is the wrapped asynchronous action.
type Func[A, T any] func(ctx context.Context, arg A) (T, error)

// Runner executes a Func and tracks its OperationState. It is safe for concurrent use.
type Runner[A, T any] struct {
	fn  Func[A, T]
	cfg config[T]

	mu         sync.Mutex
	state      OperationState[T]
	epoch      uint64
	released   bool
	version    uint64
	delivered  uint64
	delivering bool
}

// New wraps fn in a Runner starting idle with the configured initial data.
func New[A, T any](fn func(ctx context.Context, arg A) (T, error), opts ...Option[T]) *Runner[A, T] {
	cfg := config[T]{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Runner[A, T]{
		fn:    fn,
		cfg:   cfg,
		state: OperationState[T]{Data: cfg.initial, State: Idle},
	}
}

// Snapshot returns the current state.
func (r *Runner[A, T]) Snapshot() OperationState[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Execute invokes the action once. On failure the returned error is always an
// *errors.APIError, after the runner state and the OnError callback saw it.
func (r *Runner[A, T]) Execute(ctx context.Context, arg A) (T, error) {
	res := r.Run(ctx, arg)
	if res.Err != nil {
		return res.Value, res.Err
	}
	return res.Value, nil
}

// Run invokes the action once and returns its tagged result.
//
// Concurrent calls are neither queued nor de-duplicated: whichever settles last
// owns the final state, unless the runner was built with Superseding. A call that
// was in flight across Reset never touches the state.
func (r *Runner[A, T]) Run(ctx context.Context, arg A) Result[T] {
	startedAt := r.cfg.now()

	r.mu.Lock()
	if r.cfg.supersede {
		r.epoch++
	}
	epoch := r.epoch
	if !r.released {
		r.state.State = Loading
		r.state.Err = nil
		r.version++
	}
	r.mu.Unlock()
	r.notify()

	value, err := r.fn(ctx, arg)

	res := Result[T]{Value: value}
	if err != nil {
		res.Err = apperr.Normalize(err, startedAt)
	}

	r.mu.Lock()
	if r.released || epoch != r.epoch {
		r.mu.Unlock()
		res.Stale = true
		return res
	}
	if res.Err != nil {
		r.state.State = Error
		r.state.Err = res.Err
	} else {
		r.state.State = Success
		r.state.Data = value
	}
	r.version++
	r.mu.Unlock()

	r.notify()
	if res.Err != nil {
		if r.cfg.onError != nil {
			r.cfg.onError(res.Err)
		}
	} else if r.cfg.onSuccess != nil {
		r.cfg.onSuccess(value)
	}
	return res
}

// Reset returns the runner to idle with the initial data and no error.
// Calls still in flight are not cancelled but their outcome is discarded.
func (r *Runner[A, T]) Reset() {
	r.mu.Lock()
	r.epoch++
	r.state = OperationState[T]{Data: r.cfg.initial, State: Idle}
	if !r.released {
		r.version++
	}
	r.mu.Unlock()
	r.notify()
}

// Release detaches the runner from its owner. Later completions are dropped
// and no callbacks fire.
func (r *Runner[A, T]) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
}

// notify hands OnChange the latest state. One goroutine delivers at a time; a
// change committed meanwhile is picked up by the same loop.
func (r *Runner[A, T]) notify() {
	if r.cfg.onChange == nil {
		return
	}
	r.mu.Lock()
	if r.delivering {
		r.mu.Unlock()
		return
	}
	r.delivering = true
	for !r.released && r.delivered < r.version {
		s := r.state
		r.delivered = r.version
		r.mu.Unlock()

		r.cfg.onChange(s)

		r.mu.Lock()
	}
	r.delivering = false
	r.mu.Unlock()
}
