// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package async_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"agentconsole/cli/internal/async"
	apperr "agentconsole/cli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type httpFailure struct{ code int }

func (e httpFailure) Error() string   { return "request failed" }
func (e httpFailure) HTTPStatus() int { return e.code }

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestExecuteSuccess(t *testing.T) {
	var changes []async.State
	var got string
	r := async.New(func(_ context.Context, name string) (string, error) {
		return "hello " + name, nil
	},
		async.WithInitialData("none"),
		async.OnSuccess(func(v string) { got = v }),
		async.OnChange(func(s async.OperationState[string]) { changes = append(changes, s.State) }),
	)

	require.Equal(t, async.Idle, r.Snapshot().State)
	require.Equal(t, "none", r.Snapshot().Data)

	v, err := r.Execute(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, "hello ada", v)
	assert.Equal(t, "hello ada", got)

	snap := r.Snapshot()
	assert.Equal(t, async.Success, snap.State)
	assert.Equal(t, "hello ada", snap.Data)
	assert.Nil(t, snap.Err)
	assert.Equal(t, []async.State{async.Loading, async.Success}, changes)
}

func TestExecuteFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantStatus int
	}{
		{"plain error", errors.New("boom"), "boom", http.StatusInternalServerError},
		{"empty message", errors.New(""), apperr.DefaultMessage, http.StatusInternalServerError},
		{"http status", httpFailure{code: http.StatusNotFound}, "request failed", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *apperr.APIError
			r := async.New(func(context.Context, int) (int, error) {
				return 0, tt.err
			},
				async.WithInitialData(42),
				async.WithClock[int](clock),
				async.OnError[int](func(e *apperr.APIError) { seen = e }),
			)

			_, err := r.Execute(context.Background(), 1)
			require.Error(t, err)

			var apiErr *apperr.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, fixedNow, apiErr.Timestamp)
			assert.ErrorIs(t, err, tt.err)
			assert.Same(t, apiErr, seen)

			snap := r.Snapshot()
			assert.Equal(t, async.Error, snap.State)
			assert.Equal(t, 42, snap.Data, "data is left unchanged on failure")
			assert.Same(t, apiErr, snap.Err)
		})
	}
}

func TestRunReturnsTaggedResult(t *testing.T) {
	r := async.New(func(_ context.Context, fail bool) (string, error) {
		if fail {
			return "", errors.New("nope")
		}
		return "ok", nil
	})

	res := r.Run(context.Background(), false)
	assert.True(t, res.Ok())
	assert.Equal(t, "ok", res.Value)

	res = r.Run(context.Background(), true)
	assert.False(t, res.Ok())
	assert.Equal(t, "nope", res.Err.Message)
	assert.False(t, res.Stale)
}

func TestLoadingClearsPreviousError(t *testing.T) {
	release := make(chan struct{})
	var calls int
	r := async.New(func(ctx context.Context, _ struct{}) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("first fails")
		}
		<-release
		return 7, nil
	})

	_, err := r.Execute(context.Background(), struct{}{})
	require.Error(t, err)
	require.Equal(t, async.Error, r.Snapshot().State)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = r.Execute(context.Background(), struct{}{})
	}()

	require.Eventually(t, func() bool {
		return r.Snapshot().State == async.Loading
	}, time.Second, time.Millisecond)
	assert.Nil(t, r.Snapshot().Err)

	close(release)
	<-done
	assert.Equal(t, async.Success, r.Snapshot().State)
	assert.Equal(t, 7, r.Snapshot().Data)
}

func TestResetFromAnyState(t *testing.T) {
	r := async.New(func(_ context.Context, fail bool) (string, error) {
		if fail {
			return "", errors.New("x")
		}
		return "value", nil
	}, async.WithInitialData("initial"))

	r.Reset()
	assert.Equal(t, async.OperationState[string]{Data: "initial", State: async.Idle}, r.Snapshot())

	_, _ = r.Execute(context.Background(), false)
	r.Reset()
	assert.Equal(t, async.OperationState[string]{Data: "initial", State: async.Idle}, r.Snapshot())

	_, _ = r.Execute(context.Background(), true)
	r.Reset()
	assert.Equal(t, async.OperationState[string]{Data: "initial", State: async.Idle}, r.Snapshot())
}

// gated returns an action that blocks each call until its argument's gate is closed.
func gated(gates map[string]chan struct{}, started *sync.WaitGroup) func(context.Context, string) (string, error) {
	return func(_ context.Context, key string) (string, error) {
		started.Done()
		<-gates[key]
		return key, nil
	}
}

func TestConcurrentExecuteLastSettleWins(t *testing.T) {
	gates := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
	var started sync.WaitGroup
	started.Add(2)
	r := async.New(gated(gates, &started))

	firstDone := make(chan struct{})
	secondDone := make(chan struct{})
	go func() { defer close(firstDone); _, _ = r.Execute(context.Background(), "first") }()
	go func() { defer close(secondDone); _, _ = r.Execute(context.Background(), "second") }()
	started.Wait()

	close(gates["second"])
	<-secondDone
	assert.Equal(t, "second", r.Snapshot().Data)

	close(gates["first"])
	<-firstDone

	snap := r.Snapshot()
	assert.Equal(t, async.Success, snap.State)
	assert.Equal(t, "first", snap.Data, "the call that settled last owns the state")
}

func TestSupersedingKeepsLatestCall(t *testing.T) {
	gates := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
	var started sync.WaitGroup

	var successes []string
	r := async.New(gated(gates, &started),
		async.Superseding[string](),
		async.OnSuccess(func(v string) { successes = append(successes, v) }),
	)

	firstDone := make(chan async.Result[string], 1)
	started.Add(1)
	go func() { firstDone <- r.Run(context.Background(), "first") }()
	started.Wait()

	secondDone := make(chan async.Result[string], 1)
	started.Add(1)
	go func() { secondDone <- r.Run(context.Background(), "second") }()
	started.Wait()

	close(gates["second"])
	second := <-secondDone
	assert.False(t, second.Stale)

	close(gates["first"])
	first := <-firstDone
	assert.True(t, first.Stale)
	assert.Equal(t, "first", first.Value, "the caller still receives its own value")

	assert.Equal(t, "second", r.Snapshot().Data)
	assert.Equal(t, []string{"second"}, successes)
}

func TestChangeDeliveryIsSerialized(t *testing.T) {
	var (
		mu          sync.Mutex
		active      int
		maxActive   int
		seen        []async.State
		calls       int
		firstInside = make(chan struct{})
		resume      = make(chan struct{})
	)
	onChange := func(s async.OperationState[int]) {
		mu.Lock()
		active++
		maxActive = max(maxActive, active)
		seen = append(seen, s.State)
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(firstInside)
			<-resume
		}
		mu.Lock()
		active--
		mu.Unlock()
	}

	slow := make(chan struct{})
	r := async.New(func(_ context.Context, n int) (int, error) {
		if n == 1 {
			<-slow
		}
		return n, nil
	}, async.OnChange(onChange))

	done := make(chan struct{})
	go func() { defer close(done); _, _ = r.Execute(context.Background(), 1) }()
	<-firstInside

	// committed while the first delivery is still running
	v, err := r.Execute(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	close(resume)
	close(slow)
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxActive, "OnChange never runs concurrently")
	require.NotEmpty(t, seen)
	assert.Equal(t, async.Loading, seen[0])
	snap := r.Snapshot()
	assert.Equal(t, async.Success, snap.State)
	assert.Equal(t, 1, snap.Data)
	assert.Equal(t, snap.State, seen[len(seen)-1], "the observer ends on the runner's state")
}

func TestResetDiscardsInFlightCompletion(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	var successCalls int
	r := async.New(func(context.Context, int) (int, error) {
		close(started)
		<-gate
		return 99, nil
	},
		async.WithInitialData(-1),
		async.OnSuccess(func(int) { successCalls++ }),
	)

	done := make(chan async.Result[int], 1)
	go func() { done <- r.Run(context.Background(), 0) }()
	<-started

	r.Reset()
	close(gate)
	res := <-done

	assert.True(t, res.Stale)
	assert.Equal(t, async.OperationState[int]{Data: -1, State: async.Idle}, r.Snapshot())
	assert.Zero(t, successCalls)
}

func TestReleaseMakesCompletionNoop(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	var callbacks int
	r := async.New(func(context.Context, int) (int, error) {
		close(started)
		<-gate
		return 0, errors.New("late failure")
	},
		async.OnError[int](func(*apperr.APIError) { callbacks++ }),
		async.OnChange(func(async.OperationState[int]) { callbacks++ }),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := r.Execute(context.Background(), 0)
		assert.Error(t, err, "the caller still observes the failure")
	}()
	<-started
	before := callbacks

	r.Release()
	close(gate)
	<-done

	assert.Equal(t, before, callbacks)
	assert.Equal(t, async.Loading, r.Snapshot().State)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", async.Idle.String())
	assert.Equal(t, "loading", async.Loading.String())
	assert.Equal(t, "success", async.Success.String())
	assert.Equal(t, "error", async.Error.String())
	assert.Equal(t, "unknown", async.State(9).String())
}
