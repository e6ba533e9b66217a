package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"agentconsole/cli/internal/async"
	apperr "agentconsole/cli/internal/errors"
	"agentconsole/cli/internal/httperrors"
	"agentconsole/cli/internal/session"
	"agentconsole/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

// reportedError marks a failure that was already shown to the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// terminalNavigator renders navigation intents as terminal messages.
// Repeated navigation to the route already shown is ignored.
type terminalNavigator struct {
	mu       sync.Mutex
	w        io.Writer
	current  session.Route
	identity func() *session.Identity
}

func newTerminalNavigator(w io.Writer) *terminalNavigator {
	return &terminalNavigator{w: w}
}

// at records r as already on screen, e.g. while the login prompt is shown.
func (n *terminalNavigator) at(r session.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = r
}

func (n *terminalNavigator) Navigate(r session.Route) {
	n.mu.Lock()
	if n.current == r {
		n.mu.Unlock()
		return
	}
	n.current = r
	n.mu.Unlock()

	switch r {
	case session.RouteLogin:
		fmt.Fprintln(n.w, "🔒 You're not logged in.")
		fmt.Fprintln(n.w, "   Run 'agentconsole login' to get started.")
	case session.RouteLanding:
		who := "there"
		if n.identity != nil {
			if u := n.identity(); u != nil {
				who = displayName(*u)
			}
		}
		fmt.Fprintf(n.w, "🎉 Welcome, %s!\n", who)
	}
}

func displayName(u session.Identity) string {
	switch {
	case u.Email != "":
		return u.Email
	case u.Name != "":
		return u.Name
	}
	return fmt.Sprintf("user %d", u.ID)
}

// startSpinner shows an animated spinner with text until the returned function
// is called. Nothing is drawn when stdout is not a terminal.
func startSpinner(text string) func() {
	if !terminal.IsInteractive(os.Stdout) {
		return func() {}
	}
	cursor.Hide()
	sp, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(text)
	if err != nil {
		cursor.Show()
		return func() {}
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			_ = sp.Stop()
			cursor.Show()
		})
	}
}

// requireSession validates the stored credential and fails when nobody is signed in.
// A spinner is shown while the check is pending.
func requireSession(ctx context.Context, a *app) error {
	var stop func()
	cancel := a.session.Guard(func(acc session.Access) {
		if acc == session.AccessPending {
			stop = startSpinner("Checking session")
			return
		}
		if stop != nil {
			stop()
			stop = nil
		}
	})
	a.session.Restore(ctx)
	cancel()
	if stop != nil {
		stop()
	}

	if session.AccessFor(a.session.State()) != session.AccessGranted {
		a.nav.Navigate(session.RouteLogin)
		return reported(apperr.New(apperr.Unauthorized, "not logged in"))
	}
	return nil
}

// runOperation runs fn through an async.Runner so the spinner and failure
// notice follow the operation's state. what describes the action, e.g. "listing agents".
func runOperation[T any](ctx context.Context, a *app, what string, fn func(context.Context) (T, error)) (T, error) {
	var stop func()
	r := async.New(
		func(ctx context.Context, _ struct{}) (T, error) { return fn(ctx) },
		async.OnChange(func(s async.OperationState[T]) {
			if s.State == async.Loading {
				stop = startSpinner(upperFirst(what) + "...")
				return
			}
			if stop != nil {
				stop()
				stop = nil
			}
		}),
		async.OnError[T](func(e *apperr.APIError) { reportFailure(a, what, e) }),
	)
	defer r.Release()

	v, err := r.Execute(ctx, struct{}{})
	if err != nil {
		return v, reported(err)
	}
	return v, nil
}

// reportFailure shows e the way that suits its kind.
func reportFailure(a *app, what string, e *apperr.APIError) {
	switch e.Kind {
	case apperr.Network:
		_ = httperrors.FormatNetworkError(e.Err, what)
	case apperr.Unauthorized:
		// the session controller already sent the user to the login surface
		a.log.Debug().Err(e).Msg("request rejected as unauthorized")
	default:
		a.toast.APIError(e)
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
