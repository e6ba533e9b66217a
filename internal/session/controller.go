// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"agentconsole/cli/internal/async"
	apperr "agentconsole/cli/internal/errors"

	"github.com/rs/zerolog"
)

// DefaultLoginError is recorded when a failed login carries no message at all.
const DefaultLoginError = "Login failed"

// API is the subset of the backend the session depends on.
type API interface {
	Login(ctx context.Context, email, password string) (string, error)
	ValidateAccessToken(ctx context.Context) (Identity, error)
}

// TokenStore persists the bearer credential.
type TokenStore interface {
	Set(token string) error
	Get() (string, bool)
	Clear() error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for session diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log.With().Str("component", "session").Logger() }
}

type credentials struct {
	email    string
	password string
}

// Controller owns the single session State of the process.
type Controller struct {
	api    API
	tokens TokenStore
	nav    Navigator
	log    zerolog.Logger
	signIn *async.Runner[credentials, Identity]

	// restoring counts Restore calls in flight; Expire stays quiet meanwhile.
	restoring atomic.Int32

	mu         sync.Mutex
	state      State
	version    uint64
	listeners  map[int]*listener
	nextID     int
	delivering bool
}

type listener struct {
	fn   func(State)
	seen uint64
}

// New creates a signed-out Controller. nav may be nil when no navigation is wanted.
func New(api API, tokens TokenStore, nav Navigator, opts ...Option) *Controller {
	c := &Controller{
		api:       api,
		tokens:    tokens,
		nav:       nav,
		log:       zerolog.Nop(),
		version:   1,
		listeners: make(map[int]*listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.signIn = async.New(c.authenticate)
	return c
}

// State returns the current session snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to be called with the new state after every change.
// Calls are serialized and always carry the latest state.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	return c.subscribe(fn, false)
}

func (c *Controller) subscribe(fn func(State), immediate bool) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	l := &listener{fn: fn, seen: c.version}
	if immediate {
		l.seen = 0
	}
	c.listeners[id] = l
	c.mu.Unlock()

	if immediate {
		c.publish()
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Restore validates a credential left over from a previous run. It reports
// whether the session ended up authenticated. A rejected credential is cleared
// and the session silently stays anonymous.
func (c *Controller) Restore(ctx context.Context) bool {
	if _, ok := c.tokens.Get(); !ok {
		return false
	}

	c.restoring.Add(1)
	defer c.restoring.Add(-1)
	c.dispatch(SetLoading(true))
	defer c.dispatch(SetLoading(false))

	id, err := c.api.ValidateAccessToken(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("stored credential rejected, continuing signed out")
		c.clearToken()
		c.dispatch(Logout())
		return false
	}
	c.dispatch(LoginSuccess(id))
	return true
}

// Login exchanges email and password for a credential, stores it and loads the
// identity it belongs to. On failure the message is recorded in State.Error and
// the normalized *errors.APIError is returned.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.dispatch(LoginStart())

	res := c.signIn.Run(ctx, credentials{email: email, password: password})
	if !res.Ok() {
		c.log.Debug().Err(res.Err).Str("email", email).Msg("login failed")
		c.dispatch(LoginError(loginErrorMessage(res.Err)))
		return res.Err
	}

	c.log.Debug().Int64("user_id", res.Value.ID).Msg("login succeeded")
	c.dispatch(LoginSuccess(res.Value))
	c.run(Navigate(RouteLanding))
	return nil
}

func (c *Controller) authenticate(ctx context.Context, cr credentials) (Identity, error) {
	token, err := c.api.Login(ctx, cr.email, cr.password)
	if err != nil {
		return Identity{}, err
	}
	if err := c.tokens.Set(token); err != nil {
		return Identity{}, fmt.Errorf("store credential: %w", err)
	}
	id, err := c.api.ValidateAccessToken(ctx)
	if err != nil {
		c.clearToken()
		return Identity{}, err
	}
	return id, nil
}

// Logout forgets the credential and returns to the login surface. It cannot fail.
func (c *Controller) Logout() {
	c.clearToken()
	c.dispatch(Logout())
	c.run(Navigate(RouteLogin))
}

// Expire is the unauthorized-response handler: the server no longer accepts the
// credential, so the session is torn down like Logout. While Restore is running
// the credential is dropped without a notice or navigation.
func (c *Controller) Expire() {
	if c.restoring.Load() > 0 {
		c.log.Debug().Msg("stored credential expired during restore")
		c.clearToken()
		c.dispatch(Logout())
		return
	}
	c.log.Info().Msg("session expired")
	c.Logout()
}

func (c *Controller) clearToken() {
	if err := c.tokens.Clear(); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear stored credential")
	}
}

func (c *Controller) dispatch(actions ...Action) {
	c.mu.Lock()
	for _, a := range actions {
		c.state = Reduce(c.state, a)
	}
	c.version++
	c.mu.Unlock()
	c.publish()
}

// publish brings every listener up to the latest state. Only one goroutine
// delivers at a time; a change committed meanwhile, including one made by a
// listener, is picked up by the next round of the same loop.
func (c *Controller) publish() {
	c.mu.Lock()
	if c.delivering {
		c.mu.Unlock()
		return
	}
	c.delivering = true
	for {
		s, v := c.state, c.version
		var due []func(State)
		for _, l := range c.listeners {
			if l.seen < v {
				l.seen = v
				due = append(due, l.fn)
			}
		}
		if len(due) == 0 {
			c.delivering = false
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		for _, fn := range due {
			fn(s)
		}

		c.mu.Lock()
	}
}

func (c *Controller) run(intents ...Intent) {
	for _, in := range intents {
		switch in.Kind {
		case IntentNavigate:
			if c.nav != nil {
				c.nav.Navigate(in.Route)
			}
		}
	}
}

// loginErrorMessage prefers the server's detail, then the error text.
func loginErrorMessage(err *apperr.APIError) string {
	if err == nil {
		return DefaultLoginError
	}
	if d := apperr.ServerMessage(err); d != "" {
		return d
	}
	if err.Err != nil && err.Err.Error() != "" {
		return err.Err.Error()
	}
	return DefaultLoginError
}
