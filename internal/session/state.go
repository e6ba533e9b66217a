// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session owns the client's belief about who is signed in.
//
// State changes only through Reduce, driven by the Controller's operations
// (startup validation, login, logout and expiry on 401). Side effects such as
// navigation are returned as intents and executed by a Navigator after the new
// state is committed, so the state machine stays testable without a terminal.
package session

import "agentconsole/cli/internal/backend"

// Identity is the authenticated user's record as returned by the backend.
type Identity = backend.User

// State is the session snapshot. IsAuthenticated implies User is set and Error is empty.
type State struct {
	User            *Identity
	IsLoading       bool
	IsAuthenticated bool
	Error           string
}

// Phase is the coarse session status derived from State.
type Phase int

const (
	PhaseAnonymous Phase = iota
	PhaseAuthenticating
	PhaseAuthenticated
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseFailed:
		return "error"
	}
	return "unknown"
}

// Phase reports the phase s is in.
func (s State) Phase() Phase {
	switch {
	case s.IsLoading:
		return PhaseAuthenticating
	case s.IsAuthenticated:
		return PhaseAuthenticated
	case s.Error != "":
		return PhaseFailed
	}
	return PhaseAnonymous
}

// ActionType names a state transition.
type ActionType string

const (
	ActionLoginStart   ActionType = "LOGIN_START"
	ActionLoginSuccess ActionType = "LOGIN_SUCCESS"
	ActionLoginError   ActionType = "LOGIN_ERROR"
	ActionLogout       ActionType = "LOGOUT"
	ActionSetLoading   ActionType = "SET_LOADING"
)

// Action is the only way to change a State.
type Action struct {
	Type     ActionType
	Identity Identity
	Message  string
	Loading  bool
}

func LoginStart() Action { return Action{Type: ActionLoginStart} }

func LoginSuccess(id Identity) Action { return Action{Type: ActionLoginSuccess, Identity: id} }

func LoginError(msg string) Action { return Action{Type: ActionLoginError, Message: msg} }

func Logout() Action { return Action{Type: ActionLogout} }

func SetLoading(v bool) Action { return Action{Type: ActionSetLoading, Loading: v} }

// Reduce applies a to s and returns the new state. It is pure.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionLoginStart:
		s.IsLoading = true
		s.Error = ""
	case ActionLoginSuccess:
		id := a.Identity
		s.User = &id
		s.IsAuthenticated = true
		s.IsLoading = false
		s.Error = ""
	case ActionLoginError:
		s.User = nil
		s.IsAuthenticated = false
		s.IsLoading = false
		s.Error = a.Message
	case ActionLogout:
		s.User = nil
		s.IsAuthenticated = false
		s.Error = ""
	case ActionSetLoading:
		s.IsLoading = a.Loading
	}
	return s
}
