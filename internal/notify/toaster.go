// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package notify prints short user-facing notices (toasts) after an operation settles.
package notify

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	apperr "agentconsole/cli/internal/errors"

	"github.com/pterm/pterm"
)

// Level is the severity of a notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
	LevelInfo
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	}
	return "unknown"
}

// Toaster writes notices through pterm prefix printers. It is safe for concurrent use.
type Toaster struct {
	mu       sync.Mutex
	printers map[Level]*pterm.PrefixPrinter
}

// New returns a Toaster writing to w, or to stderr when w is nil.
func New(w io.Writer) *Toaster {
	if w == nil {
		w = os.Stderr
	}
	return &Toaster{
		printers: map[Level]*pterm.PrefixPrinter{
			LevelSuccess: pterm.Success.WithWriter(w),
			LevelError:   pterm.Error.WithWriter(w),
			LevelInfo:    pterm.Info.WithWriter(w),
			LevelWarning: pterm.Warning.WithWriter(w),
		},
	}
}

// Notify prints a notice at the given level.
func (t *Toaster) Notify(l Level, format string, args ...any) {
	p, ok := t.printers[l]
	if !ok {
		p = t.printers[LevelInfo]
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p.Println(fmt.Sprintf(format, args...))
}

func (t *Toaster) Success(format string, args ...any) { t.Notify(LevelSuccess, format, args...) }

func (t *Toaster) Error(format string, args ...any) { t.Notify(LevelError, format, args...) }

func (t *Toaster) Info(format string, args ...any) { t.Notify(LevelInfo, format, args...) }

func (t *Toaster) Warning(format string, args ...any) { t.Notify(LevelWarning, format, args...) }

// APIError renders a normalized failure. A 401 also tells the user how to sign in again.
func (t *Toaster) APIError(err *apperr.APIError) {
	if err == nil {
		return
	}
	msg := err.Message
	if detail := apperr.ServerMessage(err); detail != "" {
		msg = detail
	}
	if err.StatusCode == http.StatusUnauthorized {
		t.Error("%s", msg)
		t.Info("Your session has ended. Run 'agentconsole login' to sign in again.")
		return
	}
	t.Error("%s (status %d)", msg, err.StatusCode)
}
