package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	apperr "agentconsole/cli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr struct {
	code   int
	detail string
}

func (e statusErr) Error() string         { return fmt.Sprintf("status %d: %s", e.code, e.detail) }
func (e statusErr) HTTPStatus() int       { return e.code }
func (e statusErr) ServerMessage() string { return e.detail }

type netErr struct{}

func (netErr) Error() string   { return "dial tcp: connection refused" }
func (netErr) Transport() bool { return true }

type emptyErr struct{}

func (emptyErr) Error() string { return "" }

func TestNormalize(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantStatus int
		wantKind   apperr.Kind
	}{
		{
			name:       "http failure keeps status",
			err:        statusErr{code: http.StatusNotFound, detail: "Agent not found"},
			wantMsg:    "status 404: Agent not found",
			wantStatus: http.StatusNotFound,
			wantKind:   apperr.HTTP,
		},
		{
			name:       "unauthorized",
			err:        fmt.Errorf("validate: %w", statusErr{code: http.StatusUnauthorized, detail: "Invalid token"}),
			wantMsg:    "validate: status 401: Invalid token",
			wantStatus: http.StatusUnauthorized,
			wantKind:   apperr.Unauthorized,
		},
		{
			name:       "transport failure defaults to 500",
			err:        netErr{},
			wantMsg:    "dial tcp: connection refused",
			wantStatus: http.StatusInternalServerError,
			wantKind:   apperr.Network,
		},
		{
			name:       "empty message falls back",
			err:        emptyErr{},
			wantMsg:    apperr.DefaultMessage,
			wantStatus: http.StatusInternalServerError,
			wantKind:   apperr.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apperr.Normalize(tt.err, at)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, at, got.Timestamp)
			assert.True(t, stderrors.Is(got, tt.err))
		})
	}
}

func TestNormalizeNilAndRestamp(t *testing.T) {
	require.Nil(t, apperr.Normalize(nil, time.Now()))

	first := apperr.Normalize(stderrors.New("boom"), time.Unix(10, 0))
	again := apperr.Normalize(fmt.Errorf("wrapped: %w", first), time.Unix(20, 0))
	require.NotSame(t, first, again)
	assert.Equal(t, first.Message, again.Message)
	assert.Equal(t, first.StatusCode, again.StatusCode)
	assert.Equal(t, first.Kind, again.Kind)
	assert.True(t, again.Timestamp.Equal(time.Unix(20, 0)), "stamped with the later invocation")
	assert.True(t, first.Timestamp.Equal(time.Unix(10, 0)), "original left untouched")
	assert.ErrorIs(t, again, first.Err)
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "Invalid credentials", apperr.ServerMessage(fmt.Errorf("login: %w", statusErr{code: 401, detail: "Invalid credentials"})))
	assert.Equal(t, "", apperr.ServerMessage(stderrors.New("plain")))
}

func TestEWrap(t *testing.T) {
	base := stderrors.New("keyring locked")
	e := apperr.Wrap(apperr.StorageUnavailable, "cannot open credential store", base)
	assert.Equal(t, "storage_unavailable: cannot open credential store: keyring locked", e.Error())
	assert.ErrorIs(t, e, base)
	assert.Equal(t, "invalid_input: email is required", apperr.New(apperr.InvalidInput, "email is required").Error())
}
