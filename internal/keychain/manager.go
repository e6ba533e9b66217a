// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain is the token store for agentconsole.
// It keeps exactly one bearer credential in the OS keychain/credential store under a
// well-known key, and exposes set/get/clear operations that are safe to call before
// any session exists and from any goroutine.
//
// On macOS the native security command is preferred; other platforms go through
// github.com/99designs/keyring with the backends that platform supports.
package keychain

import (
	"errors"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
	"github.com/rs/zerolog"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "agentconsole"

// KeyAccessToken is the single key the credential is stored under.
const KeyAccessToken = "auth_access_token"

// PasswordEnv supplies the passphrase for the encrypted file backend.
const PasswordEnv = "AGENTCONSOLE_KEYRING_PASSWORD"

// Backend names accepted by Options.Backend.
const (
	BackendAuto = "auto"
	BackendFile = "file"
)

var (
	// ErrUnavailable is returned when no credential store backend can be opened.
	ErrUnavailable = errors.New("secure credential storage unavailable")
	// ErrEmptyToken is returned by Set for an empty credential.
	ErrEmptyToken = errors.New("empty access token")

	errNotFound = errors.New("key not found")
)

// Options controls how NewManager opens the credential store.
type Options struct {
	// Backend is BackendAuto (platform default chain) or BackendFile.
	Backend string
	// FileDir is the directory of the encrypted file backend.
	FileDir string
	Logger  zerolog.Logger
}

// Manager provides thread-safe access to the stored credential.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
	name    string
	log     zerolog.Logger
}

// keychainBackend is implemented by native (non-keyring) storage backends.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// NewManager opens the OS credential store according to opts.
func NewManager(opts Options) (*Manager, error) {
	log := opts.Logger.With().Str("component", "keychain").Logger()
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendAuto
	}

	// Try native security backend first on macOS
	if backend == BackendAuto && runtime.GOOS == "darwin" {
		if sb, err := newSecurityBackend(log); err == nil {
			return &Manager{backend: sb, name: "macos-security", log: log}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing(backend, opts.FileDir)
	if err != nil {
		log.Debug().Err(err).Str("backend", backend).Msg("open keyring failed")
		return nil, errors.Join(ErrUnavailable, err)
	}
	return &Manager{ring: ring, name: backend, log: log}, nil
}

// NewManagerWithRing wraps an already opened keyring, e.g. keyring.NewArrayKeyring in tests.
func NewManagerWithRing(ring keyring.Keyring, log zerolog.Logger) *Manager {
	return &Manager{ring: ring, name: "custom", log: log}
}

// openRing opens the keyring with the backends allowed for this platform.
func openRing(backend, fileDir string) (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName:      ServiceName,
		PassPrefix:       ServiceName,
		WinCredPrefix:    ServiceName,
		FileDir:          fileDir,
		FilePasswordFunc: filePassword,
	}

	switch backend {
	case BackendFile:
		if fileDir == "" {
			return nil, errors.New("file keyring requires a directory")
		}
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	case BackendAuto:
		switch runtime.GOOS {
		case "darwin":
			cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
		case "windows":
			cfg.AllowedBackends = []keyring.BackendType{keyring.WinCredBackend}
		default:
			cfg.AllowedBackends = []keyring.BackendType{
				keyring.SecretServiceBackend,
				keyring.KWalletBackend,
				keyring.PassBackend,
			}
			if fileDir != "" {
				cfg.AllowedBackends = append(cfg.AllowedBackends, keyring.FileBackend)
			}
		}
	default:
		return nil, errors.New("unknown keyring backend " + backend)
	}

	return keyring.Open(cfg)
}

// filePassword unlocks the encrypted file backend from the environment,
// prompting on the terminal only when the variable is unset.
func filePassword(prompt string) (string, error) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		return pw, nil
	}
	return keyring.TerminalPrompt(prompt)
}

// Name reports which storage backend is in use.
func (m *Manager) Name() string { return m.name }

// Set stores the credential, overwriting any previous value.
func (m *Manager) Set(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(KeyAccessToken, token)
	}
	return m.ring.Set(keyring.Item{
		Key:         KeyAccessToken,
		Data:        []byte(token),
		Label:       ServiceName + " access token",
		Description: "bearer credential for the agentconsole API",
	})
}

// Get returns the stored credential. Storage failures are logged and
// reported as an absent credential.
func (m *Manager) Get() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		token string
		err   error
	)
	if m.backend != nil {
		token, err = m.backend.Get(KeyAccessToken)
	} else {
		var it keyring.Item
		it, err = m.ring.Get(KeyAccessToken)
		token = string(it.Data)
	}
	if err != nil {
		if !isNotFound(err) {
			m.log.Warn().Err(err).Msg("read access token")
		}
		return "", false
	}
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear removes the credential. Clearing an absent credential succeeds.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.backend != nil {
		err = m.backend.Delete(KeyAccessToken)
	} else {
		err = m.ring.Remove(KeyAccessToken)
	}
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, errNotFound) || errors.Is(err, os.ErrNotExist)
}
