// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"

	"agentconsole/cli/internal/backend"
	"agentconsole/cli/internal/config"
	apperr "agentconsole/cli/internal/errors"
	"agentconsole/cli/internal/gateway"
	"agentconsole/cli/internal/keychain"
	"agentconsole/cli/internal/logging"
	"agentconsole/cli/internal/notify"
	"agentconsole/cli/internal/session"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app bundles the collaborators a command needs. It is built once per invocation.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	tokens  *keychain.Manager
	gw      *gateway.Client
	api     *backend.HTTP
	session *session.Controller
	nav     *terminalNavigator
	toast   *notify.Toaster
}

// newApp loads configuration and wires the token store, gateway, backend client
// and session controller. A 401 from any call ends the session.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagServer != "" {
		cfg.API.BaseURL = flagServer
	}
	level := cfg.Log.Level
	if flagVerbose {
		level = "debug"
	}
	log := logging.New(logging.Options{Level: level, Format: cfg.Log.Format, Writer: cmd.ErrOrStderr()})

	tokens, err := keychain.NewManager(keychain.Options{
		Backend: cfg.Keyring.Backend,
		FileDir: cfg.Keyring.FileDir,
		Logger:  log,
	})
	if err != nil {
		return nil, storageError(err)
	}

	gw, err := gateway.New(cfg.API.BaseURL, tokens,
		gateway.WithTimeout(cfg.API.Timeout),
		gateway.WithLogger(log),
		gateway.WithUserAgent("agentconsole-cli/"+Version),
	)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		tokens: tokens,
		gw:     gw,
		api:    backend.New(gw),
		nav:    newTerminalNavigator(cmd.OutOrStdout()),
		toast:  notify.New(cmd.ErrOrStderr()),
	}
	a.session = session.New(a.api, tokens, a.nav, session.WithLogger(log))
	a.nav.identity = func() *session.Identity { return a.session.State().User }
	gw.OnUnauthorized(a.session.Expire)

	log.Debug().
		Str("server", cfg.API.BaseURL).
		Str("keyring", tokens.Name()).
		Str("config_env", os.Getenv(config.PathEnv)).
		Msg("app initialized")
	return a, nil
}

// storageError tags a credential store that could not be opened and points at
// the encrypted file fallback.
func storageError(err error) error {
	if !errors.Is(err, keychain.ErrUnavailable) {
		return err
	}
	msg := fmt.Sprintf("set keyring.backend to %q and %s to use an encrypted file instead",
		keychain.BackendFile, keychain.PasswordEnv)
	return apperr.Wrap(apperr.StorageUnavailable, msg, err)
}
