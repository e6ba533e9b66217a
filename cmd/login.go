// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	apperr "agentconsole/cli/internal/errors"
	"agentconsole/cli/internal/httperrors"
	"agentconsole/cli/internal/session"
	"agentconsole/cli/internal/terminal"

	"github.com/spf13/cobra"
)

var (
	loginEmail         string
	loginPasswordStdin bool
)

// loginCmd signs in with email and password and stores the issued access token.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in with email and password",
	Long: `The login command exchanges your email and password for an access token and keeps
the token in the OS keychain. Later commands send it as a bearer credential.

The password is read without echo from the terminal, or from standard input with
--password-stdin for scripts. If a stored token is still valid the command does
nothing.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		// the login surface is already on screen, so a 401 here prints no hint
		a.nav.at(session.RouteLogin)

		if a.session.Restore(ctx) {
			fmt.Fprintf(cmd.OutOrStdout(), "Already logged in as %s\n", displayName(*a.session.State().User))
			return nil
		}

		in := bufio.NewReader(cmd.InOrStdin())
		email := strings.TrimSpace(loginEmail)
		if email == "" {
			if email, err = prompt(in, cmd.ErrOrStderr(), "Email: "); err != nil {
				return err
			}
		}
		if email == "" {
			return apperr.New(apperr.InvalidInput, "email is required")
		}

		password, err := readPassword(in, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		stop := startSpinner("Signing in")
		err = a.session.Login(ctx, email, password)
		stop()
		if err != nil {
			var apiErr *apperr.APIError
			if errors.As(err, &apiErr) && apiErr.Kind == apperr.Network {
				return reported(httperrors.FormatNetworkError(apiErr.Err, "signing in"))
			}
			a.toast.Error("%s", a.session.State().Error)
			return reported(err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from standard input")
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func readPassword(in *bufio.Reader, out io.Writer) (string, error) {
	if loginPasswordStdin {
		line, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	if !terminal.IsInteractive(os.Stdin) {
		return "", apperr.New(apperr.InvalidInput, "no terminal for the password prompt; use --password-stdin")
	}
	const label = "Password: "
	pw, err := terminal.ReadPassword(os.Stdin, out, label)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	terminal.ClearPreviousLines(out, len(label), terminal.Width(os.Stdout))
	return pw, nil
}
