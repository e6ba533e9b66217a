// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// statusCmd prints where the CLI points, where the token lives and what the
// session looks like. Token claims are decoded for display only; whether the
// token is valid is always decided by the server.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server, credential storage and session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		rows := [][]string{
			{"Setting", "Value"},
			{"Server", a.gw.BaseURL()},
			{"Credential store", a.tokens.Name()},
		}

		token, ok := a.tokens.Get()
		if !ok {
			rows = append(rows, []string{"Access token", "none"})
		} else {
			rows = append(rows, []string{"Access token", "present"})
			rows = append(rows, claimRows(token)...)
		}

		stop := startSpinner("Checking session")
		a.session.Restore(cmd.Context())
		stop()
		st := a.session.State()
		rows = append(rows, []string{"Session", st.Phase().String()})
		if st.User != nil {
			rows = append(rows, []string{"User", displayName(*st.User)})
		}

		return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// claimRows decodes the token's claims without verifying the signature.
func claimRows(token string) [][]string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return [][]string{{"Token format", "opaque"}}
	}
	var rows [][]string
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		rows = append(rows, []string{"Token subject", sub})
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		rows = append(rows, []string{"Token issued", iat.Local().Format(time.RFC1123)})
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		state := "in " + time.Until(exp.Time).Round(time.Second).String()
		if time.Now().After(exp.Time) {
			state = "expired"
		}
		rows = append(rows, []string{"Token expires", fmt.Sprintf("%s (%s)", exp.Local().Format(time.RFC1123), state)})
	}
	return rows
}
