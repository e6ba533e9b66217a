// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI and backend version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd, true)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// runVersion prints the CLI version and asks the backend health probe for its own.
func runVersion(cmd *cobra.Command, banner bool) error {
	out := cmd.OutOrStdout()
	if banner {
		fmt.Fprintln(out, figure.NewFigure("agentconsole", "cybermedium", true).String())
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	backendVersion := "unknown"
	status := "unreachable"
	if h, err := a.api.Health(ctx); err == nil {
		backendVersion = h.Version
		status = h.Status
	} else {
		a.log.Debug().Err(err).Msg("health probe failed")
	}
	fmt.Fprintf(out, "agentconsole %s\nbackend %s (%s at %s)\n", Version, backendVersion, status, a.gw.BaseURL())
	return nil
}
