// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for agentconsole.
// It implements sign-in, session inspection, configuration and CRUD commands for
// the agent platform's resources using the Cobra CLI framework.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"agentconsole/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	flagServer  string
	flagVerbose bool
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "agentconsole",
	Short:         "Command-line console for the agent management platform",
	Long:          `agentconsole signs you in to an agent management backend and lets you manage its agents, projects, tools, toolkits, resources, configs, organisations and users.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			return runVersion(cmd, false)
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, logging.PresentError("Error", err))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and backend version information")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Backend base URL for this invocation (overrides api.base_url)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}
