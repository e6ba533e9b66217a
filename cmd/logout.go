// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

// logoutCmd removes the stored access token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved access token",
	Long: `The logout command removes the access token from the OS keychain. It works offline
and succeeds even when no token is stored.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		a.session.Logout()
		a.toast.Success("The saved access token has been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
