package cmd

import (
	"fmt"

	"agentconsole/cli/internal/session"

	"github.com/spf13/cobra"
)

// whoamiCmd shows the account the stored access token belongs to.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show current authenticated account",
	Long: `The whoami command validates the stored access token with the backend and shows
the account it belongs to. If the token is missing or no longer accepted, it tells
you to log in.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		stop := startSpinner("Checking session")
		ok := a.session.Restore(cmd.Context())
		stop()
		if !ok {
			a.nav.Navigate(session.RouteLogin)
			return nil
		}

		u := a.session.State().User
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "👤 Current user: %s\n", displayName(*u))
		if flagVerbose {
			fmt.Fprintf(out, "   id:           %d\n", u.ID)
			fmt.Fprintf(out, "   name:         %s\n", u.Name)
			fmt.Fprintf(out, "   organisation: %d\n", u.OrganisationID)
			fmt.Fprintf(out, "   created:      %s\n", u.CreatedAt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
