package cmd

import (
	"fmt"

	"agentconsole/cli/internal/config"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI settings",
	Long: `Settings are read from config.yaml in the XDG config directory (or the file named
by AGENTCONSOLE_CONFIG) and may be overridden with AGENTCONSOLE_* environment
variables, e.g. AGENTCONSOLE_API_BASE_URL.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path, err := config.Path()
		if err != nil {
			return err
		}
		rows := [][]string{{"Key", "Value"}}
		for _, k := range config.Keys {
			v, _ := cfg.Get(k)
			rows = append(rows, []string{k, v})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(rows).Render(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nFile: %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting in the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
