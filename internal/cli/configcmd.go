package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cosls/internal/configloader"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
		Long: `Configuration is layered, later sources overriding earlier ones:

  1. Built-in defaults
  2. System config (/etc/cosls/config.yml)
  3. User config ($XDG_CONFIG_HOME/cosls/config.yml)
  4. Editor settings (.vscode/settings.json, formatting keys only)
  5. Project config (.cosls.yml, searched upward to the repository root)
  6. The file passed with --config
  7. COSLS_* environment variables
  8. Command-line flags`,
	}

	cmd.AddCommand(newConfigShowCommand(), newConfigEnvCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			header := "# Resolved cosls configuration\n"
			for _, path := range result.LoadedFrom {
				header += "# Loaded from: " + path + "\n"
			}
			content, err := result.Config.ToYAMLWithHeader(header)
			if err != nil {
				return fmt.Errorf("serialize configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(content)
			return err
		},
	}
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the supported environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, v := range configloader.ListEnvVars() {
				if _, err := fmt.Fprintf(out, "%-24s %-26s %s\n", v.Name, v.Key, v.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
