// Package cli provides the Cobra command structure for cosls.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cosls/internal/logging"
	"github.com/yaklabco/cosls/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root cosls command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string
	var noConfig bool

	rootCmd := &cobra.Command{
		Use:   "cosls",
		Short: "Token analysis and extract-method refactoring for ObjectScript",
		Long: `cosls analyses ObjectScript class definitions and routines from the token
data an external tokenizer writes next to each source file.

It checks routine headers, builds the member structure of classes, and
extracts selected lines of a method into a new method, passing the
variables the selection shares with its method as parameters.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if _, err := pretty.ParseColorMode(color); err != nil {
				return fmt.Errorf("%w: %w", ErrUsage, err)
			}
			if debug {
				logging.SetLevel("debug")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false,
		"ignore system, user, project and editor config files")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: "+pretty.ColorAuto+", "+pretty.ColorAlways+", "+pretty.ColorNever)

	rootCmd.AddCommand(newTokensCommand())
	rootCmd.AddCommand(newHeaderCommand())
	rootCmd.AddCommand(newASTCommand())
	rootCmd.AddCommand(newExtractCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newRestoreCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter("color").ApplyToCommand(rootCmd)

	return rootCmd
}
