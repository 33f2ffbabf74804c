package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cosls/internal/configloader"
	"github.com/yaklabco/cosls/internal/logging"
)

// migrateFlags holds the flags for the migrate command.
type migrateFlags struct {
	force  bool
	dryRun bool
	output string
}

func newMigrateCommand() *cobra.Command {
	flags := &migrateFlags{}

	cmd := &cobra.Command{
		Use:   "migrate [settings.json]",
		Short: "Convert editor formatting settings to a cosls configuration",
		Long: `Convert the ObjectScript formatting settings of an editor settings file
(.vscode/settings.json) into a .cosls.yml configuration.

Without an argument the settings file of the current directory is used.
Settings cosls has no equivalent for are reported as warnings.`,
		Example: `  cosls migrate
  cosls migrate path/to/settings.json --output team.yml
  cosls migrate --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runMigrate(cmd, input, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing output file")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the configuration instead of writing it")
	cmd.Flags().StringVarP(&flags.output, "output", "o", ".cosls.yml", "output file path")

	return cmd
}

func runMigrate(cmd *cobra.Command, input string, flags *migrateFlags) error {
	logger := interactiveLogger(cmd)

	if input == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		input = configloader.FindEditorSettings(cwd)
		if input == "" {
			return fmt.Errorf("%w: no editor settings file found in current directory", ErrUsage)
		}
		logger.Info("Found editor settings", logging.FieldPath, input)
	}

	result, err := configloader.ConvertEditorSettings(input)
	if err != nil {
		return fmt.Errorf("convert settings: %w", err)
	}
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}

	header := configloader.GenerateMigrationHeader(input)
	if flags.dryRun {
		content, err := result.Config.ToYAMLWithHeader(header)
		if err != nil {
			return fmt.Errorf("serialize configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}

	if err := checkWritable(logger, flags.output, flags.force); err != nil {
		return err
	}
	if err := configloader.WriteConfig(cmd.Context(), result.Config, flags.output, header); err != nil {
		return err
	}

	logger.Info("Migration complete", logging.FieldPath, flags.output)
	return nil
}
