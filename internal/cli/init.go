package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cosls/internal/logging"
	"github.com/yaklabco/cosls/pkg/config"
	"github.com/yaklabco/cosls/pkg/fsutil"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a cosls configuration file",
		Long: `Create a .cosls.yml configuration file in the current directory with the
default settings documented.

A JSON template is also available; JSON is valid YAML, so it can be passed
with --config.`,
		Example: `  cosls init
  cosls init --format json --output cosls.json
  cosls init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "template format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default .cosls.yml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := interactiveLogger(cmd)

	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".cosls.yml"
		if flags.format == "json" {
			outputPath = "cosls.json"
		}
	}

	if err := checkWritable(logger, outputPath, flags.force); err != nil {
		return err
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Format: flags.format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}
	if err := fsutil.WriteAtomic(cmd.Context(), outputPath, content, fsutil.DefaultFileMode); err != nil {
		return err
	}

	logger.Info("Created configuration file", logging.FieldPath, outputPath)
	if flags.format == "json" {
		logger.Info("Pass it explicitly with --config " + outputPath)
	}
	return nil
}
