package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cosls/internal/logging"
	"github.com/yaklabco/cosls/internal/ui/pretty"
	"github.com/yaklabco/cosls/pkg/config"
	"github.com/yaklabco/cosls/pkg/workspace"
)

// checkFlags holds the flags for the check command.
type checkFlags struct {
	ignore         []string
	jobs           int
	output         string
	followSymlinks bool
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Tokenize and parse a tree of source files",
		Long: `Walk files and directories, load each source file's tokens, and report
lexical errors, invalid routine headers, and class definitions that do not
parse. Directories are searched for .cls, .mac, .int, .inc and .rtn files.

Exits with status 1 when any file fails.

Output formats:
  text   One line per file and a summary (default)
  table  A table of files
  json   Machine-readable report
  yaml   Machine-readable report`,
		Example: `  cosls check
  cosls check src/ --ignore "**/generated/**"
  cosls check -o json -j 4 src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns of files to skip (repeatable)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "parallel workers (default: number of CPUs)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: text, table, json, yaml")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "follow directory symlinks")

	return cmd
}

func runCheck(cmd *cobra.Command, paths []string, flags *checkFlags) error {
	format, err := outputFormat(flags.output,
		config.OutputText, config.OutputTable, config.OutputJSON, config.OutputYAML)
	if err != nil {
		return err
	}
	if flags.jobs < 0 {
		return fmt.Errorf("%w: --jobs must not be negative", ErrUsage)
	}

	sess, err := newSession(cmd, &config.Config{Output: format, Jobs: flags.jobs, Ignore: flags.ignore})
	if err != nil {
		return err
	}
	defer sess.Close()
	cfg := sess.cfg

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	checker := workspace.NewChecker(sess.service, cfg.Jobs)
	result, err := checker.Run(sess.ctx, workspace.DiscoverOptions{
		Paths:          paths,
		WorkingDir:     workDir,
		Ignore:         cfg.Ignore,
		FollowSymlinks: flags.followSymlinks,
	})
	if err != nil {
		return err
	}
	sess.logger.Debug("Check complete",
		logging.FieldFilesChecked, result.Stats.FilesChecked,
		logging.FieldFilesWithErrors, result.Stats.FilesWithErrors,
		logging.FieldJobs, cfg.Jobs)

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(colorEnabled(cmd))

	switch cfg.Output {
	case config.OutputJSON, config.OutputYAML:
		if err := writeStructured(out, cfg.Output, result); err != nil {
			return err
		}
	case config.OutputTable:
		formatter := pretty.NewTableFormatter(styles, pretty.TerminalWidth(out))
		fmt.Fprint(out, formatter.FormatCheck(result))
		fmt.Fprint(out, styles.FormatSummary(result.Stats))
	default:
		for _, report := range result.Files {
			fmt.Fprint(out, styles.FormatFileReport(report))
			if report.HeaderError != nil {
				excerpt := pretty.HeaderExcerpt(report.HeaderLine, report.HeaderError, colorEnabled(cmd))
				fmt.Fprint(out, indent(excerpt, "        "))
			}
		}
		fmt.Fprint(out, styles.FormatSummaryOneLine(result.Stats))
	}

	if result.HasErrors() {
		return ErrCheckFailed
	}
	return nil
}

func indent(text, prefix string) string {
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line != "" {
			b.WriteString(prefix)
			b.WriteString(line)
		}
	}
	return b.String()
}
