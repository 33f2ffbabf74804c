package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cosls/internal/logging"
	"github.com/yaklabco/cosls/internal/ui/pretty"
	"github.com/yaklabco/cosls/pkg/config"
	"github.com/yaklabco/cosls/pkg/fsutil"
	"github.com/yaklabco/cosls/pkg/semtok"
	"github.com/yaklabco/cosls/pkg/textedit"
	"github.com/yaklabco/cosls/pkg/workspace"
)

// extractFlags holds the flags for the extract command.
type extractFlags struct {
	start     int
	end       int
	name      string
	apply     bool
	dryRun    bool
	noBackups bool
	output    string
}

func newExtractCommand() *cobra.Command {
	flags := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract lines of a method into a new method",
		Long: `Move whole lines of a method into a new method of the same kind placed
after the enclosing method, and replace them with a call to it.

Variables the selection reads from the surrounding method become parameters;
variables it assigns that are used afterwards are passed ByRef. Selections
that contain Return, Goto, or a Quit outside a loop, reference labels, or
split a block are refused with exit status 2.

Without --apply the edit is printed as a unified diff. With --apply the file
is rewritten in place after a backup is taken; the write is refused if the
file changed on disk since it was read.`,
		Example: `  cosls extract Demo.Util.cls --start 12 --end 18
  cosls extract Demo.Util.cls --start 12 --end 18 --name Normalize --apply
  cosls extract Demo.Util.cls --start 12 --end 12 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.start, "start", 0, "first selected line (1-based)")
	cmd.Flags().IntVar(&flags.end, "end", 0, "last selected line (1-based, inclusive; default --start)")
	cmd.Flags().StringVar(&flags.name, "name", "", "name of the new method (default extract.default_name)")
	cmd.Flags().BoolVar(&flags.apply, "apply", false, "rewrite the file in place")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "with --apply, show the diff without writing")
	cmd.Flags().BoolVar(&flags.noBackups, "no-backups", false, "do not back up the file before rewriting it")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: text, json, yaml")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// selection converts 1-based inclusive line numbers to a range that ends at
// column 0 of the line after the last one.
func selection(start, end int) (semtok.Range, error) {
	if end == 0 {
		end = start
	}
	if start < 1 || end < start {
		return semtok.Range{}, fmt.Errorf("%w: need 1 <= --start <= --end, got %d..%d", ErrUsage, start, end)
	}
	return semtok.Range{
		Start: semtok.Position{Line: start - 1},
		End:   semtok.Position{Line: end},
	}, nil
}

func runExtract(cmd *cobra.Command, path string, flags *extractFlags) error {
	format, err := outputFormat(flags.output, config.OutputText, config.OutputJSON, config.OutputYAML)
	if err != nil {
		return err
	}
	rng, err := selection(flags.start, flags.end)
	if err != nil {
		return err
	}

	sess, err := newSession(cmd, &config.Config{Output: format, DryRun: flags.dryRun, NoBackups: flags.noBackups})
	if err != nil {
		return err
	}
	defer sess.Close()
	cfg := sess.cfg

	doc, snap, err := sess.open(path)
	if err != nil {
		return err
	}

	resp, err := sess.service.ExtractMethod(sess.ctx, workspace.ExtractRequest{
		URI:     doc.URI,
		Version: doc.Version,
		Range:   rng,
		Name:    flags.name,
	})
	if err != nil {
		return err
	}
	if resp.Reason != "" {
		return fmt.Errorf("%w: %s", ErrRefused, resp.Reason)
	}

	out := cmd.OutOrStdout()
	if cfg.Output == config.OutputJSON || cfg.Output == config.OutputYAML {
		if err := writeStructured(out, cfg.Output, resp); err != nil {
			return err
		}
	}

	edits, err := textedit.Prepare(doc, resp.Edits)
	if err != nil {
		return err
	}
	modified := textedit.Apply(doc, edits)

	if cfg.Output == config.OutputText && (!flags.apply || cfg.DryRun) {
		diff, err := textedit.GenerateDiff(displayPath(path), doc.Text, modified)
		if err != nil {
			return fmt.Errorf("generate diff: %w", err)
		}
		fmt.Fprint(out, pretty.NewStyles(colorEnabled(cmd)).FormatDiff(diff))
	}

	if !flags.apply {
		return nil
	}
	if cfg.DryRun {
		sess.logger.Debug("File left unchanged", logging.FieldPath, path, logging.FieldDryRun, true)
		return nil
	}

	backup := fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
	backedUp, err := fsutil.Replace(sess.ctx, snap, []byte(modified), backup)
	if err != nil {
		return err
	}

	fields := []any{logging.FieldPath, path, logging.FieldMethod, resp.Name}
	if backedUp {
		fields = append(fields, logging.FieldBackup, fsutil.BackupPath(snap.Path, backup.Mode))
	}
	sess.logger.Info("Extracted method", fields...)
	return nil
}

// displayPath returns path relative to the working directory when it lies
// beneath it, and path unchanged otherwise.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return filepath.ToSlash(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
