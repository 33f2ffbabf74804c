package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/cosls/internal/configloader"
	"github.com/yaklabco/cosls/internal/logging"
	"github.com/yaklabco/cosls/internal/ui/pretty"
	"github.com/yaklabco/cosls/pkg/config"
	"github.com/yaklabco/cosls/pkg/fsutil"
	"github.com/yaklabco/cosls/pkg/metadata"
	"github.com/yaklabco/cosls/pkg/semtok"
	"github.com/yaklabco/cosls/pkg/tokenizer"
	"github.com/yaklabco/cosls/pkg/workspace"
)

// loadConfig resolves the layered configuration for cmd, with overrides
// taking precedence over every file and environment variable.
func loadConfig(cmd *cobra.Command, overrides *config.Config) (*configloader.LoadResult, error) {
	configPath, _ := cmd.Flags().GetString("config")
	noConfig, _ := cmd.Flags().GetBool("no-config")

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(cmd.Context(), configloader.LoadOptions{
		WorkingDir:           workDir,
		ExplicitPath:         configPath,
		IgnoreSystemConfig:   noConfig,
		IgnoreUserConfig:     noConfig,
		IgnoreProjectConfig:  noConfig,
		IgnoreEditorSettings: noConfig,
		CLIConfig:            overrides,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	logger := logging.Default()
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	logger.Debug("Loaded configuration", logging.FieldFiles, result.LoadedFrom)
	return result, nil
}

// session is the per-invocation state shared by the analysis commands.
type session struct {
	cfg     *config.Config
	service *workspace.Service
	ctx     context.Context
	logger  *log.Logger
	closers []func() error
}

func newSession(cmd *cobra.Command, overrides *config.Config) (*session, error) {
	result, err := loadConfig(cmd, overrides)
	if err != nil {
		return nil, err
	}
	cfg := result.Config

	logger := logging.Default()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess := &session{
		cfg:    cfg,
		ctx:    logging.WithLogger(ctx, logger),
		logger: logger,
	}

	opts := []workspace.Option{workspace.WithConfig(cfg)}
	if cfg.Metadata.DSN != "" {
		db, err := metadata.OpenSQLite(cfg.Metadata.DSN)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		sess.closers = append(sess.closers, db.Close)

		dict, err := metadata.NewDictionary(db, cfg.Metadata.ClassTable)
		if err != nil {
			sess.Close()
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		opts = append(opts, workspace.WithDictionary(dict))
		logger.Debug("Class dictionary enabled", logging.FieldTableName, cfg.Metadata.ClassTable)
	}

	tok := tokenizer.Sidecar{Suffix: cfg.Tokens.Suffix}
	sess.service = workspace.NewService(workspace.NewStore(), tok, opts...)
	return sess, nil
}

// Close releases the session's resources.
func (s *session) Close() {
	for _, closer := range s.closers {
		if err := closer(); err != nil {
			s.logger.Warn("Close failed", logging.FieldError, err)
		}
	}
	s.closers = nil
}

// open reads path from disk and opens it in the service as version 1.
func (s *session) open(path string) (*semtok.Document, *fsutil.Snapshot, error) {
	content, snap, err := fsutil.ReadFile(s.ctx, path)
	if err != nil {
		return nil, nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve path: %w", err)
	}
	doc, err := s.service.Open(s.ctx, workspace.PathURI(abs), 1, string(content))
	if err != nil {
		return nil, nil, err
	}
	return doc, snap, nil
}

// colorEnabled resolves the --color flag against the command's output.
func colorEnabled(cmd *cobra.Command) bool {
	mode, _ := cmd.Flags().GetString("color")
	return pretty.IsColorEnabled(mode, cmd.OutOrStdout())
}

// outputFormat parses an --output flag value; empty leaves the configured
// format in place.
func outputFormat(value string, allowed ...config.OutputFormat) (config.OutputFormat, error) {
	if value == "" {
		return "", nil
	}
	format := config.OutputFormat(value)
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported output format %q", ErrUsage, value)
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format config.OutputFormat, v any) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(config.YAMLIndent())
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return errors.New("not a structured output format: " + string(format))
	}
}

// interactiveLogger reports progress of the file-writing commands on the
// command's error stream.
func interactiveLogger(cmd *cobra.Command) *log.Logger {
	level := "info"
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level)
}

// checkWritable refuses to replace an existing file unless force is set.
func checkWritable(logger *log.Logger, path string, force bool) error {
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // Missing files are writable.
	}
	if !force {
		return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, path)
	}
	logger.Warn("Overwriting existing file", logging.FieldPath, path)
	return nil
}
