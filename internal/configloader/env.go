package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/cosls/pkg/config"
)

const envVarPrefix = "COSLS_"

// envBinding ties one COSLS_ variable to the config key it overrides.
type envBinding struct {
	suffix string
	key    string
	help   string
	set    func(cfg *config.Config, value string) error
}

func stringVar(target func(*config.Config) *string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		*target(cfg) = value
		return nil
	}
}

func typedVar[T ~string](target func(*config.Config) *T) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		*target(cfg) = T(value)
		return nil
	}
}

func boolVar(target func(*config.Config) *bool) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%q is not a boolean (true, false, 1, 0)", value)
		}
		*target(cfg) = b
		return nil
	}
}

func intVar(target func(*config.Config) *int) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		i, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
		*target(cfg) = i
		return nil
	}
}

func listVar(target func(*config.Config) *[]string) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		*target(cfg) = splitList(value)
		return nil
	}
}

//nolint:gochecknoglobals // read-only
var envBindings = []envBinding{
	{"TAB_SIZE", "format.tab_size", "Tab width and indent unit",
		intVar(func(c *config.Config) *int { return &c.Format.TabSize })},
	{"INSERT_SPACES", "format.insert_spaces", "Indent with spaces: true or false",
		boolVar(func(c *config.Config) *bool { return &c.Format.InsertSpaces })},
	{"MULTI_LINE_ARGS", "format.multi_line_args", "Argument count above which signatures wrap (0 = never)",
		intVar(func(c *config.Config) *int { return &c.Format.MultiLineArgs })},
	{"COMMA_STYLE", "format.comma_style", "Wrapped argument commas: trailing or leading",
		typedVar(func(c *config.Config) *config.CommaStyle { return &c.Format.CommaStyle })},
	{"COMMAND_CASE", "format.command_case", "Generated command case: word, upper or lower",
		typedVar(func(c *config.Config) *config.CommandCase { return &c.Format.CommandCase })},
	{"COMMAND_LENGTH", "format.command_length", "Generated command length: long or short",
		typedVar(func(c *config.Config) *config.CommandLength { return &c.Format.CommandLength })},
	{"EXTRACT_NAME", "extract.default_name", "Default name of extracted methods",
		stringVar(func(c *config.Config) *string { return &c.Extract.DefaultName })},
	{"DOC_STUB", "extract.doc_stub", "Doc comment of extracted methods",
		stringVar(func(c *config.Config) *string { return &c.Extract.DocStub })},
	{"METADATA_DSN", "metadata.dsn", "Class dictionary database path",
		stringVar(func(c *config.Config) *string { return &c.Metadata.DSN })},
	{"METADATA_TABLE", "metadata.class_table", "Class dictionary table name",
		stringVar(func(c *config.Config) *string { return &c.Metadata.ClassTable })},
	{"METADATA_TIMEOUT", "metadata.timeout_seconds", "Class dictionary lookup timeout in seconds",
		intVar(func(c *config.Config) *int { return &c.Metadata.TimeoutSeconds })},
	{"TOKENS_SUFFIX", "tokens.suffix", "Suffix of token sidecar files",
		stringVar(func(c *config.Config) *string { return &c.Tokens.Suffix })},
	{"BACKUPS_ENABLED", "backups.enabled", "Enable backups when applying edits: true or false",
		boolVar(func(c *config.Config) *bool { return &c.Backups.Enabled })},
	{"BACKUPS_MODE", "backups.mode", "Backup mode: sidecar or none",
		stringVar(func(c *config.Config) *string { return &c.Backups.Mode })},
	{"IGNORE", "ignore", "Comma-separated list of ignore patterns",
		listVar(func(c *config.Config) *[]string { return &c.Ignore })},
	{"JOBS", "jobs", "Number of parallel workers (0 = auto)",
		intVar(func(c *config.Config) *int { return &c.Jobs })},
	{"OUTPUT", "output", "Output format: text, table, json or yaml",
		typedVar(func(c *config.Config) *config.OutputFormat { return &c.Output })},
	{"DRY_RUN", "dry_run", "Dry-run mode: true or false",
		boolVar(func(c *config.Config) *bool { return &c.DryRun })},
	{"NO_BACKUPS", "no_backups", "Disable backups: true or false",
		boolVar(func(c *config.Config) *bool { return &c.NoBackups })},
}

// LoadFromEnv applies COSLS_ environment variables to cfg. Unset and empty
// variables leave the field alone.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromEnv(cfg, os.Getenv)
}

func loadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}
	for _, b := range envBindings {
		name := envVarPrefix + b.suffix
		value := getenv(name)
		if value == "" {
			continue
		}
		if err := b.set(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// splitList splits a comma-separated value, dropping blank elements.
func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Key         string
	Description string
}

// ListEnvVars returns the supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envBindings))
	for _, b := range envBindings {
		vars = append(vars, EnvVar{Name: envVarPrefix + b.suffix, Key: b.key, Description: b.help})
	}
	slices.SortFunc(vars, func(a, b EnvVar) int { return strings.Compare(a.Name, b.Name) })
	return vars
}
