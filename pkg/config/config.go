// Package config defines core configuration types for cosls.
// These types are pure data structures with no dependency on a config loader.
package config

// CommaStyle controls where commas go in a multi-line argument list.
type CommaStyle string

const (
	CommaTrailing CommaStyle = "trailing"
	CommaLeading  CommaStyle = "leading"
)

// IsValid returns true if the comma style is valid.
func (s CommaStyle) IsValid() bool {
	switch s {
	case CommaTrailing, CommaLeading:
		return true
	default:
		return false
	}
}

// CommandCase controls the letter case of generated commands.
type CommandCase string

const (
	CaseWord  CommandCase = "word"  // "Set"
	CaseUpper CommandCase = "upper" // "SET"
	CaseLower CommandCase = "lower" // "set"
)

// IsValid returns true if the command case is valid.
func (c CommandCase) IsValid() bool {
	switch c {
	case CaseWord, CaseUpper, CaseLower:
		return true
	default:
		return false
	}
}

// CommandLength controls whether generated commands are abbreviated.
type CommandLength string

const (
	LengthLong  CommandLength = "long"  // "Do"
	LengthShort CommandLength = "short" // "D"
)

// IsValid returns true if the command length is valid.
func (l CommandLength) IsValid() bool {
	switch l {
	case LengthLong, LengthShort:
		return true
	default:
		return false
	}
}

// OutputFormat specifies how CLI results are printed.
type OutputFormat string

const (
	OutputText  OutputFormat = "text"
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// IsValid returns true if the output format is valid.
func (o OutputFormat) IsValid() bool {
	switch o {
	case OutputText, OutputTable, OutputJSON, OutputYAML:
		return true
	default:
		return false
	}
}

// FormatConfig holds presentational settings for generated code. None of
// them affect analysis.
type FormatConfig struct {
	// TabSize is the width of a tab and of one indent level.
	TabSize int `mapstructure:"tab_size" yaml:"tab_size"`

	// InsertSpaces indents with spaces instead of tabs.
	InsertSpaces bool `mapstructure:"insert_spaces" yaml:"insert_spaces"`

	// MultiLineArgs is the argument count above which a generated signature
	// puts each argument on its own line. Zero keeps signatures on one line.
	MultiLineArgs int `mapstructure:"multi_line_args" yaml:"multi_line_args"`

	CommaStyle    CommaStyle    `mapstructure:"comma_style" yaml:"comma_style"`
	CommandCase   CommandCase   `mapstructure:"command_case" yaml:"command_case"`
	CommandLength CommandLength `mapstructure:"command_length" yaml:"command_length"`
}

// ExtractConfig controls extract-method output.
type ExtractConfig struct {
	// DefaultName names the new method when none is given.
	DefaultName string `mapstructure:"default_name" yaml:"default_name"`

	// DocStub is the text of the doc comment above the new method.
	// Empty omits the comment.
	DocStub string `mapstructure:"doc_stub" yaml:"doc_stub"`
}

// MetadataConfig locates the class dictionary used to resolve inherited
// class keywords.
type MetadataConfig struct {
	// DSN is the database path; empty disables metadata lookups.
	DSN string `mapstructure:"dsn" yaml:"dsn"`

	// ClassTable is the table holding one row per class.
	ClassTable string `mapstructure:"class_table" yaml:"class_table"`

	// TimeoutSeconds bounds each lookup.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// TokensConfig controls where token sidecars are read from.
type TokensConfig struct {
	// Suffix is appended to a source path to find its token file.
	Suffix string `mapstructure:"suffix" yaml:"suffix"`
}

// BackupsConfig controls backup behavior when applying edits.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar"
}

// Config is the root configuration structure for cosls.
type Config struct {
	Format   FormatConfig   `mapstructure:"format" yaml:"format"`
	Extract  ExtractConfig  `mapstructure:"extract" yaml:"extract"`
	Metadata MetadataConfig `mapstructure:"metadata" yaml:"metadata"`
	Tokens   TokensConfig   `mapstructure:"tokens" yaml:"tokens"`

	// Ignore contains glob patterns for files the check command skips.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Backups configures backup behavior when applying edits.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Output specifies the output format.
	Output OutputFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// DryRun shows what would change without writing.
	DryRun bool `mapstructure:"-" yaml:"-"`

	// NoBackups disables backup creation when applying edits.
	NoBackups bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Format: FormatConfig{
			TabSize:       4,
			InsertSpaces:  false,
			MultiLineArgs: 4,
			CommaStyle:    CommaTrailing,
			CommandCase:   CaseWord,
			CommandLength: LengthLong,
		},
		Extract: ExtractConfig{
			DefaultName: "ExtractedMethod",
			DocStub:     "Description",
		},
		Metadata: MetadataConfig{
			ClassTable:     "%Dictionary.CompiledClass",
			TimeoutSeconds: 5,
		},
		Tokens: TokensConfig{
			Suffix: ".tokens.json",
		},
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Output: OutputText,
		Jobs:   0, // 0 means use GOMAXPROCS
	}
}
