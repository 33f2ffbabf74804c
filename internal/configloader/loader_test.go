package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/cosls/pkg/config"
)

// isolated returns options that only see files under dir.
func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolated(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}

	want := config.NewConfig()
	if result.Config.Format != want.Format {
		t.Errorf("format = %+v, want %+v", result.Config.Format, want.Format)
	}
	if result.Config.Extract.DefaultName != want.Extract.DefaultName {
		t.Errorf("default name = %q, want %q", result.Config.Extract.DefaultName, want.Extract.DefaultName)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("LoadedFrom = %v, want none", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(tmpDir, ".cosls.yml"), `
format:
  tab_size: 2
  insert_spaces: true
extract:
  default_name: Helper
ignore:
  - "generated/**"
`)

	subDir := filepath.Join(tmpDir, "src", "pkg")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolated(subDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Format.TabSize != 2 {
		t.Errorf("tab_size = %d, want 2", cfg.Format.TabSize)
	}
	if !cfg.Format.InsertSpaces {
		t.Error("insert_spaces = false, want true")
	}
	if cfg.Extract.DefaultName != "Helper" {
		t.Errorf("default_name = %q, want Helper", cfg.Extract.DefaultName)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Format.MultiLineArgs != 4 {
		t.Errorf("multi_line_args = %d, want default 4", cfg.Format.MultiLineArgs)
	}
	if len(cfg.Ignore) != 1 || cfg.Ignore[0] != "generated/**" {
		t.Errorf("ignore = %v", cfg.Ignore)
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("LoadedFrom = %v, want the project file", result.LoadedFrom)
	}
}

func TestLoad_FileCanDisableBool(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	explicit := filepath.Join(tmpDir, "custom.yml")
	writeFile(t, explicit, "backups:\n  enabled: false\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit
	opts.IgnoreProjectConfig = true

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Backups.Enabled {
		t.Error("backups.enabled = true, want false from file")
	}
	if result.Paths.Explicit != explicit {
		t.Errorf("Paths.Explicit = %q, want %q", result.Paths.Explicit, explicit)
	}
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(tmpDir, ".cosls.yml"), "format:\n  tab_size: 2\n  comma_style: leading\n")
	explicit := filepath.Join(tmpDir, "other.yml")
	writeFile(t, explicit, "format:\n  tab_size: 8\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Format.TabSize != 8 {
		t.Errorf("tab_size = %d, want 8", result.Config.Format.TabSize)
	}
	if result.Config.Format.CommaStyle != config.CommaLeading {
		t.Errorf("comma_style = %q, want leading from project", result.Config.Format.CommaStyle)
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != explicit {
		t.Errorf("LoadedFrom = %v, want project then explicit", result.LoadedFrom)
	}
}

func TestLoad_EditorSettings(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(tmpDir, ".vscode", "settings.json"), `{
  // workspace settings
  "editor.tabSize": 2,
  "intersystems.language-server.formatting.commands.case": "upper",
}`)
	writeFile(t, filepath.Join(tmpDir, ".cosls.yml"), "format:\n  tab_size: 3\n")

	result, err := Load(context.Background(), isolated(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Format.CommandCase != config.CaseUpper {
		t.Errorf("command_case = %q, want upper from editor settings", result.Config.Format.CommandCase)
	}
	if result.Config.Format.TabSize != 3 {
		t.Errorf("tab_size = %d, want 3: project config wins over editor settings", result.Config.Format.TabSize)
	}

	opts := isolated(tmpDir)
	opts.IgnoreEditorSettings = true
	result, err = Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Format.CommandCase != config.CaseWord {
		t.Errorf("command_case = %q, want default when editor settings are ignored", result.Config.Format.CommandCase)
	}
}

func TestLoad_BrokenEditorSettingsWarns(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(tmpDir, ".vscode", "settings.json"), "{ not json")

	result, err := Load(context.Background(), isolated(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "settings.json") {
		t.Errorf("Warnings = %v, want one about settings.json", result.Warnings)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(tmpDir, ".cosls.yml"), "extract:\n  default_name: FromFile\n")

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{
		Extract: config.ExtractConfig{DefaultName: "FromFlag"},
		Output:  "JSON",
		Jobs:    3,
	}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Extract.DefaultName != "FromFlag" {
		t.Errorf("default_name = %q, want FromFlag", result.Config.Extract.DefaultName)
	}
	if result.Config.Output != config.OutputJSON {
		t.Errorf("output = %q, want json", result.Config.Output)
	}
	if result.Config.Jobs != 3 {
		t.Errorf("jobs = %d, want 3", result.Config.Jobs)
	}
}

func TestLoad_NormalizesAliases(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	explicit := filepath.Join(tmpDir, "aliases.yml")
	writeFile(t, explicit, "format:\n  command_case: Lowercase\n  command_length: abbreviated\n  comma_style: before\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit
	opts.IgnoreProjectConfig = true

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	format := result.Config.Format
	if format.CommandCase != config.CaseLower || format.CommandLength != config.LengthShort ||
		format.CommaStyle != config.CommaLeading {
		t.Errorf("format = %+v, want canonical lower/short/leading", format)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "format: [unclosed", wantErr: "parse yaml"},
		{name: "unknown key", content: "formatting:\n  tab_size: 2\n", wantErr: "formatting"},
		{name: "out of range", content: "format:\n  tab_size: 40\n", wantErr: "format.tab_size"},
		{name: "bad method name", content: "extract:\n  default_name: 1abc\n", wantErr: "extract.default_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			explicit := filepath.Join(tmpDir, "bad.yml")
			writeFile(t, explicit, tt.content)

			opts := isolated(tmpDir)
			opts.ExplicitPath = explicit
			opts.IgnoreProjectConfig = true

			_, err := Load(context.Background(), opts)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ValidationErrorType(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	opts := isolated(tmpDir)
	opts.IgnoreProjectConfig = true
	opts.CLIConfig = &config.Config{Jobs: -2}

	_, err := Load(context.Background(), opts)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if verr.Field != "jobs" {
		t.Errorf("Field = %q, want jobs", verr.Field)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	explicit := filepath.Join(tmpDir, "empty.yml")
	writeFile(t, explicit, "")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit
	opts.IgnoreProjectConfig = true

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Format.TabSize != 4 {
		t.Errorf("tab_size = %d, want default", result.Config.Format.TabSize)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	if err == nil {
		t.Fatal("Load() expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".cosls.yml")

	cfg := config.NewConfig()
	cfg.Format.TabSize = 2
	cfg.Extract.DocStub = ""

	if err := WriteConfig(context.Background(), cfg, path, GenerateMigrationHeader("/ws/.vscode/settings.json")); err != nil {
		t.Fatalf("WriteConfig() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(content), "# cosls configuration\n# Migrated from: /ws/.vscode/settings.json\n") {
		t.Errorf("missing header:\n%s", content)
	}

	loaded := config.NewConfig()
	if err := applyFile(loaded, path); err != nil {
		t.Fatalf("applyFile() error = %v", err)
	}
	if loaded.Format.TabSize != 2 {
		t.Errorf("tab_size = %d, want 2", loaded.Format.TabSize)
	}
	if loaded.Extract.DocStub != "" {
		t.Errorf("doc_stub = %q, want empty", loaded.Extract.DocStub)
	}
}

func TestLoad_ValidationErrorLocatesLine(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	explicit := filepath.Join(tmpDir, "bad.yml")
	writeFile(t, explicit, "format:\n  insert_spaces: true\n  tab_size: 0\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = explicit
	opts.IgnoreProjectConfig = true

	_, err := Load(context.Background(), opts)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if verr.FilePath != explicit || verr.Line != 3 {
		t.Errorf("location = %s:%d, want %s:3", verr.FilePath, verr.Line, explicit)
	}
}

func TestKeyLine(t *testing.T) {
	t.Parallel()

	doc := []byte("jobs: 2\nformat:\n  tab_size: 4\nignore:\n  - a\n  - \"[\"\n")
	tests := map[string]int{
		"jobs":            1,
		"format.tab_size": 3,
		"ignore[1]":       6,
		"ignore[5]":       0,
		"format.missing":  0,
		"jobs.nested":     0,
	}
	for field, want := range tests {
		if got := keyLine(doc, field); got != want {
			t.Errorf("keyLine(%q) = %d, want %d", field, got, want)
		}
	}
	if got := keyLine([]byte(""), "jobs"); got != 0 {
		t.Errorf("keyLine on empty document = %d", got)
	}
}
