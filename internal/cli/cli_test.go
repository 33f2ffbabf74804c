package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"github.com/yaklabco/cosls/internal/cli"
	"github.com/yaklabco/cosls/pkg/fsutil"
	"github.com/yaklabco/cosls/pkg/semtok"
	"github.com/yaklabco/cosls/pkg/semtok/semtoktest"
	"github.com/yaklabco/cosls/pkg/tokenizer"
	"github.com/yaklabco/cosls/pkg/workspace"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

//nolint:gochecknoglobals // Shared read-only fixture.
var classMarkup = []string{
	"{kw:Class} {ccn:A}{cdel:.}{ccn:B}",
	"{cdel:{}",
	"{kw:Method} {id:M}{cdel:(}{cdel:)}",
	"{cdel:{}",
	"\t{cmd:Set} {lv:X}{op:=}{num:1}",
	"\t{cmd:Write} {lv:X}",
	"\t{cmd:Quit}",
	"{cdel:}}",
	"{cdel:}}",
}

// execute runs the root command with args, ignoring every config file.
func execute(args ...string) (string, error) {
	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test-version", Commit: "test-commit", Date: "test-date"})

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-config", "--color", "never"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

// writeSource writes markup's text to dir/name and its tokens next to it.
func writeSource(t *testing.T, dir, name string, markup ...string) string {
	t.Helper()

	doc := semtoktest.MustParse(markup...)
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(doc.Text), 0o600); err != nil {
		t.Fatal(err)
	}

	data, err := semtok.EncodeTokenized(&semtok.Tokenized{Lines: doc.Lines, Legend: semtok.DefaultLegend()})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path+tokenizer.DefaultSuffix, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test-version"})

	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}

	if cmd.Use != "cosls" {
		t.Errorf("expected Use to be 'cosls', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})

	expectedSubcommands := []string{
		"tokens", "header", "ast", "extract", "check",
		"restore", "init", "migrate", "config", "version",
	}

	for _, name := range expectedSubcommands {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}

		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})

	for _, name := range []string{"debug", "config", "no-config", "color"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected global flag --%s", name)
		}
	}

	if got := cmd.PersistentFlags().Lookup("color").DefValue; got != "auto" {
		t.Errorf("expected --color default 'auto', got %q", got)
	}
}

func TestExtractCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})
	extractCmd, _, err := cmd.Find([]string{"extract"})
	if err != nil {
		t.Fatalf("find extract: %v", err)
	}

	for _, name := range []string{"start", "end", "name", "apply", "dry-run", "no-backups", "output"} {
		if extractCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected extract flag --%s", name)
		}
	}
}

func TestCheckCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})
	checkCmd, _, err := cmd.Find([]string{"check"})
	if err != nil {
		t.Fatalf("find check: %v", err)
	}

	for _, name := range []string{"ignore", "jobs", "output", "follow-symlinks"} {
		if checkCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected check flag --%s", name)
		}
	}
	if checkCmd.Flags().ShorthandLookup("j") == nil {
		t.Error("expected -j shorthand for --jobs")
	}
}

func TestHelpListsEnvironment(t *testing.T) {
	t.Parallel()

	out, err := execute("--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}

	for _, want := range []string{"Usage:", "Commands:", "extract", "Environment:", "COSLS_TAB_SIZE"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute("version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}

	for _, want := range []string{"cosls", "test-version", "test-commit", "test-date"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q: %s", want, out)
		}
	}

	out, err = execute("version", "--short")
	if err != nil {
		t.Fatalf("version --short: %v", err)
	}
	if out != "test-version\n" {
		t.Errorf("version --short = %q", out)
	}
}

func TestTokensCommand(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "B.cls", classMarkup...)

	out, err := execute("tokens", path)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if !strings.Contains(out, `"Class"`) || !strings.Contains(out, "1:1") {
		t.Errorf("token table missing the class keyword at 1:1:\n%s", out)
	}

	out, err = execute("tokens", "-o", "json", path)
	if err != nil {
		t.Fatalf("tokens -o json: %v", err)
	}
	tokenized, err := semtok.DecodeTokenized([]byte(out))
	if err != nil {
		t.Fatalf("decode tokens output: %v", err)
	}
	if len(tokenized.Lines) != len(classMarkup) {
		t.Errorf("got %d token lines, want %d", len(tokenized.Lines), len(classMarkup))
	}
}

func TestTokensCommand_NoSidecar(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "X.cls")
	if err := os.WriteFile(path, []byte("Class X {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := execute("tokens", path)
	if !errors.Is(err, tokenizer.ErrNoTokens) {
		t.Fatalf("expected ErrNoTokens, got %v", err)
	}
	if code := cli.ExitCode(err); code != cli.ExitIOError {
		t.Errorf("exit code = %d, want %d", code, cli.ExitIOError)
	}
}

func TestTokensCommand_InvalidOutput(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "B.cls", classMarkup...)

	_, err := execute("tokens", "-o", "table", path)
	if !errors.Is(err, cli.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestHeaderCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	valid := writeSource(t, dir, "Foo.mac",
		"{cmd:ROUTINE} {lv:Foo} {de:[}{lv:Type}{op:=}{lv:MAC}{de:]}",
		" {cmd:Quit}",
	)

	out, err := execute("header", valid)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if !strings.Contains(out, "Foo") || !strings.Contains(out, "MAC") {
		t.Errorf("header output missing name or type:\n%s", out)
	}

	out, err = execute("header", "-o", "json", valid)
	if err != nil {
		t.Fatalf("header -o json: %v", err)
	}
	var view struct {
		Header struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"header"`
		Variant string `json:"variant"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode header json: %v", err)
	}
	if view.Header.Name != "Foo" || view.Header.Type != "MAC" || view.Variant != "MAC" {
		t.Errorf("unexpected header view: %+v", view)
	}
}

func TestHeaderCommand_Invalid(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "Foo.mac",
		"{cmd:ROUTINE} {lv:Foo} {de:[}{lv:Type}{op:=}{lv:XYZ}{de:]}",
		" {cmd:Quit}",
	)

	out, err := execute("header", path)
	if !errors.Is(err, cli.ErrHeaderInvalid) {
		t.Fatalf("expected ErrHeaderInvalid, got %v", err)
	}
	if !strings.Contains(out, "XYZ") || !strings.Contains(out, "^") {
		t.Errorf("expected an excerpt pointing at the type:\n%s", out)
	}
	if !cli.Reported(err) {
		t.Error("invalid header should count as already reported")
	}
}

func TestASTCommand(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "B.cls", classMarkup...)

	out, err := execute("ast", path)
	if err != nil {
		t.Fatalf("ast: %v", err)
	}
	for _, want := range []string{"Class A.B", "Method M()", "(3-"} {
		if !strings.Contains(out, want) {
			t.Errorf("ast output missing %q:\n%s", want, out)
		}
	}

	out, err = execute("ast", "-o", "yaml", path)
	if err != nil {
		t.Fatalf("ast -o yaml: %v", err)
	}
	if !strings.Contains(out, "name: A.B") {
		t.Errorf("yaml output missing class name:\n%s", out)
	}
}

func TestASTCommand_LexicalErrors(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "Bad.cls", "{kw:Class} {ccn:Bad} {cerr:?}")

	_, err := execute("ast", path)
	if !errors.Is(err, workspace.ErrLexicalErrors) {
		t.Fatalf("expected ErrLexicalErrors, got %v", err)
	}
}

func TestExtractCommand_Diff(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "B.cls", classMarkup...)
	original := readFile(t, path)

	out, err := execute("extract", path, "--start", "5", "--end", "6", "--name", "Helper")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	for _, want := range []string{"--- a/" + filepath.ToSlash(path), "+Method Helper()", "..Helper()"} {
		if !strings.Contains(out, want) {
			t.Errorf("diff missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/..") {
		t.Errorf("diff header climbs out of the working directory:\n%s", out)
	}
	if got := readFile(t, path); got != original {
		t.Error("extract without --apply modified the file")
	}

	applied := writeSource(t, t.TempDir(), "B.cls", classMarkup...)
	if _, err := execute("extract", applied, "--start", "5", "--end", "6", "--name", "Helper", "--apply", "--no-backups"); err != nil {
		t.Fatalf("extract --apply: %v", err)
	}
	if got, want := patch(t, original, out), readFile(t, applied); got != want {
		t.Errorf("diff does not reproduce the applied file:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// patch applies the unified diff to original, following its hunk headers.
func patch(t *testing.T, original, diff string) string {
	t.Helper()

	src := strings.SplitAfter(original, "\n")
	var out []string
	next := 0
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case line == "", strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
		case strings.HasPrefix(line, "@@ "):
			fields := strings.Fields(line)
			if len(fields) < 3 {
				t.Fatalf("bad hunk header %q", line)
			}
			from, count, found := strings.Cut(strings.TrimPrefix(fields[1], "-"), ",")
			start, err := strconv.Atoi(from)
			if err != nil {
				t.Fatalf("bad hunk header %q: %v", line, err)
			}
			if !found || count != "0" {
				start--
			}
			if start < next || start > len(src) {
				t.Fatalf("hunk %q out of order", line)
			}
			out = append(out, src[next:start]...)
			next = start
		case line[0] == '+':
			out = append(out, line[1:]+"\n")
		case line[0] == '-':
			next++
		default:
			if next >= len(src) {
				t.Fatalf("context line %q past the end of the file", line)
			}
			out = append(out, src[next])
			next++
		}
	}
	if next < len(src) {
		out = append(out, src[next:]...)
	}
	return strings.Join(out, "")
}

func TestExtractCommand_JSON(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "B.cls", classMarkup...)

	out, err := execute("extract", path, "--start", "5", "--end", "6", "-o", "json")
	if err != nil {
		t.Fatalf("extract -o json: %v", err)
	}
	var resp workspace.ExtractResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Name != "ExtractedMethod" {
		t.Errorf("name = %q, want the configured default", resp.Name)
	}
	if len(resp.Edits) != 2 {
		t.Errorf("got %d edits, want 2", len(resp.Edits))
	}
}

func TestExtractCommand_ApplyAndRestore(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "B.cls", classMarkup...)
	original := readFile(t, path)

	if _, err := execute("extract", path, "--start", "5", "--end", "6", "--name", "Helper", "--apply"); err != nil {
		t.Fatalf("extract --apply: %v", err)
	}

	modified := readFile(t, path)
	if !strings.Contains(modified, "Method Helper()") || !strings.Contains(modified, "..Helper()") {
		t.Errorf("file not rewritten:\n%s", modified)
	}
	backup := fsutil.BackupPath(path, fsutil.BackupModeSidecar)
	if got := readFile(t, backup); got != original {
		t.Errorf("backup does not hold the original:\n%s", got)
	}

	if _, err := execute("restore", path); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := readFile(t, path); got != original {
		t.Errorf("restore did not bring back the original:\n%s", got)
	}
	if fsutil.BackupExists(path, fsutil.BackupModeSidecar) {
		t.Error("restore left the backup behind")
	}
}

func TestExtractCommand_ApplyNoBackups(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "B.cls", classMarkup...)

	if _, err := execute("extract", path, "--start", "5", "--end", "6", "--apply", "--no-backups"); err != nil {
		t.Fatalf("extract --apply --no-backups: %v", err)
	}
	if fsutil.BackupExists(path, fsutil.BackupModeSidecar) {
		t.Error("--no-backups still wrote a backup")
	}
}

func TestExtractCommand_DryRun(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "B.cls", classMarkup...)
	original := readFile(t, path)

	out, err := execute("extract", path, "--start", "5", "--end", "6", "--apply", "--dry-run")
	if err != nil {
		t.Fatalf("extract --dry-run: %v", err)
	}
	if !strings.Contains(out, "@@") {
		t.Errorf("dry run should print the diff:\n%s", out)
	}
	if got := readFile(t, path); got != original {
		t.Error("dry run modified the file")
	}
}

func TestExtractCommand_Refused(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "B.cls", classMarkup...)

	_, err := execute("extract", path, "--start", "7")
	if !errors.Is(err, cli.ErrRefused) {
		t.Fatalf("expected ErrRefused, got %v", err)
	}
	if code := cli.ExitCode(err); code != cli.ExitRefused {
		t.Errorf("exit code = %d, want %d", code, cli.ExitRefused)
	}
}

func TestExtractCommand_InvalidRange(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "B.cls", classMarkup...)

	tests := [][]string{
		{"--start", "0"},
		{"--start", "6", "--end", "5"},
	}
	for _, flags := range tests {
		t.Run(strings.Join(flags, " "), func(t *testing.T) {
			t.Parallel()

			_, err := execute(append([]string{"extract", path}, flags...)...)
			if !errors.Is(err, cli.ErrUsage) {
				t.Fatalf("expected ErrUsage, got %v", err)
			}
		})
	}
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSource(t, dir, "A/B.cls", classMarkup...)
	writeSource(t, dir, "Bad.cls", "{kw:Class} {ccn:Bad} {cerr:?}")

	out, err := execute("check", dir)
	if !errors.Is(err, cli.ErrCheckFailed) {
		t.Fatalf("expected ErrCheckFailed, got %v", err)
	}
	for _, want := range []string{"FAIL", "ok", "of 2 files with errors"} {
		if !strings.Contains(out, want) {
			t.Errorf("check output missing %q:\n%s", want, out)
		}
	}

	out, err = execute("check", "-o", "json", dir)
	if !errors.Is(err, cli.ErrCheckFailed) {
		t.Fatalf("expected ErrCheckFailed, got %v", err)
	}
	var result workspace.CheckResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode check json: %v", err)
	}
	if result.Stats.FilesChecked != 2 || result.Stats.FilesWithErrors != 1 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
}

func TestCheckCommand_Clean(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSource(t, dir, "A/B.cls", classMarkup...)

	out, err := execute("check", "--output", "table", "-j", "2", dir)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "Check passed") {
		t.Errorf("expected a passing summary:\n%s", out)
	}
}

func TestCheckCommand_NegativeJobs(t *testing.T) {
	t.Parallel()

	_, err := execute("check", "--jobs", "-1", t.TempDir())
	if !errors.Is(err, cli.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestInvalidColorMode(t *testing.T) {
	t.Parallel()

	_, err := execute("--color", "sometimes", "config", "env")
	if !errors.Is(err, cli.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".cosls.yml")

	if _, err := execute("init", "--output", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	if content := readFile(t, path); !strings.Contains(content, "tab_size: 4") {
		t.Errorf("template missing defaults:\n%s", content)
	}

	_, err := execute("init", "--output", path)
	if !errors.Is(err, cli.ErrUsage) {
		t.Fatalf("expected ErrUsage for existing file, got %v", err)
	}

	if _, err := execute("init", "--output", path, "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
}

func TestInitCommand_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := execute("init", "--format", "toml", "--output", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, cli.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestMigrateAndConfigShow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.json")
	content := `{
  // editor settings
  "editor.tabSize": 2,
  "editor.insertSpaces": true,
}`
	if err := os.WriteFile(settings, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute("migrate", settings, "--dry-run")
	if err != nil {
		t.Fatalf("migrate --dry-run: %v", err)
	}
	if !strings.Contains(out, "tab_size: 2") {
		t.Errorf("dry run missing converted tab size:\n%s", out)
	}

	target := filepath.Join(dir, ".cosls.yml")
	if _, err := execute("migrate", settings, "--output", target); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	out, err = execute("--config", target, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"tab_size: 2", "insert_spaces: true", "Loaded from: " + target} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestConfigEnv(t *testing.T) {
	t.Parallel()

	out, err := execute("config", "env")
	if err != nil {
		t.Fatalf("config env: %v", err)
	}
	if !strings.Contains(out, "COSLS_TAB_SIZE") {
		t.Errorf("missing COSLS_TAB_SIZE:\n%s", out)
	}
}

func TestConfigShow_InvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("format:\n  tab_size: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := execute("--config", path, "config", "show")
	if !errors.Is(err, cli.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	if code := cli.ExitCode(err); code != cli.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, cli.ExitConfigError)
	}
}

func TestRestoreCommand_NoBackup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "B.cls")
	if err := os.WriteFile(path, []byte("Class B {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := execute("restore", path)
	if !errors.Is(err, fsutil.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, cli.ExitSuccess},
		{cli.ErrCheckFailed, cli.ExitFailure},
		{cli.ErrHeaderInvalid, cli.ExitFailure},
		{fmt.Errorf("%w: has Return", cli.ErrRefused), cli.ExitRefused},
		{fmt.Errorf("%w: bad flag", cli.ErrUsage), cli.ExitInvalidUsage},
		{fmt.Errorf("%w: bad file", cli.ErrConfig), cli.ExitConfigError},
		{fmt.Errorf("read: %w", fsutil.ErrPermissionDenied), cli.ExitIOError},
		{fsutil.ErrModified, cli.ExitIOError},
		{errors.New("boom"), cli.ExitFailure},
	}

	for _, tt := range tests {
		if got := cli.ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
