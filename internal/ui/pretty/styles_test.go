package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cosls/internal/ui/pretty"
)

func TestNewStyles_PlainWithoutColor(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	for name, style := range map[string]interface{ Render(...string) string }{
		"error":    styles.Error,
		"bold":     styles.Bold,
		"diff add": styles.DiffAdd,
		"header":   styles.TableHeader,
		"location": styles.Location,
	} {
		assert.Equal(t, "text", style.Render("text"), name)
	}
}

func TestNewStyles_ColorSetsForeground(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)
	assert.True(t, styles.Error.GetBold())
	assert.NotNil(t, styles.Error.GetForeground())
	assert.False(t, styles.DiffAdd.GetBold())
	assert.True(t, styles.FilePath.GetBold())
}

func TestParseColorMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: pretty.ColorAuto},
		{in: "auto", want: pretty.ColorAuto},
		{in: "always", want: pretty.ColorAlways},
		{in: "never", want: pretty.ColorNever},
		{in: "sometimes", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := pretty.ParseColorMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsColorEnabled_ExplicitModes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled(pretty.ColorAlways, &buf))
	assert.False(t, pretty.IsColorEnabled(pretty.ColorNever, os.Stdout))
}

func TestIsColorEnabled_AutoRequiresTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled(pretty.ColorAuto, &buf))
	assert.False(t, pretty.IsColorEnabled("", &buf))
}

func TestIsColorEnabled_NoColorWins(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled(pretty.ColorAuto, os.Stdout))
}

func TestTerminalWidth_NonTTY(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, 100, pretty.TerminalWidth(&buf))
}
