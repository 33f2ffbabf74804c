package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/cosls/pkg/config"
)

func TestFormatCommand(t *testing.T) {
	tests := []struct {
		name   string
		format config.FormatConfig
		want   string
	}{
		{"default", config.FormatConfig{}, "Do"},
		{"word long", config.FormatConfig{CommandCase: config.CaseWord, CommandLength: config.LengthLong}, "Do"},
		{"upper long", config.FormatConfig{CommandCase: config.CaseUpper}, "DO"},
		{"lower short", config.FormatConfig{CommandCase: config.CaseLower, CommandLength: config.LengthShort}, "d"},
		{"word short", config.FormatConfig{CommandLength: config.LengthShort}, "D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.Command("Do", "D"))
		})
	}
}

func TestFormatIndent(t *testing.T) {
	tabs := config.FormatConfig{TabSize: 4}
	spaces := config.FormatConfig{TabSize: 2, InsertSpaces: true}

	assert.Equal(t, "\t\t", tabs.Indent(2))
	assert.Equal(t, "    ", spaces.Indent(2))
	assert.Equal(t, "", tabs.Indent(0))

	assert.Equal(t, "\t  ", tabs.IndentWidth(6))
	assert.Equal(t, "   ", spaces.IndentWidth(3))

	assert.Equal(t, 4, tabs.Width("\t"))
	assert.Equal(t, 6, tabs.Width("  \t  "))
	assert.Equal(t, 3, tabs.Width("   "))
}
