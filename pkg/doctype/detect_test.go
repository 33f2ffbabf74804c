package doctype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/cosls/pkg/doctype"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		content string
		want    doctype.Kind
	}{
		{
			name:    "class definition",
			path:    "src/App/Person.cls",
			content: "/// A person\nClass App.Person Extends %Persistent\n{\n}\n",
			want:    doctype.Class,
		},
		{
			name:    "class with imports",
			path:    "App/Util.CLS",
			content: "Import App\n\nClass App.Util\n{\n}\n",
			want:    doctype.Class,
		},
		{
			name:    "other cls file",
			path:    "paper.cls",
			content: "\\NeedsTeXFormat{LaTeX2e}\n\\ProvidesClass{paper}\n",
			want:    doctype.Unknown,
		},
		{
			name:    "routine header wins over extension",
			path:    "x.txt",
			content: "ROUTINE Util [Type=INC]\n#define X 1\n",
			want:    doctype.Include,
		},
		{
			name:    "header without type",
			path:    "x.rtn",
			content: "ROUTINE Util\n",
			want:    doctype.Routine,
		},
		{
			name:    "intermediate by extension",
			path:    "Util.int",
			content: "Util ; comment\n",
			want:    doctype.Intermediate,
		},
		{
			name:    "mac by extension",
			path:    "Util.mac",
			content: "",
			want:    doctype.Routine,
		},
		{
			name: "unrelated",
			path: "README.md",
			want: doctype.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, doctype.Detect(tt.path, []byte(tt.content)))
		})
	}
}

func TestIsSource(t *testing.T) {
	t.Parallel()

	assert.True(t, doctype.IsSource("a/B.cls"))
	assert.True(t, doctype.IsSource("a/B.INC"))
	assert.False(t, doctype.IsSource("a/B.go"))
}
