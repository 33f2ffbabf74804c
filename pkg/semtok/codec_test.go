package semtok_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cosls/pkg/semtok"
)

func TestDecodeTokenized(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"legend": {"1": ["Error", "White Space"], "CLS": ["Error"]},
		"lines": [[[0, 4, 1, 3], [4, 1, 1, 1, 1]], []]
	}`)

	got, err := semtok.DecodeTokenized(data)
	require.NoError(t, err)

	want := &semtok.Tokenized{
		Lines: []semtok.Line{
			{
				{Pos: 0, Len: 4, Lang: semtok.MonikerCOS, Style: semtok.COSCommand},
				{Pos: 4, Len: 1, Lang: semtok.MonikerCOS, Style: semtok.COSWhiteSpace, Warning: true},
			},
			{},
		},
		Legend: semtok.Legend{
			semtok.MonikerCOS: {"Error", "White Space"},
			semtok.MonikerCLS: {"Error"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeTokenized mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTokenized_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{`},
		{name: "short token", data: `{"lines": [[[0, 1, 1]]]}`},
		{name: "negative position", data: `{"lines": [[[-1, 1, 1, 0]]]}`},
		{name: "zero length", data: `{"lines": [[[0, 0, 1, 0]]]}`},
		{name: "fractional", data: `{"lines": [[[0.5, 1, 1, 0]]]}`},
		{name: "bad moniker", data: `{"legend": {"COBOL": []}, "lines": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := semtok.DecodeTokenized([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestEncodeTokenized(t *testing.T) {
	t.Parallel()

	in := &semtok.Tokenized{
		Lines: []semtok.Line{
			{{Pos: 0, Len: 3, Lang: semtok.MonikerCLS, Style: semtok.CLSKeyword, Warning: true}},
		},
		Legend: semtok.Legend{semtok.MonikerCLS: {"Error"}},
	}

	data, err := semtok.EncodeTokenized(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"legend": {"3": ["Error"]}, "lines": [[[0, 3, 3, 4, 1]]]}`, string(data))

	out, err := semtok.DecodeTokenized(data)
	require.NoError(t, err)
	assert.Equal(t, in.Lines, out.Lines)
}

func TestLegend_Check(t *testing.T) {
	t.Parallel()

	assert.Empty(t, semtok.DefaultLegend().Check())

	legend := semtok.DefaultLegend()
	legend[semtok.MonikerCOS] = legend[semtok.MonikerCOS][:3]
	legend[semtok.MonikerCLS][4] = "Word"
	problems := legend.Check()
	assert.Len(t, problems, len(semtok.DefaultLegend()[semtok.MonikerCOS])-3+1)

	assert.Equal(t, "Keyword", semtok.DefaultLegend().Name(semtok.MonikerCLS, semtok.CLSKeyword))
	assert.Equal(t, "Style(99)", semtok.DefaultLegend().Name(semtok.MonikerCLS, 99))
}

func TestLegend_Merge(t *testing.T) {
	t.Parallel()

	base := semtok.Legend{semtok.MonikerCOS: {"A"}}
	merged := base.Merge(semtok.Legend{semtok.MonikerCOS: {"B"}, semtok.MonikerSQL: {"C"}})
	assert.Equal(t, []string{"A"}, merged[semtok.MonikerCOS])
	assert.Equal(t, []string{"C"}, merged[semtok.MonikerSQL])
}

func TestParseMoniker(t *testing.T) {
	t.Parallel()

	m, err := semtok.ParseMoniker("cls")
	require.NoError(t, err)
	assert.Equal(t, semtok.MonikerCLS, m)

	m, err = semtok.ParseMoniker("9")
	require.NoError(t, err)
	assert.Equal(t, semtok.MonikerRTN, m)
	assert.Equal(t, "RTN", m.String())
	assert.Equal(t, "Moniker(42)", semtok.Moniker(42).String())

	_, err = semtok.ParseMoniker("300")
	require.Error(t, err)
}
