package linesrc_test

import (
	"errors"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cosls/pkg/linesrc"
	"github.com/yaklabco/cosls/pkg/semtok"
)

const (
	white semtok.Style = 1
	word  semtok.Style = 2
	punct semtok.Style = 3
)

func TestSource_CommitCoversLine(t *testing.T) {
	t.Parallel()

	src := linesrc.New("ab  [c]", white)
	require.Equal(t, 2, src.AdvanceWhile(unicode.IsLetter))
	assert.Equal(t, "ab", src.Pending())
	require.NoError(t, src.CommitToken(word))
	require.NoError(t, src.SkipWhitespace())
	assert.Equal(t, '[', src.CurrentChar())
	assert.Equal(t, 'c', src.Peek(1))
	require.NoError(t, src.Advance(1))
	require.NoError(t, src.CommitToken(punct))
	src.AdvanceWhile(unicode.IsLetter)
	require.NoError(t, src.CommitToken(word))
	require.NoError(t, src.Advance(1))
	require.NoError(t, src.CommitToken(punct))

	assert.True(t, src.Ended())
	assert.True(t, src.Covered())
	assert.Equal(t, []linesrc.Span{
		{Start: 0, Len: 2, Style: word},
		{Start: 2, Len: 2, Style: white},
		{Start: 4, Len: 1, Style: punct},
		{Start: 5, Len: 1, Style: word},
		{Start: 6, Len: 1, Style: punct},
	}, src.Spans())

	line := src.Tokens(semtok.MonikerRTN)
	assert.True(t, semtok.ValidateLine(line, src.Len()))
	assert.Equal(t, semtok.MonikerRTN, line[0].Lang)
}

func TestSource_Misuse(t *testing.T) {
	t.Parallel()

	src := linesrc.New("ab", white)
	require.ErrorIs(t, src.CommitToken(word), linesrc.ErrEmptySpan)
	require.ErrorIs(t, src.ColorLastAsError(errors.New("x")), linesrc.ErrNoSpan)
	require.ErrorIs(t, src.Advance(3), linesrc.ErrPastEnd)

	require.NoError(t, src.Advance(1))
	require.ErrorIs(t, src.SkipWhitespace(), linesrc.ErrPendingSpan)
	assert.False(t, src.Covered())
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	src := linesrc.New("key=", white)
	src.AdvanceWhile(unicode.IsLetter)
	require.NoError(t, src.CommitToken(word))
	require.NoError(t, src.ColorLastAsError(errors.New("unknown key")))
	src.ToEnd()
	require.NoError(t, src.CommitError(errors.New("trailing")))

	line := src.Tokens(semtok.MonikerRTN)
	require.Len(t, line, 2)
	assert.True(t, line.HasErrors())
	assert.Equal(t, "unknown key", line[0].Err)
	assert.Equal(t, semtok.ErrorStyle, line[1].Style)
	assert.Equal(t, "trailing", line[1].Err)
}

func TestSource_UTF16(t *testing.T) {
	t.Parallel()

	src := linesrc.New("\U0001F600x", white)
	assert.Equal(t, 3, src.Len())
	require.NoError(t, src.Advance(2))
	assert.Equal(t, "\U0001F600", src.Pending())
	assert.Equal(t, 2, src.Pos())
	assert.Zero(t, src.Mark())
}

func TestSource_ZeroValue(t *testing.T) {
	t.Parallel()

	var src linesrc.Source
	assert.True(t, src.Ended())
	assert.True(t, src.Covered())
	assert.Zero(t, src.CurrentChar())
	assert.Empty(t, src.Tokens(semtok.MonikerRTN))
}
