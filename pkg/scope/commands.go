package scope

import (
	"strings"

	"github.com/yaklabco/cosls/pkg/semtok"
)

// Canonical command names, keyed by every accepted spelling.
//
//nolint:gochecknoglobals // Read-only lookup table.
var commandNames = map[string]string{
	"s": "set", "set": "set",
	"f": "for", "for": "for",
	"q": "quit", "quit": "quit",
	"ret": "return", "return": "return",
	"k": "kill", "kill": "kill",
	"r": "read", "read": "read",
	"m": "merge", "merge": "merge",
	"d": "do", "do": "do",
	"i": "if", "if": "if",
	"e": "else", "else": "else",
	"elseif": "elseif",
	"w":      "write", "write": "write",
	"while": "while",
	"g":     "goto", "goto": "goto",
	"n": "new", "new": "new",
	"try": "try", "catch": "catch",
}

// commandName returns the canonical lower-case name of a command token text.
func commandName(text string) string {
	lower := strings.ToLower(text)
	if name, ok := commandNames[lower]; ok {
		return name
	}
	return lower
}

// dimDirective is the pseudo-command name given to #Dim lines.
const dimDirective = "#dim"

// lineScan gives token-level access to one document line.
type lineScan struct {
	doc  *semtok.Document
	line int
	toks semtok.Line
}

func scanLine(doc *semtok.Document, line int) lineScan {
	return lineScan{doc: doc, line: line, toks: doc.Lines[line]}
}

func (l lineScan) text(i int) string {
	return l.doc.TokenText(l.line, l.toks[i])
}

func (l lineScan) loc(i int) semtok.Loc {
	return semtok.Loc{Line: l.line, Index: i}
}

// is reports whether token i is a COS token of style with the given text
// (case-insensitive). An empty text matches any token of the style.
func (l lineScan) is(i int, style semtok.Style, text string) bool {
	if i < 0 || i >= len(l.toks) || !l.toks[i].Is(semtok.MonikerCOS, style) {
		return false
	}
	return text == "" || strings.EqualFold(l.text(i), text)
}

func (l lineScan) isWhite(i int) bool {
	return i >= 0 && i < len(l.toks) && l.toks[i].Style == semtok.COSWhiteSpace &&
		l.toks[i].Lang == semtok.MonikerCOS
}

func (l lineScan) isDelim(i int, text string) bool {
	return l.is(i, semtok.COSDelimiter, text)
}

// adjacent reports whether tokens i and j touch.
func (l lineScan) adjacent(i, j int) bool {
	return i >= 0 && j < len(l.toks) && l.toks[i].End() == l.toks[j].Pos
}

// dotPrefixed reports whether token i is immediately preceded by a
// single-character "." operator, the pass-by-reference marker.
func (l lineScan) dotPrefixed(i int) bool {
	return l.is(i-1, semtok.COSOperator, ".") && l.toks[i-1].Len == 1 && l.adjacent(i-1, i)
}

// subscripted reports whether token i is immediately followed by "(".
func (l lineScan) subscripted(i int) bool {
	return l.isDelim(i+1, "(") && l.adjacent(i, i+1)
}

// memberAccess reports whether token i is the head of an object member chain.
func (l lineScan) memberAccess(i int) bool {
	return l.is(i+1, semtok.COSObjectDot, "") && l.adjacent(i, i+1)
}

func (l lineScan) skipWhite(i, end int) int {
	for i < end && l.isWhite(i) {
		i++
	}
	return i
}

// skipCondition skips a postconditional expression starting at i. The
// expression ends at the first whitespace outside parentheses.
func (l lineScan) skipCondition(i, end int) int {
	depth := 0
	for ; i < end; i++ {
		switch {
		case l.isDelim(i, "("):
			depth++
		case l.isDelim(i, ")"):
			depth--
		case depth <= 0 && l.isWhite(i):
			return i
		}
	}
	return end
}

// find returns the index of the first token in [i, end) at parenthesis depth
// 0 that satisfies match, or -1. Search stops at a depth-0 comma unless the
// comma itself is wanted.
func (l lineScan) find(i, end int, match func(int) bool, stopAtComma bool) int {
	depth := 0
	for ; i < end; i++ {
		if depth == 0 && match(i) {
			return i
		}
		switch {
		case l.isDelim(i, "("):
			depth++
		case l.isDelim(i, ")"):
			depth--
		case depth == 0 && stopAtComma && l.isDelim(i, ","):
			return -1
		}
	}
	return -1
}

// variables returns the names of variable tokens in [i, end).
func (l lineScan) variables(i, end int) map[string]bool {
	names := make(map[string]bool)
	for ; i < end; i++ {
		if IsVariable(l.toks[i]) {
			names[l.text(i)] = true
		}
	}
	return names
}

// command is one command on a line: its token and its argument region.
type command struct {
	name string
	at   int
	end  int

	// guarded is set when the command may not run every time the range runs:
	// it sits inside a brace block of the range, or follows a conditional or
	// loop command on the same line.
	guarded bool

	// loop is set when a Quit at this point would leave a loop rather than
	// the method.
	loop bool
}

// blockKind records what opened a brace block.
type blockKind int

const (
	blockOther blockKind = iota
	blockLoop
)

// walker visits the commands of a line range while tracking brace blocks.
type walker struct {
	doc    *semtok.Document
	blocks []blockKind
	opened []int
	err    error
}

func (w *walker) inLoop() bool {
	return w.outerLoop() >= 0
}

// outerLoop returns the line that opened the outermost open loop block, or
// -1 outside any loop.
func (w *walker) outerLoop() int {
	for i, b := range w.blocks {
		if b == blockLoop {
			return w.opened[i]
		}
	}
	return -1
}

// line splits one line into commands. Braces update the block stack; a
// closing brace without an opener records ErrUnbalancedBraces.
func (w *walker) line(line int) (lineScan, []command) {
	ls := scanLine(w.doc, line)
	var (
		cmds        []command
		last        string
		guardOnLine bool
		loopOnLine  bool
	)
	closeCurrent := func(i int) {
		if n := len(cmds); n > 0 && cmds[n-1].end < 0 {
			cmds[n-1].end = i
		}
	}

	for i, tok := range ls.toks {
		if tok.Lang != semtok.MonikerCOS {
			closeCurrent(i)
			continue
		}
		switch tok.Style {
		case semtok.COSBrace:
			closeCurrent(i)
			switch ls.text(i) {
			case "{":
				kind := blockOther
				if last == "for" || last == "while" || last == "do" {
					kind = blockLoop
				}
				w.blocks = append(w.blocks, kind)
				w.opened = append(w.opened, line)
				guardOnLine = false
				loopOnLine = false
			case "}":
				if len(w.blocks) == 0 {
					if w.err == nil {
						w.err = ErrUnbalancedBraces
					}
					continue
				}
				w.blocks = w.blocks[:len(w.blocks)-1]
				w.opened = w.opened[:len(w.opened)-1]
			}
		case semtok.COSComment:
			closeCurrent(i)
		case semtok.COSCommand:
			closeCurrent(i)
			name := commandName(ls.text(i))
			cmds = append(cmds, command{
				name:    name,
				at:      i,
				end:     -1,
				guarded: len(w.blocks) > 0 || guardOnLine,
				loop:    loopOnLine || w.inLoop(),
			})
			last = name
			switch name {
			case "if", "elseif", "else", "for", "while":
				guardOnLine = true
			}
			if name == "for" {
				loopOnLine = true
			}
		case semtok.COSPreprocessor:
			if strings.EqualFold(ls.text(i), dimDirective) {
				closeCurrent(i)
				cmds = append(cmds, command{name: dimDirective, at: i, end: -1, guarded: len(w.blocks) > 0 || guardOnLine})
			}
		}
	}
	closeCurrent(len(ls.toks))
	return ls, cmds
}
