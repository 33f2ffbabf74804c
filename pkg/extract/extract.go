// Package extract turns a scope analysis into the edits that move a line
// range of a method body into a new method and call it from the old place.
package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/yaklabco/cosls/pkg/clsast"
	"github.com/yaklabco/cosls/pkg/config"
	"github.com/yaklabco/cosls/pkg/scope"
	"github.com/yaklabco/cosls/pkg/semtok"
	"github.com/yaklabco/cosls/pkg/textedit"
)

// Errors returned by Synthesize.
var (
	ErrInvalidName = errors.New("invalid method name")
	ErrNameTaken   = errors.New("class already has a member with that name")
)

// Options control the generated code.
type Options struct {
	// Name of the new method; empty uses Extract.DefaultName.
	Name string

	Format  config.FormatConfig
	Extract config.ExtractConfig
}

// DefaultOptions returns options built from the default configuration.
func DefaultOptions() Options {
	cfg := config.NewConfig()
	return Options{Format: cfg.Format, Extract: cfg.Extract}
}

// Result is the outcome of an extraction.
type Result struct {
	// Name is the new method's name.
	Name string

	// Edits are sorted and non-overlapping.
	Edits []textedit.TextEdit

	// Analysis is the scope analysis the edits were built from.
	Analysis *scope.Result
}

// Synthesize analyzes the request's range and renders the edits. It returns
// either a complete edit set or an error, never a partial set.
func Synthesize(req scope.Request, opts Options) (*Result, error) {
	name := opts.Name
	if name == "" {
		name = opts.Extract.DefaultName
	}
	if !ValidName(name) {
		return nil, fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if req.Class != nil {
		for _, m := range req.Class.Members {
			if m.Kind.IsMethod() && strings.EqualFold(m.Name, name) {
				return nil, fmt.Errorf("%s %s: %w", m.Kind, m.Name, ErrNameTaken)
			}
		}
	}

	analysis, err := scope.Analyze(req)
	if err != nil {
		return nil, err
	}

	r := &renderer{doc: req.Doc, req: req, res: analysis, opts: opts, name: name}
	edits := []textedit.TextEdit{r.insertion(), r.replacement()}

	prepared, err := textedit.Prepare(req.Doc, edits)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}
	return &Result{Name: name, Edits: prepared, Analysis: analysis}, nil
}

// ValidName reports whether name is a plain method identifier.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r):
		case r == '%' && i == 0:
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}

type renderer struct {
	doc  *semtok.Document
	req  scope.Request
	res  *scope.Result
	opts Options
	name string
}

// insertion places the new method after the donor's closing brace line.
func (r *renderer) insertion() textedit.TextEdit {
	method := strings.Join(r.method(), "\n")
	after := r.res.Body.Close + 1
	if after < r.doc.LineCount() {
		return textedit.TextEdit{
			Range:   semtok.Range{Start: semtok.Position{Line: after}, End: semtok.Position{Line: after}},
			NewText: "\n" + method + "\n",
		}
	}
	end := r.doc.End()
	return textedit.TextEdit{
		Range:   semtok.Range{Start: end, End: end},
		NewText: "\n\n" + method,
	}
}

// replacement swaps the range for the call statement.
func (r *renderer) replacement() textedit.TextEdit {
	indent := r.doc.Indentation(r.firstCodeLine())
	format := r.opts.Format

	var b strings.Builder
	for _, d := range r.res.DonorDims {
		b.WriteString(indent + dimText(format, d) + "\n")
	}
	b.WriteString(indent + format.Command("Do", "D") + " .." + r.name + "(" + r.callArgs() + ")\n")

	return textedit.TextEdit{
		Range:   textedit.LineRange(r.doc, r.req.StartLine, r.req.EndLine),
		NewText: b.String(),
	}
}

func (r *renderer) callArgs() string {
	args := make([]string, len(r.res.Params))
	for i, p := range r.res.Params {
		if p.Mode != clsast.ArgByVal {
			args[i] = "." + p.Name
		} else {
			args[i] = p.Name
		}
	}
	return strings.Join(args, ",")
}

// method renders the new method's lines.
func (r *renderer) method() []string {
	var lines []string
	if stub := r.opts.Extract.DocStub; stub != "" {
		for _, l := range strings.Split(stub, "\n") {
			lines = append(lines, "/// "+l)
		}
	}
	lines = append(lines, r.signature()...)
	lines = append(lines, "{")
	lines = append(lines, r.body()...)
	lines = append(lines, "}")
	return lines
}

func (r *renderer) signature() []string {
	kind := clsast.KindMethod
	if r.req.Member.Kind == clsast.KindClassMethod {
		kind = clsast.KindClassMethod
	}
	head := string(kind) + " " + r.name + "("
	clause := r.keywordClause()

	format := r.opts.Format
	params := make([]string, len(r.res.Params))
	for i, p := range r.res.Params {
		params[i] = paramText(p)
	}

	if format.MultiLineArgs <= 0 || len(params) <= format.MultiLineArgs {
		return []string{head + strings.Join(params, ", ") + ")" + clause}
	}

	lines := []string{head}
	indent := format.Indent(1)
	for i, p := range params {
		last := i == len(params)-1
		switch format.CommaStyle {
		case config.CommaLeading:
			if i > 0 {
				p = ", " + p
			}
		default:
			if !last {
				p += ","
			}
		}
		if last {
			p += ")" + clause
		}
		lines = append(lines, indent+p)
	}
	return lines
}

func paramText(p scope.Param) string {
	text := p.Name
	if mode := p.Mode.String(); mode != "" {
		text = mode + " " + text
	}
	if p.Type != "" {
		text += " As " + p.Type
	}
	return text
}

func (r *renderer) keywordClause() string {
	var items []string
	if r.res.ExplicitProcedureBlock {
		value := "0"
		if r.res.ProcedureBlock {
			value = "1"
		}
		items = append(items, "ProcedureBlock = "+value)
	}
	switch len(r.res.PublicList) {
	case 0:
	case 1:
		items = append(items, "PublicList = "+r.res.PublicList[0])
	default:
		items = append(items, "PublicList = ("+strings.Join(r.res.PublicList, ",")+")")
	}
	if len(items) == 0 {
		return ""
	}
	return " [ " + strings.Join(items, ", ") + " ]"
}

func dimText(format config.FormatConfig, d scope.DimDecl) string {
	text := format.Command("#Dim", "") + " " + d.Name
	if d.Type != "" {
		text += " As " + d.Type
	}
	return text
}
