package scope

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yaklabco/cosls/pkg/clsast"
	"github.com/yaklabco/cosls/pkg/semtok"
)

// Analyze classifies the variables of the request's line range.
func Analyze(req Request) (*Result, error) {
	if req.Doc == nil || req.Member == nil || !req.Member.Kind.IsMethod() {
		return nil, ErrNotMethod
	}
	body, err := clsast.FindBody(req.Doc, req.Member)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotInBody, err)
	}
	if !body.Contains(req.StartLine, req.EndLine) {
		return nil, fmt.Errorf("lines %d-%d of %s: %w",
			req.StartLine+1, req.EndLine+1, req.Member.Name, ErrNotInBody)
	}

	a := &analyzer{
		req:      req,
		doc:      req.Doc,
		body:     body,
		vars:     make(map[string]*Variable),
		produced: make(map[string]bool),
		written:  make(map[string]bool),
		after:    make(map[string]bool),
		dimIn:    make(map[string]*dimLine),
		dimAbove: make(map[string]*dimLine),
		declared: make(map[semtok.Loc]bool),
	}
	if err := a.walk(); err != nil {
		return nil, err
	}

	res := &Result{Body: body}
	res.ProcedureBlock, res.ExplicitProcedureBlock = resolveProcedureBlock(req)
	if !res.ProcedureBlock {
		return res, nil
	}

	a.spec, err = clsast.ParseFormalSpec(req.Doc, req.Member)
	if err != nil {
		return nil, err
	}
	a.scanDims()
	a.collect()
	a.scanWrites()
	a.scanAfter()
	a.compose(res)
	return res, nil
}

// resolveProcedureBlock applies the precedence method keyword, class keyword,
// inherited class setting, default on.
func resolveProcedureBlock(req Request) (bool, bool) {
	if v, ok := clsast.ParseKeywords(req.Doc, req.Member).Bool("ProcedureBlock"); ok {
		return v, true
	}
	if req.Class != nil {
		if v, ok := clsast.ParseClassKeywords(req.Doc, req.Class).Bool("ProcedureBlock"); ok {
			return v, false
		}
	}
	if req.InheritedProcedureBlock != nil {
		return *req.InheritedProcedureBlock, false
	}
	return true, false
}

type analyzer struct {
	req  Request
	doc  *semtok.Document
	body clsast.Body
	spec clsast.FormalSpec

	vars  map[string]*Variable
	order []string

	cmds []lineCommands

	produced map[string]bool
	written  map[string]bool
	after    map[string]bool

	dimIn    map[string]*dimLine
	dimAbove map[string]*dimLine
	dimLines []*dimLine

	// declared holds the name tokens of #Dim lines without an initializer;
	// they declare a variable without touching its value.
	declared map[semtok.Loc]bool
}

type lineCommands struct {
	ls   lineScan
	cmds []command
}

// walk splits the range into commands and rejects selections that would
// change the donor's control flow.
func (a *analyzer) walk() error {
	w := &walker{doc: a.doc}
	for line := a.req.StartLine; line <= a.req.EndLine; line++ {
		ls, cmds := w.line(line)
		for _, cmd := range cmds {
			switch cmd.name {
			case "return", "goto":
				return fmt.Errorf("line %d: %s: %w", line+1, ls.text(cmd.at), ErrUnsupportedSelection)
			case "quit":
				if !cmd.loop {
					return fmt.Errorf("line %d: %s outside a loop: %w", line+1, ls.text(cmd.at), ErrUnsupportedSelection)
				}
			}
		}
		a.cmds = append(a.cmds, lineCommands{ls: ls, cmds: cmds})
	}
	if w.err != nil {
		return w.err
	}
	if len(w.blocks) != 0 {
		return ErrUnbalancedBraces
	}
	return nil
}

func (a *analyzer) categorize(tok semtok.Token, name string) Category {
	if _, ok := a.spec.Lookup(name); ok {
		return Parameter
	}
	switch tok.Style {
	case semtok.COSPublicVariable:
		return Public
	case semtok.COSDeclaredLocal:
		return Declared
	case semtok.COSParameter:
		return Parameter
	default:
		return Undeclared
	}
}

// collect records every variable occurrence in the range.
func (a *analyzer) collect() {
	declOnly := make(map[string]bool)
	for _, lc := range a.cmds {
		ls := lc.ls
		for i, tok := range ls.toks {
			if !IsVariable(tok) {
				continue
			}
			name := ls.text(i)
			if strings.HasPrefix(name, "%") {
				continue
			}
			loc := ls.loc(i)
			category := a.categorize(tok, name)
			v, ok := a.vars[name]
			switch {
			case !ok:
				v = &Variable{Name: name, Category: category, First: loc}
				a.vars[name] = v
				a.order = append(a.order, name)
				declOnly[name] = a.declared[loc]
			case declOnly[name] && !a.declared[loc]:
				v.First = loc
				declOnly[name] = false
			}
			if category > v.Category {
				v.Category = category
			}
			if ls.dotPrefixed(i) {
				v.ByRef = true
			}
			if ls.subscripted(i) {
				v.Subscripted = true
			}
		}
	}
}

// isFirst reports whether loc is the first occurrence of name in the range.
func (a *analyzer) isFirst(name string, loc semtok.Loc) bool {
	v, ok := a.vars[name]
	return ok && v.First == loc
}

// scanWrites finds assignments and decides which of them produce a value
// that every later read in the range depends on.
func (a *analyzer) scanWrites() {
	for _, lc := range a.cmds {
		for _, cmd := range lc.cmds {
			switch cmd.name {
			case "set":
				a.scanSet(lc.ls, cmd)
			case "for":
				a.scanFor(lc.ls, cmd)
			case "kill", "read", "merge":
				for name := range lc.ls.variables(cmd.at+1, cmd.end) {
					a.written[name] = true
				}
			case dimDirective:
				a.scanDimInit(lc.ls, cmd)
			}
		}
	}
}

func (a *analyzer) scanSet(ls lineScan, cmd command) {
	guarded := cmd.guarded
	i := cmd.at + 1
	if ls.isDelim(i, ":") || ls.is(i, semtok.COSOperator, ":") {
		guarded = true
		i = ls.skipCondition(i+1, cmd.end)
	}

	for i < cmd.end {
		i = ls.skipWhite(i, cmd.end)
		if i >= cmd.end {
			return
		}

		var targets []int
		if ls.isDelim(i, "(") {
			targets = a.setTargetList(ls, i, cmd.end)
		} else {
			targets = []int{i}
		}
		eq := ls.find(i, cmd.end, func(j int) bool { return ls.is(j, semtok.COSOperator, "=") }, true)
		if eq < 0 {
			return
		}
		next := ls.find(eq+1, cmd.end, func(j int) bool { return ls.isDelim(j, ",") }, false)
		if next < 0 {
			next = cmd.end
		}
		rhs := ls.variables(eq+1, next)

		for j := i; j < eq; j++ {
			if IsVariable(ls.toks[j]) && !ls.memberAccess(j) {
				a.written[ls.text(j)] = true
			}
		}
		for _, t := range targets {
			if !IsVariable(ls.toks[t]) || ls.subscripted(t) || ls.memberAccess(t) {
				continue
			}
			name := ls.text(t)
			if !guarded && a.isFirst(name, ls.loc(t)) && !rhs[name] {
				a.produced[name] = true
			}
		}
		i = next + 1
	}
}

// setTargetList returns the first token of each target in a parenthesized
// multiple-assignment list starting at open.
func (a *analyzer) setTargetList(ls lineScan, open, end int) []int {
	var targets []int
	depth, expect := 0, false
	for j := open; j < end; j++ {
		switch {
		case ls.isDelim(j, "("):
			depth++
			if depth == 1 {
				expect = true
				continue
			}
		case ls.isDelim(j, ")"):
			depth--
			if depth == 0 {
				return targets
			}
		case depth == 1 && ls.isDelim(j, ","):
			expect = true
			continue
		case ls.isWhite(j):
			continue
		}
		if expect && depth == 1 {
			targets = append(targets, j)
			expect = false
		}
	}
	return targets
}

func (a *analyzer) scanFor(ls lineScan, cmd command) {
	i := ls.skipWhite(cmd.at+1, cmd.end)
	if i >= cmd.end || !IsVariable(ls.toks[i]) || !ls.is(i+1, semtok.COSOperator, "=") {
		return
	}
	name := ls.text(i)
	a.written[name] = true
	if cmd.guarded || !a.isFirst(name, ls.loc(i)) {
		return
	}
	if !ls.variables(i+2, cmd.end)[name] {
		a.produced[name] = true
	}
}

func (a *analyzer) scanDimInit(ls lineScan, cmd command) {
	decl := parseDim(ls, cmd.at)
	if decl == nil || decl.init < 0 {
		return
	}
	rhs := ls.variables(decl.init+1, cmd.end)
	for k, name := range decl.names {
		a.written[name] = true
		if !cmd.guarded && a.isFirst(name, decl.locs[k]) && !rhs[name] {
			a.produced[name] = true
		}
	}
}

// scanAfter records the variables the donor reads after the range. Inside a
// loop block, reads between the loop's opening line and the range run again
// on the next iteration, so they count as well.
func (a *analyzer) scanAfter() {
	if open := a.enclosingLoop(); open >= 0 {
		a.readsIn(open, a.req.StartLine-1)
	}
	a.readsIn(a.req.EndLine+1, min(a.body.Close, a.doc.LineCount()-1))
}

func (a *analyzer) readsIn(first, last int) {
	for line := first; line <= last; line++ {
		ls := scanLine(a.doc, line)
		for i, tok := range ls.toks {
			if IsVariable(tok) {
				a.after[ls.text(i)] = true
			}
		}
	}
}

// enclosingLoop returns the opening line of the outermost loop block around
// the range, or -1.
func (a *analyzer) enclosingLoop() int {
	w := &walker{doc: a.doc}
	for line := a.body.Open + 1; line < a.req.StartLine; line++ {
		w.line(line)
	}
	return w.outerLoop()
}

// scanDims indexes #Dim declarations inside the range and the nearest ones
// above it.
func (a *analyzer) scanDims() {
	for line := a.req.StartLine; line <= a.req.EndLine; line++ {
		decl := findDim(a.doc, line)
		if decl == nil {
			continue
		}
		a.dimLines = append(a.dimLines, decl)
		if decl.init < 0 {
			for _, loc := range decl.locs {
				a.declared[loc] = true
			}
		}
		for _, name := range decl.names {
			if _, ok := a.dimIn[name]; !ok {
				a.dimIn[name] = decl
			}
		}
	}
	for line := a.req.StartLine - 1; line > a.body.Open; line-- {
		decl := findDim(a.doc, line)
		if decl == nil {
			continue
		}
		for _, name := range decl.names {
			if _, ok := a.dimAbove[name]; !ok {
				a.dimAbove[name] = decl
			}
		}
	}
}

func (a *analyzer) typeOf(name string) string {
	if d, ok := a.dimIn[name]; ok {
		return d.typ
	}
	if d, ok := a.dimAbove[name]; ok {
		return d.typ
	}
	return ""
}

func (a *analyzer) compose(res *Result) {
	removed := make(map[*dimLine]map[string]bool)

	for _, name := range a.order {
		v := a.vars[name]
		res.Variables = append(res.Variables, *v)

		if v.Category == Public {
			res.PublicList = append(res.PublicList, name)
			continue
		}

		arg, isArg := a.spec.Lookup(name)
		liveOut := a.written[name] && (a.after[name] || (isArg && arg.Mode != clsast.ArgByVal))

		if a.produced[name] && !liveOut {
			res.Locals = append(res.Locals, name)
			if _, inRange := a.dimIn[name]; !inRange {
				if d, ok := a.dimAbove[name]; ok {
					res.NewDims = append(res.NewDims, DimDecl{Name: name, Type: d.typ})
				}
			}
			continue
		}

		param := Param{Name: name, Type: a.typeOf(name)}
		if isArg {
			param.Mode = arg.Mode
			if arg.Type != "" {
				param.Type = arg.Type
			}
		}
		if param.Mode == clsast.ArgByVal && (v.ByRef || v.Subscripted || liveOut) {
			param.Mode = clsast.ArgByRef
		}
		res.Params = append(res.Params, param)

		if d, ok := a.dimIn[name]; ok && d.init < 0 {
			if removed[d] == nil {
				removed[d] = make(map[string]bool)
			}
			removed[d][name] = true
			if a.after[name] {
				res.DonorDims = append(res.DonorDims, DimDecl{Name: name, Type: d.typ})
			}
		}
	}

	for _, d := range a.dimLines {
		names := removed[d]
		if len(names) == 0 {
			continue
		}
		edit := DimEdit{Line: d.line}
		for _, name := range d.names {
			if names[name] {
				edit.Removed = append(edit.Removed, name)
			}
		}
		text, keep := d.without(a.doc, names)
		edit.Delete = !keep
		edit.Text = text
		res.DimEdits = append(res.DimEdits, edit)
	}
	sort.Slice(res.DimEdits, func(i, j int) bool { return res.DimEdits[i].Line < res.DimEdits[j].Line })
}
