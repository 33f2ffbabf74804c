package clsast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/cosls/pkg/clsast"
	"github.com/yaklabco/cosls/pkg/semtok"
	"github.com/yaklabco/cosls/pkg/semtok/semtoktest"
)

func parse(t *testing.T, markup ...string) (*semtok.Document, *clsast.Class) {
	t.Helper()

	doc := semtoktest.MustParse(markup...)
	class, err := clsast.Parse(doc)
	require.NoError(t, err)
	return doc, class
}

func TestParse_Class(t *testing.T) {
	t.Parallel()

	_, class := parse(t,
		"{kw:Include} {ccn:Common}",
		"{desc:/// A thing}",
		"{kw:Class} {ccn:My}{cdel:.}{ccn:Pkg}{cdel:.}{ccn:Thing} {kw:Extends} {ccn:%Persistent}",
		"{cdel:{}",
		"",
		"{kw:Property} {id:Name} {kw:As} {ccn:%String}{cdel:;}",
		"",
		"{desc:/// Does it}",
		"{kw:ClassMethod} {id:Run}{cdel:(}{id:x}{cdel:)}",
		"{cdel:{}",
		"\t{cmd:Quit}",
		"{cdel:}}",
		"",
		"{cdel:}}",
	)

	assert.Equal(t, "Include Common\n/// A thing\n", class.Preamble)
	assert.Equal(t, "My.Pkg.Thing", class.Header.Name)
	assert.Equal(t, " Extends %Persistent\n{\n\n", class.Header.PreMemberText)
	assert.Equal(t, semtok.Loc{Line: 2, Index: 0}, class.Header.Keyword)

	require.Len(t, class.Members, 2)

	prop := class.Members[0]
	assert.Equal(t, clsast.KindProperty, prop.Kind)
	assert.Equal(t, "Name", prop.Name)
	assert.Equal(t, " As %String;\n\n/// Does it\n", prop.Rest)
	assert.Equal(t, 5, prop.StartLine())
	assert.Equal(t, 7, prop.EndLine)

	run := class.Members[1]
	assert.Equal(t, clsast.KindClassMethod, run.Kind)
	assert.True(t, run.Kind.IsMethod())
	assert.Equal(t, "Run", run.Name)
	assert.Equal(t, 8, run.StartLine())
	assert.Equal(t, 13, run.EndLine)

	m, ok := class.MemberAt(10)
	require.True(t, ok)
	assert.Equal(t, "Run", m.Name)

	_, ok = class.MemberAt(3)
	assert.False(t, ok)

	found, ok := class.Lookup(clsast.KindProperty, "Name")
	require.True(t, ok)
	assert.Equal(t, 5, found.StartLine())
	_, ok = class.Lookup(clsast.KindProperty, "name")
	assert.False(t, ok)
}

func TestParse_QuotedMemberName(t *testing.T) {
	t.Parallel()

	_, class := parse(t,
		"{kw:Class} {ccn:A}",
		"{cdel:{}",
		`{kw:method} {cstr:"odd name"}{cdel:(}{cdel:)}`,
		"{cdel:{}",
		"{cdel:}}",
		"{cdel:}}",
	)
	require.Len(t, class.Members, 1)
	assert.Equal(t, clsast.KindMethod, class.Members[0].Kind)
	assert.Equal(t, `"odd name"`, class.Members[0].Name)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup []string
	}{
		{name: "no class keyword", markup: []string{"{ccom:// nothing}"}},
		{name: "missing name", markup: []string{"{kw:Class} {cdel:{}"}},
		{name: "dangling dot", markup: []string{"{kw:Class} {ccn:A}{cdel:.} {cdel:{}"}},
		{name: "member without name", markup: []string{"{kw:Class} {ccn:A} {cdel:{}", "{kw:Method} {cdel:(}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := clsast.Parse(semtoktest.MustParse(tt.markup...))
			var mismatch *semtok.MismatchError
			require.ErrorAs(t, err, &mismatch)
		})
	}
}

func TestLookupKind(t *testing.T) {
	t.Parallel()

	kind, ok := clsast.LookupKind("CLASSMETHOD")
	require.True(t, ok)
	assert.Equal(t, clsast.KindClassMethod, kind)

	_, ok = clsast.LookupKind("Extends")
	assert.False(t, ok)
	assert.False(t, clsast.KindXData.IsMethod())
}

func TestParseFormalSpec(t *testing.T) {
	t.Parallel()

	doc, class := parse(t,
		"{kw:Class} {ccn:A}",
		"{cdel:{}",
		"{kw:Method} {id:M}{cdel:(}{id:a}{cdel:,} {kw:ByRef} {id:b} {kw:As} {ccn:%String}{cdel:,} "+
			"{kw:Output} {id:c} {kw:As} {ccn:%List}{cdel:(}{id:MAXLEN}{cdel:=}{cnum:5}{cdel:)} {cdel:=} {cstr:\"\"}{cdel:,} "+
			"{id:d}{cdel:...}{cdel:)} {kw:As} {ccn:%Status}",
		"{cdel:{}",
		"{cdel:}}",
		"{cdel:}}",
	)

	spec, err := clsast.ParseFormalSpec(doc, &class.Members[0])
	require.NoError(t, err)
	assert.Equal(t, clsast.FormalSpec{
		{Name: "a"},
		{Name: "b", Mode: clsast.ArgByRef, Type: "%String"},
		{Name: "c", Mode: clsast.ArgOutput, Type: "%List(MAXLEN=5)", Default: `""`},
		{Name: "d", Variadic: true},
	}, spec)

	arg, ok := spec.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, "Output", arg.Mode.String())
	_, ok = spec.Lookup("C")
	assert.False(t, ok)
	assert.Empty(t, clsast.ArgByVal.String())
}

func TestParseFormalSpec_Errors(t *testing.T) {
	t.Parallel()

	doc, class := parse(t,
		"{kw:Class} {ccn:A}",
		"{cdel:{}",
		"{kw:Property} {id:P}{cdel:;}",
		"{kw:Method} {id:M}{cdel:(}{id:a}",
		"{cdel:}}",
	)

	_, err := clsast.ParseFormalSpec(doc, &class.Members[0])
	require.Error(t, err)
	_, err = clsast.ParseFormalSpec(doc, &class.Members[1])
	require.Error(t, err)
}

func TestParseKeywords(t *testing.T) {
	t.Parallel()

	doc, class := parse(t,
		"{kw:Class} {ccn:A} {cdel:[} {kw:ProcedureBlock} {cdel:=} {cnum:0} {cdel:]}",
		"{cdel:{}",
		"{kw:Method} {id:M}{cdel:(}{cdel:)} {cdel:[} {kw:Not} {kw:ProcedureBlock}{cdel:,} "+
			"{kw:PublicList} {cdel:=} {cdel:(}{id:a}{cdel:,}{id:b}{cdel:)}{cdel:,} {kw:Internal} {cdel:]}",
		"{cdel:{}",
		"{cdel:}}",
		"{kw:Method} {id:N}{cdel:(}{cdel:)}",
		"{cdel:{}",
		"{cdel:}}",
		"{cdel:}}",
	)

	classKeywords := clsast.ParseClassKeywords(doc, class)
	pb, ok := classKeywords.Bool("procedureblock")
	require.True(t, ok)
	assert.False(t, pb)

	keywords := clsast.ParseKeywords(doc, &class.Members[0])
	require.Len(t, keywords, 3)
	pb, ok = keywords.Bool("ProcedureBlock")
	require.True(t, ok)
	assert.False(t, pb)

	list, ok := keywords.Lookup("PublicList")
	require.True(t, ok)
	assert.Equal(t, "(a,b)", list.Value)

	internal, ok := keywords.Bool("Internal")
	require.True(t, ok)
	assert.True(t, internal)

	assert.Empty(t, clsast.ParseKeywords(doc, &class.Members[1]))
	_, ok = clsast.ParseKeywords(doc, &class.Members[1]).Bool("ProcedureBlock")
	assert.False(t, ok)
}

func TestFindBody(t *testing.T) {
	t.Parallel()

	doc, class := parse(t,
		"{kw:Class} {ccn:A}",
		"{cdel:{}",
		"{kw:Method} {id:M}{cdel:(}{cdel:)}",
		"{cdel:{}",
		"\t{cmd:If} {lv:x} {br:{} {cmd:Quit} {br:}}",
		"{cdel:}}",
		"{kw:Property} {id:P}{cdel:;}",
		"{kw:Method} {id:Short}{cdel:(}{cdel:)} {cdel:{} {cdel:}}",
		"{cdel:}}",
	)

	body, err := clsast.FindBody(doc, &class.Members[0])
	require.NoError(t, err)
	assert.Equal(t, clsast.Body{Open: 3, Close: 5}, body)
	assert.True(t, body.Contains(4, 4))
	assert.False(t, body.Contains(3, 4))
	assert.False(t, body.Contains(4, 5))

	_, err = clsast.FindBody(doc, &class.Members[1])
	require.ErrorIs(t, err, clsast.ErrNoBody)

	body, err = clsast.FindBody(doc, &class.Members[2])
	require.NoError(t, err)
	assert.Equal(t, clsast.Body{Open: 7, Close: 7}, body)
	assert.False(t, body.Contains(7, 7))
}
