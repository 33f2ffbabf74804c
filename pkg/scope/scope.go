// Package scope classifies the variables referenced by a contiguous line
// range of a procedure-block method so the range can be moved into a new
// method without losing any binding.
//
// Classification works on token categories assigned by the tokenizer, not on
// a symbol table. Reference patterns the analysis does not model (member and
// property chains, writes through called methods) are left alone; when in
// doubt a variable is passed as a parameter rather than made local.
package scope

import (
	"errors"

	"github.com/yaklabco/cosls/pkg/clsast"
	"github.com/yaklabco/cosls/pkg/semtok"
)

// Errors returned for selections that cannot be extracted safely.
var (
	ErrNotMethod            = errors.New("selection is not inside a method")
	ErrNotInBody            = errors.New("selection is not inside the method body")
	ErrUnbalancedBraces     = errors.New("selection has unbalanced braces")
	ErrUnsupportedSelection = errors.New("selection changes control flow of the enclosing method")
)

// Category is the scope class of a variable.
type Category int

const (
	// Undeclared is a procedure-block local without a #Dim.
	Undeclared Category = iota

	// Declared is a procedure-block local declared with #Dim.
	Declared

	// Parameter is one of the donor method's formal arguments.
	Parameter

	// Public is a process-wide variable listed in the donor's PublicList.
	Public
)

func (c Category) String() string {
	switch c {
	case Declared:
		return "declared-local"
	case Parameter:
		return "parameter"
	case Public:
		return "public"
	default:
		return "undeclared-local"
	}
}

// Variable is one variable referenced in the range.
type Variable struct {
	Name     string
	Category Category

	// ByRef is set when the variable is passed by reference inside the range.
	ByRef bool

	// Subscripted is set when the variable is used as an array.
	Subscripted bool

	// First is the variable's first occurrence in the range.
	First semtok.Loc
}

// Param is one argument of the extracted method.
type Param struct {
	Name string
	Mode clsast.ArgMode
	Type string
}

// DimDecl is a #Dim declaration to synthesize.
type DimDecl struct {
	Name string
	Type string
}

// DimEdit rewrites or deletes a #Dim line inside the range.
type DimEdit struct {
	// Line is the document line of the #Dim.
	Line int

	// Removed lists the names taken out of the declaration.
	Removed []string

	// Delete is set when no declared name remains.
	Delete bool

	// Text is the rewritten line when Delete is false.
	Text string
}

// Request describes one extraction.
type Request struct {
	Doc    *semtok.Document
	Class  *clsast.Class
	Member *clsast.Member

	// StartLine and EndLine bound the range, inclusive.
	StartLine int
	EndLine   int

	// InheritedProcedureBlock is the class's ProcedureBlock setting resolved
	// from class metadata, used when neither the method nor the class header
	// says. Nil means unknown.
	InheritedProcedureBlock *bool
}

// Result is the outcome of the analysis.
type Result struct {
	// ProcedureBlock reports whether the donor method is a procedure block.
	ProcedureBlock bool

	// ExplicitProcedureBlock is set when the donor method declares the
	// ProcedureBlock keyword itself; the new method must carry it too.
	ExplicitProcedureBlock bool

	// Body is the donor method's body span.
	Body clsast.Body

	// Params is the ordered argument list of the new method.
	Params []Param

	// PublicList holds public variables by first appearance.
	PublicList []string

	// Locals are variables produced inside the range that stay local.
	Locals []string

	// DimEdits apply to #Dim lines copied from the range.
	DimEdits []DimEdit

	// NewDims are declarations to add at the top of the new method.
	NewDims []DimDecl

	// DonorDims are declarations the donor keeps in place of the range.
	DonorDims []DimDecl

	// Variables lists every tracked variable by first appearance.
	Variables []Variable
}

// IsVariable reports whether tok is a tracked variable reference.
func IsVariable(tok semtok.Token) bool {
	if tok.Lang != semtok.MonikerCOS {
		return false
	}
	switch tok.Style {
	case semtok.COSLocalVariable, semtok.COSDeclaredLocal, semtok.COSPublicVariable, semtok.COSParameter:
		return true
	}
	return false
}
