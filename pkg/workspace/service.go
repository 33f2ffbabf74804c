package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/cosls/internal/logging"
	"github.com/yaklabco/cosls/pkg/clsast"
	"github.com/yaklabco/cosls/pkg/config"
	"github.com/yaklabco/cosls/pkg/doctype"
	"github.com/yaklabco/cosls/pkg/extract"
	"github.com/yaklabco/cosls/pkg/routine"
	"github.com/yaklabco/cosls/pkg/scope"
	"github.com/yaklabco/cosls/pkg/semtok"
	"github.com/yaklabco/cosls/pkg/textedit"
	"github.com/yaklabco/cosls/pkg/tokenizer"
)

// ErrLexicalErrors is returned when a class tree is requested for a
// document the tokenizer flagged errors in.
var ErrLexicalErrors = errors.New("document has lexical errors")

// ClassDictionary resolves class settings the source does not state.
type ClassDictionary interface {
	ProcedureBlock(ctx context.Context, class string) (bool, error)
}

// Service answers requests against the snapshots in a Store.
type Service struct {
	store     *Store
	tokenizer tokenizer.Tokenizer
	dict      ClassDictionary
	cfg       *config.Config
	timeout   time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithDictionary enables metadata lookups for inherited class settings.
func WithDictionary(dict ClassDictionary) Option {
	return func(s *Service) { s.dict = dict }
}

// WithConfig sets the configuration used for generated code and lookups.
// The service keeps its own copy.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg.Clone()
		}
	}
}

// NewService creates a Service over store using tok to classify text.
func NewService(store *Store, tok tokenizer.Tokenizer, opts ...Option) *Service {
	s := &Service{store: store, tokenizer: tok, cfg: config.NewConfig()}
	for _, opt := range opts {
		opt(s)
	}
	if secs := s.cfg.Metadata.TimeoutSeconds; secs > 0 {
		s.timeout = time.Duration(secs) * time.Second
	}
	return s
}

// Store returns the service's document store.
func (s *Service) Store() *Store {
	return s.store
}

// Open tokenizes text and stores it as version of uri. A routine header on
// the first line selects the tokenizer variant and replaces the tokenizer's
// colouring of that line.
func (s *Service) Open(ctx context.Context, uri string, version int32, text string) (*semtok.Document, error) {
	logger := logging.FromContext(ctx).With(logging.FieldURI, uri, logging.FieldDocVer, version)

	var (
		header  routine.Result
		variant tokenizer.Variant
	)
	first := firstLine(text)
	isRoutine := routine.IsHeaderLine(first)
	if isRoutine {
		header = routine.Parse(first)
		variant = header.Header.Variant()
		if header.Err != nil {
			logger.Debug("Routine header invalid", logging.FieldError, header.Err)
		}
	}

	toks, err := s.tokenizer.Tokenize(ctx, URIPath(uri), text, variant)
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", uri, err)
	}
	for _, problem := range toks.Legend.Check() {
		logger.Warn("Legend mismatch", logging.FieldMismatch, problem)
	}

	lines := toks.Lines
	if isRoutine {
		lines = append([]semtok.Line{header.Tokens}, tail(lines)...)
	}

	doc := semtok.NewDocument(uri, version, text, lines)
	for n, line := range doc.Lines {
		if !semtok.ValidateLine(line, doc.LineLen(n)) {
			logger.Debug("Token line does not cover source line", logging.FieldLine, n)
		}
	}
	if err := s.store.Put(doc); err != nil {
		return nil, err
	}
	logger.Debug("Opened document", logging.FieldVariant, variant.String())
	return doc, nil
}

func firstLine(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			if i > 0 && text[i-1] == '\r' {
				return text[:i-1]
			}
			return text[:i]
		}
	}
	return text
}

func tail(lines []semtok.Line) []semtok.Line {
	if len(lines) == 0 {
		return nil
	}
	return lines[1:]
}

// Close drops uri from the store.
func (s *Service) Close(uri string) {
	s.store.Remove(uri)
}

// Tokens returns the per-line token arrays of a snapshot.
func (s *Service) Tokens(_ context.Context, uri string, version int32) ([]semtok.Line, error) {
	doc, err := s.store.Get(uri, version)
	if err != nil {
		return nil, err
	}
	return doc.Lines, nil
}

// RoutineHeader parses the header line of a snapshot. The result is nil
// with a nil error for documents whose first line is not a header.
func (s *Service) RoutineHeader(_ context.Context, uri string, version int32) (*routine.Result, error) {
	doc, err := s.store.Get(uri, version)
	if err != nil {
		return nil, err
	}
	first := doc.LineText(0)
	if !routine.IsHeaderLine(first) {
		return nil, nil //nolint:nilnil // No header is not an error.
	}
	res := routine.Parse(first)
	return &res, nil
}

// ClassAST returns the class tree of a snapshot.
func (s *Service) ClassAST(ctx context.Context, uri string, version int32) (*clsast.Class, error) {
	doc, err := s.store.Get(uri, version)
	if err != nil {
		return nil, err
	}
	if doc.HasErrors() {
		return nil, fmt.Errorf("%s: %w", uri, ErrLexicalErrors)
	}
	if kind := doctype.Detect(URIPath(uri), []byte(doc.Text)); kind != doctype.Class && kind != doctype.Unknown {
		return nil, fmt.Errorf("%s is a %s, not a class", uri, kind)
	}
	class, err := clsast.Parse(doc)
	if err != nil {
		logging.FromContext(ctx).Debug("Class parse failed", logging.FieldURI, uri, logging.FieldError, err)
		return nil, fmt.Errorf("%s: %w", uri, err)
	}
	return class, nil
}

// ExtractRequest selects lines of a method to move into a new method.
type ExtractRequest struct {
	URI     string
	Version int32

	// Range is the selection. A selection ending at column 0 of a line does
	// not include that line.
	Range semtok.Range

	// Name of the new method; empty uses the configured default.
	Name string
}

// ExtractResponse carries the edits for an extraction. Edits is empty and
// Reason set when the selection cannot be extracted.
type ExtractResponse struct {
	Name   string              `json:"name,omitempty" yaml:"name,omitempty"`
	Edits  []textedit.TextEdit `json:"edits" yaml:"edits"`
	Reason string              `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ExtractMethod computes extract-method edits. Only unknown documents and
// stale versions are errors; analysis failures yield an empty response.
func (s *Service) ExtractMethod(ctx context.Context, req ExtractRequest) (*ExtractResponse, error) {
	ctx, _ = logging.WithRequest(ctx, "extract")
	logger := logging.FromContext(ctx).With(logging.FieldURI, req.URI, logging.FieldRange, req.Range.String())

	doc, err := s.store.Get(req.URI, req.Version)
	if err != nil {
		return nil, err
	}

	res, err := s.extract(ctx, doc, req)
	if err != nil {
		logger.Info("Extract method refused", logging.FieldError, err)
		return &ExtractResponse{Edits: []textedit.TextEdit{}, Reason: err.Error()}, nil
	}
	logger.Debug("Extract method",
		logging.FieldMethod, res.Name,
		logging.FieldParams, len(res.Analysis.Params),
		logging.FieldEdits, len(res.Edits))
	return &ExtractResponse{Name: res.Name, Edits: res.Edits}, nil
}

func (s *Service) extract(ctx context.Context, doc *semtok.Document, req ExtractRequest) (*extract.Result, error) {
	if doc.HasErrors() {
		return nil, ErrLexicalErrors
	}
	class, err := clsast.Parse(doc)
	if err != nil {
		return nil, err
	}

	start, end := selectedLines(req.Range)
	member, ok := class.MemberAt(start)
	if !ok {
		return nil, scope.ErrNotMethod
	}

	sreq := scope.Request{
		Doc:       doc,
		Class:     class,
		Member:    member,
		StartLine: start,
		EndLine:   end,
	}
	sreq.InheritedProcedureBlock = s.inheritedProcedureBlock(ctx, doc, class, member)

	return extract.Synthesize(sreq, extract.Options{
		Name:    req.Name,
		Format:  s.cfg.Format,
		Extract: s.cfg.Extract,
	})
}

// selectedLines converts a selection to an inclusive line span.
func selectedLines(r semtok.Range) (int, int) {
	start, end := r.Start.Line, r.End.Line
	if end > start && r.End.Character == 0 {
		end--
	}
	return start, end
}

// inheritedProcedureBlock asks the class dictionary for the class's
// compiled ProcedureBlock when neither the method nor the class header
// states it. Failed lookups are logged and leave the setting unknown.
func (s *Service) inheritedProcedureBlock(
	ctx context.Context,
	doc *semtok.Document,
	class *clsast.Class,
	member *clsast.Member,
) *bool {
	if s.dict == nil {
		return nil
	}
	if _, ok := clsast.ParseKeywords(doc, member).Bool("ProcedureBlock"); ok {
		return nil
	}
	if _, ok := clsast.ParseClassKeywords(doc, class).Bool("ProcedureBlock"); ok {
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	v, err := s.dict.ProcedureBlock(ctx, class.Header.Name)
	if err != nil {
		logging.FromContext(ctx).Warn("Class metadata unavailable",
			logging.FieldClass, class.Header.Name,
			logging.FieldDegraded, true,
			logging.FieldError, err)
		return nil
	}
	return &v
}
