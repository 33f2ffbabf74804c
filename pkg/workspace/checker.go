package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/cosls/internal/logging"
	"github.com/yaklabco/cosls/pkg/doctype"
	"github.com/yaklabco/cosls/pkg/routine"
)

// FileReport summarizes one checked file.
type FileReport struct {
	Path string       `json:"path" yaml:"path"`
	Kind doctype.Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Header is set for routines with a grammar-valid header line.
	Header *routine.Header `json:"header,omitempty" yaml:"header,omitempty"`

	// HeaderError is the first grammar violation of a header line.
	HeaderError *routine.GrammarError `json:"headerError,omitempty" yaml:"headererror,omitempty"`

	// HeaderLine is the source of a header line that has a HeaderError.
	HeaderLine string `json:"-" yaml:"-"`

	// LexicalErrors counts error tokens reported by the tokenizer.
	LexicalErrors int `json:"lexicalErrors" yaml:"lexicalerrors"`

	// Class and Members describe a parsed class.
	Class   string `json:"class,omitempty" yaml:"class,omitempty"`
	Members int    `json:"members,omitempty" yaml:"members,omitempty"`

	// Err is set when the file could not be read, tokenized or parsed.
	Err error `json:"-" yaml:"-"`

	// Error is the text of Err, for serialized reports.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the file checked clean.
func (r *FileReport) OK() bool {
	return r.Err == nil && r.HeaderError == nil && r.LexicalErrors == 0
}

// CheckStats aggregates a check run.
type CheckStats struct {
	FilesDiscovered int `json:"filesDiscovered" yaml:"filesdiscovered"`
	FilesChecked    int `json:"filesChecked" yaml:"fileschecked"`
	FilesWithErrors int `json:"filesWithErrors" yaml:"fileswitherrors"`
}

// CheckResult is the outcome of a check run. Files follow the input order.
type CheckResult struct {
	Files []FileReport `json:"files" yaml:"files"`
	Stats CheckStats   `json:"stats" yaml:"stats"`
}

// HasErrors reports whether any file failed its check.
func (r *CheckResult) HasErrors() bool {
	return r != nil && r.Stats.FilesWithErrors > 0
}

// Checker tokenizes and parses many files concurrently.
type Checker struct {
	service *Service
	jobs    int
}

// NewChecker creates a Checker. jobs <= 0 uses one worker per CPU.
func NewChecker(service *Service, jobs int) *Checker {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &Checker{service: service, jobs: jobs}
}

// Run discovers files and checks them.
func (c *Checker) Run(ctx context.Context, opts DiscoverOptions) (*CheckResult, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("Discovered files", logging.FieldFilesDiscovered, len(files))
	return c.Check(ctx, files)
}

// Check checks files. Per-file failures are recorded in the report; the
// returned error is only set when ctx is cancelled.
func (c *Checker) Check(ctx context.Context, files []string) (*CheckResult, error) {
	reports := make([]FileReport, len(files))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(c.jobs)
	for i, path := range files {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = c.checkFile(gctx, path)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("check cancelled: %w", err)
	}

	result := &CheckResult{Files: reports}
	result.Stats.FilesDiscovered = len(files)
	for i := range reports {
		result.Stats.FilesChecked++
		if reports[i].Err != nil {
			reports[i].Error = reports[i].Err.Error()
		}
		if !reports[i].OK() {
			result.Stats.FilesWithErrors++
		}
	}
	return result, nil
}

func (c *Checker) checkFile(ctx context.Context, path string) FileReport {
	report := FileReport{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		report.Err = fmt.Errorf("read %s: %w", path, err)
		return report
	}
	report.Kind = doctype.Detect(path, content)

	uri := PathURI(path)
	doc, err := c.service.Open(ctx, uri, 1, string(content))
	if err != nil {
		report.Err = err
		return report
	}
	defer c.service.Close(uri)

	if hdr, err := c.service.RoutineHeader(ctx, uri, doc.Version); err == nil && hdr != nil {
		report.Header = hdr.Header
		report.HeaderError = hdr.Err
		if hdr.Err != nil {
			report.HeaderLine = doc.LineText(0)
		}
	}
	for _, line := range doc.Lines {
		for _, tok := range line {
			if tok.IsError() {
				report.LexicalErrors++
			}
		}
	}

	if report.Kind != doctype.Class {
		return report
	}
	class, err := c.service.ClassAST(ctx, uri, doc.Version)
	switch {
	case errors.Is(err, ErrLexicalErrors):
	case err != nil:
		report.Err = err
	default:
		report.Class = class.Header.Name
		report.Members = len(class.Members)
	}
	return report
}
