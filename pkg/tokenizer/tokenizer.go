// Package tokenizer defines the boundary to the external ObjectScript
// tokenizer and a sidecar-file implementation of it.
package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/yaklabco/cosls/pkg/semtok"
)

// ErrNoTokens is returned when no token data exists for a document.
var ErrNoTokens = errors.New("no token data")

// Variant selects a tokenizer dialect. The zero value is the default dialect.
type Variant struct {
	// Type is a routine type (INT, MAC or INC) or empty.
	Type string

	// LanguageMode is the routine language mode; 0 is the default mode.
	LanguageMode int
}

func (v Variant) String() string {
	kind := v.Type
	if kind == "" {
		kind = "default"
	}
	if v.LanguageMode == 0 {
		return kind
	}
	return kind + "/mode=" + strconv.Itoa(v.LanguageMode)
}

// Tokenizer maps source text to per-line token arrays and a style legend.
type Tokenizer interface {
	Tokenize(ctx context.Context, path, text string, variant Variant) (*semtok.Tokenized, error)
}

// Func adapts a function to the Tokenizer interface.
type Func func(ctx context.Context, path, text string, variant Variant) (*semtok.Tokenized, error)

// Tokenize implements Tokenizer.
func (f Func) Tokenize(ctx context.Context, path, text string, variant Variant) (*semtok.Tokenized, error) {
	return f(ctx, path, text, variant)
}

// DefaultSuffix is appended to a source path to locate its token file.
const DefaultSuffix = ".tokens.json"

// Sidecar reads token data the external tokenizer wrote next to the source
// file. Variant-specific files (<path>.<TYPE>.tokens.json) take precedence.
type Sidecar struct {
	Suffix string
}

// Tokenize implements Tokenizer.
func (s Sidecar) Tokenize(ctx context.Context, path, _ string, variant Variant) (*semtok.Tokenized, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("tokenize: %w", ctx.Err())
	default:
	}

	suffix := s.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}

	candidates := []string{path + suffix}
	if variant.Type != "" {
		candidates = append([]string{path + "." + variant.Type + suffix}, candidates...)
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", candidate, err)
		}
		return semtok.DecodeTokenized(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoTokens, path)
}
