package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/cosls/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{"Info", log.InfoLevel},
		{" warn ", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.InfoLevel},
		{"verbose", log.InfoLevel},
		{"", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := logging.ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", logging.FieldURI, "file:///A/B.cls")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "file:///A/B.cls") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	if got := logging.Discard().GetLevel(); got != log.ErrorLevel {
		t.Errorf("Discard level = %v, want error", got)
	}
}

// The default logger is process state; these subtests run serially.
func TestDefaultLogger(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	if original == nil {
		t.Fatal("Default returned nil")
	}

	replacement := logging.New("error")
	logging.SetDefault(replacement)
	if logging.Default() != replacement {
		t.Fatal("SetDefault did not replace the default logger")
	}

	logging.SetLevel("debug")
	if got := replacement.GetLevel(); got != log.DebugLevel {
		t.Errorf("SetLevel(debug) left level %v", got)
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // a nil context falls back to the default logger
	if logging.FromContext(nil) == nil {
		t.Error("FromContext(nil) returned nil")
	}

	logger := logging.Discard()
	ctx := logging.WithLogger(context.Background(), logger)
	if logging.FromContext(ctx) != logger {
		t.Error("FromContext did not return the attached logger")
	}
}

func TestWithRequest(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, "info"))

	ctx, id := logging.WithRequest(ctx, "extract")
	if id == "" {
		t.Fatal("empty request id")
	}

	logging.FromContext(ctx).Info("done")
	out := buf.String()
	if !strings.Contains(out, id) || !strings.Contains(out, "extract") {
		t.Errorf("request fields missing from %q", out)
	}

	_, other := logging.WithRequest(ctx, "extract")
	if other == id {
		t.Error("request ids repeat")
	}
}
