package cli

import (
	"errors"

	"github.com/yaklabco/cosls/pkg/fsutil"
	"github.com/yaklabco/cosls/pkg/tokenizer"
)

// Exit codes for cosls.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates the command ran but found problems: a check with
	// failing files, an invalid routine header, or lexical errors.
	ExitFailure = 1

	// ExitRefused indicates extract-method declined the selection.
	ExitRefused = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors that select an exit code.
var (
	ErrCheckFailed   = errors.New("check found problems")
	ErrHeaderInvalid = errors.New("routine header is invalid")
	ErrRefused       = errors.New("extract method refused")
	ErrUsage         = errors.New("invalid usage")
	ErrConfig        = errors.New("configuration error")
)

// Reported reports whether err only signals an outcome the command has
// already printed.
func Reported(err error) bool {
	return errors.Is(err, ErrCheckFailed) || errors.Is(err, ErrHeaderInvalid)
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrCheckFailed), errors.Is(err, ErrHeaderInvalid):
		return ExitFailure
	case errors.Is(err, ErrRefused):
		return ExitRefused
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrModified),
		errors.Is(err, tokenizer.ErrNoTokens):
		return ExitIOError
	default:
		return ExitFailure
	}
}
