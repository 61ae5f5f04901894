package cli

import (
	"errors"

	"github.com/yaklabco/gohyperdown/pkg/fsutil"
	"github.com/yaklabco/gohyperdown/pkg/render"
)

// Exit codes for gohyperdown, following sysexits(3) where one applies.
const (
	// ExitSuccess indicates every input rendered.
	ExitSuccess = 0

	// ExitFailure indicates some files failed to render, or an
	// unclassified error.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage, including no input.
	ExitInvalidUsage = 64

	// ExitDataError indicates an input that is too large or too deeply nested.
	ExitDataError = 65

	// ExitNoInput indicates an input path that does not exist or is not a file.
	ExitNoInput = 66

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 78
)

var (
	// ErrNoInput is returned when render is given nothing to read.
	ErrNoInput = errors.New("no input: pass a file, a directory, or - for stdin")

	// ErrUsage wraps flag parsing errors.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig wraps configuration loading and validation errors.
	ErrConfig = errors.New("configuration error")

	// ErrRenderFailed is returned when a batch run had failing files.
	// The failures have already been reported.
	ErrRenderFailed = errors.New("some files failed to render")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrNoInput), errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrRenderFailed):
		return ExitFailure
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, fsutil.ErrIsDirectory):
		return ExitNoInput
	case errors.Is(err, fsutil.ErrTooLarge),
		errors.Is(err, render.ErrInputTooLarge),
		errors.Is(err, render.ErrTooComplex):
		return ExitDataError
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return ExitIOError
	default:
		return ExitFailure
	}
}
