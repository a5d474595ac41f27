package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/tickspec/packages/core/config"
	"github.com/abdul-hamid-achik/tickspec/packages/core/loader"
	"github.com/abdul-hamid-achik/tickspec/packages/core/parser"
)

// Exit codes for tickspec CLI
const (
	// ExitSuccess indicates every assertion held, or no specifications were found
	ExitSuccess = 0

	// ExitTestFailure indicates one or more assertions failed
	ExitTestFailure = 1

	// ExitParseError indicates a malformed specification file
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64

	// ExitNotFound indicates the target path does not exist
	ExitNotFound = 66
)

// errAssertionsFailed is returned by commands whose run completed with at
// least one failing assertion. It is reported through the exit code only.
var errAssertionsFailed = errors.New("assertions failed")

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(err error) error {
	return &exitError{code: ExitUsageError, err: err}
}

// exitCodeFor is the only place that maps an outcome to a process status.
func exitCodeFor(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, errAssertionsFailed):
		return ExitTestFailure
	case errors.Is(err, parser.ErrMalformedSpecification):
		return ExitParseError
	case errors.Is(err, loader.ErrSpecificationNotFound):
		return ExitNotFound
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, loader.ErrBadPattern):
		return ExitConfigError
	default:
		return ExitTestFailure
	}
}
