package cli

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/relcat/pkg/errors"
)

// Process exit statuses returned by [ExitCode].
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitDataError = 2
	ExitCancelled = 130 // Standard shell convention for SIGINT
)

// ExitCode maps a command error to a process exit status. Errors that abort
// a build in every mode (bad descriptors, configuration or paths) exit with
// ExitDataError so scripts can tell them from transient failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.IsFatal(err):
		return ExitDataError
	default:
		return ExitFailure
	}
}
