package commands

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/importsweep/pkg/report"
)

// Process exit statuses.
const (
	ExitClean    = report.ExitClean
	ExitFindings = report.ExitFindings
	ExitUsage    = 2
)

// ErrFindingsDetected is returned by scan when the report is not clean.
var ErrFindingsDetected = errors.New("unused imports detected")

// ExitError carries a specific process status out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps the error returned by the command tree to a process status.
// Errors that carry no status are usage or configuration errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitClean
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitUsage
}
