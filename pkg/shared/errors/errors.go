package errors

import (
	stderrors "errors"

	"github.com/scan-io-git/pfast/internal/defect"
)

// Exit codes reported by the pfast binary.
const (
	ExitOK         = 0
	ExitUsage      = 1
	ExitBadInput   = 2
	ExitFileAccess = 4
)

// CommandError represents a failed command together with the process exit code it maps to.
// A nil Err means the command already reported its outcome and only the code is meaningful.
type CommandError struct {
	ExitCode    int
	CommonError string
	Err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err with an explicit exit code.
func NewCommandError(err error, code int) *CommandError {
	ce := &CommandError{ExitCode: code, Err: err}
	if err != nil {
		ce.CommonError = err.Error()
	}
	return ce
}

// NewExitStatus returns a silent CommandError that only carries the exit code.
func NewExitStatus(code int) *CommandError {
	return &CommandError{ExitCode: code}
}

// FromPipelineError maps a defect pipeline failure onto its exit code.
func FromPipelineError(err error) *CommandError {
	return NewCommandError(err, ExitCodeFor(err))
}

// ExitCodeFor returns the exit code the driver reports for err.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		cmdErr       *CommandError
		sortErr      *defect.SortToolError
		loadErr      *defect.DocumentLoadError
		malformedErr *defect.MalformedRecordError
		fsErr        *defect.FilesystemError
	)
	switch {
	case stderrors.As(err, &cmdErr):
		return cmdErr.ExitCode
	case stderrors.As(err, &sortErr):
		if sortErr.ExitCode > 0 {
			return sortErr.ExitCode
		}
		return ExitUsage
	case stderrors.As(err, &loadErr), stderrors.As(err, &malformedErr):
		return ExitBadInput
	case stderrors.As(err, &fsErr):
		return ExitFileAccess
	default:
		return ExitUsage
	}
}
