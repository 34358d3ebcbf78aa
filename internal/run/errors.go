package run

import (
	"fmt"
	"time"

	"github.com/giantswarm/cmdrun/internal/sentinel"
)

// ErrLaunchFailed is matched by every *LaunchError via errors.Is.
const ErrLaunchFailed = sentinel.Error("command could not be launched")

// ErrTimedOut is matched by every *TimeoutError via errors.Is.
const ErrTimedOut = sentinel.Error("command exceeded its time limit")

// ErrUnexpectedExitCode is matched by every *ExitCodeError via errors.Is.
const ErrUnexpectedExitCode = sentinel.Error("command exited with an unsuccessful code")

// LaunchError reports that the child process could not be created: the
// executable is missing or not executable, or the OS refused the spawn.
// No exit code exists and nothing was captured.
type LaunchError struct {
	Path string // the executable that failed to launch (argv[0])
	Err  error  // the underlying OS error
}

// Error implements the error interface.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying OS error for errors.Is/As chains.
func (e *LaunchError) Unwrap() error { return e.Err }

// Is reports a match against ErrLaunchFailed.
func (e *LaunchError) Is(target error) bool { return target == ErrLaunchFailed }

// TimeoutError reports that the process outlived its configured time limit
// and was forcibly terminated. The exit status of a killed process is not
// meaningful and is deliberately not reported; the output captured before
// the kill is attached for diagnostics.
type TimeoutError struct {
	Argv   []string
	Limit  time.Duration // the configured time limit that was exceeded
	Stdout []byte        // partial output captured before termination
	Stderr []byte
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %s timed out after %s", e.Argv[0], e.Limit)
}

// Is reports a match against ErrTimedOut.
func (e *TimeoutError) Is(target error) bool { return target == ErrTimedOut }

// ExitCodeError reports that the process exited naturally with a code
// outside the configured successful set.
type ExitCodeError struct {
	Argv       []string
	Code       int    // the observed exit code
	Successful []int  // the successful set the code was checked against
	Stdout     []byte // captured output, attached for diagnostics
	Stderr     []byte
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("command %s exited with code %d, successful codes are %v", e.Argv[0], e.Code, e.Successful)
}

// Is reports a match against ErrUnexpectedExitCode.
func (e *ExitCodeError) Is(target error) bool { return target == ErrUnexpectedExitCode }
