package cmdrun

import (
	"github.com/giantswarm/cmdrun/internal/journal"
	"github.com/giantswarm/cmdrun/internal/run"
	"github.com/giantswarm/cmdrun/internal/taskpool"
)

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrLaunchFailed matches every *LaunchError: the process could not
	// be created at all.
	ErrLaunchFailed = run.ErrLaunchFailed

	// ErrTimedOut matches every *TimeoutError: the process outlived its
	// time limit and was forcibly terminated.
	ErrTimedOut = run.ErrTimedOut

	// ErrUnexpectedExitCode matches every *ExitCodeError: the process
	// exited naturally with a code outside the successful set.
	ErrUnexpectedExitCode = run.ErrUnexpectedExitCode

	// ErrPoolClosed is returned by Pool.Submit after Shutdown.
	ErrPoolClosed = taskpool.ErrClosed

	// ErrJournalClosed is returned by Journal methods after Close.
	ErrJournalClosed = journal.ErrClosed
)

// LaunchError reports that the executable is missing, not executable, or
// the OS refused to spawn the process. Unwrap exposes the OS cause.
//
// The failure types are aliases so values produced by the engine carry the
// public type identity for errors.As without conversion.
type LaunchError = run.LaunchError

// TimeoutError reports a forced termination after the configured time
// limit. It carries the limit and whatever output was captured before the
// kill; no exit code is reported because the status of a killed process is
// not meaningful.
type TimeoutError = run.TimeoutError

// ExitCodeError reports a natural exit with an unsuccessful code. It
// carries the observed code, the successful set it was checked against,
// and the captured output for diagnostics.
type ExitCodeError = run.ExitCodeError
