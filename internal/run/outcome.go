package run

import (
	"errors"
	"fmt"
	"os/exec"
	"slices"
)

// outcome is the classified way a run left the running state: either the
// deadline fired, or the process exited naturally with exitCode.
type outcome struct {
	timedOut bool
	exitCode int
}

// exitCodeOf extracts the exit code from a cmd.Wait result. A nil error is
// exit code 0. An error that is not an *exec.ExitError means the wait
// itself failed, which is an internal error rather than a classification.
func exitCodeOf(waitErr error) (int, error) {
	if waitErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("wait for command: %w", waitErr)
}

// classify validates an outcome against the spec's successful exit-code
// set and produces either a Result or the matching typed failure.
//
// Exit code 0 is not special-cased: it succeeds only when 0 is a member of
// the configured set. A timeout is never reclassified as an exit-code
// failure, even though the killed process has an OS-visible status.
func classify(spec Spec, oc outcome, stdout, stderr []byte) (*Result, error) {
	if oc.timedOut {
		return nil, &TimeoutError{
			Argv:   spec.Argv,
			Limit:  spec.TimeLimit,
			Stdout: stdout,
			Stderr: stderr,
		}
	}
	if slices.Contains(spec.SuccessfulCodes, oc.exitCode) {
		return &Result{ExitCode: oc.exitCode, Stdout: stdout, Stderr: stderr}, nil
	}
	return nil, &ExitCodeError{
		Argv:       spec.Argv,
		Code:       oc.exitCode,
		Successful: slices.Clone(spec.SuccessfulCodes),
		Stdout:     stdout,
		Stderr:     stderr,
	}
}
