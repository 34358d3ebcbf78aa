package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// Execute runs the command described by spec to completion and classifies
// the outcome. It blocks the calling goroutine; the drain and wait tasks
// it needs run on the supplied TaskRunner. rec may be nil.
//
// The sequence is: launch; start both drains and the wait task; race
// natural exit against the deadline; join the drains so the captured
// output reflects everything the process wrote; classify. The process
// handle and both pipes are released on every path, including timeout,
// cancellation, and internal failure.
func Execute(ctx context.Context, spec Spec, tasks TaskRunner, rec Recorder) (*Result, error) {
	log := Logger()
	started := time.Now()
	log.Debug("executing command", "argv", spec.Argv, "dir", spec.Dir, "time_limit", spec.TimeLimit)

	h, err := launch(spec)
	if err != nil {
		record(ctx, rec, spec, started, nil, err)
		return nil, err
	}
	defer h.closePipes()

	// Drains must be running before anything blocks on process exit; see
	// startDrain for the pipe-buffer deadlock they prevent. A submission
	// failure after launch leaves a live child, so these paths kill and
	// reap it before returning.
	stdoutDrain, err := startDrain(tasks, "stdout", h.stdout)
	if err != nil {
		reap(h.cmd, log)
		return nil, err
	}
	stderrDrain, err := startDrain(tasks, "stderr", h.stderr)
	if err != nil {
		reap(h.cmd, log)
		_, _ = stdoutDrain.await()
		return nil, err
	}
	done, err := startWait(tasks, h.cmd)
	if err != nil {
		reap(h.cmd, log)
		_, _ = stdoutDrain.await()
		_, _ = stderrDrain.await()
		return nil, err
	}

	term, supErr := supervise(ctx, h.cmd, done, spec.TimeLimit, log)
	if supErr != nil {
		// Canceled, or the child could not be confirmed dead. Closing the
		// read ends forces the drains off the pipes either way.
		h.closePipes()
		_, _ = stdoutDrain.await()
		_, _ = stderrDrain.await()
		return nil, fmt.Errorf("execute %s: %w", spec.Argv[0], supErr)
	}

	// The process is dead, so end-of-stream is imminent on both pipes.
	// Joining here guarantees the result carries the complete output.
	stdout, outErr := stdoutDrain.await()
	stderr, errErr := stderrDrain.await()
	if outErr != nil {
		log.Warn("stdout drain ended with error", "path", spec.Argv[0], "error", outErr)
	}
	if errErr != nil {
		log.Warn("stderr drain ended with error", "path", spec.Argv[0], "error", errErr)
	}

	oc := outcome{timedOut: term.timedOut}
	if !term.timedOut {
		code, codeErr := exitCodeOf(term.waitErr)
		if codeErr != nil {
			return nil, codeErr
		}
		oc.exitCode = code
	}

	res, err := classify(spec, oc, stdout, stderr)
	record(ctx, rec, spec, started, res, err)
	if err != nil {
		log.Debug("command failed", "path", spec.Argv[0], "duration", time.Since(started), "error", err)
		return nil, err
	}
	log.Debug("command completed", "path", spec.Argv[0], "exit_code", res.ExitCode, "duration", time.Since(started))
	return res, nil
}

// reap kills the child and collects its exit status inline. Only used on
// failure paths where the wait task was never submitted, so the single
// cmd.Wait per process invariant holds.
func reap(cmd *exec.Cmd, log *slog.Logger) {
	_ = cmd.Process.Kill()
	if err := cmd.Wait(); err != nil {
		log.Debug("reaped process", "path", cmd.Path, "error", err)
	}
}

// record hands a classified run to the recorder. Recording is diagnostics
// only: failures are logged and never propagated, and unclassified
// internal errors are not recorded at all.
func record(ctx context.Context, rec Recorder, spec Spec, started time.Time, res *Result, err error) {
	if rec == nil {
		return
	}

	e := Entry{
		Argv:     spec.Argv,
		Dir:      spec.Dir,
		Started:  started,
		Duration: time.Since(started),
	}
	switch {
	case err == nil:
		e.Outcome = "success"
		e.ExitCode = res.ExitCode
		e.StdoutBytes = len(res.Stdout)
		e.StderrBytes = len(res.Stderr)
	case errors.Is(err, ErrTimedOut):
		e.Outcome = "timeout"
		var timeoutErr *TimeoutError
		if errors.As(err, &timeoutErr) {
			e.StdoutBytes = len(timeoutErr.Stdout)
			e.StderrBytes = len(timeoutErr.Stderr)
		}
	case errors.Is(err, ErrUnexpectedExitCode):
		e.Outcome = "exit_code"
		var exitErr *ExitCodeError
		if errors.As(err, &exitErr) {
			e.ExitCode = exitErr.Code
			e.StdoutBytes = len(exitErr.Stdout)
			e.StderrBytes = len(exitErr.Stderr)
		}
	case errors.Is(err, ErrLaunchFailed):
		e.Outcome = "launch_failed"
	default:
		return
	}

	if recErr := rec.Record(ctx, e); recErr != nil {
		Logger().Warn("recording run failed", "path", spec.Argv[0], "error", recErr)
	}
}
