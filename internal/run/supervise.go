package run

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"syscall"
	"time"
)

// termGracePeriod is the maximum time to wait for the child to exit after
// SIGTERM before escalating to SIGKILL.
const termGracePeriod = 1 * time.Second

// killDrainTimeout is the hard upper bound for waiting on the done channel
// after SIGKILL has been sent (or after the process has already exited).
// SIGKILL cannot be caught, so the process should die almost immediately;
// this bound is a safety net against cmd.Wait never returning due to stuck
// I/O or kernel issues.
const killDrainTimeout = 10 * time.Second

// termination records how a supervised process left the running state.
// Exactly one of the two causes is ever set for a given run.
type termination struct {
	timedOut bool  // deadline fired and the process was forcibly terminated
	waitErr  error // cmd.Wait result; meaningful only when timedOut is false
}

// startWait submits the single cmd.Wait task for the process. cmd.Wait
// must be called exactly once per started process; the returned buffered
// channel delivers its result and is the only place that result is read.
func startWait(tasks TaskRunner, cmd *exec.Cmd) (<-chan error, error) {
	done := make(chan error, 1)
	err := tasks.Submit(func() {
		done <- cmd.Wait()
	})
	if err != nil {
		return nil, fmt.Errorf("submit wait task: %w", err)
	}
	return done, nil
}

// supervise blocks until the process leaves the running state and reports
// the single authoritative termination cause.
//
// Three events compete: natural exit (done), the configured deadline, and
// caller cancellation. Natural exit takes priority: when the deadline and
// the exit race, a non-blocking re-check of done decides in favor of the
// exit, so a kill issued microseconds late can never overwrite a natural
// exit classification. A limit of zero disarms the deadline entirely.
//
// A non-nil error is returned only for cancellation or when the process
// could not be confirmed dead; in both cases the child has been killed on
// a best-effort basis.
func supervise(ctx context.Context, cmd *exec.Cmd, done <-chan error, limit time.Duration, log *slog.Logger) (termination, error) {
	var deadline <-chan time.Time
	if limit > 0 {
		t := time.NewTimer(limit)
		defer t.Stop()
		deadline = t.C
	}

	select {
	case err := <-done:
		return termination{waitErr: err}, nil

	case <-ctx.Done():
		if _, ok := terminate(cmd, done, log); !ok {
			return termination{}, fmt.Errorf("process did not exit after cancellation kill: %w", ctx.Err())
		}
		return termination{}, ctx.Err()

	case <-deadline:
		// The process may have exited in the same instant; the exit wins.
		select {
		case err := <-done:
			return termination{waitErr: err}, nil
		default:
		}
		log.Debug("time limit exceeded, terminating process",
			"path", cmd.Path, "pid", cmd.Process.Pid, "limit", limit)
		if _, ok := terminate(cmd, done, log); !ok {
			return termination{}, fmt.Errorf("process did not exit after timeout kill (limit %s)", limit)
		}
		return termination{timedOut: true}, nil
	}
}

// terminate forcibly stops the process: SIGTERM for a graceful shutdown,
// SIGKILL scheduled after termGracePeriod if the process lingers. It then
// waits for the wait task to confirm death. Kill on an already-finished
// process returns an "already finished" error that is intentionally
// discarded; the OS has released the process and the call is harmless.
//
// Returns the cmd.Wait error and whether death was confirmed in time.
func terminate(cmd *exec.Cmd, done <-chan error, log *slog.Logger) (error, bool) {
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Signal delivery failed: the process already exited. Collect the
		// wait result with a hard upper bound.
		return drainDone(done, killDrainTimeout)
	}

	killTimer := time.AfterFunc(termGracePeriod, func() {
		log.Warn("process ignored SIGTERM, escalating to SIGKILL",
			"path", cmd.Path, "pid", cmd.Process.Pid)
		_ = cmd.Process.Kill()
	})
	defer killTimer.Stop()

	return drainDone(done, termGracePeriod+killDrainTimeout)
}

// drainDone reads from the done channel with timeout as a hard upper
// bound. Under normal conditions the channel delivers almost immediately
// after the process dies, so the timeout should never fire.
func drainDone(done <-chan error, timeout time.Duration) (error, bool) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case err := <-done:
		return err, true
	case <-t.C:
		return nil, false
	}
}
