package run

import (
	"context"
	"time"
)

// Spec is the validated, engine-internal description of one execution.
// The public Command type produces a Spec with normalized fields; the
// engine never re-validates them.
type Spec struct {
	Argv            []string      // never empty; Argv[0] is the executable
	Dir             string        // empty means inherit the caller's working directory
	SuccessfulCodes []int         // sorted, deduplicated, never empty
	TimeLimit       time.Duration // 0 means unbounded
}

// TaskRunner runs background work on behalf of Execute. The engine is a
// pure client: it submits drain and wait tasks to the runner but never
// creates, starts, or shuts the runner down. Submit must either run the
// task (possibly after blocking for capacity) or return an error.
//
// Every execution needs three concurrent slots: one per output stream and
// one for the process wait. A runner with less spare capacity can deadlock
// the submission.
type TaskRunner interface {
	Submit(task func()) error
}

// Result holds the outcome of a successful execution.
// It is created once per run and handed to the caller; the engine keeps
// no reference to it afterwards.
type Result struct {
	ExitCode int    // the observed exit code, a member of the successful set
	Stdout   []byte // everything the process wrote to stdout
	Stderr   []byte // everything the process wrote to stderr
}

// Entry describes one finished run for recording purposes.
type Entry struct {
	Argv        []string
	Dir         string
	Outcome     string // "success", "exit_code", "timeout", or "launch_failed"
	ExitCode    int    // meaningful for "success" and "exit_code" only
	Started     time.Time
	Duration    time.Duration
	StdoutBytes int
	StderrBytes int
}

// Recorder receives an Entry after each classified run. Recording is
// best-effort diagnostics: errors are logged by the engine and never
// change the outcome of the execution itself.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}
