package cmdrun

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/cmdrun/internal/run"
)

// ExecOption configures a single Execute call.
type ExecOption func(*execConfig)

type execConfig struct {
	recorder run.Recorder
}

// WithJournal records the classified outcome of the execution in j.
// Recording is best-effort: journal failures are logged and never change
// the result of the execution. Panics if j is nil.
func WithJournal(j *Journal) ExecOption {
	if j == nil {
		panic("cmdrun: journal must not be nil")
	}
	return func(c *execConfig) {
		c.recorder = j
	}
}

// Execute runs cmd to completion and returns its Result, or one of the
// three typed failures: *LaunchError if no process could be created,
// *TimeoutError if the time limit expired first, *ExitCodeError if the
// process exited with a code outside the successful set.
//
// Execute blocks the calling goroutine until the process has terminated
// and both output streams are fully captured. The background work it
// needs (one drain per output stream plus the process wait) runs on
// tasks, which the caller owns; tasks needs three free slots per
// concurrent execution, and Execute never starts or shuts it down.
//
// Canceling ctx kills the process the same way a timeout does, but the
// returned error wraps ctx.Err() instead of being a *TimeoutError.
//
// Each call is fully independent: no state is shared between invocations,
// and concurrent calls are safe given enough capacity in tasks.
func Execute(ctx context.Context, cmd Command, tasks TaskRunner, opts ...ExecOption) (*Result, error) {
	var cfg execConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return run.Execute(ctx, cmd.spec(), tasks, cfg.recorder)
}

// ExecuteAll runs all commands concurrently on tasks and returns their
// results in command order. The first failure is returned and cancels the
// remaining executions' contexts; results of commands that had already
// succeeded are still populated, the rest stay nil.
//
// The capacity requirement multiplies: tasks needs three free slots per
// command for all of them to make progress at once.
func ExecuteAll(ctx context.Context, tasks TaskRunner, cmds ...Command) ([]*Result, error) {
	results := make([]*Result, len(cmds))
	g, gctx := errgroup.WithContext(ctx)
	for i, cmd := range cmds {
		g.Go(func() error {
			res, err := Execute(gctx, cmd, tasks)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
