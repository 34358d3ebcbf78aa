package cmdrun

import (
	"github.com/giantswarm/cmdrun/internal/run"
	"github.com/giantswarm/cmdrun/internal/taskpool"
)

// TaskRunner is the task execution facility Execute submits its background
// work to: two output drains and one process wait per call. It is always
// supplied by the caller (the library never creates, owns, or shuts down
// a facility of its own), so callers control concurrency limits and
// shutdown ordering. Any implementation whose Submit either runs the task
// or returns an error satisfies it.
//
// TaskRunner is a type alias so implementations written against the
// public interface are accepted by the engine directly.
type TaskRunner = run.TaskRunner

// Pool is the bounded TaskRunner implementation provided with the
// library. Submit blocks while the pool is at capacity and fails with
// ErrPoolClosed after Shutdown; Shutdown waits for in-flight tasks.
type Pool = taskpool.Pool

// Compile-time check that Pool satisfies the facility interface.
var _ TaskRunner = (*Pool)(nil)

// NewPool creates a Pool running at most size tasks concurrently. Size it
// at three slots per expected concurrent execution. Panics if size is not
// positive.
func NewPool(size int) *Pool {
	return taskpool.New(size)
}
