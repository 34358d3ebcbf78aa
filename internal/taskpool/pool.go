// Package taskpool provides a bounded task runner backed by a weighted
// semaphore. It is the ready-made task execution facility offered by the
// root package; executions accept any implementation of the TaskRunner
// interface and never depend on this one specifically.
package taskpool

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/giantswarm/cmdrun/internal/sentinel"
)

// ErrClosed is returned by Submit after Shutdown has been called.
const ErrClosed = sentinel.Error("task pool is closed")

// Pool runs submitted tasks on goroutines, with at most size tasks in
// flight at once. The zero value is not usable; create pools with New.
type Pool struct {
	sem    *semaphore.Weighted
	size   int64
	closed atomic.Bool
}

// New creates a Pool that runs at most size tasks concurrently.
//
// Each command execution occupies three slots for its duration (two drains
// and one wait), so size at least 3x the expected number of concurrent
// executions. Panics if size is not positive: pool sizes are compile-time
// constants in practice, so an invalid value is a programmer error.
func New(size int) *Pool {
	if size <= 0 {
		panic(fmt.Sprintf("cmdrun: pool size must be greater than 0, got %d", size))
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: int64(size)}
}

// Submit runs task on a pool goroutine, blocking until a slot is free.
// Returns ErrClosed if the pool has been shut down. The task is run
// exactly once and its slot is released when it returns, even if it panics.
func (p *Pool) Submit(task func()) error {
	if p.closed.Load() {
		return ErrClosed
	}
	if err := p.sem.Acquire(context.Background(), 1); err != nil {
		// Unreachable with a background context; kept for the semaphore contract.
		return fmt.Errorf("acquire pool slot: %w", err)
	}
	if p.closed.Load() {
		p.sem.Release(1)
		return ErrClosed
	}
	go func() {
		defer p.sem.Release(1)
		task()
	}()
	return nil
}

// Shutdown marks the pool closed and waits for all in-flight tasks to
// finish, bounded by ctx. Submissions that raced past the closed check are
// waited for as well, since they hold slots. After Shutdown returns, every
// Submit fails with ErrClosed.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.closed.Store(true)
	if err := p.sem.Acquire(ctx, p.size); err != nil {
		return fmt.Errorf("wait for in-flight tasks: %w", err)
	}
	p.sem.Release(p.size)
	return nil
}
