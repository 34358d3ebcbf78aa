//go:build integration

package cmdrun_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/giantswarm/cmdrun"
)

// TestConcurrentMixedOutcomes runs many executions with different outcomes
// at once on the shared pool and verifies every one classifies correctly
// and independently.
func TestConcurrentMixedOutcomes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	type job struct {
		cmd  cmdrun.Command
		want error // sentinel to match, nil for success
	}

	jobs := []job{
		{cmd: cmdrun.New("sh", "-c", "echo a"), want: nil},
		{cmd: cmdrun.New("sh", "-c", "exit 33").WithTimeLimit(10 * time.Second), want: cmdrun.ErrUnexpectedExitCode},
		{cmd: cmdrun.New("sh", "-c", "exit 33").WithSuccessfulExitCodes(33), want: nil},
		{cmd: cmdrun.New("sleep", "30").WithTimeLimit(500 * time.Millisecond), want: cmdrun.ErrTimedOut},
		{cmd: cmdrun.New("no-such-binary-zzz"), want: cmdrun.ErrLaunchFailed},
	}

	const rounds = 4
	var wg sync.WaitGroup
	errs := make([]error, rounds*len(jobs))
	for r := 0; r < rounds; r++ {
		for i, jb := range jobs {
			idx := r*len(jobs) + i
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := cmdrun.Execute(ctx, jb.cmd, sharedPool)
				switch {
				case jb.want == nil && err != nil:
					errs[idx] = fmt.Errorf("unexpected failure: %w", err)
				case jb.want != nil && !errors.Is(err, jb.want):
					errs[idx] = fmt.Errorf("got %v, want %v", err, jb.want)
				}
			}()
		}
	}
	wg.Wait()

	for idx, err := range errs {
		if err != nil {
			t.Errorf("job %d: %v", idx, err)
		}
	}
}

// TestHeavyOutputUnderConcurrency exercises the pipe drains with several
// high-volume writers at once.
func TestHeavyOutputUnderConcurrency(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	script := "i=0; while [ $i -lt 20000 ]; do echo 0123456789; i=$((i+1)); done"
	cmd := cmdrun.New("sh", "-c", script).WithTimeLimit(2 * time.Minute)

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := cmdrun.Execute(ctx, cmd, sharedPool)
			if err != nil {
				errs[w] = err
				return
			}
			if got, want := len(res.Stdout), 20000*11; got != want {
				errs[w] = fmt.Errorf("captured %d bytes, want %d", got, want)
			}
		}()
	}
	wg.Wait()

	for w, err := range errs {
		if err != nil {
			t.Errorf("worker %d: %v", w, err)
		}
	}
}

// TestJournalUnderConcurrency records every run of a concurrent batch into
// one journal and verifies nothing is lost.
func TestJournalUnderConcurrency(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	j, err := cmdrun.OpenJournal(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenJournal() error: %v", err)
	}
	defer j.Close() //nolint:errcheck // test cleanup

	const runs = 10
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd := cmdrun.New("sh", "-c", fmt.Sprintf("echo run-%d", i))
			if _, err := cmdrun.Execute(ctx, cmd, sharedPool, cmdrun.WithJournal(j)); err != nil {
				t.Errorf("run %d: %v", i, err)
			}
		}()
	}
	wg.Wait()

	records, err := j.Recent(ctx, runs+1)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(records) != runs {
		t.Errorf("journal holds %d records, want %d", len(records), runs)
	}
}
