package journal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "state", "runs.db"), nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() {
		if err := j.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return j
}

func TestJournal_RecordAndRecent(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{
			Argv:        []string{"sh", "-c", "echo one"},
			Outcome:     "success",
			ExitCode:    0,
			Started:     started,
			Duration:    120 * time.Millisecond,
			StdoutBytes: 4,
		},
		{
			Argv:     []string{"sh", "-c", "exit 33"},
			Dir:      "/tmp",
			Outcome:  "exit_code",
			ExitCode: 33,
			Started:  started.Add(time.Second),
			Duration: 80 * time.Millisecond,
		},
		{
			Argv:        []string{"sleep", "60"},
			Outcome:     "timeout",
			Started:     started.Add(2 * time.Second),
			Duration:    time.Second,
			StderrBytes: 7,
		},
	}
	for i, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record(%d) error: %v", i, err)
		}
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d entries, want 2", len(got))
	}

	// Newest first: the timeout entry, then the exit-code entry.
	if !slices.Equal(got[0].Argv, entries[2].Argv) {
		t.Errorf("newest Argv = %v, want %v", got[0].Argv, entries[2].Argv)
	}
	if got[0].Outcome != "timeout" || got[0].StderrBytes != 7 {
		t.Errorf("newest entry = %+v, want the timeout entry", got[0])
	}
	if got[1].Outcome != "exit_code" || got[1].ExitCode != 33 || got[1].Dir != "/tmp" {
		t.Errorf("second entry = %+v, want the exit-code entry", got[1])
	}

	// Timestamps survive the microsecond round trip.
	if !got[1].Started.Equal(entries[1].Started) {
		t.Errorf("Started = %v, want %v", got[1].Started, entries[1].Started)
	}
	if got[1].Duration != entries[1].Duration {
		t.Errorf("Duration = %v, want %v", got[1].Duration, entries[1].Duration)
	}
}

func TestJournal_RecentOnEmptyJournal(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)

	got, err := j.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Recent() on empty journal returned %d entries", len(got))
	}
}

func TestJournal_RecentRejectsNonPositiveLimit(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)

	if _, err := j.Recent(context.Background(), 0); err == nil {
		t.Error("Recent(0) did not fail")
	}
}

func TestJournal_ReopenSeesRecordedRuns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	j, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	e := Entry{Argv: []string{"true"}, Outcome: "success", Started: time.Now()}
	if err := j.Record(ctx, e); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	j2, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer j2.Close() //nolint:errcheck // read-only reopen in a test

	got, err := j2.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 1 || !slices.Equal(got[0].Argv, e.Argv) {
		t.Errorf("reopened journal returned %+v, want the recorded run", got)
	}
}

func TestJournal_ConcurrentRecords(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()

	const writers = 8
	errc := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			errc <- j.Record(ctx, Entry{
				Argv:    []string{"worker", fmt.Sprint(i)},
				Outcome: "success",
				Started: time.Now(),
			})
		}()
	}
	for i := 0; i < writers; i++ {
		if err := <-errc; err != nil {
			t.Errorf("concurrent Record() error: %v", err)
		}
	}

	got, err := j.Recent(ctx, writers)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != writers {
		t.Errorf("recorded %d runs, want %d", len(got), writers)
	}
}

func TestJournal_Closed(t *testing.T) {
	t.Parallel()

	j, err := Open(filepath.Join(t.TempDir(), "runs.db"), nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	// Close is idempotent.
	if err := j.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}

	if err := j.Record(context.Background(), Entry{Argv: []string{"true"}}); !errors.Is(err, ErrClosed) {
		t.Errorf("Record() after Close error = %v, want ErrClosed", err)
	}
	if _, err := j.Recent(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Recent() after Close error = %v, want ErrClosed", err)
	}
}
