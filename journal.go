package cmdrun

import (
	"context"

	"github.com/giantswarm/cmdrun/internal/journal"
	"github.com/giantswarm/cmdrun/internal/run"
)

// RunRecord is one journaled execution: argv, directory, outcome
// ("success", "exit_code", "timeout", or "launch_failed"), exit code where
// meaningful, start time, duration, and captured output sizes.
type RunRecord = journal.Entry

// Journal is an append-only, SQLite-backed record of command executions.
// One journal file may be shared by several processes; writers are
// serialized with a file lock next to the database. Attach it to
// individual calls via WithJournal.
//
// All methods are safe for concurrent use.
type Journal struct {
	j *journal.Journal
}

// Compile-time check that Journal can receive outcomes from the engine.
var _ run.Recorder = (*Journal)(nil)

// OpenJournal creates or opens the journal database at path, creating
// parent directories as needed. A sibling path + ".lock" file is used for
// cross-process write serialization and is left on disk after use.
func OpenJournal(path string) (*Journal, error) {
	requireNonEmpty("journal path", path)
	j, err := journal.Open(path, run.Logger())
	if err != nil {
		return nil, err
	}
	return &Journal{j: j}, nil
}

// Record implements the engine's recorder. It is exported only through
// the interface; applications record runs by passing WithJournal to
// Execute rather than calling this directly.
func (j *Journal) Record(ctx context.Context, e run.Entry) error {
	return j.j.Record(ctx, journal.Entry{
		Argv:        e.Argv,
		Dir:         e.Dir,
		Outcome:     e.Outcome,
		ExitCode:    e.ExitCode,
		Started:     e.Started,
		Duration:    e.Duration,
		StdoutBytes: e.StdoutBytes,
		StderrBytes: e.StderrBytes,
	})
}

// Recent returns up to n journaled runs, newest first.
// Returns ErrJournalClosed after Close.
func (j *Journal) Recent(ctx context.Context, n int) ([]RunRecord, error) {
	return j.j.Recent(ctx, n)
}

// Close releases the underlying database. Subsequent Record and Recent
// calls fail with ErrJournalClosed. Safe to call more than once.
func (j *Journal) Close() error {
	return j.j.Close()
}
