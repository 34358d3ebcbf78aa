package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"

	"github.com/giantswarm/cmdrun/internal/fileutil"
	"github.com/giantswarm/cmdrun/internal/sentinel"
)

// ErrClosed is returned by Record and Recent after Close.
const ErrClosed = sentinel.Error("journal is closed")

// schema is applied on every Open; IF NOT EXISTS makes it idempotent for
// journals shared across processes.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at   INTEGER NOT NULL, -- microseconds since the Unix epoch
	duration_us  INTEGER NOT NULL,
	argv         TEXT    NOT NULL, -- JSON array
	dir          TEXT    NOT NULL,
	outcome      TEXT    NOT NULL,
	exit_code    INTEGER NOT NULL,
	stdout_bytes INTEGER NOT NULL,
	stderr_bytes INTEGER NOT NULL
)`

// Entry is one recorded run.
type Entry struct {
	Argv        []string
	Dir         string
	Outcome     string
	ExitCode    int
	Started     time.Time
	Duration    time.Duration
	StdoutBytes int
	StderrBytes int
}

// Journal is an append-only store of executed runs. Safe for concurrent
// use; cross-process writers are serialized via a sibling ".lock" file.
type Journal struct {
	db       *sql.DB
	lockPath string
	log      *slog.Logger
	closed   atomic.Bool
}

// Open creates or opens the journal database at path, creating parent
// directories and the schema as needed. If log is nil, slog.Default() is
// used.
func Open(path string, log *slog.Logger) (*Journal, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return nil, err
	}

	// WAL mode plus a generous busy timeout to tolerate writers in other
	// processes. NORMAL synchronous is enough: the journal is diagnostic
	// data, crash durability is not worth the extra fsyncs.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_pragma=synchronous(NORMAL)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	// Single connection: short-lived sessions, not a pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &Journal{db: db, lockPath: path + ".lock", log: log}, nil
}

// Record appends one entry. The file lock serializes concurrent writers
// from other processes; in-process callers are serialized by the single
// database connection.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if j.closed.Load() {
		return ErrClosed
	}

	argv, err := json.Marshal(e.Argv)
	if err != nil {
		return fmt.Errorf("encode argv: %w", err)
	}

	fl, err := acquireFileLock(ctx, j.lockPath)
	if err != nil {
		return err
	}
	defer releaseFileLock(j.log, fl)

	const insert = `
		INSERT INTO runs (started_at, duration_us, argv, dir, outcome, exit_code, stdout_bytes, stderr_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = j.db.ExecContext(ctx, insert,
		e.Started.UnixMicro(), e.Duration.Microseconds(), string(argv), e.Dir,
		e.Outcome, e.ExitCode, e.StdoutBytes, e.StderrBytes)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to n recorded runs, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	if j.closed.Load() {
		return nil, ErrClosed
	}
	if n <= 0 {
		return nil, fmt.Errorf("recent: n must be positive, got %d", n)
	}

	const query = `
		SELECT started_at, duration_us, argv, dir, outcome, exit_code, stdout_bytes, stderr_bytes
		FROM runs ORDER BY id DESC LIMIT ?`
	rows, err := j.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // rows.Err() below catches read errors

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			startedUS  int64
			durationUS int64
			argvJSON   string
		)
		if err := rows.Scan(&startedUS, &durationUS, &argvJSON, &e.Dir,
			&e.Outcome, &e.ExitCode, &e.StdoutBytes, &e.StderrBytes); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(argvJSON), &e.Argv); err != nil {
			return nil, fmt.Errorf("decode argv: %w", err)
		}
		e.Started = time.UnixMicro(startedUS)
		e.Duration = time.Duration(durationUS) * time.Microsecond
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read runs: %w", err)
	}
	return entries, nil
}

// Close releases the database handle. Record and Recent fail with
// ErrClosed afterwards. Safe to call more than once.
func (j *Journal) Close() error {
	if j.closed.Swap(true) {
		return nil
	}
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}
