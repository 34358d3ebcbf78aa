// Package journal persists an append-only record of command executions in
// a SQLite database. Writes are serialized across processes with a file
// lock next to the database, so several test binaries can share one
// journal file. Recording is diagnostics: callers treat every journal
// error as non-fatal.
package journal
