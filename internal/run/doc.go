// Package run implements the command execution engine.
//
// It launches a child process with piped stdout/stderr, drains both pipes
// on a caller-supplied task runner so the child can never block on a full
// kernel pipe buffer, races an optional deadline against natural process
// exit, and classifies the outcome against the command's successful
// exit-code set. Exactly one termination cause is ever recorded per run:
// natural exit wins any race with the deadline.
package run
