// Package cmdrun runs external commands with wall-clock time limits,
// configurable successful exit codes, and deadlock-free output capture.
//
// A Command is an immutable description of what to run; every With* setter
// returns a new value. Execute launches the process, drains stdout and
// stderr concurrently so the child can never block on a full pipe buffer,
// races the optional time limit against natural exit, and classifies the
// outcome against the successful exit-code set.
//
// # Basic Usage
//
//	import "github.com/giantswarm/cmdrun"
//
//	ctx := context.Background()
//
//	pool := cmdrun.NewPool(8)
//	defer pool.Shutdown(ctx) // Waits for in-flight tasks; returns nil on success
//
//	cmd := cmdrun.New("git", "status", "--porcelain").
//		WithDirectory("/repo").
//		WithTimeLimit(30 * time.Second)
//
//	res, err := cmdrun.Execute(ctx, cmd, pool)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("exit %d: %s", res.ExitCode, res.Stdout)
//
// # Failure Classification
//
// Execute fails with exactly one of three typed errors, each matching a
// sentinel through errors.Is:
//
//	var exitErr *cmdrun.ExitCodeError
//	switch {
//	case errors.Is(err, cmdrun.ErrLaunchFailed):
//		// binary missing or not executable; no process was created
//	case errors.Is(err, cmdrun.ErrTimedOut):
//		// time limit exceeded; the process was forcibly terminated
//	case errors.As(err, &exitErr):
//		// natural exit outside the successful set; exitErr.Code, exitErr.Stderr
//	}
//
// Exit code 0 is not special-cased: a command configured with
// WithSuccessfulExitCodes(33) treats an exit of 0 as a failure.
//
// # Task Execution
//
// Execute never creates goroutine infrastructure of its own. The caller
// supplies a TaskRunner that hosts the two drain tasks and the process
// wait; NewPool provides a bounded implementation, and any Submit-shaped
// facility works. A pool needs three free slots per concurrent execution.
//
// # Journal
//
// An optional Journal records every classified run (argv, outcome, exit
// code, duration, output sizes) in a SQLite file that may be shared by
// several processes:
//
//	j, err := cmdrun.OpenJournal("/tmp/builds/runs.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer j.Close()
//
//	res, err := cmdrun.Execute(ctx, cmd, pool, cmdrun.WithJournal(j))
//
// Journal failures are logged and never affect execution results.
package cmdrun
