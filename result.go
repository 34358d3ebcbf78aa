package cmdrun

import "github.com/giantswarm/cmdrun/internal/run"

// Result holds the outcome of a successful execution: the observed exit
// code (a member of the command's successful set) and the complete bytes
// the process wrote to each output stream. Stdout and stderr are captured
// separately; both streams are always drained.
//
// Result is a type alias so the engine's value is the public API without
// re-wrapping. Once returned, the value is owned entirely by the caller.
type Result = run.Result
