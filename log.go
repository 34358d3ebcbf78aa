package cmdrun

import (
	"log/slog"

	"github.com/giantswarm/cmdrun/internal/run"
)

// SetLogger replaces the package-level logger used by cmdrun. This allows
// applications to integrate cmdrun logging with their own logging
// infrastructure. The provided logger should already carry any desired
// attributes; cmdrun will not add additional ones.
//
// If l is nil, the logger resets to the default: slog.Default() with a
// "component" attribute, re-derived on the next use and then cached. Call
// SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// SetLogger is safe to call concurrently with running executions; the
// logger is stored behind atomic pointers. For a strict happens-before
// guarantee, call SetLogger before starting executions (e.g., in TestMain
// before m.Run).
func SetLogger(l *slog.Logger) {
	run.SetLogger(l)
}
