//go:build integration

package cmdrun_test

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/giantswarm/cmdrun"
)

// sharedPool is the process-level task pool, created once in TestMain and
// shared by all integration tests in this package.
var sharedPool *cmdrun.Pool

// TestMain configures logging, creates the shared pool sized for the
// actual -test.parallel value, and runs all tests.
func TestMain(m *testing.M) {
	flag.Parse()

	level := slog.LevelWarn
	if os.Getenv("CMDRUN_TEST_DEBUG") != "" {
		level = slog.LevelDebug
	}
	cmdrun.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Three slots per concurrent execution, with headroom for subtests
	// that run extra commands of their own.
	sharedPool = cmdrun.NewPool(3 * (testParallel() + 4))

	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := sharedPool.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pool shutdown failed: %v\n", err)
		if code == 0 {
			code = 1
		}
	}

	os.Exit(code)
}

// testParallel returns the effective -test.parallel value for the current
// test binary.
func testParallel() int {
	f := flag.Lookup("test.parallel")
	if f == nil {
		return 4
	}
	var n int
	if _, err := fmt.Sscanf(f.Value.String(), "%d", &n); err != nil || n <= 0 {
		return 4
	}
	return n
}
