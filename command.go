package cmdrun

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/giantswarm/cmdrun/internal/run"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("cmdrun: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("cmdrun: %s must not be empty", name))
	}
}

// Command is an immutable description of what to run, where, and under
// which exit-code and time-limit policy. Values are built with New and the
// With* setters; each setter returns a new independent value and leaves
// its receiver unchanged, so Commands can be shared freely across
// goroutines and reused as templates.
//
// The With* setters panic on invalid input (empty directory, empty code
// set, non-positive limit). These panics are intentional: the values are
// compile-time constants in practice, so an invalid one is a programmer
// error rather than a runtime condition, the same way [regexp.MustCompile]
// treats a malformed pattern.
type Command struct {
	argv    []string
	dir     string
	okCodes []int // sorted, deduplicated, never empty
	limit   time.Duration
}

// New creates a Command for the given argument vector. The first element
// is the executable, resolved via PATH unless it contains a separator.
// Defaults: inherit the caller's working directory, successful exit codes
// {0}, no time limit. Panics if argv is empty.
func New(argv ...string) Command {
	if len(argv) == 0 {
		panic("cmdrun: command argv must not be empty")
	}
	return Command{
		argv:    slices.Clone(argv),
		okCodes: []int{0},
	}
}

// WithDirectory returns a copy of the command that runs in dir. The path
// is cleaned, so "foo/" and "foo" produce equal commands. Panics if dir is
// empty.
func (c Command) WithDirectory(dir string) Command {
	requireNonEmpty("directory", dir)
	c.dir = filepath.Clean(dir)
	return c
}

// WithSuccessfulExitCodes returns a copy of the command that treats
// exactly the given exit codes as success. The codes form a set: order and
// duplicates are irrelevant. Panics if no codes are given.
func (c Command) WithSuccessfulExitCodes(codes ...int) Command {
	requirePositive("number of successful exit codes", len(codes))
	normalized := slices.Clone(codes)
	slices.Sort(normalized)
	c.okCodes = slices.Compact(normalized)
	return c
}

// WithTimeLimit returns a copy of the command bounded by the given
// wall-clock limit. Panics if d is not positive.
func (c Command) WithTimeLimit(d time.Duration) Command {
	requirePositive("time limit", d)
	c.limit = d
	return c
}

// Argv returns a copy of the argument vector.
func (c Command) Argv() []string {
	return slices.Clone(c.argv)
}

// Directory returns the configured working directory, or the empty string
// when the caller's working directory is inherited.
func (c Command) Directory() string {
	return c.dir
}

// SuccessfulExitCodes returns a sorted copy of the successful exit-code set.
func (c Command) SuccessfulExitCodes() []int {
	return slices.Clone(c.okCodes)
}

// TimeLimit returns the configured time limit, or zero when unbounded.
func (c Command) TimeLimit() time.Duration {
	return c.limit
}

// Equal reports structural equality: argument vectors compare as ordered
// sequences, successful exit codes as sets (both sides are normalized at
// construction), directories as cleaned paths, and time limits exactly.
func (c Command) Equal(o Command) bool {
	return slices.Equal(c.argv, o.argv) &&
		c.dir == o.dir &&
		slices.Equal(c.okCodes, o.okCodes) &&
		c.limit == o.limit
}

// String renders the command for logs and error messages.
func (c Command) String() string {
	if c.dir == "" {
		return strings.Join(c.argv, " ")
	}
	return fmt.Sprintf("%s (in %s)", strings.Join(c.argv, " "), c.dir)
}

// spec converts the command into the engine's internal form. Slices are
// cloned so the engine can never alias a caller-visible value.
func (c Command) spec() run.Spec {
	return run.Spec{
		Argv:            slices.Clone(c.argv),
		Dir:             c.dir,
		SuccessfulCodes: slices.Clone(c.okCodes),
		TimeLimit:       c.limit,
	}
}
