package lrg

import (
	"fmt"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Logger receives diagnostics about entries that were skipped during a walk.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// ProgressFunc is called with the number of entries and bytes collected so far.
type ProgressFunc func(files int64, bytes uint64)

// Options configures a walk.
type Options struct {
	// MaxDepth is the deepest level that is descended into, where the root's
	// direct children are at depth 0. Nil means unbounded.
	MaxDepth *int
	// MinDepth is the shallowest level at which entries are reported.
	// Shallower levels are still traversed.
	MinDepth int
	// NoRecursion restricts the walk to the root's direct children.
	// It takes precedence over MaxDepth.
	NoRecursion bool
	// FollowLinks resolves symbolic links and treats them as their target.
	FollowLinks bool
	// IncludeDirs reports directories alongside files.
	IncludeDirs bool
	// Logger receives diagnostics. Nil disables them.
	Logger Logger
	// Progress is called periodically from the walking goroutine.
	Progress ProgressFunc
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
}

// Depth returns a pointer to n, for use as Options.MaxDepth.
func Depth(n int) *int {
	return &n
}

// Validate reports malformed options.
func (o Options) Validate() error {
	if o.MaxDepth != nil && *o.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth cannot be negative: %d", ErrInvalidArgument, *o.MaxDepth)
	}

	if o.MinDepth < 0 {
		return fmt.Errorf("%w: min depth cannot be negative: %d", ErrInvalidArgument, o.MinDepth)
	}

	return nil
}

// descends reports whether a directory found at depth may be entered.
func (o Options) descends(depth int) bool {
	if o.NoRecursion {
		return false
	}

	return o.MaxDepth == nil || depth < *o.MaxDepth
}

// reports reports whether an entry found at depth is passed to the caller.
func (o Options) reports(depth int) bool {
	return depth >= o.MinDepth
}

// nopLogger discards all diagnostics.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}
