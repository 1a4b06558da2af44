package ripple

import (
	"errors"
	"log/slog"
	"sync/atomic"
)

// ErrCycle is recorded on a node whose computation re-entered itself.
// The cycle is contained: the node keeps its last good value, propagation
// halts, and nothing is raised to the writer whose update triggered the
// wave. The node retries only on a genuine future dependency change.
var ErrCycle = errors.New("ripple: dependency cycle")

// ErrComputeFailed wraps a panic thrown by a node's compute function.
// The failure is contained at the node: the previous cached value stays,
// sibling computations are unaffected, and the node recomputes normally
// the next time a dependency changes.
var ErrComputeFailed = errors.New("ripple: compute failed")

// ErrDisposed is recorded on a node when it is disposed, so Err reports
// why a memo or effect stopped reacting. Stale reads after disposal are a
// diagnosable misuse, not undefined behavior; they warn and return the
// last value rather than throw, to avoid destabilizing unrelated
// consumers during teardown races.
var ErrDisposed = errors.New("ripple: node disposed")

var packageLogger atomic.Pointer[slog.Logger]

// SetLogger replaces the logger used for runtime diagnostics (lifecycle
// misuse, cycle detection, scope leaks). Defaults to slog.Default.
func SetLogger(l *slog.Logger) {
	packageLogger.Store(l)
}

func logger() *slog.Logger {
	if l := packageLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
