package ripple

import (
	"runtime"
	"sync"
)

// trackingContext holds the ambient reactive state for a goroutine: which
// scope is current and the stack of nodes currently computing. The runtime
// is single-threaded cooperative; the per-goroutine slot exists so the
// ambient state behaves like a stack-scoped variable rather than a process
// global, and so tests in other goroutines cannot see each other's state.
type trackingContext struct {
	// currentScope is the scope that owns newly created nodes and child
	// scopes. nil means the package-level root scope is ambient.
	currentScope *Scope

	// computeStack is the chain of nodes currently computing, innermost
	// last. Used for cycle detection.
	computeStack []*node

	// dirtyRoots collects scope-tree roots that accumulated pending
	// effects during the current invalidation wave. The wave completes
	// first; only then are flushes requested, so effects never run in the
	// middle of a propagation pass. Goroutine-local like the rest of the
	// ambient state: concurrent independent graphs keep separate ledgers.
	dirtyRoots []*Scope
}

var trackingContexts sync.Map

// goroutineID extracts the current goroutine's id from the runtime stack
// header ("goroutine <id> ..."). Implementation detail, never exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func getTrackingContext() *trackingContext {
	gid := goroutineID()
	if tc, ok := trackingContexts.Load(gid); ok {
		return tc.(*trackingContext)
	}
	tc := &trackingContext{}
	trackingContexts.Store(gid, tc)
	return tc
}

// currentScope returns the goroutine's current scope, or nil when no scope
// has been entered.
func currentScope() *Scope {
	return getTrackingContext().currentScope
}

// setCurrentScope swaps the goroutine's current scope and returns the
// previous one so it can be restored.
func setCurrentScope(s *Scope) *Scope {
	tc := getTrackingContext()
	old := tc.currentScope
	tc.currentScope = s
	return old
}

// ambientScope resolves the scope that ambient operations act on: the
// current scope when one is active, the package root otherwise.
func ambientScope() *Scope {
	if sc := currentScope(); sc != nil {
		return sc
	}
	return globalScope
}
