// Package ripple is a fine-grained reactive state runtime: signals,
// memos, and effects connected by a live dependency graph, grouped into
// hierarchical scopes for lifecycle management.
//
// Invalidation is push-based and recomputation is pull-based: writing a
// signal marks dependents stale synchronously, memos recompute only when
// read again, and effects run in deferred flush passes once the
// triggering write (or outermost batch) unwinds.
//
//	count := ripple.NewSignal(0)
//	doubled := ripple.NewMemo(func() int { return count.Get() * 2 })
//	ripple.CreateEffect(func() ripple.Cleanup {
//	    fmt.Println("doubled:", doubled.Get())
//	    return nil
//	})
//	count.Set(5) // prints "doubled: 10"
//
// The runtime is single-threaded cooperative: all graph mutation happens
// on one logical thread, and the only suspension point is the deferred
// flush. By default the flush runs synchronously inside the triggering
// Set (or at the outermost Batch exit) once the invalidation wave has
// fully propagated; there is no background turn. Hosts that own an event
// loop can take over flush scheduling with WithFlushScheduler, which
// restores a truly deferred model: writes only enqueue, and the host
// decides when the pass runs.
//
// Accessor is the read-only surface shared by signals and memos, which
// downstream helpers (package flow, inspectors) consume.
package ripple

// Accessor is the read-only surface of a signal or memo.
type Accessor[T any] interface {
	// Get returns the current value, recording a dependency edge when a
	// computation is active.
	Get() T

	// Peek returns the current value without recording a dependency.
	Peek() T
}

var (
	_ Accessor[int] = (*Signal[int])(nil)
	_ Accessor[int] = (*Memo[int])(nil)
)
