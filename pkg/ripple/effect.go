package ripple

// Effect is a side-effecting computation: it runs once at creation and
// re-runs whenever a dependency changes, subject to batching. Effects are
// terminal in the graph; nothing can depend on one. The body may return a
// Cleanup that runs before the next execution and at disposal.
type Effect struct {
	n *node
}

// CreateEffect creates an effect within the current scope and runs it
// immediately, capturing its initial dependency set.
//
// Example:
//
//	CreateEffect(func() Cleanup {
//	    render(frame.Get())
//	    return func() { clear() }
//	})
func CreateEffect(fn func() Cleanup, opts ...Option) *Effect {
	o := applyOptions(opts)
	n := newNode(KindEffect, o.name)

	n.compute = func() any {
		if cleanup := fn(); cleanup != nil {
			n.cleanup = cleanup
		}
		return nil
	}
	// Self-enqueue on invalidation; the dirty flag keeps this one-shot
	// per wave.
	n.onDirty = func() {
		n.owner.enqueueEffect(n)
	}

	n.recompute()
	return &Effect{n: n}
}

// Err returns the error retained from the last failed or cyclic run, or
// nil.
func (e *Effect) Err() error { return e.n.err }

// Name returns the effect's diagnostic name.
func (e *Effect) Name() string { return e.n.name }

// Dispose runs the effect's pending cleanup, detaches it from the graph,
// and cancels any scheduled run. Idempotent.
func (e *Effect) Dispose() { e.n.dispose() }
