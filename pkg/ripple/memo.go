package ripple

// Memo is a read-only cached computation. It computes once at creation,
// then recomputes lazily: only when it is both marked stale by an upstream
// change and actually read again. A recompute whose result equals the
// previous value (per the memo's equality predicate) does not bump the
// version, so downstream consumers see no change.
type Memo[T any] struct {
	n *node
}

// NewMemo creates a memo from compute. The first value is computed
// synchronously, capturing the initial dependency set.
func NewMemo[T any](compute func() T, opts ...Option) *Memo[T] {
	o := applyOptions(opts)
	n := newNode(KindMemo, o.name)
	n.compute = func() any { return compute() }
	n.recompute()
	return &Memo[T]{n: n}
}

// Get returns the memo's value, recomputing first if a dependency changed
// since the last computation, and records a dependency edge when a
// computation is active.
func (m *Memo[T]) Get() T {
	n := m.n
	if n.disposed {
		logger().Warn("read of disposed memo", "node", n.label())
		v, _ := n.value.(T)
		return v
	}
	m.refresh()
	n.access()
	v, _ := n.value.(T)
	return v
}

// Peek returns the value without recording a dependency. It still
// recomputes if stale.
func (m *Memo[T]) Peek() T {
	if !m.n.disposed {
		m.refresh()
	}
	v, _ := m.n.value.(T)
	return v
}

func (m *Memo[T]) refresh() {
	n := m.n
	if !n.dirty {
		return
	}
	// A re-entrant read must be caught before the staleness short-circuit:
	// the computation in progress has already re-read its sources, so their
	// seen versions look current here even though the run has not committed.
	if n.onComputeStack() {
		n.failCycle()
		return
	}
	if len(n.sourceList) > 0 && !n.sourcesChanged() {
		n.dirty = false
		return
	}
	if n.recompute() {
		// The value genuinely changed: push the invalidation one more
		// hop downstream. Each observer recomputes lazily on its own
		// next read or flush.
		n.invalidateObservers()
		flushDirtyRoots()
	}
}

// WithEquals configures the equality predicate gating change detection.
func (m *Memo[T]) WithEquals(fn func(a, b T) bool) *Memo[T] {
	m.n.equals = typedEquals(fn)
	return m
}

// Err returns the error retained from the last failed or cyclic
// computation, or nil. The error clears once a computation succeeds.
func (m *Memo[T]) Err() error { return m.n.err }

// Name returns the memo's diagnostic name.
func (m *Memo[T]) Name() string { return m.n.name }

// Version returns how many times the computed value has actually changed.
func (m *Memo[T]) Version() uint64 { return m.n.version }

// Dispose removes the memo from the graph permanently.
func (m *Memo[T]) Dispose() { m.n.dispose() }
