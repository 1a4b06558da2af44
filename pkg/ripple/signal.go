package ripple

// Signal is a mutable reactive cell. Reading it during a tracked
// computation (a memo or effect body) records a dependency edge; writing
// it invalidates dependents and, outside a batch, triggers a flush once
// the write unwinds.
type Signal[T any] struct {
	n *node
}

// NewSignal creates a signal holding initial. The value is stored
// directly; signals have no compute function.
func NewSignal[T any](initial T, opts ...Option) *Signal[T] {
	o := applyOptions(opts)
	n := newNode(KindSignal, o.name)
	n.value = initial
	return &Signal[T]{n: n}
}

// Get returns the current value and records a dependency edge when a
// computation is active.
func (s *Signal[T]) Get() T {
	if s.n.disposed {
		logger().Warn("read of disposed signal", "node", s.n.label())
	} else {
		s.n.access()
	}
	v, _ := s.n.value.(T)
	return v
}

// Peek returns the current value without recording a dependency. Use it
// to break tracking intentionally.
func (s *Signal[T]) Peek() T {
	v, _ := s.n.value.(T)
	return v
}

// Set updates the value. If the new value equals the current one per the
// signal's equality predicate this is a no-op: no version bump, no
// notification, no flush.
func (s *Signal[T]) Set(value T) {
	n := s.n
	if n.disposed {
		logger().Warn("write to disposed signal", "node", n.label())
		return
	}
	if n.equals(n.value, value) {
		return
	}
	n.value = value
	n.version++
	n.invalidateObservers()
	flushDirtyRoots()
}

// Update sets the value computed from the current one, without recording
// a dependency on the read.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.Peek()))
}

// WithEquals configures a custom equality predicate gating whether a write
// counts as a change. Returns the signal for chaining at creation:
//
//	pos := NewSignal(Point{}).WithEquals(func(a, b Point) bool { return a == b })
func (s *Signal[T]) WithEquals(fn func(a, b T) bool) *Signal[T] {
	s.n.equals = typedEquals(fn)
	return s
}

// Name returns the signal's diagnostic name.
func (s *Signal[T]) Name() string { return s.n.name }

// Version returns how many times the value has actually changed.
func (s *Signal[T]) Version() uint64 { return s.n.version }

// Dispose removes the signal from the graph. Subsequent reads warn and
// return the last value.
func (s *Signal[T]) Dispose() { s.n.dispose() }
