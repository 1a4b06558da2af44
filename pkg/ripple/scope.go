package ripple

// Scope is an ownership boundary for reactive nodes and child scopes.
// Disposing a scope tears down everything it owns as a unit: children
// first, then owned nodes, then the scope's own cleanup callbacks, then
// the link to its parent.
//
// Scopes form a tree mirroring the structure of whatever the host builds
// on top (UI regions, demo stages, list items). A scope created detached
// has no parent and is never disposed transitively by an ancestor.
type Scope struct {
	id    uint64
	name  string
	depth int

	parent   *Scope
	children []*Scope

	// nodes is the per-scope arena of owned nodes, keyed by scope-local id.
	// nodeOrder preserves creation order for deterministic disposal.
	nodes      map[uint64]*node
	nodeOrder  []*node
	nextNodeID uint64

	cleanups []Cleanup

	// contexts maps context id to the provided signal for scoped lookup.
	contexts map[uint64]any

	// activeObserver is the node currently computing in this scope, if any.
	// The tracker attributes reads to it.
	activeObserver *node

	// Scheduler state. Batching and flushing coordinate through the root
	// of the scope tree so every write in the tree observes one batch depth.
	batchDepth     int
	pendingEffects []*node
	flushing       bool
	flushScheduled bool
	scheduler      func(flush func())

	disposed  bool
	disposing bool
}

// globalScope owns nodes created outside any explicit scope. It is never
// disposed.
var globalScope = &Scope{
	id:    nextID(),
	name:  "global",
	nodes: make(map[uint64]*node),
}

// ScopeOption configures scope creation.
type ScopeOption func(*scopeOptions)

type scopeOptions struct {
	name      string
	detached  bool
	scheduler func(flush func())
}

// ScopeName sets a diagnostic name for the scope.
func ScopeName(name string) ScopeOption {
	return func(o *scopeOptions) { o.name = name }
}

// Detached creates the scope without a parent. A detached scope is not
// disposed transitively by any ancestor; the caller owns its lifetime.
func Detached() ScopeOption {
	return func(o *scopeOptions) { o.detached = true }
}

// WithFlushScheduler installs a deferred flush scheduler on the scope.
// Meaningful on scopes that act as the root of their tree: instead of
// running flush passes inline once the triggering write unwinds, the
// runtime hands the flush to the scheduler, which runs it on the host's
// own loop turn (a frame tick, a session event loop). The flush pass
// itself stays atomic with respect to newly enqueued effects.
func WithFlushScheduler(scheduler func(flush func())) ScopeOption {
	return func(o *scopeOptions) { o.scheduler = scheduler }
}

// CreateScope creates a scope nested under the currently active scope
// (unless detached), runs fn with the new scope as the ambient current
// scope, and returns fn's result alongside the scope. The previous scope
// is restored even if fn panics.
func CreateScope[T any](fn func() T, opts ...ScopeOption) (T, *Scope) {
	var o scopeOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &Scope{
		id:        nextID(),
		name:      o.name,
		nodes:     make(map[uint64]*node),
		scheduler: o.scheduler,
	}
	if !o.detached {
		parent := ambientScope()
		s.parent = parent
		s.depth = parent.depth + 1
		parent.children = append(parent.children, s)
	}

	prev := setCurrentScope(s)
	defer setCurrentScope(prev)
	return fn(), s
}

// Run executes fn with s as the ambient current scope, restoring the
// previous scope afterwards. Use it to create nodes or open batches in a
// scope after it was built.
func (s *Scope) Run(fn func()) {
	prev := setCurrentScope(s)
	defer setCurrentScope(prev)
	fn()
}

// OnCleanup registers fn to run when the currently active scope is
// disposed. Calling it with no active scope is a misuse: the cleanup is
// dropped with a warning rather than crashing the caller.
func OnCleanup(fn Cleanup) {
	sc := currentScope()
	if sc == nil {
		logger().Warn("OnCleanup called outside a scope; cleanup dropped")
		return
	}
	sc.OnCleanup(fn)
}

// OnCleanup registers fn into this scope's teardown list. Cleanups run in
// registration order, after owned nodes are disposed. Registering on an
// already-disposed scope runs fn immediately.
func (s *Scope) OnCleanup(fn Cleanup) {
	if s.disposed {
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
}

// ID returns the scope's unique identifier.
func (s *Scope) ID() uint64 { return s.id }

// Name returns the scope's diagnostic name.
func (s *Scope) Name() string { return s.name }

// Depth returns the scope's nesting level; root scopes have depth 0.
func (s *Scope) Depth() int { return s.depth }

// Parent returns the parent scope, or nil for detached and root scopes.
func (s *Scope) Parent() *Scope { return s.parent }

// IsDisposed reports whether Dispose has completed on this scope.
func (s *Scope) IsDisposed() bool { return s.disposed }

// adopt registers n as owned by this scope and assigns its scope-local id.
func (s *Scope) adopt(n *node) uint64 {
	s.nextNodeID++
	id := s.nextNodeID
	s.nodes[id] = n
	s.nodeOrder = append(s.nodeOrder, n)
	return id
}

// release removes a disposed node from the ownership set.
func (s *Scope) release(n *node) {
	delete(s.nodes, n.id)
	for i, other := range s.nodeOrder {
		if other == n {
			s.nodeOrder = append(s.nodeOrder[:i], s.nodeOrder[i+1:]...)
			return
		}
	}
}

// root walks up to the top of this scope's tree.
func (s *Scope) root() *Scope {
	r := s
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// setContext installs a context signal for scoped lookup.
func (s *Scope) setContext(id uint64, sig any) {
	if s.contexts == nil {
		s.contexts = make(map[uint64]any)
	}
	s.contexts[id] = sig
}

// lookupContext finds the nearest provided value for a context id, walking
// from this scope toward the root.
func (s *Scope) lookupContext(id uint64) (any, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.contexts[id]; ok {
			return v, true
		}
	}
	return nil, false
}

// Dispose tears the scope down: child scopes first (depth-first), then
// every node still owned by this scope, then scope-level cleanups in
// registration order, then the link from the parent's child list. Safe to
// call more than once; re-entrant disposal during disposal is guarded and
// reported.
func (s *Scope) Dispose() {
	if s.disposed {
		return
	}
	if s.disposing {
		logger().Warn("re-entrant scope disposal ignored", "scope", s.name, "id", s.id)
		return
	}
	s.disposing = true

	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	for _, child := range children {
		child.Dispose()
	}
	s.children = nil

	nodes := make([]*node, len(s.nodeOrder))
	copy(nodes, s.nodeOrder)
	for _, n := range nodes {
		n.dispose()
	}

	cleanups := s.cleanups
	s.cleanups = nil
	for _, fn := range cleanups {
		fn()
	}

	// Anything still owned here was created during teardown: a lifecycle
	// leak in whoever registered it.
	if len(s.nodes) > 0 {
		logger().Warn("scope disposed with live nodes remaining",
			"scope", s.name, "id", s.id, "remaining", len(s.nodes))
	}

	if s.parent != nil {
		s.parent.removeChild(s)
		s.parent = nil
	}

	s.pendingEffects = nil
	s.contexts = nil
	s.disposing = false
	s.disposed = true
}

func (s *Scope) removeChild(child *Scope) {
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}
