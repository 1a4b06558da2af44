package ripple

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies what a reactive node is. It is fixed at creation.
type Kind uint8

const (
	KindSignal Kind = iota + 1
	KindMemo
	KindEffect
)

// String returns a human-readable name for the node kind.
func (k Kind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindMemo:
		return "memo"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// Cleanup is a function returned by effect bodies to release resources.
// It runs before the effect re-runs and when the effect is disposed.
type Cleanup func()

// node is one vertex of the dependency graph. Signals, memos, and effects
// are all thin typed wrappers around a node; the graph itself is made of
// plain records so it can be walked and serialized for debugging.
type node struct {
	id      uint64 // scope-local, assigned by the owning scope
	name    string
	kind    Kind
	version uint64
	value   any

	// compute is nil for signals and becomes nil permanently on disposal.
	compute func() any

	// cleanup is the callback returned by the previous execution of compute.
	cleanup Cleanup

	// err is the last computation error, retained for inspection. It does
	// not block recomputation once a dependency genuinely changes again.
	err error

	equals func(a, b any) bool
	owner  *Scope

	// sources maps each upstream node to the version observed when it was
	// last read. sourceList mirrors the keys in read order so detachment
	// stays O(n) without enumerating the map.
	sources    map[*node]uint64
	sourceList []*node

	// observers are the downstream nodes that read this node during their
	// last computation.
	observers []*node

	dirty bool

	// onDirty is the effect self-enqueue hook. The dirty flag makes it
	// one-shot: it fires only on the clean-to-dirty transition.
	onDirty func()

	disposed bool
}

func newNode(kind Kind, name string) *node {
	owner := ambientScope()
	n := &node{
		kind:   kind,
		name:   name,
		equals: defaultEquals,
		owner:  owner,
	}
	n.id = owner.adopt(n)
	instruments().NodeCreated(kind)
	return n
}

// label returns a diagnostic identifier for log output.
func (n *node) label() string {
	if n.name != "" {
		return n.name
	}
	return fmt.Sprintf("%s#%d/%d", n.kind, n.owner.id, n.id)
}

// addSource records an edge from this node (the observer) to src. Recording
// is idempotent within one computation: re-reading the same source only
// refreshes the observed version.
func (n *node) addSource(src *node) {
	if n.sources == nil {
		n.sources = make(map[*node]uint64)
	}
	if _, ok := n.sources[src]; ok {
		n.sources[src] = src.version
		return
	}
	n.sources[src] = src.version
	n.sourceList = append(n.sourceList, src)
	src.observers = append(src.observers, n)
}

// removeObserver drops obs from this node's observer set.
func (n *node) removeObserver(obs *node) {
	for i, o := range n.observers {
		if o == obs {
			n.observers[i] = n.observers[len(n.observers)-1]
			n.observers[len(n.observers)-1] = nil
			n.observers = n.observers[:len(n.observers)-1]
			return
		}
	}
}

// detachSources unlinks every edge this node holds to upstream nodes.
// Dependencies are rebuilt from scratch on every run, so stale edges from
// branches no longer taken never linger.
func (n *node) detachSources() {
	for _, src := range n.sourceList {
		src.removeObserver(n)
	}
	n.sourceList = n.sourceList[:0]
	for src := range n.sources {
		delete(n.sources, src)
	}
}

// access records a dependency edge from the currently computing node (if
// any) to n. Reads outside a computation do not create edges.
func (n *node) access() {
	sc := ambientScope()
	obs := sc.activeObserver
	if obs == nil || obs == n {
		return
	}
	obs.addSource(n)
}

// markDirty flags n as stale. Effects fire their enqueue hook; memos
// propagate the invalidation wave to their own observers without
// recomputing. Already-dirty nodes are skipped, so the hook fires only on
// the clean-to-dirty transition and a node enqueues at most once per wave.
func (n *node) markDirty() {
	if n.dirty || n.disposed {
		return
	}
	n.dirty = true
	if n.onDirty != nil {
		n.onDirty()
		return
	}
	if n.kind == KindMemo {
		n.invalidateObservers()
	}
}

// invalidateObservers marks a snapshot of the observer set dirty. The
// snapshot matters: an observer's reaction can dispose other observers
// while the wave is still propagating.
func (n *node) invalidateObservers() {
	if len(n.observers) == 0 {
		return
	}
	snapshot := make([]*node, len(n.observers))
	copy(snapshot, n.observers)
	for _, obs := range snapshot {
		obs.markDirty()
	}
}

// sourcesChanged reports whether any dependency's value actually changed
// since this node's last run, comparing live versions against the versions
// seen at read time. Stale memo sources are refreshed first, so an upstream
// change that recomputes to an equal value cuts the wave here: the version
// never bumps and this node does not re-run.
//
// Every transitive observer was already marked dirty by the eager wave, so
// a refresh that does change a memo needs no further propagation.
func (n *node) sourcesChanged() bool {
	for _, src := range n.sourceList {
		if src.kind == KindMemo && src.dirty && !src.disposed {
			src.recompute()
		}
		if src.version != n.sources[src] {
			return true
		}
	}
	return false
}

// onComputeStack reports whether n is currently computing on this
// goroutine. A read of such a node is re-entrant: a dependency cycle.
func (n *node) onComputeStack() bool {
	for _, active := range getTrackingContext().computeStack {
		if active == n {
			return true
		}
	}
	return false
}

// failCycle records a detected cycle on the node: the error is retained,
// the dirty flag clears so the wave halts, and the edges built so far in
// the aborted run are dropped. The previous value stays in place.
func (n *node) failCycle() {
	n.err = fmt.Errorf("%w: %s", ErrCycle, n.label())
	n.dirty = false
	n.detachSources()
	logger().Warn("dependency cycle detected", "node", n.label())
	instruments().CycleDetected(n.label())
}

// recompute re-runs the node's computation and reports whether the value
// changed per the node's equality predicate.
//
// A re-entrant computation (the node appears on the compute stack already)
// is a cycle: the error is recorded on the node, propagation stops, and the
// previous value stays in place. The error never surfaces to whichever
// writer triggered the wave; surfacing it there would destabilize code that
// has nothing to do with the cycle. That containment is deliberate.
func (n *node) recompute() bool {
	if n.disposed || n.compute == nil {
		return false
	}

	tc := getTrackingContext()
	if n.onComputeStack() {
		n.failCycle()
		return false
	}

	if n.cleanup != nil {
		c := n.cleanup
		n.cleanup = nil
		c()
	}

	n.detachSources()

	prevScope := tc.currentScope
	tc.currentScope = n.owner
	prevObserver := n.owner.activeObserver
	n.owner.activeObserver = n
	tc.computeStack = append(tc.computeStack, n)
	n.err = nil

	defer func() {
		tc.computeStack = tc.computeStack[:len(tc.computeStack)-1]
		n.owner.activeObserver = prevObserver
		tc.currentScope = prevScope
	}()

	start := time.Now()
	result, runErr := n.invokeCompute()
	instruments().Recompute(n.kind, time.Since(start))

	if runErr != nil {
		n.err = runErr
		n.dirty = false
		logger().Warn("compute failed", "node", n.label(), "error", runErr)
		instruments().ComputeError(n.label())
		return false
	}
	if n.err != nil && errors.Is(n.err, ErrCycle) {
		// A nested read re-entered this node. The cycle was already
		// recorded and the sources detached; keep the previous value.
		n.dirty = false
		return false
	}

	changed := !n.equals(n.value, result)
	if changed {
		n.value = result
		n.version++
	}
	n.dirty = false
	return changed
}

// invokeCompute runs compute with panic containment so a failing node never
// takes down sibling computations.
func (n *node) invokeCompute() (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %v", ErrComputeFailed, e)
			} else {
				err = fmt.Errorf("%w: %v", ErrComputeFailed, r)
			}
		}
	}()
	result = n.compute()
	return result, nil
}

// dispose permanently removes the node from the graph: cleanup runs, every
// edge is unlinked in both directions, and compute is cleared so a stale
// entry in a pending queue can never run it again. Idempotent.
func (n *node) dispose() {
	if n.disposed {
		return
	}
	n.disposed = true

	if n.cleanup != nil {
		c := n.cleanup
		n.cleanup = nil
		c()
	}

	n.detachSources()

	if len(n.observers) > 0 {
		snapshot := make([]*node, len(n.observers))
		copy(snapshot, n.observers)
		for _, obs := range snapshot {
			obs.removeSource(n)
		}
	}
	n.observers = nil
	n.compute = nil
	n.onDirty = nil
	n.err = ErrDisposed
	n.owner.release(n)
	instruments().NodeDisposed(n.kind)
}

// removeSource drops a single upstream edge, used when the upstream node is
// disposed out from under its observers.
func (n *node) removeSource(src *node) {
	if _, ok := n.sources[src]; !ok {
		return
	}
	delete(n.sources, src)
	for i, s := range n.sourceList {
		if s == src {
			n.sourceList = append(n.sourceList[:i], n.sourceList[i+1:]...)
			break
		}
	}
	src.removeObserver(n)
}
