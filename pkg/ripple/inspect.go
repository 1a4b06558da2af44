package ripple

import "time"

// The graph is made of plain records precisely so it can be walked and
// dumped. Snapshots are plain data with no references back into the
// runtime; they may be handed to other goroutines (inspector servers,
// archivers) freely. Taking one, however, must happen on the runtime's
// execution thread.

// GraphSnapshot is a point-in-time dump of a scope tree.
type GraphSnapshot struct {
	TakenAt time.Time     `json:"taken_at"`
	Root    ScopeSnapshot `json:"root"`
}

// ScopeSnapshot describes one scope and everything it owns.
type ScopeSnapshot struct {
	ID             uint64          `json:"id"`
	Name           string          `json:"name,omitempty"`
	Depth          int             `json:"depth"`
	Disposed       bool            `json:"disposed,omitempty"`
	BatchDepth     int             `json:"batch_depth,omitempty"`
	PendingEffects int             `json:"pending_effects,omitempty"`
	Cleanups       int             `json:"cleanups,omitempty"`
	Nodes          []NodeSnapshot  `json:"nodes,omitempty"`
	Children       []ScopeSnapshot `json:"children,omitempty"`
}

// NodeSnapshot describes one reactive node and its edges.
type NodeSnapshot struct {
	ID        uint64        `json:"id"`
	ScopeID   uint64        `json:"scope_id"`
	Name      string        `json:"name,omitempty"`
	Kind      string        `json:"kind"`
	Version   uint64        `json:"version"`
	Dirty     bool          `json:"dirty,omitempty"`
	Error     string        `json:"error,omitempty"`
	Sources   []EdgeRef     `json:"sources,omitempty"`
	Observers []NodeRef     `json:"observers,omitempty"`
}

// NodeRef identifies a node by its owning scope and scope-local id.
type NodeRef struct {
	ScopeID uint64 `json:"scope_id"`
	NodeID  uint64 `json:"node_id"`
}

// EdgeRef is a source edge together with the version observed when the
// dependency was last read. A mismatch with the source's live version
// marks a stale dependency, which is what the field is kept for.
type EdgeRef struct {
	NodeRef
	SeenVersion uint64 `json:"seen_version"`
}

// Snapshot dumps the global scope tree.
func Snapshot() GraphSnapshot {
	return SnapshotScope(globalScope)
}

// SnapshotScope dumps the tree rooted at s.
func SnapshotScope(s *Scope) GraphSnapshot {
	return GraphSnapshot{
		TakenAt: time.Now(),
		Root:    snapshotScope(s),
	}
}

func snapshotScope(s *Scope) ScopeSnapshot {
	snap := ScopeSnapshot{
		ID:             s.id,
		Name:           s.name,
		Depth:          s.depth,
		Disposed:       s.disposed,
		BatchDepth:     s.batchDepth,
		PendingEffects: len(s.pendingEffects),
		Cleanups:       len(s.cleanups),
	}
	for _, n := range s.nodeOrder {
		snap.Nodes = append(snap.Nodes, snapshotNode(n))
	}
	for _, child := range s.children {
		snap.Children = append(snap.Children, snapshotScope(child))
	}
	return snap
}

func snapshotNode(n *node) NodeSnapshot {
	ns := NodeSnapshot{
		ID:      n.id,
		ScopeID: n.owner.id,
		Name:    n.name,
		Kind:    n.kind.String(),
		Version: n.version,
		Dirty:   n.dirty,
	}
	if n.err != nil {
		ns.Error = n.err.Error()
	}
	for _, src := range n.sourceList {
		ns.Sources = append(ns.Sources, EdgeRef{
			NodeRef:     NodeRef{ScopeID: src.owner.id, NodeID: src.id},
			SeenVersion: n.sources[src],
		})
	}
	for _, obs := range n.observers {
		ns.Observers = append(ns.Observers, NodeRef{ScopeID: obs.owner.id, NodeID: obs.id})
	}
	return ns
}
