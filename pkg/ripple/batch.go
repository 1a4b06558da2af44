package ripple

import "time"

// noteDirtyRoot records a scope-tree root touched by the current
// invalidation wave in the goroutine's ledger. The wave completes first;
// only then are flushes requested, so effects never run in the middle of
// a propagation pass.
func noteDirtyRoot(r *Scope) {
	tc := getTrackingContext()
	for _, existing := range tc.dirtyRoots {
		if existing == r {
			return
		}
	}
	tc.dirtyRoots = append(tc.dirtyRoots, r)
}

// flushDirtyRoots requests a flush on every root touched by the wave that
// just finished. Roots inside an open batch (or already flushing) stay
// noted and accumulate until the batch closes.
func flushDirtyRoots() {
	tc := getTrackingContext()
	for {
		ran := false
		var blocked []*Scope
		roots := tc.dirtyRoots
		tc.dirtyRoots = nil
		for _, r := range roots {
			if r.batchDepth > 0 || r.flushing {
				blocked = append(blocked, r)
				continue
			}
			r.requestFlush()
			ran = true
		}
		for _, r := range blocked {
			noteDirtyRoot(r)
		}
		if !ran {
			return
		}
	}
}

// enqueueEffect appends an effect node to this root's pending queue.
// Enqueue order is run order within a flush pass.
func (s *Scope) enqueueEffect(n *node) {
	root := s.root()
	root.pendingEffects = append(root.pendingEffects, n)
	noteDirtyRoot(root)
}

// requestFlush runs (or schedules) a flush on this root unless a batch is
// open or a flush is already in progress.
func (s *Scope) requestFlush() {
	root := s.root()
	if root.batchDepth > 0 || root.flushing || len(root.pendingEffects) == 0 {
		return
	}
	if root.scheduler != nil {
		if root.flushScheduled {
			return
		}
		root.flushScheduled = true
		root.scheduler(func() {
			root.flushScheduled = false
			root.flush()
		})
		return
	}
	root.flush()
}

// flush drains the pending queue in passes. Each pass snapshots the queue
// and clears it before running anything, so effects enqueued by a running
// effect land in the next pass rather than interleaving with this one.
// Disposal is the cancellation token: a node whose compute is gone is
// skipped even if it is still sitting in the queue.
func (s *Scope) flush() {
	if s.flushing {
		return
	}
	if s.batchDepth > 0 {
		// A scheduler-deferred flush can land while a batch is open. Keep
		// the root noted so the batch exit picks it back up.
		noteDirtyRoot(s)
		return
	}
	s.flushing = true
	defer func() { s.flushing = false }()

	for len(s.pendingEffects) > 0 {
		pass := s.pendingEffects
		s.pendingEffects = nil

		start := time.Now()
		for _, n := range pass {
			if n.disposed || n.compute == nil || !n.dirty {
				continue
			}
			if len(n.sourceList) > 0 && !n.sourcesChanged() {
				// The wave reached this effect through a memo that
				// recomputed to an equal value. Nothing to do.
				n.dirty = false
				continue
			}
			n.recompute()
		}
		instruments().FlushPass(len(pass), time.Since(start))
	}
}

// Batch defers effect execution for the duration of fn: writes inside the
// batch mark observers dirty and enqueue effects, but no flush runs until
// the outermost batch exits. Batches nest.
//
// Example:
//
//	Batch(func() {
//	    x.Set(1)
//	    y.Set(2)
//	})
//	// dependents run once, seeing both writes
func Batch(fn func()) {
	root := ambientScope().root()
	root.batchDepth++
	defer func() {
		root.batchDepth--
		if root.batchDepth == 0 {
			flushDirtyRoots()
		}
	}()
	fn()
}

// BatchValue is Batch for functions that return a value.
func BatchValue[T any](fn func() T) T {
	var result T
	Batch(func() { result = fn() })
	return result
}
