package ripple

import "testing"

func TestCreateScopeReturnsValue(t *testing.T) {
	got, scope := CreateScope(func() int { return 42 })
	defer scope.Dispose()

	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if scope.IsDisposed() {
		t.Error("expected live scope")
	}
}

func TestScopeNesting(t *testing.T) {
	_, parent := CreateScope(func() struct{} { return struct{}{} }, ScopeName("parent"), Detached())
	defer parent.Dispose()

	var child *Scope
	parent.Run(func() {
		_, child = CreateScope(func() struct{} { return struct{}{} }, ScopeName("child"))
	})

	if child.Parent() != parent {
		t.Error("expected child to link to parent")
	}
	if child.Depth() != parent.Depth()+1 {
		t.Errorf("expected depth %d, got %d", parent.Depth()+1, child.Depth())
	}
}

func TestScopeDisposeOrder(t *testing.T) {
	var order []string

	_, parent := CreateScope(func() struct{} {
		CreateScope(func() struct{} {
			OnCleanup(func() { order = append(order, "child cleanup") })
			CreateEffect(func() Cleanup {
				return func() { order = append(order, "child effect cleanup") }
			})
			return struct{}{}
		}, ScopeName("child"))

		CreateEffect(func() Cleanup {
			return func() { order = append(order, "parent effect cleanup") }
		})
		OnCleanup(func() { order = append(order, "parent cleanup 1") })
		OnCleanup(func() { order = append(order, "parent cleanup 2") })
		return struct{}{}
	}, Detached())

	parent.Dispose()

	want := []string{
		"child effect cleanup",
		"child cleanup",
		"parent effect cleanup",
		"parent cleanup 1",
		"parent cleanup 2",
	}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestScopeDisposeStopsEffects(t *testing.T) {
	s := NewSignal(0)

	runs := 0
	_, scope := CreateScope(func() struct{} {
		CreateEffect(func() Cleanup {
			runs++
			_ = s.Get()
			return nil
		})
		return struct{}{}
	}, Detached())

	s.Set(1)
	if runs != 2 {
		t.Fatalf("expected 2 runs before disposal, got %d", runs)
	}

	scope.Dispose()
	s.Set(2)
	if runs != 2 {
		t.Errorf("expected no runs after disposal, got %d", runs)
	}
}

func TestScopeDisposeIdempotent(t *testing.T) {
	cleanups := 0
	_, scope := CreateScope(func() struct{} {
		OnCleanup(func() { cleanups++ })
		return struct{}{}
	}, Detached())

	scope.Dispose()
	scope.Dispose()

	if cleanups != 1 {
		t.Errorf("expected cleanup to run once, got %d", cleanups)
	}
	if !scope.IsDisposed() {
		t.Error("expected disposed scope")
	}
}

func TestScopeOnCleanupAfterDisposeRunsImmediately(t *testing.T) {
	_, scope := CreateScope(func() struct{} { return struct{}{} }, Detached())
	scope.Dispose()

	ran := false
	scope.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("expected cleanup on disposed scope to run immediately")
	}
}

func TestOnCleanupOutsideScopeIsDropped(t *testing.T) {
	// Misuse: no active scope. Must warn and not crash.
	OnCleanup(func() {})
}

func TestDetachedScopeSurvivesParentDisposal(t *testing.T) {
	_, outer := CreateScope(func() struct{} { return struct{}{} }, Detached())

	var free *Scope
	outer.Run(func() {
		_, free = CreateScope(func() struct{} { return struct{}{} }, Detached())
	})

	outer.Dispose()
	if free.IsDisposed() {
		t.Error("expected detached scope to survive")
	}
	free.Dispose()
}

func TestScopeDisposeUnlinksFromParent(t *testing.T) {
	_, parent := CreateScope(func() struct{} { return struct{}{} }, Detached())
	defer parent.Dispose()

	var child *Scope
	parent.Run(func() {
		_, child = CreateScope(func() struct{} { return struct{}{} })
	})

	child.Dispose()
	if child.Parent() != nil {
		t.Error("expected disposed child to unlink from parent")
	}

	// Parent disposal after the child is gone must not double-dispose.
	parent.Dispose()
}

func TestScopeRunCreatesNodesInScope(t *testing.T) {
	_, scope := CreateScope(func() struct{} { return struct{}{} }, Detached())

	var s *Signal[int]
	runs := 0
	scope.Run(func() {
		s = NewSignal(0)
		CreateEffect(func() Cleanup {
			runs++
			_ = s.Get()
			return nil
		})
	})

	scope.Dispose()
	s.Set(1)
	if runs != 1 {
		t.Errorf("expected nodes created via Run to die with the scope, got %d runs", runs)
	}
}

func TestScopeName(t *testing.T) {
	_, scope := CreateScope(func() struct{} { return struct{}{} }, ScopeName("session"), Detached())
	defer scope.Dispose()

	if scope.Name() != "session" {
		t.Errorf("expected name %q, got %q", "session", scope.Name())
	}
}
