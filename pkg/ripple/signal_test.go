package ripple

import "testing"

func TestSignalGetSet(t *testing.T) {
	count := NewSignal(42)

	if count.Get() != 42 {
		t.Errorf("expected initial value 42, got %d", count.Get())
	}

	count.Set(100)
	if count.Get() != 100 {
		t.Errorf("expected 100 after Set, got %d", count.Get())
	}
}

func TestSignalVersionBumpsOnlyOnChange(t *testing.T) {
	s := NewSignal("a")
	if s.Version() != 0 {
		t.Fatalf("expected version 0, got %d", s.Version())
	}

	s.Set("b")
	if s.Version() != 1 {
		t.Errorf("expected version 1 after change, got %d", s.Version())
	}

	// Same value: no-op, no version bump.
	s.Set("b")
	if s.Version() != 1 {
		t.Errorf("expected version 1 after no-op write, got %d", s.Version())
	}
}

func TestSignalEqualWriteDoesNotNotify(t *testing.T) {
	s := NewSignal(5)

	runs := 0
	eff := CreateEffect(func() Cleanup {
		runs++
		_ = s.Get()
		return nil
	})
	defer eff.Dispose()

	if runs != 1 {
		t.Fatalf("expected 1 initial run, got %d", runs)
	}

	s.Set(5)
	if runs != 1 {
		t.Errorf("expected no re-run on equal write, got %d runs", runs)
	}

	s.Set(6)
	if runs != 2 {
		t.Errorf("expected re-run on change, got %d runs", runs)
	}
}

func TestSignalUpdate(t *testing.T) {
	s := NewSignal(10)
	s.Update(func(v int) int { return v * 2 })
	if s.Get() != 20 {
		t.Errorf("expected 20, got %d", s.Get())
	}
}

func TestSignalUpdateDoesNotTrack(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(10)

	runs := 0
	eff := CreateEffect(func() Cleanup {
		runs++
		// Update reads b via Peek internally; no edge to b should form.
		b.Update(func(v int) int { return v })
		_ = a.Get()
		return nil
	})
	defer eff.Dispose()

	b.Set(20)
	if runs != 1 {
		t.Errorf("expected no re-run from untracked read, got %d runs", runs)
	}
}

func TestSignalPeekDoesNotTrack(t *testing.T) {
	tracked := NewSignal(1)
	peeked := NewSignal(1)

	runs := 0
	eff := CreateEffect(func() Cleanup {
		runs++
		_ = tracked.Get()
		_ = peeked.Peek()
		return nil
	})
	defer eff.Dispose()

	peeked.Set(2)
	if runs != 1 {
		t.Errorf("expected 1 run after peeked write, got %d", runs)
	}

	tracked.Set(2)
	if runs != 2 {
		t.Errorf("expected 2 runs after tracked write, got %d", runs)
	}
}

func TestSignalWithEquals(t *testing.T) {
	type point struct{ X, Y int }

	// Treat points on the same horizontal line as equal.
	pos := NewSignal(point{0, 0}).WithEquals(func(a, b point) bool {
		return a.Y == b.Y
	})

	pos.Set(point{5, 0})
	if pos.Version() != 0 {
		t.Errorf("expected custom equality to suppress the write, version %d", pos.Version())
	}

	pos.Set(point{5, 1})
	if pos.Version() != 1 {
		t.Errorf("expected write to land, version %d", pos.Version())
	}
}

func TestSignalDisposedReadReturnsLastValue(t *testing.T) {
	s := NewSignal(7)
	s.Dispose()

	if s.Get() != 7 {
		t.Errorf("expected last value 7 after dispose, got %d", s.Get())
	}
}

func TestSignalDisposedWriteIsNoOp(t *testing.T) {
	s := NewSignal(1)
	s.Dispose()

	s.Set(2)
	if s.Peek() != 1 {
		t.Errorf("expected write to disposed signal to be dropped, got %d", s.Peek())
	}
}

func TestSignalDisposeDetachesObservers(t *testing.T) {
	s := NewSignal(1)

	runs := 0
	eff := CreateEffect(func() Cleanup {
		runs++
		_ = s.Get()
		return nil
	})
	defer eff.Dispose()

	s.Dispose()
	s.Set(2)
	if runs != 1 {
		t.Errorf("expected no re-run after source disposal, got %d runs", runs)
	}
}

func TestSignalName(t *testing.T) {
	s := NewSignal(0, WithName("frame"))
	if s.Name() != "frame" {
		t.Errorf("expected name %q, got %q", "frame", s.Name())
	}
}
