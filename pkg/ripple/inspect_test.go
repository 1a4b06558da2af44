package ripple

import (
	"encoding/json"
	"testing"
)

func findNode(s ScopeSnapshot, name string) (NodeSnapshot, bool) {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	for _, child := range s.Children {
		if n, ok := findNode(child, name); ok {
			return n, true
		}
	}
	return NodeSnapshot{}, false
}

func TestSnapshotScope(t *testing.T) {
	var (
		sig *Signal[int]
	)
	_, scope := CreateScope(func() struct{} {
		sig = NewSignal(1, WithName("input"))
		m := NewMemo(func() int { return sig.Get() * 2 }, WithName("doubled"))
		CreateEffect(func() Cleanup {
			_ = m.Get()
			return nil
		}, WithName("watcher"))
		return struct{}{}
	}, ScopeName("stage"), Detached())
	defer scope.Dispose()

	snap := SnapshotScope(scope)

	if snap.Root.Name != "stage" {
		t.Errorf("expected root scope name stage, got %q", snap.Root.Name)
	}
	if len(snap.Root.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(snap.Root.Nodes))
	}

	input, ok := findNode(snap.Root, "input")
	if !ok {
		t.Fatal("missing input node")
	}
	if input.Kind != "signal" {
		t.Errorf("expected kind signal, got %q", input.Kind)
	}
	if len(input.Observers) != 1 {
		t.Errorf("expected 1 observer on input, got %d", len(input.Observers))
	}

	doubled, ok := findNode(snap.Root, "doubled")
	if !ok {
		t.Fatal("missing doubled node")
	}
	if doubled.Kind != "memo" {
		t.Errorf("expected kind memo, got %q", doubled.Kind)
	}
	if len(doubled.Sources) != 1 || len(doubled.Observers) != 1 {
		t.Errorf("expected memo wired both ways, got %d sources %d observers",
			len(doubled.Sources), len(doubled.Observers))
	}

	watcher, ok := findNode(snap.Root, "watcher")
	if !ok {
		t.Fatal("missing watcher node")
	}
	if watcher.Kind != "effect" {
		t.Errorf("expected kind effect, got %q", watcher.Kind)
	}
}

func TestSnapshotSeenVersionTracksReads(t *testing.T) {
	var sig *Signal[int]
	_, scope := CreateScope(func() struct{} {
		sig = NewSignal(0, WithName("src"))
		NewMemo(func() int { return sig.Get() }, WithName("copy"))
		return struct{}{}
	}, Detached())
	defer scope.Dispose()

	sig.Set(1)
	sig.Set(2)

	// The memo has not been re-read: its edge still records the version
	// seen at the last computation, now behind the live one.
	snap := SnapshotScope(scope)
	cp, ok := findNode(snap.Root, "copy")
	if !ok {
		t.Fatal("missing copy node")
	}
	if len(cp.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(cp.Sources))
	}
	if cp.Sources[0].SeenVersion != 0 {
		t.Errorf("expected seen version 0, got %d", cp.Sources[0].SeenVersion)
	}
	if !cp.Dirty {
		t.Error("expected stale memo marked dirty")
	}
}

func TestSnapshotNestedScopes(t *testing.T) {
	_, parent := CreateScope(func() struct{} {
		NewSignal(1, WithName("outer"))
		CreateScope(func() struct{} {
			NewSignal(2, WithName("inner"))
			return struct{}{}
		}, ScopeName("nested"))
		return struct{}{}
	}, ScopeName("top"), Detached())
	defer parent.Dispose()

	snap := SnapshotScope(parent)
	if len(snap.Root.Children) != 1 {
		t.Fatalf("expected 1 child scope, got %d", len(snap.Root.Children))
	}
	child := snap.Root.Children[0]
	if child.Name != "nested" || child.Depth != snap.Root.Depth+1 {
		t.Errorf("unexpected child scope %q depth %d", child.Name, child.Depth)
	}
	if _, ok := findNode(child, "inner"); !ok {
		t.Error("missing inner node in child scope")
	}
}

func TestSnapshotRecordsErrors(t *testing.T) {
	var sig *Signal[int]
	_, scope := CreateScope(func() struct{} {
		sig = NewSignal(0)
		m := NewMemo(func() int {
			if sig.Get() > 0 {
				panic("overflow")
			}
			return 0
		}, WithName("fragile"))
		sig.Set(1)
		m.Get()
		return struct{}{}
	}, Detached())
	defer scope.Dispose()

	snap := SnapshotScope(scope)
	fragile, ok := findNode(snap.Root, "fragile")
	if !ok {
		t.Fatal("missing fragile node")
	}
	if fragile.Error == "" {
		t.Error("expected error recorded in snapshot")
	}
}

func TestSnapshotMarshalsToJSON(t *testing.T) {
	_, scope := CreateScope(func() struct{} {
		s := NewSignal(1, WithName("n"))
		NewMemo(func() int { return s.Get() }, WithName("m"))
		return struct{}{}
	}, ScopeName("json"), Detached())
	defer scope.Dispose()

	data, err := json.Marshal(SnapshotScope(scope))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded GraphSnapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Root.Name != "json" {
		t.Errorf("expected scope name to round-trip, got %q", decoded.Root.Name)
	}
	if len(decoded.Root.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(decoded.Root.Nodes))
	}
}
