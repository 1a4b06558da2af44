package ripple

import "testing"

type theme struct {
	Background string
	Foreground string
}

func TestContextDefault(t *testing.T) {
	themeCtx := CreateContext(theme{Background: "white", Foreground: "black"})

	sig := UseContext(themeCtx)
	if sig.Get().Background != "white" {
		t.Errorf("expected default background, got %q", sig.Get().Background)
	}

	// Every unresolved consumer shares the same default cell.
	if UseContext(themeCtx) != sig {
		t.Error("expected shared default signal")
	}
}

func TestContextProvider(t *testing.T) {
	themeCtx := CreateContext(theme{Background: "white"})

	_, scope := CreateScope(func() struct{} {
		themeCtx.Provider(theme{Background: "black"}, func() {
			sig := UseContext(themeCtx)
			if sig.Get().Background != "black" {
				t.Errorf("expected provided value, got %q", sig.Get().Background)
			}
		})
		return struct{}{}
	}, Detached())
	defer scope.Dispose()

	// Outside the providing scope the default applies.
	if UseContext(themeCtx).Get().Background != "white" {
		t.Errorf("expected default outside provider, got %q", UseContext(themeCtx).Get().Background)
	}
}

func TestContextNearestProviderWins(t *testing.T) {
	depthCtx := CreateContext(0)

	var outer, inner int
	_, scope := CreateScope(func() struct{} {
		depthCtx.Provider(1, func() {
			outer = UseContext(depthCtx).Get()
			CreateScope(func() struct{} {
				depthCtx.Provider(2, func() {
					inner = UseContext(depthCtx).Get()
				})
				return struct{}{}
			})
		})
		return struct{}{}
	}, Detached())
	defer scope.Dispose()

	if outer != 1 {
		t.Errorf("expected outer scope to see 1, got %d", outer)
	}
	if inner != 2 {
		t.Errorf("expected inner scope to see 2, got %d", inner)
	}
}

func TestContextProvidedSignalIsReactive(t *testing.T) {
	userCtx := CreateContext("")

	var seen []string
	_, scope := CreateScope(func() struct{} {
		cell := userCtx.DeferredProvider("anonymous")
		CreateEffect(func() Cleanup {
			seen = append(seen, UseContext(userCtx).Get())
			return nil
		})
		cell.Set("alice")
		return struct{}{}
	}, Detached())
	defer scope.Dispose()

	if len(seen) != 2 || seen[0] != "anonymous" || seen[1] != "alice" {
		t.Errorf("expected consumers to track the provided cell, got %v", seen)
	}
}

func TestContextProviderSignalShared(t *testing.T) {
	countCtx := CreateContext(0)
	shared := NewSignal(7)
	defer shared.Dispose()

	var a, b int
	_, s1 := CreateScope(func() struct{} {
		countCtx.ProviderSignal(shared, func() {
			a = UseContext(countCtx).Get()
		})
		return struct{}{}
	}, Detached())
	defer s1.Dispose()

	_, s2 := CreateScope(func() struct{} {
		countCtx.ProviderSignal(shared, func() {
			b = UseContext(countCtx).Get()
		})
		return struct{}{}
	}, Detached())
	defer s2.Dispose()

	if a != 7 || b != 7 {
		t.Errorf("expected both scopes to resolve the shared cell, got %d and %d", a, b)
	}
}

func TestContextSelector(t *testing.T) {
	cfgCtx := CreateContext(theme{Background: "white", Foreground: "black"})

	var bg *Memo[string]
	computations := 0
	_, scope := CreateScope(func() struct{} {
		cell := cfgCtx.DeferredProvider(theme{Background: "red", Foreground: "black"})

		bg = ContextSelector(cfgCtx, func(th theme) string {
			computations++
			return th.Background
		})

		if bg.Get() != "red" {
			t.Errorf("expected red, got %q", bg.Get())
		}

		// A write that leaves the projection unchanged keeps the version.
		v := bg.Version()
		cell.Set(theme{Background: "red", Foreground: "green"})
		if bg.Get() != "red" || bg.Version() != v {
			t.Error("expected unchanged projection to suppress the version bump")
		}

		cell.Set(theme{Background: "blue", Foreground: "green"})
		if bg.Get() != "blue" {
			t.Errorf("expected blue, got %q", bg.Get())
		}
		return struct{}{}
	}, Detached())
	defer scope.Dispose()
}

func TestContextDistinctContextsDistinctKeys(t *testing.T) {
	a := CreateContext(1)
	b := CreateContext(2)

	if a.ID() == b.ID() {
		t.Error("expected distinct context ids")
	}
}
