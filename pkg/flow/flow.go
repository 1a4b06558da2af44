// Package flow provides mounting helpers built purely on the ripple
// runtime's public surface: a keyed list reconciler, a conditional
// visibility helper, and a variant switch. Each mounted branch lives in
// its own nested scope, so unmounting is a scope disposal and nothing
// else. The helpers own no reactive-graph internals.
package flow

import "github.com/ripple-dev/ripple/pkg/ripple"

// ForEach reconciles a reactive slice by key. Each item mounts once in
// its own scope; when the slice changes, scopes for removed keys are
// disposed, scopes for surviving keys are kept untouched, and new keys
// are mounted. The enclosing scope's disposal unmounts everything.
func ForEach[T any, K comparable](items ripple.Accessor[[]T], key func(T) K, mount func(T)) *ripple.Effect {
	mounted := make(map[K]*ripple.Scope)

	ripple.OnCleanup(func() {
		for _, sc := range mounted {
			sc.Dispose()
		}
	})

	return ripple.CreateEffect(func() ripple.Cleanup {
		next := items.Get()

		seen := make(map[K]bool, len(next))
		for _, item := range next {
			k := key(item)
			if seen[k] {
				continue
			}
			seen[k] = true
			if _, ok := mounted[k]; ok {
				continue
			}
			item := item
			_, sc := ripple.CreateScope(func() struct{} {
				mount(item)
				return struct{}{}
			})
			mounted[k] = sc
		}

		for k, sc := range mounted {
			if !seen[k] {
				sc.Dispose()
				delete(mounted, k)
			}
		}
		return nil
	})
}

// Show mounts content while the condition holds and unmounts it (by
// disposing its scope) when the condition drops.
func Show(when ripple.Accessor[bool], mount func()) *ripple.Effect {
	var current *ripple.Scope

	ripple.OnCleanup(func() {
		if current != nil {
			current.Dispose()
			current = nil
		}
	})

	return ripple.CreateEffect(func() ripple.Cleanup {
		visible := when.Get()
		switch {
		case visible && current == nil:
			_, sc := ripple.CreateScope(func() struct{} {
				mount()
				return struct{}{}
			})
			current = sc
		case !visible && current != nil:
			current.Dispose()
			current = nil
		}
		return nil
	})
}

// Switch mounts exactly one branch keyed by the accessor's current value.
// Changing the key disposes the old branch's scope before mounting the
// new one. Keys with no branch mount nothing.
func Switch[K comparable](key ripple.Accessor[K], branches map[K]func()) *ripple.Effect {
	var (
		current   *ripple.Scope
		currentOK bool
		lastKey   K
	)

	ripple.OnCleanup(func() {
		if current != nil {
			current.Dispose()
			current = nil
		}
	})

	return ripple.CreateEffect(func() ripple.Cleanup {
		k := key.Get()
		if currentOK && k == lastKey {
			return nil
		}
		if current != nil {
			current.Dispose()
			current = nil
		}
		lastKey = k
		currentOK = true
		if mount, ok := branches[k]; ok {
			_, sc := ripple.CreateScope(func() struct{} {
				mount()
				return struct{}{}
			})
			current = sc
		}
		return nil
	})
}
