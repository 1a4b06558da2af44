package ripple

// Context is a scope-tree-wide keyed value lookup layered on top of
// signals. A provider installs a signal on the current scope; descendants
// resolve the nearest provided signal by walking toward the root, falling
// back to the context's default.
type Context[T any] struct {
	id  uint64
	def T

	// defSig is the lazily created fallback signal, shared by every
	// consumer that resolves no provider.
	defSig *Signal[T]
}

// CreateContext creates a context with a default value used when no
// provider is in scope.
func CreateContext[T any](def T) *Context[T] {
	return &Context[T]{id: nextID(), def: def}
}

// ID returns the context's unique key.
func (c *Context[T]) ID() uint64 { return c.id }

// Provider installs value on the current scope for the duration of that
// scope's lifetime and runs fn. Reads through UseContext inside fn (and in
// anything else the scope hosts) resolve to the provided signal.
func (c *Context[T]) Provider(value T, fn func()) {
	sig := NewSignal(value)
	ambientScope().setContext(c.id, sig)
	fn()
}

// ProviderSignal is Provider for an existing signal, letting several
// scopes share one provided cell.
func (c *Context[T]) ProviderSignal(sig *Signal[T], fn func()) {
	ambientScope().setContext(c.id, sig)
	fn()
}

// DeferredProvider installs value on the current scope without running
// anything, for hosts that mount children later. The returned signal is
// the provided cell; writing it updates every consumer.
func (c *Context[T]) DeferredProvider(value T) *Signal[T] {
	sig := NewSignal(value)
	ambientScope().setContext(c.id, sig)
	return sig
}

// UseContext resolves the nearest provided signal for c, or a shared
// signal holding the context's default when nothing provides it.
func UseContext[T any](c *Context[T]) *Signal[T] {
	if v, ok := ambientScope().lookupContext(c.id); ok {
		if sig, ok := v.(*Signal[T]); ok {
			return sig
		}
	}
	if c.defSig == nil {
		Untracked(func() {
			prev := setCurrentScope(nil)
			c.defSig = NewSignal(c.def)
			setCurrentScope(prev)
		})
	}
	return c.defSig
}

// ContextSelector derives a memo from the resolved context signal, so
// consumers re-run only when the selected projection changes.
func ContextSelector[T, U any](c *Context[T], sel func(T) U, opts ...Option) *Memo[U] {
	sig := UseContext(c)
	return NewMemo(func() U { return sel(sig.Get()) }, opts...)
}
