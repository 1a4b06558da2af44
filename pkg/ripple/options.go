package ripple

// Option configures a signal, memo, or effect at creation.
type Option func(*nodeOptions)

type nodeOptions struct {
	name string
}

// WithName sets a diagnostic name for the node. Names appear in warnings,
// instrumentation labels, and graph snapshots.
func WithName(name string) Option {
	return func(o *nodeOptions) { o.name = name }
}

func applyOptions(opts []Option) nodeOptions {
	var o nodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
