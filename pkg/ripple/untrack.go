package ripple

// Untrack runs fn with no active observer, so reads inside it do not
// create dependency edges, and returns fn's result.
//
// Example:
//
//	CreateEffect(func() Cleanup {
//	    total := count.Get() // tracked
//	    base := Untrack(func() int { return offset.Get() }) // not tracked
//	    log(total + base)
//	    return nil
//	})
func Untrack[T any](fn func() T) T {
	sc := ambientScope()
	prev := sc.activeObserver
	sc.activeObserver = nil
	defer func() { sc.activeObserver = prev }()
	return fn()
}

// Untracked is Untrack for functions with no return value.
func Untracked(fn func()) {
	Untrack(func() struct{} {
		fn()
		return struct{}{}
	})
}
