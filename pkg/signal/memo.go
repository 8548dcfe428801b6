package signal

// Memo is a lazily computed, cached derived value.
//
// The first Get runs the compute function inside a tracking scope, recording
// every signal read as a dependency. The cached value is then returned
// without re-running compute until the cache is invalidated - either
// explicitly via Invalidate, or automatically when any tracked dependency is
// written. Recomputation re-records dependencies from scratch, so a compute
// function with branching reads always watches exactly the signals it last
// touched.
type Memo[T any] struct {
	compute func() T
	value   T
	valid   bool

	deps   []observable
	tokens []int
}

// NewMemo creates a memo with an empty cache. The compute function is not
// invoked until the first Get.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{compute: compute}
}

// Get returns the memoized value, computing it if the cache is empty.
//
// While the cache is valid, Get is idempotent: it returns the cached value
// with no side effects and no dependency tracking re-run.
func (m *Memo[T]) Get() T {
	if m.valid {
		return m.value
	}

	m.detachWatchers()

	rt := runtimeForCaller()
	scope := rt.pushScope()
	func() {
		defer rt.popScope()
		m.value = m.compute()
	}()

	m.deps = scope.deps
	m.tokens = m.tokens[:0]
	for _, dep := range m.deps {
		m.tokens = append(m.tokens, dep.addWatcher(m.Invalidate))
	}
	m.valid = true
	return m.value
}

// Invalidate clears the cache. The recorded dependency list is kept until
// the next Get overwrites it. Invalidating an already-invalid memo is a
// no-op.
func (m *Memo[T]) Invalidate() {
	m.valid = false
}

// Valid reports whether the cache currently holds a value.
func (m *Memo[T]) Valid() bool {
	return m.valid
}

// DependencyCount returns the number of distinct signals read during the
// last computation, or 0 before the first Get.
func (m *Memo[T]) DependencyCount() int {
	return len(m.deps)
}

func (m *Memo[T]) detachWatchers() {
	for i, dep := range m.deps {
		dep.removeWatcher(m.tokens[i])
	}
	m.deps = nil
}
