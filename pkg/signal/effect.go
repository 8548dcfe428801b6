package signal

// Effect runs a function and re-runs it whenever a signal it read changes.
//
// The function executes once immediately on construction. Each run tracks
// its reads, so effects follow branching dependencies the same way memos do.
// Inside a batch, an effect dirtied by several writes re-runs once when the
// batch flushes.
//
// Dispose stops the effect and detaches it from its dependencies; a disposed
// effect never runs again.
type Effect struct {
	id       uint64
	fn       func()
	deps     []observable
	tokens   []int
	disposed bool
	running  bool
}

// NewEffect creates the effect and runs fn once to establish dependencies.
func NewEffect(fn func()) *Effect {
	e := &Effect{id: nextID.Add(1), fn: fn}
	e.run()
	return e
}

func (e *Effect) run() {
	if e.disposed || e.running {
		return
	}
	e.running = true
	defer func() { e.running = false }()

	e.detachWatchers()

	rt := runtimeForCaller()
	scope := rt.pushScope()
	func() {
		defer rt.popScope()
		e.fn()
	}()

	e.deps = scope.deps
	e.tokens = e.tokens[:0]
	for _, dep := range e.deps {
		e.tokens = append(e.tokens, dep.addWatcher(e.schedule))
	}
}

// schedule re-runs the effect, deferring through the runtime queue when a
// batch is active so multiple dirtied dependencies coalesce into one run.
func (e *Effect) schedule() {
	if e.disposed || e.running {
		return
	}
	rt := runtimeForCaller()
	if rt.batching() {
		rt.enqueue(e.id, e.run)
		return
	}
	e.run()
}

// Dispose detaches the effect from all dependencies and prevents any
// further runs. Dispose is idempotent.
func (e *Effect) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.detachWatchers()
	e.tokens = nil
}

// DependencyCount returns the number of distinct signals read during the
// last run.
func (e *Effect) DependencyCount() int {
	return len(e.deps)
}

func (e *Effect) detachWatchers() {
	for i, dep := range e.deps {
		dep.removeWatcher(e.tokens[i])
	}
	e.deps = nil
}
