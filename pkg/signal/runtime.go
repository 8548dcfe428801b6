package signal

import (
	"sync"

	"github.com/petermattis/goid"
)

// Runtime holds the reactive bookkeeping for a single goroutine: the batch
// depth, the queue of deferred notifications, and the stack of dependency
// tracking scopes.
//
// Each goroutine gets its own runtime on first use, so signal state never
// races across goroutines as long as each signal stays on the goroutine that
// created it. That confinement is a documented precondition, not a runtime
// check.
type Runtime struct {
	batchDepth int

	// queued holds the identities already in the flush queue, so a signal
	// written N times in one batch notifies exactly once.
	queued map[uint64]struct{}
	// flushQueue holds one broadcast per distinct dirty signal (and one run
	// per scheduled effect), in first-write order.
	flushQueue []func()

	// scopes is the stack of active dependency tracking scopes.
	scopes []*trackingScope
}

var runtimes sync.Map // goroutine id -> *Runtime

// runtimeForCaller returns the calling goroutine's runtime, creating it on
// first use.
func runtimeForCaller() *Runtime {
	gid := goid.Get()
	if rt, ok := runtimes.Load(gid); ok {
		return rt.(*Runtime)
	}
	rt := &Runtime{}
	runtimes.Store(gid, rt)
	return rt
}

// batching reports whether a batch is active on this runtime.
func (rt *Runtime) batching() bool {
	return rt.batchDepth > 0
}

// enqueue adds a deferred action keyed by identity. Re-enqueueing the same
// identity within one flush cycle is a no-op; the queued action reads current
// state when it finally runs, so the final value wins.
func (rt *Runtime) enqueue(id uint64, action func()) {
	if rt.queued == nil {
		rt.queued = make(map[uint64]struct{})
	}
	if _, exists := rt.queued[id]; exists {
		return
	}
	rt.queued[id] = struct{}{}
	rt.flushQueue = append(rt.flushQueue, action)
}

// batch runs f with deferred notifications. Nested batches flatten into the
// outermost one: a single shared queue, flushed once when the outermost batch
// exits. If f panics, the queue is dropped and the batch state is fully
// unwound, so a failing closure cannot corrupt later, unrelated calls.
func (rt *Runtime) batch(f func()) {
	rt.batchDepth++
	completed := false
	defer func() {
		rt.batchDepth--
		if rt.batchDepth > 0 {
			return
		}
		queue := rt.flushQueue
		rt.flushQueue = nil
		rt.queued = nil
		if !completed {
			return
		}
		for _, action := range queue {
			action()
		}
	}()
	f()
	completed = true
}

// Do runs f as a batch on the calling goroutine's runtime: every Set inside
// f marks its signal dirty instead of notifying, and each distinct dirty
// signal broadcasts its final value exactly once when the outermost batch
// exits.
func Do(f func()) {
	runtimeForCaller().batch(f)
}

// Batch is Do for closures that return a value.
func Batch[R any](f func() R) R {
	var out R
	Do(func() {
		out = f()
	})
	return out
}

// IsBatching reports whether the calling goroutine is inside a batch.
func IsBatching() bool {
	return runtimeForCaller().batching()
}

// observable is the untyped face a signal cell shows to the tracking and
// invalidation machinery.
type observable interface {
	signalID() uint64
	addWatcher(fn func()) int
	removeWatcher(token int)
}

// trackingScope records which signals were read during one computation,
// in read order with duplicates dropped.
type trackingScope struct {
	deps []observable
	seen map[uint64]struct{}
}

func (s *trackingScope) record(obs observable) {
	id := obs.signalID()
	if _, exists := s.seen[id]; exists {
		return
	}
	s.seen[id] = struct{}{}
	s.deps = append(s.deps, obs)
}

// pushScope installs a fresh tracking scope on the runtime's stack.
func (rt *Runtime) pushScope() *trackingScope {
	scope := &trackingScope{seen: make(map[uint64]struct{})}
	rt.scopes = append(rt.scopes, scope)
	return scope
}

// popScope removes the top tracking scope. Callers pair it with pushScope
// via defer so a panicking computation cannot leak a scope.
func (rt *Runtime) popScope() {
	if len(rt.scopes) == 0 {
		return
	}
	rt.scopes = rt.scopes[:len(rt.scopes)-1]
}

// recordRead notes a signal read in the innermost tracking scope, if any.
func (rt *Runtime) recordRead(obs observable) {
	if len(rt.scopes) == 0 {
		return
	}
	rt.scopes[len(rt.scopes)-1].record(obs)
}
