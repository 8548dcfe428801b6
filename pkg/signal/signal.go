// Package signal implements the reactive primitives behind NebulaUI widget
// state: mutable [Signal] cells with ordered subscriber fan-out, batched
// update coalescing, lazily cached [Memo] values with automatic dependency
// invalidation, and re-running [Effect] computations.
//
// The engine is cooperative and single-threaded per goroutine. Every
// goroutine owns an independent [Runtime]; signals must stay on the goroutine
// that created them. There is no locking, no suspension, and no error path:
// the signal API is infallible by design.
package signal

import "sync/atomic"

// nextID assigns process-unique identities to signals, memos, and effects.
var nextID atomic.Uint64

// subscriber pairs a callback with its token so removal preserves the FIFO
// order of the remaining callbacks.
type subscriber[T any] struct {
	token int
	fn    func(T)
}

// watcher is an internal invalidation hook attached by memos and effects.
type watcher struct {
	token int
	fn    func()
}

// cell is the shared backing store for a signal. All copies of a Signal
// handle alias the same cell; the last handle dropped frees it with the
// garbage collector, so there is no explicit teardown.
type cell[T any] struct {
	id        uint64
	value     T
	subs      []subscriber[T]
	nextToken int
	watchers  []watcher
	nextWatch int
}

func (c *cell[T]) signalID() uint64 {
	return c.id
}

func (c *cell[T]) addWatcher(fn func()) int {
	c.nextWatch++
	c.watchers = append(c.watchers, watcher{token: c.nextWatch, fn: fn})
	return c.nextWatch
}

func (c *cell[T]) removeWatcher(token int) {
	for i, w := range c.watchers {
		if w.token == token {
			c.watchers = append(c.watchers[:i], c.watchers[i+1:]...)
			return
		}
	}
}

// broadcast delivers the current value to every subscriber in subscription
// order. The list is cloned first so subscribing from inside a callback does
// not disturb the iteration.
func (c *cell[T]) broadcast() {
	if len(c.subs) == 0 {
		return
	}
	v := c.value
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	for _, sub := range subs {
		sub.fn(v)
	}
}

// notifyWatchers fires the invalidation hooks. These run at write time even
// inside a batch; marking a memo dirty is idempotent, and effects defer
// their own re-runs through the runtime queue.
func (c *cell[T]) notifyWatchers() {
	if len(c.watchers) == 0 {
		return
	}
	watchers := make([]watcher, len(c.watchers))
	copy(watchers, c.watchers)
	for _, w := range watchers {
		w.fn()
	}
}

// Signal is a handle to a single mutable reactive value.
//
// Copies of a Signal share the same underlying cell, so any copy observes
// writes through any other. The value must only ever be mutated through Set
// or Update; handing out interior pointers defeats the notification contract.
type Signal[T any] struct {
	c *cell[T]
}

// Subscription identifies a subscriber for later removal.
type Subscription struct {
	token int
}

// New creates a signal holding the initial value and assigns it a fresh
// process-unique identity. It never fails.
func New[T any](initial T) *Signal[T] {
	return &Signal[T]{c: &cell[T]{id: nextID.Add(1), value: initial}}
}

// ID returns the signal's process-unique identity. Identities are assigned
// at construction and never change.
func (s *Signal[T]) ID() uint64 {
	return s.c.id
}

// Get returns a copy of the current value. If a tracking scope is active on
// the calling goroutine (a memo or effect computation), the read is recorded
// as a dependency. Get never fails.
func (s *Signal[T]) Get() T {
	runtimeForCaller().recordRead(s.c)
	return s.c.value
}

// Peek returns the current value without recording a dependency.
func (s *Signal[T]) Peek() T {
	return s.c.value
}

// Set replaces the value. Inside a batch the signal is marked dirty and the
// notification is deferred: no matter how many times the signal is set, its
// subscribers see exactly one notification carrying the final value when the
// outermost batch exits. Outside a batch, subscribers are notified
// synchronously in subscription order.
func (s *Signal[T]) Set(v T) {
	s.c.value = v
	s.c.notifyWatchers()
	rt := runtimeForCaller()
	if rt.batching() {
		rt.enqueue(s.c.id, s.c.broadcast)
		return
	}
	s.c.broadcast()
}

// Update reads the current value, applies f, and stores the result via Set.
// It is not atomic with respect to other writers; the engine assumes a
// single mutating goroutine.
func (s *Signal[T]) Update(f func(T) T) {
	s.Set(f(s.c.value))
}

// Subscribe appends a callback invoked with each new value. Callbacks fire
// in subscription order. The returned Subscription can be passed to
// Unsubscribe; subscriptions otherwise live as long as the cell.
func (s *Signal[T]) Subscribe(fn func(T)) Subscription {
	s.c.nextToken++
	s.c.subs = append(s.c.subs, subscriber[T]{token: s.c.nextToken, fn: fn})
	return Subscription{token: s.c.nextToken}
}

// Unsubscribe removes a previously added callback. Removing a subscription
// twice is a no-op.
func (s *Signal[T]) Unsubscribe(sub Subscription) {
	for i, entry := range s.c.subs {
		if entry.token == sub.token {
			s.c.subs = append(s.c.subs[:i], s.c.subs[i+1:]...)
			return
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (s *Signal[T]) SubscriberCount() int {
	return len(s.c.subs)
}
