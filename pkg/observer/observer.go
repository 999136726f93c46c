// Package observer provides a typed publish/subscribe hub with explicit
// unsubscribe handles. It replaces ad-hoc callback lists so that listener
// lifetimes are visible and "replay the current value on subscribe" is an
// explicit contract instead of a side effect.
package observer

import "sync"

// Hub fans values out to registered subscribers. Delivery is synchronous:
// Publish invokes every live subscriber's function before returning, outside
// the hub lock, so subscribers may cancel themselves or register others.
//
// Replay hubs additionally deliver the most recent value (or the seed) to
// each new subscriber at Subscribe time. Owners that need a strict ordering
// between replay and publish must serialize their own state transitions;
// the hub only guarantees per-subscriber ordering of Publish calls.
type Hub[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]func(T)
	nextID uint64
	closed bool

	replay  bool
	last    T
	hasLast bool
}

// New constructs a hub without replay semantics.
func New[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[uint64]func(T))}
}

// NewReplay constructs a hub that replays the latest value to new
// subscribers, seeded with initial.
func NewReplay[T any](initial T) *Hub[T] {
	return &Hub[T]{
		subs:    make(map[uint64]func(T)),
		replay:  true,
		last:    initial,
		hasLast: true,
	}
}

// Subscription is the cancellation handle returned by Subscribe.
type Subscription struct {
	cancel func()
	once   sync.Once
}

// Cancel removes the subscriber. Calling it more than once is a no-op.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Subscribe registers fn and returns its cancellation handle. On a replay
// hub fn is invoked immediately with the latest value, exactly once, before
// Subscribe returns.
func (h *Hub[T]) Subscribe(fn func(T)) *Subscription {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return &Subscription{cancel: func() {}}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	replayValue := h.last
	doReplay := h.replay && h.hasLast
	h.mu.Unlock()

	if doReplay {
		fn(replayValue)
	}

	return &Subscription{cancel: func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}}
}

// Publish delivers v to every live subscriber and records it as the replayed
// value on replay hubs. Publishing on a closed hub is a no-op.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	if h.replay {
		h.last = v
		h.hasLast = true
	}
	fns := make([]func(T), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of live subscribers.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Reset drops every subscriber but keeps the hub usable. Replay hubs keep
// their latest value.
func (h *Hub[T]) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs = make(map[uint64]func(T))
}

// Close drops every subscriber and rejects future ones. Publish becomes a
// no-op. Close is idempotent.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.subs = make(map[uint64]func(T))
}
