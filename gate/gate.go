// Package gate holds the persisted "remove ads" switch. Every load and show
// operation in the engine consults it; a disabled gate short-circuits them
// all. Transitions persist to the store before the in-memory value changes,
// so listeners never observe a state the store does not yet reflect.
package gate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/faizahmaddae/ad-flow/gate/store"
	"github.com/faizahmaddae/ad-flow/pkg/observer"
)

// Key is the store key the enabled flag persists under.
const Key = "ads_enabled"

// Gate is the ads on/off switch. A freshly constructed gate reports enabled
// until Initialize reads the persisted value.
type Gate struct {
	store  store.Store
	logger *slog.Logger

	mu          sync.Mutex
	enabled     bool
	initialized bool

	hub *observer.Hub[bool]
}

// Option configures the Gate.
type Option func(*Gate)

// WithLogger sets the logger instance.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

// New constructs a gate over the given store. The gate does not own the
// store's lifetime; the composition root closes it.
func New(st store.Store, opts ...Option) *Gate {
	g := &Gate{
		store:   st,
		enabled: true,
		hub:     observer.NewReplay(true),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Initialize reads the persisted value once. Calls after a successful
// initialization are no-ops.
func (g *Gate) Initialize(ctx context.Context) error {
	g.mu.Lock()
	if g.initialized {
		g.mu.Unlock()
		return nil
	}

	value, found, err := g.store.GetBool(ctx, Key)
	if err != nil {
		g.mu.Unlock()
		return fmt.Errorf("load ads-enabled flag: %w", err)
	}
	g.initialized = true
	changed := false
	if found && value != g.enabled {
		g.enabled = value
		changed = true
	}
	enabled := g.enabled
	g.mu.Unlock()

	if g.logger != nil {
		g.logger.DebugContext(ctx, "ads gate initialized", "enabled", enabled, "persisted", found)
	}
	if changed {
		g.hub.Publish(enabled)
	}
	return nil
}

// Enabled reports the current switch position.
func (g *Gate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// Initialized reports whether the persisted value has been read.
func (g *Gate) Initialized() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.initialized
}

// Enable turns ads on. No-op when already enabled.
func (g *Gate) Enable(ctx context.Context) error {
	return g.set(ctx, true)
}

// Disable turns ads off. No-op when already disabled.
func (g *Gate) Disable(ctx context.Context) error {
	return g.set(ctx, false)
}

func (g *Gate) set(ctx context.Context, value bool) error {
	g.mu.Lock()
	if g.initialized && g.enabled == value {
		g.mu.Unlock()
		return nil
	}

	// Persist first: a crash after this line leaves store and memory
	// consistent on the next Initialize.
	if err := g.store.SetBool(ctx, Key, value); err != nil {
		g.mu.Unlock()
		return fmt.Errorf("persist ads-enabled flag: %w", err)
	}
	g.enabled = value
	g.initialized = true
	g.mu.Unlock()

	if g.logger != nil {
		g.logger.InfoContext(ctx, "ads gate switched", "enabled", value)
	}
	g.hub.Publish(value)
	return nil
}

// Subscribe registers fn for switch transitions. The current value is
// replayed to fn exactly once before Subscribe returns, so listeners bound
// at different times converge without special-casing their first render.
func (g *Gate) Subscribe(fn func(enabled bool)) *observer.Subscription {
	return g.hub.Subscribe(fn)
}

// Watch returns a channel mirroring the switch. The current value is
// delivered immediately; later transitions replace any undrained value, so
// a slow reader always sees the latest position.
func (g *Gate) Watch() <-chan bool {
	ch := make(chan bool, 1)
	g.hub.Subscribe(func(v bool) {
		for {
			select {
			case ch <- v:
				return
			default:
				select {
				case <-ch:
				default:
				}
			}
		}
	})
	return ch
}

// Reset returns the gate to its uninitialized default-enabled state and
// drops every subscriber. Test-only; the store is left untouched.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.enabled = true
	g.initialized = false
	g.mu.Unlock()
	g.hub.Reset()
	g.hub.Publish(true)
}
