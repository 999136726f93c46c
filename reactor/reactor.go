// Package reactor turns application lifecycle transitions into app-open ad
// shows. It watches for background→foreground transitions and shows the
// cached app-open ad, subject to a per-session cap and a minimum gap that
// keeps a dismiss-triggered foreground re-entry from looping into another
// immediate show.
package reactor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/faizahmaddae/ad-flow/pkg/observer"
	"github.com/faizahmaddae/ad-flow/sdk"
	"github.com/faizahmaddae/ad-flow/slot"
)

// DefaultMinGap is the minimum time between two automatic show attempts.
const DefaultMinGap = 10 * time.Second

// Lifecycle is one application lifecycle state.
type Lifecycle string

const (
	LifecycleForeground Lifecycle = "foreground"
	LifecycleBackground Lifecycle = "background"
	LifecycleInactive   Lifecycle = "inactive"
)

// Notifier is the host-facing lifecycle source. The embedding application
// calls Foreground/Background/Inactive from its platform callbacks; the
// reactor subscribes once and reacts.
type Notifier struct {
	hub *observer.Hub[Lifecycle]
}

// NewNotifier constructs an empty lifecycle source.
func NewNotifier() *Notifier {
	return &Notifier{hub: observer.New[Lifecycle]()}
}

// Foreground signals that the application entered the foreground.
func (n *Notifier) Foreground() { n.hub.Publish(LifecycleForeground) }

// Background signals that the application entered the background.
func (n *Notifier) Background() { n.hub.Publish(LifecycleBackground) }

// Inactive signals a transient inactive state (e.g. system dialog overlay).
func (n *Notifier) Inactive() { n.hub.Publish(LifecycleInactive) }

// Subscribe registers fn for lifecycle transitions.
func (n *Notifier) Subscribe(fn func(Lifecycle)) *observer.Subscription {
	return n.hub.Subscribe(fn)
}

// AppOpenSlot is the slice of the app-open controller the reactor drives.
type AppOpenSlot interface {
	Phase() slot.Phase
	Load(ctx context.Context, opts ...slot.LoadOption) error
	Show(ctx context.Context, opts ...slot.ShowOption) (sdk.ShowResult, error)
}

// Reactor shows the app-open ad on background→foreground transitions.
type Reactor struct {
	slot   AppOpenSlot
	clock  clockwork.Clock
	logger *slog.Logger

	maxShows int
	minGap   time.Duration

	mu              sync.Mutex
	wasInBackground bool
	paused          bool
	sessionShows    int
	lastAttemptAt   time.Time
	sub             *observer.Subscription
}

// Option configures the Reactor.
type Option func(*Reactor)

// WithMaxShowsPerSession caps automatic shows per session; zero means
// unlimited.
func WithMaxShowsPerSession(n int) Option {
	return func(r *Reactor) {
		if n >= 0 {
			r.maxShows = n
		}
	}
}

// WithMinGap overrides the minimum time between automatic show attempts.
func WithMinGap(d time.Duration) Option {
	return func(r *Reactor) {
		if d > 0 {
			r.minGap = d
		}
	}
}

// WithClock injects the clock driving the gap check.
func WithClock(clock clockwork.Clock) Option {
	return func(r *Reactor) { r.clock = clock }
}

// WithLogger sets the logger instance.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reactor) { r.logger = logger }
}

// New constructs a reactor over the app-open slot.
func New(s AppOpenSlot, opts ...Option) *Reactor {
	r := &Reactor{
		slot:   s,
		clock:  clockwork.NewRealClock(),
		minGap: DefaultMinGap,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Attach subscribes the reactor to the notifier. Attaching a second time
// replaces the previous subscription.
func (r *Reactor) Attach(n *Notifier) {
	r.mu.Lock()
	old := r.sub
	r.mu.Unlock()
	old.Cancel()

	sub := n.Subscribe(r.onLifecycle)
	r.mu.Lock()
	r.sub = sub
	r.mu.Unlock()
}

// Close unsubscribes from the notifier. The reactor can be re-attached.
func (r *Reactor) Close() {
	r.mu.Lock()
	sub := r.sub
	r.sub = nil
	r.mu.Unlock()
	sub.Cancel()
}

// Pause suppresses automatic shows without detaching, e.g. during a
// purchase flow whose payment sheet briefly backgrounds the app.
func (r *Reactor) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
}

// Resume re-enables automatic shows.
func (r *Reactor) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
}

// ResetSession zeroes the per-session show counter.
func (r *Reactor) ResetSession() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionShows = 0
}

// SessionShows reports how many automatic shows this session consumed.
func (r *Reactor) SessionShows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionShows
}

func (r *Reactor) onLifecycle(l Lifecycle) {
	switch l {
	case LifecycleBackground:
		r.mu.Lock()
		r.wasInBackground = true
		r.mu.Unlock()
	case LifecycleForeground:
		r.onForeground()
	case LifecycleInactive:
		// Transient; not a background visit.
	}
}

// onForeground fires the show attempt only on a genuine
// background→foreground transition.
func (r *Reactor) onForeground() {
	r.mu.Lock()
	if !r.wasInBackground {
		r.mu.Unlock()
		return
	}
	r.wasInBackground = false
	if r.paused {
		r.mu.Unlock()
		return
	}

	if r.slot.Phase() == slot.PhaseShowing {
		r.mu.Unlock()
		return
	}
	if r.slot.Phase() != slot.PhaseReady {
		r.mu.Unlock()
		// Nothing cached: warm the slot for the next foreground instead.
		go func() {
			_ = r.slot.Load(context.Background())
		}()
		return
	}

	now := r.clock.Now()
	if !r.lastAttemptAt.IsZero() && now.Sub(r.lastAttemptAt) < r.minGap {
		r.mu.Unlock()
		return
	}
	if r.maxShows > 0 && r.sessionShows >= r.maxShows {
		r.mu.Unlock()
		return
	}
	// Count the attempt up front so racing transitions cannot overshoot the
	// cap; an immediate show failure refunds it below.
	r.sessionShows++
	r.lastAttemptAt = now
	r.mu.Unlock()

	go func() {
		if _, err := r.slot.Show(context.Background()); err != nil {
			if r.logger != nil {
				r.logger.Warn("app-open auto show failed", "error", err)
			}
			r.mu.Lock()
			r.sessionShows--
			r.mu.Unlock()
		}
	}()
}
