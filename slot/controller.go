package slot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/faizahmaddae/ad-flow/ads"
	"github.com/faizahmaddae/ad-flow/pkg/flowerr"
	"github.com/faizahmaddae/ad-flow/pkg/observer"
	"github.com/faizahmaddae/ad-flow/pkg/tracer"
	"github.com/faizahmaddae/ad-flow/report"
	"github.com/faizahmaddae/ad-flow/sdk"
	"github.com/faizahmaddae/ad-flow/slot/metrics"
)

// EnabledGate is the slice of the ads gate the controller consults.
type EnabledGate interface {
	Enabled() bool
}

// ConsentGuard is the slice of the consent state the controller consults.
type ConsentGuard interface {
	CanRequestAds() bool
}

// Controller drives one ad slot through its lifecycle. At most one load and
// one show are in flight at any time; a Load arriving while already loading
// never starts a second underlying request.
type Controller struct {
	network sdk.SDK
	unitID  string
	policy  Policy

	gate     EnabledGate
	consent  ConsentGuard
	reporter *report.Reporter
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer

	maxRetries      int
	retryDelay      time.Duration
	timeout         time.Duration
	keywords        []string
	nonPersonalized bool

	mu      sync.Mutex
	state   State
	ad      sdk.Ad
	retry   clockwork.Timer
	current *inflight
	gen     uint64

	hub *observer.Hub[Event]
}

// inflight tracks one underlying load so coalesced callers can await its
// result.
type inflight struct {
	done chan struct{}
	err  error
}

// Option configures the Controller.
type Option func(*Controller)

// WithGate wires the ads on/off switch. A nil or absent gate counts as
// enabled.
func WithGate(g EnabledGate) Option {
	return func(c *Controller) { c.gate = g }
}

// WithConsentGuard wires the consent check. A nil or absent guard counts as
// permitted.
func WithConsentGuard(g ConsentGuard) Option {
	return func(c *Controller) { c.consent = g }
}

// WithReporter wires the shared failure reporter.
func WithReporter(r *report.Reporter) Option {
	return func(c *Controller) { c.reporter = r }
}

// WithClock injects the clock driving expiry, cooldown, and retry timers.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger sets the logger instance.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithMetrics sets the metrics instance.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithTracer sets the tracer instance.
func WithTracer(t tracer.Tracer) Option {
	return func(c *Controller) { c.tracer = t }
}

// WithRetryPolicy overrides the automatic retry schedule. The delay grows
// linearly with the attempt count: attempt n waits n×delay.
func WithRetryPolicy(maxRetries int, delay time.Duration) Option {
	return func(c *Controller) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// WithRequestTimeout overrides the per-request timeout forwarded to the SDK.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithKeywords sets contextual targeting hints forwarded on every request.
func WithKeywords(keywords []string) Option {
	return func(c *Controller) { c.keywords = keywords }
}

// WithNonPersonalized forces non-personalized requests.
func WithNonPersonalized(v bool) Option {
	return func(c *Controller) { c.nonPersonalized = v }
}

// NewController constructs a controller for one ad unit under the given
// policy.
func NewController(network sdk.SDK, unitID string, policy Policy, opts ...Option) *Controller {
	c := &Controller{
		network:    network,
		unitID:     unitID,
		policy:     policy,
		clock:      clockwork.NewRealClock(),
		tracer:     tracer.NewNoop(),
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		timeout:    sdk.DefaultTimeout,
		state:      State{Phase: PhaseIdle},
		hub:        observer.New[Event](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type loadOptions struct {
	formatKey string
	wait      bool
	retry     bool
}

// LoadOption configures one Load call.
type LoadOption func(*loadOptions)

// WithFormatKey requests a specific native layout. A cached ad loaded for a
// different key is discarded and replaced.
func WithFormatKey(key string) LoadOption {
	return func(o *loadOptions) { o.formatKey = key }
}

// WithWait makes a coalesced caller await the in-flight load's result
// instead of returning immediately. The app-open flow uses this so a
// cold-start show can follow the load it piggybacked on.
func WithWait() LoadOption {
	return func(o *loadOptions) { o.wait = true }
}

// Load requests one ad for the slot. When the gate is off or consent denies
// ad requests the call is a policy no-op, not an error. A call arriving
// while a load is already in flight coalesces onto it. A fresh cached ad
// makes the call a no-op; a stale one (expired, or a different native
// layout key) is discarded and replaced.
func (c *Controller) Load(ctx context.Context, opts ...LoadOption) error {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	return c.load(ctx, o)
}

func (c *Controller) load(ctx context.Context, o loadOptions) error {
	if !c.allowed() {
		return nil
	}
	now := c.clock.Now()

	c.mu.Lock()
	switch c.state.Phase {
	case PhaseLoading:
		fl := c.current
		c.mu.Unlock()
		if o.wait && fl != nil {
			select {
			case <-fl.done:
				return fl.err
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	case PhaseShowing:
		c.mu.Unlock()
		return nil
	case PhaseReady:
		if !c.policy.Stale(now, &c.state, o.formatKey) {
			c.mu.Unlock()
			return nil
		}
		c.releaseLocked()
	case PhaseExhausted:
		// An explicit caller retry starts a fresh failure budget; the
		// scheduled-retry path never reaches this phase.
		if !o.retry {
			c.state.LoadAttempts = 0
		}
	}
	c.stopRetryLocked()
	c.state.Phase = PhaseLoading
	c.state.FormatKey = o.formatKey
	c.gen++
	gen := c.gen
	fl := &inflight{done: make(chan struct{})}
	c.current = fl
	c.mu.Unlock()

	err := c.doLoad(ctx, o, gen)

	c.mu.Lock()
	fl.err = err
	if c.current == fl {
		c.current = nil
	}
	c.mu.Unlock()
	close(fl.done)
	return err
}

// doLoad performs the underlying SDK request and folds its result back into
// the state machine. gen detects a Dispose (or takeover) that happened while
// the request was in flight, in which case the result is discarded.
func (c *Controller) doLoad(ctx context.Context, o loadOptions, gen uint64) error {
	format := c.policy.Format()
	req := sdk.Request{
		Format:          format,
		Timeout:         c.timeout,
		Keywords:        c.keywords,
		NonPersonalized: c.nonPersonalized,
		FormatKey:       o.formatKey,
	}

	start := c.clock.Now()
	ctx, span := c.tracer.Start(ctx, tracer.SpanSlotLoad,
		tracer.String(tracer.AttrFormat, format.String()),
		tracer.String(tracer.AttrUnit, c.unitID),
	)
	ad, err := c.network.Load(ctx, c.unitID, req)
	span.End(err)
	now := c.clock.Now()
	if c.metrics != nil {
		c.metrics.ObserveLoadLatency(format.String(), now.Sub(start).Seconds())
	}

	if err == nil {
		c.mu.Lock()
		if c.gen != gen || c.state.Phase != PhaseLoading {
			c.mu.Unlock()
			ad.Dispose()
			return nil
		}
		c.ad = ad
		c.state.Phase = PhaseReady
		c.state.LoadedAt = now
		c.state.LoadAttempts = 0
		c.mu.Unlock()

		if c.logger != nil {
			c.logger.DebugContext(ctx, "ad loaded", "format", format.String(), "unit", c.unitID)
		}
		if c.metrics != nil {
			c.metrics.IncrementLoads(format.String(), "ok")
			c.metrics.SetReady(format.String(), true)
		}
		c.hub.Publish(Event{Format: format, Phase: PhaseReady})
		return nil
	}

	ferr := flowerr.Wrap(err, flowerr.CategoryLoad, sdk.CodeOf(err), "ad load failed").
		WithUnit(c.unitLabel())

	c.mu.Lock()
	if c.gen != gen || c.state.Phase != PhaseLoading {
		c.mu.Unlock()
		return nil
	}
	c.state.LoadAttempts++
	attempts := c.state.LoadAttempts
	exhausted := attempts > c.maxRetries
	if exhausted {
		c.state.Phase = PhaseExhausted
	} else {
		c.state.Phase = PhaseIdle
		c.scheduleRetryLocked(o.formatKey, attempts)
	}
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.WarnContext(ctx, "ad load failed",
			"format", format.String(), "unit", c.unitID,
			"attempt", attempts, "exhausted", exhausted, "error", err,
		)
	}
	if c.metrics != nil {
		c.metrics.IncrementLoads(format.String(), "error")
	}
	if c.reporter != nil {
		c.reporter.Report(ferr)
	}
	if exhausted {
		c.hub.Publish(Event{Format: format, Phase: PhaseExhausted, Err: ferr})
	}
	return ferr
}

// scheduleRetryLocked arms the linear-backoff timer: attempt n retries after
// n×retryDelay. Called with the mutex held.
func (c *Controller) scheduleRetryLocked(formatKey string, attempts int) {
	delay := c.retryDelay * time.Duration(attempts)
	if c.metrics != nil {
		c.metrics.IncrementRetries(c.policy.Format().String())
	}
	c.retry = c.clock.AfterFunc(delay, func() {
		_ = c.load(context.Background(), loadOptions{formatKey: formatKey, retry: true})
	})
}

type showOptions struct {
	ignoreCooldown bool
}

// ShowOption configures one Show call.
type ShowOption func(*showOptions)

// IgnoreCooldown bypasses the interstitial minimum-interval check for this
// call only.
func IgnoreCooldown() ShowOption {
	return func(o *showOptions) { o.ignoreCooldown = true }
}

// Show presents the cached ad. It fails with ErrAdsDisabled when the gate is
// off, ErrNotReady when no showable ad is cached, and ErrCooldownActive on a
// cooldown veto. A stale cached ad is discarded, a replacement load is
// triggered, and a show failure is returned. After any terminal outcome the
// handle is released and a replacement load is triggered automatically, so
// every slot heals itself after use.
func (c *Controller) Show(ctx context.Context, opts ...ShowOption) (sdk.ShowResult, error) {
	var o showOptions
	for _, opt := range opts {
		opt(&o)
	}
	failed := sdk.ShowResult{Outcome: sdk.OutcomeFailed}
	format := c.policy.Format()

	if c.gate != nil && !c.gate.Enabled() {
		return failed, ErrAdsDisabled
	}

	now := c.clock.Now()
	c.mu.Lock()
	if c.state.Phase != PhaseReady {
		c.mu.Unlock()
		return failed, ErrNotReady
	}
	if c.policy.Stale(now, &c.state, c.state.FormatKey) {
		c.releaseLocked()
		c.state.Phase = PhaseIdle
		formatKey := c.state.FormatKey
		c.mu.Unlock()

		ferr := flowerr.New(flowerr.CategoryShow, 0, "cached ad expired before show").
			WithUnit(c.unitLabel())
		if c.metrics != nil {
			c.metrics.IncrementShows(format.String(), "expired")
			c.metrics.SetReady(format.String(), false)
		}
		if c.reporter != nil {
			c.reporter.Report(ferr)
		}
		go func() {
			_ = c.load(context.Background(), loadOptions{formatKey: formatKey})
		}()
		return failed, ferr
	}
	if !o.ignoreCooldown {
		if err := c.policy.CanShow(now, &c.state); err != nil {
			c.mu.Unlock()
			return failed, err
		}
	}
	ad := c.ad
	c.state.Phase = PhaseShowing
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.SetReady(format.String(), false)
	}
	ctx, span := c.tracer.Start(ctx, tracer.SpanSlotShow,
		tracer.String(tracer.AttrFormat, format.String()),
		tracer.String(tracer.AttrUnit, c.unitID),
	)
	res, err := ad.Show(ctx)
	span.SetAttributes(tracer.String(tracer.AttrOutcome, string(res.Outcome)))
	span.End(err)

	now = c.clock.Now()
	c.mu.Lock()
	c.releaseLocked()
	dismissed := err == nil && res.Outcome == sdk.OutcomeDismissed
	if dismissed {
		c.state.LastShownAt = now
	}
	c.state.Phase = PhaseIdle
	formatKey := c.state.FormatKey
	c.mu.Unlock()

	// Self-healing reload: every consumed slot immediately replenishes its
	// cache in the background.
	go func() {
		_ = c.load(context.Background(), loadOptions{formatKey: formatKey})
	}()

	if !dismissed {
		ferr := flowerr.Wrap(err, flowerr.CategoryShow, sdk.CodeOf(err), "ad failed to show").
			WithUnit(c.unitLabel())
		if c.metrics != nil {
			c.metrics.IncrementShows(format.String(), "failed")
		}
		if c.reporter != nil {
			c.reporter.Report(ferr)
		}
		return failed, ferr
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "ad dismissed", "format", format.String(), "unit", c.unitID)
	}
	if c.metrics != nil {
		c.metrics.IncrementShows(format.String(), "dismissed")
	}
	return res, nil
}

// Dispose releases the cached ad if one exists, cancels any pending retry,
// drops every subscriber, and resets the slot to Idle. Safe to call from any
// phase, any number of times.
func (c *Controller) Dispose() {
	c.mu.Lock()
	c.stopRetryLocked()
	c.releaseLocked()
	c.state = State{Phase: PhaseIdle}
	c.mu.Unlock()
	c.hub.Reset()
	if c.metrics != nil {
		c.metrics.SetReady(c.policy.Format().String(), false)
	}
}

// Phase reports the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Phase
}

// Snapshot returns a copy of the slot state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UnitID reports the ad unit this controller serves.
func (c *Controller) UnitID() string { return c.unitID }

// Format reports the ad format this controller serves.
func (c *Controller) Format() ads.Format { return c.policy.Format() }

// Subscribe registers fn for slot events and returns its cancellation
// handle.
func (c *Controller) Subscribe(fn func(Event)) *observer.Subscription {
	return c.hub.Subscribe(fn)
}

func (c *Controller) allowed() bool {
	if c.gate != nil && !c.gate.Enabled() {
		return false
	}
	if c.consent != nil && !c.consent.CanRequestAds() {
		return false
	}
	return true
}

// releaseLocked disposes the owned SDK handle exactly once. Called with the
// mutex held.
func (c *Controller) releaseLocked() {
	if c.ad != nil {
		c.ad.Dispose()
		c.ad = nil
	}
}

// stopRetryLocked cancels a pending retry timer. Called with the mutex held.
func (c *Controller) stopRetryLocked() {
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
}

func (c *Controller) unitLabel() string {
	return c.policy.Format().String() + ":" + c.unitID
}
