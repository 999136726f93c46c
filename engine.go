// Package adflow is the composition root of the mobile-ads lifecycle
// engine. An Engine owns one slot controller per format, the persisted
// ads-enabled gate, the consent coordinator, the shared failure reporter,
// and the foreground reactor, and sequences them behind a single
// initialization entry point: gate, then consent, then SDK init, then
// preloading.
package adflow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/faizahmaddae/ad-flow/ads"
	"github.com/faizahmaddae/ad-flow/consent"
	consentmetrics "github.com/faizahmaddae/ad-flow/consent/metrics"
	"github.com/faizahmaddae/ad-flow/gate"
	"github.com/faizahmaddae/ad-flow/gate/store"
	"github.com/faizahmaddae/ad-flow/pkg/flowerr"
	"github.com/faizahmaddae/ad-flow/pkg/observer"
	"github.com/faizahmaddae/ad-flow/pkg/tracer"
	"github.com/faizahmaddae/ad-flow/reactor"
	"github.com/faizahmaddae/ad-flow/report"
	"github.com/faizahmaddae/ad-flow/sdk"
	"github.com/faizahmaddae/ad-flow/slot"
	slotmetrics "github.com/faizahmaddae/ad-flow/slot/metrics"
)

// Engine wires the engine's services together and owns their lifetimes.
// Construct with New, call Initialize once, then use the per-format
// controllers directly.
type Engine struct {
	cfg     Config
	network sdk.SDK

	gate        *gate.Gate
	coordinator *consent.Coordinator
	reporter    *report.Reporter
	notifier    *reactor.Notifier
	reactor     *reactor.Reactor
	st          store.Store

	clock          clockwork.Clock
	logger         *slog.Logger
	tracer         tracer.Tracer
	slotMetrics    *slotmetrics.Metrics
	consentMetrics *consentmetrics.Metrics
	authority      consent.TrackingAuthority
	explainer      consent.Explainer

	mu          sync.Mutex
	controllers map[ads.Format]*slot.Controller
	initialized bool
	sdkReady    bool
	gateSub     *observer.Subscription
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the logger shared by every owned service.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock injects the clock shared by every owned service.
func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithTracer sets the tracer shared by every owned service.
func WithTracer(t tracer.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithTrackingAuthority wires the platform tracking-permission surface.
func WithTrackingAuthority(a consent.TrackingAuthority) Option {
	return func(e *Engine) { e.authority = a }
}

// WithExplainer wires explanatory dialogs ahead of the system prompts.
// When set, initialization runs the explainer-augmented consent sequence.
func WithExplainer(ex consent.Explainer) Option {
	return func(e *Engine) { e.explainer = ex }
}

// WithSlotMetrics sets the slot metrics instance.
func WithSlotMetrics(m *slotmetrics.Metrics) Option {
	return func(e *Engine) { e.slotMetrics = m }
}

// WithConsentMetrics sets the consent metrics instance.
func WithConsentMetrics(m *consentmetrics.Metrics) Option {
	return func(e *Engine) { e.consentMetrics = m }
}

// New constructs an engine over the ad network, the consent SDK, and the
// store backing the ads-enabled gate. The engine owns the store and closes
// it on Close.
func New(cfg Config, network sdk.SDK, consentSDK consent.SDK, st store.Store, opts ...Option) (*Engine, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:         cfg,
		network:     network,
		st:          st,
		clock:       clockwork.NewRealClock(),
		tracer:      tracer.NewNoop(),
		controllers: make(map[ads.Format]*slot.Controller),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.reporter = report.New(report.WithLogger(e.logger))
	e.gate = gate.New(st, gate.WithLogger(e.logger))

	coordOpts := []consent.Option{
		consent.WithClock(e.clock),
		consent.WithPromptDelay(cfg.TrackingPromptDelay),
		consent.WithParams(cfg.ConsentParams),
		consent.WithReporter(e.reporter),
		consent.WithLogger(e.logger),
		consent.WithTracer(e.tracer),
	}
	if e.authority != nil {
		coordOpts = append(coordOpts, consent.WithTrackingAuthority(e.authority))
	}
	if e.explainer != nil {
		coordOpts = append(coordOpts, consent.WithExplainer(e.explainer))
	}
	if e.consentMetrics != nil {
		coordOpts = append(coordOpts, consent.WithMetrics(e.consentMetrics))
	}
	e.coordinator = consent.NewCoordinator(consentSDK, coordOpts...)

	e.notifier = reactor.NewNotifier()
	e.reactor = reactor.New(e.AppOpen(),
		reactor.WithMaxShowsPerSession(cfg.ReactorMaxShowsPerSession),
		reactor.WithMinGap(cfg.ReactorMinGap),
		reactor.WithClock(e.clock),
		reactor.WithLogger(e.logger),
	)
	return e, nil
}

// Initialize sequences the session start: read the persisted gate, run the
// consent flow, initialize the ad network, preload the configured formats,
// and arm the foreground reactor. Consent and preload failures do not abort
// the sequence; the first captured error is returned after it completes. A
// cancelled ctx aborts the remaining steps and leaves the engine
// uninitialized so a later call can re-run them.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	var firstErr error
	capture := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := e.gate.Initialize(ctx); err != nil {
		// The gate keeps its default; ads stay enabled for the session.
		if e.logger != nil {
			e.logger.ErrorContext(ctx, "gate initialization failed, using default", "error", err)
		}
		capture(err)
	}
	if !e.gate.Enabled() {
		e.finishInitialize()
		return firstErr
	}

	var consentErr error
	if e.explainer != nil {
		consentErr = e.coordinator.RunWithExplainers(ctx)
	} else {
		consentErr = e.coordinator.Run(ctx)
	}
	if !e.coordinator.Initialized() {
		// The flow aborted before completing (cancelled context); leave the
		// engine uninitialized so a valid context can retry.
		return consentErr
	}
	capture(consentErr)

	if e.coordinator.CanRequestAds() {
		capture(e.initializeSDK(ctx))
	}

	e.mu.Lock()
	ready := e.sdkReady
	e.mu.Unlock()
	if ready {
		capture(e.preload(ctx))
		if e.cfg.ShowAppOpenOnColdStart {
			e.showAppOpenColdStart(ctx)
		}
	}

	e.finishInitialize()
	return firstErr
}

// initializeSDK readies the ad network. Failure is terminal for this
// session's preloading only; it never crashes initialization.
func (e *Engine) initializeSDK(ctx context.Context) error {
	ctx, span := e.tracer.Start(ctx, tracer.SpanSDKInit)
	status, err := e.network.Initialize(ctx)
	span.End(err)
	if err != nil {
		ferr := flowerr.Wrap(err, flowerr.CategoryInitialization, sdk.CodeOf(err), "ad sdk initialization failed")
		e.reporter.Report(ferr)
		return ferr
	}

	e.mu.Lock()
	e.sdkReady = true
	e.mu.Unlock()
	if e.logger != nil {
		e.logger.InfoContext(ctx, "ad sdk initialized", "adapters", len(status))
	}
	return nil
}

func (e *Engine) preload(ctx context.Context) error {
	if len(e.cfg.PreloadFormats) == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range e.cfg.PreloadFormats {
		ctrl := e.Controller(f)
		g.Go(func() error {
			return ctrl.Load(ctx, slot.WithWait())
		})
	}
	return g.Wait()
}

func (e *Engine) showAppOpenColdStart(ctx context.Context) {
	ctrl := e.AppOpen()
	if err := ctrl.Load(ctx, slot.WithWait()); err != nil {
		return
	}
	if _, err := ctrl.Show(ctx); err != nil && e.logger != nil {
		e.logger.DebugContext(ctx, "cold-start app-open show skipped", "error", err)
	}
}

// finishInitialize arms the reactive pieces exactly once.
func (e *Engine) finishInitialize() {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return
	}
	e.initialized = true
	e.mu.Unlock()

	e.reactor.Attach(e.notifier)
	sub := e.gate.Subscribe(func(enabled bool) {
		if !enabled {
			e.disposeControllers()
		}
	})
	e.mu.Lock()
	e.gateSub = sub
	e.mu.Unlock()
}

// Controller returns the slot controller for the format, creating it on
// first use.
func (e *Engine) Controller(f ads.Format) *slot.Controller {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ctrl, ok := e.controllers[f]; ok {
		return ctrl
	}

	var policy slot.Policy
	switch f {
	case ads.FormatInterstitial:
		policy = slot.NewInterstitialPolicy(e.cfg.InterstitialMinInterval)
	case ads.FormatAppOpen:
		policy = slot.NewAppOpenPolicy(e.cfg.AppOpenMaxCacheAge)
	case ads.FormatNative:
		policy = slot.NewNativePolicy()
	case ads.FormatRewarded:
		policy = slot.NewRewardedPolicy()
	default:
		policy = slot.NewBannerPolicy()
	}

	opts := []slot.Option{
		slot.WithGate(e.gate),
		slot.WithConsentGuard(e.coordinator),
		slot.WithReporter(e.reporter),
		slot.WithClock(e.clock),
		slot.WithLogger(e.logger),
		slot.WithTracer(e.tracer),
		slot.WithRetryPolicy(e.cfg.MaxLoadRetries, e.cfg.RetryDelay),
		slot.WithRequestTimeout(e.cfg.RequestTimeout),
		slot.WithKeywords(e.cfg.Keywords),
		slot.WithNonPersonalized(e.cfg.NonPersonalized),
	}
	if e.slotMetrics != nil {
		opts = append(opts, slot.WithMetrics(e.slotMetrics))
	}
	ctrl := slot.NewController(e.network, e.cfg.unitFor(f), policy, opts...)
	e.controllers[f] = ctrl
	return ctrl
}

// Banner returns the banner slot controller.
func (e *Engine) Banner() *slot.Controller { return e.Controller(ads.FormatBanner) }

// Interstitial returns the interstitial slot controller.
func (e *Engine) Interstitial() *slot.Controller { return e.Controller(ads.FormatInterstitial) }

// Rewarded returns the rewarded slot controller.
func (e *Engine) Rewarded() *slot.Controller { return e.Controller(ads.FormatRewarded) }

// AppOpen returns the app-open slot controller.
func (e *Engine) AppOpen() *slot.Controller { return e.Controller(ads.FormatAppOpen) }

// Native returns the native slot controller.
func (e *Engine) Native() *slot.Controller { return e.Controller(ads.FormatNative) }

// EnableAds turns the persisted gate on.
func (e *Engine) EnableAds(ctx context.Context) error { return e.gate.Enable(ctx) }

// DisableAds turns the persisted gate off. Live controllers dispose their
// cached ads via the gate subscription.
func (e *Engine) DisableAds(ctx context.Context) error { return e.gate.Disable(ctx) }

// AdsEnabled reports the gate position.
func (e *Engine) AdsEnabled() bool { return e.gate.Enabled() }

// Initialized reports whether Initialize has completed this session.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// CanRequestAds reports the consent verdict from the last completed flow.
func (e *Engine) CanRequestAds() bool { return e.coordinator.CanRequestAds() }

// PrivacyOptionsRequired reports whether a privacy-options entry point must
// be offered.
func (e *Engine) PrivacyOptionsRequired() bool { return e.coordinator.PrivacyOptionsRequired() }

// ShowPrivacyOptions re-presents the privacy options form.
func (e *Engine) ShowPrivacyOptions(ctx context.Context) error {
	return e.coordinator.ShowPrivacyOptions(ctx)
}

// Reporter exposes the shared failure reporter for host subscriptions.
func (e *Engine) Reporter() *report.Reporter { return e.reporter }

// Notifier exposes the lifecycle source the host feeds from its platform
// callbacks.
func (e *Engine) Notifier() *reactor.Notifier { return e.notifier }

// Reactor exposes the foreground reactor for pause/resume control.
func (e *Engine) Reactor() *reactor.Reactor { return e.reactor }

func (e *Engine) disposeControllers() {
	e.mu.Lock()
	ctrls := make([]*slot.Controller, 0, len(e.controllers))
	for _, c := range e.controllers {
		ctrls = append(ctrls, c)
	}
	e.mu.Unlock()
	for _, c := range ctrls {
		c.Dispose()
	}
}

// Close tears the engine down: the reactor detaches, controllers release
// their cached ads, the reporter closes, and the gate store is closed.
func (e *Engine) Close() error {
	e.reactor.Close()
	e.mu.Lock()
	sub := e.gateSub
	e.gateSub = nil
	e.mu.Unlock()
	sub.Cancel()
	e.disposeControllers()
	e.reporter.Close()
	return e.st.Close()
}
