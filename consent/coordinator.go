package consent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/faizahmaddae/ad-flow/consent/metrics"
	"github.com/faizahmaddae/ad-flow/pkg/flowerr"
	"github.com/faizahmaddae/ad-flow/pkg/tracer"
	"github.com/faizahmaddae/ad-flow/report"
)

// DefaultPromptDelay is the fixed pause before the tracking-permission
// prompt, per platform guidance that the prompt should not race the app's
// first frame.
const DefaultPromptDelay = 200 * time.Millisecond

// Coordinator drives the consent flow and owns the process-wide consent
// state. Every step of a run completes before the next begins; two prompts
// are never in flight at once.
type Coordinator struct {
	sdk       SDK
	authority TrackingAuthority
	explainer Explainer
	params    Params

	clock       clockwork.Clock
	promptDelay time.Duration
	reporter    *report.Reporter
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      tracer.Tracer

	// runMu serializes flow runs; mu guards the cached state.
	runMu                  sync.Mutex
	mu                     sync.Mutex
	initialized            bool
	canRequestAds          bool
	privacyOptionsRequired bool
}

// Option configures the Coordinator.
type Option func(*Coordinator)

// WithTrackingAuthority wires the platform tracking-permission surface.
// Without it the tracking step is skipped entirely.
func WithTrackingAuthority(a TrackingAuthority) Option {
	return func(c *Coordinator) { c.authority = a }
}

// WithExplainer wires the explanatory dialogs used by RunWithExplainers.
func WithExplainer(e Explainer) Option {
	return func(c *Coordinator) { c.explainer = e }
}

// WithParams sets the consent-information request settings.
func WithParams(p Params) Option {
	return func(c *Coordinator) { c.params = p }
}

// WithClock injects the clock driving the prompt delay.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Coordinator) { c.clock = clock }
}

// WithPromptDelay overrides the pause before the tracking prompt.
func WithPromptDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.promptDelay = d
		}
	}
}

// WithReporter wires the shared failure reporter.
func WithReporter(r *report.Reporter) Option {
	return func(c *Coordinator) { c.reporter = r }
}

// WithLogger sets the logger instance.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithMetrics sets the metrics instance.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithTracer sets the tracer instance.
func WithTracer(t tracer.Tracer) Option {
	return func(c *Coordinator) { c.tracer = t }
}

// NewCoordinator constructs a coordinator over the given consent SDK.
func NewCoordinator(sdk SDK, opts ...Option) *Coordinator {
	c := &Coordinator{
		sdk:         sdk,
		clock:       clockwork.NewRealClock(),
		promptDelay: DefaultPromptDelay,
		tracer:      tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the standard sequence: tracking prompt (when the authority is
// present and the status is undetermined), consent-information update,
// consent form, then a refresh of the cached flags. SDK-reported consent
// errors do not abort the sequence; the first one is returned after the run
// completes and the coordinator still marks itself initialized. A cancelled
// ctx aborts the remaining steps and leaves the coordinator uninitialized so
// a later, valid context can re-run the flow.
func (c *Coordinator) Run(ctx context.Context) error {
	return c.run(ctx, false)
}

// RunWithExplainers executes the same sequence, but ahead of each system
// prompt that will actually appear it first awaits the corresponding
// explanatory dialog.
func (c *Coordinator) RunWithExplainers(ctx context.Context) error {
	return c.run(ctx, true)
}

func (c *Coordinator) run(ctx context.Context, explain bool) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	start := c.clock.Now()
	ctx, span := c.tracer.Start(ctx, tracer.SpanConsentFlow)

	var flowErr *flowerr.Error
	capture := func(stage string, err error) {
		if err == nil {
			return
		}
		if c.logger != nil {
			c.logger.WarnContext(ctx, "consent step reported an error", "stage", stage, "error", err)
		}
		if flowErr == nil {
			flowErr = flowerr.Wrap(err, flowerr.CategoryConsent, 0, "consent "+stage+" failed")
		}
	}

	if err := c.trackingStep(ctx, explain); err != nil {
		span.End(err)
		return err
	}

	if err := ctx.Err(); err != nil {
		span.End(err)
		return err
	}
	_, infoSpan := c.tracer.Start(ctx, tracer.SpanInfoUpdate)
	infoErr := c.sdk.RequestInfoUpdate(ctx, c.params)
	infoSpan.End(infoErr)
	capture("info update", infoErr)

	if err := c.formStep(ctx, explain, capture); err != nil {
		span.End(err)
		return err
	}

	canRequest := c.sdk.CanRequestAds(ctx)
	privacyRequired := c.sdk.PrivacyOptionsRequired(ctx)

	c.mu.Lock()
	c.canRequestAds = canRequest
	c.privacyOptionsRequired = privacyRequired
	c.initialized = true
	c.mu.Unlock()

	span.SetAttributes(tracer.Bool(tracer.AttrCanRequest, canRequest))
	if c.metrics != nil {
		c.metrics.SetCanRequestAds(canRequest)
		c.metrics.FlowLatency.Observe(c.clock.Since(start).Seconds())
	}

	if flowErr != nil {
		if c.metrics != nil {
			c.metrics.IncrementFlowRuns("error")
		}
		if c.reporter != nil {
			c.reporter.Report(flowErr)
		}
		span.End(flowErr)
		return flowErr
	}
	if c.metrics != nil {
		c.metrics.IncrementFlowRuns("ok")
	}
	span.End(nil)
	return nil
}

// trackingStep requests the platform tracking permission when it has never
// been answered. Authority errors are swallowed after logging: the tracking
// signal is advisory and must not block consent collection.
func (c *Coordinator) trackingStep(ctx context.Context, explain bool) error {
	if c.authority == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	status, err := c.authority.Status(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "tracking status lookup failed", "error", err)
		}
		return nil
	}
	if status != TrackingNotDetermined {
		return nil
	}

	if explain && c.explainer != nil {
		if err := c.explainer.ShowTrackingExplainer(ctx); err != nil {
			if c.logger != nil {
				c.logger.WarnContext(ctx, "tracking explainer failed", "error", err)
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	select {
	case <-c.clock.After(c.promptDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	_, span := c.tracer.Start(ctx, tracer.SpanTrackingPrompt)
	result, err := c.authority.Request(ctx)
	span.End(err)
	if err != nil {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "tracking permission request failed", "error", err)
		}
		return nil
	}
	if c.metrics != nil {
		c.metrics.IncrementTrackingPrompts(string(result))
	}
	return nil
}

func (c *Coordinator) formStep(ctx context.Context, explain bool, capture func(string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if explain && c.explainer != nil {
		required, err := c.sdk.FormRequired(ctx)
		capture("form check", err)
		if err == nil && required {
			if err := c.explainer.ShowConsentExplainer(ctx); err != nil {
				if c.logger != nil {
					c.logger.WarnContext(ctx, "consent explainer failed", "error", err)
				}
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	_, span := c.tracer.Start(ctx, tracer.SpanConsentForm)
	err := c.sdk.ShowFormIfRequired(ctx)
	span.End(err)
	capture("form", err)
	if err == nil && c.metrics != nil {
		c.metrics.FormsShown.Inc()
	}
	return nil
}

// ShowPrivacyOptions re-presents the privacy options form and refreshes the
// cached flags afterwards.
func (c *Coordinator) ShowPrivacyOptions(ctx context.Context) error {
	err := c.sdk.ShowPrivacyOptions(ctx)

	canRequest := c.sdk.CanRequestAds(ctx)
	privacyRequired := c.sdk.PrivacyOptionsRequired(ctx)
	c.mu.Lock()
	c.canRequestAds = canRequest
	c.privacyOptionsRequired = privacyRequired
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.SetCanRequestAds(canRequest)
	}

	if err != nil {
		ferr := flowerr.Wrap(err, flowerr.CategoryConsent, 0, "privacy options form failed")
		if c.reporter != nil {
			c.reporter.Report(ferr)
		}
		return ferr
	}
	return nil
}

// Initialized reports whether a flow run has completed this session.
func (c *Coordinator) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// CanRequestAds reports the consent status cached by the last completed run.
func (c *Coordinator) CanRequestAds() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canRequestAds
}

// PrivacyOptionsRequired reports whether a privacy-options entry point must
// be offered.
func (c *Coordinator) PrivacyOptionsRequired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.privacyOptionsRequired
}

// Reset zeroes the coordinator's state and asks the consent SDK to forget
// its stored decisions. Test-only.
func (c *Coordinator) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.initialized = false
	c.canRequestAds = false
	c.privacyOptionsRequired = false
	c.mu.Unlock()
	return c.sdk.Reset(ctx)
}
