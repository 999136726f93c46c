// Package sim provides deterministic in-process stand-ins for the external
// SDK surfaces: the ad network, the consent platform, and the tracking
// authority. The demo binary and the test suites script these instead of
// talking to real mobile SDKs.
package sim

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/faizahmaddae/ad-flow/ads"
	"github.com/faizahmaddae/ad-flow/sdk"
)

// Script describes how the simulator answers load and show calls for one
// format. The zero value fills every request instantly and dismisses every
// show.
type Script struct {
	// FailFirst makes the first N loads fail with LoadErr before filling.
	FailFirst int
	// LoadErr is the error returned for scripted failures; nil means no-fill.
	LoadErr error
	// Latency delays each load by the given duration on the simulator clock.
	Latency time.Duration
	// Outcome is the terminal show signal; empty means OutcomeDismissed.
	Outcome sdk.Outcome
	// Reward is attached to dismissed shows (rewarded format).
	Reward *sdk.Reward
}

// SDK is a scriptable ad network. Safe for concurrent use.
type SDK struct {
	mu          sync.Mutex
	clock       clockwork.Clock
	scripts     map[ads.Format]Script
	loads       map[string]int
	initErr     error
	initialized bool
}

// Option configures the simulator.
type Option func(*SDK)

// WithClock injects the clock used for scripted latency.
func WithClock(c clockwork.Clock) Option {
	return func(s *SDK) { s.clock = c }
}

// WithScript installs the script for one format.
func WithScript(f ads.Format, sc Script) Option {
	return func(s *SDK) { s.scripts[f] = sc }
}

// WithInitError makes Initialize fail.
func WithInitError(err error) Option {
	return func(s *SDK) { s.initErr = err }
}

// New constructs a simulator that fills every request unless scripted
// otherwise.
func New(opts ...Option) *SDK {
	s := &SDK{
		clock:   clockwork.NewRealClock(),
		scripts: make(map[ads.Format]Script),
		loads:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize reports a single simulated adapter as ready.
func (s *SDK) Initialize(_ context.Context) (sdk.InitStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initErr != nil {
		return nil, s.initErr
	}
	s.initialized = true
	return sdk.InitStatus{"sim": sdk.AdapterReady}, nil
}

// Load answers per the format's script. Scripted latency is honored on the
// simulator clock and races the request timeout and ctx cancellation.
func (s *SDK) Load(ctx context.Context, unitID string, req sdk.Request) (sdk.Ad, error) {
	s.mu.Lock()
	script := s.scripts[req.Format]
	s.loads[unitID]++
	attempt := s.loads[unitID]
	clock := s.clock
	s.mu.Unlock()

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = sdk.DefaultTimeout
	}
	if script.Latency > 0 {
		select {
		case <-clock.After(script.Latency):
		case <-clock.After(timeout):
			return nil, &sdk.Error{Code: sdk.CodeTimeout, Message: "request timed out"}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if attempt <= script.FailFirst {
		if script.LoadErr != nil {
			return nil, script.LoadErr
		}
		return nil, &sdk.Error{Code: sdk.CodeNoFill, Message: "no fill"}
	}

	outcome := script.Outcome
	if outcome == "" {
		outcome = sdk.OutcomeDismissed
	}
	return &ad{unitID: unitID, outcome: outcome, reward: script.Reward}, nil
}

// LoadCount reports how many loads were issued for the unit, filled or not.
func (s *SDK) LoadCount(unitID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads[unitID]
}

// Initialized reports whether Initialize has completed successfully.
func (s *SDK) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

type ad struct {
	mu       sync.Mutex
	unitID   string
	outcome  sdk.Outcome
	reward   *sdk.Reward
	disposed bool
}

func (a *ad) Show(_ context.Context) (sdk.ShowResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.disposed {
		return sdk.ShowResult{Outcome: sdk.OutcomeFailed},
			&sdk.Error{Code: sdk.CodeInternal, Message: "ad already disposed"}
	}
	res := sdk.ShowResult{Outcome: a.outcome}
	if a.outcome == sdk.OutcomeDismissed {
		res.Reward = a.reward
	}
	return res, nil
}

func (a *ad) Dispose() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disposed = true
}

func (a *ad) UnitID() string { return a.unitID }

var _ sdk.SDK = (*SDK)(nil)
