package adflow

import (
	"fmt"
	"time"

	"github.com/faizahmaddae/ad-flow/ads"
	"github.com/faizahmaddae/ad-flow/consent"
	"github.com/faizahmaddae/ad-flow/reactor"
	"github.com/faizahmaddae/ad-flow/sdk"
	"github.com/faizahmaddae/ad-flow/slot"
)

// Config is the in-memory engine configuration. Zero or missing durations
// and counts fall back to the package defaults during Normalize; unit IDs
// have no defaults and must be supplied per format.
type Config struct {
	// Platform selects which unit-ID variant is used.
	Platform ads.Platform
	// Units maps each served format to its per-platform unit identifiers.
	Units map[ads.Format]ads.UnitID

	// AppOpenMaxCacheAge bounds how long an unshown app-open ad stays valid.
	AppOpenMaxCacheAge time.Duration
	// InterstitialMinInterval is the minimum gap between interstitial shows.
	InterstitialMinInterval time.Duration
	// MaxLoadRetries bounds automatic reload attempts; non-positive means
	// the default.
	MaxLoadRetries int
	// RetryDelay is the base of the linear retry backoff.
	RetryDelay time.Duration
	// RequestTimeout bounds one ad network request.
	RequestTimeout time.Duration
	// TrackingPromptDelay is the pause before the tracking prompt.
	TrackingPromptDelay time.Duration

	// PreloadFormats are loaded eagerly at the end of initialization.
	PreloadFormats []ads.Format
	// ShowAppOpenOnColdStart shows the app-open ad once right after
	// initialization completes.
	ShowAppOpenOnColdStart bool

	// ReactorMaxShowsPerSession caps automatic app-open shows; zero means
	// unlimited.
	ReactorMaxShowsPerSession int
	// ReactorMinGap is the minimum time between automatic app-open shows.
	ReactorMinGap time.Duration

	// Keywords are contextual targeting hints forwarded on every request.
	Keywords []string
	// NonPersonalized forces non-personalized requests regardless of
	// consent.
	NonPersonalized bool
	// ConsentParams carries the consent-information request settings.
	ConsentParams consent.Params
}

// Normalize fills defaulted fields in place and returns the config for
// chaining.
func (c *Config) Normalize() *Config {
	if c.AppOpenMaxCacheAge <= 0 {
		c.AppOpenMaxCacheAge = slot.DefaultMaxCacheAge
	}
	if c.InterstitialMinInterval <= 0 {
		c.InterstitialMinInterval = slot.DefaultMinInterval
	}
	if c.MaxLoadRetries <= 0 {
		c.MaxLoadRetries = slot.DefaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = slot.DefaultRetryDelay
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = sdk.DefaultTimeout
	}
	if c.TrackingPromptDelay <= 0 {
		c.TrackingPromptDelay = consent.DefaultPromptDelay
	}
	if c.ReactorMinGap <= 0 {
		c.ReactorMinGap = reactor.DefaultMinGap
	}
	if c.ReactorMaxShowsPerSession < 0 {
		c.ReactorMaxShowsPerSession = 0
	}
	return c
}

// Validate reports the first configuration problem.
func (c *Config) Validate() error {
	if !c.Platform.Valid() {
		return fmt.Errorf("config: invalid platform %q", c.Platform)
	}
	for f, unit := range c.Units {
		if !f.Valid() {
			return fmt.Errorf("config: unknown format %q", f)
		}
		if unit.For(c.Platform) == "" {
			return fmt.Errorf("config: format %q has no unit ID for platform %q", f, c.Platform)
		}
	}
	for _, f := range c.PreloadFormats {
		if !f.Valid() {
			return fmt.Errorf("config: unknown preload format %q", f)
		}
		if _, ok := c.Units[f]; !ok {
			return fmt.Errorf("config: preload format %q has no configured unit", f)
		}
	}
	return nil
}

// unitFor resolves the platform-specific unit ID for a format, empty when
// unconfigured.
func (c *Config) unitFor(f ads.Format) string {
	return c.Units[f].For(c.Platform)
}
