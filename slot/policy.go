package slot

import (
	"time"

	"github.com/faizahmaddae/ad-flow/ads"
)

// Public defaults. Hosts rely on these exact values; they are part of the
// package contract.
const (
	// DefaultMaxCacheAge is how long an unshown app-open ad stays valid.
	DefaultMaxCacheAge = 4 * time.Hour
	// DefaultMinInterval is the minimum gap between two interstitial shows.
	DefaultMinInterval = 30 * time.Second
	// DefaultMaxRetries bounds automatic reload attempts after failures.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the base of the linear retry backoff.
	DefaultRetryDelay = 5 * time.Second
)

// Policy captures the per-format rules the controller consults. CanShow
// vets a Ready slot at show time; Stale reports whether the cached ad must
// be discarded rather than used, at load time (requestedKey is the incoming
// native layout key) and again at show time (requestedKey is the cached
// key).
type Policy interface {
	Format() ads.Format
	CanShow(now time.Time, s *State) error
	Stale(now time.Time, s *State, requestedKey string) bool
}

type basicPolicy struct {
	format ads.Format
}

func (p basicPolicy) Format() ads.Format                   { return p.format }
func (p basicPolicy) CanShow(time.Time, *State) error      { return nil }
func (p basicPolicy) Stale(time.Time, *State, string) bool { return false }

// NewBannerPolicy returns the banner rules: no cooldown, no expiry.
func NewBannerPolicy() Policy { return basicPolicy{format: ads.FormatBanner} }

// NewRewardedPolicy returns the rewarded rules: no cooldown, no expiry.
func NewRewardedPolicy() Policy { return basicPolicy{format: ads.FormatRewarded} }

// InterstitialPolicy enforces a minimum interval between consecutive shows.
type InterstitialPolicy struct {
	MinInterval time.Duration
}

// NewInterstitialPolicy constructs the interstitial rules; a non-positive
// interval falls back to DefaultMinInterval.
func NewInterstitialPolicy(minInterval time.Duration) InterstitialPolicy {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return InterstitialPolicy{MinInterval: minInterval}
}

func (p InterstitialPolicy) Format() ads.Format { return ads.FormatInterstitial }

func (p InterstitialPolicy) CanShow(now time.Time, s *State) error {
	if !s.LastShownAt.IsZero() && now.Sub(s.LastShownAt) < p.MinInterval {
		return ErrCooldownActive
	}
	return nil
}

func (p InterstitialPolicy) Stale(time.Time, *State, string) bool { return false }

// AppOpenPolicy discards cached ads older than the maximum cache age.
type AppOpenPolicy struct {
	MaxCacheAge time.Duration
}

// NewAppOpenPolicy constructs the app-open rules; a non-positive age falls
// back to DefaultMaxCacheAge.
func NewAppOpenPolicy(maxCacheAge time.Duration) AppOpenPolicy {
	if maxCacheAge <= 0 {
		maxCacheAge = DefaultMaxCacheAge
	}
	return AppOpenPolicy{MaxCacheAge: maxCacheAge}
}

func (p AppOpenPolicy) Format() ads.Format              { return ads.FormatAppOpen }
func (p AppOpenPolicy) CanShow(time.Time, *State) error { return nil }

func (p AppOpenPolicy) Stale(now time.Time, s *State, _ string) bool {
	return !s.LoadedAt.IsZero() && now.Sub(s.LoadedAt) >= p.MaxCacheAge
}

// NativePolicy invalidates the cache when the requested layout key differs
// from the one the cached ad was loaded for.
type NativePolicy struct{}

// NewNativePolicy constructs the native rules.
func NewNativePolicy() NativePolicy { return NativePolicy{} }

func (p NativePolicy) Format() ads.Format              { return ads.FormatNative }
func (p NativePolicy) CanShow(time.Time, *State) error { return nil }

func (p NativePolicy) Stale(_ time.Time, s *State, requestedKey string) bool {
	return requestedKey != s.FormatKey
}
