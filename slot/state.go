// Package slot implements the per-format ad lifecycle state machine: one
// controller per format owns at most one cached ad and drives it through
// load, show, retry, and expiry. Format differences (interstitial cooldown,
// app-open cache expiry, native layout keys) live in small Policy values;
// the controller itself is format-agnostic.
package slot

import (
	"time"

	"github.com/faizahmaddae/ad-flow/ads"
)

// Phase is the lifecycle position of one slot.
type Phase string

const (
	// PhaseIdle means no ad is cached and no load is in flight.
	PhaseIdle Phase = "idle"
	// PhaseLoading means one underlying SDK request is in flight.
	PhaseLoading Phase = "loading"
	// PhaseReady means one ad is cached and showable.
	PhaseReady Phase = "ready"
	// PhaseShowing means the cached ad is on screen.
	PhaseShowing Phase = "showing"
	// PhaseExhausted means automatic retries ran out; only an explicit Load
	// leaves this phase.
	PhaseExhausted Phase = "exhausted"
)

func (p Phase) String() string { return string(p) }

// State is the controller-owned lifecycle record. Snapshot returns copies;
// nothing outside the controller mutates it.
type State struct {
	Phase Phase
	// LoadedAt is stamped when the phase becomes Ready; drives cache expiry.
	LoadedAt time.Time
	// LastShownAt is stamped when a show dismisses; drives the cooldown.
	LastShownAt time.Time
	// LoadAttempts counts consecutive failures; reset to zero on success.
	LoadAttempts int
	// FormatKey is the native layout identifier the cached ad was loaded
	// for; empty for other formats.
	FormatKey string
}

// Event is published to slot subscribers when an ad becomes ready and when
// automatic retries are exhausted.
type Event struct {
	Format ads.Format
	Phase  Phase
	Err    error
}
