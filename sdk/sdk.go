// Package sdk declares the advertising-SDK surface the engine depends on.
// The engine never links a real mobile SDK; hosts provide an implementation
// that bridges to their platform bindings, and tests use sdk/sim.
package sdk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faizahmaddae/ad-flow/ads"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/faizahmaddae/ad-flow/sdk SDK,Ad

// DefaultTimeout bounds one ad network request. The SDK itself enforces it;
// the engine only forwards it through Request.
const DefaultTimeout = 30 * time.Second

// SDK is the advertising network entry point.
type SDK interface {
	// Initialize readies the SDK's mediation adapters. It is called once per
	// session, after consent has determined ads may be requested.
	Initialize(ctx context.Context) (InitStatus, error)

	// Load requests one ad for the given unit. It returns a ready-to-show
	// handle or an error carrying one of the Code* values.
	Load(ctx context.Context, unitID string, req Request) (Ad, error)
}

// Ad is one loaded ad handle. The owning slot controller releases it exactly
// once via Dispose.
type Ad interface {
	// Show presents the ad and blocks until it reaches a terminal outcome:
	// dismissed by the user or failed to present.
	Show(ctx context.Context) (ShowResult, error)

	// Dispose releases the underlying native resource.
	Dispose()

	// UnitID reports the unit this ad was loaded for.
	UnitID() string
}

// InitStatus maps mediation adapter names to their readiness after Initialize.
type InitStatus map[string]AdapterState

// AdapterState is one mediation adapter's post-initialization state.
type AdapterState string

const (
	AdapterReady    AdapterState = "ready"
	AdapterNotReady AdapterState = "not_ready"
)

// Request carries the per-load parameters forwarded to the network.
type Request struct {
	Format ads.Format
	// Timeout bounds the network request; zero means DefaultTimeout.
	Timeout time.Duration
	// Keywords are contextual targeting hints.
	Keywords []string
	// NonPersonalized forces a non-personalized ad regardless of consent.
	NonPersonalized bool
	// FormatKey selects a native ad layout; ignored by other formats.
	FormatKey string
}

// Outcome is the single terminal signal of one Show call.
type Outcome string

const (
	// OutcomeDismissed means the ad was presented and closed by the user.
	OutcomeDismissed Outcome = "dismissed"
	// OutcomeFailed means the ad could not be presented.
	OutcomeFailed Outcome = "failed_to_show"
)

// ShowResult reports how a Show call ended. Reward is non-nil only when a
// rewarded ad completed and the network granted its reward.
type ShowResult struct {
	Outcome Outcome
	Reward  *Reward
}

// Reward is the payout attached to a completed rewarded ad.
type Reward struct {
	Kind   string
	Amount float64
}

// Numeric error codes mirrored from the ad network.
const (
	CodeInternal       = 0
	CodeInvalidRequest = 1
	CodeNetwork        = 2
	CodeNoFill         = 3
	CodeTimeout        = 100
)

// Error is a network-reported failure with its numeric code.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ad sdk error %d", e.Code)
	}
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// CodeOf extracts the numeric code from err, or CodeInternal when err is not
// an SDK error.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
