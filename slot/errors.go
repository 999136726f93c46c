package slot

import "errors"

// Policy vetoes. These are expected outcomes of the gate, cooldown, and
// readiness checks, not faults: callers branch on them and nothing is
// pushed to the reporter.
var (
	// ErrAdsDisabled means the gate is off.
	ErrAdsDisabled = errors.New("slot: ads disabled")
	// ErrNotReady means no showable ad is cached.
	ErrNotReady = errors.New("slot: no ad ready")
	// ErrCooldownActive means the minimum interval since the last show has
	// not elapsed.
	ErrCooldownActive = errors.New("slot: cooldown active")
)
