// Package consent sequences the privacy flow that gates ad serving: the
// platform tracking-permission prompt, the consent-information update, and
// the consent form, in that strict order. The consent SDK and the tracking
// authority are ports; hosts bridge them to their platform bindings.
package consent

import "context"

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/faizahmaddae/ad-flow/consent SDK,TrackingAuthority,Explainer

// SDK is the consent-management platform surface.
type SDK interface {
	// RequestInfoUpdate refreshes consent information for the device.
	RequestInfoUpdate(ctx context.Context, p Params) error

	// FormRequired reports whether the jurisdiction requires showing the
	// consent form right now.
	FormRequired(ctx context.Context) (bool, error)

	// ShowFormIfRequired presents the consent form when the SDK's own
	// jurisdiction check requires it, and returns once it is dismissed.
	ShowFormIfRequired(ctx context.Context) error

	// CanRequestAds reports whether ads may be requested under the current
	// consent status.
	CanRequestAds(ctx context.Context) bool

	// PrivacyOptionsRequired reports whether a privacy-options entry point
	// must be offered to the user.
	PrivacyOptionsRequired(ctx context.Context) bool

	// ShowPrivacyOptions re-presents the privacy options form on demand.
	ShowPrivacyOptions(ctx context.Context) error

	// Reset asks the SDK to forget its stored consent state. Test-only.
	Reset(ctx context.Context) error
}

// TrackingAuthority is the platform tracking-permission surface. Only one
// platform has it; hosts on the other platform leave it unset.
type TrackingAuthority interface {
	Status(ctx context.Context) (TrackingStatus, error)
	Request(ctx context.Context) (TrackingStatus, error)
}

// TrackingStatus is the platform permission state.
type TrackingStatus string

const (
	TrackingNotDetermined TrackingStatus = "not_determined"
	TrackingGranted       TrackingStatus = "granted"
	TrackingDenied        TrackingStatus = "denied"
	TrackingRestricted    TrackingStatus = "restricted"
)

// Explainer shows locally-owned explanatory dialogs ahead of system prompts.
// Each call blocks until the user dismisses the dialog.
type Explainer interface {
	ShowTrackingExplainer(ctx context.Context) error
	ShowConsentExplainer(ctx context.Context) error
}

// Geography overrides the consent SDK's jurisdiction detection for debugging.
type Geography string

const (
	GeographyDefault Geography = "default"
	GeographyEEA     Geography = "eea"
	GeographyNotEEA  Geography = "not_eea"
)

// Params carries the consent-information request settings.
type Params struct {
	TagForChildDirected bool
	TestDeviceIDs       []string
	DebugGeography      Geography
}
