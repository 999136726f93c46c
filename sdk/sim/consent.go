package sim

import (
	"context"
	"sync"

	"github.com/faizahmaddae/ad-flow/consent"
)

// ConsentPlatform is a scriptable consent SDK. The zero configuration
// requires no form and permits ad requests.
type ConsentPlatform struct {
	mu sync.Mutex

	formRequired    bool
	formShown       bool
	denyAdRequests  bool
	privacyRequired bool
	infoErr         error
	formErr         error
}

// ConsentOption configures the ConsentPlatform.
type ConsentOption func(*ConsentPlatform)

// WithFormRequired scripts the jurisdiction check to require the form.
func WithFormRequired() ConsentOption {
	return func(p *ConsentPlatform) { p.formRequired = true }
}

// WithAdRequestsDenied scripts the consent status to deny ad requests.
func WithAdRequestsDenied() ConsentOption {
	return func(p *ConsentPlatform) { p.denyAdRequests = true }
}

// WithPrivacyOptionsRequired scripts the privacy-options requirement.
func WithPrivacyOptionsRequired() ConsentOption {
	return func(p *ConsentPlatform) { p.privacyRequired = true }
}

// WithInfoUpdateError scripts RequestInfoUpdate to fail.
func WithInfoUpdateError(err error) ConsentOption {
	return func(p *ConsentPlatform) { p.infoErr = err }
}

// WithFormError scripts ShowFormIfRequired to fail.
func WithFormError(err error) ConsentOption {
	return func(p *ConsentPlatform) { p.formErr = err }
}

// NewConsentPlatform constructs a scriptable consent SDK.
func NewConsentPlatform(opts ...ConsentOption) *ConsentPlatform {
	p := &ConsentPlatform{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ConsentPlatform) RequestInfoUpdate(_ context.Context, _ consent.Params) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.infoErr
}

func (p *ConsentPlatform) FormRequired(_ context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.formRequired && !p.formShown, nil
}

func (p *ConsentPlatform) ShowFormIfRequired(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.formErr != nil {
		return p.formErr
	}
	if p.formRequired && !p.formShown {
		p.formShown = true
	}
	return nil
}

func (p *ConsentPlatform) CanRequestAds(_ context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.denyAdRequests {
		return false
	}
	// Mirrors the real SDK: ads may be requested once no form is pending.
	return !p.formRequired || p.formShown
}

func (p *ConsentPlatform) PrivacyOptionsRequired(_ context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.privacyRequired
}

func (p *ConsentPlatform) ShowPrivacyOptions(_ context.Context) error {
	return nil
}

func (p *ConsentPlatform) Reset(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.formShown = false
	return nil
}

// FormShown reports whether the consent form has been presented.
func (p *ConsentPlatform) FormShown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.formShown
}

// TrackingAuthority is a scriptable tracking-permission surface. It starts
// undetermined and resolves to the configured answer on Request.
type TrackingAuthority struct {
	mu     sync.Mutex
	status consent.TrackingStatus
	answer consent.TrackingStatus
}

// NewTrackingAuthority constructs an authority that answers Request with the
// given status.
func NewTrackingAuthority(answer consent.TrackingStatus) *TrackingAuthority {
	return &TrackingAuthority{
		status: consent.TrackingNotDetermined,
		answer: answer,
	}
}

func (a *TrackingAuthority) Status(_ context.Context) (consent.TrackingStatus, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status, nil
}

func (a *TrackingAuthority) Request(_ context.Context) (consent.TrackingStatus, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status == consent.TrackingNotDetermined {
		a.status = a.answer
	}
	return a.status, nil
}

var (
	_ consent.SDK               = (*ConsentPlatform)(nil)
	_ consent.TrackingAuthority = (*TrackingAuthority)(nil)
)
