package consent_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/faizahmaddae/ad-flow/consent"
	"github.com/faizahmaddae/ad-flow/consent/mocks"
	"github.com/faizahmaddae/ad-flow/pkg/flowerr"
	"github.com/faizahmaddae/ad-flow/report"
)

type CoordinatorSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	sdk       *mocks.MockSDK
	authority *mocks.MockTrackingAuthority
	explainer *mocks.MockExplainer
}

func (s *CoordinatorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.sdk = mocks.NewMockSDK(s.ctrl)
	s.authority = mocks.NewMockTrackingAuthority(s.ctrl)
	s.explainer = mocks.NewMockExplainer(s.ctrl)
}

func (s *CoordinatorSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

// expectFlowTail registers the steps every completed run ends with.
func (s *CoordinatorSuite) expectFlowTail(canRequest, privacyRequired bool) {
	gomock.InOrder(
		s.sdk.EXPECT().RequestInfoUpdate(gomock.Any(), gomock.Any()).Return(nil),
		s.sdk.EXPECT().ShowFormIfRequired(gomock.Any()).Return(nil),
	)
	s.sdk.EXPECT().CanRequestAds(gomock.Any()).Return(canRequest)
	s.sdk.EXPECT().PrivacyOptionsRequired(gomock.Any()).Return(privacyRequired)
}

// ---------------------------------------------------------------------------
// Sequencing
// ---------------------------------------------------------------------------

func (s *CoordinatorSuite) TestRun_StrictOrderWithTrackingPrompt() {
	gomock.InOrder(
		s.authority.EXPECT().Status(gomock.Any()).Return(consent.TrackingNotDetermined, nil),
		s.authority.EXPECT().Request(gomock.Any()).Return(consent.TrackingGranted, nil),
		s.sdk.EXPECT().RequestInfoUpdate(gomock.Any(), gomock.Any()).Return(nil),
		s.sdk.EXPECT().ShowFormIfRequired(gomock.Any()).Return(nil),
	)
	s.sdk.EXPECT().CanRequestAds(gomock.Any()).Return(true)
	s.sdk.EXPECT().PrivacyOptionsRequired(gomock.Any()).Return(true)

	c := consent.NewCoordinator(s.sdk,
		consent.WithTrackingAuthority(s.authority),
		consent.WithPromptDelay(time.Millisecond),
	)

	s.Require().NoError(c.Run(context.Background()))
	s.True(c.Initialized())
	s.True(c.CanRequestAds())
	s.True(c.PrivacyOptionsRequired())
}

func (s *CoordinatorSuite) TestRun_NoAuthoritySkipsTrackingStep() {
	s.expectFlowTail(true, false)

	c := consent.NewCoordinator(s.sdk)
	s.Require().NoError(c.Run(context.Background()))
	s.True(c.Initialized())
	s.True(c.CanRequestAds())
	s.False(c.PrivacyOptionsRequired())
}

func (s *CoordinatorSuite) TestRun_DeterminedStatusSkipsPrompt() {
	s.authority.EXPECT().Status(gomock.Any()).Return(consent.TrackingDenied, nil)
	s.expectFlowTail(true, false)

	c := consent.NewCoordinator(s.sdk,
		consent.WithTrackingAuthority(s.authority),
		consent.WithPromptDelay(time.Millisecond),
	)
	s.Require().NoError(c.Run(context.Background()))
	s.True(c.Initialized())
}

func (s *CoordinatorSuite) TestRun_SecondRunIsNoOp() {
	s.expectFlowTail(true, false)

	c := consent.NewCoordinator(s.sdk)
	s.Require().NoError(c.Run(context.Background()))
	s.Require().NoError(c.Run(context.Background()))
}

func (s *CoordinatorSuite) TestRun_ParamsForwarded() {
	params := consent.Params{
		TagForChildDirected: true,
		TestDeviceIDs:       []string{"device-1"},
		DebugGeography:      consent.GeographyEEA,
	}
	s.sdk.EXPECT().RequestInfoUpdate(gomock.Any(), params).Return(nil)
	s.sdk.EXPECT().ShowFormIfRequired(gomock.Any()).Return(nil)
	s.sdk.EXPECT().CanRequestAds(gomock.Any()).Return(false)
	s.sdk.EXPECT().PrivacyOptionsRequired(gomock.Any()).Return(false)

	c := consent.NewCoordinator(s.sdk, consent.WithParams(params))
	s.Require().NoError(c.Run(context.Background()))
}

// ---------------------------------------------------------------------------
// Tracking-step resilience
// ---------------------------------------------------------------------------

func (s *CoordinatorSuite) TestRun_StatusErrorIsSwallowed() {
	s.authority.EXPECT().Status(gomock.Any()).Return(consent.TrackingStatus(""), errors.New("att unavailable"))
	s.expectFlowTail(true, false)

	c := consent.NewCoordinator(s.sdk,
		consent.WithTrackingAuthority(s.authority),
		consent.WithPromptDelay(time.Millisecond),
	)
	s.Require().NoError(c.Run(context.Background()))
	s.True(c.Initialized())
}

func (s *CoordinatorSuite) TestRun_PromptErrorIsSwallowed() {
	s.authority.EXPECT().Status(gomock.Any()).Return(consent.TrackingNotDetermined, nil)
	s.authority.EXPECT().Request(gomock.Any()).Return(consent.TrackingStatus(""), errors.New("prompt failed"))
	s.expectFlowTail(true, false)

	c := consent.NewCoordinator(s.sdk,
		consent.WithTrackingAuthority(s.authority),
		consent.WithPromptDelay(time.Millisecond),
	)
	s.Require().NoError(c.Run(context.Background()))
	s.True(c.Initialized())
}

// ---------------------------------------------------------------------------
// SDK error capture
// ---------------------------------------------------------------------------

func (s *CoordinatorSuite) TestRun_InfoUpdateErrorDoesNotAbort() {
	infoErr := errors.New("network unavailable")
	gomock.InOrder(
		s.sdk.EXPECT().RequestInfoUpdate(gomock.Any(), gomock.Any()).Return(infoErr),
		s.sdk.EXPECT().ShowFormIfRequired(gomock.Any()).Return(nil),
	)
	s.sdk.EXPECT().CanRequestAds(gomock.Any()).Return(false)
	s.sdk.EXPECT().PrivacyOptionsRequired(gomock.Any()).Return(false)

	reporter := report.New()
	reported := make(chan *flowerr.Error, 1)
	reporter.Subscribe(func(e *flowerr.Error) { reported <- e })

	c := consent.NewCoordinator(s.sdk, consent.WithReporter(reporter))
	err := c.Run(context.Background())

	s.Require().Error(err)
	s.True(flowerr.HasCategory(err, flowerr.CategoryConsent))
	s.Require().ErrorIs(err, infoErr)
	// The flow still completed and the coordinator is usable.
	s.True(c.Initialized())

	select {
	case e := <-reported:
		s.Equal(flowerr.CategoryConsent, e.Category)
	default:
		s.Fail("failure was not reported")
	}
}

func (s *CoordinatorSuite) TestRun_FirstErrorWins() {
	infoErr := errors.New("info update failed")
	formErr := errors.New("form failed")
	s.sdk.EXPECT().RequestInfoUpdate(gomock.Any(), gomock.Any()).Return(infoErr)
	s.sdk.EXPECT().ShowFormIfRequired(gomock.Any()).Return(formErr)
	s.sdk.EXPECT().CanRequestAds(gomock.Any()).Return(false)
	s.sdk.EXPECT().PrivacyOptionsRequired(gomock.Any()).Return(false)

	c := consent.NewCoordinator(s.sdk)
	err := c.Run(context.Background())
	s.Require().ErrorIs(err, infoErr)
	s.NotErrorIs(err, formErr)
	s.True(c.Initialized())
}

// ---------------------------------------------------------------------------
// Cancellation
// ---------------------------------------------------------------------------

func (s *CoordinatorSuite) TestRun_CancelledBeforeStart() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// No SDK expectation: a dead context stops the flow before any prompt.
	c := consent.NewCoordinator(s.sdk, consent.WithTrackingAuthority(s.authority))
	err := c.Run(ctx)
	s.Require().ErrorIs(err, context.Canceled)
	s.False(c.Initialized())
}

func (s *CoordinatorSuite) TestRun_CancelledDuringPromptDelay() {
	clock := clockwork.NewFakeClock()
	s.authority.EXPECT().Status(gomock.Any()).Return(consent.TrackingNotDetermined, nil)

	c := consent.NewCoordinator(s.sdk,
		consent.WithTrackingAuthority(s.authority),
		consent.WithClock(clock),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	// The run is parked in the pre-prompt pause; cancel instead of advancing.
	clock.BlockUntil(1)
	cancel()
	s.Require().ErrorIs(<-done, context.Canceled)
	s.False(c.Initialized())
	clock.Advance(consent.DefaultPromptDelay) // drain the abandoned timer

	// A later run with a live context starts over and completes.
	s.authority.EXPECT().Status(gomock.Any()).Return(consent.TrackingNotDetermined, nil)
	s.authority.EXPECT().Request(gomock.Any()).Return(consent.TrackingGranted, nil)
	s.expectFlowTail(true, false)

	go func() { done <- c.Run(context.Background()) }()
	clock.BlockUntil(1)
	clock.Advance(consent.DefaultPromptDelay)
	s.Require().NoError(<-done)
	s.True(c.Initialized())
}

// ---------------------------------------------------------------------------
// Explainers
// ---------------------------------------------------------------------------

func (s *CoordinatorSuite) TestRunWithExplainers_BothDialogs() {
	gomock.InOrder(
		s.authority.EXPECT().Status(gomock.Any()).Return(consent.TrackingNotDetermined, nil),
		s.explainer.EXPECT().ShowTrackingExplainer(gomock.Any()).Return(nil),
		s.authority.EXPECT().Request(gomock.Any()).Return(consent.TrackingGranted, nil),
		s.sdk.EXPECT().RequestInfoUpdate(gomock.Any(), gomock.Any()).Return(nil),
		s.sdk.EXPECT().FormRequired(gomock.Any()).Return(true, nil),
		s.explainer.EXPECT().ShowConsentExplainer(gomock.Any()).Return(nil),
		s.sdk.EXPECT().ShowFormIfRequired(gomock.Any()).Return(nil),
	)
	s.sdk.EXPECT().CanRequestAds(gomock.Any()).Return(true)
	s.sdk.EXPECT().PrivacyOptionsRequired(gomock.Any()).Return(false)

	c := consent.NewCoordinator(s.sdk,
		consent.WithTrackingAuthority(s.authority),
		consent.WithExplainer(s.explainer),
		consent.WithPromptDelay(time.Millisecond),
	)
	s.Require().NoError(c.RunWithExplainers(context.Background()))
	s.True(c.Initialized())
}

func (s *CoordinatorSuite) TestRunWithExplainers_NoFormNoConsentExplainer() {
	gomock.InOrder(
		s.sdk.EXPECT().RequestInfoUpdate(gomock.Any(), gomock.Any()).Return(nil),
		s.sdk.EXPECT().FormRequired(gomock.Any()).Return(false, nil),
		s.sdk.EXPECT().ShowFormIfRequired(gomock.Any()).Return(nil),
	)
	s.sdk.EXPECT().CanRequestAds(gomock.Any()).Return(true)
	s.sdk.EXPECT().PrivacyOptionsRequired(gomock.Any()).Return(false)

	// No ShowConsentExplainer expectation: the dialog only precedes a form
	// that will actually appear.
	c := consent.NewCoordinator(s.sdk, consent.WithExplainer(s.explainer))
	s.Require().NoError(c.RunWithExplainers(context.Background()))
}

func (s *CoordinatorSuite) TestRunWithExplainers_ExplainerErrorIsSwallowed() {
	gomock.InOrder(
		s.sdk.EXPECT().RequestInfoUpdate(gomock.Any(), gomock.Any()).Return(nil),
		s.sdk.EXPECT().FormRequired(gomock.Any()).Return(true, nil),
		s.explainer.EXPECT().ShowConsentExplainer(gomock.Any()).Return(errors.New("dialog dismissed")),
		s.sdk.EXPECT().ShowFormIfRequired(gomock.Any()).Return(nil),
	)
	s.sdk.EXPECT().CanRequestAds(gomock.Any()).Return(true)
	s.sdk.EXPECT().PrivacyOptionsRequired(gomock.Any()).Return(false)

	c := consent.NewCoordinator(s.sdk, consent.WithExplainer(s.explainer))
	s.Require().NoError(c.RunWithExplainers(context.Background()))
}

// ---------------------------------------------------------------------------
// Privacy options and reset
// ---------------------------------------------------------------------------

func (s *CoordinatorSuite) TestShowPrivacyOptions_RefreshesFlags() {
	s.expectFlowTail(false, true)
	c := consent.NewCoordinator(s.sdk)
	s.Require().NoError(c.Run(context.Background()))
	s.Require().False(c.CanRequestAds())
	s.Require().True(c.PrivacyOptionsRequired())

	s.sdk.EXPECT().ShowPrivacyOptions(gomock.Any()).Return(nil)
	s.sdk.EXPECT().CanRequestAds(gomock.Any()).Return(true)
	s.sdk.EXPECT().PrivacyOptionsRequired(gomock.Any()).Return(false)

	s.Require().NoError(c.ShowPrivacyOptions(context.Background()))
	s.True(c.CanRequestAds())
	s.False(c.PrivacyOptionsRequired())
}

func (s *CoordinatorSuite) TestShowPrivacyOptions_FailureIsReported() {
	formErr := errors.New("form unavailable")
	s.sdk.EXPECT().ShowPrivacyOptions(gomock.Any()).Return(formErr)
	s.sdk.EXPECT().CanRequestAds(gomock.Any()).Return(true)
	s.sdk.EXPECT().PrivacyOptionsRequired(gomock.Any()).Return(true)

	reporter := report.New()
	reported := make(chan *flowerr.Error, 1)
	reporter.Subscribe(func(e *flowerr.Error) { reported <- e })

	c := consent.NewCoordinator(s.sdk, consent.WithReporter(reporter))
	err := c.ShowPrivacyOptions(context.Background())
	s.Require().ErrorIs(err, formErr)
	s.True(flowerr.HasCategory(err, flowerr.CategoryConsent))
	s.Len(reported, 1)
}

func (s *CoordinatorSuite) TestReset_AllowsRerun() {
	s.expectFlowTail(true, false)
	c := consent.NewCoordinator(s.sdk)
	s.Require().NoError(c.Run(context.Background()))
	s.Require().True(c.Initialized())

	s.sdk.EXPECT().Reset(gomock.Any()).Return(nil)
	s.Require().NoError(c.Reset(context.Background()))
	s.False(c.Initialized())
	s.False(c.CanRequestAds())

	s.expectFlowTail(true, false)
	s.Require().NoError(c.Run(context.Background()))
	s.True(c.Initialized())
}

func TestDefaultPromptDelay(t *testing.T) {
	if consent.DefaultPromptDelay != 200*time.Millisecond {
		t.Fatalf("DefaultPromptDelay = %v, want 200ms", consent.DefaultPromptDelay)
	}
}
