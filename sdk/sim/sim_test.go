package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faizahmaddae/ad-flow/ads"
	"github.com/faizahmaddae/ad-flow/consent"
	"github.com/faizahmaddae/ad-flow/sdk"
)

func TestLoad_FillsByDefault(t *testing.T) {
	s := New()
	ctx := context.Background()

	ad, err := s.Load(ctx, "unit-1", sdk.Request{Format: ads.FormatBanner})
	require.NoError(t, err)
	assert.Equal(t, "unit-1", ad.UnitID())
	assert.Equal(t, 1, s.LoadCount("unit-1"))

	res, err := ad.Show(ctx)
	require.NoError(t, err)
	assert.Equal(t, sdk.OutcomeDismissed, res.Outcome)
	assert.Nil(t, res.Reward)
}

func TestLoad_FailFirst(t *testing.T) {
	s := New(WithScript(ads.FormatBanner, Script{FailFirst: 2}))
	ctx := context.Background()
	req := sdk.Request{Format: ads.FormatBanner}

	for i := 0; i < 2; i++ {
		_, err := s.Load(ctx, "unit-1", req)
		require.Error(t, err)
		assert.Equal(t, sdk.CodeNoFill, sdk.CodeOf(err))
	}
	_, err := s.Load(ctx, "unit-1", req)
	require.NoError(t, err)
	assert.Equal(t, 3, s.LoadCount("unit-1"))
}

func TestLoad_ScriptedError(t *testing.T) {
	boom := &sdk.Error{Code: sdk.CodeNetwork, Message: "airplane mode"}
	s := New(WithScript(ads.FormatBanner, Script{FailFirst: 1, LoadErr: boom}))

	_, err := s.Load(context.Background(), "unit-1", sdk.Request{Format: ads.FormatBanner})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, sdk.CodeNetwork, sdk.CodeOf(err))
}

func TestLoad_ScriptedOutcomeAndReward(t *testing.T) {
	s := New(
		WithScript(ads.FormatInterstitial, Script{Outcome: sdk.OutcomeFailed}),
		WithScript(ads.FormatRewarded, Script{Reward: &sdk.Reward{Kind: "coins", Amount: 25}}),
	)
	ctx := context.Background()

	ad, err := s.Load(ctx, "unit-i", sdk.Request{Format: ads.FormatInterstitial})
	require.NoError(t, err)
	res, err := ad.Show(ctx)
	require.NoError(t, err)
	assert.Equal(t, sdk.OutcomeFailed, res.Outcome)
	assert.Nil(t, res.Reward)

	ad, err = s.Load(ctx, "unit-r", sdk.Request{Format: ads.FormatRewarded})
	require.NoError(t, err)
	res, err = ad.Show(ctx)
	require.NoError(t, err)
	assert.Equal(t, sdk.OutcomeDismissed, res.Outcome)
	require.NotNil(t, res.Reward)
	assert.Equal(t, 25.0, res.Reward.Amount)
}

func TestLoad_LatencyOnSimulatorClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(
		WithClock(clock),
		WithScript(ads.FormatBanner, Script{Latency: 2 * time.Second}),
	)

	type result struct {
		ad  sdk.Ad
		err error
	}
	done := make(chan result, 1)
	go func() {
		ad, err := s.Load(context.Background(), "unit-1", sdk.Request{Format: ads.FormatBanner})
		done <- result{ad, err}
	}()

	clock.BlockUntil(2) // latency and timeout timers both armed
	clock.Advance(2 * time.Second)
	res := <-done
	require.NoError(t, res.err)
	assert.NotNil(t, res.ad)
}

func TestLoad_TimesOut(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(
		WithClock(clock),
		WithScript(ads.FormatBanner, Script{Latency: time.Minute}),
	)

	done := make(chan error, 1)
	go func() {
		_, err := s.Load(context.Background(), "unit-1",
			sdk.Request{Format: ads.FormatBanner, Timeout: time.Second})
		done <- err
	}()

	clock.BlockUntil(2)
	clock.Advance(time.Second)
	err := <-done
	require.Error(t, err)
	assert.Equal(t, sdk.CodeTimeout, sdk.CodeOf(err))
}

func TestLoad_ContextCancelled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(
		WithClock(clock),
		WithScript(ads.FormatBanner, Script{Latency: time.Minute}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Load(ctx, "unit-1", sdk.Request{Format: ads.FormatBanner})
		done <- err
	}()

	clock.BlockUntil(2)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestShow_AfterDisposeFails(t *testing.T) {
	s := New()
	ctx := context.Background()

	ad, err := s.Load(ctx, "unit-1", sdk.Request{Format: ads.FormatBanner})
	require.NoError(t, err)
	ad.Dispose()

	res, err := ad.Show(ctx)
	require.Error(t, err)
	assert.Equal(t, sdk.OutcomeFailed, res.Outcome)
	assert.Equal(t, sdk.CodeInternal, sdk.CodeOf(err))
}

func TestInitialize(t *testing.T) {
	s := New()
	assert.False(t, s.Initialized())

	status, err := s.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sdk.AdapterReady, status["sim"])
	assert.True(t, s.Initialized())
}

func TestInitialize_ScriptedFailure(t *testing.T) {
	boom := errors.New("no adapters")
	s := New(WithInitError(boom))

	_, err := s.Initialize(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, s.Initialized())
}

func TestConsentPlatform_Defaults(t *testing.T) {
	p := NewConsentPlatform()
	ctx := context.Background()

	required, err := p.FormRequired(ctx)
	require.NoError(t, err)
	assert.False(t, required)
	assert.True(t, p.CanRequestAds(ctx))
	assert.False(t, p.PrivacyOptionsRequired(ctx))
}

func TestConsentPlatform_FormFlow(t *testing.T) {
	p := NewConsentPlatform(WithFormRequired())
	ctx := context.Background()

	// A pending form blocks ad requests.
	required, err := p.FormRequired(ctx)
	require.NoError(t, err)
	assert.True(t, required)
	assert.False(t, p.CanRequestAds(ctx))

	require.NoError(t, p.ShowFormIfRequired(ctx))
	assert.True(t, p.FormShown())
	assert.True(t, p.CanRequestAds(ctx))

	required, err = p.FormRequired(ctx)
	require.NoError(t, err)
	assert.False(t, required)

	// Reset forgets the collected consent.
	require.NoError(t, p.Reset(ctx))
	assert.False(t, p.FormShown())
	assert.False(t, p.CanRequestAds(ctx))
}

func TestConsentPlatform_ScriptedDenialAndErrors(t *testing.T) {
	ctx := context.Background()

	p := NewConsentPlatform(WithAdRequestsDenied())
	assert.False(t, p.CanRequestAds(ctx))

	infoErr := errors.New("info unavailable")
	p = NewConsentPlatform(WithInfoUpdateError(infoErr))
	assert.ErrorIs(t, p.RequestInfoUpdate(ctx, consent.Params{}), infoErr)

	formErr := errors.New("form crashed")
	p = NewConsentPlatform(WithFormRequired(), WithFormError(formErr))
	assert.ErrorIs(t, p.ShowFormIfRequired(ctx), formErr)
	assert.False(t, p.FormShown())
}

func TestTrackingAuthority_ResolvesOnce(t *testing.T) {
	a := NewTrackingAuthority(consent.TrackingDenied)
	ctx := context.Background()

	status, err := a.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, consent.TrackingNotDetermined, status)

	status, err = a.Request(ctx)
	require.NoError(t, err)
	assert.Equal(t, consent.TrackingDenied, status)

	// The answer is sticky: repeat requests do not change it.
	status, err = a.Request(ctx)
	require.NoError(t, err)
	assert.Equal(t, consent.TrackingDenied, status)
	status, err = a.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, consent.TrackingDenied, status)
}
