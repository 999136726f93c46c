// Package tracer provides a lightweight tracing abstraction for the engine.
//
// It defines a small tracer interface that doesn't depend directly on
// OpenTelemetry APIs, so slot controllers and the consent coordinator can
// emit spans while staying decoupled from a specific tracing backend.
//
// Implementations:
//   - NoopTracer: for tests and hosts without tracing (zero overhead)
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names used by the engine.
const (
	SpanSlotLoad       = "slot.load"
	SpanSlotShow       = "slot.show"
	SpanConsentFlow    = "consent.flow"
	SpanTrackingPrompt = "consent.tracking_prompt"
	SpanInfoUpdate     = "consent.info_update"
	SpanConsentForm    = "consent.form"
	SpanSDKInit        = "engine.sdk_init"
)

// Attribute keys used by the engine.
const (
	AttrFormat       = "ad.format"
	AttrUnit         = "ad.unit"
	AttrAttempt      = "ad.load_attempt"
	AttrOutcome      = "ad.show_outcome"
	AttrFormRequired = "consent.form_required"
	AttrCanRequest   = "consent.can_request_ads"
)
