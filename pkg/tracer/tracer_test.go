package tracer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/faizahmaddae/ad-flow/pkg/tracer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopTracer_Start(t *testing.T) {
	tr := tracer.NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, "test.span",
		tracer.String("key", "value"),
		tracer.Bool("flag", true),
	)

	// Context should be returned unchanged
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	// Span methods should not panic
	span.SetAttributes(tracer.Int("attempt", 2))
	span.AddEvent("test.event", tracer.Int64("count", 42))
	span.End(nil)
}

func TestNoopTracer_SpanEndWithError(t *testing.T) {
	tr := tracer.NewNoop()

	_, span := tr.Start(context.Background(), "test.span")
	require.NotNil(t, span)

	span.End(errors.New("test error"))
}

func TestOTelTracer_StartAndEnd(t *testing.T) {
	// The default global provider yields no-op spans, which is enough to
	// exercise the adapter paths without a collector.
	tr := tracer.NewOTel()

	ctx, span := tr.Start(context.Background(), tracer.SpanSlotLoad,
		tracer.String(tracer.AttrFormat, "interstitial"),
	)
	require.NotNil(t, ctx)
	require.NotNil(t, span)

	span.SetAttributes(tracer.Bool(tracer.AttrCanRequest, true))
	span.AddEvent("retry.scheduled", tracer.Duration("delay", 0))
	span.End(errors.New("load failed"))
}
