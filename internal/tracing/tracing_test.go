package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), Config{})
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	_, span := p.Tracer("demo").Start(context.Background(), "demo.run")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProvider_Nil(t *testing.T) {
	var p *Provider
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer("http"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestStage_Spans(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tr := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer("demo")

	_, clean := StartStage(context.Background(), tr, "taxonomy")
	EndStage(clean, 0)
	_, dirty := StartStage(context.Background(), tr, "bookings")
	EndStage(dirty, 3)

	ended := spans.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "demo.taxonomy", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), StageKey.String("taxonomy"))
	assert.Contains(t, ended[0].Attributes(), SkippedKey.Int(0))
	assert.Equal(t, codes.Unset, ended[0].Status().Code)

	assert.Equal(t, "demo.bookings", ended[1].Name())
	assert.Contains(t, ended[1].Attributes(), SkippedKey.Int(3))
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "3 units skipped", ended[1].Status().Description)
}
