// Package tracing sets up OpenTelemetry export to Jaeger and names the spans
// the demo generator emits per stage.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Config struct {
	Enabled     bool
	Endpoint    string // Jaeger collector, e.g. http://localhost:14268/api/traces
	ServiceName string
	Environment string
}

// Span attributes set on demo spans.
const (
	StageKey   = attribute.Key("demo.stage")
	SkippedKey = attribute.Key("demo.skipped")
)

// Provider hands out tracers for the server's components. The zero value and
// a nil *Provider hand out no-op tracers.
type Provider struct {
	service string
	sdk     *tracesdk.TracerProvider
}

// Setup builds the provider described by cfg. Only an enabled provider is
// installed as the global otel provider and propagator.
func Setup(ctx context.Context, cfg Config) (*Provider, error) {
	p := &Provider{service: cfg.ServiceName}
	if p.service == "" {
		p.service = "stagebook"
	}
	if !cfg.Enabled {
		return p, nil
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.Endpoint)))
	if err != nil {
		return nil, fmt.Errorf("jaeger exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(p.service),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("trace resource: %w", err)
	}

	p.sdk = tracesdk.NewTracerProvider(tracesdk.WithBatcher(exp), tracesdk.WithResource(res))
	otel.SetTracerProvider(p.sdk)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return p, nil
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool { return p != nil && p.sdk != nil }

// Tracer returns the tracer for one component, e.g. "http" or "demo".
func (p *Provider) Tracer(component string) trace.Tracer {
	if !p.Enabled() {
		return noop.NewTracerProvider().Tracer(component)
	}
	return p.sdk.Tracer(p.service + "/" + component)
}

// Shutdown flushes pending spans. It is a no-op when tracing is disabled.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

// StartStage opens the span of one generation stage.
func StartStage(ctx context.Context, tr trace.Tracer, stage string) (context.Context, trace.Span) {
	return tr.Start(ctx, "demo."+stage, trace.WithAttributes(StageKey.String(stage)))
}

// EndStage records how many units the stage skipped and ends the span. A stage
// with skipped units is marked as an error.
func EndStage(span trace.Span, skipped int) {
	span.SetAttributes(SkippedKey.Int(skipped))
	if skipped > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d units skipped", skipped))
	}
	span.End()
}
