// Package telemetry configures OpenTelemetry tracing for background jobs.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"csgview/internal/buildinfo"
)

// ServiceName identifies the viewer in exported traces.
const ServiceName = "csgview"

// Config selects the trace exporter. Tracing is off unless Endpoint is set.
type Config struct {
	Endpoint string
	Disabled bool
}

// Enabled reports whether Setup will register a provider.
func (c Config) Enabled() bool { return !c.Disabled && c.Endpoint != "" }

// Setup registers a global tracer provider exporting over OTLP/HTTP.
//
// When tracing is not enabled it returns a no-op shutdown and leaves the global
// provider untouched. The returned shutdown flushes pending spans.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(buildinfo.Short()),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}
