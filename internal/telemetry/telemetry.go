// Package telemetry настраивает OpenTelemetry трассировку сервера.
package telemetry

import (
	"context"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Provider - то, что нужно серверу от настроенной трассировки
type Provider struct {
	TracerProvider trace.TracerProvider
	Propagator     propagation.TextMapPropagator
	Shutdown       func(context.Context) error
}

// Setup initialises tracing for serviceName. Tracing is opt-in: with an empty
// endpoint a no-op provider is returned and nothing is exported.
// Shutdown flushes pending spans and should be deferred by the caller.
func Setup(ctx context.Context, serviceName, version, endpoint string) (*Provider, error) {
	propagator := propagation.TraceContext{}

	if endpoint == "" {
		return &Provider{
			TracerProvider: noop.NewTracerProvider(),
			Propagator:     propagator,
			Shutdown:       func(context.Context) error { return nil },
		}, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid otlp endpoint %q: want http(s)://host:port", endpoint)
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagator)

	return &Provider{
		TracerProvider: tp,
		Propagator:     propagator,
		Shutdown:       tp.Shutdown,
	}, nil
}
