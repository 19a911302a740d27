// Package telemetry wires OpenTelemetry tracing around the evaluation
// pipeline. Spans export over OTLP/HTTP; the collector endpoint and auth
// headers come from the standard OTEL_EXPORTER_OTLP_* environment
// variables.
package telemetry

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const defaultTracerName = "skillgrade"

// Config selects whether spans are recorded and how they are sampled.
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	// SamplerType is "always", "never", or "ratio". SamplerRatio only
	// applies to the ratio sampler.
	SamplerType  string
	SamplerRatio float64
}

func (c Config) sampler() sdktrace.Sampler {
	switch c.SamplerType {
	case "never":
		return sdktrace.NeverSample()
	case "ratio":
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SamplerRatio))
	default:
		return sdktrace.AlwaysSample()
	}
}

// InitTracer installs the global tracer provider and propagators. The
// returned shutdown flushes buffered spans and must run before exit; it
// is a no-op when tracing is disabled.
func InitTracer(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	))
	if err != nil {
		return nil, errors.Wrap(err, "building trace resource")
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "creating OTLP trace exporter")
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
		sdktrace.WithSampler(cfg.sampler()),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Provider shutdown drains the batcher and closes the exporter.
	return provider.Shutdown, nil
}
