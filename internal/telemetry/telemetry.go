// Package telemetry provides OpenTelemetry tracing for battles.
package telemetry

import (
	"context"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceVersion = "0.2.0"
	tracerPrefix   = "pokebattle/"
)

// Settings selects where spans go.
type Settings struct {
	// Endpoint is the OTLP/HTTP collector URL. Empty disables tracing.
	Endpoint string
	// ServiceName tags every span, e.g. "pokebattle-server".
	ServiceName string
}

// Enabled reports whether spans will be exported.
func (s Settings) Enabled() bool {
	return s.Endpoint != ""
}

// Setup installs a global tracer provider exporting over OTLP/HTTP.
// Headers and other exporter options still come from the standard OTEL_*
// environment variables. When tracing is disabled the global provider is
// left alone (a no-op) and the returned shutdown does nothing.
//
// Returns a shutdown function that should be called on application exit.
func Setup(ctx context.Context, s Settings) (shutdown func(context.Context) error, err error) {
	if !s.Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(s.Endpoint))
	if err != nil {
		return nil, err
	}

	name := s.ServiceName
	if name == "" {
		name = "pokebattle"
	}

	// Built without merging resource.Default() to avoid schema URL conflicts
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", name),
			attribute.String("service.version", serviceVersion),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.name", "go"),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a named tracer for the given component.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(tracerPrefix + name)
}

// NoopTracer returns a tracer that records nothing.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(tracerPrefix + "noop")
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
