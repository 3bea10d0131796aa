package cliutil

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// SetupTracing installs an OTLP HTTP trace exporter as the global tracer
// provider. The exporter reads the standard OTEL_EXPORTER_OTLP_* env vars;
// at a minimum OTEL_EXPORTER_OTLP_ENDPOINT must be set. The returned func
// flushes and stops the exporter.
func SetupTracing(ctx context.Context, service, env string) (func(context.Context) error, error) {
	if env == "" {
		env = "dev"
	}

	exp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(service),
			attribute.String("env", env),         // DataDog
			attribute.String("environment", env), // Others
		)),
	)
	otel.SetTracerProvider(tp)
	slog.Info("trace exporter configured", "service", service, "env", env)

	return tp.Shutdown, nil
}
