// Package observability wires OpenTelemetry trace export into Genkit's
// tracer provider. Genkit traces every flow execution; registering an OTLP
// exporter ships those spans to whatever collector the endpoint points at.
package observability

import (
	"context"
	"os"

	"github.com/firebase/genkit/go/core/tracing"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/lmeyers/treatybot/internal/log"
)

// ServiceName tags exported spans in the tracing backend.
const ServiceName = "treatybot"

// Config for trace export.
type Config struct {
	// Endpoint is the OTLP HTTP collector address (host:port). Empty
	// disables export entirely.
	Endpoint string

	// Environment is the deployment environment (dev, staging, prod).
	Environment string
}

// Setup registers an OTLP exporter with Genkit's TracerProvider and returns
// a shutdown function that flushes pending spans. With an empty endpoint it
// returns a no-op shutdown and exports nothing.
func Setup(ctx context.Context, cfg Config, logger log.Logger) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if cfg.Endpoint == "" {
		return noop, nil
	}

	// Genkit's TracerProvider reads service identity from the environment.
	_ = os.Setenv("OTEL_SERVICE_NAME", ServiceName)
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(), // collector is expected on the local network
	)
	if err != nil {
		logger.Warn("failed to create trace exporter, tracing disabled", "error", err)
		return noop, nil
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	logger.Debug("trace export enabled",
		"endpoint", cfg.Endpoint,
		"service", ServiceName,
		"environment", cfg.Environment)

	return tracing.TracerProvider().Shutdown, nil
}
