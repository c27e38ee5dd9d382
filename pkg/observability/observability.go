package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Black-And-White-Club/guild-sidecar/pkg/observability/guildmetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Config configures logging, metrics and tracing for one process.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	LogLevel    slog.Level
	// Output receives log lines; defaults to nothing when nil.
	Output io.Writer

	// OTLPEndpoint is the OTLP/HTTP traces URL. Empty leaves spans unexported.
	OTLPEndpoint string
	// TraceSampleRate is the fraction of root spans kept; zero or one keeps all.
	TraceSampleRate float64
}

// Observability is what modules pull their logger, metrics and tracer from.
type Observability struct {
	Logger       *slog.Logger
	Registry     *prometheus.Registry
	Tracer       trace.Tracer
	GuildMetrics guildmetrics.GuildHookMetrics

	shutdown func(context.Context) error
}

// Init builds the process-wide observability stack. When cfg.OTLPEndpoint is
// set, spans are batched to it and the provider is installed globally.
func Init(ctx context.Context, cfg Config) (*Observability, error) {
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel})).With(
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
		"version", cfg.Version,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	guildMetrics, err := guildmetrics.NewPrometheusMetrics(registry, "guild_sidecar")
	if err != nil {
		return nil, fmt.Errorf("failed to register guild metrics: %w", err)
	}

	obs := &Observability{
		Logger:       logger,
		Registry:     registry,
		Tracer:       otel.Tracer(cfg.ServiceName),
		GuildMetrics: guildMetrics,
		shutdown:     func(context.Context) error { return nil },
	}

	if cfg.OTLPEndpoint == "" {
		return obs, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tp, err := newTracerProvider(ctx, cfg, sdktrace.WithBatcher(exporter))
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	obs.Tracer = tp.Tracer(cfg.ServiceName)
	obs.shutdown = tp.Shutdown

	logger.InfoContext(ctx, "Tracing enabled", "otlp_endpoint", cfg.OTLPEndpoint, "sample_rate", cfg.TraceSampleRate)
	return obs, nil
}

// newTracerProvider builds an SDK provider carrying the service resource and
// cfg's sample rate. opts supply the span processors.
func newTracerProvider(ctx context.Context, cfg Config, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.TraceSampleRate > 0 && cfg.TraceSampleRate < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceSampleRate))
	}

	opts = append(opts,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	return sdktrace.NewTracerProvider(opts...), nil
}

// Shutdown flushes pending spans. It is a no-op when tracing is disabled.
func (o *Observability) Shutdown(ctx context.Context) error {
	return o.shutdown(ctx)
}
