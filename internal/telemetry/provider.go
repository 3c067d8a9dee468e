// Package telemetry builds the OpenTelemetry tracer provider used by the
// sanctuary service.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultServiceName identifies the sanctuary in exported spans.
const DefaultServiceName = "sanctuary"

// Config configures tracing.
type Config struct {
	// Enabled selects the SDK provider; when false a no-op tracer is used.
	Enabled bool
	// Exporter is "stdout" or "none".
	Exporter string
	// Writer receives stdout spans; defaults to os.Stderr.
	Writer io.Writer
	// ServiceName defaults to DefaultServiceName.
	ServiceName string
	// SpanExporter overrides Exporter, used by tests.
	SpanExporter sdktrace.SpanExporter
}

// Provider wraps the tracer provider and hands out the service tracer.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	enabled  bool
}

// NewProvider creates the trace provider described by cfg.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer("noop")}, nil
	}

	exporter := cfg.SpanExporter
	if exporter == nil {
		switch cfg.Exporter {
		case "stdout", "":
			w := cfg.Writer
			if w == nil {
				w = os.Stderr
			}
			var err error
			exporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
			if err != nil {
				return nil, fmt.Errorf("create stdout exporter: %w", err)
			}
		case "none":
		default:
			return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
		}
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}
	provider := sdktrace.NewTracerProvider(opts...)

	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		enabled:  true,
	}, nil
}

// Tracer returns the configured tracer; it is a no-op tracer when disabled.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are recorded.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
