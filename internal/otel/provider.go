// Package otel sets up the OpenTelemetry pipelines: logs behind the slog
// bridge and metrics behind the global meter.
package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ErrNoExporter is returned when OTel is enabled with nowhere to send data.
var ErrNoExporter = errors.New("otel enabled but no log writer or endpoint configured")

// Config selects the exporters. LogWriter receives pretty-printed JSON
// records and metrics; Endpoint, when set, adds OTLP/HTTP exporters.
type Config struct {
	Enabled        bool
	ServiceName    string
	BatchTimeout   time.Duration
	MetricInterval time.Duration
	LogWriter      io.Writer
	Endpoint       string
	Insecure       bool
}

// Provider owns the SDK logger and meter providers. A disabled Provider is
// a no-op.
type Provider struct {
	lp *sdklog.LoggerProvider
	mp *sdkmetric.MeterProvider
}

// New builds the providers described by cfg. Call Install to route the
// global meter to them.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}
	if cfg.LogWriter == nil && cfg.Endpoint == "" {
		return nil, ErrNoExporter
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	logExporters, err := newLogExporters(ctx, cfg)
	if err != nil {
		return nil, err
	}
	readers, err := newMetricReaders(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var batchOpts []sdklog.BatchProcessorOption
	if cfg.BatchTimeout > 0 {
		batchOpts = append(batchOpts, sdklog.WithExportTimeout(cfg.BatchTimeout))
	}
	logOpts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
	for _, exp := range logExporters {
		logOpts = append(logOpts, sdklog.WithProcessor(sdklog.NewBatchProcessor(exp, batchOpts...)))
	}

	metricOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		metricOpts = append(metricOpts, sdkmetric.WithReader(r))
	}

	return &Provider{
		lp: sdklog.NewLoggerProvider(logOpts...),
		mp: sdkmetric.NewMeterProvider(metricOpts...),
	}, nil
}

func newLogExporters(ctx context.Context, cfg Config) ([]sdklog.Exporter, error) {
	var out []sdklog.Exporter

	if cfg.LogWriter != nil {
		exp, err := stdoutlog.New(stdoutlog.WithWriter(cfg.LogWriter), stdoutlog.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create file log exporter: %w", err)
		}
		out = append(out, exp)
	}

	if cfg.Endpoint != "" {
		httpOpts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			httpOpts = append(httpOpts, otlploghttp.WithInsecure())
		}
		exp, err := otlploghttp.New(ctx, httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
		}
		out = append(out, exp)
	}

	return out, nil
}

func newMetricReaders(ctx context.Context, cfg Config) ([]sdkmetric.Reader, error) {
	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}

	var out []sdkmetric.Reader

	if cfg.LogWriter != nil {
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(cfg.LogWriter), stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create file metric exporter: %w", err)
		}
		out = append(out, sdkmetric.NewPeriodicReader(exp, readerOpts...))
	}

	if cfg.Endpoint != "" {
		httpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			httpOpts = append(httpOpts, otlpmetrichttp.WithInsecure())
		}
		exp, err := otlpmetrichttp.New(ctx, httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
		}
		out = append(out, sdkmetric.NewPeriodicReader(exp, readerOpts...))
	}

	return out, nil
}

// Install makes the meter provider the global one, so the dispatcher and
// reconciler counters are exported. It does nothing when disabled.
func (p *Provider) Install() {
	if p.mp != nil {
		otel.SetMeterProvider(p.mp)
	}
}

// LoggerProvider is nil when the provider is disabled.
func (p *Provider) LoggerProvider() *sdklog.LoggerProvider {
	return p.lp
}

// MeterProvider is nil when the provider is disabled.
func (p *Provider) MeterProvider() *sdkmetric.MeterProvider {
	return p.mp
}

func (p *Provider) Enabled() bool {
	return p.lp != nil
}

// Flush exports buffered records and collected metrics.
func (p *Provider) Flush(ctx context.Context) error {
	if p.lp == nil {
		return nil
	}
	if err := p.lp.ForceFlush(ctx); err != nil {
		return fmt.Errorf("log flush failed: %w", err)
	}
	if err := p.mp.ForceFlush(ctx); err != nil {
		return fmt.Errorf("metric flush failed: %w", err)
	}
	return nil
}

// Shutdown flushes and stops every exporter. Call it once on exit.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.lp == nil {
		return nil
	}
	return errors.Join(
		wrap("log shutdown failed", p.lp.Shutdown(ctx)),
		wrap("metric shutdown failed", p.mp.Shutdown(ctx)),
	)
}

func wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
