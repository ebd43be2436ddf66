package observability

import (
	"context"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/otlptranslator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	drawCounter    otelmetric.Int64Counter
	httpDuration   otelmetric.Float64Histogram
}

// Options tunes New. A nil Registerer means the default prometheus registry.
type Options struct {
	Registerer    promclient.Registerer
	SpanProcessor sdktrace.SpanProcessor
}

func New(serviceName string) *Observability {
	return NewWithOptions(serviceName, Options{})
}

func NewWithOptions(serviceName string, opts Options) *Observability {
	var traceOpts []sdktrace.TracerProviderOption
	if opts.SpanProcessor != nil {
		traceOpts = append(traceOpts, sdktrace.WithSpanProcessor(opts.SpanProcessor))
	}
	tp := sdktrace.NewTracerProvider(traceOpts...)
	o := &Observability{
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
	}

	// Dotted instrument names are exposed as oracle_draws_total and friends.
	exporterOpts := []prometheus.Option{
		prometheus.WithTranslationStrategy(otlptranslator.UnderscoreEscapingWithSuffixes),
	}
	if opts.Registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(opts.Registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	o.jobCounter, _ = meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	o.jobDuration, _ = meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	o.drawCounter, _ = meter.Int64Counter(
		"oracle.draws",
		otelmetric.WithDescription("Oracle readings produced"),
	)
	o.httpDuration, _ = meter.Float64Histogram(
		"http.request.duration",
		otelmetric.WithDescription("HTTP request duration"),
		otelmetric.WithUnit("ms"),
	)

	o.meterProvider = provider
	o.meter = meter
	return o
}

// StartSpan opens a span on the service tracer.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := o.tracer
	if tracer == nil {
		tracer = otel.Tracer("")
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordJobProcessed(ctx context.Context, status string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, duration time.Duration, status string) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

// RecordDraw counts one reading. source is "worker", "http" or "cli".
func (o *Observability) RecordDraw(ctx context.Context, source, card, tier string) {
	if o.drawCounter != nil {
		o.drawCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("source", source),
			attribute.String("card", card),
			attribute.String("tier", tier),
		))
	}
}

func (o *Observability) RecordRequestDuration(ctx context.Context, route string, status int, duration time.Duration) {
	if o.httpDuration != nil {
		o.httpDuration.Record(ctx, float64(duration.Microseconds())/1000, otelmetric.WithAttributes(
			attribute.String("route", route),
			attribute.Int("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
