package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// Options configures New.
type Options struct {
	ServiceName    string
	JaegerEndpoint string
	// Registerer receives the otel prometheus collector; nil means prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// Observability owns the otel meter and tracer providers of one service process.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	recommendations  otelmetric.Int64Counter
	recommendLatency otelmetric.Float64Histogram
	productsReturned otelmetric.Int64Histogram
}

// New wires otel metrics to prometheus and, when an endpoint is set, traces to a Jaeger collector.
// Exporter failures are logged and leave the corresponding signal local-only.
func New(opts Options, log Logger) *Observability {
	var readers []metric.Option
	promOpts := []otelprom.Option{}
	if opts.Registerer != nil {
		promOpts = append(promOpts, otelprom.WithRegisterer(opts.Registerer))
	}
	if exporter, err := otelprom.New(promOpts...); err != nil {
		log.Warn("otel prometheus exporter unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		readers = append(readers, metric.WithReader(exporter))
	}

	var traceOpts []sdktrace.TracerProviderOption
	if opts.JaegerEndpoint != "" {
		exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.JaegerEndpoint)))
		if err != nil {
			log.Warn("jaeger exporter unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			traceOpts = append(traceOpts, sdktrace.WithBatcher(exp))
			log.Info("tracing to jaeger", map[string]interface{}{"endpoint": opts.JaegerEndpoint})
		}
	}

	o := build(opts.ServiceName, metric.NewMeterProvider(readers...), sdktrace.NewTracerProvider(traceOpts...))
	otel.SetMeterProvider(o.meterProvider)
	otel.SetTracerProvider(o.tracerProvider)
	return o
}

// NewNoop returns providers that record locally and export nothing. Used in tests.
func NewNoop() *Observability {
	return build("test", metric.NewMeterProvider(), sdktrace.NewTracerProvider())
}

func build(serviceName string, mp *metric.MeterProvider, tp *sdktrace.TracerProvider) *Observability {
	meter := mp.Meter(serviceName)

	recommendations, _ := meter.Int64Counter(
		"recommendations.processed",
		otelmetric.WithDescription("Number of recommendation requests processed"),
	)
	recommendLatency, _ := meter.Float64Histogram(
		"recommendations.duration",
		otelmetric.WithDescription("Recommendation processing duration"),
		otelmetric.WithUnit("ms"),
	)
	productsReturned, _ := meter.Int64Histogram(
		"recommendations.products",
		otelmetric.WithDescription("Products returned per recommendation"),
	)

	return &Observability{
		meterProvider:    mp,
		tracerProvider:   tp,
		tracer:           tp.Tracer(serviceName),
		recommendations:  recommendations,
		recommendLatency: recommendLatency,
		productsReturned: productsReturned,
	}
}

// StartSpan starts a span named name under ctx. A nil receiver returns the span already in ctx.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordRecommendation counts one finished request of the given variant.
func (o *Observability) RecordRecommendation(ctx context.Context, variant, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("variant", variant),
		attribute.String("status", status),
	)
	if o.recommendations != nil {
		o.recommendations.Add(ctx, 1, attrs)
	}
	if o.recommendLatency != nil {
		o.recommendLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// RecordProducts records how many catalog products a reconciliation returned.
func (o *Observability) RecordProducts(ctx context.Context, count int) {
	if o != nil && o.productsReturned != nil {
		o.productsReturned.Record(ctx, int64(count))
	}
}

func (o *Observability) Shutdown(ctx context.Context) {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
