// Package metrics exposes the generator's optional observability surface:
// blocks filled, bytes generated, and chunk-fill latency. Grounded on
// gcsfuse's metrics package (metric_handle.go's interface-plus-noop
// pattern and common/otel_metrics.go's instrument setup), scaled down to
// the three counters/histograms this library actually produces.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Recorder is the observability surface a Generator reports to. Callers
// that don't care about metrics pass NoOp(), which costs one interface
// call per report and nothing else.
type Recorder interface {
	// BlockFilled is reported once per block-fill, whether or not it
	// was a cache-style dedup repeat (the core never skips the RNG
	// work for a repeated unique_index, so every block fill is real
	// work and worth counting).
	BlockFilled(ctx context.Context)

	// BytesGenerated is reported once per fill_chunk call with the
	// number of bytes actually written.
	BytesGenerated(ctx context.Context, n int64)

	// ChunkFillLatency is reported once per fill_chunk call.
	ChunkFillLatency(ctx context.Context, d time.Duration)
}

// NoOp returns a Recorder that discards every report, used as the
// default when a caller supplies none (mirrors gcsfuse's noopMetrics).
func NoOp() Recorder { return noopRecorder{} }

type noopRecorder struct{}

func (noopRecorder) BlockFilled(context.Context)                    {}
func (noopRecorder) BytesGenerated(context.Context, int64)          {}
func (noopRecorder) ChunkFillLatency(context.Context, time.Duration) {}

// otelRecorder reports through the OpenTelemetry metric API. Instrument
// creation errors are treated as "observability is unavailable" rather
// than fatal, matching gcsfuse's otel_metrics.go logging-and-continuing
// on instrument registration failure.
type otelRecorder struct {
	blocksFilled  metric.Int64Counter
	bytesCounter  metric.Int64Counter
	fillLatencyMs metric.Float64Histogram
}

// NewOTel builds a Recorder backed by meter. On instrument-creation
// failure it falls back to NoOp() for the affected instrument only.
func NewOTel(meter metric.Meter) Recorder {
	r := &otelRecorder{}

	if c, err := meter.Int64Counter(
		"datagen.blocks_filled",
		metric.WithDescription("number of blocks filled by the generator"),
		metric.WithUnit("{block}"),
	); err == nil {
		r.blocksFilled = c
	}

	if c, err := meter.Int64Counter(
		"datagen.bytes_generated",
		metric.WithDescription("bytes written by fill_chunk calls"),
		metric.WithUnit("By"),
	); err == nil {
		r.bytesCounter = c
	}

	if h, err := meter.Float64Histogram(
		"datagen.chunk_fill_latency",
		metric.WithDescription("wall-clock duration of a fill_chunk call"),
		metric.WithUnit("ms"),
	); err == nil {
		r.fillLatencyMs = h
	}

	return r
}

func (r *otelRecorder) BlockFilled(ctx context.Context) {
	if r.blocksFilled != nil {
		r.blocksFilled.Add(ctx, 1)
	}
}

func (r *otelRecorder) BytesGenerated(ctx context.Context, n int64) {
	if r.bytesCounter != nil {
		r.bytesCounter.Add(ctx, n)
	}
}

func (r *otelRecorder) ChunkFillLatency(ctx context.Context, d time.Duration) {
	if r.fillLatencyMs != nil {
		r.fillLatencyMs.Record(ctx, float64(d.Microseconds())/1000.0)
	}
}

// noopMeter is the package-internal otel no-op meter behind
// NewNoopOTel, for constructing a Recorder in tests without standing up
// a full otel SDK pipeline.
var noopMeter = noop.NewMeterProvider().Meter("datagen")

// NewNoopOTel builds an otelRecorder wired to otel's own no-op meter,
// exercising the same construction path as NewOTel without requiring a
// real metrics exporter — useful for tests that want to assert the
// otel wiring compiles and never panics rather than what values reach
// a backend.
func NewNoopOTel() Recorder { return NewOTel(noopMeter) }

// NewSDKRecorder builds a Recorder backed by a real OpenTelemetry SDK
// MeterProvider with a ManualReader, for callers that want to pull
// recorded metrics out in-process (e.g. a benchmark harness printing a
// summary at the end of a run) without standing up a push exporter.
// The caller owns the returned reader and should call its Collect or
// Shutdown method when done.
func NewSDKRecorder(serviceName string) (Recorder, *sdkmetric.ManualReader) {
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	return NewOTel(provider.Meter("datagen")), reader
}
