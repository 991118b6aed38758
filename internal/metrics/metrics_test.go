package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNoOpNeverPanics(t *testing.T) {
	r := NoOp()
	assert.NotPanics(t, func() {
		r.BlockFilled(context.Background())
		r.BytesGenerated(context.Background(), 4096)
		r.ChunkFillLatency(context.Background(), 5*time.Millisecond)
	})
}

func TestNewNoopOTelNeverPanics(t *testing.T) {
	r := NewNoopOTel()
	assert.NotPanics(t, func() {
		r.BlockFilled(context.Background())
		r.BytesGenerated(context.Background(), 1)
		r.ChunkFillLatency(context.Background(), time.Millisecond)
	})
}

func TestNewSDKRecorderCollectsReportedValues(t *testing.T) {
	r, reader := NewSDKRecorder("datagen-test")

	ctx := context.Background()
	r.BlockFilled(ctx)
	r.BytesGenerated(ctx, 4096)
	r.ChunkFillLatency(ctx, 2*time.Millisecond)

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &data))
	require.NotEmpty(t, data.ScopeMetrics)

	var names []string
	for _, sm := range data.ScopeMetrics {
		for _, m := range sm.Metrics {
			names = append(names, m.Name)
		}
	}
	assert.Contains(t, names, "datagen.blocks_filled")
	assert.Contains(t, names, "datagen.bytes_generated")
	assert.Contains(t, names, "datagen.chunk_fill_latency")
}
