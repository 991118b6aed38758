package datagen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthstore/datagen/internal/verify"
)

func TestOneShotRejectsMismatchedBufferLength(t *testing.T) {
	cfg := Config{TotalSize: BlockSize}
	out := make([]byte, BlockSize-1)

	err := OneShot(context.Background(), cfg, nil, out)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestOneShotExactSingleBlock(t *testing.T) {
	seed := uint64(42)
	cfg := Config{TotalSize: BlockSize, Seed: &seed}
	out := make([]byte, BlockSize)

	err := OneShot(context.Background(), cfg, nil, out)
	assert.NoError(t, err)
	assert.Len(t, out, int(BlockSize))
}

// TestOneShotAchievesTargetCompressionRatio runs enough unique,
// deduplication-free blocks through a general-purpose compressor to
// confirm CompressFactor actually lands near its target ratio, not just
// that the back-reference arithmetic in plan_test.go adds up.
func TestOneShotAchievesTargetCompressionRatio(t *testing.T) {
	seed := uint64(7)
	compress := uint64(3)
	cfg := Config{TotalSize: 16 * BlockSize, CompressFactor: &compress, Seed: &seed}
	out := make([]byte, cfg.TotalSize)

	require.NoError(t, OneShot(context.Background(), cfg, nil, out))

	got, err := verify.CompressedSize(out)
	require.NoError(t, err)

	want := int(cfg.TotalSize / compress)
	assert.True(t, verify.WithinTolerance(got, want, 0.10),
		"compressed size %d not within 10%% of target %d (compress_factor=%d)", got, want, compress)
}
