package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthstore/datagen/internal/blockfill"
)

func TestCompressedSizeOfZerosIsTiny(t *testing.T) {
	data := make([]byte, 1<<20)
	size, err := CompressedSize(data)
	require.NoError(t, err)
	assert.Less(t, size, len(data)/100)
}

func TestCompressedSizeOfKeystreamIsIncompressible(t *testing.T) {
	out := make([]byte, 1<<20)
	blockfill.Fill(out, 0, 0, 1)

	size, err := CompressedSize(out)
	require.NoError(t, err)
	assert.True(t, WithinTolerance(size, len(out), 0.1))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(95, 100, 0.1))
	assert.True(t, WithinTolerance(105, 100, 0.1))
	assert.False(t, WithinTolerance(80, 100, 0.1))
}

func TestDistinctAlignedBlocksCountsDuplicates(t *testing.T) {
	block := make([]byte, 16)
	for i := range block {
		block[i] = byte(i)
	}
	data := append(append([]byte{}, block...), block...)

	assert.Equal(t, 1, DistinctAlignedBlocks(data, 16))
}
