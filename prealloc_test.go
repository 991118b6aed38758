package datagen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkPreallocateReturnsRequestedRegions(t *testing.T) {
	regions, err := BulkPreallocate(context.Background(), 0, 4, 4096)
	require.NoError(t, err)
	require.Len(t, regions, 4)
	for _, r := range regions {
		assert.Len(t, r.Bytes, 4096)
	}
}

func TestBulkPreallocateZeroCountIsEmpty(t *testing.T) {
	regions, err := BulkPreallocate(context.Background(), 0, 0, 4096)
	require.NoError(t, err)
	assert.Empty(t, regions)
}
