package alloc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	failNode int
	fail     bool
}

func (f fakeProvider) NumNodes() int { return 1 }

func (f fakeProvider) CPUsOfNode(node int) ([]int, error) { return []int{0}, nil }

func (f fakeProvider) AllocateLocal(node int, nbytes int) ([]byte, bool, error) {
	if f.fail && node == f.failNode {
		return nil, false, errors.New("fake allocation failure")
	}
	return make([]byte, nbytes), true, nil
}

func (f fakeProvider) PinCurrentThread(cpu int) error { return nil }

func TestBulkAllocatesRequestedCount(t *testing.T) {
	regions, err := Bulk(context.Background(), fakeProvider{}, 0, 8, 4096)
	require.NoError(t, err)
	require.Len(t, regions, 8)
	for _, r := range regions {
		assert.Len(t, r.Bytes, 4096)
		assert.True(t, r.Local)
	}
}

func TestBulkZeroCountIsNoop(t *testing.T) {
	regions, err := Bulk(context.Background(), fakeProvider{}, 0, 0, 4096)
	assert.NoError(t, err)
	assert.Nil(t, regions)
}

func TestBulkReportsPartialFailure(t *testing.T) {
	regions, err := Bulk(context.Background(), fakeProvider{fail: true, failNode: 0}, 0, 4, 1024)
	require.Error(t, err)

	var allocErr *ErrAllocationFailure
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, 4, allocErr.Requested)
	assert.Equal(t, 4, allocErr.Failed)
	assert.Len(t, regions, 4)
}
