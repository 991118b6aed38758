package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	numNodes int
	cpus     map[int][]int
	cpusErr  error
}

func (f fakeProvider) NumNodes() int { return f.numNodes }

func (f fakeProvider) CPUsOfNode(node int) ([]int, error) {
	if f.cpusErr != nil {
		return nil, f.cpusErr
	}
	return f.cpus[node], nil
}

func (f fakeProvider) AllocateLocal(node int, nbytes int) ([]byte, bool, error) {
	return make([]byte, nbytes), true, nil
}

func (f fakeProvider) PinCurrentThread(cpu int) error { return nil }

func TestSnapshotSingleNode(t *testing.T) {
	p := fakeProvider{numNodes: 1, cpus: map[int][]int{0: {0, 1, 2, 3}}}

	snap := Snapshot(p, 4, 4)

	assert.Equal(t, 1, snap.NumNodes)
	assert.Equal(t, "uma", snap.Deployment)
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, snap.CPUsPerNode)
}

func TestSnapshotMultiNode(t *testing.T) {
	p := fakeProvider{numNodes: 2, cpus: map[int][]int{0: {0, 1}, 1: {2, 3}}}

	snap := Snapshot(p, 4, 4)

	assert.Equal(t, 2, snap.NumNodes)
	assert.Equal(t, "numa", snap.Deployment)
	assert.Equal(t, []int{0, 1}, snap.CPUsPerNode[0])
	assert.Equal(t, []int{2, 3}, snap.CPUsPerNode[1])
}

func TestSnapshotDegradesOnNodeEnumerationFailure(t *testing.T) {
	p := fakeProvider{numNodes: 0}

	snap := Snapshot(p, 4, 4)

	assert.Equal(t, 1, snap.NumNodes, "num_nodes < 1 degrades to a single-node snapshot")
}

func TestSnapshotDegradesPerNodeOnCPUQueryFailure(t *testing.T) {
	p := fakeProvider{numNodes: 2, cpusErr: ErrUnavailable}

	snap := Snapshot(p, 4, 4)

	require.Len(t, snap.CPUsPerNode, 2)
	assert.Nil(t, snap.CPUsPerNode[0])
	assert.Nil(t, snap.CPUsPerNode[1])
}

