package datagen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeTopologyReportsAtLeastOneNode(t *testing.T) {
	p := ProbeTopology()

	assert.GreaterOrEqual(t, p.NumNodes, 1)
	assert.GreaterOrEqual(t, p.TotalCPUs, 1)
	assert.Contains(t, []string{"uma", "numa"}, p.Deployment)
	assert.Len(t, p.CPUsPerNode, p.NumNodes)
}
