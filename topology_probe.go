package datagen

import (
	"runtime"

	"github.com/synthstore/datagen/internal/topology"
)

// TopologyProbe is the read-only topology snapshot exposed to callers.
type TopologyProbe struct {
	NumNodes      int
	CPUsPerNode   [][]int
	TotalCPUs     int
	PhysicalCores int
	Deployment    string // "uma" or "numa"
}

// ProbeTopology queries the current process's NUMA topology. It never
// fails: a query failure degrades to a single-node snapshot.
func ProbeTopology() TopologyProbe {
	provider := topology.New()
	snap := topology.Snapshot(provider, runtime.NumCPU(), physicalCoreCount())
	return TopologyProbe{
		NumNodes:      snap.NumNodes,
		CPUsPerNode:   snap.CPUsPerNode,
		TotalCPUs:     snap.TotalCPUs,
		PhysicalCores: snap.PhysicalCores,
		Deployment:    snap.Deployment,
	}
}

// physicalCoreCount approximates physical core count as logical CPUs;
// Go's runtime does not expose hyperthread siblings.
func physicalCoreCount() int {
	return runtime.NumCPU()
}
