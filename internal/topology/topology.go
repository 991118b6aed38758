// Package topology defines the NUMA/CPU topology contract the streaming
// engine and worker pool consume. The interface is deliberately narrow,
// covering just node count, per-node CPU list, a NUMA-local allocator,
// and thread pinning; everything else about topology discovery belongs
// to external tooling this module doesn't own.
//
// Grounded on gcsfuse's internal/perf/numa.go, which pins the whole
// gcsfuse process to a NUMA node via github.com/lrita/numa; this package
// generalizes that one-shot pinning into a reusable interface a
// worker pool can call per-worker.
package topology

import "errors"

// ErrUnavailable is returned by CPUsOfNode when a node's CPUs cannot be
// determined on a system without NUMA support; Snapshot recovers by
// recording no CPUs for that node.
var ErrUnavailable = errors.New("topology: NUMA topology unavailable")

// Provider is the contract the core consumes. The core never
// special-cases NumNodes()==1: pinning and first-touch become no-ops
// on a single-node system by construction.
type Provider interface {
	// NumNodes returns the number of memory domains on this system.
	// A system with no NUMA support reports 1.
	NumNodes() int

	// CPUsOfNode returns the logical CPU ids that belong to node.
	CPUsOfNode(node int) ([]int, error)

	// AllocateLocal returns a byte slice whose pages are bound to node
	// before first use, when the platform supports that; otherwise it
	// falls back to a plain heap allocation and reports the fallback
	// via ok=false.
	AllocateLocal(node int, nbytes int) (buf []byte, ok bool, err error)

	// PinCurrentThread pins the calling OS thread to cpu. Callers must
	// have already called runtime.LockOSThread. Returns
	// ErrPinUnsupported on platforms without affinity control.
	PinCurrentThread(cpu int) error
}

// ErrPinUnsupported is returned by PinCurrentThread on platforms with
// no thread-affinity primitive.
var ErrPinUnsupported = errors.New("topology: thread pinning unsupported on this platform")

// Probe is the read-only topology snapshot exposed to callers.
type Probe struct {
	NumNodes      int
	CPUsPerNode   [][]int
	TotalCPUs     int
	PhysicalCores int
	Deployment    string // "uma" or "numa"
}

// Snapshot builds a Probe from a Provider, degrading to a single-node
// UMA snapshot if node enumeration fails.
func Snapshot(p Provider, totalCPUs, physicalCores int) Probe {
	n := p.NumNodes()
	if n < 1 {
		n = 1
	}

	cpusPerNode := make([][]int, n)
	for node := 0; node < n; node++ {
		cpus, err := p.CPUsOfNode(node)
		if err != nil {
			cpusPerNode[node] = nil
			continue
		}
		cpusPerNode[node] = cpus
	}

	deployment := "uma"
	if n > 1 {
		deployment = "numa"
	}

	return Probe{
		NumNodes:      n,
		CPUsPerNode:   cpusPerNode,
		TotalCPUs:     totalCPUs,
		PhysicalCores: physicalCores,
		Deployment:    deployment,
	}
}
