// Package alloc implements the bulk pre-allocation helper that is an
// adjunct to the one-shot driver: allocating many page-backed byte
// regions up front, each first-touched on its target NUMA node, with
// negligible per-region overhead.
//
// Grounded on gcsfuse's internal/block.GenBlockPool, which caps
// concurrent block allocation with a golang.org/x/sync/semaphore.Weighted
// rather than an unbounded goroutine-per-block fan-out; that same cap
// here bounds how many first-touch passes (internal/topology's
// AllocateLocal) run at once, since first-touch is itself a sequential
// page-walk per region and an unbounded fan-out would just thrash the
// memory controller instead of saturating it.
package alloc

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/semaphore"

	"github.com/synthstore/datagen/internal/logger"
	"github.com/synthstore/datagen/internal/topology"
)

// ErrAllocationFailure wraps a failure to satisfy a bulk request.
type ErrAllocationFailure struct {
	Requested int
	Failed    int
}

func (e *ErrAllocationFailure) Error() string {
	return fmt.Sprintf("alloc: %d of %d regions could not be allocated", e.Failed, e.Requested)
}

// Region is one bulk-allocated byte region plus whether it landed on
// its requested node (Local=false means a fallback default allocation
// was used).
type Region struct {
	Bytes []byte
	Local bool
}

// Bulk allocates count regions of size bytes each, bound to node when
// provider supports it, running up to runtime.NumCPU() first-touch
// passes concurrently. It returns partial results with
// *ErrAllocationFailure if any region could not be allocated at all.
func Bulk(ctx context.Context, provider topology.Provider, node, count, size int) ([]Region, error) {
	if count <= 0 {
		return nil, nil
	}

	sem := semaphore.NewWeighted(int64(runtime.NumCPU()))
	regions := make([]Region, count)
	failures := make([]bool, count)

	for i := 0; i < count; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			return regions[:i], fmt.Errorf("alloc: acquiring allocation slot for region %d: %w", i, err)
		}
		go func(i int) {
			defer sem.Release(1)
			buf, ok, err := provider.AllocateLocal(node, size)
			if err != nil {
				logger.Warnf("alloc: region %d on node %d failed: %v", i, node, err)
				failures[i] = true
				return
			}
			regions[i] = Region{Bytes: buf, Local: ok}
		}(i)
	}

	// Drain the remaining in-flight slots so every goroutine above has
	// finished writing into regions/failures before we inspect them.
	if err := sem.Acquire(ctx, int64(runtime.NumCPU())); err != nil {
		return regions, fmt.Errorf("alloc: waiting for bulk allocation to drain: %w", err)
	}
	sem.Release(int64(runtime.NumCPU()))

	failed := 0
	for _, f := range failures {
		if f {
			failed++
		}
	}
	if failed > 0 {
		return regions, &ErrAllocationFailure{Requested: count, Failed: failed}
	}
	return regions, nil
}
