package datagen

import (
	"context"
	"errors"
	"fmt"

	"github.com/synthstore/datagen/internal/alloc"
	"github.com/synthstore/datagen/internal/topology"
)

// PreallocatedRegion is one region returned by BulkPreallocate.
// Local reports whether the region's pages landed on the requested
// NUMA node; false means the platform fell back to a default
// allocation.
type PreallocatedRegion struct {
	Bytes []byte
	Local bool
}

// BulkPreallocate returns count writable byte regions of size bytes
// each, allocated directly through the platform's page-level mapping
// primitive and, where the platform supports it, first-touched on
// node so callers that pass NumaNode to a Generator can supply
// correctly-placed buffers. Callers are responsible for allocating
// their own buffers on the correct node; this is the helper that does
// it for them.
//
// A partial failure returns every region slot alongside a wrapped
// ErrAllocationFailure; a slot that could not be allocated has nil
// Bytes and Local=false, so a caller that cannot tolerate
// fallback-placed or missing regions should check each one.
func BulkPreallocate(ctx context.Context, node, count, size int) ([]PreallocatedRegion, error) {
	provider := topology.New()

	regions, err := alloc.Bulk(ctx, provider, node, count, size)
	out := make([]PreallocatedRegion, len(regions))
	for i, r := range regions {
		out[i] = PreallocatedRegion{Bytes: r.Bytes, Local: r.Local}
	}

	if err != nil {
		var failure *alloc.ErrAllocationFailure
		if errors.As(err, &failure) {
			return out, fmt.Errorf("%w: %v", ErrAllocationFailure, failure)
		}
		return out, fmt.Errorf("%w: %v", ErrAllocationFailure, err)
	}
	return out, nil
}
