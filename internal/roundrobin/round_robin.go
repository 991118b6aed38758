// Package roundrobin hands out the elements of a fixed slice in cyclic
// order behind a mutex, for spreading pool workers across CPUs.
//
// Adapted from gcsfuse's roundrobinslice.RoundRobin[T]; reworked so the
// cursor advance is handled in Next, and renamed around what it hands
// out here (CPU ids) rather than a generic payload. There is no
// zero-length guard: Next panics on a Ring built from an empty slice.
package roundrobin

import "sync"

// Ring cycles through a fixed set of CPU ids.
type Ring struct {
	mu   sync.Mutex
	cpus []int
	next int
}

// NewRing returns a Ring over cpus. cpus must be non-empty.
func NewRing(cpus []int) *Ring {
	cp := make([]int, len(cpus))
	copy(cp, cpus)
	return &Ring{cpus: cp}
}

// Next returns the next CPU id in the cycle and advances it.
func (r *Ring) Next() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpu := r.cpus[r.next]
	r.next = (r.next + 1) % len(r.cpus)
	return cpu
}

// Len reports how many CPUs this ring cycles over.
func (r *Ring) Len() int {
	return len(r.cpus)
}
