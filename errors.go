package datagen

import "errors"

// ErrAllocationFailure is returned by the bulk pre-allocation helper
// when the NUMA-local (or fallback) allocator could not satisfy a
// request. It never corrupts the generator that returned it.
var ErrAllocationFailure = errors.New("datagen: allocation failure")

// ErrTopologyUnavailable marks a topology query failure. The engine
// never surfaces this to callers directly — it is recovered locally by
// degrading to a single-node view and logged as a warning — but it is
// exported so ProbeTopology callers that want to distinguish "queried
// and found one node" from "couldn't query" can check for it via
// errors.Is on a wrapped error, should a future Provider choose to
// return one instead of degrading silently.
var ErrTopologyUnavailable = errors.New("datagen: topology unavailable")
