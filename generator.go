package datagen

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/synthstore/datagen/internal/blockfill"
	"github.com/synthstore/datagen/internal/logger"
	"github.com/synthstore/datagen/internal/metrics"
	"github.com/synthstore/datagen/internal/plan"
	"github.com/synthstore/datagen/internal/roundrobin"
	"github.com/synthstore/datagen/internal/topology"
	"github.com/synthstore/datagen/internal/workerpool"
)

// Generator is a stateful streaming data producer. A Generator is not
// safe for concurrent use by multiple goroutines: FillChunk, Reset, and
// SetSeed all mutate the same offset with no internal locking.
type Generator struct {
	cfg      normalized
	plan     plan.Plan
	pool     *workerpool.Pool
	recorder metrics.Recorder

	scratch sync.Pool // []byte of length BlockSize, for tail fills

	offset uint64
}

// NewGenerator validates cfg, builds the derived Plan, and starts the
// worker pool. The pool lives for the Generator's lifetime; call
// Close when done with it.
func NewGenerator(cfg Config, recorder metrics.Recorder) (*Generator, error) {
	norm, err := validate(cfg)
	if err != nil {
		return nil, err
	}
	if recorder == nil {
		recorder = metrics.NoOp()
	}

	p, err := plan.Build(norm.TotalSize, norm.dedupFactor, norm.compressFactor, norm.Seed)
	if err != nil {
		return nil, fmt.Errorf("datagen: %w: %v", ErrInvalidConfig, err)
	}

	provider := topology.New()
	probe := topology.Snapshot(provider, runtime.NumCPU(), runtime.NumCPU())

	n := numWorkers(norm.MaxThreads)
	pin := pinFuncFor(norm.NumaMode, norm.NumaNode, probe)

	g := &Generator{
		cfg:      norm,
		plan:     p,
		pool:     workerpool.New(n, provider, pin),
		recorder: recorder,
	}
	g.scratch.New = func() any { return make([]byte, BlockSize) }
	return g, nil
}

func numWorkers(maxThreads *int) int {
	hw := runtime.NumCPU()
	if maxThreads == nil {
		return hw
	}
	if *maxThreads < hw {
		return *maxThreads
	}
	return hw
}

// pinFuncFor builds the pinning policy: unpinned when there's no
// topology to exploit or pinning was disabled, otherwise a round-robin
// assignment of workers to CPUs within the requested node (or spread
// across all nodes when none was requested).
func pinFuncFor(mode NumaMode, node *int, probe topology.Probe) workerpool.PinFunc {
	if probe.NumNodes <= 1 || mode == NumaDisabled {
		return workerpool.Unpinned
	}

	if node != nil {
		cpus := probe.CPUsPerNode[*node%len(probe.CPUsPerNode)]
		if len(cpus) == 0 {
			return workerpool.Unpinned
		}
		ring := roundrobin.NewRing(cpus)
		return func(int) (int, bool) { return ring.Next(), true }
	}

	// No explicit node: spread workers round-robin across all nodes,
	// and within a node round-robin across its CPUs.
	rings := make([]*roundrobin.Ring, len(probe.CPUsPerNode))
	for i, cpus := range probe.CPUsPerNode {
		if len(cpus) > 0 {
			rings[i] = roundrobin.NewRing(cpus)
		}
	}
	numNodes := len(probe.CPUsPerNode)
	return func(workerID int) (int, bool) {
		node := workerID % numNodes
		ring := rings[node]
		if ring == nil {
			return 0, false
		}
		return ring.Next(), true
	}
}

// ChunkSize returns the generator's effective chunk size.
func (g *Generator) ChunkSize() uint64 { return g.cfg.chunkSize }

// TotalSize returns the configured total output size.
func (g *Generator) TotalSize() uint64 { return g.plan.TotalSize }

// Position returns the number of bytes emitted so far.
func (g *Generator) Position() uint64 { return g.offset }

// IsComplete reports whether every byte of the output has been emitted.
func (g *Generator) IsComplete() bool { return g.offset >= g.plan.TotalSize }

// Reset rewinds the generator to the beginning, keeping its current
// call entropy.
func (g *Generator) Reset() { g.offset = 0 }

// SetSeed replaces the generator's call entropy and rewinds it to the
// beginning, as if freshly constructed with the new seed.
func (g *Generator) SetSeed(seed uint64) {
	g.plan.CallEntropy = seed
	g.offset = 0
}

// Close stops the generator's worker pool. A Generator must not be used
// after Close.
func (g *Generator) Close() { g.pool.Stop() }

// FillChunk writes up to min(len(out), TotalSize()-Position()) bytes
// starting at the current position, advances the position, and returns
// the number of bytes written. It returns 0 only when the generator is
// already complete.
func (g *Generator) FillChunk(ctx context.Context, out []byte) (int, error) {
	writeLen := g.plan.TotalSize - g.offset
	if uint64(len(out)) < writeLen {
		writeLen = uint64(len(out))
	}
	if writeLen == 0 {
		return 0, nil
	}

	start := time.Now()

	firstBlock := g.offset / BlockSize
	lastBlockExclusive := ceilDiv(g.offset+writeLen, BlockSize)
	numBlocks := lastBlockExclusive - firstBlock

	slice := out[:writeLen]
	if numBlocks < 2 || writeLen < ParallelThreshold || g.pool.Size() == 1 {
		g.fillSerial(ctx, slice)
	} else if err := g.fillParallel(ctx, slice, firstBlock, numBlocks); err != nil {
		return 0, err
	}

	g.offset += writeLen
	g.recorder.ChunkFillLatency(ctx, time.Since(start))
	g.recorder.BytesGenerated(ctx, int64(writeLen))
	return int(writeLen), nil
}

// fillSerial fills out, which covers the absolute stream range
// [g.offset, g.offset+len(out)). That range need not start or end on a
// block boundary: a caller streaming with a chunk length that isn't a
// multiple of BlockSize leaves a partial block at either end across
// consecutive FillChunk calls. Each iteration fills the intersection of
// out with exactly one absolute block.
func (g *Generator) fillSerial(ctx context.Context, out []byte) {
	start := g.offset
	end := start + uint64(len(out))
	for pos := start; pos < end; {
		blockIndex := pos / BlockSize
		blockEnd := (blockIndex + 1) * BlockSize
		segEnd := end
		if blockEnd < segEnd {
			segEnd = blockEnd
		}
		startOff := pos - blockIndex*BlockSize
		g.fillOneBlock(out[pos-start:segEnd-start], blockIndex, startOff)
		g.recorder.BlockFilled(ctx)
		pos = segEnd
	}
}

func (g *Generator) fillParallel(ctx context.Context, out []byte, firstBlock, numBlocks uint64) error {
	start := g.offset
	end := start + uint64(len(out))
	return g.pool.ParallelForEach(ctx, int(numBlocks), func(k int) error {
		blockIndex := firstBlock + uint64(k)
		blockStart := blockIndex * BlockSize
		blockEnd := blockStart + BlockSize

		segStart := blockStart
		if segStart < start {
			segStart = start
		}
		segEnd := blockEnd
		if segEnd > end {
			segEnd = end
		}

		startOff := segStart - blockStart
		g.fillOneBlock(out[segStart-start:segEnd-start], blockIndex, startOff)
		g.recorder.BlockFilled(ctx)
		return nil
	})
}

// fillOneBlock fills dst with the bytes of block blockIndex starting at
// intra-block offset startOff. dst is the full block only when startOff
// is 0 and len(dst) == BlockSize; otherwise it is a sub-range (the head,
// an interior span, or the tail of the block, depending on where the
// caller's buffer boundaries fell).
func (g *Generator) fillOneBlock(dst []byte, blockIndex, startOff uint64) {
	uniqueIndex := blockIndex % g.plan.UniqueBlocks
	copyLen := g.plan.CopyLens[uniqueIndex]

	if logger.Enabled(-4) { // slog.LevelDebug
		logger.Debugf("blockfill: block=%d unique=%d copy_len=%d start_off=%d out_len=%d", blockIndex, uniqueIndex, copyLen, startOff, len(dst))
	}

	if startOff == 0 && len(dst) == BlockSize {
		blockfill.Fill(dst, uniqueIndex, copyLen, g.plan.CallEntropy)
		return
	}

	scratch := g.scratch.Get().([]byte)
	blockfill.Fill(scratch, uniqueIndex, copyLen, g.plan.CallEntropy)
	copy(dst, scratch[startOff:startOff+uint64(len(dst))])
	g.scratch.Put(scratch)
}

func ceilDiv(a, b uint64) uint64 {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}
