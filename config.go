package datagen

import (
	"errors"
	"fmt"

	"github.com/synthstore/datagen/internal/plan"
)

// NumaMode controls whether the generator attempts topology-aware
// pinning.
type NumaMode int

const (
	// NumaAuto pins across all discovered nodes, spreading workers
	// round-robin, unless NumaNode is set.
	NumaAuto NumaMode = iota
	// NumaForced behaves like NumaAuto but is intended for callers that
	// want to assert pinning is in effect rather than silently degrade;
	// the core does not distinguish the two beyond that intent.
	NumaForced
	// NumaDisabled runs every worker unpinned.
	NumaDisabled
)

func (m NumaMode) String() string {
	switch m {
	case NumaAuto:
		return "auto"
	case NumaForced:
		return "forced"
	case NumaDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// DefaultChunkSize is the chunk size a Config uses when ChunkSize is 0.
const DefaultChunkSize = 32 * 1024 * 1024

// BlockSize is the fixed unit of parallelism and dedup identity,
// re-exported from internal/plan so callers never need to import an
// internal package to size their own buffers.
const BlockSize = plan.BlockSize

// ParallelThreshold is the chunk size below which FillChunk always
// takes the serial path.
const ParallelThreshold = 2 * BlockSize

// ErrInvalidConfig is returned by NewGenerator when a Config field
// violates its contract.
var ErrInvalidConfig = errors.New("datagen: invalid config")

// Config is the immutable configuration surface a Generator is built
// from. The zero value is a valid, unseeded request for zero bytes of
// incompressible, unique data with automatic topology handling;
// callers normally set at least TotalSize.
type Config struct {
	// TotalSize is the total number of bytes to produce.
	TotalSize uint64

	// DedupFactor is the average block-level duplication factor; 1
	// means all blocks are unique; nil also means 1. A pointer that
	// points at 0 is rejected rather than silently treated as 1.
	DedupFactor *uint64

	// CompressFactor is the target generic-compressor ratio; 1 means
	// incompressible; nil also means 1. A pointer that points at 0 is
	// rejected rather than silently treated as 1.
	CompressFactor *uint64

	// NumaMode selects the pinning policy (default NumaAuto).
	NumaMode NumaMode

	// NumaNode, when non-nil, binds the generator to one memory domain.
	NumaNode *int

	// MaxThreads caps the worker pool size; nil means hardware
	// concurrency.
	MaxThreads *int

	// ChunkSize is the effective chunk size hint; zero means
	// DefaultChunkSize. When set, it must be a positive multiple of
	// BlockSize.
	ChunkSize uint64

	// Seed, when non-nil, makes the run fully reproducible.
	Seed *uint64
}

// normalized is a Config with every optional field resolved to a
// concrete value, produced by validate.
type normalized struct {
	Config
	chunkSize      uint64
	dedupFactor    uint64
	compressFactor uint64
}

func validate(cfg Config) (normalized, error) {
	dedupFactor := uint64(1)
	if cfg.DedupFactor != nil {
		if *cfg.DedupFactor == 0 {
			return normalized{}, fmt.Errorf("datagen: dedup_factor must be positive: %w", ErrInvalidConfig)
		}
		dedupFactor = *cfg.DedupFactor
	}

	compressFactor := uint64(1)
	if cfg.CompressFactor != nil {
		if *cfg.CompressFactor == 0 {
			return normalized{}, fmt.Errorf("datagen: compress_factor must be positive: %w", ErrInvalidConfig)
		}
		compressFactor = *cfg.CompressFactor
	}

	chunkSize := cfg.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize%BlockSize != 0 {
		return normalized{}, fmt.Errorf("datagen: chunk_size %d is not a positive multiple of BlockSize (%d): %w", chunkSize, BlockSize, ErrInvalidConfig)
	}

	if cfg.MaxThreads != nil && *cfg.MaxThreads == 0 {
		return normalized{}, fmt.Errorf("datagen: max_threads must be positive: %w", ErrInvalidConfig)
	}

	return normalized{Config: cfg, chunkSize: chunkSize, dedupFactor: dedupFactor, compressFactor: compressFactor}, nil
}
