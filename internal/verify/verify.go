// Package verify is a test-only helper for checking achieved compression
// ratios without shelling out to an external compressor binary.
//
// Grounded on klauspost/compress's flate package, the same family of
// LZ77-plus-Huffman compressor the back-reference scheme targets; it
// reappears here purely as a measurement tool, never in the hot path.
package verify

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/flate"
)

// CompressedSize runs data through flate at its default compression
// level and returns the resulting byte count, for comparing against
// total_size/compress_factor within a tolerance band.
func CompressedSize(data []byte) (int, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return 0, fmt.Errorf("verify: creating flate writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("verify: writing to flate stream: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("verify: closing flate stream: %w", err)
	}
	return buf.Len(), nil
}

// WithinTolerance reports whether got is within the given fraction of
// want (e.g. fraction=0.10 for a ±10% compression-ratio band).
func WithinTolerance(got, want int, fraction float64) bool {
	lo := float64(want) * (1 - fraction)
	hi := float64(want) * (1 + fraction)
	g := float64(got)
	return g >= lo && g <= hi
}

// DistinctAlignedBlocks counts how many byte-distinct block-aligned
// blocks appear in data, for checking dedup behavior without
// re-deriving unique indices from the plan.
func DistinctAlignedBlocks(data []byte, blockSize int) int {
	seen := make(map[string]struct{})
	for off := 0; off+blockSize <= len(data); off += blockSize {
		seen[string(data[off:off+blockSize])] = struct{}{}
	}
	if rem := len(data) % blockSize; rem != 0 {
		seen[string(data[len(data)-rem:])] = struct{}{}
	}
	return len(seen)
}
