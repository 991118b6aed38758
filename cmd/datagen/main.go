// Command datagen is a thin illustrative driver over the datagen
// library, not a full-featured CLI. It exists to give the library an
// exercised, runnable entry point the way gcsfuse's cmd/root.go wires
// pflag onto its own config surface.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/synthstore/datagen"
)

func main() {
	var (
		totalSize      = pflag.Int64("size", 0, "total bytes to generate")
		dedupFactor    = pflag.Uint64("dedup", 1, "average block-level duplication factor")
		compressFactor = pflag.Uint64("compress", 1, "target generic-compressor ratio")
		seed           = pflag.Int64("seed", -1, "64-bit seed; negative means non-deterministic")
		numaDisabled   = pflag.Bool("no-numa", false, "disable NUMA-aware pinning")
		probeOnly      = pflag.Bool("probe", false, "print the topology probe and exit")
	)
	pflag.Parse()

	if *probeOnly {
		printProbe()
		return
	}

	if *totalSize <= 0 {
		fmt.Fprintln(os.Stderr, "datagen: --size must be positive")
		os.Exit(2)
	}

	cfg := datagen.Config{
		TotalSize:      uint64(*totalSize),
		DedupFactor:    dedupFactor,
		CompressFactor: compressFactor,
	}
	if *numaDisabled {
		cfg.NumaMode = datagen.NumaDisabled
	}
	if *seed >= 0 {
		s := uint64(*seed)
		cfg.Seed = &s
	}

	out := make([]byte, cfg.TotalSize)
	if err := datagen.OneShot(context.Background(), cfg, nil, out); err != nil {
		fmt.Fprintf(os.Stderr, "datagen: %v\n", err)
		os.Exit(1)
	}

	if _, err := os.Stdout.Write(out); err != nil {
		fmt.Fprintf(os.Stderr, "datagen: writing output: %v\n", err)
		os.Exit(1)
	}
}

func printProbe() {
	p := datagen.ProbeTopology()
	fmt.Printf("deployment=%s nodes=%d total_cpus=%d physical_cores=%d\n",
		p.Deployment, p.NumNodes, p.TotalCPUs, p.PhysicalCores)
	for node, cpus := range p.CPUsPerNode {
		fmt.Printf("node %d: cpus=%v\n", node, cpus)
	}
}
