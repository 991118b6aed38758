// Package datagen generates large volumes of synthetic byte data for
// storage benchmarking at memory-bandwidth-class throughput, with a
// tunable, reproducible deduplication factor and compression factor.
//
// A Generator is built once from a Config and produces output through
// repeated FillChunk calls, or in one shot via OneShot. For fixed
// inputs (TotalSize, DedupFactor, CompressFactor, Seed) the output byte
// sequence is identical across runs, hosts, and worker counts; NumaMode,
// NumaNode, MaxThreads, and ChunkSize affect performance only.
package datagen
