// Package readprof provides a sampled latency profiler for positional reads on
// local file handles.
//
// A [SampledReader] sits in front of an [io.ReaderAt] and times a random subset
// of ReadAt calls. Each timed call forwards its latency in milliseconds to a
// [LatencySink] and, the first time a read on that reader exceeds
// [SlowReadThresholdMillis], emits a single warning through a [Logger].
//
// The package is designed for high-throughput read paths: SampledReader methods
// are safe to call from multiple goroutines and the untimed path costs one
// random draw.
//
// # Architecture boundaries
//
// readprof is the public surface. It exposes [SampledReader], [File], [Config],
// [Metrics] and the collaborator interfaces ([Clock], [LatencySink], [Logger]).
// Remote aggregation lives in redissink, export in metrics/export/, and logger
// adapters in logging. Buffering for sinks that do I/O lives under internal/.
//
// # What this package must NOT do
//
//   - Wrap, translate or suppress errors returned by the underlying reader.
//   - Start goroutines or perform I/O other than the delegated read.
//   - Let a misbehaving sink or logger fail a read.
//
// # Performance contract
//
// An unsampled ReadAt adds one call to the runtime random generator and no
// allocation. A sampled ReadAt adds two clock reads and one sink call.
package readprof
