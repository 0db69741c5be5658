// Package dispatch implements buffered, asynchronous delivery of latency
// samples to sinks that perform I/O.
//
// # Components
//
//   - [Handler] receives batches of values on the dispatcher goroutine.
//   - [Dispatcher] is a buffered relay with drop-if-full / block-if-full semantics.
//
// # Architecture boundaries
//
// This package owns buffering and batching. It does NOT decide what is sampled;
// that belongs to readprof.SampledReader.
//
// # What this package must NOT do
//
//   - Import readprof or any sibling package.
//   - Perform I/O beyond what a caller-supplied Handler does.
package dispatch
