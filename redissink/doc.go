// Package redissink aggregates sampled read latencies from many processes in
// Redis.
//
// Each process writes to its own hash, <prefix>:<instance>, through a
// buffered dispatcher so that readprof.SampledReader never waits on the
// network. [Aggregate] sums every instance under a prefix.
//
// # Key layout
//
//	<prefix>:<instance>  HASH  count, sum_ms, slow, le_1 ... le_1000, le_inf
//
// # What this package must NOT do
//
//   - Block the read path when DropIfFull is set.
//   - Return Redis errors from AddLatency; failures are counted and logged once.
package redissink
