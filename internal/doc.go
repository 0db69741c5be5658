// Package internal contains helpers that are private to readprof.
//
// # Sub-packages
//
//   - dispatch: generic bounded async dispatch used by remote latency sinks
//
// # What this package must NOT do
//
//   - Export types that appear in the public readprof API.
//   - Be imported by any package outside the readprof module.
package internal
