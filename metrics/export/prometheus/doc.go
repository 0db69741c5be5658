// Package prometheus exposes readprof metrics through client_golang.
//
// [NewCollector] wraps a snapshot source (normally *readprof.Metrics) in a
// prometheus.Collector. Counters are named readprof_*_total; the histogram is
// readprof_read_latency_seconds.
//
// # What this package must NOT do
//
//   - Register in the global Prometheus registry. Callers register the
//     Collector or mount [Collector.Handler].
//   - Mutate the source.
package prometheus
