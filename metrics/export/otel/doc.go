// Package otel provides OpenTelemetry bindings for readprof latency samples.
//
// [NewExporter] registers observable instruments that read a
// readprof.MetricsSnapshot on each collection cycle: one Int64ObservableCounter
// per counter and one Int64ObservableGauge per cumulative histogram bucket.
//
// [NewHistogramSink] is a readprof.LatencySink that records every sample
// straight into an Int64Histogram, for setups that aggregate in the SDK
// instead of in readprof.Metrics.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate the snapshot source.
package otel
