package internaldefs

import (
	"strconv"
	"strings"

	"github.com/MrEthical07/readprof"
)

// CounterDef names a counter kept by readprof.Metrics.
type CounterDef struct {
	ID   readprof.MetricID
	Name string
	Help string
}

// HistogramDef names a histogram kept by readprof.Metrics.
type HistogramDef struct {
	ID   readprof.MetricID
	Name string
	Help string
}

// BucketCount is the number of histogram buckets including +Inf.
const BucketCount = len(readprof.LatencyBucketBoundsMillis) + 1

var CounterDefs = []CounterDef{
	{ID: readprof.MetricLatencySamples, Name: "readprof_latency_samples_total", Help: "Sampled local reads whose latency was recorded."},
	{ID: readprof.MetricSlowReads, Name: "readprof_slow_reads_total", Help: "Sampled local reads slower than the warning threshold."},
}

var HistogramDefs = []HistogramDef{
	{ID: readprof.MetricReadLatency, Name: "readprof_read_latency_seconds", Help: "Sampled local read latency."},
}

// HistogramBoundsSeconds are the finite upper bounds in seconds.
var HistogramBoundsSeconds = func() []float64 {
	out := make([]float64, len(readprof.LatencyBucketBoundsMillis))
	for i, ms := range readprof.LatencyBucketBoundsMillis {
		out[i] = float64(ms) / 1000
	}
	return out
}()

// HistogramBoundSuffix names each bucket, +Inf included, for instrument names.
var HistogramBoundSuffix = func() []string {
	out := make([]string, 0, BucketCount)
	for _, s := range HistogramBoundsSeconds {
		out = append(out, strings.ReplaceAll(strconv.FormatFloat(s, 'f', -1, 64), ".", "_"))
	}
	return append(out, "inf")
}()

// NormalizeBuckets copies raw into a fixed-size array, ignoring extra values.
func NormalizeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [BucketCount]uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

// MillisToSeconds converts a millisecond sum to seconds.
func MillisToSeconds(ms uint64) float64 {
	return float64(ms) / 1000
}
