package readprof

import (
	"sync/atomic"
)

// MetricID identifies a counter or histogram kept by [Metrics].
type MetricID uint16

const (
	// MetricLatencySamples counts recorded latency samples.
	MetricLatencySamples MetricID = iota
	// MetricSlowReads counts samples above SlowReadThresholdMillis.
	MetricSlowReads
	// MetricReadLatency is the sampled read latency histogram.
	MetricReadLatency
	metricIDCount
)

const (
	histBucketCount = 10
	cacheLineSize   = 64
)

// LatencyBucketBoundsMillis are the inclusive upper bounds of the latency
// histogram buckets. A final +Inf bucket follows them.
var LatencyBucketBoundsMillis = [histBucketCount - 1]int64{1, 5, 10, 25, 50, 100, 250, 500, 1000}

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a lock-free in-process [LatencySink].
//
// Metrics instances are configured at construction and safe for concurrent use.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
	sum           paddedCounter
}

// MetricsSnapshot is a point-in-time copy of [Metrics].
type MetricsSnapshot struct {
	Counters         map[MetricID]uint64
	Histograms       map[MetricID][]uint64
	LatencySumMillis uint64
}

// NewMetrics creates an aggregator. Disabled metrics ignore every call.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether m records anything.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the latency histogram is kept.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// AddLatency implements [LatencySink]. Negative values count as zero.
func (m *Metrics) AddLatency(millis int64) {
	if m == nil || !m.enabled {
		return
	}
	if millis < 0 {
		millis = 0
	}

	atomic.AddUint64(&m.counters[MetricLatencySamples].value, 1)
	if millis > SlowReadThresholdMillis {
		atomic.AddUint64(&m.counters[MetricSlowReads].value, 1)
	}
	if !m.enableLatency {
		return
	}
	atomic.AddUint64(&m.sum.value, uint64(millis))
	atomic.AddUint64(&m.histograms[MetricReadLatency].buckets[LatencyBucketIndex(millis)], 1)
}

// Value returns the current value of a counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters and, when enabled, the latency histogram.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, 2),
		Histograms: make(map[MetricID][]uint64, 1),
	}
	s.Counters[MetricLatencySamples] = atomic.LoadUint64(&m.counters[MetricLatencySamples].value)
	s.Counters[MetricSlowReads] = atomic.LoadUint64(&m.counters[MetricSlowReads].value)

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricReadLatency].buckets[i])
		}
		s.Histograms[MetricReadLatency] = buckets
		s.LatencySumMillis = atomic.LoadUint64(&m.sum.value)
	}

	return s
}

// LatencyBucketIndex returns the histogram bucket for a latency in
// milliseconds. The last index is the +Inf bucket.
func LatencyBucketIndex(millis int64) int {
	for i, le := range LatencyBucketBoundsMillis {
		if millis <= le {
			return i
		}
	}
	return histBucketCount - 1
}
