package otel

import (
	"context"
	"fmt"

	"github.com/MrEthical07/readprof"
	"go.opentelemetry.io/otel/metric"
)

const histogramSinkName = "readprof.read.latency"

// HistogramSink records each latency sample into an Int64Histogram whose
// explicit boundaries match readprof.LatencyBucketBoundsMillis.
type HistogramSink struct {
	histogram metric.Int64Histogram
	attrs     metric.RecordOption
}

var _ readprof.LatencySink = (*HistogramSink)(nil)

// NewHistogramSink creates the instrument on meter. opts are attached to
// every recorded measurement, e.g. metric.WithAttributes(attribute.String("volume", "/data/1")).
func NewHistogramSink(meter metric.Meter, opts ...metric.MeasurementOption) (*HistogramSink, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	bounds := make([]float64, len(readprof.LatencyBucketBoundsMillis))
	for i, ms := range readprof.LatencyBucketBoundsMillis {
		bounds[i] = float64(ms)
	}
	h, err := meter.Int64Histogram(histogramSinkName,
		metric.WithDescription("Sampled local read latency."),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(bounds...),
	)
	if err != nil {
		return nil, fmt.Errorf("create histogram %s: %w", histogramSinkName, err)
	}

	s := &HistogramSink{histogram: h}
	if len(opts) > 0 {
		s.attrs = mergeOptions(opts)
	}
	return s, nil
}

// AddLatency implements readprof.LatencySink.
func (s *HistogramSink) AddLatency(millis int64) {
	if s == nil {
		return
	}
	if millis < 0 {
		millis = 0
	}
	if s.attrs != nil {
		s.histogram.Record(context.Background(), millis, s.attrs)
		return
	}
	s.histogram.Record(context.Background(), millis)
}

// mergeOptions resolves the attribute set once so Record does not rebuild it.
func mergeOptions(opts []metric.MeasurementOption) metric.RecordOption {
	recOpts := make([]metric.RecordOption, len(opts))
	for i, o := range opts {
		recOpts[i] = o
	}
	return metric.WithAttributeSet(metric.NewRecordConfig(recOpts).Attributes())
}
