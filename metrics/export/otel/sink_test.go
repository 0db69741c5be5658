package otel

import (
	"context"
	"testing"

	"github.com/MrEthical07/readprof"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHistogramSinkRecordsSamples(t *testing.T) {
	reader, provider := newManualMeter()
	sink, err := NewHistogramSink(provider.Meter("readprof-test"),
		metric.WithAttributes(attribute.String("volume", "/data/1")))
	if err != nil {
		t.Fatalf("NewHistogramSink failed: %v", err)
	}

	sink.AddLatency(4)
	sink.AddLatency(1200)
	sink.AddLatency(-3)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	m, ok := findMetric(rm, histogramSinkName)
	if !ok {
		t.Fatal("expected histogram to be collected")
	}
	h, ok := m.Data.(metricdata.Histogram[int64])
	if !ok || len(h.DataPoints) != 1 {
		t.Fatalf("expected one histogram data point, got %+v", m.Data)
	}
	dp := h.DataPoints[0]
	if dp.Count != 3 || dp.Sum != 1204 {
		t.Fatalf("expected count 3 sum 1204, got count %d sum %d", dp.Count, dp.Sum)
	}
	if len(dp.Bounds) != len(readprof.LatencyBucketBoundsMillis) {
		t.Fatalf("expected %d bounds, got %d", len(readprof.LatencyBucketBoundsMillis), len(dp.Bounds))
	}
	if v, ok := dp.Attributes.Value("volume"); !ok || v.AsString() != "/data/1" {
		t.Fatalf("expected volume attribute, got %v", dp.Attributes)
	}
}

func TestHistogramSinkBehindSampledReader(t *testing.T) {
	reader, provider := newManualMeter()
	sink, err := NewHistogramSink(provider.Meter("readprof-test"))
	if err != nil {
		t.Fatalf("NewHistogramSink failed: %v", err)
	}

	r := readprof.NewSampledReader(&readprof.Config{MetricsEnabled: true, SamplingPercentage: 100}, sink, readprof.SystemClock{})
	data := []byte("block-data")
	for i := 0; i < 50; i++ {
		if _, err := r.ReadAt(byteReader(data), make([]byte, 4), 0); err != nil {
			t.Fatalf("ReadAt failed: %v", err)
		}
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	m, _ := findMetric(rm, histogramSinkName)
	h := m.Data.(metricdata.Histogram[int64])
	if got := h.DataPoints[0].Count; got < 49 {
		t.Fatalf("expected ~50 samples, got %d", got)
	}
}

func TestNewHistogramSinkRejectsNilMeter(t *testing.T) {
	if _, err := NewHistogramSink(nil); err != ErrNilMeter {
		t.Fatalf("expected ErrNilMeter, got %v", err)
	}
}

type byteReader []byte

func (b byteReader) ReadAt(p []byte, off int64) (int, error) {
	return copy(p, b[off:]), nil
}
