package prometheus

import (
	"bytes"
	"net/http"

	"github.com/MrEthical07/readprof"
	"github.com/MrEthical07/readprof/metrics/export/internaldefs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

type metricsSource interface {
	Snapshot() readprof.MetricsSnapshot
}

type counterDesc struct {
	id   readprof.MetricID
	desc *prometheus.Desc
}

type histogramDesc struct {
	id   readprof.MetricID
	desc *prometheus.Desc
}

// Collector implements prometheus.Collector over readprof snapshots.
type Collector struct {
	source     metricsSource
	counters   []counterDesc
	histograms []histogramDesc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector reading from source. constLabels are
// attached to every series, e.g. {"volume": "/data/1"}.
func NewCollector(source metricsSource, constLabels prometheus.Labels) *Collector {
	c := &Collector{
		source:     source,
		counters:   make([]counterDesc, 0, len(internaldefs.CounterDefs)),
		histograms: make([]histogramDesc, 0, len(internaldefs.HistogramDefs)),
	}
	for _, def := range internaldefs.CounterDefs {
		c.counters = append(c.counters, counterDesc{
			id:   def.ID,
			desc: prometheus.NewDesc(def.Name, def.Help, nil, constLabels),
		})
	}
	for _, def := range internaldefs.HistogramDefs {
		c.histograms = append(c.histograms, histogramDesc{
			id:   def.ID,
			desc: prometheus.NewDesc(def.Name, def.Help, nil, constLabels),
		})
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.counters {
		ch <- d.desc
	}
	for _, d := range c.histograms {
		ch <- d.desc
	}
}

// Collect implements prometheus.Collector. A disabled source yields nothing.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c == nil || c.source == nil {
		return
	}
	snapshot := c.source.Snapshot()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 {
		return
	}

	for _, d := range c.counters {
		ch <- prometheus.MustNewConstMetric(d.desc, prometheus.CounterValue, float64(snapshot.Counters[d.id]))
	}
	for _, d := range c.histograms {
		raw, ok := snapshot.Histograms[d.id]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		buckets := make(map[float64]uint64, len(internaldefs.HistogramBoundsSeconds))
		for i, le := range internaldefs.HistogramBoundsSeconds {
			buckets[le] = cumulative[i]
		}
		ch <- prometheus.MustNewConstHistogram(
			d.desc,
			cumulative[len(cumulative)-1],
			internaldefs.MillisToSeconds(snapshot.LatencySumMillis),
			buckets,
		)
	}
}

// Handler serves only this collector from a private registry.
func (c *Collector) Handler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(c)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Render returns the current metrics in Prometheus text exposition format.
func (c *Collector) Render() (string, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return "", err
	}
	families, err := reg.Gather()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
