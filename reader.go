package readprof

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"
)

const (
	// SlowReadThresholdMillis is the latency above which a sampled read
	// triggers the one-shot warning.
	SlowReadThresholdMillis int64 = 1000

	// maxSampleSpace is the exclusive upper bound of the sampling draw.
	// The threshold is (maxSampleSpace/100)*percentage with truncating
	// division, so 100% samples all but 47 of every 2^31-1 draws.
	maxSampleSpace = math.MaxInt32
)

// Option customizes a [SampledReader].
type Option func(*SampledReader)

// WithLogger sets the logger used for the slow-read warning. A nil logger
// silences it.
func WithLogger(l Logger) Option {
	return func(r *SampledReader) {
		if l == nil {
			l = nopLogger{}
		}
		r.logger = l
	}
}

// SampledReader times a random share of positional reads and reports their
// latency. One SampledReader belongs to one open file; its warning budget is
// not shared with other readers.
//
// SampledReader is safe for concurrent use.
type SampledReader struct {
	enabled         bool
	sampleThreshold int32

	sink   LatencySink
	clock  Clock
	logger Logger

	warned      atomic.Bool
	faultLogged atomic.Bool
}

// NewSampledReader builds a reader from an optional config.
//
// A nil cfg yields a disabled reader that keeps no reference to sink or clock.
// A percentage outside [0,100] also yields a disabled reader. Construction
// never fails.
func NewSampledReader(cfg *Config, sink LatencySink, clock Clock, opts ...Option) *SampledReader {
	r := &SampledReader{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}

	if cfg == nil || cfg.Validate() != nil {
		r.sink = NoOpSink{}
		r.clock = nil
		return r
	}

	r.enabled = cfg.MetricsEnabled
	r.sampleThreshold = int32(maxSampleSpace/100) * int32(cfg.SamplingPercentage)
	if sink == nil {
		sink = NoOpSink{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	r.sink = sink
	r.clock = clock
	return r
}

// Enabled reports whether sampling is active.
func (r *SampledReader) Enabled() bool {
	return r != nil && r.enabled
}

// SampleThreshold returns the precomputed draw cutoff.
func (r *SampledReader) SampleThreshold() int32 {
	if r == nil {
		return 0
	}
	return r.sampleThreshold
}

// WarningLogged reports whether this reader has emitted its slow-read warning.
func (r *SampledReader) WarningLogged() bool {
	return r != nil && r.warned.Load()
}

// ReadAt reads len(p) bytes from f at off and returns exactly what f.ReadAt
// returns. When the call is sampled and f did not fail, its latency is
// reported to the sink. io.EOF marks a short read at end of file and is
// recorded like any other completed read.
func (r *SampledReader) ReadAt(f io.ReaderAt, p []byte, off int64) (int, error) {
	if !r.sampled() {
		return f.ReadAt(p, off)
	}

	begin := r.clock.Now()
	n, err := f.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, err
	}
	r.addLatency(r.clock.Now().Sub(begin))
	return n, err
}

func (r *SampledReader) sampled() bool {
	return r != nil && r.enabled && rand.Int32N(maxSampleSpace) < r.sampleThreshold
}

func (r *SampledReader) addLatency(d time.Duration) {
	millis := d.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	r.record(millis)
	if millis > SlowReadThresholdMillis && !r.warned.Load() {
		r.warnSlow(millis)
	}
}

func (r *SampledReader) record(millis int64) {
	defer r.recoverFault("sink")
	r.sink.AddLatency(millis)
}

func (r *SampledReader) warnSlow(millis int64) {
	if !r.warned.CompareAndSwap(false, true) {
		return
	}
	defer r.recoverFault("logger")
	r.logger.Warn(
		fmt.Sprintf("local read latency %d ms is higher than the threshold (%d ms); suppressing further warnings for this reader",
			millis, SlowReadThresholdMillis),
		"latency_ms", millis,
		"threshold_ms", SlowReadThresholdMillis,
	)
}

// recoverFault swallows a panic raised by an instrumentation collaborator and
// reports the first one per reader at debug level.
func (r *SampledReader) recoverFault(component string) {
	p := recover()
	if p == nil || !r.faultLogged.CompareAndSwap(false, true) {
		return
	}
	defer func() { _ = recover() }()
	r.logger.Debug("read latency instrumentation fault suppressed",
		"component", component,
		"panic", fmt.Sprint(p),
	)
}
