package readprof

// LatencySink accepts one latency observation in milliseconds.
//
// Implementations are called on the read path and must be fast or
// non-blocking. They must not assume the value is bounded.
type LatencySink interface {
	AddLatency(millis int64)
}

// NoOpSink discards every observation.
type NoOpSink struct{}

func (NoOpSink) AddLatency(int64) {}

// SinkFunc adapts a function to [LatencySink].
type SinkFunc func(millis int64)

func (f SinkFunc) AddLatency(millis int64) {
	if f != nil {
		f(millis)
	}
}

type multiSink []LatencySink

// MultiSink fans each observation out to every non-nil sink. A panic in one
// sink does not prevent delivery to the others.
func MultiSink(sinks ...LatencySink) LatencySink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return NoOpSink{}
	case 1:
		return out[0]
	}
	return out
}

func (m multiSink) AddLatency(millis int64) {
	for _, s := range m {
		deliver(s, millis)
	}
}

func deliver(s LatencySink, millis int64) {
	defer func() { _ = recover() }()
	s.AddLatency(millis)
}
