package readprof

// Logger receives the slow-read warning and instrumentation fault reports.
//
// Arguments are alternating key/value pairs. *slog.Logger satisfies Logger
// directly; adapters for zap, logr and the standard log package live in the
// logging package.
type Logger interface {
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
