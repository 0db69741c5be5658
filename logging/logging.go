package logging

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-logr/logr"
	"go.uber.org/zap"
)

// Nop discards everything.
type Nop struct{}

func (Nop) Warn(string, ...any)  {}
func (Nop) Debug(string, ...any) {}

// ZapLogger forwards to a sugared zap logger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// Zap adapts l. Key/value args become zap fields.
func Zap(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{s: l.Sugar()}
}

func (z *ZapLogger) Warn(msg string, args ...any)  { z.s.Warnw(msg, args...) }
func (z *ZapLogger) Debug(msg string, args ...any) { z.s.Debugw(msg, args...) }

// LogrLogger forwards to a logr sink. Warnings are logged at V(0), debug
// messages at V(1).
type LogrLogger struct {
	l logr.Logger
}

// Logr adapts l. A zero logr.Logger discards output.
func Logr(l logr.Logger) *LogrLogger {
	if l.GetSink() == nil {
		l = logr.Discard()
	}
	return &LogrLogger{l: l}
}

func (g *LogrLogger) Warn(msg string, args ...any)  { g.l.Info(msg, args...) }
func (g *LogrLogger) Debug(msg string, args ...any) { g.l.V(1).Info(msg, args...) }

// StdLogger writes "level: msg key=value ..." lines to a standard library
// logger. Debug output is dropped unless Verbose is set.
type StdLogger struct {
	l       *log.Logger
	Verbose bool
}

// Std adapts l. A nil l uses log.Default().
func Std(l *log.Logger) *StdLogger {
	if l == nil {
		l = log.Default()
	}
	return &StdLogger{l: l}
}

func (s *StdLogger) Warn(msg string, args ...any) {
	s.l.Print(format("WARN", msg, args))
}

func (s *StdLogger) Debug(msg string, args ...any) {
	if !s.Verbose {
		return
	}
	s.l.Print(format("DEBUG", msg, args))
}

func format(level, msg string, args []any) string {
	var b strings.Builder
	b.Grow(len(msg) + 16*len(args))
	b.WriteString("readprof ")
	b.WriteString(level)
	b.WriteString(": ")
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		b.WriteByte(' ')
		if i+1 == len(args) {
			fmt.Fprintf(&b, "!BADKEY=%v", args[i])
			break
		}
		fmt.Fprintf(&b, "%v=%v", args[i], args[i+1])
	}
	return b.String()
}
