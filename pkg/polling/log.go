package polling

import (
	"fmt"

	"go.uber.org/zap"
)

// Record is one log entry emitted by a poll.
type Record struct {
	// Name is the poll description.
	Name string

	// Message holds the entry's parts in order, empty parts removed.
	Message []any

	// Detail lazily returns the options the caller passed to Poll.
	Detail func() any
}

// Logger receives poll records. Presentation is up to the implementation.
type Logger func(Record)

// NopLogger discards every record.
func NopLogger(Record) {}

// ZapLogger sends records to a zap logger at debug level. The detail
// accessor is evaluated only when debug logging is enabled.
func ZapLogger(l *zap.Logger) Logger {
	if l == nil {
		return NopLogger
	}
	return func(r Record) {
		ce := l.Check(zap.DebugLevel, r.Name)
		if ce == nil {
			return
		}
		fields := []zap.Field{zap.Strings("message", renderParts(r.Message))}
		if r.Detail != nil {
			fields = append(fields, zap.String("detail", fmt.Sprint(r.Detail())))
		}
		ce.Write(fields...)
	}
}

func renderParts(parts []any) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = fmt.Sprint(p)
	}
	return out
}

// compactParts drops falsy parts, keeping order.
func compactParts(parts ...any) []any {
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		if Truthy(p) {
			out = append(out, p)
		}
	}
	return out
}

// emit delivers a record, swallowing logger panics.
func emit(logger Logger, r Record) {
	defer func() {
		_ = recover()
	}()
	logger(r)
}
