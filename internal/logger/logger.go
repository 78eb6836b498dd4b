// Package logger provides structured JSON logging enriched with request
// scoped fields carried in the context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Logger is the logging interface used across the service.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, err error, args ...any)
	Slog() *slog.Logger
}

type logger struct {
	slog *slog.Logger
}

// New returns a JSON logger writing to stdout.
func New(serviceName, level string) Logger {
	return NewWithWriter(os.Stdout, serviceName, level)
}

// NewWithWriter returns a JSON logger writing to w.
func NewWithWriter(w io.Writer, serviceName, level string) Logger {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	handler := &contextHandler{
		handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: parseLevel(level),
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if len(groups) > 0 {
					return a
				}
				switch a.Key {
				case slog.MessageKey:
					return slog.Attr{Key: "message", Value: a.Value}
				case slog.TimeKey:
					if t, ok := a.Value.Any().(time.Time); ok {
						return slog.String("timestamp", t.UTC().Format(time.RFC3339Nano))
					}
				}
				return a
			},
		}),
	}

	return &logger{
		slog: slog.New(handler).With(
			slog.String("service", serviceName),
			slog.String("hostname", hostname),
		),
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &logger{slog: slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether level is one of DEBUG, INFO, WARN or ERROR.
func ValidLevel(level string) bool {
	switch strings.ToUpper(level) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	}
	return false
}

func (l *logger) Debug(ctx context.Context, msg string, args ...any) {
	l.slog.DebugContext(ctx, msg, args...)
}

func (l *logger) Info(ctx context.Context, msg string, args ...any) {
	l.slog.InfoContext(ctx, msg, args...)
}

func (l *logger) Warn(ctx context.Context, msg string, args ...any) {
	l.slog.WarnContext(ctx, msg, args...)
}

func (l *logger) Error(ctx context.Context, msg string, err error, args ...any) {
	attrs := make([]any, 0, len(args)+2)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	attrs = append(attrs, args...)
	l.slog.ErrorContext(ctx, msg, attrs...)
}

func (l *logger) Slog() *slog.Logger {
	return l.slog
}

// contextHandler adds the fields stored by WithRequestID, WithAction and
// WithTripID to every record.
type contextHandler struct {
	handler slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.handler.Enabled(ctx, lvl)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if c, ok := ctx.Value(logCtxKey).(logCtx); ok {
		if c.RequestID != "" {
			r.AddAttrs(slog.String("request_id", c.RequestID))
		}
		if c.Action != "" {
			r.AddAttrs(slog.String("action", c.Action))
		}
		if c.TripID != "" {
			r.AddAttrs(slog.String("trip_id", c.TripID))
		}
	}
	return h.handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{handler: h.handler.WithGroup(name)}
}
