package logging

import (
	"context"
	"io"
	"log/slog"
)

type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// NewTextLogger is what the interactive client uses: human-readable lines on w.
func NewTextLogger(w io.Writer, level slog.Level) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// NewDiscardLogger drops everything. Handy in tests.
func NewDiscardLogger() *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type scopeKey struct{}

// ContextWith returns a copy of ctx whose log lines carry args, e.g. the
// tenant and user a request acts for. Pairs already in ctx come first.
func ContextWith(ctx context.Context, args ...any) context.Context {
	prev, _ := ctx.Value(scopeKey{}).([]any)
	scoped := make([]any, 0, len(prev)+len(args))
	scoped = append(append(scoped, prev...), args...)
	return context.WithValue(ctx, scopeKey{}, scoped)
}

func withScope(ctx context.Context, args []any) []any {
	scoped, _ := ctx.Value(scopeKey{}).([]any)
	if len(scoped) == 0 {
		return args
	}
	return append(scoped[:len(scoped):len(scoped)], args...)
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, withScope(ctx, args)...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, withScope(ctx, args)...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, withScope(ctx, args)...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, withScope(ctx, args)...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
