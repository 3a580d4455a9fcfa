package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger wraps slog with the chainable style used across the services:
// mylog.Action("order_created").Info("..."). It is passed by value so every
// derivation is independent.
type Logger struct {
	sl *slog.Logger
}

// New builds a JSON logger writing to stdout. level is one of
// DEBUG, INFO, WARN, ERROR (case-insensitive).
func New(level string) (Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	hostname, _ := os.Hostname()
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})

	return Logger{sl: slog.New(h).With("hostname", hostname)}, nil
}

// Action tags every entry of the derived logger with an action name.
func (l Logger) Action(action string) Logger {
	return Logger{sl: l.sl.With("action", action)}
}

func (l Logger) With(args ...any) Logger {
	return Logger{sl: l.sl.With(args...)}
}

func (l Logger) WithGroup(name string) Logger {
	return Logger{sl: l.sl.WithGroup(name)}
}

func (l Logger) Info(msg string, args ...any) {
	l.sl.Info(msg, args...)
}

func (l Logger) Debug(msg string, args ...any) {
	l.sl.Debug(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.sl.Warn(msg, args...)
}

func (l Logger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.sl.Error(msg, args...)
}
