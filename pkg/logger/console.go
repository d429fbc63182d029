package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// zerologLogger implements Logger on top of zerolog's human-readable console writer.
type zerologLogger struct {
	zl   zerolog.Logger
	name string
}

func newConsoleLogger(w io.Writer) Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	setConsoleLevel(levelVar.Level())
	return &zerologLogger{zl: zerolog.New(cw).With().Timestamp().Logger()}
}

// setConsoleLevel mirrors the slog level onto zerolog's global level.
func setConsoleLevel(level slog.Level) {
	switch {
	case level <= slog.LevelDebug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case level <= slog.LevelInfo:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case level <= slog.LevelWarn:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}
}

func (l *zerologLogger) Named(name string) Logger {
	full := name
	if l.name != "" {
		full = l.name + "." + name
	}
	return &zerologLogger{zl: l.zl.With().Str("logger", full).Logger(), name: full}
}

func (l *zerologLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *zerologLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.zl.Error(), msg, fields)
}

func (l *zerologLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *zerologLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *zerologLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.zl.Error(), msg, fields)
	os.Exit(1)
}

func (l *zerologLogger) emit(ev *zerolog.Event, msg string, fields []Field) {
	if ev == nil {
		return
	}
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			ev = ev.AnErr(f.Key, err)
			continue
		}
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Str("source", getCaller()).Msg(msg)
}
