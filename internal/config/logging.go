package config

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions selects the log level and the optional rotated log file.
type LogOptions struct {
	Verbose bool
	Quiet   bool
	// File receives JSON records with rotation; empty disables it.
	File string
}

// Level maps the verbosity flags to a slog level. Quiet wins over verbose.
func (o LogOptions) Level() slog.Level {
	switch {
	case o.Quiet:
		return slog.LevelError
	case o.Verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger: text on stderr and, when a file is
// set, JSON records into a size-rotated file. The returned closer releases
// the file and is never nil.
func NewLogger(stderr io.Writer, o LogOptions) (*slog.Logger, io.Closer) {
	level := o.Level()
	text := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	if o.File == "" {
		return slog.New(text), io.NopCloser(nil)
	}

	file := &lumberjack.Logger{
		Filename:   o.File,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	// The file keeps debug records even when stderr is quiet.
	jsonHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(fanout{text, jsonHandler}), file
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
