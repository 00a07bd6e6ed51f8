// Package logging builds the service's zerolog logger.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	Service string
	Level   string
	Format  string // "json" or "console"
	Output  io.Writer
}

// New returns a logger writing JSON, or human readable lines for the
// console format, at the parsed level.
func New(opts Options) zerolog.Logger {
	var out io.Writer = opts.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	ctx := zerolog.New(out).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger().Level(ParseLevel(opts.Level))
}

// ParseLevel parses value, falling back to info.
func ParseLevel(value string) zerolog.Level {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(value); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}

// WithRequestID returns a context whose logger carries the request ID.
func WithRequestID(ctx context.Context, logger zerolog.Logger, requestID string) context.Context {
	return logger.With().Str("request_id", requestID).Logger().WithContext(ctx)
}

// FromContext returns the logger attached to ctx, or fallback. Like
// zerolog.Ctx it returns a pointer, so level methods can be chained.
func FromContext(ctx context.Context, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
