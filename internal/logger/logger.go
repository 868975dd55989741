package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       string
	Format      string
	Output      io.Writer
}

// Logger is a thin wrapper that lets request-scoped fields travel in a context.
type Logger struct {
	base *zerolog.Logger
}

type ctxKey struct{}

// New builds a JSON (or console) logger tagged with the service name.
func New(opts Options) *Logger {
	var output io.Writer = opts.Output
	if output == nil {
		output = os.Stdout
	}
	if strings.EqualFold(opts.Format, "console") {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: "15:04:05"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	l := zerolog.New(output).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger().
		Level(ParseLevel(opts.Level))
	return &Logger{base: &l}
}

// Nop returns a logger that discards everything; handy for tests.
func Nop() *Logger {
	l := zerolog.Nop()
	return &Logger{base: &l}
}

// ParseLevel maps a level name to zerolog, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}

func (l *Logger) from(ctx context.Context) *zerolog.Logger {
	if l == nil {
		nop := zerolog.Nop()
		return &nop
	}
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return entry
		}
	}
	return l.base
}

// WithField returns a context whose log lines carry key=value.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	entry := l.from(ctx).With().Interface(key, value).Logger()
	return context.WithValue(ctx, ctxKey{}, &entry)
}

// Writer exposes the base logger as an io.Writer for gin's access log.
func (l *Logger) Writer() io.Writer {
	return l.from(nil)
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...any) {
	l.from(ctx).Debug().Fields(fields).Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...any) {
	l.from(ctx).Info().Fields(fields).Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...any) {
	l.from(ctx).Warn().Fields(fields).Msg(msg)
}

func (l *Logger) Error(ctx context.Context, msg string, err error, fields ...any) {
	l.from(ctx).Error().Err(err).Fields(fields).Msg(msg)
}

// Fatal logs and exits; only for process startup.
func (l *Logger) Fatal(msg string, err error) {
	l.from(nil).Fatal().Err(err).Msg(msg)
}
