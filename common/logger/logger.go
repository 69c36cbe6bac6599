package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Options configures a Logger
type Options struct {
	Level   string // debug, info, warn or error; empty means info
	Format  string // "json", anything else is colored console output
	Service string // attached to every record when set
	Writer  io.Writer

	// Stacks attaches a stack trace to error records
	Stacks bool
}

// Logger is a slog.Logger carrying queue-service fields
type Logger struct {
	*slog.Logger
	stacks bool
}

// New builds a logger from opts; an unknown level falls back to info
func New(opts Options) *Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if opts.Format == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(w),
		})
	}

	l := slog.New(handler)
	if opts.Service != "" {
		l = l.With("service", opts.Service)
	}
	return &Logger{Logger: l, stacks: opts.Stacks}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel accepts slog level names in any case, including offsets like "warn+2"
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (l *Logger) with(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), stacks: l.stacks}
}

// WithComponent tags records with the emitting component
func (l *Logger) WithComponent(name string) *Logger {
	return l.with("component", name)
}

// WithRequestID tags records with the HTTP request id; empty ids are skipped
func (l *Logger) WithRequestID(id string) *Logger {
	if id == "" {
		return l
	}
	return l.with("request_id", id)
}

// WithQueueID adds queue_id to logger context
func (l *Logger) WithQueueID(queueID string) *Logger {
	return l.with("queue_id", queueID)
}

// WithAppointmentID adds appointment_id to logger context
func (l *Logger) WithAppointmentID(appointmentID string) *Logger {
	return l.with("appointment_id", appointmentID)
}

// WithTable adds table_number to logger context
func (l *Logger) WithTable(table int) *Logger {
	return l.with("table_number", table)
}

// Error logs at error level, with a stack trace when enabled
func (l *Logger) Error(msg string, args ...any) {
	l.Logger.Error(msg, l.withStack(args)...)
}

// ErrorContext logs at error level with ctx, with a stack trace when enabled
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.Logger.ErrorContext(ctx, msg, l.withStack(args)...)
}

func (l *Logger) withStack(args []any) []any {
	if !l.stacks {
		return args
	}
	return append(args, "stack", string(debug.Stack()))
}
