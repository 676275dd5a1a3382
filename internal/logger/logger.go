// Package logger provides Octopus's structured logging facade over
// charmbracelet/log, including correlation-ID propagation for a single
// orchestrator run.
package logger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	cblog "github.com/charmbracelet/log"
)

// Options configures a Logger at creation time.
type Options struct {
	Writer    io.Writer
	Level     string // debug|info|warn|error
	JSON      bool
	Component string
}

// Logger is a thin facade around charmbracelet/log carrying a fixed set of
// fields (e.g. component) that are merged into every entry it emits.
type Logger struct {
	base   *cblog.Logger
	fields []interface{}
}

// New constructs a Logger from Options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := cblog.InfoLevel
	if opts.Level != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	cbOpts := cblog.Options{
		Level:           level,
		ReportTimestamp: true,
	}
	if opts.JSON {
		cbOpts.Formatter = cblog.JSONFormatter
	}

	base := cblog.NewWithOptions(writer, cbOpts)

	var fields []interface{}
	if opts.Component != "" {
		fields = []interface{}{"component", opts.Component}
	}

	return &Logger{base: base, fields: fields}, nil
}

// WithFields returns a derived Logger that always includes the supplied
// fields, in addition to any already carried.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	if l == nil || len(fields) == 0 {
		return l
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	next := make([]interface{}, len(l.fields), len(l.fields)+len(fields)*2)
	copy(next, l.fields)
	for _, k := range keys {
		next = append(next, k, fields[k])
	}

	return &Logger{base: l.base, fields: next}
}

func (l *Logger) args(ctx context.Context, extra ...interface{}) []interface{} {
	args := make([]interface{}, 0, len(l.fields)+len(extra)+2)
	args = append(args, l.fields...)
	args = append(args, extra...)
	if id := CorrelationID(ctx); id != "" {
		args = append(args, "run_id", id)
	}
	return args
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Debug(msg, l.args(ctx, fields...)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...interface{}) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Info(msg, l.args(ctx, fields...)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Warn(msg, l.args(ctx, fields...)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...interface{}) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Error(msg, l.args(ctx, fields...)...)
}

type correlationIDKey struct{}

// WithRunID attaches a run (correlation) ID to ctx so every log call made
// against that context is tagged with it.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID extracts the run ID from ctx, or "" if none was attached.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// NewRunID generates a UUIDv4 string suitable for correlating every log line
// of a single execute() run. Orchestrator front-ends call this once per run.
func NewRunID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("failed to generate run id: %v", err))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	var encoded [32]byte
	hex.Encode(encoded[:], b[:])

	return fmt.Sprintf("%s-%s-%s-%s-%s",
		encoded[0:8], encoded[8:12], encoded[12:16], encoded[16:20], encoded[20:32])
}
