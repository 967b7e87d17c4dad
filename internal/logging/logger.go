// Package logging provides the structured logger used across the checkout
// components. Entries are single-line JSON and carry the trace and span ids
// of the active OpenTelemetry span.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// LogLevel is the severity of an entry.
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

var levelRank = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
}

// ParseLevel maps a case-insensitive level name to a LogLevel, defaulting to INFO.
func ParseLevel(s string) LogLevel {
	l := LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelRank[l]; ok {
		return l
	}
	return LogLevelInfo
}

// Fields are structured key/values attached to an entry.
type Fields map[string]interface{}

// LogEntry is the JSON shape of one log line.
type LogEntry struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	TraceID   string `json:"trace_id,omitempty"`
	SpanID    string `json:"span_id,omitempty"`
	Fields    Fields `json:"fields,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Logger is a leveled JSON logger.
type Logger struct {
	out      *log.Logger
	minLevel LogLevel
}

// New creates a Logger writing to w, dropping entries below minLevel.
func New(w io.Writer, minLevel LogLevel) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		out:      log.New(w, "", 0),
		minLevel: minLevel,
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, LogLevelError)
}

// Log writes one entry.
func (l *Logger) Log(ctx context.Context, level LogLevel, message string, fields Fields) {
	if l == nil || levelRank[level] < levelRank[l.minLevel] {
		return
	}
	entry := LogEntry{
		Level:     string(level),
		Message:   message,
		Fields:    fields,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}

	if ctx != nil {
		span := trace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			entry.TraceID = span.SpanContext().TraceID().String()
			entry.SpanID = span.SpanContext().SpanID().String()
		}
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		l.out.Printf("failed to marshal log entry: %v", err)
		return
	}
	l.out.Println(string(jsonData))
}

func (l *Logger) Debug(ctx context.Context, message string, fields Fields) {
	l.Log(ctx, LogLevelDebug, message, fields)
}

func (l *Logger) Info(ctx context.Context, message string, fields Fields) {
	l.Log(ctx, LogLevelInfo, message, fields)
}

func (l *Logger) Warn(ctx context.Context, message string, fields Fields) {
	l.Log(ctx, LogLevelWarn, message, fields)
}

// Error logs at ERROR and records err under the "error" field.
func (l *Logger) Error(ctx context.Context, message string, err error, fields Fields) {
	if fields == nil {
		fields = make(Fields)
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	l.Log(ctx, LogLevelError, message, fields)
}
