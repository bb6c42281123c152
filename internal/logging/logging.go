// Package logging provides the structured logger handed to every service.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes leveled messages with structured fields.
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config value to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// JSONLogger emits one JSON object per line.
type JSONLogger struct {
	mu        *sync.Mutex
	out       io.Writer
	level     Level
	component string
	now       func() time.Time
}

// New returns a JSONLogger writing to out; a nil out means stdout.
func New(out io.Writer, level Level) *JSONLogger {
	if out == nil {
		out = os.Stdout
	}
	return &JSONLogger{mu: &sync.Mutex{}, out: out, level: level, now: time.Now}
}

// WithComponent returns a logger that tags every line with the component name.
// The returned logger shares the writer and its lock with the parent.
func (l *JSONLogger) WithComponent(name string) *JSONLogger {
	cp := *l
	cp.component = name
	return &cp
}

func (l *JSONLogger) Debug(msg string, fields map[string]interface{}) {
	l.write(LevelDebug, msg, fields)
}

func (l *JSONLogger) Info(msg string, fields map[string]interface{}) {
	l.write(LevelInfo, msg, fields)
}

func (l *JSONLogger) Warn(msg string, fields map[string]interface{}) {
	l.write(LevelWarn, msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]interface{}) {
	l.write(LevelError, msg, fields)
}

func (l *JSONLogger) write(level Level, msg string, fields map[string]interface{}) {
	if level < l.level {
		return
	}
	entry := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}
	entry["ts"] = l.now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	if l.component != "" {
		entry["component"] = l.component
	}
	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]interface{}{"level": level.String(), "msg": msg, "log_error": err.Error()})
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(b, '\n'))
}

// NoOp discards everything. It is the default for services built without a logger.
type NoOp struct{}

func (NoOp) Info(string, map[string]interface{})  {}
func (NoOp) Error(string, map[string]interface{}) {}
func (NoOp) Warn(string, map[string]interface{})  {}
func (NoOp) Debug(string, map[string]interface{}) {}

// OrNoOp returns l, or NoOp when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return NoOp{}
	}
	return l
}
