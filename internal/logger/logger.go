// Package logger provides a small leveled logger that writes to a file so
// it never interferes with the TUI. Console output is opt-in.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseLevel converts a string to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG":
		return DEBUG
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for creating a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

type Config struct {
	Level    Level
	FilePath string // empty disables file output
	Console  bool   // also write to stderr
}

type Logger struct {
	mu      sync.Mutex
	level   Level
	file    *os.File
	writers []io.Writer
}

var (
	global *Logger
	once   sync.Once
)

// Init initializes the package-level logger. Subsequent calls are no-ops.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		global, err = New(cfg)
	})
	return err
}

func New(cfg Config) (*Logger, error) {
	l := &Logger{level: cfg.Level}

	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		l.writers = append(l.writers, f)
	}
	if cfg.Console {
		l.writers = append(l.writers, os.Stderr)
	}
	return l, nil
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	if level < l.level || len(l.writers) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := fmt.Sprintf("[%s] %s: %s", time.Now().Format("2006-01-02 15:04:05.000"), level, msg)
	for _, f := range fields {
		entry += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	entry += "\n"

	for _, w := range l.writers {
		w.Write([]byte(entry))
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(DEBUG, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(INFO, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(WARN, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(ERROR, msg, fields) }

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Package-level helpers delegating to the logger set by Init. Safe to call
// before Init; entries are dropped.

func Debug(msg string, fields ...Field) {
	if global != nil {
		global.Debug(msg, fields...)
	}
}

func Info(msg string, fields ...Field) {
	if global != nil {
		global.Info(msg, fields...)
	}
}

func Warn(msg string, fields ...Field) {
	if global != nil {
		global.Warn(msg, fields...)
	}
}

func Error(msg string, fields ...Field) {
	if global != nil {
		global.Error(msg, fields...)
	}
}

func Close() error {
	if global != nil {
		return global.Close()
	}
	return nil
}
