package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents logging verbosity levels.
type LogLevel int

// Log level constants.
const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelDebug
)

// ParseLogLevel parses a log level string. Unknown values mean error.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LogLevelOff
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelError
	}
}

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "off"
	case LogLevelDebug:
		return "debug"
	default:
		return "error"
	}
}

func (l LogLevel) zeroLevel() zerolog.Level {
	switch l {
	case LogLevelOff:
		return zerolog.Disabled
	case LogLevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.ErrorLevel
	}
}

// logSink is the file shared by a logger and its component children.
type logSink struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// Logger writes JSON log lines to a file.
// Callers must never pass secrets to it.
type Logger struct {
	sink *logSink
	zl   zerolog.Logger
}

// NewLogger opens filePath for appending. A "~/" prefix is expanded.
// LogLevelOff or an empty path yields a logger that writes nothing.
func NewLogger(level LogLevel, filePath string) (*Logger, error) {
	if level == LogLevelOff || filePath == "" {
		return NullLogger(), nil
	}

	filePath = ExpandHome(filePath)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, err
	}

	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	zl := zerolog.New(f).Level(level.zeroLevel()).With().
		Timestamp().
		Str("app", "gaiaops").
		Logger()

	return &Logger{sink: &logSink{file: f, path: filePath}, zl: zl}, nil
}

// NullLogger returns a logger that discards all output.
func NullLogger() *Logger {
	return &Logger{sink: &logSink{}, zl: zerolog.Nop()}
}

// Component returns a child logger that tags every line with name.
// Children share the parent's file, and closing either closes both.
func (l *Logger) Component(name string) *Logger {
	return &Logger{sink: l.sink, zl: l.zl.With().Str("component", name).Logger()}
}

// Path returns the resolved log file path, or "" when not logging to a file.
func (l *Logger) Path() string {
	return l.sink.path
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.file == nil {
		return nil
	}
	err := l.sink.file.Close()
	l.sink.file = nil
	return err
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.write(zerolog.DebugLevel, func(ev *zerolog.Event) {
		ev.Msg(fmt.Sprintf(format, args...))
	})
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.write(zerolog.ErrorLevel, func(ev *zerolog.Event) {
		ev.Msg(fmt.Sprintf(format, args...))
	})
}

// Duration logs how long a named operation took at debug level.
func (l *Logger) Duration(op string, d time.Duration, err error) {
	l.write(zerolog.DebugLevel, func(ev *zerolog.Event) {
		ev = ev.Str("op", op).Dur("elapsed", d)
		if err != nil {
			ev = ev.Str("error", err.Error())
		}
		ev.Msg("call finished")
	})
}

// write emits one event unless the level is filtered or the file is closed.
func (l *Logger) write(level zerolog.Level, fill func(*zerolog.Event)) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.file == nil {
		return
	}
	if ev := l.zl.WithLevel(level); ev != nil {
		fill(ev)
	}
}
