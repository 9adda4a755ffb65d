package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LogLevel controls which messages a Logger emits.
type LogLevel int

const (
	LogError LogLevel = iota
	LogWarn
	LogInfo
	LogDebug
)

// String returns the level name used in log output.
func (l LogLevel) String() string {
	switch l {
	case LogError:
		return "ERROR"
	case LogWarn:
		return "WARN"
	case LogInfo:
		return "INFO"
	case LogDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a LogLevel. Unknown values fall back to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "error":
		return LogError
	case "warn", "warning":
		return LogWarn
	case "debug":
		return LogDebug
	default:
		return LogInfo
	}
}

// Logger is the logging interface used throughout sqlbridge.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// DefaultLogger writes leveled, printf-formatted lines to a single writer.
type DefaultLogger struct {
	level  LogLevel
	mu     sync.Mutex
	output io.Writer
}

// NewDefaultLogger creates a logger writing to stderr. The MCP stdio
// transport owns stdout, so logs must never go there.
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		level:  level,
		output: os.Stderr,
	}
}

// NewDefaultLoggerWithOutput creates a logger writing to the given writer.
func NewDefaultLoggerWithOutput(level LogLevel, output io.Writer) *DefaultLogger {
	return &DefaultLogger{
		level:  level,
		output: output,
	}
}

// SetLevel changes the minimum emitted level.
func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current minimum emitted level.
func (l *DefaultLogger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Debug logs at DEBUG level.
func (l *DefaultLogger) Debug(format string, args ...interface{}) {
	if !l.shouldLog(LogDebug) {
		return
	}
	l.log(LogDebug, format, args...)
}

// Info logs at INFO level.
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	if !l.shouldLog(LogInfo) {
		return
	}
	l.log(LogInfo, format, args...)
}

// Warn logs at WARN level.
func (l *DefaultLogger) Warn(format string, args ...interface{}) {
	if !l.shouldLog(LogWarn) {
		return
	}
	l.log(LogWarn, format, args...)
}

// Error logs at ERROR level.
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	if !l.shouldLog(LogError) {
		return
	}
	l.log(LogError, format, args...)
}

func (l *DefaultLogger) shouldLog(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level <= l.level
}

func (l *DefaultLogger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.output, "[%s] %s\n", level.String(), message)
}

// NoOpLogger discards everything. Used by tests and as a nil-safe default.
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that discards all output.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(format string, args ...interface{}) {}
func (l *NoOpLogger) Info(format string, args ...interface{})  {}
func (l *NoOpLogger) Warn(format string, args ...interface{})  {}
func (l *NoOpLogger) Error(format string, args ...interface{}) {}
func (l *NoOpLogger) SetLevel(level LogLevel)                  {}
func (l *NoOpLogger) GetLevel() LogLevel                       { return LogInfo }
