// Package log provides the leveled logging used across the ragline packages.
//
// Pipeline components log through a package-level Logger so that library users
// can redirect or silence output globally without threading logger values
// through every constructor. The default implementation is backed by
// kataras/golog; a NoOpLogger is available for tests and quiet embedding.
package log

import "fmt"

// Level represents logging severity.
type Level int

const (
	// LevelDebug for detailed ingestion and retrieval tracing
	LevelDebug Level = iota
	// LevelInfo for general progress messages
	LevelInfo
	// LevelWarn for recoverable problems
	LevelWarn
	// LevelError for failures
	LevelError
	// LevelNone disables all output
	LevelNone
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

// Logger is the printf-style logging interface used by the stores, loaders
// and engine.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}

// NoOpLogger discards all messages.
type NoOpLogger struct{}

// Debug does nothing
func (NoOpLogger) Debug(format string, v ...any) {}

// Info does nothing
func (NoOpLogger) Info(format string, v ...any) {}

// Warn does nothing
func (NoOpLogger) Warn(format string, v ...any) {}

// Error does nothing
func (NoOpLogger) Error(format string, v ...any) {}

// Package-level logger. Defaults to a golog-backed logger at info level.
var defaultLogger Logger = NewGologLogger(LevelInfo)

// SetDefaultLogger replaces the package-level logger.
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// GetDefaultLogger returns the current package-level logger.
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetLevel installs a golog-backed logger at the given level.
// Convenience for quick setup.
func SetLevel(level Level) {
	defaultLogger = NewGologLogger(level)
}

// Debug logs a debug message using the package-level logger.
func Debug(format string, v ...any) {
	defaultLogger.Debug(format, v...)
}

// Info logs an informational message using the package-level logger.
func Info(format string, v ...any) {
	defaultLogger.Info(format, v...)
}

// Warn logs a warning message using the package-level logger.
func Warn(format string, v ...any) {
	defaultLogger.Warn(format, v...)
}

// Error logs an error message using the package-level logger.
func Error(format string, v ...any) {
	defaultLogger.Error(format, v...)
}
