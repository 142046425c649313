package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
)

// Logger provides leveled CLI logging with redaction support. Messages go
// to stderr so command output on stdout stays clean for scripting.
type Logger struct {
	debug   bool
	noColor bool
	out     io.Writer
}

// New creates a new logger instance. The NO_COLOR environment variable
// disables color regardless of the flag.
func New(debug, noColor bool) *Logger {
	if v := os.Getenv("NO_COLOR"); v != "" {
		noColor = true
	}
	return &Logger{
		debug:   debug,
		noColor: noColor,
	}
}

// WithOutput returns a copy of the logger writing to w instead of stderr.
// Tests use this to capture output without swapping os.Stderr.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	clone := *l
	clone.out = w
	return &clone
}

func (l *Logger) writer() io.Writer {
	if l.out != nil {
		return l.out
	}
	// Resolved per call so the logger follows a redirected stderr.
	return os.Stderr
}

func (l *Logger) log(color, prefix, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.noColor {
		fmt.Fprintf(l.writer(), "%s %s\n", prefix, msg)
		return
	}
	fmt.Fprintf(l.writer(), "%s%s%s %s\n", color, prefix, colorReset, msg)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(colorGreen, "✓", format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(colorYellow, "⚠", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(colorRed, "✗", format, args...)
}

// Debug logs a debug message if debug mode is enabled
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.log(colorCyan, "[DEBUG]", format, args...)
}

// Secret represents a value that should be redacted in logs
type Secret string

// String implements the Stringer interface, always returning a redacted value
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements the GoStringer interface for %#v formatting
func (s Secret) GoString() string {
	return "[REDACTED]"
}

// Redact replaces sensitive values in a string with [REDACTED]
func Redact(s string, secrets []string) string {
	result := s
	for _, secret := range secrets {
		if secret != "" && len(secret) > 3 { // Only redact non-trivial secrets
			result = strings.ReplaceAll(result, secret, "[REDACTED]")
		}
	}
	return result
}
