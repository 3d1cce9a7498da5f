package logger

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/arloliu/solvo/types"
)

// Entry is one message captured by a TestLogger.
type Entry struct {
	Level   string
	Message string
	Fields  string
}

// TestLogger implements types.Logger using testing.T for output.
//
// Messages are also recorded so tests can assert on warnings such as the
// "no doable move" degradation of a phase.
type TestLogger struct {
	t *testing.T

	mu      sync.Mutex
	entries []Entry
}

// Compile-time assertion that TestLogger implements Logger.
var _ types.Logger = (*TestLogger)(nil)

// NewTest creates a new test logger that writes to testing.T.
//
// Parameters:
//   - t: The testing.T instance to write logs to
//
// Returns:
//   - *TestLogger: A new logger instance that uses t.Logf()
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    log := logger.NewTest(t)
//	    log.Info("phase started", "phaseIndex", 0)
//	}
func NewTest(t *testing.T) *TestLogger {
	return &TestLogger{t: t}
}

// Debug logs a debug-level message with optional key-value pairs.
func (l *TestLogger) Debug(msg string, keysAndValues ...any) {
	l.log("DEBUG", msg, keysAndValues)
}

// Info logs an info-level message with optional key-value pairs.
func (l *TestLogger) Info(msg string, keysAndValues ...any) {
	l.log("INFO", msg, keysAndValues)
}

// Warn logs a warning-level message with optional key-value pairs.
func (l *TestLogger) Warn(msg string, keysAndValues ...any) {
	l.log("WARN", msg, keysAndValues)
}

// Error logs an error-level message with optional key-value pairs.
func (l *TestLogger) Error(msg string, keysAndValues ...any) {
	l.log("ERROR", msg, keysAndValues)
}

// Fatal logs a fatal-level message and fails the test.
func (l *TestLogger) Fatal(msg string, keysAndValues ...any) {
	l.log("FATAL", msg, keysAndValues)
	l.t.FailNow()
}

// Entries returns a copy of the recorded messages.
func (l *TestLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)

	return out
}

// Count returns how many messages at level contain substr.
//
// Parameters:
//   - level: "DEBUG", "INFO", "WARN", "ERROR" or "FATAL"
//   - substr: Text the message must contain
func (l *TestLogger) Count(level, substr string) int {
	n := 0
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			n++
		}
	}

	return n
}

func (l *TestLogger) log(level, msg string, keysAndValues []any) {
	fields := formatKeyValues(keysAndValues)

	l.mu.Lock()
	l.entries = append(l.entries, Entry{Level: level, Message: msg, Fields: fields})
	l.mu.Unlock()

	l.t.Logf("%s: %s %s", level, msg, fields)
}

// formatKeyValues formats key-value pairs for logging.
func formatKeyValues(keysAndValues []any) string {
	if len(keysAndValues) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&sb, "%v=%v ", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&sb, "%v=<missing> ", keysAndValues[i])
		}
	}

	return sb.String()
}
