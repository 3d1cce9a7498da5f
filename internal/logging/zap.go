package logging

import (
	"go.uber.org/zap"

	"github.com/arloliu/solvo/types"
)

// ZapLogger implements types.Logger on top of a zap.SugaredLogger.
//
// Key-value pairs are passed to the "w" variants of the sugared logger, so
// they end up as structured fields.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

var _ types.Logger = (*ZapLogger)(nil)

// NewZap wraps a sugared zap logger.
//
// Example:
//
//	z, _ := zap.NewProduction()
//	log := logging.NewZap(z.Sugar())
func NewZap(logger *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{logger: logger}
}

// With returns a logger that adds keysAndValues to every record.
func (l *ZapLogger) With(keysAndValues ...any) *ZapLogger {
	return &ZapLogger{logger: l.logger.With(keysAndValues...)}
}

// Debug logs a debug-level message with optional key-value pairs.
func (l *ZapLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

// Info logs an info-level message with optional key-value pairs.
func (l *ZapLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Infow(msg, keysAndValues...)
}

// Warn logs a warning-level message with optional key-value pairs.
func (l *ZapLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warnw(msg, keysAndValues...)
}

// Error logs an error-level message with optional key-value pairs.
func (l *ZapLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, keysAndValues...)
}

// Fatal logs a fatal-level message and exits the process.
func (l *ZapLogger) Fatal(msg string, keysAndValues ...any) {
	l.logger.Fatalw(msg, keysAndValues...)
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
