// Package logger holds the built-in types.Logger implementations: a
// discarding logger for solvers without one and a recording logger for
// tests.
package logger

import "github.com/arloliu/solvo/types"

// NopLogger drops every message. Solvers, publishers and heartbeats fall
// back to it when no logger is configured.
type NopLogger struct{}

var _ types.Logger = (*NopLogger)(nil)

// NewNop returns a logger that drops every message.
func NewNop() *NopLogger {
	return &NopLogger{}
}

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}

// Fatal drops the message and, unlike other loggers, does not exit.
func (*NopLogger) Fatal(string, ...any) {}
