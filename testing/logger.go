package testing

import (
	"testing"

	"github.com/arloliu/solvo/internal/logger"
)

// TestLogger is a types.Logger writing to testing.T that records every entry.
type TestLogger = logger.TestLogger

// NewTestLogger creates a logger that writes to t.Logf.
//
// Recorded entries can be inspected with Entries and Count, for example
// to assert that a phase warned about running out of doable moves.
func NewTestLogger(t *testing.T) *TestLogger {
	return logger.NewTest(t)
}
