// Package testing provides test utilities for solvo users.
//
// It offers an embedded NATS server with JetStream for exercising the
// publish package without external infrastructure, and a logger that
// writes to testing.T while recording entries for assertions. It follows
// Go's convention of providing testing utilities in a dedicated package
// (similar to net/http/httptest).
//
// Example usage:
//
//	import (
//	    "testing"
//	    solvotest "github.com/arloliu/solvo/testing"
//	)
//
//	func TestPublishing(t *testing.T) {
//	    _, nc := solvotest.StartEmbeddedNATS(t)
//	    kv := solvotest.CreateJetStreamKV(t, nc, "solvo-best")
//	    // Publish best-solution events to kv
//	}
package testing
