package testing

import (
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StartEmbeddedNATS starts an in-process NATS server with JetStream on a
// random port and returns it with a connected client.
//
// JetStream data lives in t.TempDir(); the client and the server are closed
// by t.Cleanup, client first.
//
// Example:
//
//	_, nc := solvotest.StartEmbeddedNATS(t)
//	pub, err := publish.NewKVPublisher(t.Context(), nc, publish.DefaultConfig())
func StartEmbeddedNATS(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
		NoSigs:    true,
	})
	if err != nil {
		t.Fatalf("failed to create embedded NATS server: %v", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatal("embedded NATS server not ready within 5s")
	}

	nc, err := nats.Connect(ns.ClientURL(), nats.Timeout(2*time.Second), nats.MaxReconnects(3))
	if err != nil {
		ns.Shutdown()
		t.Fatalf("failed to connect to embedded NATS server: %v", err)
	}

	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return ns, nc
}

// CreateJetStreamKV creates an in-memory KV bucket keeping one revision per
// key, the layout of the best-solution bucket.
func CreateJetStreamKV(t *testing.T, nc *nats.Conn, bucket string) jetstream.KeyValue {
	t.Helper()

	return createKV(t, nc, jetstream.KeyValueConfig{Bucket: bucket, History: 1})
}

// CreateStatusKV creates an in-memory KV bucket whose entries expire after
// ttl, the layout of the solver status bucket. A heartbeat that stops
// beating disappears from it once ttl elapsed.
func CreateStatusKV(t *testing.T, nc *nats.Conn, bucket string, ttl time.Duration) jetstream.KeyValue {
	t.Helper()

	return createKV(t, nc, jetstream.KeyValueConfig{Bucket: bucket, History: 1, TTL: ttl})
}

func createKV(t *testing.T, nc *nats.Conn, cfg jetstream.KeyValueConfig) jetstream.KeyValue {
	t.Helper()

	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("failed to create JetStream context: %v", err)
	}

	cfg.Storage = jetstream.MemoryStorage
	cfg.Replicas = 1
	kv, err := js.CreateKeyValue(t.Context(), cfg)
	if err != nil {
		t.Fatalf("failed to create KV bucket %s: %v", cfg.Bucket, err)
	}

	return kv
}
