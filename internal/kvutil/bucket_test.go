package kvutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	solvotest "github.com/arloliu/solvo/testing"
)

func TestEnsureBucket(t *testing.T) {
	_, nc := solvotest.StartEmbeddedNATS(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	t.Run("creates missing bucket", func(t *testing.T) {
		kv, err := EnsureBucket(ctx, js, jetstream.KeyValueConfig{Bucket: "best-1", History: 1}, 3)
		require.NoError(t, err)
		require.Equal(t, "best-1", kv.Bucket())
	})

	t.Run("opens existing bucket", func(t *testing.T) {
		cfg := jetstream.KeyValueConfig{Bucket: "best-2", History: 1}
		first, err := js.CreateKeyValue(ctx, cfg)
		require.NoError(t, err)
		_, err = first.PutString(ctx, "run.a", "x")
		require.NoError(t, err)

		kv, err := EnsureBucket(ctx, js, cfg, 0)
		require.NoError(t, err)

		entry, err := kv.Get(ctx, "run.a")
		require.NoError(t, err)
		require.Equal(t, "x", string(entry.Value()))
	})

	t.Run("concurrent publishers share one bucket", func(t *testing.T) {
		const workers = 10
		cfg := jetstream.KeyValueConfig{Bucket: "best-3", History: 1}

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for range workers {
			wg.Add(1) //nolint:revive // Standard pattern for concurrent operations
			go func() {
				defer wg.Done()
				if _, err := EnsureBucket(ctx, js, cfg, 5); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
	})

	t.Run("expired context fails", func(t *testing.T) {
		short, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		time.Sleep(time.Millisecond)

		_, err := EnsureBucket(short, js, jetstream.KeyValueConfig{Bucket: "best-4"}, 3)
		require.Error(t, err)
		require.Contains(t, err.Error(), "context")
	})
}
