// Package kvutil provides utilities for working with NATS JetStream KeyValue stores.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultMaxRetries is used when EnsureBucket gets a non-positive retry count.
const DefaultMaxRetries = 3

// EnsureBucket creates or opens a KV bucket with retry logic.
//
// Several solver processes may publish to the same bucket and race to create
// it; an ErrBucketExists answer opens the existing bucket instead. Other
// failures are retried with exponential backoff (10ms, 20ms, 40ms, ...).
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - config: KV bucket configuration
//   - maxRetries: Maximum number of attempts (DefaultMaxRetries when <= 0)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket instance
//   - error: Last error wrapped with the bucket name
//
// Example:
//
//	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
//	    Bucket:  "solvo-best",
//	    History: 1,
//	}, 3)
func EnsureBucket(ctx context.Context, js jetstream.JetStream, config jetstream.KeyValueConfig, maxRetries int) (jetstream.KeyValue, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	var lastErr error
	for attempt := range maxRetries {
		kv, err := open(ctx, js, config)
		if err == nil {
			return kv, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled while ensuring KV bucket %s: %w", config.Bucket, ctx.Err())
		}
		if attempt == maxRetries-1 {
			break
		}

		backoff := time.Duration(1<<uint(attempt)) * 10 * time.Millisecond //nolint:gosec // attempt is bounded by maxRetries
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("failed to create/open KV bucket %s after %d attempts: %w",
		config.Bucket, maxRetries, lastErr)
}

func open(ctx context.Context, js jetstream.JetStream, config jetstream.KeyValueConfig) (jetstream.KeyValue, error) {
	kv, err := js.CreateKeyValue(ctx, config)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketExists) {
		return nil, err
	}

	// Created concurrently, possibly with a different config.
	kv, err = js.KeyValue(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("bucket exists but failed to open: %w", err)
	}

	return kv, nil
}
