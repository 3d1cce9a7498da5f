package natsutil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout", nats.ErrTimeout, true},
		{"wrapped closed", fmt.Errorf("put: %w", nats.ErrConnectionClosed), true},
		{"no stream response", jetstream.ErrNoStreamResponse, true},
		{"deadline", context.DeadlineExceeded, true},
		{"refused text", errors.New("dial tcp: connection refused"), true},
		{"bucket not found", jetstream.ErrBucketNotFound, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsConnectivityError(tt.err))
		})
	}
}

func TestIsMissingKey(t *testing.T) {
	require.True(t, IsMissingKey(jetstream.ErrKeyNotFound))
	require.True(t, IsMissingKey(fmt.Errorf("get: %w", jetstream.ErrKeyDeleted)))
	require.False(t, IsMissingKey(nats.ErrTimeout))
	require.False(t, IsMissingKey(nil))
}
