package publish

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/solvo/internal/natsutil"
	solvotest "github.com/arloliu/solvo/testing"
)

func counterStatus(n *atomic.Int64) StatusFunc {
	return func() Status {
		return Status{RunID: "run-1", State: "Solving", BestScore: "-" + time.Duration(n.Add(1)).String()}
	}
}

func TestHeartbeat_StartPublishesImmediately(t *testing.T) {
	_, nc := solvotest.StartEmbeddedNATS(t)
	kv := solvotest.CreateJetStreamKV(t, nc, "status-start")
	ctx := t.Context()

	var n atomic.Int64
	hb := NewHeartbeat(kv, "status.worker-1", time.Hour, counterStatus(&n))
	hb.SetLogger(solvotest.NewTestLogger(t))
	require.Equal(t, "status.worker-1", hb.Key())

	require.NoError(t, hb.Start(ctx))
	require.True(t, hb.IsStarted())
	require.EqualValues(t, 1, hb.Beats())

	st, err := ReadStatus(ctx, kv, "status.worker-1")
	require.NoError(t, err)
	require.Equal(t, "run-1", st.RunID)
	require.Equal(t, "Solving", st.State)
	require.False(t, st.UpdatedAt.IsZero())

	require.ErrorIs(t, hb.Start(ctx), ErrHeartbeatAlreadyStarted)

	require.NoError(t, hb.Stop())
	require.False(t, hb.IsStarted())

	_, err = ReadStatus(ctx, kv, "status.worker-1")
	require.True(t, natsutil.IsMissingKey(err))
}

func TestHeartbeat_Errors(t *testing.T) {
	_, nc := solvotest.StartEmbeddedNATS(t)
	kv := solvotest.CreateJetStreamKV(t, nc, "status-errors")

	hb := NewHeartbeat(kv, "status.worker-1", time.Second, nil)
	require.ErrorIs(t, hb.Start(t.Context()), ErrStatusSourceRequired)
	require.False(t, hb.IsStarted())
	require.ErrorIs(t, hb.Stop(), ErrHeartbeatNotStarted)
}

func TestHeartbeat_PeriodicUpdates(t *testing.T) {
	_, nc := solvotest.StartEmbeddedNATS(t)
	kv := solvotest.CreateJetStreamKV(t, nc, "status-periodic")
	ctx := t.Context()

	var n atomic.Int64
	hb := NewHeartbeat(kv, "status.worker-1", 50*time.Millisecond, counterStatus(&n))
	require.NoError(t, hb.Start(ctx))

	first, err := ReadStatus(ctx, kv, hb.Key())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hb.Beats() >= 3 }, 2*time.Second, 10*time.Millisecond)

	latest, err := ReadStatus(ctx, kv, hb.Key())
	require.NoError(t, err)
	require.True(t, latest.UpdatedAt.After(first.UpdatedAt))
	require.NotEqual(t, first.BestScore, latest.BestScore)
	require.Zero(t, hb.Failed())

	require.NoError(t, hb.Stop())

	// A stopped heartbeat can be started again.
	require.NoError(t, hb.Start(ctx))
	require.NoError(t, hb.Stop())
}

func TestHeartbeat_ExpiresWithBucketTTL(t *testing.T) {
	_, nc := solvotest.StartEmbeddedNATS(t)
	ctx := t.Context()

	kv := solvotest.CreateStatusKV(t, nc, "status-ttl", time.Second)

	var n atomic.Int64
	hb := NewHeartbeat(kv, "status.worker-1", time.Hour, counterStatus(&n))
	require.NoError(t, hb.Start(ctx))

	_, err := ReadStatus(ctx, kv, hb.Key())
	require.NoError(t, err)

	// No further beats within the TTL: the entry disappears as for a crashed process.
	require.Eventually(t, func() bool {
		_, err := ReadStatus(ctx, kv, hb.Key())
		return natsutil.IsMissingKey(err)
	}, 5*time.Second, 100*time.Millisecond)

	require.NoError(t, hb.Stop())
}
