package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/solvo/internal/logger"
	"github.com/arloliu/solvo/internal/natsutil"
	"github.com/arloliu/solvo/types"
)

// DefaultStatusBucket is the KV bucket of solver status heartbeats.
const DefaultStatusBucket = "solvo-solver-status"

// Common errors for heartbeat operations.
var (
	ErrHeartbeatNotStarted     = errors.New("heartbeat not started")
	ErrHeartbeatAlreadyStarted = errors.New("heartbeat already started")
	ErrStatusSourceRequired    = errors.New("status source is required")
)

// Status is the JSON value of a solver heartbeat.
type Status struct {
	// RunID identifies the current or last run ("" before the first run).
	RunID string `json:"runId"`

	// State is the solver state name (Idle, Solving, Terminated).
	State string `json:"state"`

	// Paused reports whether the step loop is parked.
	Paused bool `json:"paused"`

	// BestScore is the best score of the run so far.
	BestScore string `json:"bestScore,omitempty"`

	// Feasible reports whether BestScore is feasible.
	Feasible bool `json:"feasible"`

	// UpdatedAt is set by the heartbeat when the status is written.
	UpdatedAt time.Time `json:"updatedAt"`
}

// StatusFunc returns the current status of a solver.
//
// It is called from the heartbeat goroutine and must be safe for concurrent use.
type StatusFunc func() Status

// Heartbeat periodically writes the status of one solver to a KV key.
//
// Watchers use the key to follow long-running solves. The bucket should be
// configured with a TTL of ~3x the interval so the key of a crashed process
// disappears after three missed heartbeats; Stop deletes the key right away.
type Heartbeat struct {
	kv       jetstream.KeyValue
	key      string
	interval time.Duration
	status   StatusFunc
	logger   types.Logger

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	ticker  *time.Ticker

	beats  atomic.Int64
	failed atomic.Int64
}

// NewHeartbeat creates a status heartbeat.
//
// Parameters:
//   - kv: JetStream KV bucket for status entries
//   - key: Entry key, e.g. "status.worker-1"
//   - interval: Heartbeat interval (typically 2s)
//   - status: Source of the status to publish
//
// Returns:
//   - *Heartbeat: Stopped heartbeat
//
// Example:
//
//	kv, _ := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
//	    Bucket: publish.DefaultStatusBucket,
//	    TTL:    6 * time.Second, // 3x interval
//	}, 0)
//	hb := publish.NewHeartbeat(kv, "status.worker-1", 2*time.Second, statusOf(solver))
func NewHeartbeat(kv jetstream.KeyValue, key string, interval time.Duration, status StatusFunc) *Heartbeat {
	return &Heartbeat{
		kv:       kv,
		key:      key,
		interval: interval,
		status:   status,
		logger:   logger.NewNop(),
	}
}

// SetLogger sets the logger reporting failed heartbeats. Must be called before Start.
func (h *Heartbeat) SetLogger(l types.Logger) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if l != nil {
		h.logger = l
	}
}

// Start publishes the first status immediately, then at every interval
// until Stop is called.
//
// Returns:
//   - error: ErrHeartbeatAlreadyStarted, ErrStatusSourceRequired, or the
//     error of the initial write
func (h *Heartbeat) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return ErrHeartbeatAlreadyStarted
	}
	if h.status == nil {
		return ErrStatusSourceRequired
	}

	if err := h.publish(ctx); err != nil {
		return fmt.Errorf("failed to publish initial heartbeat: %w", err)
	}

	h.started = true
	h.stopCh = make(chan struct{})
	h.doneCh = make(chan struct{})
	h.ticker = time.NewTicker(h.interval)

	go h.loop(h.ticker, h.stopCh, h.doneCh)

	return nil
}

// Stop ends the heartbeat and deletes the status entry.
//
// Blocks until the heartbeat goroutine exits. A Heartbeat may be started
// again after Stop.
//
// Returns:
//   - error: ErrHeartbeatNotStarted, or the error of the delete
func (h *Heartbeat) Stop() error {
	h.mu.Lock()
	if !h.started {
		h.mu.Unlock()
		return ErrHeartbeatNotStarted
	}

	h.ticker.Stop()
	close(h.stopCh)
	h.started = false
	done := h.doneCh
	h.mu.Unlock()

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.kv.Delete(ctx, h.key); err != nil {
		return fmt.Errorf("stopped but failed to delete status %s: %w", h.key, err)
	}

	return nil
}

// IsStarted reports whether the heartbeat is running.
func (h *Heartbeat) IsStarted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.started
}

// Key returns the status entry key.
func (h *Heartbeat) Key() string {
	return h.key
}

// Beats returns the number of successful writes.
func (h *Heartbeat) Beats() int64 {
	return h.beats.Load()
}

// Failed returns the number of failed writes.
func (h *Heartbeat) Failed() int64 {
	return h.failed.Load()
}

func (h *Heartbeat) loop(ticker *time.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := h.publish(ctx)
			cancel()

			if err != nil {
				h.mu.Lock()
				log := h.logger
				h.mu.Unlock()
				if natsutil.IsConnectivityError(err) {
					log.Warn("heartbeat skipped, NATS unavailable", "key", h.key, "error", err)
				} else {
					log.Error("heartbeat failed", "key", h.key, "error", err)
				}
			}
		}
	}
}

func (h *Heartbeat) publish(ctx context.Context) error {
	st := h.status()
	st.UpdatedAt = time.Now()

	data, err := json.Marshal(st)
	if err != nil {
		h.failed.Add(1)
		return fmt.Errorf("failed to encode status: %w", err)
	}
	if _, err := h.kv.Put(ctx, h.key, data); err != nil {
		h.failed.Add(1)
		return fmt.Errorf("failed to publish status %s: %w", h.key, err)
	}
	h.beats.Add(1)

	return nil
}

// ReadStatus returns the status stored under key. A stopped or expired
// heartbeat reports an error for which natsutil.IsMissingKey is true.
func ReadStatus(ctx context.Context, kv jetstream.KeyValue, key string) (Status, error) {
	entry, err := kv.Get(ctx, key)
	if err != nil {
		return Status{}, err
	}

	var st Status
	if err := json.Unmarshal(entry.Value(), &st); err != nil {
		return Status{}, fmt.Errorf("failed to decode status %s: %w", key, err)
	}

	return st, nil
}
