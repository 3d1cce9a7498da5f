package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/time/rate"

	"github.com/arloliu/solvo/internal/kvutil"
	"github.com/arloliu/solvo/internal/logger"
	"github.com/arloliu/solvo/internal/natsutil"
	"github.com/arloliu/solvo/types"
)

// Default publisher settings.
const (
	DefaultBucket    = "solvo-best-solutions"
	DefaultKeyPrefix = "best"
	DefaultRate      = 10.0
	DefaultBurst     = 1
)

// Config configures a KVPublisher.
type Config struct {
	// Bucket is the KV bucket name.
	Bucket string `yaml:"bucket"`

	// KeyPrefix is prepended to the run ID to form the key.
	KeyPrefix string `yaml:"keyPrefix"`

	// TTL expires records of finished runs (0 keeps them forever).
	TTL time.Duration `yaml:"ttl"`

	// Rate is the sustained number of intermediate events written per
	// second across all runs. Non-positive means unlimited.
	Rate float64 `yaml:"rate"`

	// Burst is the number of events allowed above Rate.
	Burst int `yaml:"burst"`

	// MaxRetries bounds bucket creation attempts.
	MaxRetries int `yaml:"maxRetries"`
}

// DefaultConfig returns the default publisher configuration.
func DefaultConfig() Config {
	return Config{
		Bucket:     DefaultBucket,
		KeyPrefix:  DefaultKeyPrefix,
		Rate:       DefaultRate,
		Burst:      DefaultBurst,
		MaxRetries: kvutil.DefaultMaxRetries,
	}
}

// Record is the JSON value stored for a run.
type Record struct {
	types.BestSolutionEvent

	// PublishedAt is when the record was written.
	PublishedAt time.Time `json:"publishedAt"`
}

// Option configures a KVPublisher.
type Option func(*KVPublisher)

// WithLogger sets the logger.
func WithLogger(l types.Logger) Option {
	return func(p *KVPublisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// KVPublisher writes best-solution events to a JetStream KV bucket.
//
// It is safe for concurrent use; solver hooks call Publish from background
// goroutines, so events of one run may arrive out of order. An event older
// than one already seen for the same run is ignored.
type KVPublisher struct {
	kv      jetstream.KeyValue
	prefix  string
	limiter *rate.Limiter
	logger  types.Logger

	mu      sync.Mutex
	latest  map[string]position
	pending map[string]types.BestSolutionEvent

	published atomic.Int64
	deferred  atomic.Int64
}

// position orders the events of one run.
type position struct {
	phase, step int
	phaseEnded  bool
}

func positionOf(e types.BestSolutionEvent) position {
	return position{phase: e.PhaseIndex, step: e.StepIndex, phaseEnded: e.PhaseEnded}
}

func (p position) before(o position) bool {
	if p.phase != o.phase {
		return p.phase < o.phase
	}
	if p.step != o.step {
		return p.step < o.step
	}

	return !p.phaseEnded && o.phaseEnded
}

// NewKVPublisher opens (creating if needed) the configured bucket on nc.
//
// Parameters:
//   - ctx: Context bounding bucket creation
//   - nc: NATS connection with JetStream enabled
//   - cfg: Publisher configuration; zero fields take defaults
//   - opts: Optional logger
//
// Returns:
//   - *KVPublisher: Ready publisher
//   - error: ErrNATSConnectionRequired, or a bucket creation error
func NewKVPublisher(ctx context.Context, nc *nats.Conn, cfg Config, opts ...Option) (*KVPublisher, error) {
	if nc == nil {
		return nil, types.ErrNATSConnectionRequired
	}
	cfg = withDefaults(cfg)

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "solvo best solutions",
		History:     1,
		TTL:         cfg.TTL,
	}, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}

	return New(kv, cfg, opts...), nil
}

// New creates a publisher on an existing bucket.
//
// Parameters:
//   - kv: Destination bucket
//   - cfg: Publisher configuration; Bucket and TTL are ignored
//   - opts: Optional logger
//
// Returns:
//   - *KVPublisher: Ready publisher
func New(kv jetstream.KeyValue, cfg Config, opts ...Option) *KVPublisher {
	cfg = withDefaults(cfg)

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}

	p := &KVPublisher{
		kv:      kv,
		prefix:  cfg.KeyPrefix,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		logger:  logger.NewNop(),
		latest:  make(map[string]position),
		pending: make(map[string]types.BestSolutionEvent),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Bucket == "" {
		cfg.Bucket = def.Bucket
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = def.KeyPrefix
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}

	return cfg
}

// Key returns the KV key of runID.
func (p *KVPublisher) Key(runID string) string {
	return p.prefix + "." + runID
}

// Publish writes event, or defers it when the rate limit is exhausted.
//
// Its signature matches types.Hooks.OnBestSolutionChanged. Phase-end events
// bypass the limiter. A deferred event is written by the next accepted
// Publish of the same run or by Flush, unless a newer event replaces it.
//
// Returns:
//   - error: ErrPublishFailed wrapping the KV error
func (p *KVPublisher) Publish(ctx context.Context, event types.BestSolutionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos := positionOf(event)
	if last, ok := p.latest[event.RunID]; ok && pos.before(last) {
		return nil
	}
	p.latest[event.RunID] = pos

	if !event.PhaseEnded && !p.limiter.Allow() {
		p.pending[event.RunID] = event
		p.deferred.Add(1)

		return nil
	}

	delete(p.pending, event.RunID)

	return p.put(ctx, event)
}

// Flush writes every deferred event.
//
// Returns:
//   - error: Joined errors of the failed writes
func (p *KVPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	events := make([]types.BestSolutionEvent, 0, len(p.pending))
	for _, event := range p.pending {
		events = append(events, event)
	}
	clear(p.pending)

	var errs []error
	for _, event := range events {
		if err := p.put(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Get reads the stored record of runID.
//
// Returns:
//   - Record: Decoded record
//   - error: jetstream.ErrKeyNotFound when the run never published
func (p *KVPublisher) Get(ctx context.Context, runID string) (Record, error) {
	entry, err := p.kv.Get(ctx, p.Key(runID))
	if err != nil {
		return Record{}, err
	}

	var r Record
	if err := json.Unmarshal(entry.Value(), &r); err != nil {
		return Record{}, fmt.Errorf("failed to decode record %s: %w", entry.Key(), err)
	}

	return r, nil
}

// Published returns the number of records written.
func (p *KVPublisher) Published() int64 {
	return p.published.Load()
}

// Deferred returns the number of events held back by the rate limit.
func (p *KVPublisher) Deferred() int64 {
	return p.deferred.Load()
}

// Pending returns the number of runs with a deferred event.
func (p *KVPublisher) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.pending)
}

// put must be called with p.mu held.
func (p *KVPublisher) put(ctx context.Context, event types.BestSolutionEvent) error {
	data, err := json.Marshal(Record{BestSolutionEvent: event, PublishedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrPublishFailed, err)
	}

	key := p.Key(event.RunID)
	if _, err := p.kv.Put(ctx, key, data); err != nil {
		if natsutil.IsConnectivityError(err) {
			// Keep it so Flush can retry once the connection is back.
			p.pending[event.RunID] = event
			p.logger.Warn("best solution publish deferred, NATS unavailable", "key", key, "error", err)
		} else {
			p.logger.Error("best solution publish failed", "key", key, "error", err)
		}

		return fmt.Errorf("%w: %s: %w", types.ErrPublishFailed, key, err)
	}

	p.published.Add(1)
	p.logger.Debug("best solution published", "key", key, "score", event.ScoreString, "phaseEnded", event.PhaseEnded)

	return nil
}
