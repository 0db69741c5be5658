package redissink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/readprof"
	"github.com/MrEthical07/readprof/internal/dispatch"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNilClient is returned by [New] without a Redis client.
	ErrNilClient = errors.New("nil redis client")
	// ErrInvalidConfig is returned by [Config.Validate].
	ErrInvalidConfig = errors.New("invalid redis sink config")
	// ErrRedisUnavailable wraps Redis command failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const (
	fieldCount = "count"
	fieldSum   = "sum_ms"
	fieldSlow  = "slow"
)

// Config controls key naming and buffering.
type Config struct {
	Prefix     string
	InstanceID string
	BufferSize int
	DropIfFull bool
	MaxBatch   int
	// KeyTTL refreshes the instance hash expiry on every write. Zero keeps
	// the hash forever.
	KeyTTL time.Duration
}

// DefaultConfig returns a non-blocking configuration with a random instance id.
func DefaultConfig() Config {
	return Config{
		Prefix:     "readprof",
		InstanceID: uuid.NewString(),
		BufferSize: 4096,
		DropIfFull: true,
		MaxBatch:   256,
		KeyTTL:     24 * time.Hour,
	}
}

// Validate checks cfg after defaults have been applied.
func (c *Config) Validate() error {
	if c.Prefix == "" {
		return fmt.Errorf("%w: empty prefix", ErrInvalidConfig)
	}
	if strings.Contains(c.InstanceID, ":") || c.InstanceID == "" {
		return fmt.Errorf("%w: instance id must be non-empty and free of ':'", ErrInvalidConfig)
	}
	if c.BufferSize < 0 || c.MaxBatch < 0 {
		return fmt.Errorf("%w: negative buffer size", ErrInvalidConfig)
	}
	if c.KeyTTL < 0 {
		return fmt.Errorf("%w: negative key ttl", ErrInvalidConfig)
	}
	return nil
}

// Option customizes a [Sink].
type Option func(*Sink)

// WithLogger sets where the first write failure is reported.
func WithLogger(l readprof.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

// Sink is a [readprof.LatencySink] backed by a Redis hash.
type Sink struct {
	redis      redis.UniversalClient
	cfg        Config
	key        string
	dispatcher *dispatch.Dispatcher[int64]
	logger     readprof.Logger

	failures     atomic.Uint64
	failureNoted atomic.Bool
}

// New starts a sink writing to client. Empty Prefix and InstanceID fields are
// filled from [DefaultConfig].
func New(client redis.UniversalClient, cfg Config, opts ...Option) (*Sink, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	def := DefaultConfig()
	if cfg.Prefix == "" {
		cfg.Prefix = def.Prefix
	}
	if cfg.InstanceID == "" {
		cfg.InstanceID = def.InstanceID
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Sink{
		redis:  client,
		cfg:    cfg,
		key:    instanceKey(cfg.Prefix, cfg.InstanceID),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.dispatcher = dispatch.New[int64](dispatch.Config{
		Enabled:    true,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
		MaxBatch:   cfg.MaxBatch,
	}, dispatch.HandlerFunc[int64](s.flush))

	return s, nil
}

// Key returns the hash this sink writes to.
func (s *Sink) Key() string { return s.key }

// AddLatency implements [readprof.LatencySink].
func (s *Sink) AddLatency(millis int64) {
	if s == nil {
		return
	}
	s.dispatcher.Emit(context.Background(), millis)
}

// Close flushes buffered samples. It does not close the Redis client.
func (s *Sink) Close() {
	if s == nil {
		return
	}
	s.dispatcher.Close()
}

// Dropped returns samples discarded because the buffer was full.
func (s *Sink) Dropped() uint64 {
	if s == nil {
		return 0
	}
	return s.dispatcher.Dropped()
}

// Failures returns how many batches failed to reach Redis.
func (s *Sink) Failures() uint64 {
	if s == nil {
		return 0
	}
	return s.failures.Load()
}

func (s *Sink) flush(ctx context.Context, batch []int64) {
	var t Totals
	for _, ms := range batch {
		t.add(ms)
	}

	_, err := s.redis.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, s.key, fieldCount, int64(t.Count))
		pipe.HIncrBy(ctx, s.key, fieldSum, int64(t.SumMillis))
		if t.Slow > 0 {
			pipe.HIncrBy(ctx, s.key, fieldSlow, int64(t.Slow))
		}
		for i, n := range t.Buckets {
			if n > 0 {
				pipe.HIncrBy(ctx, s.key, bucketFields[i], int64(n))
			}
		}
		if s.cfg.KeyTTL > 0 {
			pipe.Expire(ctx, s.key, s.cfg.KeyTTL)
		}
		return nil
	})
	if err == nil {
		return
	}

	s.failures.Add(1)
	if s.failureNoted.CompareAndSwap(false, true) {
		s.logger.Warn("redis latency sink write failed; further failures are counted only",
			"key", s.key,
			"error", err.Error(),
		)
	}
}

// Totals reads this instance's hash.
func (s *Sink) Totals(ctx context.Context) (Totals, error) {
	return readTotals(ctx, s.redis, s.key)
}

func instanceKey(prefix, instance string) string {
	return prefix + ":" + instance
}

var bucketFields = func() [len(readprof.LatencyBucketBoundsMillis) + 1]string {
	var out [len(readprof.LatencyBucketBoundsMillis) + 1]string
	for i, le := range readprof.LatencyBucketBoundsMillis {
		out[i] = "le_" + strconv.FormatInt(le, 10)
	}
	out[len(out)-1] = "le_inf"
	return out
}()
