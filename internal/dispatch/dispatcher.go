package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxBatch = 256

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
	// MaxBatch caps how many buffered values are handed to the handler at once.
	MaxBatch int
}

// Handler receives one batch of values. The slice is reused after the call
// returns.
type Handler[T any] interface {
	Handle(ctx context.Context, batch []T)
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc[T any] func(ctx context.Context, batch []T)

func (f HandlerFunc[T]) Handle(ctx context.Context, batch []T) { f(ctx, batch) }

// Dispatcher asynchronously forwards values to a handler in batches.
type Dispatcher[T any] struct {
	cfg       Config
	handler   Handler[T]
	ch        chan T
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// New starts a dispatcher goroutine. It returns nil when cfg is disabled or
// handler is nil; a nil *Dispatcher accepts and discards values.
func New[T any](cfg Config, handler Handler[T]) *Dispatcher[T] {
	if !cfg.Enabled || handler == nil {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = defaultMaxBatch
	}

	d := &Dispatcher[T]{
		cfg:     cfg,
		handler: handler,
		ch:      make(chan T, cfg.BufferSize),
		done:    make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher[T]) run() {
	defer d.wg.Done()

	batch := make([]T, 0, d.cfg.MaxBatch)
	for {
		select {
		case v := <-d.ch:
			batch = d.fill(append(batch[:0], v))
			d.handler.Handle(context.Background(), batch)
		case <-d.done:
			for {
				batch = d.fill(batch[:0])
				if len(batch) == 0 {
					return
				}
				d.handler.Handle(context.Background(), batch)
			}
		}
	}
}

// fill drains already-buffered values into batch without blocking.
func (d *Dispatcher[T]) fill(batch []T) []T {
	for len(batch) < d.cfg.MaxBatch {
		select {
		case v := <-d.ch:
			batch = append(batch, v)
		default:
			return batch
		}
	}
	return batch
}

// Emit enqueues v. With DropIfFull it never blocks and counts the drop;
// otherwise it waits for space, ctx cancellation or Close.
func (d *Dispatcher[T]) Emit(ctx context.Context, v T) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- v:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- v:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Close stops accepting values, delivers everything already buffered and
// waits for the handler to return.
func (d *Dispatcher[T]) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped returns how many values were discarded because the buffer was full.
func (d *Dispatcher[T]) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
