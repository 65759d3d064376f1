// Package batcher buffers items and hands them to a flush callback in batches.
package batcher

import (
	"context"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const defaultFinalFlushTimeout = 10 * time.Second

// Batcher collects items and flushes them when the buffer reaches flushSize or every
// flushInterval. Flushes run on one goroutine in the order items were added and are rate
// limited to rps per second. A non-positive rps disables the limit.
type Batcher[T any] struct {
	logger        *zap.Logger
	flushCallback func(context.Context, []T) error
	onFlushError  func(items []T, err error)
	items         chan T
	buf           []T
	flushSize     int
	flushInterval time.Duration
	finalTimeout  time.Duration
	rl            ratelimit.Limiter

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New constructs a Batcher.
func New[T any](logger *zap.Logger, flushCallback func(context.Context, []T) error, flushSize int, flushInterval time.Duration, rps int) *Batcher[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if flushSize <= 0 {
		flushSize = 1
	}
	rl := ratelimit.NewUnlimited()
	if rps > 0 {
		rl = ratelimit.New(rps)
	}
	return &Batcher[T]{
		logger:        logger,
		flushCallback: flushCallback,
		items:         make(chan T, flushSize*2),
		buf:           make([]T, 0, flushSize),
		flushSize:     flushSize,
		flushInterval: flushInterval,
		finalTimeout:  defaultFinalFlushTimeout,
		rl:            rl,
		stop:          make(chan struct{}),
	}
}

// OnFlushError registers a handler invoked with the failed batch when a flush returns an error.
// The items slice is reused after the handler returns and must not be retained.
// It must be called before Start.
func (b *Batcher[T]) OnFlushError(handler func(items []T, err error)) *Batcher[T] {
	b.onFlushError = handler
	return b
}

// Start begins the background flushing loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop ends the loop once every item already queued has been flushed. It may be called more
// than once.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
	b.wg.Wait()
}

// Add queues an item, blocking while the queue is full. It returns context.Canceled once the
// batcher is stopped.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return context.Canceled
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return context.Canceled
	case b.items <- item:
		return nil
	}
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.drain(ctx)
			return
		case <-b.stop:
			b.drain(ctx)
			return
		case item := <-b.items:
			b.buf = append(b.buf, item)
			if len(b.buf) >= b.flushSize {
				b.flush(ctx)
			}
		case <-ticker.C:
			b.flush(ctx)
		}
	}
}

// drain flushes whatever is still queued. The flushes get a context that survives the
// cancellation of ctx, bounded by finalTimeout.
func (b *Batcher[T]) drain(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.finalTimeout)
	defer cancel()

	for {
		select {
		case item := <-b.items:
			b.buf = append(b.buf, item)
			if len(b.buf) >= b.flushSize {
				b.flush(ctx)
			}
		default:
			b.flush(ctx)
			return
		}
	}
}

func (b *Batcher[T]) flush(ctx context.Context) {
	if len(b.buf) == 0 {
		return
	}

	b.rl.Take()
	if err := b.flushCallback(ctx, b.buf); err != nil {
		b.logger.Error("batch not flushed", zap.Int("size", len(b.buf)), zap.Error(err))
		if b.onFlushError != nil {
			b.onFlushError(b.buf, err)
		}
	} else {
		b.logger.Debug("batch flushed", zap.Int("size", len(b.buf)))
	}
	b.buf = b.buf[:0]
}
