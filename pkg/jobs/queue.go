package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrQueueFull is returned by Enqueue when the buffer has no free slot.
var ErrQueueFull = errors.New("queue full")

// ErrQueueStopped is returned by Enqueue before Start or after Stop.
var ErrQueueStopped = errors.New("queue stopped")

// Handler processes one item.
type Handler[T any] func(context.Context, T) error

// Config configures worker pool behaviour.
type Config[T any] struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
	// OnFailure is called once an item has exhausted its retries.
	OnFailure func(item T, err error)
}

// Queue is a bounded in-memory dispatcher backed by goroutines. Enqueue never
// blocks. Failed items are retried in place by the same worker, so with a
// single worker items are handled strictly in enqueue order.
type Queue[T any] struct {
	name    string
	handler Handler[T]
	cfg     Config[T]

	items   chan T
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
	stopped bool
}

// New builds a queue with the provided handler.
func New[T any](name string, handler Handler[T], cfg Config[T]) *Queue[T] {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 64
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue[T]{
		name:    name,
		handler: handler,
		cfg:     cfg,
		items:   make(chan T, cfg.BufferSize),
	}
}

// Start begins worker consumption. Safe to call more than once.
func (q *Queue[T]) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.cfg.Logger.Info("queue started", zap.String("queue", q.name), zap.Int("workers", q.cfg.Workers))
}

// Stop stops accepting items, lets workers finish what is buffered until ctx
// expires, then cancels them.
func (q *Queue[T]) Stop(ctx context.Context) {
	q.mu.Lock()
	if !q.started || q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.items)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		q.cfg.Logger.Warn("queue drain deadline exceeded, failing remaining items", zap.String("queue", q.name), zap.Int("pending", len(q.items)))
		q.cancel()
		<-done
	}
	q.cancel()
	q.cfg.Logger.Info("queue stopped", zap.String("queue", q.name))
}

// Enqueue pushes an item onto the queue without blocking.
func (q *Queue[T]) Enqueue(item T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if !q.started || q.stopped {
		return fmt.Errorf("queue %s: %w", q.name, ErrQueueStopped)
	}

	select {
	case q.items <- item:
		return nil
	default:
		return fmt.Errorf("queue %s: %w", q.name, ErrQueueFull)
	}
}

// Len reports how many items are waiting.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

func (q *Queue[T]) worker() {
	defer q.wg.Done()
	for item := range q.items {
		q.process(item)
	}
}

func (q *Queue[T]) process(item T) {
	var err error
	for attempt := 0; attempt <= q.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(q.cfg.RetryDelay)
			select {
			case <-q.ctx.Done():
				timer.Stop()
				q.fail(item, q.ctx.Err())
				return
			case <-timer.C:
			}
			q.cfg.Logger.Warn("retrying item", zap.String("queue", q.name), zap.Int("attempt", attempt), zap.Error(err))
		}
		if err = q.handler(q.ctx, item); err == nil {
			return
		}
	}
	q.fail(item, err)
}

func (q *Queue[T]) fail(item T, err error) {
	q.cfg.Logger.Error("item exceeded retries", zap.String("queue", q.name), zap.Int("max_retries", q.cfg.MaxRetries), zap.Error(err))
	if q.cfg.OnFailure != nil {
		q.cfg.OnFailure(item, err)
	}
}
