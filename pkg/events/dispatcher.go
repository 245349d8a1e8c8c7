package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/thesis-workflow-api/pkg/config"
	"github.com/noah-isme/thesis-workflow-api/pkg/jobs"
)

const drainTimeout = 10 * time.Second

// Dispatcher hands events to a background worker so request latency never
// depends on the broker. A single worker keeps events in commit order.
type Dispatcher struct {
	next  Publisher
	queue *jobs.Queue[Event]
}

// NewDispatcher wraps next with a bounded delivery queue. onDrop is invoked for
// events that could not be delivered after all retries.
func NewDispatcher(next Publisher, cfg config.EventsConfig, logger *zap.Logger, onDrop func(Event, error)) *Dispatcher {
	d := &Dispatcher{next: next}
	d.queue = jobs.New("workflow-events", func(ctx context.Context, evt Event) error {
		return next.Publish(ctx, evt)
	}, jobs.Config[Event]{
		Workers:    1,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		OnFailure:  onDrop,
	})
	return d
}

// Start launches the delivery worker.
func (d *Dispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Publish enqueues the event. It fails only when the buffer is full or the
// dispatcher is closed.
func (d *Dispatcher) Publish(_ context.Context, event Event) error {
	return d.queue.Enqueue(event)
}

// Close drains pending events, then closes the underlying publisher.
func (d *Dispatcher) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	d.queue.Stop(ctx)
	return d.next.Close()
}
