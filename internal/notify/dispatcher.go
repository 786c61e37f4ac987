package notify

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vuongngo/reactive-forum-api/internal/metrics"
)

var (
	ErrQueueFull        = errors.New("notification queue is full")
	ErrDispatcherClosed = errors.New("notification dispatcher is closed")
)

// Dispatcher delivers events to a sink asynchronously.
// Events of one thread always land on the same worker, so they are delivered in publish order.
type Dispatcher struct {
	next    Sink
	name    string
	queues  []chan Event
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts workers goroutines in front of next
func NewDispatcher(next Sink, name string, workers, queueSize int, m *metrics.Metrics, logger *zap.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	d := &Dispatcher{
		next:    next,
		name:    name,
		queues:  make([]chan Event, workers),
		timeout: 5 * time.Second,
		metrics: m,
		logger:  logger,
	}
	for i := range d.queues {
		d.queues[i] = make(chan Event, queueSize)
		d.wg.Add(1)
		go d.work(d.queues[i])
	}
	return d
}

// Publish enqueues the event without blocking
func (d *Dispatcher) Publish(_ context.Context, event Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queues[d.shard(event)] <- event:
		return nil
	default:
		d.metrics.IncrementNotificationDropped()
		return ErrQueueFull
	}
}

func (d *Dispatcher) shard(event Event) int {
	h := fnv.New32a()
	_, _ = h.Write(event.ThreadID[:])
	return int(h.Sum32() % uint32(len(d.queues)))
}

func (d *Dispatcher) work(queue <-chan Event) {
	defer d.wg.Done()
	for event := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		start := time.Now()
		err := d.next.Publish(ctx, event)
		cancel()

		d.metrics.RecordNotification(d.name, string(event.Entity), time.Since(start), err)
		if err != nil {
			d.logger.Warn("Failed to deliver notification",
				zap.String("sink", d.name),
				zap.String("event", event.Name()),
				zap.String("thread_id", event.ThreadID.String()),
				zap.Error(err),
			)
		}
	}
}

// Close stops accepting events and waits until queued events are delivered
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, queue := range d.queues {
		close(queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
