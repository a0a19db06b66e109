package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/farmlink/marketplace-api/internal/api/metrics"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes moderation events to a fixed set of workers using
// consistent hashing on the listing key, guaranteeing per-listing ordering
// of the audit trail.
type Dispatcher struct {
	workers []chan ports.ModerationEvent
	service ports.AuditService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ModerationEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ModerationEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event on the worker responsible for its listing key.
// When the worker's buffer is full the event is dropped with a warning:
// audit recording must never block or fail the originating request.
func (d *Dispatcher) Record(event ports.ModerationEvent) {
	idx := d.shardIndex(eventKey(event))
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().Str("action", event.Action).Int("worker_id", idx).Msg("audit queue full, event dropped")
	}
}

// eventKey groups events so that all moderation history of one listing (or
// one user) lands on the same worker.
func eventKey(event ports.ModerationEvent) string {
	if event.TargetID != "" {
		return "user:" + event.TargetID
	}
	return fmt.Sprintf("%s:%d", event.Kind, event.PublicID)
}

func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ModerationEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("action", event.Action).
					Int("worker_id", id).
					Msg("moderation event processing failed")
			}
		}
	}
}
