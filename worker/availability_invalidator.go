package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cruisedesk/sales-service/cache"
	"github.com/cruisedesk/sales-service/model"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// AvailabilityInvalidator consumes the platform booking events and drops the
// cached unavailable-cabin set of every sailing whose inventory changed. The
// next deck load then re-fetches a fresh set from the booking service
// instead of waiting out the cache TTL.
type AvailabilityInvalidator struct {
	availability cache.AvailabilityCache
	consumer     *kafka.Reader
	log          *logrus.Logger

	// Worker pool for managing goroutines
	workerPool chan chan kafka.Message
	workers    []*invalidationWorker

	// Metrics
	processedCount int64
	invalidated    int64
	skipped        int64
	activeWorkers  int64
}

type invalidationWorker struct {
	id          int
	invalidator *AvailabilityInvalidator
	jobChannel  chan kafka.Message
	workerPool  chan chan kafka.Message
	quit        chan bool
}

func NewAvailabilityInvalidator(availability cache.AvailabilityCache, consumer *kafka.Reader, log *logrus.Logger) *AvailabilityInvalidator {
	// Invalidation is a tiny cache delete; a small pool absorbs event bursts
	// around departure-day booking waves.
	maxWorkers := 4

	invalidator := &AvailabilityInvalidator{
		availability: availability,
		consumer:     consumer,
		log:          log,
		workerPool:   make(chan chan kafka.Message, maxWorkers),
		workers:      make([]*invalidationWorker, maxWorkers),
	}

	for i := 0; i < maxWorkers; i++ {
		worker := &invalidationWorker{
			id:          i,
			invalidator: invalidator,
			jobChannel:  make(chan kafka.Message),
			workerPool:  invalidator.workerPool,
			quit:        make(chan bool),
		}
		invalidator.workers[i] = worker
	}

	return invalidator
}

// Start begins consuming booking events from Kafka
func (p *AvailabilityInvalidator) Start(ctx context.Context) error {
	p.log.Infof("Starting availability invalidator with %d workers...", len(p.workers))

	for _, worker := range p.workers {
		worker.start()
	}

	go p.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Availability invalidator shutting down...")
			p.shutdown()
			return ctx.Err()
		default:
			msg, err := p.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					p.shutdown()
					return ctx.Err()
				}
				p.log.WithError(err).Error("Error reading message")
				continue
			}

			// Dispatch to worker pool (blocks if all workers busy)
			select {
			case jobChannel := <-p.workerPool:
				select {
				case jobChannel <- msg:
				case <-ctx.Done():
					return ctx.Err()
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (w *invalidationWorker) start() {
	go func() {
		for {
			// Register this worker in the pool
			w.workerPool <- w.jobChannel

			select {
			case job := <-w.jobChannel:
				atomic.AddInt64(&w.invalidator.activeWorkers, 1)

				if err := w.invalidator.processEvent(job); err != nil {
					w.invalidator.log.WithError(err).Errorf("Worker %d error processing event", w.id)
				}

				atomic.AddInt64(&w.invalidator.processedCount, 1)
				atomic.AddInt64(&w.invalidator.activeWorkers, -1)

			case <-w.quit:
				w.invalidator.log.Debugf("Worker %d shutting down", w.id)
				return
			}
		}
	}()
}

func (w *invalidationWorker) stop() {
	w.quit <- true
}

// shutdown gracefully stops all workers
func (p *AvailabilityInvalidator) shutdown() {
	for _, worker := range p.workers {
		worker.stop()
	}

	// Wait for active workers to finish (with timeout)
	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			p.log.Warn("Shutdown timeout reached, forcing exit")
			return
		case <-ticker.C:
			if atomic.LoadInt64(&p.activeWorkers) == 0 {
				p.log.Info("All workers finished gracefully")
				return
			}
		}
	}
}

// reportMetrics logs consumption metrics
func (p *AvailabilityInvalidator) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.log.WithFields(logrus.Fields{
				"processed":      atomic.LoadInt64(&p.processedCount),
				"invalidated":    atomic.LoadInt64(&p.invalidated),
				"skipped":        atomic.LoadInt64(&p.skipped),
				"active_workers": atomic.LoadInt64(&p.activeWorkers),
			}).Info("Availability invalidator metrics")
		}
	}
}

// processEvent handles a single booking event
func (p *AvailabilityInvalidator) processEvent(msg kafka.Message) error {
	var event model.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	switch event.Type {
	case model.EventPlatformHeld, model.EventPlatformConfirmed, model.EventPlatformCancelled:
	default:
		// Other platform events carry no inventory change.
		atomic.AddInt64(&p.skipped, 1)
		return nil
	}

	var data model.PlatformBookingData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", event.Type, err)
	}
	if data.SailingID == "" {
		atomic.AddInt64(&p.skipped, 1)
		return nil
	}

	if err := p.availability.InvalidateUnavailableCabins(context.Background(), data.SailingID); err != nil {
		return fmt.Errorf("failed to invalidate sailing %s: %w", data.SailingID, err)
	}

	atomic.AddInt64(&p.invalidated, 1)
	p.log.WithFields(logrus.Fields{
		"event_type": event.Type,
		"sailing_id": data.SailingID,
		"booking_id": data.BookingID,
	}).Debug("Invalidated cached availability")
	return nil
}
