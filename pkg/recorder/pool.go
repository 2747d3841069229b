package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Config is the configuration options for the worker pool.
type Config struct {
	// Store is the backend for persisting records.
	Store Store

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered record channel (defaults to 256).
	QueueSize uint

	// Logger is the provided slog logger.
	Logger *slog.Logger
}

// Pool persists records asynchronously via a worker pool. It decouples
// store writes from the event stream hot path so that a slow backend
// never delays event delivery.
type Pool struct {
	config *Config
	queue  chan Record
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Store == nil {
		return nil, fmt.Errorf("a Store is required")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}

	p := &Pool{
		config: c,
		queue:  make(chan Record, c.QueueSize),
		logger: c.Logger,
	}

	p.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go p.worker(i)
	}

	return p, nil
}

// Enqueue submits a record for persistence by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the record being dropped.
func (p *Pool) Enqueue(rec Record) bool {
	select {
	case p.queue <- rec:
		p.logger.Debug("record queued",
			"session_id", rec.SessionID,
			"event_type", rec.EventType,
		)
		return true
	default:
		p.logger.Error("record not queued, queue full, record dropped",
			"session_id", rec.SessionID,
			"event_type", rec.EventType,
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight records to drain.
// Call this during graceful shutdown after the watch stream has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls records off the queue.
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("recorder worker started", "worker_id", id)

	for rec := range p.queue {
		if err := p.config.Store.Save(context.Background(), rec); err != nil {
			p.logger.Error("async event persistence failed",
				"session_id", rec.SessionID,
				"event_type", rec.EventType,
				"path", rec.Path,
				"error", err,
			)
			continue
		}

		p.logger.Debug("event recorded",
			"session_id", rec.SessionID,
			"event_type", rec.EventType,
			"path", rec.Path,
		)
	}

	p.logger.Debug("recorder worker stopped", "worker_id", id)
}
