package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/ecgdash/internal/common"
	"github.com/Veraticus/ecgdash/internal/dashboard"
)

const (
	recordTimeout = 2 * time.Second

	// DefaultQueueSize bounds the completions waiting to be written.
	DefaultQueueSize = 64
)

// Observer journals every completed dashboard operation. Writes happen on a
// single background goroutine so observers never block the caller; Close
// drains the queue.
type Observer struct {
	journal *Journal
	logger  *slog.Logger
	queue   chan Entry
	done    chan struct{}
	mu      sync.Mutex
	closed  bool
}

var _ dashboard.Observer = (*Observer)(nil)

// NewObserver wraps j as a dashboard observer and starts its writer.
func NewObserver(j *Journal, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Observer{
		journal: j,
		logger:  logger,
		queue:   make(chan Entry, DefaultQueueSize),
		done:    make(chan struct{}),
	}
	go o.run()
	return o
}

func (o *Observer) run() {
	defer close(o.done)
	for entry := range o.queue {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := o.journal.Record(ctx, entry); err != nil {
			o.logger.Warn("Failed to journal operation", "op", entry.Operation, "call_id", entry.ID, "error", err)
		}
		cancel()
	}
}

// OperationDispatched is a no-op; only finished calls are journaled.
func (o *Observer) OperationDispatched(string) {}

// OperationRejected is a no-op; rejected operations never reach the backend.
func (o *Observer) OperationRejected(string, error) {}

// OperationCompleted queues ev for the writer. When the queue is full or the
// observer is closed the entry is dropped and logged.
func (o *Observer) OperationCompleted(ev dashboard.Event) {
	entry := Entry{
		ID:        ev.ID,
		Operation: ev.Operation,
		Outcome:   string(ev.Outcome),
		Category:  common.Category(ev.Err),
		Message:   ev.Message,
		Duration:  ev.Duration,
		At:        ev.At,
	}
	if ev.Err != nil {
		entry.Error = ev.Err.Error()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		o.logger.Warn("Journal observer closed, dropping operation", "op", ev.Operation, "call_id", ev.ID)
		return
	}
	select {
	case o.queue <- entry:
	default:
		o.logger.Warn("Journal queue full, dropping operation", "op", ev.Operation, "call_id", ev.ID)
	}
}

// Close stops accepting completions and waits for queued ones to be written.
// It is safe to call more than once.
func (o *Observer) Close() {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
	o.mu.Unlock()
	<-o.done
}
