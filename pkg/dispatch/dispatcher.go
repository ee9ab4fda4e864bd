// Package dispatch fans inbound events out to a bounded pool of workers.
//
// Every user is pinned to one worker queue, so events of one user are handled
// in arrival order while different users proceed concurrently.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aretw0/tinderbolt/internal/logging"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent event handling.
const DefaultWorkers = 16

// DefaultQueueSize is how many events may wait on one worker before Run blocks.
const DefaultQueueSize = 64

// Outcomes reported to the Observer.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomePanic     = "panic"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
)

// Handler processes one event to completion.
type Handler interface {
	Handle(ctx context.Context, ev domain.Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, ev domain.Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, ev domain.Event) error {
	return f(ctx, ev)
}

// Observer receives the outcome of every event.
type Observer interface {
	ObserveEvent(outcome string, d time.Duration)
}

// Dispatcher drains an event stream into Handler calls.
type Dispatcher struct {
	handler  Handler
	dedup    ports.Deduplicator
	observer Observer
	workers  int
	queue    int
	maxInput int
	logger   *slog.Logger
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithWorkers overrides DefaultWorkers.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithQueueSize overrides DefaultQueueSize.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = n
		}
	}
}

// WithDeduplicator drops events whose update ID was already seen.
func WithDeduplicator(dedup ports.Deduplicator) Option {
	return func(d *Dispatcher) {
		d.dedup = dedup
	}
}

// WithObserver reports event outcomes, typically to metrics.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// WithMaxInputSize overrides DefaultMaxInputSize.
func WithMaxInputSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxInput = n
		}
	}
}

// WithLogger configures a logger for the Dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// New creates a Dispatcher.
func New(handler Handler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handler:  handler,
		workers:  DefaultWorkers,
		queue:    DefaultQueueSize,
		maxInput: DefaultMaxInputSize,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run handles events until the stream closes or ctx is done, then waits for
// in-flight events. Handler errors are logged and never stop the loop.
//
// Events are routed to a worker by user ID and each worker drains its queue in
// order. Events still queued when ctx is done are dropped.
func (d *Dispatcher) Run(ctx context.Context, events <-chan domain.Event) error {
	var g errgroup.Group
	queues := make([]chan domain.Event, d.workers)
	for i := range queues {
		q := make(chan domain.Event, d.queue)
		queues[i] = q
		g.Go(func() error {
			for ev := range q {
				if ctx.Err() != nil {
					continue
				}
				d.Process(ctx, ev)
			}
			return nil
		})
	}
	stop := func() error {
		for _, q := range queues {
			close(q)
		}
		return g.Wait()
	}

	d.logger.Info("dispatcher started", "workers", d.workers)
	defer d.logger.Info("dispatcher stopped")

	for {
		select {
		case <-ctx.Done():
			_ = stop()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return stop()
			}
			select {
			case queues[d.shard(ev.UserID)] <- ev:
			case <-ctx.Done():
				_ = stop()
				return ctx.Err()
			}
		}
	}
}

func (d *Dispatcher) shard(userID int64) int {
	return int(uint64(userID) % uint64(d.workers))
}

// Process handles a single event on the calling goroutine and returns its outcome.
func (d *Dispatcher) Process(ctx context.Context, ev domain.Event) (outcome string) {
	id := uuid.NewString()
	ctx = WithCorrelationID(ctx, id)
	logger := d.logger.With(
		"update_id", ev.UpdateID,
		"user_id", ev.UserID,
		"correlation_id", id,
	)

	started := time.Now()
	defer func() {
		if d.observer != nil {
			d.observer.ObserveEvent(outcome, time.Since(started))
		}
	}()

	if d.dedup != nil && ev.UpdateID != 0 {
		seen, err := d.dedup.Seen(ctx, ev.UpdateID)
		if err != nil {
			logger.Warn("dedup check failed, handling anyway", "err", err)
		} else if seen {
			logger.Debug("duplicate update dropped")
			return OutcomeDuplicate
		}
	}

	ev, err := sanitizeEvent(ev, d.maxInput)
	if err != nil {
		logger.Warn("event rejected", "kind", ev.Kind, "err", err)
		return OutcomeRejected
	}

	if err := d.safeHandle(ctx, ev); err != nil {
		var perr *panicError
		if errors.As(err, &perr) {
			logger.Error("handler panicked", "err", err)
			return OutcomePanic
		}
		logger.Error("event dropped", "kind", ev.Kind, "err", err)
		return OutcomeError
	}
	logger.Debug("event handled", "kind", ev.Kind, "duration", time.Since(started))
	return OutcomeOK
}

type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v\n%s", p.value, p.stack)
}

func (d *Dispatcher) safeHandle(ctx context.Context, ev domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()
	return d.handler.Handle(ctx, ev)
}
