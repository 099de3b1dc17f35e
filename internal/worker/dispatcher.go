package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrQueueFull is returned when the event queue has no free slot.
	ErrQueueFull = errors.New("event queue is full")
	// ErrStopped is returned for events submitted after Stop.
	ErrStopped = errors.New("dispatcher is stopped")
)

// Event is a unit of UI work, e.g. a track selection or a navbar toggle.
type Event interface {
	Execute() error // The method that performs the actual work
	ID() string     // Identifier used in logs
}

type queued struct {
	event Event
	done  chan error
}

// Dispatcher runs events one at a time, in submission order, on a single
// worker goroutine.
type Dispatcher struct {
	queue  chan queued
	quit   chan struct{}
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	log    *logrus.Logger
}

// NewDispatcher creates a dispatcher with a bounded queue.
func NewDispatcher(queueSize int, logger *logrus.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dispatcher{
		queue: make(chan queued, queueSize),
		quit:  make(chan struct{}),
		log:   logger,
	}
}

// Run starts the worker.
func (d *Dispatcher) Run() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case q := <-d.queue:
				d.execute(q)
			case <-d.quit:
				d.log.Debug("Dispatcher: stopping worker")
				return
			}
		}
	}()
	d.log.Debug("Dispatcher is running.")
}

func (d *Dispatcher) execute(q queued) {
	entry := d.log.WithField("event", q.event.ID())
	entry.Debug("Dispatcher: started event")
	err := q.event.Execute()
	if err != nil {
		entry.WithError(err).Warn("Dispatcher: event failed")
	} else {
		entry.Debug("Dispatcher: finished event")
	}
	q.done <- err
}

// Submit queues an event without blocking. The returned channel receives the
// event's result once it has run.
func (d *Dispatcher) Submit(ev Event) (<-chan error, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, ErrStopped
	}

	done := make(chan error, 1)
	select {
	case d.queue <- queued{event: ev, done: done}:
		return done, nil
	default:
		d.log.WithField("event", ev.ID()).Warn("Dispatcher: event queue full")
		return nil, ErrQueueFull
	}
}

// Do submits ev and waits for its result or for ctx to end. An event whose
// wait is abandoned still runs to completion.
func (d *Dispatcher) Do(ctx context.Context, ev Event) error {
	done, err := d.Submit(ev)
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop refuses new events, lets the running event finish and stops the worker.
// Events still queued are failed with ErrStopped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.quit)
	d.wg.Wait()

	for {
		select {
		case q := <-d.queue:
			q.done <- ErrStopped
		default:
			d.log.Debug("Dispatcher: shutdown complete")
			return
		}
	}
}

// Func adapts a function to the Event interface.
type Func struct {
	Name string
	Fn   func() error
}

func (f Func) ID() string     { return f.Name }
func (f Func) Execute() error { return f.Fn() }

// Router gives every key its own Dispatcher, so events of one session never
// wait behind another session's events.
type Router struct {
	mu        sync.Mutex
	byKey     map[string]*Dispatcher
	queueSize int
	closed    bool
	log       *logrus.Logger
}

// NewRouter creates a router whose dispatchers have the given queue size.
func NewRouter(queueSize int, logger *logrus.Logger) *Router {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Router{byKey: make(map[string]*Dispatcher), queueSize: queueSize, log: logger}
}

// For returns the running dispatcher for key, starting it on first use.
// After Stop it returns a stopped dispatcher that refuses every event.
func (r *Router) For(key string) *Dispatcher {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byKey[key]; ok {
		return d
	}
	d := NewDispatcher(r.queueSize, r.log)
	if r.closed {
		d.Stop()
		return d
	}
	d.Run()
	r.byKey[key] = d
	return d
}

// Do runs ev on the dispatcher of key and waits for its result.
func (r *Router) Do(ctx context.Context, key string, ev Event) error {
	return r.For(key).Do(ctx, ev)
}

// Len returns the number of started dispatchers.
func (r *Router) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}

// Stop stops every dispatcher.
func (r *Router) Stop() {
	r.mu.Lock()
	r.closed = true
	all := make([]*Dispatcher, 0, len(r.byKey))
	for _, d := range r.byKey {
		all = append(all, d)
	}
	r.mu.Unlock()

	for _, d := range all {
		d.Stop()
	}
}
