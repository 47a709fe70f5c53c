// Package uiloop is the UI-owning execution context: a single goroutine that
// runs posted functions one at a time, in order.
package uiloop

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/native-bridge/internal/ports"
)

var ErrStopped = errors.New("ui loop stopped")

var _ ports.UIExecutor = (*Loop)(nil)

type task struct {
	run     func()
	dropped func(error)
}

type Loop struct {
	tasks   chan task
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
	log     zerolog.Logger

	// closed is set under the write lock, so no Post is mid-send once it is true.
	mu     sync.RWMutex
	closed bool
}

func New(queueSize int, log zerolog.Logger) *Loop {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Loop{
		tasks:   make(chan task, queueSize),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
		log:     log.With().Str("component", "uiloop").Logger(),
	}
}

// Post schedules fn. It blocks while the queue is full. If the loop stops
// before fn runs, dropped is called with ErrStopped instead.
func (l *Loop) Post(fn func(), dropped func(error)) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrStopped
	}
	select {
	case l.tasks <- task{run: fn, dropped: dropped}:
		return nil
	case <-l.stop:
		return ErrStopped
	}
}

// Run executes posted functions until ctx ends or Stop is called. It must be
// called exactly once; the calling goroutine becomes the UI context.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.stopped)
	defer l.drain()
	for {
		select {
		case <-l.stop:
			return
		default:
		}
		select {
		case t := <-l.tasks:
			l.exec(t.run)
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		}
	}
}

// drain hands every task that never ran back to its poster.
func (l *Loop) drain() {
	l.Stop()
	for {
		select {
		case t := <-l.tasks:
			if t.dropped != nil {
				l.exec(func() { t.dropped(ErrStopped) })
			}
		default:
			return
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Interface("panic", r).Msg("ui task panicked")
		}
	}()
	fn()
}

// Stop refuses new posts. Tasks still queued are dropped once Run notices.
func (l *Loop) Stop() {
	l.once.Do(func() {
		close(l.stop)
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
	})
}

// Len reports how many tasks are waiting to run.
func (l *Loop) Len() int { return len(l.tasks) }

// Stopped is closed once Run has returned.
func (l *Loop) Stopped() <-chan struct{} { return l.stopped }
