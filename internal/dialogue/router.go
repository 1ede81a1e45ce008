package dialogue

import (
	"context"
	"errors"
	"sync"

	"github.com/Belphemur/MediaFinder/internal/config"
)

// ErrRouterClosed is returned by Dispatch after Close.
var ErrRouterClosed = errors.New("dialogue router closed")

// PresenterFunc returns the presenter replying to userID.
type PresenterFunc func(userID int64) Presenter

// Router feeds events to a Machine. Events of one user are handled strictly
// in arrival order, one at a time; different users run in parallel.
type Router struct {
	ctx       context.Context
	cancel    context.CancelFunc
	machine   *Machine
	presenter PresenterFunc

	mu     sync.Mutex
	queues map[int64][]queued
	closed bool
	wg     sync.WaitGroup
}

// NewRouter creates a Router. Handlers run under ctx.
func NewRouter(ctx context.Context, machine *Machine, presenter PresenterFunc) *Router {
	ctx, cancel := context.WithCancel(ctx)
	return &Router{
		ctx:       ctx,
		cancel:    cancel,
		machine:   machine,
		presenter: presenter,
		queues:    make(map[int64][]queued),
	}
}

type queued struct {
	ev   Event
	done chan struct{} // closed once handled, nil for Dispatch
}

// Dispatch enqueues ev behind the pending events of the same user.
func (r *Router) Dispatch(ev Event) error {
	return r.enqueue(queued{ev: ev})
}

// DispatchWait enqueues ev and blocks until it has been handled.
func (r *Router) DispatchWait(ev Event) error {
	q := queued{ev: ev, done: make(chan struct{})}
	if err := r.enqueue(q); err != nil {
		return err
	}
	<-q.done
	return nil
}

func (r *Router) enqueue(q queued) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRouterClosed
	}

	userID := q.ev.UserID
	pending, running := r.queues[userID]
	r.queues[userID] = append(pending, q)
	if !running {
		r.wg.Add(1)
		go r.drain(userID)
	}
	return nil
}

// drain handles the queue of userID until it is empty. The map entry exists
// exactly while a drain goroutine runs for the user.
func (r *Router) drain(userID int64) {
	defer r.wg.Done()
	logger := config.GetLogger()
	p := r.presenter(userID)

	for {
		r.mu.Lock()
		queue := r.queues[userID]
		if len(queue) == 0 {
			delete(r.queues, userID)
			r.mu.Unlock()
			return
		}
		q := queue[0]
		r.queues[userID] = queue[1:]
		r.mu.Unlock()

		if err := r.ctx.Err(); err != nil {
			logger.Debug().Int64("user", userID).Msg("Dropping event, router is shutting down")
		} else {
			r.machine.Handle(r.ctx, q.ev, p)
		}
		if q.done != nil {
			close(q.done)
		}
	}
}

// Close stops accepting events and waits for the in-flight ones. Events still
// queued when ctx is cancelled are dropped.
func (r *Router) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
	r.cancel()
}
