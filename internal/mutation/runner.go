// Package mutation runs user-triggered, non-idempotent requests.
//
// A Runner owns one slot (search, recommend, export). The slot holds at most
// one execution at a time and exposes its lifecycle as a State that moves
// idle -> pending -> success|error and back to idle on Reset.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrInFlight is returned when a slot is invoked while it is still running.
var ErrInFlight = errors.New("mutation already in flight")

// Status is the lifecycle position of a mutation slot.
type Status int

const (
	// StatusIdle means the slot was never invoked or has been reset.
	StatusIdle Status = iota
	// StatusPending means an execution is in flight.
	StatusPending
	// StatusSuccess means the last execution returned data.
	StatusSuccess
	// StatusError means the last execution failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a snapshot of a slot. Generation increases on every invocation
// and every reset; completions from older generations are discarded.
type State[T any] struct {
	Data       T
	Err        error
	Generation uint64
	Status     Status
	HasData    bool
}

// IsIdle reports whether the slot is idle.
func (s State[T]) IsIdle() bool { return s.Status == StatusIdle }

// IsPending reports whether an execution is in flight.
func (s State[T]) IsPending() bool { return s.Status == StatusPending }

// IsSuccess reports whether the last execution succeeded.
func (s State[T]) IsSuccess() bool { return s.Status == StatusSuccess }

// IsError reports whether the last execution failed.
func (s State[T]) IsError() bool { return s.Status == StatusError }

// Action is the work performed by one invocation.
type Action[T any] func(ctx context.Context) (T, error)

// Option configures a Runner.
type Option[T any] func(*Runner[T])

// OnSuccess registers a hook run after a current-generation success,
// before subscribers are notified.
func OnSuccess[T any](fn func(T)) Option[T] {
	return func(r *Runner[T]) {
		r.onSuccess = fn
	}
}

// OnError registers a hook run after a current-generation failure,
// before subscribers are notified.
func OnError[T any](fn func(error)) Option[T] {
	return func(r *Runner[T]) {
		r.onError = fn
	}
}

// WithLogger sets the logger used for slot events.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(r *Runner[T]) {
		r.logger = logger
	}
}

// Runner serializes executions of one mutation slot.
type Runner[T any] struct {
	logger      *slog.Logger
	onSuccess   func(T)
	onError     func(error)
	subscribers map[uint64]func()
	slot        string
	state       State[T]
	nextSubID   uint64
	discarded   int
	busy        bool
	mu          sync.Mutex
}

// NewRunner creates an idle runner for the named slot.
func NewRunner[T any](slot string, opts ...Option[T]) *Runner[T] {
	r := &Runner[T]{
		slot:        slot,
		logger:      slog.Default(),
		subscribers: make(map[uint64]func()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Invoke runs action and blocks until it finishes. It returns the slot state
// after completion, which is idle if the slot was reset meanwhile.
func (r *Runner[T]) Invoke(ctx context.Context, action Action[T]) (State[T], error) {
	gen, err := r.begin()
	if err != nil {
		return r.Snapshot(), err
	}
	r.notify()
	return r.run(ctx, gen, action), nil
}

// Start marks the slot pending before returning and runs action on a new
// goroutine. The final state is delivered once on the returned channel,
// which is then closed.
func (r *Runner[T]) Start(ctx context.Context, action Action[T]) (<-chan State[T], error) {
	gen, err := r.begin()
	if err != nil {
		return nil, err
	}
	r.notify()

	done := make(chan State[T], 1)
	go func() {
		defer close(done)
		done <- r.run(ctx, gen, action)
	}()
	return done, nil
}

// Reset returns the slot to idle and clears data and error. A running
// execution keeps the slot busy until it returns; its result is discarded.
// Resetting an idle slot does nothing.
func (r *Runner[T]) Reset() {
	r.mu.Lock()
	if r.state.Status == StatusIdle {
		r.mu.Unlock()
		return
	}
	r.state = State[T]{Status: StatusIdle, Generation: r.state.Generation + 1}
	gen := r.state.Generation
	r.mu.Unlock()

	r.logger.Debug("Mutation reset", "slot", r.slot, "generation", gen)
	r.notify()
}

// Snapshot returns the current state.
func (r *Runner[T]) Snapshot() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Busy reports whether an execution is running, including one whose
// result will be discarded because of a reset.
func (r *Runner[T]) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Discarded returns how many completions arrived after their generation
// had been superseded.
func (r *Runner[T]) Discarded() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.discarded
}

// Subscribe registers fn to run after every state change. The returned
// function removes the subscription.
func (r *Runner[T]) Subscribe(fn func()) func() {
	r.mu.Lock()
	r.nextSubID++
	id := r.nextSubID
	r.subscribers[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subscribers, id)
			r.mu.Unlock()
		})
	}
}

func (r *Runner[T]) begin() (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.busy {
		return 0, fmt.Errorf("%s: %w", r.slot, ErrInFlight)
	}
	r.busy = true
	r.state = State[T]{Status: StatusPending, Generation: r.state.Generation + 1}
	r.logger.Debug("Mutation started", "slot", r.slot, "generation", r.state.Generation)
	return r.state.Generation, nil
}

func (r *Runner[T]) run(ctx context.Context, gen uint64, action Action[T]) State[T] {
	data, err := action(ctx)

	r.mu.Lock()
	r.busy = false
	if r.state.Generation != gen {
		r.discarded++
		state := r.state
		r.mu.Unlock()

		r.logger.Debug("Discarding superseded mutation result",
			"slot", r.slot, "generation", gen, "current", state.Generation)
		r.notify()
		return state
	}

	if err != nil {
		r.state = State[T]{Status: StatusError, Err: err, Generation: gen}
	} else {
		r.state = State[T]{Status: StatusSuccess, Data: data, HasData: true, Generation: gen}
	}
	state := r.state
	onSuccess, onError := r.onSuccess, r.onError
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn("Mutation failed", "slot", r.slot, "generation", gen, "error", err)
		if onError != nil {
			onError(err)
		}
	} else {
		r.logger.Debug("Mutation succeeded", "slot", r.slot, "generation", gen)
		if onSuccess != nil {
			onSuccess(data)
		}
	}
	r.notify()
	return state
}

func (r *Runner[T]) notify() {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
