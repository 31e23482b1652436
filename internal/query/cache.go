package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrTypeMismatch is returned when a key is read with a different type than
// the one it was fetched with.
var ErrTypeMismatch = errors.New("cached value has unexpected type")

// DefaultGCTime is how long an unsubscribed entry is kept before collection.
const DefaultGCTime = 5 * time.Minute

type entry struct {
	updatedAt   time.Time
	data        any
	err         error
	fetch       func(ctx context.Context) (any, error)
	gcTimer     *time.Timer
	subscribers map[uint64]func()
	generation  uint64
	status      Status
	hasData     bool
}

// Cache is a keyed read cache. The zero value is not usable; use NewCache.
type Cache struct {
	now       func() time.Time
	logger    *slog.Logger
	entries   map[Key]*entry
	group     singleflight.Group
	gcTime    time.Duration
	nextSubID uint64
	mu        sync.Mutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithGCTime sets how long entries without subscribers survive.
// Zero or negative disables collection.
func WithGCTime(d time.Duration) Option {
	return func(c *Cache) {
		c.gcTime = d
	}
}

// WithLogger sets the logger used for cache events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[Key]*entry),
		gcTime:  DefaultGCTime,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the current state for key without blocking. The first read of
// an idle key starts fetch in the background; later reads share its result.
func Get[T any](ctx context.Context, c *Cache, key Key, fetch Fetcher[T]) State[T] {
	c.mu.Lock()
	e := c.ensureLocked(key, erase(fetch))
	started := false
	if e.status == StatusIdle {
		c.startLocked(ctx, key, e)
		started = true
	}
	state := snapshot[T](e)
	c.mu.Unlock()

	if started {
		c.notify(key)
	}
	return state
}

// Fetch returns the data for key, waiting for an in-flight request if there
// is one. A cached success is returned immediately; a cached failure is
// returned as is until Refetch or Invalidate is called.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch Fetcher[T]) (T, error) {
	var zero T

	c.mu.Lock()
	e := c.ensureLocked(key, erase(fetch))
	switch e.status {
	case StatusSuccess, StatusError:
		state := snapshot[T](e)
		c.mu.Unlock()
		if state.Err != nil {
			return zero, state.Err
		}
		return state.Data, nil
	}

	started := false
	if e.status == StatusIdle {
		c.startLocked(ctx, key, e)
		started = true
	}
	// Joining while c.mu is held guarantees the call is still registered:
	// the fetch cannot complete without taking c.mu first.
	ch := c.group.DoChan(string(key), func() (any, error) {
		return nil, errors.New("query: joined a finished request")
	})
	c.mu.Unlock()

	if started {
		c.notify(key)
	}

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		data, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("%w: key %s", ErrTypeMismatch, key)
		}
		return data, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Peek returns the current state for key without starting a request.
func Peek[T any](c *Cache, key Key) State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return State[T]{Status: StatusIdle}
	}
	return snapshot[T](e)
}

// Refetch re-runs the stored fetcher for key. Existing data stays visible
// while the request is in flight. It is a no-op while a request is already
// in flight or when the key has never been read.
func (c *Cache) Refetch(ctx context.Context, key Key) bool {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.fetch == nil || e.status == StatusLoading {
		c.mu.Unlock()
		return false
	}
	c.startLocked(ctx, key, e)
	c.mu.Unlock()

	c.notify(key)
	return true
}

// Invalidate drops the data for key and returns it to idle. A request that
// is still in flight completes into the void. Subscribers are notified so
// they can read again, which starts a fresh request.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	e.generation++
	e.status = StatusIdle
	e.data = nil
	e.err = nil
	e.hasData = false
	c.group.Forget(string(key))
	c.mu.Unlock()

	c.logger.Debug("Query invalidated", "key", key)
	c.notify(key)
}

// Subscribe registers fn to run after every state change of key. The
// returned function removes the subscription. Once a key has no subscribers
// it is collected after the configured GC time.
func (c *Cache) Subscribe(key Key, fn func()) func() {
	c.mu.Lock()
	e := c.ensureLocked(key, nil)
	c.nextSubID++
	id := c.nextSubID
	e.subscribers[id] = fn
	if e.gcTimer != nil {
		e.gcTimer.Stop()
		e.gcTimer = nil
	}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.unsubscribe(key, id)
		})
	}
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Has reports whether key currently has an entry.
func (c *Cache) Has(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *Cache) unsubscribe(key Key, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	delete(e.subscribers, id)
	if len(e.subscribers) > 0 || c.gcTime <= 0 {
		return
	}

	e.gcTimer = time.AfterFunc(c.gcTime, func() {
		c.collect(key, e)
	})
}

func (c *Cache) collect(key Key, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.entries[key]
	if !ok || current != e || len(e.subscribers) > 0 || e.status == StatusLoading {
		return
	}
	delete(c.entries, key)
	c.logger.Debug("Query collected", "key", key)
}

func (c *Cache) ensureLocked(key Key, fetch func(context.Context) (any, error)) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{
			subscribers: make(map[uint64]func()),
		}
		c.entries[key] = e
	}
	if e.fetch == nil && fetch != nil {
		e.fetch = fetch
	}
	return e
}

// startLocked moves e to loading under a new generation and registers the
// request with the singleflight group. Any older call for the key is
// detached first so it can neither be joined nor overwrite this one. The
// fetch is shared by every subscriber of the key, so it runs detached from
// the cancellation of the caller that started it; waiters still honor
// their own context. c.mu must be held.
func (c *Cache) startLocked(ctx context.Context, key Key, e *entry) {
	e.generation++
	e.status = StatusLoading
	e.err = nil

	gen := e.generation
	fetch := e.fetch
	ctx = context.WithoutCancel(ctx)
	c.group.Forget(string(key))
	c.group.DoChan(string(key), func() (any, error) {
		if fetch == nil {
			err := errors.New("query has no fetcher")
			c.complete(key, gen, nil, err)
			return nil, err
		}
		v, err := fetch(ctx)
		c.complete(key, gen, v, err)
		return v, err
	})
	c.logger.Debug("Query started", "key", key, "generation", gen)
}

func (c *Cache) complete(key Key, gen uint64, v any, err error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.generation != gen || e.status != StatusLoading {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale query result", "key", key, "generation", gen)
		return
	}

	e.updatedAt = c.now()
	if err != nil {
		// The last success stays visible next to the error.
		e.status = StatusError
		e.err = err
	} else {
		e.status = StatusSuccess
		e.data = v
		e.hasData = true
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("Query failed", "key", key, "error", err)
	} else {
		c.logger.Debug("Query succeeded", "key", key)
	}
	c.notify(key)
}

func (c *Cache) notify(key Key) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		return
	}
	fns := make([]func(), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func snapshot[T any](e *entry) State[T] {
	state := State[T]{
		Status:    e.status,
		Err:       e.err,
		UpdatedAt: e.updatedAt,
	}
	if e.hasData {
		data, ok := e.data.(T)
		if !ok {
			state.Status = StatusError
			state.Err = ErrTypeMismatch
			return state
		}
		state.Data = data
		state.HasData = true
	}
	return state
}

func erase[T any](fetch Fetcher[T]) func(context.Context) (any, error) {
	if fetch == nil {
		return nil
	}
	return func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}
}
