// Package dedupe tracks idempotency keys and the result first produced for
// each, so that a repeated request replays that result instead of running
// again.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxSize = 1024

// Deduper records results by idempotency key.
type Deduper[V any] struct {
	mu      sync.Mutex
	maxSize int
	seen    map[string]*list.Element
	order   *list.List // oldest at front
}

type record[V any] struct {
	key   string
	value V
}

// New creates an in-memory deduper.
func New[V any](opts ...Option) *Deduper[V] {
	c := config{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(&c)
	}
	return &Deduper[V]{
		maxSize: c.maxSize,
		seen:    make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Do returns the value recorded for key with replayed=true, or runs fn,
// records its value and returns it with replayed=false. Calls are
// serialized, so two concurrent requests with the same key run fn once.
// An empty key always runs fn and records nothing.
func (d *Deduper[V]) Do(_ context.Context, key string, fn func() V) (v V, replayed bool) {
	if key == "" {
		return fn(), false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		return el.Value.(record[V]).value, true
	}

	v = fn()
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	d.seen[key] = d.order.PushBack(record[V]{key: key, value: v})
	return v, false
}

// Forget drops key so that the next Do with it runs again.
func (d *Deduper[V]) Forget(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		d.order.Remove(el)
		delete(d.seen, key)
	}
}

// Size returns the number of recorded keys.
func (d *Deduper[V]) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

func (d *Deduper[V]) evictOldest() {
	front := d.order.Front()
	if front == nil {
		return
	}
	d.order.Remove(front)
	delete(d.seen, front.Value.(record[V]).key)
}
