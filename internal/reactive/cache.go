package reactive

import (
	"sync"
)

// Op names a change to a store's cache.
type Op string

const (
	OpLoad   Op = "load"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
	OpMove   Op = "move"
)

// Collections published in events.
const (
	CollectionDesigners = "designers"
	CollectionObjects   = "objects"
)

// Event describes one change to a store's cache. Data is the full snapshot
// for OpLoad, the affected entity for OpAdd/OpUpdate/OpMove and nil for OpRemove.
type Event struct {
	Collection string `json:"collection"`
	Op         Op     `json:"op"`
	ID         string `json:"id,omitempty"`
	Data       any    `json:"data,omitempty"`
}

// cache is an observable list of entity values.
type cache[T any] struct {
	collection string
	idOf       func(T) string

	mu      sync.RWMutex
	items   []T
	pending int
	// seq numbers loads and writes; applied is the newest one reflected in items.
	seq     uint64
	applied uint64

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

func newCache[T any](collection string, idOf func(T) string) *cache[T] {
	return &cache[T]{
		collection: collection,
		idOf:       idOf,
		items:      []T{},
		subs:       make(map[int]func(Event)),
	}
}

// Subscribe registers fn for every change and returns a function that removes it.
// fn runs on the goroutine that made the change, after the cache was updated.
func (c *cache[T]) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

func (c *cache[T]) publish(op Op, id string, data any) {
	c.subMu.Lock()
	fns := make([]func(Event), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	ev := Event{Collection: c.collection, Op: op, ID: id, Data: data}
	for _, fn := range fns {
		fn(ev)
	}
}

// Loading reports whether a load is in flight.
func (c *cache[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending > 0
}

// beginLoad stamps a load with the next sequence number. Tracked loads
// raise the loading flag until endLoad.
func (c *cache[T]) beginLoad(tracked bool) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if tracked {
		c.pending++
	}
	return c.seq
}

func (c *cache[T]) endLoad(tracked bool) {
	if !tracked {
		return
	}
	c.mu.Lock()
	c.pending--
	c.mu.Unlock()
}

func (c *cache[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]T, 0, len(c.items)), c.items...)
}

func (c *cache[T]) find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if c.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// replaceAll installs the result of load seq. A load that started before
// the last applied load or write is stale and is dropped.
func (c *cache[T]) replaceAll(seq uint64, items []T) bool {
	c.mu.Lock()
	if seq < c.applied {
		c.mu.Unlock()
		return false
	}
	c.applied = seq
	c.items = append(make([]T, 0, len(items)), items...)
	c.mu.Unlock()
	c.publish(OpLoad, "", c.snapshot())
	return true
}

// written marks a write as newer than every load started so far.
// Callers hold c.mu.
func (c *cache[T]) written() {
	c.seq++
	c.applied = c.seq
}

func (c *cache[T]) add(item T) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.written()
	c.mu.Unlock()
	c.publish(OpAdd, c.idOf(item), item)
}

// replace swaps the cached entity with the same id. It reports false when
// the id is not cached.
func (c *cache[T]) replace(op Op, item T) bool {
	return c.modify(op, c.idOf(item), func(T) T { return item })
}

// modify rewrites the cached entity with the given id through fn while
// holding the lock. It reports false when the id is not cached.
func (c *cache[T]) modify(op Op, id string, fn func(T) T) bool {
	c.mu.Lock()
	var (
		item  T
		found bool
	)
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items[i] = fn(c.items[i])
			item, found = c.items[i], true
			c.written()
			break
		}
	}
	c.mu.Unlock()
	if found {
		c.publish(op, id, item)
	}
	return found
}

func (c *cache[T]) remove(id string) {
	c.mu.Lock()
	kept := c.items[:0:0]
	for _, item := range c.items {
		if c.idOf(item) != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.written()
	c.mu.Unlock()
	c.publish(OpRemove, id, nil)
}
