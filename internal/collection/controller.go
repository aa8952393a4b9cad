// Package collection keeps one client-side list of entities in step with the
// backend. Every mutation is applied only after the backend answers, and the
// applied value is always the server's representation.
package collection

import (
	"context"
	"errors"
	"sync"

	"lawfirm-cms/internal/resource"
)

// ErrDetached is returned when a response resolves after Close.
var ErrDetached = errors.New("collection controller closed")

// Source is the subset of resource.Resource the controller drives.
type Source[T resource.Entity] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, fields resource.Fields, file *resource.Upload) (T, error)
	Update(ctx context.Context, id string, fields resource.Fields, file *resource.Upload) (T, error)
	Remove(ctx context.Context, id string) error
}

// Controller owns one Collection. The mutex guards state only; it is never
// held while a request is in flight.
type Controller[T resource.Entity] struct {
	source Source[T]

	mu       sync.Mutex
	items    []T
	loading  int
	err      error
	closed   bool
	gen      uint64
	removers []func(id string)
}

func New[T resource.Entity](source Source[T]) *Controller[T] {
	return &Controller[T]{source: source, items: []T{}}
}

// Items returns a copy of the collection in server order.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Find returns the entity with id, if present.
func (c *Controller[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Loading reports whether a refresh is in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading > 0
}

// Err returns the error of the most recent operation, or nil if it succeeded.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// OnRemove registers fn to run after a delete is confirmed by the backend.
func (c *Controller[T]) OnRemove(fn func(id string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removers = append(c.removers, fn)
}

// Close stops the controller from applying any response that resolves later.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Refresh replaces the whole collection with the backend's list. On failure
// the previous collection stays in place. A list is applied only if no other
// refresh started and no mutation was applied while it was in flight.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrDetached
	}
	c.loading++
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	items, err := c.source.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading--
	if c.closed {
		return ErrDetached
	}
	if gen != c.gen {
		return err
	}
	if err != nil {
		c.err = err
		return err
	}
	c.items = dedupe(items)
	c.err = nil
	return nil
}

// Submit creates an entity when editingID is empty and updates it otherwise,
// then merges the returned entity by id. A created entity whose id is already
// present replaces that entry, so overlapping creates never duplicate.
func (c *Controller[T]) Submit(ctx context.Context, fields resource.Fields, file *resource.Upload, editingID string) (T, error) {
	var (
		entity T
		err    error
	)

	if c.isClosed() {
		return entity, ErrDetached
	}

	if editingID == "" {
		entity, err = c.source.Create(ctx, fields, file)
	} else {
		entity, err = c.source.Update(ctx, editingID, fields, file)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return entity, ErrDetached
	}
	if err != nil {
		c.err = err
		return entity, err
	}

	c.upsert(entity)
	c.gen++
	c.err = nil
	return entity, nil
}

// Destroy removes id on the backend and then from the collection. A failed
// delete leaves the collection untouched.
func (c *Controller[T]) Destroy(ctx context.Context, id string) error {
	if c.isClosed() {
		return ErrDetached
	}

	err := c.source.Remove(ctx, id)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrDetached
	}
	if err != nil {
		c.err = err
		c.mu.Unlock()
		return err
	}

	if i := c.indexOf(id); i >= 0 {
		next := make([]T, 0, len(c.items)-1)
		next = append(next, c.items[:i]...)
		c.items = append(next, c.items[i+1:]...)
	}
	c.gen++
	c.err = nil
	removers := append([]func(string){}, c.removers...)
	c.mu.Unlock()

	for _, fn := range removers {
		fn(id)
	}
	return nil
}

func (c *Controller[T]) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// upsert must be called with mu held. The slice is replaced, never edited in
// place, so copies handed out by Items stay stable.
func (c *Controller[T]) upsert(entity T) {
	next := make([]T, len(c.items), len(c.items)+1)
	copy(next, c.items)

	id := entity.EntityID()
	if i := c.indexOf(id); id != "" && i >= 0 {
		next[i] = entity
	} else {
		next = append(next, entity)
	}
	c.items = next
}

func (c *Controller[T]) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range c.items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

// dedupe keeps the first occurrence of each id and preserves order.
func dedupe[T resource.Entity](items []T) []T {
	out := make([]T, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		id := item.EntityID()
		if id != "" {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		out = append(out, item)
	}
	return out
}
