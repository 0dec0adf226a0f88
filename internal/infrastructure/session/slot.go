package session

import (
	"context"
)

// Slot is a lazily filled single-value cache. Loads are serialized: a caller
// arriving while a load is running waits for it and then sees its value. A
// failed load leaves the slot empty so that the next caller tries again.
type Slot[T any] struct {
	// lock is a one-token semaphore so that waiting respects ctx
	lock   chan struct{}
	value  T
	loaded bool
}

// NewSlot creates an empty slot
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{lock: make(chan struct{}, 1)}
}

// Get returns the cached value, calling load first if the slot is empty.
func (s *Slot[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	var zero T
	select {
	case s.lock <- struct{}{}:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	defer func() { <-s.lock }()

	if s.loaded {
		return s.value, nil
	}
	v, err := load(ctx)
	if err != nil {
		return zero, err
	}
	s.value, s.loaded = v, true
	return v, nil
}
