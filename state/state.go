// Package state implements the observable value the controllers publish
// through. The contract is deliberately small: last value wins, and every
// subscriber sees every transition in the order it was set.
package state

import "sync"

// Value holds one mutable snapshot and fans out updates to listeners.
// Listeners run synchronously on the goroutine calling Set, in subscription
// order, so a listener must not call back into the same Value.
type Value[T any] struct {
	mu        sync.Mutex
	current   T
	listeners []func(T)
}

// NewValue returns a Value starting at initial. No notification is sent for
// the initial value; use Get after subscribing if the current snapshot is
// needed.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the latest snapshot.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores a new snapshot and notifies all subscribers.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	v.current = next
	listeners := make([]func(T), len(v.listeners))
	copy(listeners, v.listeners)
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

// Subscribe registers fn for every subsequent transition.
func (v *Value[T]) Subscribe(fn func(T)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}
