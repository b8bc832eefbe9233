package state

import "sync"

// Guard is the in-flight latch protecting a controller operation: a second
// attempt started while one is running is rejected instead of racing it.
type Guard struct {
	mu     sync.Mutex
	active bool
}

// Begin claims the guard. It returns false when an attempt already holds it.
func (g *Guard) Begin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active {
		return false
	}
	g.active = true
	return true
}

// End releases the guard.
func (g *Guard) End() {
	g.mu.Lock()
	g.active = false
	g.mu.Unlock()
}
