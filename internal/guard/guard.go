// Package guard serializes asynchronous operations per window and operation
// kind. A second call for an in-flight key is dropped rather than queued,
// which is what rapid repeated paste or menu clicks require.
package guard

import "sync"

// Key identifies one guarded operation slot.
type Key struct {
	// WindowID identifies the window the operation belongs to.
	WindowID string

	// Op is the operation kind (e.g. "insertImage", "pasteURL").
	Op string
}

// Guard is a keyed non-blocking try-lock registry. The zero value is not
// usable; call New.
type Guard struct {
	mu       sync.Mutex
	inFlight map[Key]bool
}

// New creates an empty guard registry.
func New() *Guard {
	return &Guard{inFlight: make(map[Key]bool)}
}

// TryAcquire attempts to claim the slot for (windowID, op). It returns false
// without blocking if the slot is already held; the caller must then drop the
// operation.
func (g *Guard) TryAcquire(windowID, op string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := Key{WindowID: windowID, Op: op}
	if g.inFlight[k] {
		return false
	}
	g.inFlight[k] = true
	return true
}

// Release frees the slot for (windowID, op). Releasing an unheld slot is a
// no-op.
func (g *Guard) Release(windowID, op string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, Key{WindowID: windowID, Op: op})
}

// Held reports whether the slot for (windowID, op) is currently claimed.
func (g *Guard) Held(windowID, op string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight[Key{WindowID: windowID, Op: op}]
}
