// Package modal holds the open/closed state of dashboard dialogs. Each view
// owns its own Modal value instead of sharing a global keyed store.
package modal

import (
	"sync"
)

// Modal is the state of one dialog: whether it is open and the record it was
// opened for.
type Modal[T any] struct {
	mu      sync.RWMutex
	open    bool
	payload T
}

// Open shows the dialog for payload, replacing any previous payload.
func (m *Modal[T]) Open(payload T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = true
	m.payload = payload
}

// Close hides the dialog and clears its payload.
func (m *Modal[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	m.open = false
	m.payload = zero
}

// Toggle opens a closed dialog for payload or closes an open one.
func (m *Modal[T]) Toggle(payload T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		var zero T
		m.open = false
		m.payload = zero
		return false
	}
	m.open = true
	m.payload = payload
	return true
}

func (m *Modal[T]) IsOpen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.open
}

// Payload returns the current payload and whether the dialog is open.
func (m *Modal[T]) Payload() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payload, m.open
}
