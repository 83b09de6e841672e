// file: internal/ratelimit/limiter.go
// version: 1.0.0
// guid: c6b0e3f4-9a5d-4c7e-1f2a-4b5c6d7e8f9a

package ratelimit

import (
	"sync"
	"time"
)

// Window is the fixed-window counter state for one client key.
// Count only grows until ResetAt; after that the window is replaced,
// never incremented further.
type Window struct {
	Count   int
	ResetAt time.Time
}

// Store tracks request counts per key. The in-memory implementation never
// fails; the error return exists so callers treat limiter bookkeeping as
// fallible infrastructure (a store outage must degrade to allow, not deny).
type Store interface {
	Increment(key string, window time.Duration) (Window, error)
}

// NewMemoryStore creates an in-memory fixed-window store.
//
// Fixed-window counting trades precision for O(1) memory: a client can
// burst up to 2x the limit across a window boundary. Accepted.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]Window)}
}

// MemoryStore is a mutex-guarded fixed-window counter map.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

// Increment bumps the counter for key, opening a fresh window when none
// exists or the stored one has reset. The read-modify-write is atomic per
// key so concurrent increments are never lost.
func (s *MemoryStore) Increment(key string, window time.Duration) (Window, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.ResetAt) {
		w = Window{Count: 1, ResetAt: now.Add(window)}
	} else {
		w.Count++
	}
	s.windows[key] = w
	return w, nil
}

// Sweep removes windows whose reset time has passed, bounding memory to
// active keys. Returns the number removed.
func (s *MemoryStore) Sweep() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.ResetAt) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked windows, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// StartJanitor spawns the periodic sweep goroutine. The returned stop
// function cancels it; the composition root owns the handle.
func (s *MemoryStore) StartJanitor(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
