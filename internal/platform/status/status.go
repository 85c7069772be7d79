// Package status holds the process-wide error and loading flags shared by
// every storefront view. There is no per-view isolation.
package status

import "sync"

type Shared struct {
	mu      sync.RWMutex
	err     string
	loading bool
}

func New() *Shared {
	return &Shared{}
}

func (s *Shared) SetError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

func (s *Shared) ClearError() {
	s.SetError("")
}

func (s *Shared) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Shared) SetLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Shared) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns both flags under a single read lock.
func (s *Shared) Snapshot() (errMsg string, loading bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err, s.loading
}
