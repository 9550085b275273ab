package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/cookhub/internal/cookhub"
)

// offlineAfter is the number of consecutive failed checks before the API is
// reported offline.
const offlineAfter = 2

// Snapshot represents the latest API health seen by the poller.
type Snapshot struct {
	Health              cookhub.HealthResponse
	HasHealth           bool
	LastChecked         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple checks.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= offlineAfter
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the outcome of a health check. When err is non-nil the last
// known health is kept and the failure is counted.
func (s *Store) Update(health *cookhub.HealthResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastChecked = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if health != nil {
		s.snapshot.Health = *health
		s.snapshot.HasHealth = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
