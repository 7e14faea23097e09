// Package health records the outcome of the most recent backend probe so the
// shell can warn when the booking API is unreachable.
package health

import (
	"sync"
	"time"
)

type Snapshot struct {
	Checked   bool
	Reachable bool
	CheckedAt time.Time
	Message   string
}

// Status is safe for concurrent use. Until the first probe completes the API
// is assumed reachable.
type Status struct {
	mu   sync.RWMutex
	last Snapshot
}

func NewStatus() *Status {
	return &Status{}
}

// Record stores the result of one probe. A nil err marks the API reachable.
func (s *Status) Record(at time.Time, err error, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = Snapshot{
		Checked:   true,
		Reachable: err == nil,
		CheckedAt: at,
	}
	if err != nil {
		s.last.Message = message
	}
}

func (s *Status) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{Reachable: true}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.last.Checked {
		return Snapshot{Reachable: true}
	}
	return s.last
}

func (s *Status) Reachable() bool {
	return s.Snapshot().Reachable
}
