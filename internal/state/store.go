package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/pathpilot/internal/robot"
)

// offlineAfter is the number of consecutive failed polls after which the
// robot is shown as offline.
const offlineAfter = 2

// Snapshot is the latest pose information available to the UI.
type Snapshot struct {
	Pose                robot.Pose
	HasPose             bool
	PosedAt             time.Time // time of the last successful poll
	LastPolled          time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsStale reports a pose that is still displayed although the latest poll failed.
func (s Snapshot) IsStale() bool {
	return s.HasPose && s.LastError != nil
}

// IsOffline returns true when the pose endpoint failed on consecutive polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= offlineAfter
}

// Store holds the last known pose. Poll results may arrive from a command
// goroutine while the UI reads, so access is locked.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records a poll result. When err is non-nil the previous pose is kept
// and the error is recorded for visibility.
func (s *Store) Update(pose robot.Pose, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.LastPolled = now
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Pose = pose
	s.snapshot.HasPose = true
	s.snapshot.PosedAt = now
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
