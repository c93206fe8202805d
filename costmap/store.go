package costmap

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Source captures the live local obstacle view around the robot, typically
// backed by range sensors.
type Source interface {
	// ClearRobotFootprint wipes the cells under the robot so its own body is
	// not treated as an obstacle in the next capture.
	ClearRobotFootprint(ctx context.Context) error

	// Snapshot captures a fresh copy of the local grid.
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Store holds the latest global and local costmap snapshots. The global map
// is pushed in whole by whoever produces it; the local map is pulled on
// demand from a Source. Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	global   *Snapshot
	local    *Snapshot
	localSrc Source
}

// NewStore returns a store that refreshes its local view from localSource.
// localSource may be nil when no local sensing exists; RefreshLocal then
// fails.
func NewStore(localSource Source) *Store {
	return &Store{localSrc: localSource}
}

// SetGlobal replaces the global snapshot. Nil snapshots are ignored.
func (s *Store) SetGlobal(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.mu.Lock()
	s.global = snap
	s.mu.Unlock()
}

// Global returns the latest global snapshot and whether one has been
// received yet.
func (s *Store) Global() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global, s.global != nil
}

// GlobalFrame returns the frame of the latest global snapshot, or "" when
// none has been received.
func (s *Store) GlobalFrame() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.global == nil {
		return ""
	}
	return s.global.Frame()
}

// RefreshLocal clears the robot footprint out of the source, captures a
// fresh local snapshot, retains it, and returns it.
func (s *Store) RefreshLocal(ctx context.Context) (*Snapshot, error) {
	if s.localSrc == nil {
		return nil, errors.New("no local costmap source")
	}
	if err := s.localSrc.ClearRobotFootprint(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to clear robot footprint")
	}
	snap, err := s.localSrc.Snapshot(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to capture local costmap")
	}
	if snap == nil {
		return nil, errors.New("local costmap source returned no snapshot")
	}
	s.mu.Lock()
	s.local = snap
	s.mu.Unlock()
	return snap, nil
}

// Local returns the most recently captured local snapshot and whether one
// exists.
func (s *Store) Local() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.local, s.local != nil
}
