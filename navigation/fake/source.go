package fake

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/navcore/costmap"
)

// Source serves a settable costmap snapshot.
type Source struct {
	mu     sync.Mutex
	snap   *costmap.Snapshot
	clears int
}

// NewSource returns a source serving the given snapshot.
func NewSource(snap *costmap.Snapshot) *Source {
	return &Source{snap: snap}
}

// ClearRobotFootprint only counts how often it was asked.
func (s *Source) ClearRobotFootprint(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	return nil
}

// Snapshot returns the current snapshot.
func (s *Source) Snapshot(ctx context.Context) (*costmap.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return nil, errors.New("no snapshot configured")
	}
	return s.snap, nil
}

// SetSnapshot replaces the served snapshot, simulating the world changing.
func (s *Source) SetSnapshot(snap *costmap.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// Clears returns how many times the footprint was cleared.
func (s *Source) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

// NewSnapshotWithObstacles builds a snapshot whose cells are free except for
// the given rectangles, in cell coordinates, which are marked occupied.
func NewSnapshotWithObstacles(
	frame string,
	width, height int,
	resolution float64,
	origin r2.Point,
	capturedAt time.Time,
	obstacles ...image.Rectangle,
) (*costmap.Snapshot, error) {
	cells := make([]uint8, width*height)
	bounds := image.Rect(0, 0, width, height)
	for _, rect := range obstacles {
		rect = rect.Intersect(bounds)
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				cells[y*width+x] = 200
			}
		}
	}
	return costmap.NewSnapshot(frame, width, height, resolution, origin, cells, capturedAt)
}
