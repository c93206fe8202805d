// Package costmap provides occupancy-grid snapshots and the store that keeps
// a navigation coordinator's view of the world current.
//
// A Snapshot is immutable once constructed. The Store replaces snapshots
// wholesale instead of merging cells, so a reader can never observe a grid
// that is half one capture and half another.
package costmap

import (
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Thresholds classify raw cell costs. A cell is occupied when its value lies
// in [Lower, Upper]; values above Upper are unknown space; values below
// Lower are free.
type Thresholds struct {
	Lower uint8
	Upper uint8
}

// DefaultThresholds match the usual inflated-costmap convention where 255
// marks unknown space.
var DefaultThresholds = Thresholds{Lower: 128, Upper: 250}

// Snapshot is one immutable capture of an occupancy grid. Cells are stored
// row-major, indexed from the grid origin; the origin is the world position
// of the outer corner of cell (0, 0).
type Snapshot struct {
	frame      string
	width      int
	height     int
	resolution float64
	origin     r2.Point
	cells      []uint8
	thresholds Thresholds
	capturedAt time.Time
}

// NewSnapshot builds a snapshot over the given cells. The cell slice is
// retained, not copied; callers must not modify it afterwards. Thresholds
// default to DefaultThresholds.
func NewSnapshot(
	frame string,
	width, height int,
	resolution float64,
	origin r2.Point,
	cells []uint8,
	capturedAt time.Time,
) (*Snapshot, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("expected positive grid dimensions but got %dx%d", width, height)
	}
	if resolution <= 0 {
		return nil, errors.Errorf("expected positive resolution but got %f", resolution)
	}
	if len(cells) != width*height {
		return nil, errors.Errorf("expected %d cells for a %dx%d grid but got %d", width*height, width, height, len(cells))
	}
	return &Snapshot{
		frame:      frame,
		width:      width,
		height:     height,
		resolution: resolution,
		origin:     origin,
		cells:      cells,
		thresholds: DefaultThresholds,
		capturedAt: capturedAt,
	}, nil
}

// NewBlankSnapshot returns a snapshot of all-free cells.
func NewBlankSnapshot(
	frame string,
	width, height int,
	resolution float64,
	origin r2.Point,
	capturedAt time.Time,
) (*Snapshot, error) {
	return NewSnapshot(frame, width, height, resolution, origin, make([]uint8, width*height), capturedAt)
}

// WithThresholds returns a copy of the snapshot classified by th. The cell
// data is shared.
func (s *Snapshot) WithThresholds(th Thresholds) *Snapshot {
	copied := *s
	copied.thresholds = th
	return &copied
}

// Frame returns the coordinate frame the grid is expressed in.
func (s *Snapshot) Frame() string { return s.frame }

// Width returns the number of cells along X.
func (s *Snapshot) Width() int { return s.width }

// Height returns the number of cells along Y.
func (s *Snapshot) Height() int { return s.height }

// Resolution returns the side length of one cell in meters.
func (s *Snapshot) Resolution() float64 { return s.resolution }

// Origin returns the world position of the grid's outer corner.
func (s *Snapshot) Origin() r2.Point { return s.origin }

// Thresholds returns the occupancy classification bounds.
func (s *Snapshot) Thresholds() Thresholds { return s.thresholds }

// CapturedAt returns when the grid was captured.
func (s *Snapshot) CapturedAt() time.Time { return s.capturedAt }

// At returns the raw cost of cell (x, y) and whether the cell is in bounds.
func (s *Snapshot) At(x, y int) (uint8, bool) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return 0, false
	}
	return s.cells[y*s.width+x], true
}

// OccupiedAt reports whether cell (x, y) is an obstacle. Out-of-bounds cells
// are not occupied.
func (s *Snapshot) OccupiedAt(x, y int) bool {
	v, ok := s.At(x, y)
	return ok && v >= s.thresholds.Lower && v <= s.thresholds.Upper
}

// UnknownAt reports whether cell (x, y) is unknown space.
func (s *Snapshot) UnknownAt(x, y int) bool {
	v, ok := s.At(x, y)
	return ok && v > s.thresholds.Upper
}

// WorldToCell maps a world point to grid indices. ok is false when the point
// falls outside the grid.
func (s *Snapshot) WorldToCell(pt r2.Point) (x, y int, ok bool) {
	rel := pt.Sub(s.origin)
	x = int(rel.X / s.resolution)
	y = int(rel.Y / s.resolution)
	if rel.X < 0 || rel.Y < 0 || x >= s.width || y >= s.height {
		return 0, 0, false
	}
	return x, y, true
}

// CellToWorld returns the world position of the center of cell (x, y).
func (s *Snapshot) CellToWorld(x, y int) r2.Point {
	return s.origin.Add(r2.Point{
		X: (float64(x) + .5) * s.resolution,
		Y: (float64(y) + .5) * s.resolution,
	})
}

// OccupiedAtWorld reports whether the cell containing the world point is an
// obstacle. Points outside the grid are not occupied.
func (s *Snapshot) OccupiedAtWorld(pt r2.Point) bool {
	x, y, ok := s.WorldToCell(pt)
	return ok && s.OccupiedAt(x, y)
}
