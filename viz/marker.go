// Package viz models the debug overlays a navigation coordinator publishes:
// line markers in world coordinates plus a renderer that rasterizes a
// costmap snapshot with its markers into an image.
package viz

import (
	"context"
	"image/color"
	"sort"
	"sync"

	"github.com/golang/geo/r2"

	"go.viam.com/navcore/spatialmath"
)

// MarkerType selects how a marker's points are connected.
type MarkerType uint8

const (
	// LineStrip connects consecutive points into one polyline.
	LineStrip MarkerType = iota
	// LineList draws each consecutive pair of points as an independent
	// segment.
	LineList
)

// Line styling shared by the standard markers.
const (
	// PathLineWidth is the stroke width of path and waypoint markers, in
	// meters.
	PathLineWidth = 0.1
	// WaypointHeadingLength is how far a waypoint's heading segment extends,
	// in meters.
	WaypointHeadingLength = 0.8
)

// Standard marker colors.
var (
	// PathBlue marks the committed global path.
	PathBlue = color.NRGBA{B: 255, A: 191}
	// PathRed marks a preliminary path that has not been smoothed yet.
	PathRed = color.NRGBA{R: 255, A: 191}
	// WaypointGreen marks waypoint heading segments.
	WaypointGreen = color.NRGBA{G: 255, A: 255}
)

// Marker is one drawable overlay. Markers are identified by (Namespace, ID);
// republishing with the same identity replaces the previous marker.
type Marker struct {
	Namespace string
	ID        int
	Type      MarkerType
	Frame     string
	Color     color.NRGBA
	// LineWidth is in world meters, like the points.
	LineWidth float64
	Points    []r2.Point
}

// NewLineStripMarker returns a polyline marker through pts.
func NewLineStripMarker(frame, ns string, id int, c color.NRGBA, width float64, pts []r2.Point) Marker {
	return Marker{
		Namespace: ns,
		ID:        id,
		Type:      LineStrip,
		Frame:     frame,
		Color:     c,
		LineWidth: width,
		Points:    pts,
	}
}

// NewWaypointMarker returns a line-list marker with one segment per pose,
// each segment extending WaypointHeadingLength meters along the pose's
// heading.
func NewWaypointMarker(frame, ns string, id int, poses []spatialmath.Pose2D) Marker {
	pts := make([]r2.Point, 0, len(poses)*2)
	for _, p := range poses {
		start := p.Point()
		pts = append(pts, start, start.Add(p.Heading().Mul(WaypointHeadingLength)))
	}
	return Marker{
		Namespace: ns,
		ID:        id,
		Type:      LineList,
		Frame:     frame,
		Color:     WaypointGreen,
		LineWidth: PathLineWidth,
		Points:    pts,
	}
}

// Publisher receives markers as they are produced.
type Publisher interface {
	PublishMarker(ctx context.Context, m Marker) error
}

// Recorder is a Publisher that retains the latest marker per
// (Namespace, ID). It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	markers map[markerKey]Marker
}

type markerKey struct {
	ns string
	id int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{markers: map[markerKey]Marker{}}
}

// PublishMarker retains m, replacing any previous marker with the same
// namespace and ID.
func (r *Recorder) PublishMarker(ctx context.Context, m Marker) error {
	r.mu.Lock()
	r.markers[markerKey{m.Namespace, m.ID}] = m
	r.mu.Unlock()
	return nil
}

// Markers returns the retained markers ordered by namespace, then ID.
func (r *Recorder) Markers() []Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Marker, 0, len(r.markers))
	for _, m := range r.markers {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Namespace != out[j].Namespace {
			return out[i].Namespace < out[j].Namespace
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Marker returns the retained marker for (ns, id), if any.
func (r *Recorder) Marker(ns string, id int) (Marker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.markers[markerKey{ns, id}]
	return m, ok
}
