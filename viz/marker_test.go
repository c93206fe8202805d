package viz

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/navcore/spatialmath"
)

func TestNewWaypointMarker(t *testing.T) {
	poses := []spatialmath.Pose2D{
		spatialmath.NewPose2D(0, 0, 0),
		spatialmath.NewPose2D(1, 1, math.Pi/2),
	}
	m := NewWaypointMarker("map", "waypoints", 3, poses)

	test.That(t, m.Type, test.ShouldEqual, LineList)
	test.That(t, m.Namespace, test.ShouldEqual, "waypoints")
	test.That(t, m.ID, test.ShouldEqual, 3)
	test.That(t, m.Color, test.ShouldResemble, WaypointGreen)
	test.That(t, m.Points, test.ShouldHaveLength, 4)

	// each pose contributes a segment along its heading
	test.That(t, m.Points[0], test.ShouldResemble, r2.Point{})
	test.That(t, m.Points[1].X, test.ShouldAlmostEqual, WaypointHeadingLength)
	test.That(t, m.Points[1].Y, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, m.Points[2], test.ShouldResemble, r2.Point{X: 1, Y: 1})
	test.That(t, m.Points[3].X, test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, m.Points[3].Y, test.ShouldAlmostEqual, 1.8)
}

func TestNewLineStripMarker(t *testing.T) {
	pts := []r2.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}
	m := NewLineStripMarker("map", "global_path", 1, PathBlue, PathLineWidth, pts)

	test.That(t, m.Type, test.ShouldEqual, LineStrip)
	test.That(t, m.Frame, test.ShouldEqual, "map")
	test.That(t, m.LineWidth, test.ShouldEqual, PathLineWidth)
	test.That(t, m.Points, test.ShouldResemble, pts)
}

func TestRecorderReplacesByIdentity(t *testing.T) {
	rec := NewRecorder()
	ctx := context.Background()

	first := NewLineStripMarker("map", "global_path", 1, PathBlue, PathLineWidth, []r2.Point{{X: 1}})
	second := NewLineStripMarker("map", "global_path", 1, PathRed, PathLineWidth, []r2.Point{{X: 2}})
	other := NewWaypointMarker("map", "waypoints", 3, []spatialmath.Pose2D{spatialmath.NewPose2D(0, 0, 0)})

	test.That(t, rec.PublishMarker(ctx, first), test.ShouldBeNil)
	test.That(t, rec.PublishMarker(ctx, other), test.ShouldBeNil)
	test.That(t, rec.PublishMarker(ctx, second), test.ShouldBeNil)

	all := rec.Markers()
	test.That(t, all, test.ShouldHaveLength, 2)
	test.That(t, all[0].Namespace, test.ShouldEqual, "global_path")
	test.That(t, all[0].Color, test.ShouldResemble, PathRed)
	test.That(t, all[1].Namespace, test.ShouldEqual, "waypoints")

	got, ok := rec.Marker("global_path", 1)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, got.Points[0].X, test.ShouldEqual, 2.0)

	_, ok = rec.Marker("global_path", 2)
	test.That(t, ok, test.ShouldBeFalse)
}
