package viz

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/navcore/costmap"
)

func renderTestSnapshot(t *testing.T) *costmap.Snapshot {
	t.Helper()
	cells := make([]uint8, 16)
	cells[5] = 200  // cell (1, 1) occupied
	cells[10] = 255 // cell (2, 2) unknown
	snap, err := costmap.NewSnapshot("map", 4, 4, 1, r2.Point{}, cells, time.Now())
	test.That(t, err, test.ShouldBeNil)
	return snap
}

func TestRenderValidation(t *testing.T) {
	_, err := Render(nil, nil, 1)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no snapshot")

	_, err = Render(renderTestSnapshot(t), nil, 0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "positive scale")
}

func TestRenderGrid(t *testing.T) {
	snap := renderTestSnapshot(t)

	img, err := Render(snap, nil, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 8, 8))

	// (1, 1) occupied: with the vertical flip its block starts at
	// pixel ((4-1-1)*2, 1*2) = (2, 4)
	r, g, b := rgbAt(img, 2, 4)
	test.That(t, r < 100 && g < 100 && b < 100, test.ShouldBeTrue)

	// (2, 2) unknown renders mid-gray at (4, 2)
	r, _, _ = rgbAt(img, 4, 2)
	test.That(t, r > 100 && r < 230, test.ShouldBeTrue)

	// free space stays white
	r, g, b = rgbAt(img, 0, 0)
	test.That(t, r > 230 && g > 230 && b > 230, test.ShouldBeTrue)
}

func TestRenderMarkers(t *testing.T) {
	snap := renderTestSnapshot(t)
	path := NewLineStripMarker("map", "global_path", 1, PathBlue, PathLineWidth,
		[]r2.Point{{X: .5, Y: .75}, {X: 3.5, Y: .75}})

	img, err := Render(snap, []Marker{path}, 2)
	test.That(t, err, test.ShouldBeNil)

	// some pixel along the stroke is distinctly blue
	found := false
	for x := 2; x < 7; x++ {
		for y := 5; y < 8; y++ {
			r, _, b := rgbAt(img, x, y)
			if b > r+80 {
				found = true
			}
		}
	}
	test.That(t, found, test.ShouldBeTrue)

	// markers in a different frame are skipped
	foreign := NewLineStripMarker("odom", "global_path", 1, PathBlue, PathLineWidth,
		[]r2.Point{{X: .5, Y: .75}, {X: 3.5, Y: .75}})
	img, err = Render(snap, []Marker{foreign}, 2)
	test.That(t, err, test.ShouldBeNil)
	found = false
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			r, _, b := rgbAt(img, x, y)
			if b > r+80 {
				found = true
			}
		}
	}
	test.That(t, found, test.ShouldBeFalse)
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
	return c.R, c.G, c.B
}
