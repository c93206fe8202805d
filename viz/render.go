package viz

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/navcore/costmap"
)

// Cell shading for rendered grids.
var (
	freeColor     = color.Gray{Y: 255}
	occupiedColor = color.Gray{Y: 40}
	unknownColor  = color.Gray{Y: 180}
)

// Render rasterizes a costmap snapshot and overlays markers on it. Each grid
// cell becomes a scale x scale pixel block. World Y grows upward, image Y
// grows downward, so the grid is flipped vertically; markers whose frame
// differs from the snapshot's frame are skipped.
func Render(snap *costmap.Snapshot, markers []Marker, scale int) (image.Image, error) {
	if snap == nil {
		return nil, errors.New("no snapshot to render")
	}
	if scale <= 0 {
		return nil, errors.Errorf("expected positive scale but got %d", scale)
	}

	width, height := snap.Width(), snap.Height()
	dc := gg.NewContext(width*scale, height*scale)
	dc.SetColor(freeColor)
	dc.Clear()

	for y := 0; y < height; y++ {
		py := (height - 1 - y) * scale
		for x := 0; x < width; x++ {
			switch {
			case snap.OccupiedAt(x, y):
				dc.SetColor(occupiedColor)
			case snap.UnknownAt(x, y):
				dc.SetColor(unknownColor)
			default:
				continue
			}
			dc.DrawRectangle(float64(x*scale), float64(py), float64(scale), float64(scale))
			dc.Fill()
		}
	}

	for _, m := range markers {
		if m.Frame != "" && m.Frame != snap.Frame() {
			continue
		}
		drawMarker(dc, snap, m, scale)
	}

	return dc.Image(), nil
}

func drawMarker(dc *gg.Context, snap *costmap.Snapshot, m Marker, scale int) {
	if len(m.Points) < 2 {
		return
	}
	dc.SetColor(m.Color)
	lineWidth := m.LineWidth / snap.Resolution() * float64(scale)
	if lineWidth < 1 {
		lineWidth = 1
	}
	dc.SetLineWidth(lineWidth)

	switch m.Type {
	case LineList:
		for i := 0; i+1 < len(m.Points); i += 2 {
			x1, y1 := worldToPixel(snap, m.Points[i], scale)
			x2, y2 := worldToPixel(snap, m.Points[i+1], scale)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		}
	case LineStrip:
		fallthrough
	default:
		for i := 0; i+1 < len(m.Points); i++ {
			x1, y1 := worldToPixel(snap, m.Points[i], scale)
			x2, y2 := worldToPixel(snap, m.Points[i+1], scale)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		}
	}
}

func worldToPixel(snap *costmap.Snapshot, pt r2.Point, scale int) (float64, float64) {
	rel := pt.Sub(snap.Origin())
	px := rel.X / snap.Resolution() * float64(scale)
	py := float64(snap.Height()*scale) - rel.Y/snap.Resolution()*float64(scale)
	return px, py
}
