package vision

import (
	"image"
	"image/color"
	"math"

	"github.com/LdDl/googly-eyes/overlay"
	"gocv.io/x/gocv"
)

var (
	eyeColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	irisColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	rimColor  = color.RGBA{R: 40, G: 40, B: 40, A: 255}
)

// MatSink keeps views in frame pixel coordinates and draws them onto frames
type MatSink struct {
	*overlay.ViewList
}

// NewMatSink creates an empty sink
func NewMatSink() *MatSink {
	return &MatSink{ViewList: overlay.NewViewList()}
}

// Render draws visible views and debug primitives onto frame
func (s *MatSink) Render(frame *gocv.Mat) {
	for _, v := range s.Paintable() {
		if !v.Frame.IsFinite() || v.Frame.Empty() {
			continue
		}
		center := v.Frame.Center().Image()
		axes := image.Pt(halfAxis(v.Frame.Width), halfAxis(v.Frame.Height))
		if v.Style == overlay.StyleIris {
			gocv.Ellipse(frame, center, axes, 0, 0, 360, irisColor, -1)
			continue
		}
		gocv.Ellipse(frame, center, axes, 0, 0, 360, eyeColor, -1)
		gocv.Ellipse(frame, center, axes, 0, 0, 360, rimColor, 2)
	}
	for _, shape := range s.Debug() {
		switch shape.Kind {
		case overlay.ShapeCircle:
			gocv.Circle(frame, shape.Center.Image(), int(math.Round(shape.Radius)), shape.Color, 1)
		case overlay.ShapeRect:
			gocv.Rectangle(frame, shape.Rect.Image(), shape.Color, 1)
		case overlay.ShapeText:
			org := image.Pt(int(shape.Rect.X), int(shape.Rect.Y)-4)
			gocv.PutText(frame, shape.Text, org, gocv.FontHersheySimplex, 0.5, shape.Color, 1)
		}
	}
}

func halfAxis(size float64) int {
	return max(1, int(math.Round(size/2)))
}
