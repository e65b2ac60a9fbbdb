package geom

// Transform maps tracker-space coordinates into overlay-space coordinates.
// Scale is applied first, then the offset.
type Transform struct {
	XScale float64
	YScale float64
	Offset Point
}

// IdentityTransform returns transform which leaves coordinates untouched
func IdentityTransform() Transform {
	return Transform{XScale: 1, YScale: 1}
}

// Valid reports whether transform has finite positive scales and finite offset
func (t Transform) Valid() bool {
	return isFinite(t.XScale) && isFinite(t.YScale) && t.XScale > 0 && t.YScale > 0 && t.Offset.IsFinite()
}

// ApplyPoint maps a tracker-space point
func (t Transform) ApplyPoint(p Point) Point {
	return Point{
		X: p.X*t.XScale + t.Offset.X,
		Y: p.Y*t.YScale + t.Offset.Y,
	}
}

// ApplySize maps a tracker-space extent. Offsets do not apply to sizes.
func (t Transform) ApplySize(width, height float64) (float64, float64) {
	return width * t.XScale, height * t.YScale
}

// ApplyRect maps a tracker-space rectangle
func (t Transform) ApplyRect(r Rect) Rect {
	origin := t.ApplyPoint(Point{X: r.X, Y: r.Y})
	w, h := t.ApplySize(r.Width, r.Height)
	return Rect{X: origin.X, Y: origin.Y, Width: w, Height: h}
}
