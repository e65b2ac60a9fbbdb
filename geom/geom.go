// Package geom holds the 2D primitives shared by the iris simulator, the overlay
// coordinator and the face tracker adapters.
package geom

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle. X and Y address the top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewRect creates rectangle from top-left corner and size
func NewRect(x, y, width, height float64) Rect {
	return Rect{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// NewRectCentered builds a rectangle of the given size around center
func NewRectCentered(center Point, width, height float64) Rect {
	return Rect{
		X:      center.X - width/2.0,
		Y:      center.Y - height/2.0,
		Width:  width,
		Height: height,
	}
}

// Center returns rectangle's center
func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2.0,
		Y: r.Y + r.Height/2.0,
	}
}

// Empty reports whether the rectangle has no positive area
func (r Rect) Empty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}

// IsFinite reports whether every component is neither NaN nor infinite
func (r Rect) IsFinite() bool {
	return isFinite(r.X) && isFinite(r.Y) && isFinite(r.Width) && isFinite(r.Height)
}

// Diagonal returns length of rectangle's diagonal
func (r Rect) Diagonal() float64 {
	return math.Hypot(r.Width, r.Height)
}

// Image converts rectangle to integer image coordinates (rounded)
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)),
		int(math.Round(r.Y+r.Height)),
	)
}

type Point struct {
	X float64
	Y float64
}

// NewPoint creates a point
func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

// IsFinite reports whether both coordinates are neither NaN nor infinite
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Image converts point to integer image coordinates (rounded)
func (p Point) Image() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// Velocity is a per-frame displacement
type Velocity struct {
	DX float64
	DY float64
}

// Magnitude returns euclidean length of the velocity vector
func (v Velocity) Magnitude() float64 {
	return math.Hypot(v.DX, v.DY)
}

// Scale returns velocity multiplied by factor on both axes
func (v Velocity) Scale(factor float64) Velocity {
	return Velocity{DX: v.DX * factor, DY: v.DY * factor}
}

// EuclideanDistance returns distance between two points
func EuclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
