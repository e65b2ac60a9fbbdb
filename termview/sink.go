// Package termview paints googly eyes on a terminal with tcell.
package termview

import (
	"image/color"
	"math"

	"github.com/LdDl/googly-eyes/geom"
	"github.com/LdDl/googly-eyes/overlay"
	"github.com/gdamore/tcell/v2"
)

var (
	eyeStyle  = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorWhite)
	irisStyle = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorBlack)
)

// Sink keeps views in terminal cell coordinates and paints them on Render.
// It is not safe for concurrent use: call it from the goroutine owning the screen.
type Sink struct {
	*overlay.ViewList
	screen tcell.Screen
}

// NewSink creates sink drawing on screen
func NewSink(screen tcell.Screen) *Sink {
	return &Sink{
		ViewList: overlay.NewViewList(),
		screen:   screen,
	}
}

// Render clears the screen, paints visible eyes, then irises, then debug
// primitives, and shows the result.
func (s *Sink) Render() {
	s.screen.Clear()
	for _, v := range s.Paintable() {
		s.fillEllipse(v.Frame, styleFor(v.Style))
	}
	for _, shape := range s.Debug() {
		st := tcell.StyleDefault.Foreground(rgb(shape.Color))
		switch shape.Kind {
		case overlay.ShapeCircle:
			s.strokeCircle(shape.Center, shape.Radius, st)
		case overlay.ShapeRect:
			s.strokeRect(shape.Rect, st)
		case overlay.ShapeText:
			s.text(shape.Text, shape.Rect, st)
		}
	}
	s.screen.Show()
}

// fillEllipse paints every cell whose center lies inside the ellipse inscribed
// in frame. Only the on-screen part of frame is visited. The center cell is
// painted when the ellipse misses every cell center.
func (s *Sink) fillEllipse(frame geom.Rect, st tcell.Style) {
	if !frame.IsFinite() || frame.Empty() {
		return
	}
	w, h := s.screen.Size()
	center := frame.Center()
	rx, ry := frame.Width/2, frame.Height/2
	x0, x1 := clipSpan(frame.X, frame.X+frame.Width, w)
	y0, y1 := clipSpan(frame.Y, frame.Y+frame.Height, h)
	painted := false
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := (float64(x) + 0.5 - center.X) / rx
			dy := (float64(y) + 0.5 - center.Y) / ry
			if dx*dx+dy*dy <= 1 {
				s.set(x, y, ' ', st)
				painted = true
			}
		}
	}
	if !painted && (frame.Width < 2 || frame.Height < 2) {
		s.setAt(center.X, center.Y, ' ', st)
	}
}

func (s *Sink) strokeCircle(center geom.Point, radius float64, st tcell.Style) {
	if !(radius > 0) || !center.IsFinite() || math.IsInf(radius, 0) {
		return
	}
	w, h := s.screen.Size()
	// Circle entirely off screen
	if center.X+radius < 0 || center.Y+radius < 0 || center.X-radius >= float64(w) || center.Y-radius >= float64(h) {
		return
	}
	steps := int(math.Min(math.Max(16, 2*math.Pi*radius), float64(8*(w+h))))
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		s.setAt(center.X+radius*math.Cos(angle), center.Y+radius*math.Sin(angle), '·', st)
	}
}

func (s *Sink) strokeRect(rect geom.Rect, st tcell.Style) {
	if !rect.IsFinite() {
		return
	}
	w, h := s.screen.Size()
	left, top := rect.X, rect.Y
	right, bottom := rect.X+rect.Width, rect.Y+rect.Height
	x0, x1 := clipSpan(left, math.Floor(right)+1, w)
	for x := x0; x < x1; x++ {
		s.setAt(float64(x), top, '─', st)
		s.setAt(float64(x), bottom, '─', st)
	}
	y0, y1 := clipSpan(top, math.Floor(bottom)+1, h)
	for y := y0; y < y1; y++ {
		s.setAt(left, float64(y), '│', st)
		s.setAt(right, float64(y), '│', st)
	}
	s.setAt(left, top, '┌', st)
	s.setAt(right, top, '┐', st)
	s.setAt(left, bottom, '└', st)
	s.setAt(right, bottom, '┘', st)
}

func (s *Sink) text(str string, at geom.Rect, st tcell.Style) {
	for i, r := range []rune(str) {
		s.setAt(at.X+float64(i), at.Y, r, st)
	}
}

// clipSpan returns cell indices [from, to) covering [lo, hi) and clipped to [0, limit)
func clipSpan(lo, hi float64, limit int) (int, int) {
	lo = math.Max(0, math.Floor(lo))
	hi = math.Min(float64(limit), math.Ceil(hi))
	if !(lo < hi) {
		return 0, 0
	}
	return int(lo), int(hi)
}

// setAt writes the cell containing point (x, y), skipping the ones outside the screen
func (s *Sink) setAt(x, y float64, r rune, st tcell.Style) {
	w, h := s.screen.Size()
	x, y = math.Floor(x), math.Floor(y)
	if !(x >= 0 && y >= 0 && x < float64(w) && y < float64(h)) {
		return
	}
	s.set(int(x), int(y), r, st)
}

// set writes a cell, skipping the ones outside the screen
func (s *Sink) set(x, y int, r rune, st tcell.Style) {
	w, h := s.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	s.screen.SetContent(x, y, r, nil, st)
}

func styleFor(style overlay.ViewStyle) tcell.Style {
	if style == overlay.StyleIris {
		return irisStyle
	}
	return eyeStyle
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
