// Package physics simulates the motion of an iris inside a googly eye.
// The iris moves independently of the eye: gravity pulls it down, friction
// slows it and the eye boundary bounces it back.
package physics

import (
	"github.com/LdDl/googly-eyes/geom"
	"github.com/pkg/errors"
)

// Simulator holds the velocity of a single iris. One instance belongs to exactly
// one tracked eye; it is not safe for concurrent use.
type Simulator struct {
	cfg      Config
	velocity geom.Velocity
}

// NewSimulator creates a simulator at rest
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid physics config")
	}
	return &Simulator{cfg: cfg}, nil
}

// NewSimulatorDefault creates a simulator with DefaultConfig
func NewSimulatorDefault() *Simulator {
	return &Simulator{cfg: DefaultConfig()}
}

// Config returns simulator's parameters
func (s *Simulator) Config() Config {
	return s.cfg
}

// Velocity returns current velocity
func (s *Simulator) Velocity() geom.Velocity {
	return s.velocity
}

// SetVelocity overrides current velocity. Non-finite components are ignored.
func (s *Simulator) SetVelocity(v geom.Velocity) {
	if !(geom.Point{X: v.DX, Y: v.DY}).IsFinite() {
		return
	}
	s.velocity = v
}

// Reset brings the iris to rest
func (s *Simulator) Reset() {
	s.velocity = geom.Velocity{}
}

// NextIrisRect advances the simulation by one step and returns the next iris
// rectangle. eyeRect is the current eye boundary and irisRect the last computed
// iris rectangle, both in parent view coordinates. The returned rectangle keeps
// the size of irisRect.
func (s *Simulator) NextIrisRect(eyeRect, irisRect geom.Rect) geom.Rect {
	if !eyeRect.IsFinite() || eyeRect.Empty() {
		return irisRect
	}
	if !irisRect.IsFinite() || irisRect.Width < 0 || irisRect.Height < 0 {
		s.Reset()
		return geom.NewRectCentered(eyeRect.Center(), finiteSize(irisRect.Width), finiteSize(irisRect.Height))
	}

	s.velocity.DY += s.cfg.Gravity
	s.velocity = s.velocity.Scale(s.cfg.Friction)
	if s.velocity.Magnitude() < s.cfg.RestThreshold {
		s.velocity = geom.Velocity{}
	}

	center := irisRect.Center()
	x, vx := s.contain(center.X+s.velocity.DX, s.velocity.DX, eyeRect.X, eyeRect.Width, irisRect.Width)
	y, vy := s.contain(center.Y+s.velocity.DY, s.velocity.DY, eyeRect.Y, eyeRect.Height, irisRect.Height)
	s.velocity = geom.Velocity{DX: vx, DY: vy}

	return geom.NewRectCentered(geom.Point{X: x, Y: y}, irisRect.Width, irisRect.Height)
}

// contain keeps a center coordinate inside [origin+size/2, origin+extent-size/2]
// and bounces the velocity component when the boundary is hit while moving out.
func (s *Simulator) contain(pos, vel, origin, extent, size float64) (float64, float64) {
	lo, hi, ok := TravelRange(origin, extent, size)
	if !ok {
		return lo, 0
	}
	switch {
	case pos < lo:
		pos = lo
		if vel < 0 {
			vel = s.bounce(vel)
		}
	case pos > hi:
		pos = hi
		if vel > 0 {
			vel = s.bounce(vel)
		}
	}
	return pos, vel
}

func (s *Simulator) bounce(vel float64) float64 {
	reflected := -vel * s.cfg.Restitution
	if reflected > s.cfg.MaxBounceVelocity || reflected < -s.cfg.MaxBounceVelocity {
		return 0
	}
	return reflected
}

// TravelRange returns the interval an iris center of the given size may occupy
// along one axis of an eye spanning [origin, origin+extent]. When the iris does
// not fit, the range collapses to the eye center and ok is false.
func TravelRange(origin, extent, size float64) (lo, hi float64, ok bool) {
	lo = origin + size/2.0
	hi = origin + extent - size/2.0
	if lo > hi {
		mid := origin + extent/2.0
		return mid, mid, false
	}
	return lo, hi, true
}

// TravelRegion returns the rectangle of valid iris centers inside eyeRect
func TravelRegion(eyeRect geom.Rect, irisWidth, irisHeight float64) geom.Rect {
	x0, x1, _ := TravelRange(eyeRect.X, eyeRect.Width, irisWidth)
	y0, y1, _ := TravelRange(eyeRect.Y, eyeRect.Height, irisHeight)
	return geom.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func finiteSize(v float64) float64 {
	if !(v >= 0) || v > 1e12 {
		return 0
	}
	return v
}
