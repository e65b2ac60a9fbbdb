package overlay

import (
	"math"

	"github.com/LdDl/googly-eyes/geom"
)

// Eye identifies one eye of a face from the viewer's point of view of the
// tracker output.
type Eye uint8

const (
	// LeftEye is the eye on the left side of the tracker image
	LeftEye Eye = iota
	// RightEye is the eye on the right side of the tracker image
	RightEye
	eyeCount
)

// Eyes lists every eye in a stable order
var Eyes = [...]Eye{LeftEye, RightEye}

func (e Eye) String() string {
	switch e {
	case LeftEye:
		return "left"
	case RightEye:
		return "right"
	default:
		return "unknown"
	}
}

// EyeLandmark is the position and extent of an eye in tracker coordinates
type EyeLandmark struct {
	Center geom.Point
	Width  float64
	Height float64
}

// Landmarks carries per-eye landmarks of one face. A nil eye is absent for this
// frame (occluded, closed or not found by the tracker).
type Landmarks struct {
	Left  *EyeLandmark
	Right *EyeLandmark
	// Face is the optional face bounding box in tracker coordinates. Only used for
	// debug drawing.
	Face *geom.Rect
}

// Eye returns landmark of the requested eye and whether it is present
func (lm Landmarks) Eye(e Eye) (EyeLandmark, bool) {
	var p *EyeLandmark
	switch e {
	case LeftEye:
		p = lm.Left
	case RightEye:
		p = lm.Right
	}
	if p == nil {
		return EyeLandmark{}, false
	}
	return *p, true
}

// valid reports whether landmark can be fed into the simulation: finite,
// positive size and no coordinate beyond limit.
func (l EyeLandmark) valid(limit float64) bool {
	if !l.Center.IsFinite() {
		return false
	}
	if math.Abs(l.Center.X) > limit || math.Abs(l.Center.Y) > limit {
		return false
	}
	if !(l.Width > 0) || !(l.Height > 0) || l.Width > limit || l.Height > limit {
		return false
	}
	return true
}

// withinLimit reports whether rect is finite and no coordinate or size exceeds limit
func withinLimit(r geom.Rect, limit float64) bool {
	if !r.IsFinite() {
		return false
	}
	return math.Abs(r.X) <= limit && math.Abs(r.Y) <= limit &&
		math.Abs(r.Width) <= limit && math.Abs(r.Height) <= limit
}
