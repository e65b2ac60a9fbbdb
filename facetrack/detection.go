package facetrack

import (
	"github.com/LdDl/googly-eyes/geom"
)

// Detection is a single face found on a frame, in camera pixel coordinates.
// LeftEye and RightEye are named as they appear on the image; nil when the
// detector did not report the eye.
type Detection struct {
	Box        geom.Rect
	LeftEye    *geom.Point
	RightEye   *geom.Point
	Confidence float64
}

// valid reports whether detection box is usable for association
func (d Detection) valid() bool {
	return d.Box.IsFinite() && !d.Box.Empty()
}

// sanitizedEye drops eye points which are not finite
func sanitizedEye(p *geom.Point) *geom.Point {
	if p == nil || !p.IsFinite() {
		return nil
	}
	cp := *p
	return &cp
}
