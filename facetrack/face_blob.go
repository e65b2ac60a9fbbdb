package facetrack

import (
	"math"

	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/LdDl/googly-eyes/geom"
	"github.com/LdDl/googly-eyes/overlay"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// eyeFilter smooths one eye landmark with a 2D Kalman filter
type eyeFilter struct {
	kf       *kalman_filter.Kalman2D
	position geom.Point
	present  bool
}

func newEyeFilter(p geom.Point, dt float64) *eyeFilter {
	/* Kalman filter props */
	ux := 1.0
	uy := 1.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	return &eyeFilter{
		kf:       kalman_filter.NewKalman2D(dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(p.X, p.Y)),
		position: p,
		present:  true,
	}
}

func (f *eyeFilter) update(p geom.Point) error {
	f.kf.Predict()
	if err := f.kf.Update(p.X, p.Y); err != nil {
		return errors.Wrap(err, "Can't update eye filter")
	}
	x, y := f.kf.GetState()
	f.position = geom.Point{X: x, Y: y}
	f.present = true
	return nil
}

// FaceBlob is a tracked face. The bounding box is smoothed with an 8-D Kalman
// filter (center, size and their velocities), each eye with a 2-D one.
type FaceBlob struct {
	id            uuid.UUID
	currentBBox   geom.Rect
	predictedBBox geom.Rect
	confidence    float64
	leftEye       *eyeFilter
	rightEye      *eyeFilter
	noMatchTimes  int
	diagonal      float64
	dt            float64
	tracker       *kalman_filter.KalmanBBox
}

// NewFaceBlobWithTime creates a new FaceBlob with specified time step.
func NewFaceBlobWithTime(det Detection, dt float64) *FaceBlob {
	box := det.Box
	center := box.Center()

	// Kalman filter props
	uCx := 1.0
	uCy := 1.0
	uW := 0.0
	uH := 0.0
	stdDevA := 2.0
	stdDevMCx := 0.1
	stdDevMCy := 0.1
	stdDevMW := 0.1
	stdDevMH := 0.1
	kf := kalman_filter.NewKalmanBBox(
		dt, uCx, uCy, uW, uH,
		stdDevA, stdDevMCx, stdDevMCy, stdDevMW, stdDevMH,
		kalman_filter.WithStateBBox(center.X, center.Y, box.Width, box.Height),
	)

	blob := FaceBlob{
		id:            uuid.New(),
		currentBBox:   box,
		predictedBBox: box,
		confidence:    det.Confidence,
		noMatchTimes:  0,
		diagonal:      box.Diagonal(),
		dt:            dt,
		tracker:       kf,
	}
	if p := sanitizedEye(det.LeftEye); p != nil {
		blob.leftEye = newEyeFilter(*p, dt)
	}
	if p := sanitizedEye(det.RightEye); p != nil {
		blob.rightEye = newEyeFilter(*p, dt)
	}
	return &blob
}

// NewFaceBlob creates a new FaceBlob with default time step of 1.0 (one frame).
func NewFaceBlob(det Detection) *FaceBlob {
	return NewFaceBlobWithTime(det, 1.0)
}

// GetID returns face identifier
func (blob *FaceBlob) GetID() uuid.UUID {
	return blob.id
}

// GetCenter returns face's current center
func (blob *FaceBlob) GetCenter() geom.Point {
	return blob.currentBBox.Center()
}

// GetBBox returns face's current (smoothed) bounding box
func (blob *FaceBlob) GetBBox() geom.Rect {
	return blob.currentBBox
}

// GetPredictedBBox returns predicted bounding box from Kalman filter
func (blob *FaceBlob) GetPredictedBBox() geom.Rect {
	return blob.predictedBBox
}

// GetDiagonal returns face's box diagonal
func (blob *FaceBlob) GetDiagonal() float64 {
	return blob.diagonal
}

// GetConfidence returns detector confidence of the last matched detection
func (blob *FaceBlob) GetConfidence() float64 {
	return blob.confidence
}

// GetNoMatchTimes returns number of consecutive frames without a matching detection
func (blob *FaceBlob) GetNoMatchTimes() int {
	return blob.noMatchTimes
}

// IncNoMatch increases face's no match times
func (blob *FaceBlob) IncNoMatch() {
	blob.noMatchTimes++
}

// DistanceTo returns distance to other face (center to center)
func (blob *FaceBlob) DistanceTo(otherBlob *FaceBlob) float64 {
	return geom.EuclideanDistance(blob.GetCenter(), otherBlob.GetCenter())
}

// DistanceToPredicted returns distance from this face's center to the predicted center of other face
func (blob *FaceBlob) DistanceToPredicted(otherBlob *FaceBlob) float64 {
	return geom.EuclideanDistance(blob.GetCenter(), otherBlob.predictedBBox.Center())
}

// PredictNextPosition executes Kalman filter prediction step
func (blob *FaceBlob) PredictNextPosition() {
	blob.tracker.Predict()
	cx, cy, w, h := blob.tracker.GetState()
	blob.predictedBBox = geom.NewRectCentered(geom.Point{X: cx, Y: cy}, w, h)
}

// Update corrects face's state with a new measurement
func (blob *FaceBlob) Update(newBlob *FaceBlob) error {
	newBBox := newBlob.currentBBox
	newCenter := newBBox.Center()

	err := blob.tracker.Update(newCenter.X, newCenter.Y, newBBox.Width, newBBox.Height)
	if err != nil {
		return errors.Wrap(err, "Can't update face tracker")
	}

	cx, cy, w, h := blob.tracker.GetState()
	blob.currentBBox = geom.NewRectCentered(geom.Point{X: cx, Y: cy}, w, h)
	blob.diagonal = math.Hypot(w, h)
	blob.confidence = newBlob.confidence

	blob.leftEye, err = mergeEye(blob.leftEye, newBlob.leftEye, blob.dt)
	if err != nil {
		return errors.Wrap(err, "left eye")
	}
	blob.rightEye, err = mergeEye(blob.rightEye, newBlob.rightEye, blob.dt)
	if err != nil {
		return errors.Wrap(err, "right eye")
	}

	blob.noMatchTimes = 0
	return nil
}

// mergeEye feeds a measured eye into the existing filter. An eye missing from
// the measurement is marked absent but keeps its filter.
func mergeEye(current, measured *eyeFilter, dt float64) (*eyeFilter, error) {
	if measured == nil {
		if current != nil {
			current.present = false
		}
		return current, nil
	}
	if current == nil {
		return newEyeFilter(measured.position, dt), nil
	}
	if err := current.update(measured.position); err != nil {
		return current, err
	}
	return current, nil
}

// Landmarks returns eye landmarks for the overlay. Eyes are square with a side
// of eyeSizeRatio times the face width.
func (blob *FaceBlob) Landmarks(eyeSizeRatio float64) overlay.Landmarks {
	size := blob.currentBBox.Width * eyeSizeRatio
	face := blob.currentBBox
	lm := overlay.Landmarks{Face: &face}
	if blob.leftEye != nil && blob.leftEye.present {
		lm.Left = &overlay.EyeLandmark{Center: blob.leftEye.position, Width: size, Height: size}
	}
	if blob.rightEye != nil && blob.rightEye.present {
		lm.Right = &overlay.EyeLandmark{Center: blob.rightEye.position, Width: size, Height: size}
	}
	return lm
}
