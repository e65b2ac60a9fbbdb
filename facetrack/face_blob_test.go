package facetrack

import (
	"math"
	"testing"

	"github.com/LdDl/googly-eyes/geom"
	"github.com/google/uuid"
)

func face(x, y, w, h, conf float64) Detection {
	left := geom.Point{X: x + w*0.3, Y: y + h*0.4}
	right := geom.Point{X: x + w*0.7, Y: y + h*0.4}
	return Detection{
		Box:        geom.NewRect(x, y, w, h),
		LeftEye:    &left,
		RightEye:   &right,
		Confidence: conf,
	}
}

func TestNewFaceBlob(t *testing.T) {
	det := face(10, 20, 30, 40, 0.9)
	blob := NewFaceBlob(det)

	if blob.GetID() == uuid.Nil {
		t.Error("Face ID should not be nil")
	}
	if blob.GetBBox() != det.Box {
		t.Errorf("Expected bbox %v, got %v", det.Box, blob.GetBBox())
	}
	expectedCenter := geom.Point{X: 25, Y: 40}
	if blob.GetCenter() != expectedCenter {
		t.Errorf("Expected center %v, got %v", expectedCenter, blob.GetCenter())
	}
	if math.Abs(blob.GetDiagonal()-50) > 0.001 {
		t.Errorf("Expected diagonal 50, got %f", blob.GetDiagonal())
	}
	if blob.GetConfidence() != 0.9 {
		t.Errorf("Expected confidence 0.9, got %f", blob.GetConfidence())
	}
}

func TestFaceBlobLandmarks(t *testing.T) {
	det := face(0, 0, 100, 100, 0.9)
	blob := NewFaceBlob(det)

	lm := blob.Landmarks(0.22)
	if lm.Left == nil || lm.Right == nil {
		t.Fatal("Expected both eyes")
	}
	if lm.Face == nil || *lm.Face != det.Box {
		t.Errorf("Expected face box %v, got %v", det.Box, lm.Face)
	}
	if math.Abs(lm.Left.Width-22) > 1e-9 || math.Abs(lm.Left.Height-22) > 1e-9 {
		t.Errorf("Expected 22x22 eye, got %vx%v", lm.Left.Width, lm.Left.Height)
	}
	if lm.Left.Center != *det.LeftEye {
		t.Errorf("Expected left eye at %v, got %v", *det.LeftEye, lm.Left.Center)
	}
	if lm.Right.Center != *det.RightEye {
		t.Errorf("Expected right eye at %v, got %v", *det.RightEye, lm.Right.Center)
	}
}

func TestFaceBlobMissingEye(t *testing.T) {
	det := face(0, 0, 100, 100, 0.9)
	det.RightEye = nil
	nan := geom.Point{X: math.NaN(), Y: 10}
	det.LeftEye = &nan
	blob := NewFaceBlob(det)

	lm := blob.Landmarks(0.22)
	if lm.Left != nil {
		t.Error("Non-finite eye should be dropped")
	}
	if lm.Right != nil {
		t.Error("Missing eye should stay absent")
	}

	// Eye appears later
	next := face(1, 1, 100, 100, 0.9)
	if err := blob.Update(NewFaceBlob(next)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	lm = blob.Landmarks(0.22)
	if lm.Left == nil || lm.Right == nil {
		t.Fatal("Expected both eyes after update")
	}

	// And disappears again
	gone := face(2, 2, 100, 100, 0.9)
	gone.LeftEye = nil
	if err := blob.Update(NewFaceBlob(gone)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	lm = blob.Landmarks(0.22)
	if lm.Left != nil {
		t.Error("Eye missing from measurement should be absent")
	}
	if lm.Right == nil {
		t.Error("Right eye should still be present")
	}
}

func TestFaceBlobUpdate(t *testing.T) {
	blob := NewFaceBlob(face(100, 100, 50, 50, 0.6))
	blob.IncNoMatch()
	blob.IncNoMatch()

	for i := 1; i <= 5; i++ {
		blob.PredictNextPosition()
		next := NewFaceBlob(face(100+float64(i)*5, 100, 50, 50, 0.8))
		if err := blob.Update(next); err != nil {
			t.Fatalf("Update %d failed: %v", i, err)
		}
	}

	if blob.GetNoMatchTimes() != 0 {
		t.Errorf("Expected no match times reset, got %d", blob.GetNoMatchTimes())
	}
	if blob.GetConfidence() != 0.8 {
		t.Errorf("Expected confidence 0.8, got %f", blob.GetConfidence())
	}
	center := blob.GetCenter()
	// Smoothed center lags behind but moves toward measurements
	if center.X <= 125 || center.X > 155 {
		t.Errorf("Expected smoothed center x in (125, 155], got %f", center.X)
	}
	if math.Abs(center.Y-125) > 5 {
		t.Errorf("Expected smoothed center y near 125, got %f", center.Y)
	}
}

func TestDetectionValid(t *testing.T) {
	tests := []struct {
		name string
		det  Detection
		want bool
	}{
		{"regular", face(0, 0, 10, 10, 1), true},
		{"zero width", Detection{Box: geom.NewRect(0, 0, 0, 10)}, false},
		{"negative height", Detection{Box: geom.NewRect(0, 0, 10, -1)}, false},
		{"nan", Detection{Box: geom.NewRect(math.NaN(), 0, 10, 10)}, false},
		{"inf", Detection{Box: geom.NewRect(0, 0, math.Inf(1), 10)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.det.valid(); got != tt.want {
				t.Errorf("valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
