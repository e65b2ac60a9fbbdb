package vision

import (
	"testing"

	"github.com/LdDl/googly-eyes/geom"
	"github.com/LdDl/googly-eyes/overlay"
	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

func TestParseYuNet(t *testing.T) {
	rows := [][]float32{
		// Eyes reported in reverse image order
		{100, 50, 80, 90, 140, 80, 120, 82, 130, 100, 118, 120, 142, 121, 0.92},
		{300, 60, 40, 50, 310, 75, 330, 74, 320, 85, 312, 95, 328, 95, 0.41},
		// Truncated row
		{1, 2, 3},
	}
	dets := parseYuNet(rows)
	if len(dets) != 2 {
		t.Fatalf("Expected 2 detections, got %d", len(dets))
	}

	first := dets[0]
	if first.Box.X != 100 || first.Box.Y != 50 || first.Box.Width != 80 || first.Box.Height != 90 {
		t.Errorf("Unexpected box %v", first.Box)
	}
	if first.LeftEye == nil || first.RightEye == nil {
		t.Fatal("Expected both eyes")
	}
	if first.LeftEye.X != 120 || first.RightEye.X != 140 {
		t.Errorf("Expected eyes ordered by x, got left %v right %v", *first.LeftEye, *first.RightEye)
	}
	if diff := first.Confidence - 0.92; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("Expected confidence 0.92, got %f", first.Confidence)
	}

	second := dets[1]
	if second.LeftEye.X != 310 || second.RightEye.X != 330 {
		t.Errorf("Expected eyes kept in order, got left %v right %v", *second.LeftEye, *second.RightEye)
	}
}

func TestNewYuNetInvalidPath(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.ModelPath = "/nonexistent/path/model.onnx"
	if _, err := NewYuNet(cfg); err == nil {
		t.Error("Expected error for invalid model path")
	}
}

func TestMatSinkRender(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC3)
	defer frame.Close()

	sink := NewMatSink()
	eyeID, irisID := uuid.New(), uuid.New()
	sink.CreateView(eyeID, overlay.StyleEye, geom.NewRect(20, 20, 60, 60))
	sink.CreateView(irisID, overlay.StyleIris, geom.NewRect(40, 60, 20, 20))
	sink.Render(&frame)

	if px := frame.GetVecbAt(50, 50); px[0] != 255 || px[1] != 255 || px[2] != 255 {
		t.Errorf("Expected white eye at (50, 50), got %v", px)
	}
	if px := frame.GetVecbAt(70, 50); px[0] != 0 || px[1] != 0 || px[2] != 0 {
		t.Errorf("Expected black iris at (50, 70), got %v", px)
	}

	sink.SetHidden(eyeID, true)
	sink.SetHidden(irisID, true)
	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC3)
	defer blank.Close()
	sink.Render(&blank)
	if px := blank.GetVecbAt(50, 50); px[0] != 0 {
		t.Errorf("Hidden eye should not be drawn, got %v", px)
	}
}
