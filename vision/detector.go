// Package vision connects googly eyes to a camera with OpenCV: frame capture,
// YuNet face detection and drawing the overlay onto frames.
package vision

import (
	"image"
	"os"
	"sync"

	"github.com/LdDl/googly-eyes/facetrack"
	"github.com/LdDl/googly-eyes/geom"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DetectorConfig holds detector configuration
type DetectorConfig struct {
	ModelPath        string  // Path to ONNX model
	ConfidenceThresh float64 // Minimum confidence (default 0.3, weak faces are left to the tracker)
	NMSThresh        float64
	InputWidth       int // Model input width
	InputHeight      int // Model input height
}

// DefaultDetectorConfig returns defaults for YuNet
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		ModelPath:        "models/face_detection_yunet.onnx",
		ConfidenceThresh: 0.3,
		NMSThresh:        0.3,
		InputWidth:       320,
		InputHeight:      320,
	}
}

// YuNet finds faces and their eyes with OpenCV's FaceDetectorYN
type YuNet struct {
	detector gocv.FaceDetectorYN
	mu       sync.Mutex // Protects inference
}

// NewYuNet creates a new YuNet face detector
func NewYuNet(cfg DetectorConfig) (*YuNet, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "model file not found: %s", cfg.ModelPath)
	}
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"", // No config file needed for ONNX
		image.Pt(cfg.InputWidth, cfg.InputHeight),
		float32(cfg.ConfidenceThresh),
		float32(cfg.NMSThresh),
		5000, // Top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)
	return &YuNet{detector: detector}, nil
}

// Detect finds faces on frame. Coordinates are frame pixels.
func (d *YuNet) Detect(frame gocv.Mat) ([]facetrack.Detection, error) {
	if frame.Empty() {
		return nil, errors.New("empty frame")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Input size follows the frame
	d.detector.SetInputSize(image.Pt(frame.Cols(), frame.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()
	d.detector.Detect(frame, &faces)

	rows := make([][]float32, faces.Rows())
	for r := range rows {
		row := make([]float32, yunetColumns)
		for c := range row {
			row[c] = faces.GetFloatAt(r, c)
		}
		rows[r] = row
	}
	return parseYuNet(rows), nil
}

// Close releases the detector resources
func (d *YuNet) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}

// YuNet output row:
// 0-3: x, y, w, h (bounding box in pixels)
// 4-13: 5 facial landmarks (x,y pairs), first two are the eyes
// 14: face score
const yunetColumns = 15

// parseYuNet converts YuNet rows to detections. Eyes are named by their
// position on the image, the leftmost one is LeftEye.
func parseYuNet(rows [][]float32) []facetrack.Detection {
	detections := make([]facetrack.Detection, 0, len(rows))
	for _, row := range rows {
		if len(row) < yunetColumns {
			continue
		}
		first := geom.NewPoint(float64(row[4]), float64(row[5]))
		second := geom.NewPoint(float64(row[6]), float64(row[7]))
		if second.X < first.X {
			first, second = second, first
		}
		detections = append(detections, facetrack.Detection{
			Box:        geom.NewRect(float64(row[0]), float64(row[1]), float64(row[2]), float64(row[3])),
			LeftEye:    &first,
			RightEye:   &second,
			Confidence: float64(row[14]),
		})
	}
	return detections
}
