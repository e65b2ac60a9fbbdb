package facetrack

import (
	"strings"

	"github.com/pkg/errors"
)

// Algorithm selects how detections are associated with tracked faces
type Algorithm uint16

const (
	// AlgorithmDistance matches by center distance (naive, fast)
	AlgorithmDistance Algorithm = iota
	// AlgorithmIoU matches by IoU with distance fallback
	AlgorithmIoU
	// AlgorithmByteTrack matches high then low confidence detections by IoU
	AlgorithmByteTrack
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmDistance:
		return "distance"
	case AlgorithmIoU:
		return "iou"
	case AlgorithmByteTrack:
		return "bytetrack"
	default:
		return "unknown"
	}
}

// ParseAlgorithm parses "distance", "iou" or "bytetrack"
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "distance", "simple":
		return AlgorithmDistance, nil
	case "iou":
		return AlgorithmIoU, nil
	case "bytetrack", "byte":
		return AlgorithmByteTrack, nil
	default:
		return 0, errors.Errorf("unknown tracker algorithm %q", s)
	}
}

// Mode is the camera mode the tracker is tuned for
type Mode uint8

const (
	// ModeFront tracks a single large face close to the camera ("selfie")
	ModeFront Mode = iota
	// ModeRear tracks any number of smaller faces
	ModeRear
)

func (m Mode) String() string {
	switch m {
	case ModeFront:
		return "front"
	case ModeRear:
		return "rear"
	default:
		return "unknown"
	}
}

// ParseMode parses "front" or "rear"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "front":
		return ModeFront, nil
	case "rear", "back":
		return ModeRear, nil
	default:
		return 0, errors.Errorf("unknown camera mode %q", s)
	}
}

// Config holds face association parameters
type Config struct {
	Algorithm Algorithm

	MaxFaces   int     // Maximum number of simultaneously tracked faces, 0 = unlimited
	MaxNoMatch int     // Frames a face may go unmatched before it is lost
	DT         float64 // Kalman time step

	// Distance
	MinDistThreshold float64 // Pixels

	// IoU
	IoUThreshold float64 // Minimum combined IoU/distance score; 0.2 keeps distance-only matches within ~150 px

	// ByteTrack
	MinIoU     float64
	HighThresh float64
	LowThresh  float64
	Matching   MatchingAlgorithm

	EyeSizeRatio float64 // Eye side relative to face width
}

// DefaultConfig returns settings for the rear camera: many faces, ByteTrack
func DefaultConfig() Config {
	return Config{
		Algorithm:        AlgorithmByteTrack,
		MaxFaces:         0,
		MaxNoMatch:       5,
		DT:               1.0,
		MinDistThreshold: 30.0,
		IoUThreshold:     0.2,
		MinIoU:           0.3,
		HighThresh:       0.5,
		LowThresh:        0.3,
		Matching:         MatchingAlgorithmHungarian,
		EyeSizeRatio:     0.22,
	}
}

// FrontConfig returns settings for the front camera: one face, distance matching
func FrontConfig() Config {
	cfg := DefaultConfig()
	cfg.Algorithm = AlgorithmDistance
	cfg.MaxFaces = 1
	cfg.MaxNoMatch = 3
	cfg.MinDistThreshold = 60.0
	return cfg
}

// ConfigForMode returns tuned settings for camera mode
func ConfigForMode(mode Mode) Config {
	if mode == ModeFront {
		return FrontConfig()
	}
	return DefaultConfig()
}

// Validate checks configuration consistency
func (cfg Config) Validate() error {
	if cfg.MaxFaces < 0 {
		return errors.Errorf("max faces must not be negative, got %d", cfg.MaxFaces)
	}
	if cfg.MaxNoMatch < 0 {
		return errors.Errorf("max no match must not be negative, got %d", cfg.MaxNoMatch)
	}
	if !(cfg.DT > 0) {
		return errors.Errorf("time step must be positive, got %v", cfg.DT)
	}
	if !(cfg.EyeSizeRatio > 0) || cfg.EyeSizeRatio > 1 {
		return errors.Errorf("eye size ratio must be in (0, 1], got %v", cfg.EyeSizeRatio)
	}
	if cfg.Algorithm == AlgorithmByteTrack && cfg.LowThresh > cfg.HighThresh {
		return errors.Errorf("low threshold %v is above high threshold %v", cfg.LowThresh, cfg.HighThresh)
	}
	return nil
}
