package config

import (
	"testing"

	"github.com/LdDl/googly-eyes/facetrack"
	"github.com/LdDl/googly-eyes/overlay"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"GOOGLY_CAMERA", "GOOGLY_DEVICE", "GOOGLY_MODEL", "GOOGLY_TRACKER", "GOOGLY_OCCLUSION", "GOOGLY_DEBUG", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Camera != facetrack.ModeFront {
		t.Errorf("Expected front camera, got %s", cfg.Camera)
	}
	if cfg.Device != DefaultDevice || cfg.Model != DefaultModel || cfg.LogLevel != DefaultLogLevel {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.Tracker != nil {
		t.Errorf("Expected no tracker override, got %v", *cfg.Tracker)
	}
	if cfg.Occlusion != overlay.OcclusionRetain || cfg.Debug {
		t.Errorf("Unexpected overlay defaults: %+v", cfg)
	}
	if tc := cfg.TrackerConfig(facetrack.ModeRear); tc.Algorithm != facetrack.AlgorithmByteTrack {
		t.Errorf("Expected ByteTrack for rear camera, got %s", tc.Algorithm)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLY_CAMERA", "rear")
	t.Setenv("GOOGLY_DEVICE", "clip.mp4")
	t.Setenv("GOOGLY_TRACKER", "iou")
	t.Setenv("GOOGLY_OCCLUSION", "reset")
	t.Setenv("GOOGLY_DEBUG", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Camera != facetrack.ModeRear {
		t.Errorf("Expected rear camera, got %s", cfg.Camera)
	}
	if cfg.Device != "clip.mp4" {
		t.Errorf("Expected device clip.mp4, got %s", cfg.Device)
	}
	if tc := cfg.TrackerConfig(facetrack.ModeFront); tc.Algorithm != facetrack.AlgorithmIoU || tc.MaxFaces != 1 {
		t.Errorf("Expected IoU override on front settings, got %+v", tc)
	}
	oc := cfg.OverlayConfig()
	if oc.Occlusion != overlay.OcclusionReset || !oc.Debug {
		t.Errorf("Unexpected overlay config: %+v", oc)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug log level, got %s", cfg.LogLevel)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"GOOGLY_CAMERA":    "side",
		"GOOGLY_TRACKER":   "sort",
		"GOOGLY_OCCLUSION": "forget",
		"GOOGLY_DEBUG":     "maybe",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", key, value)
			}
		})
	}
}
