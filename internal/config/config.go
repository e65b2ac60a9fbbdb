// Package config provides environment-driven configuration for googly-eyes commands.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/LdDl/googly-eyes/facetrack"
	"github.com/LdDl/googly-eyes/overlay"
	"github.com/pkg/errors"
)

// Defaults used when the corresponding variable is not set.
const (
	DefaultDevice   = "0"
	DefaultModel    = "models/face_detection_yunet.onnx"
	DefaultLogLevel = "info"
)

// Config is the application configuration.
type Config struct {
	// Camera is the starting camera mode (GOOGLY_CAMERA=front|rear)
	Camera facetrack.Mode
	// Device is a capture device index or a video file path (GOOGLY_DEVICE)
	Device string
	// Model is the YuNet ONNX model path (GOOGLY_MODEL)
	Model string
	// Tracker overrides the algorithm chosen for the camera mode (GOOGLY_TRACKER)
	Tracker *facetrack.Algorithm
	// Occlusion is the policy for eyes missing from a frame (GOOGLY_OCCLUSION=retain|reset)
	Occlusion overlay.OcclusionPolicy
	// Debug enables debug shapes (GOOGLY_DEBUG)
	Debug bool
	// LogLevel is passed to log.Init (LOG_LEVEL)
	LogLevel string
}

// Load reads configuration from environment.
func Load() (Config, error) {
	cfg := Config{
		Camera:    facetrack.ModeFront,
		Device:    env("GOOGLY_DEVICE", DefaultDevice),
		Model:     env("GOOGLY_MODEL", DefaultModel),
		Occlusion: overlay.OcclusionRetain,
		LogLevel:  env("LOG_LEVEL", DefaultLogLevel),
	}

	var err error
	if v, ok := lookup("GOOGLY_CAMERA"); ok {
		if cfg.Camera, err = facetrack.ParseMode(v); err != nil {
			return cfg, errors.Wrap(err, "GOOGLY_CAMERA")
		}
	}
	if v, ok := lookup("GOOGLY_TRACKER"); ok {
		algorithm, err := facetrack.ParseAlgorithm(v)
		if err != nil {
			return cfg, errors.Wrap(err, "GOOGLY_TRACKER")
		}
		cfg.Tracker = &algorithm
	}
	if v, ok := lookup("GOOGLY_OCCLUSION"); ok {
		if cfg.Occlusion, err = overlay.ParseOcclusionPolicy(v); err != nil {
			return cfg, errors.Wrap(err, "GOOGLY_OCCLUSION")
		}
	}
	if v, ok := lookup("GOOGLY_DEBUG"); ok {
		if cfg.Debug, err = strconv.ParseBool(v); err != nil {
			return cfg, errors.Wrapf(err, "GOOGLY_DEBUG: invalid boolean %q", v)
		}
	}
	return cfg, nil
}

// TrackerConfig returns tracker settings for camera mode with the optional algorithm override applied.
func (cfg Config) TrackerConfig(mode facetrack.Mode) facetrack.Config {
	tc := facetrack.ConfigForMode(mode)
	if cfg.Tracker != nil {
		tc.Algorithm = *cfg.Tracker
	}
	return tc
}

// OverlayConfig returns coordinator settings.
func (cfg Config) OverlayConfig() overlay.Config {
	oc := overlay.DefaultConfig()
	oc.Occlusion = cfg.Occlusion
	oc.Debug = cfg.Debug
	return oc
}

func env(key, defaultValue string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return defaultValue
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}
