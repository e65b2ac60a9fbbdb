package overlay

import (
	"strings"

	"github.com/LdDl/googly-eyes/physics"
	"github.com/pkg/errors"
)

// OcclusionPolicy decides what happens to an eye whose landmark is missing
type OcclusionPolicy uint8

const (
	// OcclusionRetain hides the views and keeps the simulation state, so the iris
	// resumes where it was when the eye comes back.
	OcclusionRetain OcclusionPolicy = iota
	// OcclusionReset destroys the eye state; a returning eye starts centered and at rest.
	OcclusionReset
)

func (p OcclusionPolicy) String() string {
	switch p {
	case OcclusionRetain:
		return "retain"
	case OcclusionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// ParseOcclusionPolicy parses "retain" or "reset"
func ParseOcclusionPolicy(s string) (OcclusionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "retain":
		return OcclusionRetain, nil
	case "reset":
		return OcclusionReset, nil
	default:
		return 0, errors.Errorf("unknown occlusion policy %q", s)
	}
}

// Config holds coordinator parameters
type Config struct {
	Physics       physics.Config  // Iris simulation parameters for every eye
	IrisScale     float64         // Iris size relative to the eye at creation, (0, 1]
	Occlusion     OcclusionPolicy // What to do with eyes missing from a frame
	MaxCoordinate float64         // Landmark coordinates/sizes beyond this are treated as garbage
	Debug         bool            // Emit debug primitives with every scene
}

// DefaultConfig returns the recommended coordinator configuration
func DefaultConfig() Config {
	return Config{
		Physics:       physics.DefaultConfig(),
		IrisScale:     0.5,
		Occlusion:     OcclusionRetain,
		MaxCoordinate: 1e6,
	}
}

// Validate checks configuration consistency
func (cfg Config) Validate() error {
	if err := cfg.Physics.Validate(); err != nil {
		return errors.Wrap(err, "physics")
	}
	if !(cfg.IrisScale > 0) || cfg.IrisScale > 1 {
		return errors.Errorf("iris scale must be in (0, 1], got %v", cfg.IrisScale)
	}
	if cfg.Occlusion != OcclusionRetain && cfg.Occlusion != OcclusionReset {
		return errors.Errorf("unknown occlusion policy %d", cfg.Occlusion)
	}
	if !(cfg.MaxCoordinate > 0) {
		return errors.Errorf("max coordinate must be positive, got %v", cfg.MaxCoordinate)
	}
	return nil
}
