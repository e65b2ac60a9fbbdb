package physics

import (
	"math"

	"github.com/pkg/errors"
)

// Config holds tunable parameters of the iris simulation.
// All quantities are expressed per simulation step (one call to NextIrisRect)
// in parent view units.
type Config struct {
	Gravity           float64 // Added to vertical velocity every step (positive pulls down)
	Friction          float64 // Fraction of velocity kept every step, (0, 1]
	Restitution       float64 // Fraction of velocity kept and reflected on a bounce, [0, 1)
	MaxBounceVelocity float64 // Reflected components above this are reset to zero
	RestThreshold     float64 // Velocity magnitude below this snaps to zero
}

// DefaultConfig returns parameters tuned for a 30 fps camera feed
func DefaultConfig() Config {
	return Config{
		Gravity:           0.5,
		Friction:          0.94,
		Restitution:       0.7,
		MaxBounceVelocity: 48.0,
		RestThreshold:     0.01,
	}
}

// ZeroGravityConfig returns DefaultConfig with gravity disabled: the iris only
// moves when it is pushed by the eye boundary or given an explicit velocity.
func ZeroGravityConfig() Config {
	cfg := DefaultConfig()
	cfg.Gravity = 0
	return cfg
}

// BouncyConfig returns a livelier configuration with less energy loss
func BouncyConfig() Config {
	cfg := DefaultConfig()
	cfg.Friction = 0.97
	cfg.Restitution = 0.85
	return cfg
}

// Validate checks that every parameter is finite and in range
func (cfg Config) Validate() error {
	for name, v := range map[string]float64{
		"gravity":             cfg.Gravity,
		"friction":            cfg.Friction,
		"restitution":         cfg.Restitution,
		"max bounce velocity": cfg.MaxBounceVelocity,
		"rest threshold":      cfg.RestThreshold,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("%s must be finite, got %v", name, v)
		}
	}
	if cfg.Friction <= 0 || cfg.Friction > 1 {
		return errors.Errorf("friction must be in (0, 1], got %v", cfg.Friction)
	}
	if cfg.Restitution < 0 || cfg.Restitution >= 1 {
		return errors.Errorf("restitution must be in [0, 1), got %v", cfg.Restitution)
	}
	if cfg.MaxBounceVelocity <= 0 {
		return errors.Errorf("max bounce velocity must be positive, got %v", cfg.MaxBounceVelocity)
	}
	if cfg.RestThreshold < 0 {
		return errors.Errorf("rest threshold must not be negative, got %v", cfg.RestThreshold)
	}
	return nil
}
