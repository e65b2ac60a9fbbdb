package overlay

import (
	"github.com/LdDl/googly-eyes/geom"
	"github.com/LdDl/googly-eyes/physics"
	"github.com/google/uuid"
)

// eyeTrackState is the simulation state of one eye of a tracked face. The
// simulator is owned exclusively by this state.
type eyeTrackState struct {
	eye      Eye
	sim      *physics.Simulator
	eyeRect  geom.Rect
	irisRect geom.Rect
	visible  bool
	eyeView  ViewID
	irisView ViewID
}

func newEyeTrackState(eye Eye, eyeRect geom.Rect, cfg Config) *eyeTrackState {
	sim, err := physics.NewSimulator(cfg.Physics)
	if err != nil {
		// Config is validated by NewCoordinator
		sim = physics.NewSimulatorDefault()
	}
	irisW := eyeRect.Width * cfg.IrisScale
	irisH := eyeRect.Height * cfg.IrisScale
	return &eyeTrackState{
		eye:      eye,
		sim:      sim,
		eyeRect:  eyeRect,
		irisRect: geom.NewRectCentered(eyeRect.Center(), irisW, irisH),
		visible:  true,
		eyeView:  uuid.New(),
		irisView: uuid.New(),
	}
}

// step moves the eye to eyeRect and advances the iris simulation
func (s *eyeTrackState) step(eyeRect geom.Rect) {
	s.eyeRect = eyeRect
	s.irisRect = s.sim.NextIrisRect(eyeRect, s.irisRect)
	s.visible = true
}

func (s *eyeTrackState) snapshot() EyeSnapshot {
	return EyeSnapshot{
		Eye:      s.eye,
		EyeRect:  s.eyeRect,
		IrisRect: s.irisRect,
		Velocity: s.sim.Velocity(),
		Visible:  s.visible,
		EyeView:  s.eyeView,
		IrisView: s.irisView,
	}
}

// EyeSnapshot is a read-only copy of an eye's state
type EyeSnapshot struct {
	Eye      Eye
	EyeRect  geom.Rect
	IrisRect geom.Rect
	Velocity geom.Velocity
	Visible  bool
	EyeView  ViewID
	IrisView ViewID
}

// faceTrack groups eye states of one face
type faceTrack struct {
	id   uuid.UUID
	eyes [eyeCount]*eyeTrackState
	// last face box in overlay coordinates, debug only
	bounds *geom.Rect
}
