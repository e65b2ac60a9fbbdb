// Package overlay turns face tracker notifications into googly eye views.
//
// The Coordinator keeps one iris simulation per tracked eye, maps tracker
// coordinates into overlay coordinates and publishes complete scene snapshots to
// a Publisher. Notifications must be delivered one at a time (Handle, the On*
// methods, or Run); Close may be called from any goroutine.
package overlay

import (
	"context"
	"log/slog"
	"sync"

	"github.com/LdDl/googly-eyes/geom"
	"github.com/LdDl/googly-eyes/internal/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TransformSource supplies the tracker to overlay mapping. It is queried before
// every update.
type TransformSource interface {
	Transform() geom.Transform
}

// TransformFunc adapts a function to TransformSource
type TransformFunc func() geom.Transform

// Transform calls f
func (f TransformFunc) Transform() geom.Transform {
	return f()
}

// Publisher receives scene snapshots. Presenter is the standard implementation.
type Publisher interface {
	Publish(scene Scene)
	Invalidate()
}

// Coordinator is the bridge between tracker notifications and views
type Coordinator struct {
	mu        sync.Mutex
	cfg       Config
	transform TransformSource
	publisher Publisher
	faces     map[uuid.UUID]*faceTrack
	seq       uint64
	closed    bool
	logger    *slog.Logger
}

// Option customizes a Coordinator
type Option func(*Coordinator)

// WithLogger sets logger used for lifecycle and dropped frame messages
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator creates a coordinator with no tracked faces
func NewCoordinator(cfg Config, transform TransformSource, publisher Publisher, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid overlay config")
	}
	if transform == nil {
		return nil, errors.New("transform source is required")
	}
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	c := &Coordinator{
		cfg:       cfg,
		transform: transform,
		publisher: publisher,
		faces:     make(map[uuid.UUID]*faceTrack),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.With("component", "overlay")
	}
	return c, nil
}

// Handle dispatches a tracker event
func (c *Coordinator) Handle(ev Event) {
	switch ev.Kind {
	case FaceDetected:
		c.OnFaceDetected(ev.FaceID, ev.Landmarks)
	case FaceUpdated:
		c.OnFaceUpdated(ev.FaceID, ev.Landmarks)
	case FaceLost:
		c.OnFaceLost(ev.FaceID)
	default:
		c.logger.Warn("unknown tracker event", "kind", ev.Kind, "face", ev.FaceID)
	}
}

// Run consumes events until the channel is closed or ctx is done
func (c *Coordinator) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.Handle(ev)
		}
	}
}

// OnFaceDetected starts tracking a face. Eyes present in landmarks get an iris
// centered in the eye and at rest. A face which is already tracked is updated
// instead.
func (c *Coordinator) OnFaceDetected(faceID uuid.UUID, lm Landmarks) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if face, ok := c.faces[faceID]; ok {
		c.updateFace(face, lm)
		c.publish()
		return
	}
	c.faces[faceID] = c.createFace(faceID, lm)
	c.logger.Debug("face detected", "face", faceID, "faces", len(c.faces))
	c.publish()
}

// OnFaceUpdated advances the iris simulation of every eye present in landmarks.
// An unknown face is treated as a new detection.
func (c *Coordinator) OnFaceUpdated(faceID uuid.UUID, lm Landmarks) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	face, ok := c.faces[faceID]
	if !ok {
		c.faces[faceID] = c.createFace(faceID, lm)
		c.logger.Debug("face detected on update", "face", faceID, "faces", len(c.faces))
	} else {
		c.updateFace(face, lm)
	}
	c.publish()
}

// OnFaceLost destroys all state and views of the face
func (c *Coordinator) OnFaceLost(faceID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if _, ok := c.faces[faceID]; !ok {
		return
	}
	delete(c.faces, faceID)
	c.logger.Debug("face lost", "face", faceID, "faces", len(c.faces))
	c.publish()
}

// Close drops every tracked face and invalidates the publisher so pending view
// updates are discarded. Later notifications are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.faces = make(map[uuid.UUID]*faceTrack)
	c.publisher.Invalidate()
	c.logger.Debug("coordinator closed")
}

// Faces returns number of tracked faces
func (c *Coordinator) Faces() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.faces)
}

// EyeState returns a snapshot of an eye of a tracked face
func (c *Coordinator) EyeState(faceID uuid.UUID, eye Eye) (EyeSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	face, ok := c.faces[faceID]
	if !ok || eye >= eyeCount || face.eyes[eye] == nil {
		return EyeSnapshot{}, false
	}
	return face.eyes[eye].snapshot(), true
}

func (c *Coordinator) createFace(faceID uuid.UUID, lm Landmarks) *faceTrack {
	face := &faceTrack{id: faceID}
	tr, ok := c.currentTransform()
	if !ok {
		return face
	}
	face.bounds = c.faceBounds(lm, tr)
	for _, e := range Eyes {
		rect, ok := c.eyeRect(faceID, e, lm, tr)
		if !ok {
			continue
		}
		face.eyes[e] = newEyeTrackState(e, rect, c.cfg)
	}
	return face
}

func (c *Coordinator) updateFace(face *faceTrack, lm Landmarks) {
	tr, ok := c.currentTransform()
	if !ok {
		return
	}
	face.bounds = c.faceBounds(lm, tr)
	for _, e := range Eyes {
		state := face.eyes[e]
		if _, present := lm.Eye(e); !present {
			if state == nil {
				continue
			}
			switch c.cfg.Occlusion {
			case OcclusionReset:
				face.eyes[e] = nil
			default:
				state.visible = false
			}
			continue
		}
		rect, ok := c.eyeRect(face.id, e, lm, tr)
		if !ok {
			continue
		}
		if state == nil {
			face.eyes[e] = newEyeTrackState(e, rect, c.cfg)
			continue
		}
		state.step(rect)
	}
}

func (c *Coordinator) currentTransform() (geom.Transform, bool) {
	tr := c.transform.Transform()
	if !tr.Valid() {
		c.logger.Warn("invalid coordinate transform, frame dropped", "x_scale", tr.XScale, "y_scale", tr.YScale)
		return geom.Transform{}, false
	}
	return tr, true
}

// eyeRect maps an eye landmark to overlay coordinates. Malformed landmarks are
// rejected so they never reach the simulation.
func (c *Coordinator) eyeRect(faceID uuid.UUID, e Eye, lm Landmarks, tr geom.Transform) (geom.Rect, bool) {
	landmark, present := lm.Eye(e)
	if !present {
		return geom.Rect{}, false
	}
	if !landmark.valid(c.cfg.MaxCoordinate) {
		c.logger.Debug("malformed eye landmark dropped", "face", faceID, "eye", e)
		return geom.Rect{}, false
	}
	center := tr.ApplyPoint(landmark.Center)
	w, h := tr.ApplySize(landmark.Width, landmark.Height)
	rect := geom.NewRectCentered(center, w, h)
	if !rect.IsFinite() || rect.Empty() {
		c.logger.Debug("degenerate eye rect dropped", "face", faceID, "eye", e)
		return geom.Rect{}, false
	}
	return rect, true
}

// faceBounds maps the face box for debug drawing. Boxes beyond MaxCoordinate are
// dropped like malformed eye landmarks.
func (c *Coordinator) faceBounds(lm Landmarks, tr geom.Transform) *geom.Rect {
	if lm.Face == nil || !withinLimit(*lm.Face, c.cfg.MaxCoordinate) {
		return nil
	}
	rect := tr.ApplyRect(*lm.Face)
	return &rect
}

// publish builds a scene of every tracked face. Caller holds c.mu.
func (c *Coordinator) publish() {
	c.seq++
	scene := Scene{
		Seq:   c.seq,
		Views: make(map[ViewID]ViewState, len(c.faces)*int(eyeCount)*2),
	}
	for _, face := range c.faces {
		for _, state := range face.eyes {
			if state == nil {
				continue
			}
			scene.Views[state.eyeView] = ViewState{Style: StyleEye, Frame: state.eyeRect, Hidden: !state.visible}
			scene.Views[state.irisView] = ViewState{Style: StyleIris, Frame: state.irisRect, Hidden: !state.visible}
			if c.cfg.Debug && state.visible {
				scene.Debug = append(scene.Debug, DebugShape{
					Kind:   ShapeCircle,
					Center: state.eyeRect.Center(),
					Radius: state.eyeRect.Width / 2.0,
					Color:  debugEyeColor,
				})
			}
		}
		if c.cfg.Debug && face.bounds != nil {
			scene.Debug = append(scene.Debug,
				DebugShape{Kind: ShapeRect, Rect: *face.bounds, Color: debugFaceColor},
				DebugShape{Kind: ShapeText, Rect: *face.bounds, Text: face.id.String()[:8], Color: debugFaceColor},
			)
		}
	}
	c.publisher.Publish(scene)
}
