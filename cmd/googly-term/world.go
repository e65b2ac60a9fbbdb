package main

import (
	"math/rand"

	"github.com/LdDl/googly-eyes/facetrack"
	"github.com/LdDl/googly-eyes/geom"
)

// Synthetic camera resolution
const (
	worldWidth  = 640.0
	worldHeight = 480.0
)

// wanderer is a fake face drifting around the synthetic camera frame
type wanderer struct {
	box        geom.Rect
	vx, vy     float64
	hiddenFor  int // frames the face stays out of sight
	blinkFor   int // frames the left eye stays closed
	confidence float64
}

// world produces detections like a face detector would
type world struct {
	rnd   *rand.Rand
	faces []*wanderer
}

func newWorld(mode facetrack.Mode, seed int64) *world {
	w := &world{rnd: rand.New(rand.NewSource(seed))}
	if mode == facetrack.ModeFront {
		w.faces = append(w.faces, w.spawn(260))
		return w
	}
	for i := 0; i < 3; i++ {
		w.faces = append(w.faces, w.spawn(80+w.rnd.Float64()*50))
	}
	return w
}

func (w *world) spawn(size float64) *wanderer {
	return &wanderer{
		box:        geom.NewRect(w.rnd.Float64()*(worldWidth-size), w.rnd.Float64()*(worldHeight-size), size, size),
		vx:         (w.rnd.Float64() - 0.5) * 12,
		vy:         (w.rnd.Float64() - 0.5) * 8,
		confidence: 0.9,
	}
}

// step moves every face and returns detections of the visible ones
func (w *world) step() []facetrack.Detection {
	detections := make([]facetrack.Detection, 0, len(w.faces))
	for _, f := range w.faces {
		f.move(w.rnd)
		if f.hiddenFor > 0 {
			f.hiddenFor--
			continue
		}
		if w.rnd.Float64() < 0.004 {
			f.hiddenFor = 10 + w.rnd.Intn(50)
		}
		if f.blinkFor > 0 {
			f.blinkFor--
		} else if w.rnd.Float64() < 0.01 {
			f.blinkFor = 3 + w.rnd.Intn(5)
		}
		// Detector confidence wobbles, weak frames are left to the tracker
		f.confidence = 0.35 + w.rnd.Float64()*0.6
		detections = append(detections, f.detection())
	}
	return detections
}

func (f *wanderer) move(rnd *rand.Rand) {
	// Jerky head motion makes the irises swing
	if rnd.Float64() < 0.03 {
		f.vx = -f.vx + (rnd.Float64()-0.5)*6
		f.vy = (rnd.Float64() - 0.5) * 10
	}
	f.box.X += f.vx
	f.box.Y += f.vy
	if f.box.X < 0 || f.box.X+f.box.Width > worldWidth {
		f.vx = -f.vx
		f.box.X = max(0, min(f.box.X, worldWidth-f.box.Width))
	}
	if f.box.Y < 0 || f.box.Y+f.box.Height > worldHeight {
		f.vy = -f.vy
		f.box.Y = max(0, min(f.box.Y, worldHeight-f.box.Height))
	}
}

func (f *wanderer) detection() facetrack.Detection {
	det := facetrack.Detection{Box: f.box, Confidence: f.confidence}
	right := geom.NewPoint(f.box.X+f.box.Width*0.7, f.box.Y+f.box.Height*0.4)
	det.RightEye = &right
	if f.blinkFor == 0 {
		left := geom.NewPoint(f.box.X+f.box.Width*0.3, f.box.Y+f.box.Height*0.4)
		det.LeftEye = &left
	}
	return det
}
