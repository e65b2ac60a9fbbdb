// Package facetrack associates per-frame face detections into tracked faces
// with stable identifiers and turns the result into overlay events.
package facetrack

import (
	"sort"

	"github.com/LdDl/googly-eyes/overlay"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Tracker associates detections of consecutive frames. Associate returns
// FaceDetected for new faces, FaceUpdated for matched ones and FaceLost for faces
// not matched for longer than MaxNoMatch frames.
type Tracker interface {
	Associate(detections []Detection) ([]overlay.Event, error)
	Faces() []*FaceBlob
}

// New creates tracker for cfg.Algorithm
func New(cfg Config) (Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid tracker config")
	}
	switch cfg.Algorithm {
	case AlgorithmDistance:
		return NewDistanceTracker(cfg), nil
	case AlgorithmIoU:
		return NewIoUTracker(cfg), nil
	case AlgorithmByteTrack:
		return NewByteTracker(cfg), nil
	default:
		return nil, errors.Errorf("unsupported tracker algorithm %d", cfg.Algorithm)
	}
}

// NewForMode creates tracker tuned for camera mode
func NewForMode(mode Mode) (Tracker, error) {
	return New(ConfigForMode(mode))
}

// registry is the storage and lifecycle bookkeeping shared by every tracker
type registry struct {
	// Main storage
	Objects map[uuid.UUID]*FaceBlob

	maxFaces     int
	maxNoMatch   int
	dt           float64
	eyeSizeRatio float64
}

func newRegistry(cfg Config) registry {
	return registry{
		Objects:      make(map[uuid.UUID]*FaceBlob),
		maxFaces:     cfg.MaxFaces,
		maxNoMatch:   cfg.MaxNoMatch,
		dt:           cfg.DT,
		eyeSizeRatio: cfg.EyeSizeRatio,
	}
}

// Faces returns tracked faces
func (r *registry) Faces() []*FaceBlob {
	faces := make([]*FaceBlob, 0, len(r.Objects))
	for _, blob := range r.Objects {
		faces = append(faces, blob)
	}
	return faces
}

// blobs converts usable detections to candidate blobs
func (r *registry) blobs(detections []Detection) []*FaceBlob {
	blobs := make([]*FaceBlob, 0, len(detections))
	for _, det := range detections {
		if !det.valid() {
			continue
		}
		blobs = append(blobs, NewFaceBlobWithTime(det, r.dt))
	}
	return blobs
}

// predict advances every tracked face by one frame
func (r *registry) predict() {
	for _, object := range r.Objects {
		object.PredictNextPosition()
	}
}

// updated returns the event for a face matched on this frame
func (r *registry) updated(blob *FaceBlob) overlay.Event {
	return overlay.Updated(blob.GetID(), blob.Landmarks(r.eyeSizeRatio))
}

// register starts tracking new faces, most confident first, up to maxFaces.
// Registered ids are added to matched.
func (r *registry) register(candidates []*FaceBlob, matched map[uuid.UUID]struct{}) []overlay.Event {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].GetConfidence() > candidates[j].GetConfidence()
	})
	events := make([]overlay.Event, 0, len(candidates))
	for _, blob := range candidates {
		if r.maxFaces > 0 && len(r.Objects) >= r.maxFaces {
			break
		}
		r.Objects[blob.GetID()] = blob
		matched[blob.GetID()] = struct{}{}
		events = append(events, overlay.Detected(blob.GetID(), blob.Landmarks(r.eyeSizeRatio)))
	}
	return events
}

// expire increments no-match counters of faces missing from matched and drops
// the ones which have not been seen for too long
func (r *registry) expire(matched map[uuid.UUID]struct{}) []overlay.Event {
	events := make([]overlay.Event, 0)
	for id, object := range r.Objects {
		if _, ok := matched[id]; ok {
			continue
		}
		object.IncNoMatch()
		// Remove object if it was not found for a long time
		if object.GetNoMatchTimes() > r.maxNoMatch {
			delete(r.Objects, id)
			events = append(events, overlay.Lost(id))
		}
	}
	return events
}
