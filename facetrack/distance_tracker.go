package facetrack

import (
	"math"

	"github.com/LdDl/googly-eyes/overlay"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DistanceTracker is a naive face tracker matching detections to the closest
// tracked face by center distance. Good enough for the front camera where a
// single large face moves smoothly.
type DistanceTracker struct {
	registry
	// Threshold distance in pixels. Default 30.0
	minDistThreshold float64
}

// NewDistanceTracker creates new instance of DistanceTracker
func NewDistanceTracker(cfg Config) *DistanceTracker {
	return &DistanceTracker{
		registry:         newRegistry(cfg),
		minDistThreshold: cfg.MinDistThreshold,
	}
}

// Associate matches detections of a new frame
func (tracker *DistanceTracker) Associate(detections []Detection) ([]overlay.Event, error) {
	newObjects := tracker.blobs(detections)
	tracker.predict()

	priorityQueue := make(distanceHeap, 0, len(newObjects))
	for _, newObject := range newObjects {
		minID := uuid.Nil
		minDistance := math.MaxFloat64
		for objectID, object := range tracker.Objects {
			dist := math.Min(newObject.DistanceTo(object), newObject.DistanceToPredicted(object))
			if dist < minDistance {
				minDistance = dist
				minID = objectID
			}
		}
		priorityQueue.Push(&distanceBlob{
			underlying: newObject,
			distance:   minDistance,
			id:         minID,
		})
	}

	events := make([]overlay.Event, 0, len(newObjects))
	toRegister := make([]*FaceBlob, 0)
	// Prevents double update of a face
	reservedObjects := make(map[uuid.UUID]struct{})

	for priorityQueue.Len() > 0 {
		popped := priorityQueue.Pop()
		underlyingBlob := popped.underlying
		// Min-heap guarantees that the closest candidate updates a face first; the
		// rest competing for the same face become new faces
		if _, ok := reservedObjects[popped.id]; ok {
			toRegister = append(toRegister, underlyingBlob)
			continue
		}
		existing, ok := tracker.Objects[popped.id]
		if !ok || !(popped.distance < underlyingBlob.GetDiagonal()*0.5 || popped.distance < tracker.minDistThreshold) {
			toRegister = append(toRegister, underlyingBlob)
			continue
		}
		if err := existing.Update(underlyingBlob); err != nil {
			return nil, errors.Wrapf(err, "Can't update face with id %s", popped.id.String())
		}
		reservedObjects[popped.id] = struct{}{}
		events = append(events, tracker.updated(existing))
	}

	events = append(events, tracker.register(toRegister, reservedObjects)...)
	events = append(events, tracker.expire(reservedObjects)...)
	return events, nil
}
