package overlay

import "github.com/google/uuid"

// EventKind is the kind of tracker notification
type EventKind uint8

const (
	// FaceDetected is sent when the tracker starts following a face
	FaceDetected EventKind = iota + 1
	// FaceUpdated is sent for every frame a tracked face was matched on
	FaceUpdated
	// FaceLost is sent when the tracker gives up on a face
	FaceLost
)

// String returns human-readable kind name
func (k EventKind) String() string {
	switch k {
	case FaceDetected:
		return "detected"
	case FaceUpdated:
		return "updated"
	case FaceLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Event is a single tracker notification. Landmarks are ignored for FaceLost.
type Event struct {
	Kind      EventKind
	FaceID    uuid.UUID
	Landmarks Landmarks
}

// Detected returns FaceDetected event for a new face
func Detected(faceID uuid.UUID, lm Landmarks) Event {
	return Event{Kind: FaceDetected, FaceID: faceID, Landmarks: lm}
}

// Updated returns FaceUpdated event for a matched face
func Updated(faceID uuid.UUID, lm Landmarks) Event {
	return Event{Kind: FaceUpdated, FaceID: faceID, Landmarks: lm}
}

// Lost returns FaceLost event for a dropped face
func Lost(faceID uuid.UUID) Event {
	return Event{Kind: FaceLost, FaceID: faceID}
}
