package facetrack

import (
	"container/heap"

	"github.com/LdDl/googly-eyes/geom"
	"github.com/LdDl/googly-eyes/overlay"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// IoUTracker matches detections by IoU with predicted face boxes, falling back
// to center distance when boxes do not overlap (fast head motion).
type IoUTracker struct {
	registry
	// Minimum combined score for matching
	iouThreshold float64
}

// NewIoUTracker creates a new instance of IoUTracker
func NewIoUTracker(cfg Config) *IoUTracker {
	return &IoUTracker{
		registry:     newRegistry(cfg),
		iouThreshold: cfg.IoUThreshold,
	}
}

// iouCandidate holds a detection with its best score and target face
type iouCandidate struct {
	score float64
	maxID uuid.UUID
	blob  *FaceBlob
	index int
}

// iouHeap implements heap.Interface as a max-heap by score
type iouHeap []*iouCandidate

func (h iouHeap) Len() int { return len(h) }

func (h iouHeap) Less(i, j int) bool { return h[i].score > h[j].score }

func (h iouHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *iouHeap) Push(x any) {
	item := x.(*iouCandidate)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *iouHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[0 : n-1]
	return item
}

// matchScore combines IoU and distance into a 0-1 similarity
func matchScore(detected, predicted geom.Rect) float64 {
	iouValue := geom.IoU(detected, predicted)
	distance := geom.EuclideanDistance(predicted.Center(), detected.Center())
	distanceScore := 1.0 / (1.0 + distance*0.01)
	// Favor IoU when available
	if iouValue > 0.05 {
		return iouValue*0.8 + distanceScore*0.2
	}
	return distanceScore * 0.5
}

// Associate matches detections of a new frame
func (tracker *IoUTracker) Associate(detections []Detection) ([]overlay.Event, error) {
	newObjects := tracker.blobs(detections)
	tracker.predict()

	pq := &iouHeap{}
	heap.Init(pq)
	for _, newObj := range newObjects {
		var maxID uuid.UUID
		maxScore := 0.0
		for objID, object := range tracker.Objects {
			score := matchScore(newObj.GetBBox(), object.GetPredictedBBox())
			if score > maxScore {
				maxScore = score
				maxID = objID
			}
		}
		heap.Push(pq, &iouCandidate{score: maxScore, maxID: maxID, blob: newObj})
	}

	events := make([]overlay.Event, 0, len(newObjects))
	toRegister := make([]*FaceBlob, 0)
	reservedObjects := make(map[uuid.UUID]struct{})

	// Highest score first
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*iouCandidate)
		if _, ok := reservedObjects[item.maxID]; ok {
			toRegister = append(toRegister, item.blob)
			continue
		}
		existing, ok := tracker.Objects[item.maxID]
		if !ok || item.score <= tracker.iouThreshold {
			toRegister = append(toRegister, item.blob)
			continue
		}
		if err := existing.Update(item.blob); err != nil {
			return nil, errors.Wrapf(err, "Can't update face with id %s", item.maxID.String())
		}
		reservedObjects[item.maxID] = struct{}{}
		events = append(events, tracker.updated(existing))
	}

	events = append(events, tracker.register(toRegister, reservedObjects)...)
	events = append(events, tracker.expire(reservedObjects)...)
	return events, nil
}
