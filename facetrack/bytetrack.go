package facetrack

import (
	"github.com/LdDl/googly-eyes/geom"
	"github.com/LdDl/googly-eyes/internal/log"
	"github.com/LdDl/googly-eyes/overlay"
	"github.com/arthurkushman/go-hungarian"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MatchingAlgorithm is the assignment algorithm used by ByteTracker
type MatchingAlgorithm uint16

const (
	// MatchingAlgorithmHungarian uses the Hungarian algorithm (Kuhn-Munkres) for optimal assignment
	MatchingAlgorithmHungarian MatchingAlgorithm = iota
	// MatchingAlgorithmGreedy uses a greedy algorithm for faster but potentially suboptimal assignment
	MatchingAlgorithmGreedy
)

// ByteTracker is the ByteTrack association: confident detections are matched
// first, then weak detections may keep otherwise unmatched faces alive. Weak
// detections never start a new face. Suits the rear camera where faces are
// small and detector confidence fluctuates.
type ByteTracker struct {
	registry
	// Minimum IoU for a match
	minIoU float64
	// High detection confidence threshold
	highThresh float64
	// Low detection confidence threshold
	lowThresh float64
	// Algorithm to use for matching
	algorithm MatchingAlgorithm
}

// NewByteTracker creates a new instance of ByteTracker
func NewByteTracker(cfg Config) *ByteTracker {
	return &ByteTracker{
		registry:   newRegistry(cfg),
		minIoU:     cfg.MinIoU,
		highThresh: cfg.HighThresh,
		lowThresh:  cfg.LowThresh,
		algorithm:  cfg.Matching,
	}
}

// bboxPair pairs face id with its predicted box
type bboxPair struct {
	ID   uuid.UUID
	BBox geom.Rect
}

// Associate matches detections of a new frame
func (bt *ByteTracker) Associate(detections []Detection) ([]overlay.Event, error) {
	candidates := bt.blobs(detections)
	bt.predict()

	trackBoxes := make([]bboxPair, 0, len(bt.Objects))
	for id, track := range bt.Objects {
		trackBoxes = append(trackBoxes, bboxPair{ID: id, BBox: track.GetPredictedBBox()})
	}

	matchedTracks := make(map[uuid.UUID]struct{})
	matchedDetections := make(map[int]struct{})
	events := make([]overlay.Event, 0, len(candidates))

	// 1. First stage: high confidence detections against every track
	highIndices := make([]int, 0)
	for i, blob := range candidates {
		if blob.GetConfidence() >= bt.highThresh {
			highIndices = append(highIndices, i)
		}
	}
	stageEvents, err := bt.associateStage(trackBoxes, highIndices, candidates, matchedTracks, matchedDetections)
	if err != nil {
		return nil, errors.Wrap(err, "stage 1")
	}
	events = append(events, stageEvents...)

	// 2. Second stage: low confidence detections against the remaining tracks
	unmatchedBoxes := make([]bboxPair, 0)
	for _, pair := range trackBoxes {
		if _, found := matchedTracks[pair.ID]; !found {
			unmatchedBoxes = append(unmatchedBoxes, pair)
		}
	}
	lowIndices := make([]int, 0)
	for i, blob := range candidates {
		if _, found := matchedDetections[i]; found {
			continue
		}
		conf := blob.GetConfidence()
		if conf < bt.highThresh && conf >= bt.lowThresh {
			lowIndices = append(lowIndices, i)
		}
	}
	stageEvents, err = bt.associateStage(unmatchedBoxes, lowIndices, candidates, matchedTracks, matchedDetections)
	if err != nil {
		return nil, errors.Wrap(err, "stage 2")
	}
	events = append(events, stageEvents...)

	// 3. New faces from unmatched high confidence detections
	toRegister := make([]*FaceBlob, 0)
	for _, detIdx := range highIndices {
		if _, found := matchedDetections[detIdx]; !found {
			toRegister = append(toRegister, candidates[detIdx])
		}
	}
	events = append(events, bt.register(toRegister, matchedTracks)...)

	// 4. Age and drop unmatched faces
	events = append(events, bt.expire(matchedTracks)...)
	return events, nil
}

func (bt *ByteTracker) associateStage(
	trackBoxes []bboxPair,
	detectionIndices []int,
	candidates []*FaceBlob,
	matchedTracks map[uuid.UUID]struct{},
	matchedDetections map[int]struct{},
) ([]overlay.Event, error) {
	if len(trackBoxes) == 0 || len(detectionIndices) == 0 {
		return nil, nil
	}
	iouMatrix := createIoUMatrix(trackBoxes, detectionIndices, candidates)
	matches := bt.performMatching(iouMatrix, len(trackBoxes), len(detectionIndices))
	return bt.processMatches(matches, trackBoxes, detectionIndices, iouMatrix, candidates, matchedTracks, matchedDetections)
}

// createIoUMatrix builds IoU matrix: rows are tracks, columns are detections
func createIoUMatrix(trackBoxes []bboxPair, detectionIndices []int, candidates []*FaceBlob) [][]float64 {
	iouMatrix := make([][]float64, len(trackBoxes))
	for i, trkBox := range trackBoxes {
		row := make([]float64, len(detectionIndices))
		for j, detIdx := range detectionIndices {
			row[j] = geom.IoU(trkBox.BBox, candidates[detIdx].GetBBox())
		}
		iouMatrix[i] = row
	}
	return iouMatrix
}

// performMatching returns pairs {trackIndex, detectionIndex} within the stage
func (bt *ByteTracker) performMatching(iouMatrix [][]float64, numTracks, numDetections int) [][2]int {
	if bt.algorithm == MatchingAlgorithmGreedy {
		return bt.performGreedyMatching(iouMatrix, numTracks, numDetections)
	}

	// Hungarian solver needs a square matrix: pad with zero IoU
	paddedMatrix := iouMatrix
	if numTracks != numDetections {
		paddedSize := max(numTracks, numDetections)
		paddedMatrix = make([][]float64, paddedSize)
		for i := range paddedMatrix {
			paddedMatrix[i] = make([]float64, paddedSize)
			if i < numTracks {
				copy(paddedMatrix[i], iouMatrix[i])
			}
		}
	}

	assignments := hungarian.SolveMax(paddedMatrix)
	matches := make([][2]int, 0, len(assignments))
	for trackIndex, row := range assignments {
		for detectionIndex := range row {
			if trackIndex < numTracks && detectionIndex < numDetections {
				matches = append(matches, [2]int{trackIndex, detectionIndex})
			} else if trackIndex >= len(paddedMatrix) || detectionIndex >= len(paddedMatrix) {
				log.Warn("hungarian assignment out of bounds", "track", trackIndex, "detection", detectionIndex)
			}
			break
		}
	}
	return matches
}

// performGreedyMatching gives every track its best free detection in turn
func (bt *ByteTracker) performGreedyMatching(iouMatrix [][]float64, numTracks, numDetections int) [][2]int {
	matches := make([][2]int, 0)
	taken := make(map[int]struct{})
	for i := 0; i < numTracks; i++ {
		bestIoU := -1.0
		bestDet := -1
		for j := 0; j < numDetections; j++ {
			if _, found := taken[j]; found {
				continue
			}
			if iouMatrix[i][j] > bestIoU && iouMatrix[i][j] >= bt.minIoU {
				bestIoU = iouMatrix[i][j]
				bestDet = j
			}
		}
		if bestDet != -1 {
			matches = append(matches, [2]int{i, bestDet})
			taken[bestDet] = struct{}{}
		}
	}
	return matches
}

// processMatches updates matched faces and marks matched entities
func (bt *ByteTracker) processMatches(
	matches [][2]int,
	trackBoxes []bboxPair,
	detectionIndices []int,
	iouMatrix [][]float64,
	candidates []*FaceBlob,
	matchedTracks map[uuid.UUID]struct{},
	matchedDetections map[int]struct{},
) ([]overlay.Event, error) {
	events := make([]overlay.Event, 0, len(matches))
	for _, match := range matches {
		trackIdx, detIdx := match[0], match[1]
		if iouMatrix[trackIdx][detIdx] < bt.minIoU {
			continue
		}
		trackID := trackBoxes[trackIdx].ID
		originalDetIdx := detectionIndices[detIdx]
		track, ok := bt.Objects[trackID]
		if !ok {
			continue
		}
		if err := track.Update(candidates[originalDetIdx]); err != nil {
			return nil, errors.Wrapf(err, "failed to update face %s", trackID)
		}
		matchedTracks[trackID] = struct{}{}
		matchedDetections[originalDetIdx] = struct{}{}
		events = append(events, bt.updated(track))
	}
	return events, nil
}
