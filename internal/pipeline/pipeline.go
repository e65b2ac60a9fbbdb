// Package pipeline wires a face tracker to an overlay coordinator: detections
// go in, tracker events are handed to the coordinator on its own goroutine.
package pipeline

import (
	"context"

	"github.com/LdDl/googly-eyes/facetrack"
	"github.com/LdDl/googly-eyes/internal/log"
	"github.com/LdDl/googly-eyes/overlay"
	"github.com/pkg/errors"
)

const eventBuffer = 64

// Pipeline owns a tracker and a coordinator for one camera mode. Feed and Close
// must be called from a single goroutine.
type Pipeline struct {
	mode        facetrack.Mode
	tracker     facetrack.Tracker
	coordinator *overlay.Coordinator
	events      chan overlay.Event
	done        chan error
}

// New creates tracker and coordinator and starts the coordinator goroutine
func New(ctx context.Context, mode facetrack.Mode, trackerCfg facetrack.Config, overlayCfg overlay.Config, transform overlay.TransformSource, publisher overlay.Publisher) (*Pipeline, error) {
	tracker, err := facetrack.New(trackerCfg)
	if err != nil {
		return nil, errors.Wrap(err, "tracker")
	}
	coordinator, err := overlay.NewCoordinator(overlayCfg, transform, publisher,
		overlay.WithLogger(log.With("component", "overlay", "mode", mode.String())))
	if err != nil {
		return nil, errors.Wrap(err, "coordinator")
	}
	p := &Pipeline{
		mode:        mode,
		tracker:     tracker,
		coordinator: coordinator,
		events:      make(chan overlay.Event, eventBuffer),
		done:        make(chan error, 1),
	}
	go func() {
		p.done <- coordinator.Run(ctx, p.events)
	}()
	log.Info("pipeline started", "mode", mode.String(), "tracker", trackerCfg.Algorithm.String())
	return p, nil
}

// Mode returns camera mode the pipeline was created for
func (p *Pipeline) Mode() facetrack.Mode {
	return p.mode
}

// Coordinator returns the overlay coordinator
func (p *Pipeline) Coordinator() *overlay.Coordinator {
	return p.coordinator
}

// Feed associates detections of a frame and queues the resulting events
func (p *Pipeline) Feed(ctx context.Context, detections []facetrack.Detection) error {
	events, err := p.tracker.Associate(detections)
	if err != nil {
		return errors.Wrap(err, "associate")
	}
	for _, ev := range events {
		select {
		case p.events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close closes the coordinator, which removes every view of this pipeline, then
// stops its goroutine. Events still queued are discarded.
func (p *Pipeline) Close() error {
	p.coordinator.Close()
	close(p.events)
	err := <-p.done
	if err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "coordinator")
	}
	return nil
}
