// googly-eyes puts googly eyes on faces seen by a camera.
//
// Keys: m switches front/rear camera mode, q or Esc quits.
// Configuration comes from GOOGLY_* environment variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LdDl/googly-eyes/facetrack"
	"github.com/LdDl/googly-eyes/geom"
	"github.com/LdDl/googly-eyes/internal/config"
	"github.com/LdDl/googly-eyes/internal/log"
	"github.com/LdDl/googly-eyes/internal/pipeline"
	"github.com/LdDl/googly-eyes/overlay"
	"github.com/LdDl/googly-eyes/vision"
	"gocv.io/x/gocv"
)

func main() {
	if err := run(); err != nil {
		log.Error("googly-eyes failed", "error", err)
		fmt.Fprintf(os.Stderr, "googly-eyes: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Init(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	camera, err := vision.OpenCamera(cfg.Device, cfg.Camera)
	if err != nil {
		return err
	}
	defer camera.Close()

	detectorCfg := vision.DefaultDetectorConfig()
	detectorCfg.ModelPath = cfg.Model
	detector, err := vision.NewYuNet(detectorCfg)
	if err != nil {
		return err
	}
	defer detector.Close()

	window := gocv.NewWindow("googly-eyes")
	defer window.Close()

	sink := vision.NewMatSink()
	presenter := overlay.NewPresenter(sink)
	// The overlay is drawn onto the camera frame itself
	transform := overlay.TransformFunc(geom.IdentityTransform)

	p, err := pipeline.New(ctx, cfg.Camera, cfg.TrackerConfig(cfg.Camera), cfg.OverlayConfig(), transform, presenter)
	if err != nil {
		return err
	}
	defer func() {
		if p == nil {
			return
		}
		if err := p.Close(); err != nil {
			log.Warn("pipeline close", "error", err)
		}
	}()

	frame := gocv.NewMat()
	defer frame.Close()

	log.Info("camera started", "device", cfg.Device, "mode", cfg.Camera.String())
	for ctx.Err() == nil {
		if err := camera.Read(&frame); err != nil {
			return err
		}
		detections, err := detector.Detect(frame)
		if err != nil {
			log.Warn("detection failed", "error", err)
			continue
		}
		if err := p.Feed(ctx, detections); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error("feed failed", "error", err)
		}

		presenter.Apply()
		sink.Render(&frame)
		window.IMShow(frame)

		switch key := window.WaitKey(1); key {
		case 'q', 27:
			cancel()
		case 'm':
			mode := facetrack.ModeRear
			if camera.Mode() == facetrack.ModeRear {
				mode = facetrack.ModeFront
			}
			log.Info("switching camera", "mode", mode.String())
			if err := p.Close(); err != nil {
				log.Warn("pipeline close", "error", err)
			}
			p = nil
			camera.SetMode(mode)
			next, err := pipeline.New(ctx, mode, cfg.TrackerConfig(mode), cfg.OverlayConfig(), transform, presenter)
			if err != nil {
				return err
			}
			p = next
		}
	}
	return nil
}
