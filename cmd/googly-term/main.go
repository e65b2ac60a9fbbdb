// googly-term shows googly eyes on synthetic wandering faces in a terminal.
//
// Keys: m switches front/rear camera mode, q or Esc quits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/LdDl/googly-eyes/facetrack"
	"github.com/LdDl/googly-eyes/geom"
	"github.com/LdDl/googly-eyes/internal/config"
	"github.com/LdDl/googly-eyes/internal/log"
	"github.com/LdDl/googly-eyes/internal/pipeline"
	"github.com/LdDl/googly-eyes/overlay"
	"github.com/LdDl/googly-eyes/termview"
	"github.com/gdamore/tcell/v2"
)

const frameInterval = 33 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "googly-term: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to tcell, logs go to a file
	logPath := filepath.Join(os.TempDir(), "googly-term.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.SetOutput(logFile, cfg.LogLevel)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sink := termview.NewSink(screen)
	presenter := overlay.NewPresenter(sink)

	// Synthetic camera pixels to terminal cells, updated on resize
	var transform atomic.Pointer[geom.Transform]
	setTransform := func() {
		w, h := screen.Size()
		transform.Store(&geom.Transform{XScale: float64(w) / worldWidth, YScale: float64(h) / worldHeight})
	}
	setTransform()
	source := overlay.TransformFunc(func() geom.Transform { return *transform.Load() })

	modes := make(chan facetrack.Mode, 1)
	producerDone := make(chan error, 1)
	go func() {
		producerDone <- produce(ctx, cfg, source, presenter, modes)
	}()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	mode := cfg.Camera
	for {
		select {
		case <-ctx.Done():
			return <-producerDone
		case err := <-producerDone:
			return err
		case <-presenter.Ready():
			if presenter.Apply() {
				sink.Render()
			}
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					cancel()
					continue
				}
				if ev.Key() == tcell.KeyRune && ev.Rune() == 'm' {
					mode = toggle(mode)
					select {
					case modes <- mode:
					default:
					}
				}
			case *tcell.EventResize:
				screen.Sync()
				setTransform()
				sink.Render()
			}
		}
	}
}

func toggle(mode facetrack.Mode) facetrack.Mode {
	if mode == facetrack.ModeFront {
		return facetrack.ModeRear
	}
	return facetrack.ModeFront
}

// produce runs the synthetic detector and feeds the pipeline of the current
// mode. A mode switch tears the pipeline down and starts a fresh one.
func produce(ctx context.Context, cfg config.Config, transform overlay.TransformSource, publisher overlay.Publisher, modes <-chan facetrack.Mode) error {
	start := func(mode facetrack.Mode) (*pipeline.Pipeline, *world, error) {
		p, err := pipeline.New(ctx, mode, cfg.TrackerConfig(mode), cfg.OverlayConfig(), transform, publisher)
		if err != nil {
			return nil, nil, err
		}
		return p, newWorld(mode, time.Now().UnixNano()), nil
	}

	p, w, err := start(cfg.Camera)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := p.Close(); err != nil {
				log.Warn("pipeline close", "error", err)
			}
			return nil
		case mode := <-modes:
			log.Info("switching camera", "mode", mode.String())
			if err := p.Close(); err != nil {
				log.Warn("pipeline close", "error", err)
			}
			if p, w, err = start(mode); err != nil {
				return err
			}
		case <-ticker.C:
			if err := p.Feed(ctx, w.step()); err != nil && ctx.Err() == nil {
				log.Error("feed failed", "error", err)
			}
		}
	}
}
