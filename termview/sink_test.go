package termview

import (
	"image/color"
	"testing"
	"time"

	"github.com/LdDl/googly-eyes/geom"
	"github.com/LdDl/googly-eyes/overlay"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(40, 20)
	t.Cleanup(screen.Fini)
	return screen
}

func background(screen tcell.Screen, x, y int) tcell.Color {
	_, _, style, _ := screen.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func TestRenderEyeAndIris(t *testing.T) {
	screen := newScreen(t)
	sink := NewSink(screen)

	eyeID, irisID := uuid.New(), uuid.New()
	// Iris created first must still be painted above the eye
	sink.CreateView(irisID, overlay.StyleIris, geom.NewRect(13, 7, 4, 2))
	sink.CreateView(eyeID, overlay.StyleEye, geom.NewRect(10, 5, 10, 6))
	sink.Render()

	if bg := background(screen, 15, 8); bg != tcell.ColorBlack {
		t.Errorf("Expected iris at (15, 8), got background %v", bg)
	}
	if bg := background(screen, 10, 7); bg != tcell.ColorWhite {
		t.Errorf("Expected eye at (10, 7), got background %v", bg)
	}
	if bg := background(screen, 0, 0); bg == tcell.ColorWhite || bg == tcell.ColorBlack {
		t.Errorf("Expected empty cell at (0, 0), got background %v", bg)
	}

	sink.UpdateView(irisID, geom.NewRect(11, 7, 4, 2))
	sink.Render()
	if bg := background(screen, 12, 8); bg != tcell.ColorBlack {
		t.Errorf("Expected moved iris at (12, 8), got background %v", bg)
	}
	if bg := background(screen, 16, 8); bg != tcell.ColorWhite {
		t.Errorf("Expected eye at (16, 8) after iris moved, got background %v", bg)
	}

	sink.SetHidden(irisID, true)
	sink.Render()
	if bg := background(screen, 12, 8); bg != tcell.ColorWhite {
		t.Errorf("Hidden iris should not be painted, got background %v", bg)
	}

	sink.RemoveView(eyeID)
	sink.RemoveView(irisID)
	sink.Render()
	if bg := background(screen, 15, 8); bg == tcell.ColorWhite || bg == tcell.ColorBlack {
		t.Errorf("Removed views should not be painted, got background %v", bg)
	}
	if sink.Len() != 0 {
		t.Errorf("Expected no views, got %d", sink.Len())
	}
}

func TestRenderTinyAndOffscreen(t *testing.T) {
	screen := newScreen(t)
	sink := NewSink(screen)

	sink.CreateView(uuid.New(), overlay.StyleIris, geom.NewRect(5.6, 5.6, 0.2, 0.2))
	sink.CreateView(uuid.New(), overlay.StyleEye, geom.NewRect(-50, -50, 30, 30))
	sink.CreateView(uuid.New(), overlay.StyleEye, geom.NewRect(30, 15, 100, 100))
	sink.Render()

	if bg := background(screen, 5, 5); bg != tcell.ColorBlack {
		t.Errorf("Expected tiny iris painted at (5, 5), got background %v", bg)
	}
}

func TestDebugPrimitives(t *testing.T) {
	screen := newScreen(t)
	sink := NewSink(screen)
	green := color.RGBA{G: 200, A: 255}

	sink.DrawRect(geom.NewRect(2, 2, 10, 5), green)
	sink.DrawText("abc", geom.NewRect(20, 10, 5, 1), green)
	sink.DrawCircle(geom.Point{X: 30, Y: 5}, 3, green)
	sink.Render()

	if r, _, _, _ := screen.GetContent(2, 2); r != '┌' {
		t.Errorf("Expected rectangle corner, got %q", r)
	}
	if r, _, _, _ := screen.GetContent(12, 7); r != '┘' {
		t.Errorf("Expected rectangle corner, got %q", r)
	}
	for i, want := range "abc" {
		if r, _, _, _ := screen.GetContent(20+i, 10); r != want {
			t.Errorf("Expected %q at %d, got %q", want, 20+i, r)
		}
	}
	if r, _, _, _ := screen.GetContent(33, 5); r != '·' {
		t.Errorf("Expected circle point at (33, 5), got %q", r)
	}

	sink.ClearDebug()
	sink.Render()
	if r, _, _, _ := screen.GetContent(2, 2); r == '┌' {
		t.Error("Debug primitives should be cleared")
	}
}

func TestPresenterDrivesSink(t *testing.T) {
	screen := newScreen(t)
	sink := NewSink(screen)
	presenter := overlay.NewPresenter(sink)

	eyeID := uuid.New()
	presenter.Publish(overlay.Scene{
		Seq: 1,
		Views: map[overlay.ViewID]overlay.ViewState{
			eyeID: {Style: overlay.StyleEye, Frame: geom.NewRect(10, 5, 10, 6)},
		},
	})
	if !presenter.Apply() {
		t.Fatal("Expected pending scene")
	}
	sink.Render()
	if bg := background(screen, 15, 8); bg != tcell.ColorWhite {
		t.Errorf("Expected eye at (15, 8), got background %v", bg)
	}

	presenter.Invalidate()
	presenter.Apply()
	sink.Render()
	if sink.Len() != 0 {
		t.Errorf("Expected invalidate to remove views, got %d", sink.Len())
	}
}

func TestRenderHugeViewsStaysBounded(t *testing.T) {
	screen := newScreen(t)
	sink := NewSink(screen)
	presenter := overlay.NewPresenter(sink)

	cfg := overlay.DefaultConfig()
	cfg.Debug = true
	coordinator, err := overlay.NewCoordinator(cfg, overlay.TransformFunc(geom.IdentityTransform), presenter)
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	// Largest landmark still accepted by the coordinator
	big := &overlay.EyeLandmark{Center: geom.Point{X: 10, Y: 10}, Width: 9e5, Height: 9e5}
	face := geom.NewRect(-9e5, -9e5, 1e6, 1e6)
	coordinator.OnFaceDetected(uuid.New(), overlay.Landmarks{Left: big, Face: &face})
	presenter.Apply()

	// Raw sink input is not range checked at all
	sink.CreateView(uuid.New(), overlay.StyleEye, geom.NewRect(-1e300, -1e300, 1e301, 1e301))
	sink.DrawRect(geom.NewRect(-1e300, -1e300, 2e300, 2e300), color.RGBA{R: 255, A: 255})
	sink.DrawCircle(geom.Point{X: 20, Y: 10}, 1e300, color.RGBA{R: 255, A: 255})
	sink.DrawText("far", geom.NewRect(1e300, 1e300, 1, 1), color.RGBA{R: 255, A: 255})

	done := make(chan struct{})
	go func() {
		sink.Render()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Render did not finish for views far larger than the screen")
	}

	if bg := background(screen, 20, 10); bg != tcell.ColorBlack && bg != tcell.ColorWhite {
		t.Errorf("Expected the huge eye to cover (20, 10), got background %v", bg)
	}
}
