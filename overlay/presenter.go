package overlay

import (
	"sync/atomic"
)

// Presenter hands scenes from the tracking goroutine to the UI goroutine.
//
// Publish never blocks: a newer scene replaces a pending one which is then never
// applied. Apply must only be called from the goroutine owning the views.
type Presenter struct {
	sink    ViewSink
	pending atomic.Pointer[Scene]
	ready   chan struct{}

	// owned by the UI goroutine
	applied     map[ViewID]ViewState
	lastApplied uint64
}

// NewPresenter creates presenter for the given sink. A nil sink makes Apply drop
// every scene.
func NewPresenter(sink ViewSink) *Presenter {
	return &Presenter{
		sink:    sink,
		ready:   make(chan struct{}, 1),
		applied: make(map[ViewID]ViewState),
	}
}

// Publish stores scene as the latest one and wakes the UI goroutine
func (p *Presenter) Publish(scene Scene) {
	p.pending.Store(&scene)
	p.signal()
}

// Invalidate drops any pending scene. The next Apply removes every view created so
// far and leaves LastApplied unchanged.
func (p *Presenter) Invalidate() {
	p.pending.Store(&Scene{Views: map[ViewID]ViewState{}})
	p.signal()
}

func (p *Presenter) signal() {
	select {
	case p.ready <- struct{}{}:
	default:
	}
}

// Ready is signaled whenever a scene is waiting to be applied
func (p *Presenter) Ready() <-chan struct{} {
	return p.ready
}

// LastApplied returns sequence number of the last applied scene. Invalidation
// carries no sequence number and keeps the previous value; a new coordinator
// publishing to the same presenter starts its own numbering from 1.
func (p *Presenter) LastApplied() uint64 {
	return p.lastApplied
}

// Apply reconciles the views with the latest scene. It returns false when no scene
// was pending.
func (p *Presenter) Apply() bool {
	scene := p.pending.Swap(nil)
	if scene == nil {
		return false
	}
	if scene.Seq != 0 {
		p.lastApplied = scene.Seq
	}
	if p.sink == nil {
		return true
	}

	for id, want := range scene.Views {
		have, ok := p.applied[id]
		if !ok {
			p.sink.CreateView(id, want.Style, want.Frame)
			if want.Hidden {
				p.sink.SetHidden(id, true)
			}
			continue
		}
		if have.Frame != want.Frame {
			p.sink.UpdateView(id, want.Frame)
		}
		if have.Hidden != want.Hidden {
			p.sink.SetHidden(id, want.Hidden)
		}
	}
	for id := range p.applied {
		if _, ok := scene.Views[id]; !ok {
			p.sink.RemoveView(id)
		}
	}

	applied := make(map[ViewID]ViewState, len(scene.Views))
	for id, st := range scene.Views {
		applied[id] = st
	}
	p.applied = applied

	if drawer, ok := p.sink.(DebugDrawer); ok {
		drawer.ClearDebug()
		for _, shape := range scene.Debug {
			switch shape.Kind {
			case ShapeCircle:
				drawer.DrawCircle(shape.Center, shape.Radius, shape.Color)
			case ShapeRect:
				drawer.DrawRect(shape.Rect, shape.Color)
			case ShapeText:
				drawer.DrawText(shape.Text, shape.Rect, shape.Color)
			}
		}
	}
	return true
}
