package overlay

import (
	"testing"

	"github.com/LdDl/googly-eyes/geom"
	"github.com/google/uuid"
)

func TestPresenterLatestSceneWins(t *testing.T) {
	sink := newRecordingSink()
	p := NewPresenter(sink)

	ids := []ViewID{uuid.New(), uuid.New(), uuid.New()}
	for i, id := range ids {
		p.Publish(Scene{
			Seq:   uint64(i + 1),
			Views: map[ViewID]ViewState{id: {Style: StyleEye, Frame: geom.NewRect(0, 0, 10, 10)}},
		})
	}

	select {
	case <-p.Ready():
	default:
		t.Fatal("Presenter should be ready after Publish")
	}

	if !p.Apply() {
		t.Fatal("Apply should report a pending scene")
	}
	if p.LastApplied() != 3 {
		t.Errorf("Expected scene 3 applied, got %d", p.LastApplied())
	}
	if sink.creates != 1 {
		t.Errorf("Superseded scenes must not be applied, got %d creates", sink.creates)
	}
	if _, ok := sink.views[ids[2]]; !ok {
		t.Error("Latest scene view should exist")
	}
	if p.Apply() {
		t.Error("Second Apply should find nothing pending")
	}
}

func TestPresenterReconcile(t *testing.T) {
	sink := newRecordingSink()
	p := NewPresenter(sink)
	a, b := uuid.New(), uuid.New()

	p.Publish(Scene{Seq: 1, Views: map[ViewID]ViewState{
		a: {Style: StyleEye, Frame: geom.NewRect(0, 0, 10, 10)},
		b: {Style: StyleIris, Frame: geom.NewRect(2, 2, 5, 5), Hidden: true},
	}})
	p.Apply()
	if len(sink.views) != 2 || !sink.views[b].hidden {
		t.Fatalf("Unexpected views after first apply: %+v", sink.views)
	}

	p.Publish(Scene{Seq: 2, Views: map[ViewID]ViewState{
		a: {Style: StyleEye, Frame: geom.NewRect(1, 0, 10, 10)},
	}})
	p.Apply()
	if len(sink.views) != 1 {
		t.Fatalf("Expected 1 view, got %d", len(sink.views))
	}
	if sink.views[a].frame.X != 1 {
		t.Errorf("View should be moved, got %v", sink.views[a].frame)
	}
	if sink.updates != 1 || sink.removes != 1 {
		t.Errorf("Expected 1 update and 1 remove, got %d and %d", sink.updates, sink.removes)
	}

	// Unchanged scene produces no calls
	p.Publish(Scene{Seq: 3, Views: map[ViewID]ViewState{
		a: {Style: StyleEye, Frame: geom.NewRect(1, 0, 10, 10)},
	}})
	p.Apply()
	if sink.updates != 1 {
		t.Errorf("Unchanged frame should not be updated, got %d updates", sink.updates)
	}
}

func TestPresenterInvalidateDiscardsPending(t *testing.T) {
	sink := newRecordingSink()
	p := NewPresenter(sink)
	a, b := uuid.New(), uuid.New()

	p.Publish(Scene{Seq: 1, Views: map[ViewID]ViewState{a: {Style: StyleEye}}})
	p.Apply()

	p.Publish(Scene{Seq: 2, Views: map[ViewID]ViewState{a: {Style: StyleEye}, b: {Style: StyleIris}}})
	p.Invalidate()
	p.Apply()

	if len(sink.views) != 0 {
		t.Errorf("All views should be removed, got %d", len(sink.views))
	}
	if sink.creates != 1 {
		t.Errorf("Discarded scene must not create views, got %d creates", sink.creates)
	}
	if p.LastApplied() != 1 {
		t.Errorf("Invalidation should keep the last sequence number, got %d", p.LastApplied())
	}
}

func TestPresenterNilSink(t *testing.T) {
	p := NewPresenter(nil)
	p.Publish(Scene{Seq: 1, Views: map[ViewID]ViewState{uuid.New(): {Style: StyleEye}}})
	if !p.Apply() {
		t.Error("Apply should consume the pending scene")
	}
	if p.Apply() {
		t.Error("Nothing should be pending")
	}
}
