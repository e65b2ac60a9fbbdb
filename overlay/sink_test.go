package overlay

import (
	"image/color"

	"github.com/LdDl/googly-eyes/geom"
)

type recordedView struct {
	style  ViewStyle
	frame  geom.Rect
	hidden bool
}

// recordingSink keeps the last state of every view, like a real view hierarchy
type recordingSink struct {
	views   map[ViewID]*recordedView
	creates int
	updates int
	removes int
	circles int
	rects   int
	texts   []string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{views: make(map[ViewID]*recordedView)}
}

func (s *recordingSink) CreateView(id ViewID, style ViewStyle, frame geom.Rect) {
	s.creates++
	s.views[id] = &recordedView{style: style, frame: frame}
}

func (s *recordingSink) UpdateView(id ViewID, frame geom.Rect) {
	s.updates++
	if v, ok := s.views[id]; ok {
		v.frame = frame
	}
}

func (s *recordingSink) SetHidden(id ViewID, hidden bool) {
	if v, ok := s.views[id]; ok {
		v.hidden = hidden
	}
}

func (s *recordingSink) RemoveView(id ViewID) {
	s.removes++
	delete(s.views, id)
}

func (s *recordingSink) ClearDebug() {
	s.circles = 0
	s.rects = 0
	s.texts = nil
}

func (s *recordingSink) DrawCircle(center geom.Point, radius float64, c color.RGBA) {
	s.circles++
}

func (s *recordingSink) DrawRect(rect geom.Rect, c color.RGBA) {
	s.rects++
}

func (s *recordingSink) DrawText(text string, at geom.Rect, c color.RGBA) {
	s.texts = append(s.texts, text)
}

func (s *recordingSink) countStyle(style ViewStyle) int {
	n := 0
	for _, v := range s.views {
		if v.style == style {
			n++
		}
	}
	return n
}
