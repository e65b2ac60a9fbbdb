package overlay

import (
	"image/color"
	"sort"

	"github.com/LdDl/googly-eyes/geom"
)

// ViewList is a ViewSink and DebugDrawer for backends which repaint the whole
// frame: it only remembers views and debug primitives, painting is left to the
// owner. Not safe for concurrent use.
type ViewList struct {
	views map[ViewID]*listedView
	debug []DebugShape
	next  uint64
}

type listedView struct {
	ViewState
	order uint64
}

// NewViewList creates an empty list
func NewViewList() *ViewList {
	return &ViewList{views: make(map[ViewID]*listedView)}
}

// CreateView adds a view. Existing view with the same id is replaced.
func (l *ViewList) CreateView(id ViewID, style ViewStyle, frame geom.Rect) {
	l.next++
	l.views[id] = &listedView{ViewState: ViewState{Style: style, Frame: frame}, order: l.next}
}

// UpdateView moves a view. Unknown ids are ignored.
func (l *ViewList) UpdateView(id ViewID, frame geom.Rect) {
	if v, ok := l.views[id]; ok {
		v.Frame = frame
	}
}

// SetHidden shows or hides a view. Unknown ids are ignored.
func (l *ViewList) SetHidden(id ViewID, hidden bool) {
	if v, ok := l.views[id]; ok {
		v.Hidden = hidden
	}
}

// RemoveView deletes a view
func (l *ViewList) RemoveView(id ViewID) {
	delete(l.views, id)
}

// ClearDebug drops debug primitives
func (l *ViewList) ClearDebug() {
	l.debug = l.debug[:0]
}

// DrawCircle queues a circle outline
func (l *ViewList) DrawCircle(center geom.Point, radius float64, c color.RGBA) {
	l.debug = append(l.debug, DebugShape{Kind: ShapeCircle, Center: center, Radius: radius, Color: c})
}

// DrawRect queues a rectangle outline
func (l *ViewList) DrawRect(rect geom.Rect, c color.RGBA) {
	l.debug = append(l.debug, DebugShape{Kind: ShapeRect, Rect: rect, Color: c})
}

// DrawText queues a label at the top-left corner of at
func (l *ViewList) DrawText(text string, at geom.Rect, c color.RGBA) {
	l.debug = append(l.debug, DebugShape{Kind: ShapeText, Rect: at, Text: text, Color: c})
}

// Len returns number of views, hidden ones included
func (l *ViewList) Len() int {
	return len(l.views)
}

// Paintable returns visible views in paint order: every eye before any iris,
// creation order within a style.
func (l *ViewList) Paintable() []ViewState {
	listed := make([]*listedView, 0, len(l.views))
	for _, v := range l.views {
		if !v.Hidden {
			listed = append(listed, v)
		}
	}
	sort.Slice(listed, func(i, j int) bool {
		if listed[i].Style != listed[j].Style {
			return listed[i].Style < listed[j].Style
		}
		return listed[i].order < listed[j].order
	})
	out := make([]ViewState, len(listed))
	for i, v := range listed {
		out[i] = v.ViewState
	}
	return out
}

// Debug returns queued debug primitives. Be careful: this is not a copy.
func (l *ViewList) Debug() []DebugShape {
	return l.debug
}
