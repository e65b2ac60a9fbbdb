package overlay

import (
	"image/color"

	"github.com/LdDl/googly-eyes/geom"
	"github.com/google/uuid"
)

// ViewID identifies an on-screen view
type ViewID = uuid.UUID

// ViewStyle selects how a view is painted
type ViewStyle uint8

const (
	// StyleEye is the eye background (white of the googly eye)
	StyleEye ViewStyle = iota
	// StyleIris is the moving iris drawn above the eye
	StyleIris
)

func (s ViewStyle) String() string {
	switch s {
	case StyleEye:
		return "eye"
	case StyleIris:
		return "iris"
	default:
		return "unknown"
	}
}

// ViewSink owns on-screen views. Calls are made from the UI goroutine only and
// have no error signal: a sink which cannot honor a call skips it.
type ViewSink interface {
	CreateView(id ViewID, style ViewStyle, frame geom.Rect)
	UpdateView(id ViewID, frame geom.Rect)
	SetHidden(id ViewID, hidden bool)
	RemoveView(id ViewID)
}

// DebugDrawer draws debug primitives on top of the views. ClearDebug is called
// before every batch of primitives.
type DebugDrawer interface {
	ClearDebug()
	DrawCircle(center geom.Point, radius float64, c color.RGBA)
	DrawRect(rect geom.Rect, c color.RGBA)
	DrawText(text string, at geom.Rect, c color.RGBA)
}

// ViewState is the desired state of a single view
type ViewState struct {
	Style  ViewStyle
	Frame  geom.Rect
	Hidden bool
}

// ShapeKind is the kind of debug primitive
type ShapeKind uint8

const (
	// ShapeCircle is a circle outline
	ShapeCircle ShapeKind = iota
	// ShapeRect is a rectangle outline
	ShapeRect
	// ShapeText is a text label
	ShapeText
)

// DebugShape is a debug primitive. Circle uses Center and Radius, rectangle and
// text use Rect.
type DebugShape struct {
	Kind   ShapeKind
	Center geom.Point
	Radius float64
	Rect   geom.Rect
	Text   string
	Color  color.RGBA
}

// Scene is a complete snapshot of what should be on screen
type Scene struct {
	Seq   uint64
	Views map[ViewID]ViewState
	Debug []DebugShape
}

var (
	debugEyeColor  = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	debugFaceColor = color.RGBA{R: 255, G: 160, B: 0, A: 255}
)
