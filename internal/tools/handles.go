package tools

import "github.com/Yashodeeps/tessera/internal/geometry"

// HandleType names one of the eight resize handles of a rect.
type HandleType string

const (
	HandleNW HandleType = "nw"
	HandleNE HandleType = "ne"
	HandleSW HandleType = "sw"
	HandleSE HandleType = "se"
	HandleN  HandleType = "n"
	HandleS  HandleType = "s"
	HandleE  HandleType = "e"
	HandleW  HandleType = "w"
)

type Handle struct {
	Type     HandleType    `json:"type"`
	Position geometry.Vec2 `json:"position"`
}

// Resizable reports whether s has resize handles. Only rects do.
func Resizable(s *geometry.Shape) bool {
	return s != nil && s.Kind == geometry.ShapeRect
}

// HandlesFor returns the resize handles of a rect shape, corners first. A
// zero height falls back to the width. Other shapes have no handles.
func HandlesFor(s *geometry.Shape) []Handle {
	if !Resizable(s) {
		return nil
	}
	x, y := s.Position.X, s.Position.Y
	w, h := s.Width, s.Height
	if h == 0 {
		h = w
	}
	return []Handle{
		{HandleNW, geometry.V(x, y)},
		{HandleNE, geometry.V(x+w, y)},
		{HandleSW, geometry.V(x, y+h)},
		{HandleSE, geometry.V(x+w, y+h)},
		{HandleN, geometry.V(x+w/2, y)},
		{HandleS, geometry.V(x+w/2, y+h)},
		{HandleE, geometry.V(x+w, y+h/2)},
		{HandleW, geometry.V(x, y+h/2)},
	}
}

// HandleAt returns the first handle of s within radius of p.
func HandleAt(s *geometry.Shape, p geometry.Vec2, radius float64) (HandleType, bool) {
	for _, h := range HandlesFor(s) {
		if p.Distance(h.Position) <= radius {
			return h.Type, true
		}
	}
	return "", false
}

// Cursor returns the CSS cursor name for a handle.
func Cursor(h HandleType) string {
	switch h {
	case HandleNW, HandleSE:
		return "nwse-resize"
	case HandleNE, HandleSW:
		return "nesw-resize"
	case HandleN, HandleS:
		return "ns-resize"
	case HandleE, HandleW:
		return "ew-resize"
	default:
		return "default"
	}
}
