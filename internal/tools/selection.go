package tools

import (
	"github.com/Yashodeeps/tessera/internal/events"
	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/store"
)

// SelectionTool drags a marquee and, on release, selects every shape whose
// bounding box overlaps it. Shift adds to the current selection. Click
// selection is handled before the tool runs, so a release without a drag
// leaves the selection alone.
type SelectionTool struct {
	store *store.Store

	dragging bool
	start    geometry.Vec2
	marquee  *geometry.Rect
}

func NewSelectionTool(s *store.Store) *SelectionTool {
	return &SelectionTool{store: s}
}

func (t *SelectionTool) ID() string { return SelectID }

func (t *SelectionTool) OnPointerDown(ev events.PointerEvent) error {
	t.dragging = true
	t.start = ev.Point
	t.marquee = nil
	t.store.SetMarquee(nil)
	return nil
}

func (t *SelectionTool) OnPointerMove(ev events.PointerEvent) error {
	if !t.dragging {
		return nil
	}
	r := geometry.RectFromPoints(t.start, ev.Point)
	t.marquee = &r
	t.store.SetMarquee(&r)
	return nil
}

func (t *SelectionTool) OnPointerUp(ev events.PointerEvent) error {
	if !t.dragging {
		return nil
	}
	defer t.reset()
	if t.marquee == nil {
		return nil
	}

	st := t.store.State()
	hits := ShapesInRect(st, *t.marquee)
	if ev.Modifiers.Shift {
		hits = append(append([]string(nil), st.Selection...), hits...)
	}
	t.store.SetSelection(hits)
	t.store.SetMarquee(nil)
	return nil
}

func (t *SelectionTool) OnPointerCancel(events.PointerEvent) error {
	if t.dragging && t.marquee != nil {
		t.store.SetMarquee(nil)
	}
	t.reset()
	return nil
}

func (t *SelectionTool) OnDeactivate() {
	if t.dragging {
		_ = t.OnPointerCancel(events.PointerEvent{Phase: events.PhaseCancel})
	}
}

func (t *SelectionTool) reset() {
	t.dragging = false
	t.start = geometry.Vec2{}
	t.marquee = nil
}

// ShapesInRect returns the ids of shapes whose bounding box overlaps r,
// edges included. Only bounding boxes are compared.
func ShapesInRect(st store.CoreState, r geometry.Rect) []string {
	box := r.BBox()
	var out []string
	for _, id := range st.Scene.Shapes() {
		n := st.Scene.Nodes[id]
		b, ok := n.Shape.Bounds()
		if ok && box.Intersects(b) {
			out = append(out, id)
		}
	}
	return out
}
