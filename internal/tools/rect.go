package tools

import (
	"github.com/Yashodeeps/tessera/internal/commands"
	"github.com/Yashodeeps/tessera/internal/events"
	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
	"github.com/Yashodeeps/tessera/internal/store"
)

const DefaultMinCreateSize = 1.0

// RectTool draws a new rect by dragging. A live preview is published while
// dragging; on release a CreateShape command adds the rect to the first root
// layer. Rects narrower or shorter than the minimum size are discarded, and
// a scene without layers creates nothing.
type RectTool struct {
	store   *store.Store
	exec    Executor
	newID   func() string
	minSize float64

	dragging bool
	start    geometry.Vec2
}

// NewRectTool returns a rect tool that names new nodes with newID. A
// non-positive minSize selects DefaultMinCreateSize.
func NewRectTool(s *store.Store, exec Executor, newID func() string, minSize float64) *RectTool {
	if minSize <= 0 {
		minSize = DefaultMinCreateSize
	}
	return &RectTool{store: s, exec: exec, newID: newID, minSize: minSize}
}

func (t *RectTool) ID() string { return RectID }

func (t *RectTool) OnPointerDown(ev events.PointerEvent) error {
	if t.dragging {
		return nil
	}
	t.dragging = true
	t.start = ev.Point
	r := geometry.Rect{X: ev.Point.X, Y: ev.Point.Y}
	t.store.SetPreviewRect(&r)
	return nil
}

func (t *RectTool) OnPointerMove(ev events.PointerEvent) error {
	if !t.dragging {
		return nil
	}
	r := geometry.RectFromPoints(t.start, ev.Point)
	t.store.SetPreviewRect(&r)
	return nil
}

func (t *RectTool) OnPointerUp(ev events.PointerEvent) error {
	if !t.dragging {
		return nil
	}
	defer t.reset()

	r := geometry.RectFromPoints(t.start, ev.Point)
	layers := t.store.State().Scene.RootLayers
	if r.Width < t.minSize || r.Height < t.minSize || len(layers) == 0 {
		t.store.SetPreviewRect(nil)
		return nil
	}

	id := t.newID()
	node := scene.CreateShape(id, geometry.NewRect(r.X, r.Y, r.Width, r.Height), layers[0])
	err := t.exec.Execute(commands.NewCreateShape(t.store, layers[0], node))
	t.store.SetPreviewRect(nil)
	return err
}

func (t *RectTool) OnPointerCancel(events.PointerEvent) error {
	if t.dragging {
		t.store.SetPreviewRect(nil)
	}
	t.reset()
	return nil
}

func (t *RectTool) OnDeactivate() {
	_ = t.OnPointerCancel(events.PointerEvent{Phase: events.PhaseCancel})
}

func (t *RectTool) reset() {
	t.dragging = false
	t.start = geometry.Vec2{}
}
