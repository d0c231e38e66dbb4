package tools

import (
	"github.com/Yashodeeps/tessera/internal/commands"
	"github.com/Yashodeeps/tessera/internal/events"
	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
	"github.com/Yashodeeps/tessera/internal/store"
)

// RotateTool turns the single selected node to face the pointer. The angle
// is absolute: it is the direction from the pivot to the pointer, not an
// offset from the rotation at pointer down.
type RotateTool struct {
	store *store.Store
	exec  Executor

	dragging bool
	target   string
	pivot    geometry.Vec2
	startRot float64
}

func NewRotateTool(s *store.Store, exec Executor) *RotateTool {
	return &RotateTool{store: s, exec: exec}
}

func (t *RotateTool) ID() string { return RotateID }

// Pivot returns the rotation pivot of n: its position plus half its size.
func Pivot(n scene.Node) geometry.Vec2 {
	p := n.Position()
	if n.Shape == nil {
		return p
	}
	return p.Add(geometry.V(n.Shape.Width/2, n.Shape.Height/2))
}

func (t *RotateTool) OnPointerDown(events.PointerEvent) error {
	if t.dragging {
		return nil
	}
	st := t.store.State()
	if len(st.Selection) != 1 {
		return nil
	}
	n, ok := st.Scene.Node(st.Selection[0])
	if !ok {
		return nil
	}
	t.dragging = true
	t.target = n.ID
	t.pivot = Pivot(n)
	t.startRot = n.Transform.Rotation
	return nil
}

func (t *RotateTool) OnPointerMove(ev events.PointerEvent) error {
	if !t.dragging {
		return nil
	}
	t.setRotation(ev.Point.Sub(t.pivot).Angle())
	return nil
}

func (t *RotateTool) OnPointerUp(events.PointerEvent) error {
	if !t.dragging {
		return nil
	}
	defer t.reset()

	n, ok := t.store.State().Scene.Node(t.target)
	if !ok {
		return nil
	}
	final := n.Transform.Rotation
	if final == t.startRot {
		return nil
	}
	return t.exec.Execute(commands.NewRotate(t.store, t.target, t.startRot, final))
}

// OnPointerCancel restores the rotation captured at pointer down.
func (t *RotateTool) OnPointerCancel(events.PointerEvent) error {
	if t.dragging {
		t.setRotation(t.startRot)
	}
	t.reset()
	return nil
}

func (t *RotateTool) OnDeactivate() {
	_ = t.OnPointerCancel(events.PointerEvent{Phase: events.PhaseCancel})
}

func (t *RotateTool) setRotation(r float64) {
	next, ok := t.store.State().Scene.UpdateNode(t.target, func(n *scene.Node) { n.SetRotation(r) })
	if ok {
		t.store.ReplaceScene(next)
	}
}

func (t *RotateTool) reset() {
	t.dragging = false
	t.target = ""
	t.pivot = geometry.Vec2{}
	t.startRot = 0
}
