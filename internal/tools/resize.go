package tools

import (
	"github.com/Yashodeeps/tessera/internal/commands"
	"github.com/Yashodeeps/tessera/internal/events"
	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
	"github.com/Yashodeeps/tessera/internal/store"
)

const (
	DefaultHandleSize = 8.0
	minResizeSize     = 1.0
)

// ResizeTool drags one of the eight handles of the single selected rect.
// Pressing away from every handle does nothing.
type ResizeTool struct {
	store      *store.Store
	exec       Executor
	handleSize float64

	dragging     bool
	target       string
	handle       HandleType
	orig         commands.Bounds
	start        commands.Bounds
	startPointer geometry.Vec2
}

// NewResizeTool returns a resize tool whose handles are handleSize screen
// units wide; zero selects DefaultHandleSize.
func NewResizeTool(s *store.Store, exec Executor, handleSize float64) *ResizeTool {
	if handleSize <= 0 {
		handleSize = DefaultHandleSize
	}
	return &ResizeTool{store: s, exec: exec, handleSize: handleSize}
}

func (t *ResizeTool) ID() string { return ResizeID }

// PickRadius is the handle pick radius in world units at the current zoom.
func (t *ResizeTool) PickRadius() float64 {
	zoom := t.store.State().Viewport.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return t.handleSize / zoom
}

func (t *ResizeTool) OnPointerDown(ev events.PointerEvent) error {
	if t.dragging {
		return nil
	}
	st := t.store.State()
	if len(st.Selection) != 1 {
		return nil
	}
	id := st.Selection[0]
	n, ok := st.Scene.Node(id)
	if !ok || !n.IsShape() || !Resizable(n.Shape) {
		return nil
	}
	h, ok := HandleAt(n.Shape, ev.Point, t.PickRadius())
	if !ok {
		return nil
	}

	t.orig = commands.BoundsOf(n)
	t.start = t.orig
	if t.start.Height == 0 {
		t.start.Height = t.start.Width
	}
	t.dragging = true
	t.target = id
	t.handle = h
	t.startPointer = ev.Point
	return nil
}

func (t *ResizeTool) OnPointerMove(ev events.PointerEvent) error {
	if !t.dragging {
		return nil
	}
	b := ResizeBounds(t.start, t.handle, ev.Point.Sub(t.startPointer))
	next, ok := t.store.State().Scene.UpdateNode(t.target, func(n *scene.Node) {
		commands.ApplyBounds(n, b)
	})
	if ok {
		t.store.ReplaceScene(next)
	}
	return nil
}

func (t *ResizeTool) OnPointerUp(events.PointerEvent) error {
	if !t.dragging {
		return nil
	}
	defer t.reset()

	n, ok := t.store.State().Scene.Node(t.target)
	if !ok {
		return nil
	}
	final := commands.BoundsOf(n)
	if final == t.orig {
		return nil
	}
	return t.exec.Execute(commands.NewResize(t.store, t.target, t.orig, final))
}

// OnPointerCancel restores the size and position captured at pointer down.
func (t *ResizeTool) OnPointerCancel(events.PointerEvent) error {
	if t.dragging {
		start := t.orig
		next, ok := t.store.State().Scene.UpdateNode(t.target, func(n *scene.Node) {
			commands.ApplyBounds(n, start)
		})
		if ok {
			t.store.ReplaceScene(next)
		}
	}
	t.reset()
	return nil
}

func (t *ResizeTool) OnDeactivate() {
	_ = t.OnPointerCancel(events.PointerEvent{Phase: events.PhaseCancel})
}

func (t *ResizeTool) reset() {
	t.dragging = false
	t.target = ""
	t.handle = ""
	t.orig = commands.Bounds{}
	t.start = commands.Bounds{}
	t.startPointer = geometry.Vec2{}
}

// ResizeBounds applies a pointer offset d to start through handle h. North
// and west handles also move the position. Width and height never drop
// below one unit.
func ResizeBounds(start commands.Bounds, h HandleType, d geometry.Vec2) commands.Bounds {
	b := start
	switch h {
	case HandleSE:
		b.Width = start.Width + d.X
		b.Height = start.Height + d.Y
	case HandleSW:
		b.Width = start.Width - d.X
		b.Height = start.Height + d.Y
		b.Position.X = start.Position.X + d.X
	case HandleNE:
		b.Width = start.Width + d.X
		b.Height = start.Height - d.Y
		b.Position.Y = start.Position.Y + d.Y
	case HandleNW:
		b.Width = start.Width - d.X
		b.Height = start.Height - d.Y
		b.Position = start.Position.Add(d)
	case HandleE:
		b.Width = start.Width + d.X
	case HandleW:
		b.Width = start.Width - d.X
		b.Position.X = start.Position.X + d.X
	case HandleS:
		b.Height = start.Height + d.Y
	case HandleN:
		b.Height = start.Height - d.Y
		b.Position.Y = start.Position.Y + d.Y
	}
	b.Width = max(minResizeSize, b.Width)
	b.Height = max(minResizeSize, b.Height)
	return b
}
