package tools

import (
	"errors"

	"github.com/Yashodeeps/tessera/internal/commands"
	"github.com/Yashodeeps/tessera/internal/events"
	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
	"github.com/Yashodeeps/tessera/internal/store"
)

// MoveTool drags every selected node by the pointer offset, snapped to a
// grid. Releasing records one Move command per node that moved, so each
// node is a separate undo step.
type MoveTool struct {
	store    *store.Store
	exec     Executor
	gridSize float64

	dragging     bool
	startPointer geometry.Vec2
	targets      []string
	startPos     map[string]geometry.Vec2
}

// NewMoveTool returns a move tool snapping to gridSize; zero selects
// DefaultGridSize.
func NewMoveTool(s *store.Store, exec Executor, gridSize float64) *MoveTool {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	return &MoveTool{store: s, exec: exec, gridSize: gridSize}
}

func (t *MoveTool) ID() string { return MoveID }

// OnPointerDown starts a drag. A down arriving mid-drag, such as a second
// touch, is ignored.
func (t *MoveTool) OnPointerDown(ev events.PointerEvent) error {
	if t.dragging {
		return nil
	}
	st := t.store.State()
	if len(st.Selection) == 0 {
		return nil
	}
	t.startPos = make(map[string]geometry.Vec2, len(st.Selection))
	t.targets = t.targets[:0]
	for _, id := range st.Selection {
		n, ok := st.Scene.Node(id)
		if !ok {
			continue
		}
		t.targets = append(t.targets, id)
		t.startPos[id] = n.Position()
	}
	if len(t.targets) == 0 {
		t.reset()
		return nil
	}
	t.dragging = true
	t.startPointer = ev.Point
	return nil
}

func (t *MoveTool) OnPointerMove(ev events.PointerEvent) error {
	if !t.dragging {
		return nil
	}
	delta := SnapToGrid(ev.Point, t.gridSize).Sub(t.startPointer)
	next := t.store.State().Scene
	for _, id := range t.targets {
		next, _ = next.UpdateNode(id, func(n *scene.Node) {
			n.SetPosition(t.startPos[id].Add(delta))
		})
	}
	t.store.ReplaceScene(next)
	return nil
}

func (t *MoveTool) OnPointerUp(events.PointerEvent) error {
	if !t.dragging {
		t.reset()
		return nil
	}
	defer t.reset()

	sc := t.store.State().Scene
	var errs []error
	for _, id := range t.targets {
		n, ok := sc.Node(id)
		if !ok {
			continue
		}
		from, to := t.startPos[id], n.Position()
		if from == to {
			continue
		}
		if err := t.exec.Execute(commands.NewMove(t.store, id, from, to)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OnPointerCancel puts every dragged node back where it started.
func (t *MoveTool) OnPointerCancel(events.PointerEvent) error {
	if t.dragging {
		restorePositions(t.store, t.startPos)
	}
	t.reset()
	return nil
}

func (t *MoveTool) OnDeactivate() {
	_ = t.OnPointerCancel(events.PointerEvent{Phase: events.PhaseCancel})
}

func (t *MoveTool) reset() {
	t.dragging = false
	t.targets = t.targets[:0]
	t.startPos = nil
}

func restorePositions(s *store.Store, positions map[string]geometry.Vec2) {
	next := s.State().Scene
	for id, p := range positions {
		next, _ = next.UpdateNode(id, func(n *scene.Node) { n.SetPosition(p) })
	}
	s.ReplaceScene(next)
}
