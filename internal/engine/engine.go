package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Yashodeeps/tessera/internal/commands"
	"github.com/Yashodeeps/tessera/internal/config"
	"github.com/Yashodeeps/tessera/internal/events"
	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/history"
	"github.com/Yashodeeps/tessera/internal/scene"
	"github.com/Yashodeeps/tessera/internal/store"
	"github.com/Yashodeeps/tessera/internal/tools"
	"github.com/Yashodeeps/tessera/internal/typeid"
)

// Engine wires the store, history, event resolver and tools into the editor
// core that a renderer or transport drives. It owns all editor state.
//
// An Engine is not safe for concurrent use; callers serialize access.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger
	newID  func() string

	store    *store.Store
	history  *history.History
	resolver *events.Resolver
	tools    *tools.Manager
}

type Option func(*Engine)

// WithIDFunc sets the generator for ids of shapes created by tools.
func WithIDFunc(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// WithScene sets the initial scene.
func WithScene(sc scene.Scene) Option {
	return func(e *Engine) { e.store.ReplaceScene(sc) }
}

// New creates an engine with an empty scene and the selection tool active.
// A nil cfg selects config.Default(); a nil logger discards all output.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if logger == nil {
		logger = slog.New(nopHandler{})
	}

	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		newID:   typeid.NewShapeID,
		store:   store.New(scene.NewScene()),
		history: history.New(cfg.HistoryCapacity),
	}
	e.resolver = events.NewResolver(func() scene.Scene { return e.store.State().Scene }, cfg.LineTolerance)
	e.tools = tools.NewManager(e.store)

	for _, t := range []tools.Tool{
		tools.NewSelectionTool(e.store),
		tools.NewMoveTool(e.store, e.history, cfg.GridSize),
		tools.NewResizeTool(e.store, e.history, cfg.HandleSize),
		tools.NewRotateTool(e.store, e.history),
		tools.NewRectTool(e.store, e.history, func() string { return e.newID() }, cfg.MinCreateSize),
	} {
		if err := e.tools.Register(t); err != nil {
			return nil, err
		}
	}

	// Click selection runs before the active tool sees the press.
	e.resolver.On(events.PhaseDown, e.selectOnDown)
	e.tools.Attach(e.resolver)

	if err := e.tools.Activate(tools.SelectID); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// --- Input ---

// PointerEvent feeds one world-space pointer event through hit-testing,
// click selection and the active tool.
func (e *Engine) PointerEvent(phase events.Phase, point geometry.Vec2, mods events.Modifiers) error {
	ev, err := e.resolver.Resolve(phase, point, mods, nil)
	if err != nil {
		e.logger.Error("pointer event failed",
			"phase", phase, "x", point.X, "y", point.Y, "tool", e.tools.ActiveID(), "error", err)
		return err
	}
	e.logger.Debug("pointer event", "phase", phase, "x", point.X, "y", point.Y, "hit", ev.HitNodeID)
	return nil
}

// PointerEventScreen is PointerEvent for a screen-space point.
func (e *Engine) PointerEventScreen(phase events.Phase, screen geometry.Vec2, mods events.Modifiers) error {
	return e.PointerEvent(phase, store.ScreenToWorld(e.store.State().Viewport, screen), mods)
}

// selectOnDown applies click selection. With a selection in place, the
// move, resize and rotate tools keep it on a miss so a drag can start from
// empty space or a handle; a hit on an unselected shape replaces it. Every other
// tool selects the hit shape or clears on a miss. Shift toggles the hit
// shape instead.
func (e *Engine) selectOnDown(ev events.PointerEvent) error {
	hit := ev.HitNodeID
	if ev.Modifiers.Shift {
		if hit != "" {
			e.store.ToggleSelection(hit)
		}
		return nil
	}

	sel := e.store.State().Selection
	switch e.tools.ActiveID() {
	case tools.MoveID, tools.ResizeID, tools.RotateID:
		if len(sel) > 0 {
			if hit != "" && !slices.Contains(sel, hit) {
				e.store.SelectSingle(hit)
			}
			return nil
		}
	}
	e.store.SelectSingle(hit)
	return nil
}

// --- Tools ---

// ActivateTool switches the active tool. An in-flight gesture of the
// previous tool is abandoned.
func (e *Engine) ActivateTool(id string) error {
	prev := e.tools.ActiveID()
	if err := e.tools.Activate(id); err != nil {
		e.logger.Error("activate tool", "tool", id, "error", err)
		return err
	}
	if prev != id {
		e.logger.Debug("tool activated", "tool", id, "previous", prev)
	}
	return nil
}

func (e *Engine) ActiveTool() string { return e.tools.ActiveID() }

func (e *Engine) ToolIDs() []string { return e.tools.IDs() }

// --- History ---

// Undo reverts the last command. Undo with nothing to undo is a no-op.
func (e *Engine) Undo() error {
	ok, err := e.history.Undo()
	if err != nil {
		e.logger.Error("undo failed", "error", err)
		return err
	}
	if ok {
		e.logger.Debug("undo", "undo", e.history.UndoLen(), "redo", e.history.RedoLen())
	}
	return nil
}

// Redo re-applies the last undone command. Redo with nothing to redo is a
// no-op.
func (e *Engine) Redo() error {
	ok, err := e.history.Redo()
	if err != nil {
		e.logger.Error("redo failed", "error", err)
		return err
	}
	if ok {
		e.logger.Debug("redo", "undo", e.history.UndoLen(), "redo", e.history.RedoLen())
	}
	return nil
}

func (e *Engine) CanUndo() bool { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// Execute runs cmd through the history so it can be undone.
func (e *Engine) Execute(cmd history.Command) error {
	if err := e.history.Execute(cmd); err != nil {
		e.logger.Error("command failed", "error", err)
		return err
	}
	e.logger.Debug("command executed", "undo", e.history.UndoLen())
	return nil
}

// DeleteSelected deletes the selected nodes as one undoable step. An empty
// selection is a no-op.
func (e *Engine) DeleteSelected() error {
	sel := e.store.State().Selection
	if len(sel) == 0 {
		return nil
	}
	return e.Execute(commands.NewDelete(e.store, sel))
}

// --- State ---

// State returns the current editor state. It must not be mutated.
func (e *Engine) State() store.CoreState { return e.store.State() }

// Subscribe registers fn to run after every state change.
func (e *Engine) Subscribe(fn store.Listener) (unsubscribe func()) {
	return e.store.Subscribe(fn)
}

// Select replaces the selection, dropping ids that are not in the scene.
func (e *Engine) Select(ids []string) {
	e.store.SetSelection(store.PruneSelection(ids, e.store.State().Scene))
}

// HitTest returns the topmost shape at a world point, or "".
func (e *Engine) HitTest(p geometry.Vec2) string {
	return e.resolver.HitTest(p)
}

// LoadScene replaces the scene. Any gesture in flight is abandoned, and the
// selection, feedback and history are cleared.
func (e *Engine) LoadScene(sc scene.Scene) error {
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	_ = e.tools.HandlePointer(events.PointerEvent{Phase: events.PhaseCancel})
	e.history.Clear()
	e.store.Update(func(st store.CoreState) store.CoreState {
		st.Scene = sc.Clone()
		st.Selection = []string{}
		st.Feedback = store.Feedback{}
		return st
	})
	e.logger.Info("scene loaded", "nodes", sc.Len(), "layers", len(sc.RootLayers))
	return nil
}

// --- Viewport ---

func (e *Engine) SetViewport(vp store.Viewport) {
	if vp.Zoom <= 0 {
		vp.Zoom = 1
	}
	e.store.SetViewport(vp)
}

// Pan moves the viewport by (dx, dy) world units.
func (e *Engine) Pan(dx, dy float64) { e.store.Pan(dx, dy) }

// ZoomAt zooms by factor around a screen point, within the configured limits.
func (e *Engine) ZoomAt(factor float64, anchor geometry.Vec2) {
	e.store.ZoomAt(factor, anchor, store.ZoomLimits{Min: e.cfg.MinZoom, Max: e.cfg.MaxZoom})
}

// HandlesForSelection returns the resize handles of the selection when it is
// a single rect, for painters to draw.
func (e *Engine) HandlesForSelection() []tools.Handle {
	st := e.store.State()
	if len(st.Selection) != 1 {
		return nil
	}
	n, ok := st.Scene.Node(st.Selection[0])
	if !ok {
		return nil
	}
	return tools.HandlesFor(n.Shape)
}

// nopHandler discards every record.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
