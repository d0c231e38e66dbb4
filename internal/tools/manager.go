package tools

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Yashodeeps/tessera/internal/events"
	"github.com/Yashodeeps/tessera/internal/store"
)

var (
	ErrToolNotRegistered     = errors.New("tool not registered")
	ErrToolAlreadyRegistered = errors.New("tool already registered")
)

// Manager owns the registered tools and forwards pointer events to the active
// one.
type Manager struct {
	store  *store.Store
	tools  map[string]Tool
	order  []string
	active Tool
}

func NewManager(s *store.Store) *Manager {
	return &Manager{
		store: s,
		tools: make(map[string]Tool),
	}
}

// Register adds t. Ids must be unique.
func (m *Manager) Register(t Tool) error {
	id := t.ID()
	if _, dup := m.tools[id]; dup {
		return fmt.Errorf("register %q: %w", id, ErrToolAlreadyRegistered)
	}
	m.tools[id] = t
	m.order = append(m.order, id)
	return nil
}

// Activate switches to tool id. Activating the active tool is a no-op; an
// unknown id returns ErrToolNotRegistered and leaves the current tool active.
func (m *Manager) Activate(id string) error {
	if m.active != nil && m.active.ID() == id {
		return nil
	}
	next, ok := m.tools[id]
	if !ok {
		return fmt.Errorf("activate %q: %w", id, ErrToolNotRegistered)
	}

	if d, ok := m.active.(Deactivator); ok {
		d.OnDeactivate()
	}
	m.active = next
	if a, ok := next.(Activator); ok {
		a.OnActivate()
	}
	m.store.SetActiveTool(id)
	return nil
}

// ActiveID returns the id of the active tool, or "" before any activation.
func (m *Manager) ActiveID() string {
	if m.active == nil {
		return ""
	}
	return m.active.ID()
}

// Tool looks up a registered tool.
func (m *Manager) Tool(id string) (Tool, bool) {
	t, ok := m.tools[id]
	return t, ok
}

// IDs returns the registered tool ids in registration order.
func (m *Manager) IDs() []string {
	return slices.Clone(m.order)
}

// HandlePointer forwards ev to the active tool's handler for ev.Phase. A tool
// without a handler for the phase ignores the event.
func (m *Manager) HandlePointer(ev events.PointerEvent) error {
	switch ev.Phase {
	case events.PhaseDown:
		if h, ok := m.active.(PointerDownHandler); ok {
			return h.OnPointerDown(ev)
		}
	case events.PhaseMove:
		if h, ok := m.active.(PointerMoveHandler); ok {
			return h.OnPointerMove(ev)
		}
	case events.PhaseUp:
		if h, ok := m.active.(PointerUpHandler); ok {
			return h.OnPointerUp(ev)
		}
	case events.PhaseCancel:
		if h, ok := m.active.(PointerCancelHandler); ok {
			return h.OnPointerCancel(ev)
		}
	}
	return nil
}

// Attach subscribes the manager to every pointer phase of r.
func (m *Manager) Attach(r *events.Resolver) (detach func()) {
	phases := []events.Phase{events.PhaseDown, events.PhaseMove, events.PhaseUp, events.PhaseCancel}
	unsubs := make([]func(), 0, len(phases))
	for _, p := range phases {
		unsubs = append(unsubs, r.On(p, m.HandlePointer))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
