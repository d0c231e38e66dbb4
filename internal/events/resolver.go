// Package events resolves world-space pointer input to the topmost shape under
// the pointer and fans the result out to per-phase listeners.
package events

import (
	"errors"
	"fmt"

	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
)

// Phase is the gesture phase of a pointer event.
type Phase string

const (
	PhaseDown   Phase = "down"
	PhaseMove   Phase = "move"
	PhaseUp     Phase = "up"
	PhaseCancel Phase = "cancel"
)

// ParsePhase maps a wire name to a Phase.
func ParsePhase(s string) (Phase, error) {
	switch p := Phase(s); p {
	case PhaseDown, PhaseMove, PhaseUp, PhaseCancel:
		return p, nil
	}
	return "", fmt.Errorf("unknown pointer phase %q", s)
}

type Modifiers struct {
	Shift bool `json:"shift"`
	Ctrl  bool `json:"ctrl"`
	Meta  bool `json:"meta"`
}

// PointerEvent is a resolved pointer event. HitNodeID is empty on a miss.
type PointerEvent struct {
	Phase     Phase
	Point     geometry.Vec2
	HitNodeID string
	Modifiers Modifiers
	Raw       any
}

// Listener handles one resolved pointer event.
type Listener func(PointerEvent) error

type entry struct {
	id uint64
	fn Listener
}

// Resolver hit-tests against the scene returned by its source on every call,
// so it never caches anything about the scene.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	source    func() scene.Scene
	tolerance float64
	nextID    uint64
	listeners map[Phase][]entry
}

// NewResolver returns a resolver reading the current scene from source.
// tolerance is the hit distance for line shapes; zero selects
// geometry.DefaultLineTolerance.
func NewResolver(source func() scene.Scene, tolerance float64) *Resolver {
	if tolerance <= 0 {
		tolerance = geometry.DefaultLineTolerance
	}
	return &Resolver{
		source:    source,
		tolerance: tolerance,
		listeners: make(map[Phase][]entry),
	}
}

// HitTest returns the id of the topmost shape containing p, or "".
func (r *Resolver) HitTest(p geometry.Vec2) string {
	return HitTest(r.source(), p, r.tolerance)
}

// HitTest walks sc from the topmost layer down and returns the first shape
// containing p. Groups are searched back to front; missing ids are skipped.
func HitTest(sc scene.Scene, p geometry.Vec2, tolerance float64) string {
	for i := len(sc.RootLayers) - 1; i >= 0; i-- {
		layer, ok := sc.Nodes[sc.RootLayers[i]]
		if !ok {
			continue
		}
		if hit := hitChildren(sc, layer, p, tolerance, 0); hit != "" {
			return hit
		}
	}
	return ""
}

// maxDepth guards the recursion against malformed scenes with cycles.
const maxDepth = 256

func hitChildren(sc scene.Scene, parent scene.Node, p geometry.Vec2, tolerance float64, depth int) string {
	if depth > maxDepth {
		return ""
	}
	for i := len(parent.Children) - 1; i >= 0; i-- {
		child, ok := sc.Nodes[parent.Children[i]]
		if !ok {
			continue
		}
		switch child.Kind {
		case scene.KindShape:
			if child.Shape != nil && child.Shape.HitTest(p, tolerance) {
				return child.ID
			}
		case scene.KindGroup, scene.KindLayer:
			if hit := hitChildren(sc, child, p, tolerance, depth+1); hit != "" {
				return hit
			}
		}
	}
	return ""
}

// On registers fn for phase and returns a function that removes it.
// Listeners run in registration order.
func (r *Resolver) On(phase Phase, fn Listener) (unsubscribe func()) {
	r.nextID++
	id := r.nextID
	r.listeners[phase] = append(r.listeners[phase], entry{id: id, fn: fn})
	return func() {
		list := r.listeners[phase]
		for i, e := range list {
			if e.id == id {
				r.listeners[phase] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Resolve hit-tests point and dispatches the resulting event.
func (r *Resolver) Resolve(phase Phase, point geometry.Vec2, mods Modifiers, raw any) (PointerEvent, error) {
	ev := PointerEvent{
		Phase:     phase,
		Point:     point,
		HitNodeID: r.HitTest(point),
		Modifiers: mods,
		Raw:       raw,
	}
	return ev, r.Dispatch(ev)
}

// Dispatch calls every listener registered for ev.Phase when the dispatch
// starts. Listeners removed during the dispatch are still called for it.
// All listener errors are joined.
func (r *Resolver) Dispatch(ev PointerEvent) error {
	round := append([]entry(nil), r.listeners[ev.Phase]...)
	var errs []error
	for _, e := range round {
		if err := e.fn(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
