// Package tools implements the pointer-driven editing tools and the manager
// that keeps exactly one of them active.
//
// A tool reacts to resolved pointer events. While a gesture is in flight it
// writes live edits and feedback straight into the store; when the gesture
// completes it hands commands to the history. A tool only implements the
// handler interfaces for the phases it cares about.
package tools

import (
	"github.com/Yashodeeps/tessera/internal/events"
	"github.com/Yashodeeps/tessera/internal/history"
)

// Built-in tool ids.
const (
	SelectID = "select"
	MoveID   = "move"
	ResizeID = "resize"
	RotateID = "rotate"
	RectID   = "rect"
)

type Tool interface {
	ID() string
}

type Activator interface {
	OnActivate()
}

// Deactivator is called when another tool takes over. Tools with a gesture
// in flight must discard it here.
type Deactivator interface {
	OnDeactivate()
}

type PointerDownHandler interface {
	OnPointerDown(ev events.PointerEvent) error
}

type PointerMoveHandler interface {
	OnPointerMove(ev events.PointerEvent) error
}

type PointerUpHandler interface {
	OnPointerUp(ev events.PointerEvent) error
}

// PointerCancelHandler abandons the current gesture. No command is emitted
// and the scene is left as it was before the gesture started.
type PointerCancelHandler interface {
	OnPointerCancel(ev events.PointerEvent) error
}

// Executor runs commands, normally a *history.History.
type Executor interface {
	Execute(cmd history.Command) error
}
