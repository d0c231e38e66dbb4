// Package history implements a bounded undo/redo stack of reversible commands.
package history

import "fmt"

// DefaultCapacity is the maximum number of undo steps kept by default.
const DefaultCapacity = 200

// Command is a reversible edit. Apply and Revert are only ever called
// alternately, starting with Apply.
type Command interface {
	Apply() error
	Revert() error
}

// Named is implemented by commands that can describe themselves for logs.
type Named interface {
	Name() string
}

// History holds the undo and redo stacks. When the undo stack grows past its
// capacity the oldest entry is dropped; that step can no longer be undone.
//
// A History is not safe for concurrent use.
type History struct {
	capacity int
	undo     []Command
	redo     []Command
}

// New returns an empty history. A non-positive capacity selects
// DefaultCapacity.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// Capacity returns the maximum depth of the undo stack.
func (h *History) Capacity() int { return h.capacity }

// Execute applies cmd and records it. The redo stack is cleared. If Apply
// fails nothing is recorded and both stacks are left as they were.
func (h *History) Execute(cmd Command) error {
	if err := cmd.Apply(); err != nil {
		return fmt.Errorf("apply %s: %w", describe(cmd), err)
	}
	h.undo = append(h.undo, cmd)
	if len(h.undo) > h.capacity {
		over := len(h.undo) - h.capacity
		clear(h.undo[:over])
		h.undo = h.undo[over:]
	}
	clear(h.redo)
	h.redo = h.redo[:0]
	return nil
}

// Undo reverts the most recent command. It reports false when there was
// nothing to undo.
func (h *History) Undo() (bool, error) {
	if len(h.undo) == 0 {
		return false, nil
	}
	cmd := h.undo[len(h.undo)-1]
	if err := cmd.Revert(); err != nil {
		return false, fmt.Errorf("revert %s: %w", describe(cmd), err)
	}
	h.undo[len(h.undo)-1] = nil
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, cmd)
	return true, nil
}

// Redo re-applies the most recently undone command. It reports false when
// there was nothing to redo.
func (h *History) Redo() (bool, error) {
	if len(h.redo) == 0 {
		return false, nil
	}
	cmd := h.redo[len(h.redo)-1]
	if err := cmd.Apply(); err != nil {
		return false, fmt.Errorf("reapply %s: %w", describe(cmd), err)
	}
	h.redo[len(h.redo)-1] = nil
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, cmd)
	return true, nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func (h *History) UndoLen() int { return len(h.undo) }
func (h *History) RedoLen() int { return len(h.redo) }

// Clear empties both stacks. It is meant for scene resets.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

func describe(cmd Command) string {
	if n, ok := cmd.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", cmd)
}
