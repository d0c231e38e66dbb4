package history

import (
	"errors"
	"testing"
)

// counter is a command that adds delta to a shared int.
type counter struct {
	v     *int
	delta int
}

func (c counter) Apply() error  { *c.v += c.delta; return nil }
func (c counter) Revert() error { *c.v -= c.delta; return nil }

type failing struct{ applyErr, revertErr error }

func (f failing) Apply() error  { return f.applyErr }
func (f failing) Revert() error { return f.revertErr }

func TestExecuteUndoRedo(t *testing.T) {
	h := New(0)
	v := 0
	for i := 1; i <= 3; i++ {
		if err := h.Execute(counter{&v, i}); err != nil {
			t.Fatal(err)
		}
	}
	if v != 6 {
		t.Fatalf("v = %d, want 6", v)
	}

	for _, want := range []int{3, 1, 0} {
		if ok, err := h.Undo(); !ok || err != nil {
			t.Fatalf("Undo() = %v, %v", ok, err)
		}
		if v != want {
			t.Errorf("after undo v = %d, want %d", v, want)
		}
	}
	if h.CanUndo() {
		t.Error("CanUndo should be false with an empty stack")
	}
	if ok, _ := h.Undo(); ok {
		t.Error("Undo on empty stack should be a no-op")
	}

	if ok, err := h.Redo(); !ok || err != nil {
		t.Fatalf("Redo() = %v, %v", ok, err)
	}
	if v != 1 {
		t.Errorf("after redo v = %d, want 1", v)
	}
}

func TestExecuteClearsRedo(t *testing.T) {
	h := New(0)
	v := 0
	_ = h.Execute(counter{&v, 1})
	_ = h.Execute(counter{&v, 2})
	_, _ = h.Undo()
	if !h.CanRedo() {
		t.Fatal("CanRedo should be true after undo")
	}

	_ = h.Execute(counter{&v, 5})
	if h.CanRedo() {
		t.Error("CanRedo should be false after a new Execute")
	}
	if ok, _ := h.Redo(); ok {
		t.Error("Redo should be a no-op after a new Execute")
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	h := New(DefaultCapacity)
	v := 0
	for range 210 {
		_ = h.Execute(counter{&v, 1})
	}
	if h.UndoLen() != DefaultCapacity {
		t.Fatalf("UndoLen = %d, want %d", h.UndoLen(), DefaultCapacity)
	}

	undos := 0
	for {
		ok, err := h.Undo()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		undos++
	}
	if undos != 200 {
		t.Errorf("undos = %d, want 200", undos)
	}
	if v != 10 {
		t.Errorf("v = %d, want 10 (the evicted steps stay applied)", v)
	}
}

func TestFailedApplyLeavesStacks(t *testing.T) {
	h := New(0)
	v := 0
	_ = h.Execute(counter{&v, 1})
	_, _ = h.Undo()

	boom := errors.New("boom")
	err := h.Execute(failing{applyErr: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("Execute error = %v, want wrapping boom", err)
	}
	if h.UndoLen() != 0 || h.RedoLen() != 1 {
		t.Errorf("stacks = %d/%d, want 0/1", h.UndoLen(), h.RedoLen())
	}
}

func TestFailedRevertLeavesStacks(t *testing.T) {
	h := New(0)
	boom := errors.New("boom")
	_ = h.Execute(failing{revertErr: boom})

	ok, err := h.Undo()
	if ok || !errors.Is(err, boom) {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if h.UndoLen() != 1 || h.RedoLen() != 0 {
		t.Errorf("stacks = %d/%d, want 1/0", h.UndoLen(), h.RedoLen())
	}
}

func TestClear(t *testing.T) {
	h := New(5)
	v := 0
	_ = h.Execute(counter{&v, 1})
	_ = h.Execute(counter{&v, 1})
	_, _ = h.Undo()
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear should empty both stacks")
	}
	if h.Capacity() != 5 {
		t.Errorf("Capacity = %d, want 5", h.Capacity())
	}
}
