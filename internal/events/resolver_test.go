package events

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
)

func build(nodes ...scene.Node) scene.Scene {
	s := scene.NewScene()
	for _, n := range nodes {
		s = scene.AddNode(s, n)
	}
	return s
}

func fixed(s scene.Scene) func() scene.Scene {
	return func() scene.Scene { return s }
}

func TestHitTestSingleRect(t *testing.T) {
	s := build(
		scene.CreateLayer("l"),
		scene.CreateShape("r", geometry.NewRect(0, 0, 10, 10), "l"),
	)
	r := NewResolver(fixed(s), 0)
	if got := r.HitTest(geometry.V(5, 5)); got != "r" {
		t.Errorf("HitTest(5,5) = %q, want r", got)
	}
	if got := r.HitTest(geometry.V(50, 50)); got != "" {
		t.Errorf("HitTest(50,50) = %q, want miss", got)
	}
}

func TestHitTestTopmostWins(t *testing.T) {
	s := build(
		scene.CreateLayer("l"),
		scene.CreateShape("bottom", geometry.NewRect(0, 0, 10, 10), "l"),
		scene.CreateShape("top", geometry.NewRect(5, 5, 10, 10), "l"),
	)
	if got := HitTest(s, geometry.V(7, 7), 2); got != "top" {
		t.Errorf("HitTest = %q, want top", got)
	}
	if got := HitTest(s, geometry.V(1, 1), 2); got != "bottom" {
		t.Errorf("HitTest = %q, want bottom", got)
	}
}

func TestHitTestLayerOrder(t *testing.T) {
	s := build(
		scene.CreateLayer("l1"),
		scene.CreateLayer("l2"),
		scene.CreateShape("upper", geometry.NewCircle(0, 0, 5), "l2"),
		scene.CreateShape("lower", geometry.NewRect(-5, -5, 10, 10), "l1"),
	)
	if got := HitTest(s, geometry.V(0, 0), 2); got != "upper" {
		t.Errorf("HitTest = %q, want upper", got)
	}
}

func TestHitTestNestedGroups(t *testing.T) {
	s := build(
		scene.CreateLayer("l"),
		scene.CreateShape("behind", geometry.NewRect(0, 0, 100, 100), "l"),
		scene.CreateGroup("g1", "l"),
		scene.CreateGroup("g2", "g1"),
		scene.CreateShape("deep", geometry.NewRect(40, 40, 10, 10), "g2"),
	)
	if got := HitTest(s, geometry.V(45, 45), 2); got != "deep" {
		t.Errorf("HitTest = %q, want deep", got)
	}
	if got := HitTest(s, geometry.V(10, 10), 2); got != "behind" {
		t.Errorf("HitTest = %q, want behind", got)
	}
}

func TestHitTestLineTolerance(t *testing.T) {
	s := build(
		scene.CreateLayer("l"),
		scene.CreateShape("line", geometry.NewLine(geometry.V(0, 0), geometry.V(10, 0)), "l"),
	)
	if got := HitTest(s, geometry.V(5, 1.5), 2); got != "line" {
		t.Errorf("HitTest near line = %q, want line", got)
	}
	if got := HitTest(s, geometry.V(5, 3), 2); got != "" {
		t.Errorf("HitTest far from line = %q, want miss", got)
	}
}

func TestHitTestSkipsMissingChildren(t *testing.T) {
	s := build(
		scene.CreateLayer("l"),
		scene.CreateShape("r", geometry.NewRect(0, 0, 10, 10), "l"),
	)
	l := s.Nodes["l"]
	l.Children = append(l.Children, "ghost")
	s.Nodes["l"] = l
	s.RootLayers = append(s.RootLayers, "missing-layer")

	if got := HitTest(s, geometry.V(5, 5), 2); got != "r" {
		t.Errorf("HitTest = %q, want r", got)
	}
}

func TestResolverReadsCurrentScene(t *testing.T) {
	s := build(scene.CreateLayer("l"))
	r := NewResolver(func() scene.Scene { return s }, 0)
	if got := r.HitTest(geometry.V(1, 1)); got != "" {
		t.Fatalf("HitTest = %q, want miss", got)
	}
	s = scene.AddNode(s, scene.CreateShape("r", geometry.NewRect(0, 0, 2, 2), "l"))
	if got := r.HitTest(geometry.V(1, 1)); got != "r" {
		t.Errorf("HitTest = %q, want r", got)
	}
}

func TestDispatchOrderAndPayload(t *testing.T) {
	s := build(
		scene.CreateLayer("l"),
		scene.CreateShape("r", geometry.NewRect(0, 0, 10, 10), "l"),
	)
	r := NewResolver(fixed(s), 0)
	var calls []string
	var seen PointerEvent
	r.On(PhaseDown, func(ev PointerEvent) error { calls = append(calls, "first"); seen = ev; return nil })
	r.On(PhaseDown, func(PointerEvent) error { calls = append(calls, "second"); return nil })
	r.On(PhaseUp, func(PointerEvent) error { calls = append(calls, "up"); return nil })

	_, err := r.Resolve(PhaseDown, geometry.V(3, 3), Modifiers{Shift: true}, "raw")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"first", "second"}; !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if seen.HitNodeID != "r" || !seen.Modifiers.Shift || seen.Raw != "raw" {
		t.Errorf("event = %+v", seen)
	}
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	r := NewResolver(fixed(scene.NewScene()), 0)
	secondCalls := 0
	var unsubSecond func()
	r.On(PhaseMove, func(PointerEvent) error { unsubSecond(); return nil })
	unsubSecond = r.On(PhaseMove, func(PointerEvent) error { secondCalls++; return nil })

	_, _ = r.Resolve(PhaseMove, geometry.V(0, 0), Modifiers{}, nil)
	if secondCalls != 1 {
		t.Errorf("already-scheduled listener called %d times, want 1", secondCalls)
	}
	_, _ = r.Resolve(PhaseMove, geometry.V(0, 0), Modifiers{}, nil)
	if secondCalls != 1 {
		t.Errorf("removed listener called again: %d", secondCalls)
	}
}

func TestDispatchJoinsErrors(t *testing.T) {
	r := NewResolver(fixed(scene.NewScene()), 0)
	errA, errB := errors.New("a"), errors.New("b")
	ran := false
	r.On(PhaseUp, func(PointerEvent) error { return errA })
	r.On(PhaseUp, func(PointerEvent) error { ran = true; return errB })

	err := r.Dispatch(PointerEvent{Phase: PhaseUp})
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("err = %v, want both errors", err)
	}
	if !ran {
		t.Error("a failing listener should not stop the dispatch")
	}
}

func TestParsePhase(t *testing.T) {
	for _, s := range []string{"down", "move", "up", "cancel"} {
		if p, err := ParsePhase(s); err != nil || string(p) != s {
			t.Errorf("ParsePhase(%q) = %q, %v", s, p, err)
		}
	}
	if _, err := ParsePhase("hover"); err == nil {
		t.Error("ParsePhase should reject unknown phases")
	}
}
