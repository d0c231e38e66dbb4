package store

import (
	"math"
	"reflect"
	"testing"

	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
)

func TestNewStoreDefaults(t *testing.T) {
	s := New(scene.NewScene())
	st := s.State()
	if len(st.Selection) != 0 {
		t.Errorf("Selection = %v, want empty", st.Selection)
	}
	if st.Viewport != (Viewport{Zoom: 1}) {
		t.Errorf("Viewport = %+v, want zoom 1 at origin", st.Viewport)
	}
	if st.ActiveTool != "" {
		t.Errorf("ActiveTool = %q, want none", st.ActiveTool)
	}
}

func TestUpdateNotifiesInOrder(t *testing.T) {
	s := New(scene.NewScene())
	var calls []string
	s.Subscribe(func(CoreState) { calls = append(calls, "a") })
	s.Subscribe(func(CoreState) { calls = append(calls, "b") })

	s.SetActiveTool("select")

	if want := []string{"a", "b"}; !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestListenerSeesNewState(t *testing.T) {
	s := New(scene.NewScene())
	var got string
	s.Subscribe(func(st CoreState) { got = st.ActiveTool })
	s.SetActiveTool("rect")
	if got != "rect" {
		t.Errorf("listener saw %q, want rect", got)
	}
}

func TestNestedUpdateKeepsRoundState(t *testing.T) {
	s := New(scene.NewScene())
	var first, second []string
	s.Subscribe(func(st CoreState) {
		first = append(first, st.ActiveTool)
		if st.ActiveTool == "a" {
			s.SetActiveTool("b")
		}
	})
	s.Subscribe(func(st CoreState) { second = append(second, st.ActiveTool) })

	s.SetActiveTool("a")

	if want := []string{"a", "b"}; !reflect.DeepEqual(first, want) {
		t.Errorf("first listener saw %v, want %v", first, want)
	}
	if want := []string{"b", "a"}; !reflect.DeepEqual(second, want) {
		t.Errorf("second listener saw %v, want %v", second, want)
	}
	if got := s.State().ActiveTool; got != "b" {
		t.Errorf("ActiveTool = %q, want b", got)
	}
}

func TestSubscribeDuringNotification(t *testing.T) {
	s := New(scene.NewScene())
	lateCalls := 0
	added := false
	s.Subscribe(func(CoreState) {
		if !added {
			added = true
			s.Subscribe(func(CoreState) { lateCalls++ })
		}
	})

	s.SetActiveTool("a")
	if lateCalls != 0 {
		t.Errorf("listener added mid-round was called %d times in that round", lateCalls)
	}
	s.SetActiveTool("b")
	if lateCalls != 1 {
		t.Errorf("listener added mid-round called %d times on next round, want 1", lateCalls)
	}
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	s := New(scene.NewScene())
	secondCalls := 0
	var unsubSecond func()
	s.Subscribe(func(CoreState) { unsubSecond() })
	unsubSecond = s.Subscribe(func(CoreState) { secondCalls++ })

	s.SetActiveTool("a")
	s.SetActiveTool("b")
	if secondCalls != 0 {
		t.Errorf("listener removed mid-round was called %d times", secondCalls)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	s := New(scene.NewScene())
	calls := 0
	unsub := s.Subscribe(func(CoreState) { calls++ })
	other := 0
	s.Subscribe(func(CoreState) { other++ })

	unsub()
	unsub()
	s.SetActiveTool("x")
	if calls != 0 || other != 1 {
		t.Errorf("calls = %d, other = %d; want 0, 1", calls, other)
	}
}

func TestUpdateWithoutDedup(t *testing.T) {
	s := New(scene.NewScene())
	calls := 0
	s.Subscribe(func(CoreState) { calls++ })
	s.SetActiveTool("same")
	s.SetActiveTool("same")
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestSelectionHelpers(t *testing.T) {
	s := New(scene.NewScene())

	s.SetSelection([]string{"a", "b", "a", "", "c"})
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(s.State().Selection, want) {
		t.Errorf("SetSelection = %v, want %v", s.State().Selection, want)
	}

	s.ToggleSelection("b")
	if want := []string{"a", "c"}; !reflect.DeepEqual(s.State().Selection, want) {
		t.Errorf("after toggle off = %v, want %v", s.State().Selection, want)
	}
	s.ToggleSelection("d")
	if want := []string{"a", "c", "d"}; !reflect.DeepEqual(s.State().Selection, want) {
		t.Errorf("after toggle on = %v, want %v", s.State().Selection, want)
	}

	s.SelectSingle("z")
	if want := []string{"z"}; !reflect.DeepEqual(s.State().Selection, want) {
		t.Errorf("SelectSingle = %v, want %v", s.State().Selection, want)
	}
	s.SelectSingle("")
	if len(s.State().Selection) != 0 {
		t.Errorf("SelectSingle(\"\") = %v, want empty", s.State().Selection)
	}
}

func TestReplaceScenePrunesSelection(t *testing.T) {
	sc := scene.AddNode(scene.NewScene(), scene.CreateLayer("l"))
	s := New(sc)
	s.SetSelection([]string{"l", "gone"})
	s.ReplaceScene(sc)
	if want := []string{"l"}; !reflect.DeepEqual(s.State().Selection, want) {
		t.Errorf("Selection = %v, want %v", s.State().Selection, want)
	}
}

func TestFeedback(t *testing.T) {
	s := New(scene.NewScene())
	r := geometry.Rect{X: 1, Y: 2, Width: 3, Height: 4}
	s.SetPreviewRect(&r)
	s.SetMarquee(&r)
	fb := s.State().Feedback
	if fb.PreviewRect == nil || *fb.PreviewRect != r || fb.Marquee == nil {
		t.Errorf("Feedback = %+v", fb)
	}
	s.SetPreviewRect(nil)
	if s.State().Feedback.PreviewRect != nil {
		t.Error("preview rect should be cleared")
	}
}

func TestScreenWorldRoundTrip(t *testing.T) {
	viewports := []Viewport{
		{X: 0, Y: 0, Zoom: 1},
		{X: 120, Y: -40, Zoom: 2.5},
		{X: -3.3, Y: 7.1, Zoom: 0.1},
		{X: 1e4, Y: 1e4, Zoom: 13},
	}
	points := []geometry.Vec2{{X: 0, Y: 0}, {X: 15.5, Y: -22}, {X: 1000, Y: 3}}
	for _, vp := range viewports {
		for _, p := range points {
			got := ScreenToWorld(vp, WorldToScreen(vp, p))
			if !got.Equals(p, 1e-9*math.Max(1, math.Abs(vp.X)+math.Abs(p.X))) {
				t.Errorf("vp %+v: round trip of %v = %v", vp, p, got)
			}
		}
	}
}

func TestWorldToScreen(t *testing.T) {
	vp := Viewport{X: 10, Y: 20, Zoom: 2}
	if got := WorldToScreen(vp, geometry.V(15, 25)); got != geometry.V(10, 10) {
		t.Errorf("WorldToScreen = %v, want (10,10)", got)
	}
}

func TestZoomAtKeepsAnchorFixed(t *testing.T) {
	vp := Viewport{X: 5, Y: 5, Zoom: 1}
	anchor := geometry.V(100, 50)
	before := ScreenToWorld(vp, anchor)

	next := vp.ZoomedAt(2, anchor, ZoomLimits{})
	if next.Zoom != 2 {
		t.Fatalf("Zoom = %v, want 2", next.Zoom)
	}
	after := ScreenToWorld(next, anchor)
	if !after.Equals(before, 1e-9) {
		t.Errorf("anchor moved from %v to %v", before, after)
	}
}

func TestZoomAtLimits(t *testing.T) {
	vp := DefaultViewport()
	limits := ZoomLimits{Min: 0.5, Max: 4}
	if got := vp.ZoomedAt(100, geometry.V(0, 0), limits).Zoom; got != 4 {
		t.Errorf("zoom = %v, want clamped to 4", got)
	}
	if got := vp.ZoomedAt(0.01, geometry.V(0, 0), limits).Zoom; got != 0.5 {
		t.Errorf("zoom = %v, want clamped to 0.5", got)
	}
	if got := vp.ZoomedAt(-1, geometry.V(0, 0), limits); got != vp {
		t.Errorf("negative factor changed viewport to %+v", got)
	}
}

func TestPan(t *testing.T) {
	s := New(scene.NewScene())
	s.Pan(3, -2)
	if got := s.State().Viewport; got != (Viewport{X: 3, Y: -2, Zoom: 1}) {
		t.Errorf("Viewport = %+v", got)
	}
}

func TestScreenToWorldZeroZoom(t *testing.T) {
	p := geometry.V(12, -3)
	if got := ScreenToWorld(Viewport{X: 40, Y: 40}, p); got != p {
		t.Errorf("ScreenToWorld with zero zoom = %v, want %v", got, p)
	}
}

func TestVisibleWorldRect(t *testing.T) {
	got := VisibleWorldRect(Viewport{X: 10, Y: 10, Zoom: 2}, 200, 100)
	want := geometry.Rect{X: 10, Y: 10, Width: 100, Height: 50}
	if got != want {
		t.Errorf("VisibleWorldRect = %+v, want %+v", got, want)
	}
}
