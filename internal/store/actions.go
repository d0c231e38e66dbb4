package store

import (
	"slices"

	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
)

// NormalizeSelection drops duplicates and empty ids, keeping first-seen order.
func NormalizeSelection(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *Store) SetSelection(ids []string) {
	sel := NormalizeSelection(ids)
	s.Update(func(st CoreState) CoreState {
		st.Selection = sel
		return st
	})
}

// SelectSingle selects only id, or clears the selection when id is empty.
func (s *Store) SelectSingle(id string) {
	if id == "" {
		s.SetSelection(nil)
		return
	}
	s.SetSelection([]string{id})
}

// ToggleSelection adds id to the end of the selection, or removes it if present.
func (s *Store) ToggleSelection(id string) {
	cur := s.state.Selection
	if slices.Contains(cur, id) {
		s.SetSelection(slices.DeleteFunc(slices.Clone(cur), func(x string) bool { return x == id }))
		return
	}
	s.SetSelection(append(slices.Clone(cur), id))
}

func (s *Store) SetViewport(vp Viewport) {
	s.Update(func(st CoreState) CoreState {
		st.Viewport = vp
		return st
	})
}

// Pan shifts the viewport by (dx, dy) world units.
func (s *Store) Pan(dx, dy float64) {
	s.SetViewport(s.state.Viewport.Panned(dx, dy))
}

// ZoomAt scales the viewport around a screen-space anchor.
func (s *Store) ZoomAt(factor float64, anchor geometry.Vec2, limits ZoomLimits) {
	s.SetViewport(s.state.Viewport.ZoomedAt(factor, anchor, limits))
}

func (s *Store) SetActiveTool(id string) {
	s.Update(func(st CoreState) CoreState {
		st.ActiveTool = id
		return st
	})
}

// ReplaceScene swaps in next and prunes selected ids that no longer exist.
func (s *Store) ReplaceScene(next scene.Scene) {
	s.Update(func(st CoreState) CoreState {
		st.Scene = next
		st.Selection = PruneSelection(st.Selection, next)
		return st
	})
}

// PruneSelection returns the ids of sel that still exist in sc.
func PruneSelection(sel []string, sc scene.Scene) []string {
	out := make([]string, 0, len(sel))
	for _, id := range sel {
		if sc.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Store) SetPreviewRect(r *geometry.Rect) {
	s.Update(func(st CoreState) CoreState {
		st.Feedback.PreviewRect = r
		return st
	})
}

func (s *Store) SetMarquee(r *geometry.Rect) {
	s.Update(func(st CoreState) CoreState {
		st.Feedback.Marquee = r
		return st
	})
}
