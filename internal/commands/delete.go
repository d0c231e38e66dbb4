package commands

import (
	"fmt"
	"slices"

	"github.com/Yashodeeps/tessera/internal/scene"
	"github.com/Yashodeeps/tessera/internal/store"
)

// Delete removes nodes with their subtrees. Apply records everything it
// removes, the child order of every parent it touches, the root layer order
// and the selection, and Revert puts all of it back.
type Delete struct {
	store *store.Store
	ids   []string

	removed    map[string]scene.Node
	parents    map[string][]string
	rootLayers []string
	selection  []string
}

func NewDelete(s *store.Store, ids []string) *Delete {
	return &Delete{store: s, ids: store.NormalizeSelection(ids)}
}

func (c *Delete) Name() string { return fmt.Sprintf("delete %v", c.ids) }

// IDs returns the ids the command was asked to delete.
func (c *Delete) IDs() []string { return slices.Clone(c.ids) }

func (c *Delete) Apply() error {
	st := c.store.State()
	sc := st.Scene
	for _, id := range c.ids {
		if !sc.Has(id) {
			return notFound("delete", id)
		}
	}

	removed := make(map[string]scene.Node)
	for _, id := range c.ids {
		for _, r := range sc.Subtree(id) {
			if n, ok := sc.Node(r); ok {
				removed[r] = n
			}
		}
	}
	parents := make(map[string][]string)
	for _, n := range removed {
		if n.Parent == "" {
			continue
		}
		if _, gone := removed[n.Parent]; gone {
			continue
		}
		if p, ok := sc.Nodes[n.Parent]; ok {
			parents[n.Parent] = slices.Clone(p.Children)
		}
	}

	c.removed = removed
	c.parents = parents
	c.rootLayers = slices.Clone(sc.RootLayers)
	c.selection = slices.Clone(st.Selection)

	next := sc
	for _, id := range c.ids {
		next = scene.RemoveNode(next, id)
	}
	c.store.ReplaceScene(next)
	return nil
}

func (c *Delete) Revert() error {
	if c.removed == nil {
		return fmt.Errorf("delete %v: revert before apply", c.ids)
	}
	sc := c.store.State().Scene
	for id := range c.removed {
		if sc.Has(id) {
			return fmt.Errorf("delete: restore %s: %w", id, ErrNodeExists)
		}
	}
	for pid := range c.parents {
		if !sc.Has(pid) {
			return notFound("delete: restore parent", pid)
		}
	}

	out := sc.Clone()
	for id, n := range c.removed {
		out.Nodes[id] = n.Clone()
	}
	for pid, children := range c.parents {
		p := out.Nodes[pid]
		p.Children = slices.Clone(children)
		out.Nodes[pid] = p
	}
	out.RootLayers = slices.Clone(c.rootLayers)
	sel := slices.Clone(c.selection)

	c.store.Update(func(st store.CoreState) store.CoreState {
		st.Scene = out
		st.Selection = store.PruneSelection(sel, out)
		return st
	})
	return nil
}
