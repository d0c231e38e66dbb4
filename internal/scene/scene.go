package scene

import (
	"fmt"
	"maps"
	"slices"
)

// Scene owns every node by id. RootLayers orders the layers for painting and
// hit-testing; the last entry is topmost.
//
// Scene values are treated as immutable: every operation in this package
// returns a new Scene and leaves its input untouched.
type Scene struct {
	Nodes      map[string]Node `json:"nodes"`
	RootLayers []string        `json:"rootLayers"`
}

// NewScene creates an empty scene.
func NewScene() Scene {
	return Scene{
		Nodes:      make(map[string]Node),
		RootLayers: []string{},
	}
}

// Clone returns a deep copy of s.
func (s Scene) Clone() Scene {
	out := Scene{
		Nodes:      make(map[string]Node, len(s.Nodes)),
		RootLayers: slices.Clone(s.RootLayers),
	}
	if out.RootLayers == nil {
		out.RootLayers = []string{}
	}
	for id, n := range s.Nodes {
		out.Nodes[id] = n.Clone()
	}
	return out
}

// Node looks up a node by id. The returned node is a copy.
func (s Scene) Node(id string) (Node, bool) {
	n, ok := s.Nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.Clone(), true
}

func (s Scene) Has(id string) bool {
	_, ok := s.Nodes[id]
	return ok
}

// Len returns the number of nodes in the scene.
func (s Scene) Len() int { return len(s.Nodes) }

// AddNode inserts node. Layers are appended to RootLayers. When node.Parent
// names an existing node the id is appended to its children; a missing
// parent leaves the link out but the node is still inserted. Re-adding an
// existing id replaces it and moves it to its new parent.
func AddNode(s Scene, node Node) Scene {
	out := s.Clone()
	n := node.Clone()
	if old, ok := out.Nodes[n.ID]; ok && old.Parent != n.Parent {
		if p, ok := out.Nodes[old.Parent]; ok {
			p.Children = slices.DeleteFunc(p.Children, func(c string) bool { return c == n.ID })
			out.Nodes[old.Parent] = p
		}
	}
	if old, ok := out.Nodes[n.ID]; ok && old.Kind == KindLayer && n.Kind != KindLayer {
		out.RootLayers = slices.DeleteFunc(out.RootLayers, func(c string) bool { return c == n.ID })
	}
	out.Nodes[n.ID] = n

	if n.Kind == KindLayer && !slices.Contains(out.RootLayers, n.ID) {
		out.RootLayers = append(out.RootLayers, n.ID)
	}
	if n.Parent != "" {
		if p, ok := out.Nodes[n.Parent]; ok && !slices.Contains(p.Children, n.ID) {
			p.Children = append(p.Children, n.ID)
			out.Nodes[n.Parent] = p
		}
	}
	return out
}

// RemoveNode deletes id and its whole subtree, strips every removed id from
// the remaining nodes' children and drops removed layers from RootLayers.
// Removing an unknown id returns an equivalent scene.
func RemoveNode(s Scene, id string) Scene {
	out := s.Clone()
	removed := make(map[string]struct{})
	for _, r := range out.Subtree(id) {
		removed[r] = struct{}{}
		delete(out.Nodes, r)
	}

	for nid, n := range out.Nodes {
		n.Children = slices.DeleteFunc(n.Children, func(c string) bool {
			_, gone := removed[c]
			return gone
		})
		out.Nodes[nid] = n
	}

	out.RootLayers = slices.DeleteFunc(out.RootLayers, func(l string) bool {
		_, gone := removed[l]
		return gone
	})
	return out
}

// UpdateNode returns a copy of s in which fn has been applied to a copy of
// node id. ok is false, and s is returned unchanged, when id is missing.
// fn must not change the node's ID, Parent or Children.
func (s Scene) UpdateNode(id string, fn func(n *Node)) (Scene, bool) {
	if !s.Has(id) {
		return s, false
	}
	out := s.Clone()
	n := out.Nodes[id]
	fn(&n)
	out.Nodes[id] = n
	return out, true
}

// Subtree returns id followed by all of its descendants in depth-first order.
// Ids listed as children but absent from the node map are still reported.
func (s Scene) Subtree(id string) []string {
	var out []string
	seen := make(map[string]struct{})
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, dup := seen[cur]; dup {
			continue
		}
		seen[cur] = struct{}{}
		out = append(out, cur)

		n, ok := s.Nodes[cur]
		if !ok {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}

// Shapes returns the ids of every shape node, sorted.
func (s Scene) Shapes() []string {
	ids := make([]string, 0, len(s.Nodes))
	for id, n := range s.Nodes {
		if n.IsShape() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// IDs returns every node id, sorted.
func (s Scene) IDs() []string {
	return slices.Sorted(maps.Keys(s.Nodes))
}

// Validate checks the structural invariants of the scene graph.
func (s Scene) Validate() error {
	seenLayer := make(map[string]struct{}, len(s.RootLayers))
	for _, id := range s.RootLayers {
		n, ok := s.Nodes[id]
		if !ok {
			return fmt.Errorf("root layer %q: not in node map", id)
		}
		if n.Kind != KindLayer {
			return fmt.Errorf("root layer %q: kind is %s", id, n.Kind)
		}
		if _, dup := seenLayer[id]; dup {
			return fmt.Errorf("root layer %q: listed twice", id)
		}
		seenLayer[id] = struct{}{}
	}

	for _, id := range s.IDs() {
		n := s.Nodes[id]
		if n.ID != id {
			return fmt.Errorf("node %q: stored under key %q", n.ID, id)
		}
		if n.Kind == KindShape && n.Shape == nil {
			return fmt.Errorf("node %q: shape node without shape", id)
		}
		if n.Kind == KindShape && len(n.Children) > 0 {
			return fmt.Errorf("node %q: shape node has children", id)
		}
		for _, c := range n.Children {
			child, ok := s.Nodes[c]
			if !ok {
				return fmt.Errorf("node %q: child %q not in node map", id, c)
			}
			if child.Parent != id {
				return fmt.Errorf("node %q: child %q has parent %q", id, c, child.Parent)
			}
		}
		if n.Parent != "" {
			p, ok := s.Nodes[n.Parent]
			if !ok {
				return fmt.Errorf("node %q: parent %q not in node map", id, n.Parent)
			}
			if !slices.Contains(p.Children, id) {
				return fmt.Errorf("node %q: missing from children of parent %q", id, n.Parent)
			}
		}
		if err := s.checkAcyclic(id); err != nil {
			return err
		}
	}
	return nil
}

func (s Scene) checkAcyclic(id string) error {
	seen := map[string]struct{}{id: {}}
	cur := s.Nodes[id].Parent
	for cur != "" {
		if _, loop := seen[cur]; loop {
			return fmt.Errorf("node %q: parent chain loops through %q", id, cur)
		}
		seen[cur] = struct{}{}
		p, ok := s.Nodes[cur]
		if !ok {
			return nil
		}
		cur = p.Parent
	}
	return nil
}
