package engine

import (
	"encoding/json"
	"slices"

	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
	"github.com/Yashodeeps/tessera/internal/store"
	"github.com/Yashodeeps/tessera/internal/tools"
)

// Draw ops, in the order a frame emits them.
const (
	OpShape     = "shape"
	OpSelection = "selection"
	OpHandle    = "handle"
	OpMarquee   = "marquee"
	OpPreview   = "preview"
)

// DrawCommand is a single drawing operation for a painter. A frame is a list
// of these in painter's order (back to front), overlays last.
type DrawCommand struct {
	Op        string          `json:"op"`
	NodeID    string          `json:"nodeId,omitempty"`    // For hit correlation
	Transform []float64       `json:"transform,omitempty"` // [a, b, c, d, e, f]; omitted when identity
	Shape     *geometry.Shape `json:"shape,omitempty"`
	Rect      *geometry.Rect  `json:"rect,omitempty"`
	Selected  bool            `json:"selected,omitempty"`
	Handle    string          `json:"handle,omitempty"`
}

// DisplayList compiles the current state into draw commands.
func (e *Engine) DisplayList() []DrawCommand {
	return CompileDrawCommands(e.store.State())
}

// CompileDrawCommands generates the draw command buffer for st: every shape
// in painter's order, then selection outlines, resize handles, the marquee
// and the creation preview.
func CompileDrawCommands(st store.CoreState) []DrawCommand {
	var out []DrawCommand
	for _, id := range st.Scene.RootLayers {
		compileNode(st.Scene, id, st.Selection, &out, 0)
	}

	for _, id := range st.Selection {
		n, ok := st.Scene.Node(id)
		if !ok || !n.IsShape() {
			continue
		}
		b, ok := n.Shape.Bounds()
		if !ok {
			continue
		}
		r := b.Rect()
		out = append(out, DrawCommand{Op: OpSelection, NodeID: id, Transform: nodeTransform(n), Rect: &r})
	}

	if len(st.Selection) == 1 {
		if n, ok := st.Scene.Node(st.Selection[0]); ok {
			for _, h := range tools.HandlesFor(n.Shape) {
				out = append(out, DrawCommand{
					Op:     OpHandle,
					NodeID: n.ID,
					Rect:   &geometry.Rect{X: h.Position.X, Y: h.Position.Y},
					Handle: string(h.Type),
				})
			}
		}
	}

	if m := st.Feedback.Marquee; m != nil {
		r := *m
		out = append(out, DrawCommand{Op: OpMarquee, Rect: &r})
	}
	if p := st.Feedback.PreviewRect; p != nil {
		r := *p
		out = append(out, DrawCommand{Op: OpPreview, Rect: &r})
	}
	return out
}

func compileNode(sc scene.Scene, id string, sel []string, out *[]DrawCommand, depth int) {
	if depth > maxDepth {
		return
	}
	n, ok := sc.Node(id)
	if !ok {
		return
	}
	if n.IsShape() {
		*out = append(*out, DrawCommand{
			Op:        OpShape,
			NodeID:    n.ID,
			Transform: nodeTransform(n),
			Shape:     n.Shape,
			Selected:  slices.Contains(sel, n.ID),
		})
		return
	}
	for _, c := range n.Children {
		compileNode(sc, c, sel, out, depth+1)
	}
}

const maxDepth = 256

// nodeTransform rotates about the node's pivot. Shape geometry is already in
// world coordinates, so an unrotated node needs no transform.
func nodeTransform(n scene.Node) []float64 {
	if n.Transform.Rotation == 0 {
		return nil
	}
	p := tools.Pivot(n)
	about := scene.Transform{Position: p, Rotation: n.Transform.Rotation, Scale: geometry.V(1, 1)}
	m := about.Matrix().Multiply(geometry.Translate(-p.X, -p.Y))
	if m.IsIdentity() {
		return nil
	}
	return m.ToSlice()
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
