package scene

import (
	"slices"

	"github.com/Yashodeeps/tessera/internal/geometry"
)

type Kind string

const (
	KindLayer Kind = "layer"
	KindGroup Kind = "group"
	KindShape Kind = "shape"
)

type Transform struct {
	Position geometry.Vec2 `json:"position"`
	Rotation float64       `json:"rotation"`
	Scale    geometry.Vec2 `json:"scale"`
}

// IdentityTransform places a node at the origin, unrotated and unscaled.
func IdentityTransform() Transform {
	return Transform{Scale: geometry.V(1, 1)}
}

// Matrix returns the local affine matrix of the transform.
func (t Transform) Matrix() geometry.Matrix2D {
	return geometry.FromTransform(t.Position, t.Rotation, t.Scale)
}

// Node is one entry of the scene graph. Kind selects the variant; Shape is
// set only on shape nodes and Children is only used by layers and groups.
// Parent is a lookup key into Scene.Nodes, never an owning reference.
type Node struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Parent    string          `json:"parent,omitempty"`
	Children  []string        `json:"children"`
	Transform Transform       `json:"transform"`
	Shape     *geometry.Shape `json:"shape,omitempty"`
}

// Clone returns a copy of n that shares no slices or pointers with it.
func (n Node) Clone() Node {
	n.Children = slices.Clone(n.Children)
	if n.Children == nil {
		n.Children = []string{}
	}
	if n.Shape != nil {
		s := n.Shape.Clone()
		n.Shape = &s
	}
	return n
}

func (n Node) IsShape() bool { return n.Kind == KindShape && n.Shape != nil }

// Position returns the node position, taken from the transform.
func (n Node) Position() geometry.Vec2 {
	return n.Transform.Position
}

// SetPosition moves the node, keeping the shape's redundant position in step.
func (n *Node) SetPosition(p geometry.Vec2) {
	n.Transform.Position = p
	if n.Shape != nil {
		n.Shape.Position = p
	}
}

// SetRotation rotates the node, keeping the shape's redundant rotation in step.
func (n *Node) SetRotation(r float64) {
	n.Transform.Rotation = r
	if n.Shape != nil {
		n.Shape.Rotation = r
	}
}

// CreateLayer returns an empty root layer.
func CreateLayer(id string) Node {
	return Node{
		ID:        id,
		Kind:      KindLayer,
		Children:  []string{},
		Transform: IdentityTransform(),
	}
}

// CreateGroup returns an empty group under parent ("" for none).
func CreateGroup(id, parent string) Node {
	return Node{
		ID:        id,
		Kind:      KindGroup,
		Parent:    parent,
		Children:  []string{},
		Transform: IdentityTransform(),
	}
}

// CreateShape returns a shape node whose transform mirrors the shape's own
// position, rotation and scale.
func CreateShape(id string, shape geometry.Shape, parent string) Node {
	s := shape.Clone()
	if s.Scale == (geometry.Vec2{}) {
		s.Scale = geometry.V(1, 1)
	}
	return Node{
		ID:       id,
		Kind:     KindShape,
		Parent:   parent,
		Children: []string{},
		Transform: Transform{
			Position: s.Position,
			Rotation: s.Rotation,
			Scale:    s.Scale,
		},
		Shape: &s,
	}
}
