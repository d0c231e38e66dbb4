// Package commands holds the reversible scene edits recorded by the history.
// Each command captures the values it overwrites when it is built (or, for
// Delete, when it is first applied) and writes through Store.Update, so every
// apply or revert is a single store notification.
package commands

import (
	"errors"
	"fmt"

	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
	"github.com/Yashodeeps/tessera/internal/store"
)

var (
	// ErrNodeNotFound is returned when a command targets an id that is not in
	// the scene at apply or revert time.
	ErrNodeNotFound = errors.New("node not found")
	// ErrNodeExists is returned when a command would insert an id twice.
	ErrNodeExists = errors.New("node already exists")
	// ErrNotShape is returned when a shape-only edit targets another kind.
	ErrNotShape = errors.New("node is not a shape")
)

func notFound(op, id string) error {
	return fmt.Errorf("%s %s: %w", op, id, ErrNodeNotFound)
}

// CreateShape inserts a shape node under a layer.
type CreateShape struct {
	store   *store.Store
	layerID string
	node    scene.Node
}

func NewCreateShape(s *store.Store, layerID string, node scene.Node) *CreateShape {
	n := node.Clone()
	n.Parent = layerID
	return &CreateShape{store: s, layerID: layerID, node: n}
}

func (c *CreateShape) Name() string { return "create-shape " + c.node.ID }

// NodeID returns the id of the node the command creates.
func (c *CreateShape) NodeID() string { return c.node.ID }

func (c *CreateShape) Apply() error {
	sc := c.store.State().Scene
	if !sc.Has(c.layerID) {
		return notFound("create-shape: parent", c.layerID)
	}
	if sc.Has(c.node.ID) {
		return fmt.Errorf("create-shape %s: %w", c.node.ID, ErrNodeExists)
	}
	c.store.ReplaceScene(scene.AddNode(sc, c.node))
	return nil
}

func (c *CreateShape) Revert() error {
	sc := c.store.State().Scene
	if !sc.Has(c.node.ID) {
		return notFound("create-shape: revert", c.node.ID)
	}
	c.store.ReplaceScene(scene.RemoveNode(sc, c.node.ID))
	return nil
}

// Move sets a node's position.
type Move struct {
	store      *store.Store
	id         string
	prev, next geometry.Vec2
}

func NewMove(s *store.Store, id string, prev, next geometry.Vec2) *Move {
	return &Move{store: s, id: id, prev: prev, next: next}
}

func (c *Move) Name() string { return "move " + c.id }

func (c *Move) Apply() error  { return c.set(c.next) }
func (c *Move) Revert() error { return c.set(c.prev) }

func (c *Move) set(p geometry.Vec2) error {
	next, ok := c.store.State().Scene.UpdateNode(c.id, func(n *scene.Node) { n.SetPosition(p) })
	if !ok {
		return notFound("move", c.id)
	}
	c.store.ReplaceScene(next)
	return nil
}

// Bounds is the resizable geometry of a rect shape.
type Bounds struct {
	Position geometry.Vec2 `json:"position"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
}

// BoundsOf reads the resizable geometry of a shape node.
func BoundsOf(n scene.Node) Bounds {
	if n.Shape == nil {
		return Bounds{Position: n.Position()}
	}
	return Bounds{Position: n.Position(), Width: n.Shape.Width, Height: n.Shape.Height}
}

// ApplyBounds writes b into a shape node in place.
func ApplyBounds(n *scene.Node, b Bounds) {
	n.SetPosition(b.Position)
	if n.Shape != nil {
		n.Shape.Width = b.Width
		n.Shape.Height = b.Height
	}
}

// Resize sets a shape's size and position together, so undoing a drag on a
// north or west handle also restores the position.
type Resize struct {
	store      *store.Store
	id         string
	prev, next Bounds
}

func NewResize(s *store.Store, id string, prev, next Bounds) *Resize {
	return &Resize{store: s, id: id, prev: prev, next: next}
}

func (c *Resize) Name() string { return "resize " + c.id }

func (c *Resize) Apply() error  { return c.set(c.next) }
func (c *Resize) Revert() error { return c.set(c.prev) }

func (c *Resize) set(b Bounds) error {
	sc := c.store.State().Scene
	n, ok := sc.Node(c.id)
	if !ok {
		return notFound("resize", c.id)
	}
	if !n.IsShape() {
		return fmt.Errorf("resize %s: %w", c.id, ErrNotShape)
	}
	next, _ := sc.UpdateNode(c.id, func(n *scene.Node) { ApplyBounds(n, b) })
	c.store.ReplaceScene(next)
	return nil
}

// Rotate sets a node's rotation in radians.
type Rotate struct {
	store      *store.Store
	id         string
	prev, next float64
}

func NewRotate(s *store.Store, id string, prev, next float64) *Rotate {
	return &Rotate{store: s, id: id, prev: prev, next: next}
}

func (c *Rotate) Name() string { return "rotate " + c.id }

func (c *Rotate) Apply() error  { return c.set(c.next) }
func (c *Rotate) Revert() error { return c.set(c.prev) }

func (c *Rotate) set(r float64) error {
	next, ok := c.store.State().Scene.UpdateNode(c.id, func(n *scene.Node) { n.SetRotation(r) })
	if !ok {
		return notFound("rotate", c.id)
	}
	c.store.ReplaceScene(next)
	return nil
}
