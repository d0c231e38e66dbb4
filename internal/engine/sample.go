package engine

import (
	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
	"github.com/Yashodeeps/tessera/internal/typeid"
)

// SampleScene builds a starter scene: a background layer holding a rect and
// a grouped circle and triangle, and a guides layer holding one line.
func SampleScene() scene.Scene {
	backgroundID := typeid.NewLayerID()
	guidesID := typeid.NewLayerID()
	groupID := typeid.NewGroupID()

	sc := scene.NewScene()
	sc = scene.AddNode(sc, scene.CreateLayer(backgroundID))
	sc = scene.AddNode(sc, scene.CreateLayer(guidesID))
	sc = scene.AddNode(sc, scene.CreateShape(typeid.NewShapeID(), geometry.NewRect(100, 100, 200, 150), backgroundID))
	sc = scene.AddNode(sc, scene.CreateGroup(groupID, backgroundID))
	sc = scene.AddNode(sc, scene.CreateShape(typeid.NewShapeID(), geometry.NewCircle(500, 200, 60), groupID))
	sc = scene.AddNode(sc, scene.CreateShape(typeid.NewShapeID(),
		geometry.NewPolygon(geometry.V(0, 80), geometry.V(50, 0), geometry.V(100, 80)), groupID))
	sc = scene.AddNode(sc, scene.CreateShape(typeid.NewShapeID(),
		geometry.NewLine(geometry.V(0, 400), geometry.V(800, 400)), guidesID))
	return sc
}
