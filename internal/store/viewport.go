package store

import "github.com/Yashodeeps/tessera/internal/geometry"

// Viewport maps world space to screen space: X and Y are the world
// coordinates of the screen's top-left corner, Zoom is the scale (1 = 100%).
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

func DefaultViewport() Viewport {
	return Viewport{Zoom: 1}
}

// Matrix returns the world-to-screen matrix: Scale(zoom) * Translate(-x, -y).
func (vp Viewport) Matrix() geometry.Matrix2D {
	return geometry.ScaleMatrix(vp.Zoom, vp.Zoom).Multiply(geometry.Translate(-vp.X, -vp.Y))
}

// WorldToScreen converts a world point to screen space.
func WorldToScreen(vp Viewport, p geometry.Vec2) geometry.Vec2 {
	return vp.Matrix().TransformPoint(p)
}

// ScreenToWorld converts a screen point to world space. A zero zoom maps
// points through unchanged.
func ScreenToWorld(vp Viewport, p geometry.Vec2) geometry.Vec2 {
	return vp.Matrix().Invert().TransformPoint(p)
}

// VisibleWorldRect returns the world-space rect covered by a screen of the
// given size.
func VisibleWorldRect(vp Viewport, screenW, screenH float64) geometry.Rect {
	return geometry.RectFromPoints(
		ScreenToWorld(vp, geometry.V(0, 0)),
		ScreenToWorld(vp, geometry.V(screenW, screenH)),
	)
}

// ZoomLimits bounds the zoom factor reachable through ZoomAt.
type ZoomLimits struct {
	Min float64
	Max float64
}

// ZoomedAt returns vp scaled by factor around screen point anchor, so that the
// world point under anchor stays under it. Non-positive factors return vp.
func (vp Viewport) ZoomedAt(factor float64, anchor geometry.Vec2, limits ZoomLimits) Viewport {
	if factor <= 0 || vp.Zoom == 0 {
		return vp
	}
	next := vp.Zoom * factor
	if limits.Min > 0 {
		next = max(next, limits.Min)
	}
	if limits.Max > 0 {
		next = min(next, limits.Max)
	}

	world := ScreenToWorld(vp, anchor)
	return Viewport{
		X:    world.X - anchor.X/next,
		Y:    world.Y - anchor.Y/next,
		Zoom: next,
	}
}

// Panned returns vp shifted by (dx, dy) world units.
func (vp Viewport) Panned(dx, dy float64) Viewport {
	vp.X += dx
	vp.Y += dy
	return vp
}
