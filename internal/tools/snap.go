package tools

import (
	"math"

	"github.com/Yashodeeps/tessera/internal/geometry"
)

const (
	DefaultGridSize      = 10.0
	DefaultSnapThreshold = 10.0
)

// SnapToGrid rounds p to the nearest multiple of grid. A non-positive grid
// returns p unchanged.
func SnapToGrid(p geometry.Vec2, grid float64) geometry.Vec2 {
	if grid <= 0 {
		return p
	}
	return geometry.Vec2{
		X: math.Round(p.X/grid) * grid,
		Y: math.Round(p.Y/grid) * grid,
	}
}

// SnapToPoint returns the first target closer than threshold to p, or p.
func SnapToPoint(p geometry.Vec2, targets []geometry.Vec2, threshold float64) geometry.Vec2 {
	for _, t := range targets {
		if p.Distance(t) < threshold {
			return t
		}
	}
	return p
}

// SnapToLine projects p onto the nearest of lines when that projection is
// closer than threshold. Zero-length lines are ignored.
func SnapToLine(p geometry.Vec2, lines []geometry.Line, threshold float64) geometry.Vec2 {
	best, bestDist := p, threshold
	for _, l := range lines {
		if l.A == l.B {
			continue
		}
		proj := l.ClosestPoint(p)
		if d := p.Distance(proj); d < bestDist {
			best, bestDist = proj, d
		}
	}
	return best
}
