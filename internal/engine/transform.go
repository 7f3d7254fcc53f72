package engine

import "github.com/svgjww/viewer/internal/document"

// CoordinateTransform maps document Y-up coordinates to render Y-down
// coordinates by flipping around the vertical span of the bounds. X is never
// flipped. The zero value flips around 0.
type CoordinateTransform struct {
	minY float64
	maxY float64
}

func NewCoordinateTransform(b document.Bounds) CoordinateTransform {
	return CoordinateTransform{minY: b.MinY, maxY: b.MaxY}
}

// TransformY maps minY to maxY and maxY to minY. It is its own inverse.
func (t CoordinateTransform) TransformY(y float64) float64 {
	return t.maxY - (y - t.minY)
}

// TransformPoint maps a document point into render space.
func (t CoordinateTransform) TransformPoint(p document.Point) (float64, float64) {
	return p.X, t.TransformY(p.Y)
}
