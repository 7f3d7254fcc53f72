package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/svgjww/viewer/internal/document"
)

func line(layer int, x1, y1, x2, y2 float64) document.Entity {
	return document.Entity{
		Kind: document.KindLine,
		Base: document.Base{Layer: layer, PenColor: 1, PenWidth: 1},
		Line: &document.Line{Start: document.Point{X: x1, Y: y1}, End: document.Point{X: x2, Y: y2}},
	}
}

func TestTransformYIsInvolution(t *testing.T) {
	bounds := []document.Bounds{
		{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50},
		{MinX: -10, MinY: -300, MaxX: 10, MaxY: -20},
		{MinX: 0, MinY: 7, MaxX: 0, MaxY: 7},
	}
	for _, b := range bounds {
		tr := NewCoordinateTransform(b)
		assert.Equal(t, b.MaxY, tr.TransformY(b.MinY))
		assert.Equal(t, b.MinY, tr.TransformY(b.MaxY))
		for _, y := range []float64{-1000, -3.5, 0, 0.25, 42, 1e6} {
			assert.InDelta(t, y, tr.TransformY(tr.TransformY(y)), 1e-9)
		}
	}
}

func TestTransformPointKeepsX(t *testing.T) {
	tr := NewCoordinateTransform(document.Bounds{MaxX: 10, MaxY: 10})
	x, y := tr.TransformPoint(document.Point{X: 3, Y: 2})
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 8.0, y)
}

func TestComputeBoundsEmpty(t *testing.T) {
	assert.Equal(t, document.Bounds{MinX: 0, MinY: 0, MaxX: 400, MaxY: 300}, ComputeBounds(nil))

	onlySolids := []document.Entity{
		{Kind: document.KindSolid, Solid: &document.Solid{}},
		{Kind: document.KindBlock, Block: &document.Block{DefNumber: 1}},
		{Kind: document.KindUnknown},
	}
	assert.Equal(t, document.DefaultBounds, ComputeBounds(onlySolids))
}

func TestComputeBoundsSingleLine(t *testing.T) {
	b := ComputeBounds([]document.Entity{line(0, 0, 0, 100, 50)})
	assert.Equal(t, document.Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50}, b)

	tr := NewCoordinateTransform(b)
	assert.Equal(t, 0.0, tr.TransformY(50))
	assert.Equal(t, 50.0, tr.TransformY(0))
}

func TestComputeBoundsPerKind(t *testing.T) {
	tests := []struct {
		name   string
		entity document.Entity
		want   document.Bounds
	}{
		{
			name:   "partial arc uses full circle",
			entity: document.Entity{Kind: document.KindArc, Arc: &document.Arc{Center: document.Point{X: 10, Y: 10}, Radius: 5, ArcAngle: 0.1}},
			want:   document.Bounds{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15},
		},
		{
			name:   "point halo",
			entity: document.Entity{Kind: document.KindPoint, Point: &document.Point{X: 1, Y: 2}},
			want:   document.Bounds{MinX: -4, MinY: -3, MaxX: 6, MaxY: 7},
		},
		{
			name:   "text without end",
			entity: document.Entity{Kind: document.KindText, Text: &document.Text{Start: document.Point{X: 3, Y: 4}, Content: "a"}},
			want:   document.Bounds{MinX: 3, MinY: 4, MaxX: 3, MaxY: 4},
		},
		{
			name:   "text with end",
			entity: document.Entity{Kind: document.KindText, Text: &document.Text{Start: document.Point{X: 3, Y: 4}, End: &document.Point{X: 1, Y: 9}}},
			want:   document.Bounds{MinX: 1, MinY: 4, MaxX: 3, MaxY: 9},
		},
		{
			name:   "image",
			entity: document.Entity{Kind: document.KindImage, Image: &document.Image{X: 10, Y: 20, Width: 100, Height: 100}},
			want:   document.Bounds{MinX: 10, MinY: 20, MaxX: 110, MaxY: 120},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeBounds([]document.Entity{tc.entity}))
		})
	}
}

func TestComputeBoundsSkipsNonFinite(t *testing.T) {
	entities := []document.Entity{
		line(0, math.NaN(), 0, 1, 1),
		line(0, 2, 2, 4, 6),
	}
	assert.Equal(t, document.Bounds{MinX: 2, MinY: 2, MaxX: 4, MaxY: 6}, ComputeBounds(entities))
}

func TestDocumentBoundsPrefersDeclared(t *testing.T) {
	declared := &document.Bounds{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1}
	doc := &document.Document{Bounds: declared, Entities: []document.Entity{line(0, 0, 0, 100, 50)}}
	assert.Equal(t, *declared, documentBounds(doc))

	doc.Bounds = &document.Bounds{MinX: 5, MaxX: 1}
	assert.Equal(t, document.Bounds{MaxX: 100, MaxY: 50}, documentBounds(doc))
}

func TestInitialViewBoxPadding(t *testing.T) {
	vb := initialViewBox(document.Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50})
	assert.Equal(t, Rect{X: -20, Y: -20, Width: 140, Height: 90}, vb)
	assert.Equal(t, "-20 -20 140 90", vb.String())
}
