package engine

import (
	"math"

	"github.com/svgjww/viewer/internal/document"
)

const (
	// pointHalo is the visual radius reserved around a point entity.
	pointHalo = 5.0

	// ViewPadding is added around the bounds when the initial viewBox is set.
	ViewPadding = 20.0
)

// ComputeBounds folds the per-entity boxes of all entities into one
// rectangle. Solids, blocks and unknown entities do not contribute. When no
// entity yields a box the fixed default is returned.
func ComputeBounds(entities []document.Entity) document.Bounds {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	found := false

	for i := range entities {
		b, ok := entityBounds(&entities[i])
		if !ok {
			continue
		}
		found = true
		minX = math.Min(minX, b.MinX)
		minY = math.Min(minY, b.MinY)
		maxX = math.Max(maxX, b.MaxX)
		maxY = math.Max(maxY, b.MaxY)
	}

	if !found {
		return document.DefaultBounds
	}
	return document.Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// entityBounds returns the document-space box of one entity. Arcs always use
// the full circle, even when only a short sweep is drawn.
func entityBounds(e *document.Entity) (document.Bounds, bool) {
	var b document.Bounds
	switch e.Kind {
	case document.KindLine:
		if e.Line == nil {
			return b, false
		}
		b = spanBounds(e.Line.Start, e.Line.End)
	case document.KindArc:
		if e.Arc == nil {
			return b, false
		}
		c, r := e.Arc.Center, math.Abs(e.Arc.Radius)
		b = document.Bounds{MinX: c.X - r, MinY: c.Y - r, MaxX: c.X + r, MaxY: c.Y + r}
	case document.KindPoint:
		if e.Point == nil {
			return b, false
		}
		p := *e.Point
		b = document.Bounds{MinX: p.X - pointHalo, MinY: p.Y - pointHalo, MaxX: p.X + pointHalo, MaxY: p.Y + pointHalo}
	case document.KindText:
		if e.Text == nil {
			return b, false
		}
		end := e.Text.Start
		if e.Text.End != nil {
			end = *e.Text.End
		}
		b = spanBounds(e.Text.Start, end)
	case document.KindImage:
		if e.Image == nil {
			return b, false
		}
		img := e.Image
		b = spanBounds(document.Point{X: img.X, Y: img.Y}, document.Point{X: img.X + img.Width, Y: img.Y + img.Height})
	default:
		return b, false
	}

	if !finiteBounds(b) {
		return b, false
	}
	return b, true
}

func spanBounds(a, b document.Point) document.Bounds {
	return document.Bounds{
		MinX: math.Min(a.X, b.X),
		MinY: math.Min(a.Y, b.Y),
		MaxX: math.Max(a.X, b.X),
		MaxY: math.Max(a.Y, b.Y),
	}
}

func finiteBounds(b document.Bounds) bool {
	for _, v := range [4]float64{b.MinX, b.MinY, b.MaxX, b.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// documentBounds returns the bounds carried by the document when they are
// usable, otherwise recomputes them from the entities.
func documentBounds(doc *document.Document) document.Bounds {
	if b := doc.Bounds; b != nil && finiteBounds(*b) && b.MinX <= b.MaxX && b.MinY <= b.MaxY {
		return *b
	}
	return ComputeBounds(doc.Entities)
}

// initialViewBox pads the bounds on every side. Because the Y flip maps the
// vertical span onto itself, the render-space box has the same extent.
func initialViewBox(b document.Bounds) Rect {
	return Rect{
		X:      b.MinX - ViewPadding,
		Y:      b.MinY - ViewPadding,
		Width:  b.Width() + 2*ViewPadding,
		Height: b.Height() + 2*ViewPadding,
	}
}
