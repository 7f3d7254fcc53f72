package document

import "math"

// NewSampleDocument returns a small drawing exercising every entity kind.
// Used by the viewer's demo mode and by tests.
func NewSampleDocument() *Document {
	entities := []Entity{
		// Frame on layer 0
		lineEntity(0, 1, 0, 0, 400, 0),
		lineEntity(0, 1, 400, 0, 400, 280),
		lineEntity(0, 1, 400, 280, 0, 280),
		lineEntity(0, 1, 0, 280, 0, 0),

		// Title block on layer 1
		lineEntity(1, 3, 260, 0, 260, 40),
		lineEntity(1, 3, 260, 40, 400, 40),
		{
			Kind: KindText,
			Base: Base{Layer: 1, PenColor: 2, PenWidth: 1},
			Text: &Text{
				Start:   Point{X: 270, Y: 15},
				End:     &Point{X: 390, Y: 15},
				Content: "SAMPLE 図面\nsvg-jww viewer",
				SizeX:   8,
				SizeY:   8,
			},
		},

		// Geometry on layer 2
		{
			Kind: KindArc,
			Base: Base{Layer: 2, PenColor: 4, PenWidth: 1},
			Arc:  &Arc{Center: Point{X: 120, Y: 150}, Radius: 60, IsFullCircle: true},
		},
		{
			Kind: KindArc,
			Base: Base{Layer: 2, PenColor: 5, PenWidth: 2},
			Arc:  &Arc{Center: Point{X: 120, Y: 150}, Radius: 80, StartAngle: 0, ArcAngle: math.Pi / 2},
		},
		{
			Kind:  KindPoint,
			Base:  Base{Layer: 2, PenColor: 8},
			Point: &Point{X: 120, Y: 150},
		},
		{
			Kind: KindSolid,
			Base: Base{Layer: 2, PenColor: 6},
			Solid: &Solid{Points: [4]Point{
				{X: 250, Y: 100}, {X: 330, Y: 100}, {X: 330, Y: 180}, {X: 250, Y: 180},
			}},
		},
		{
			Kind: KindText,
			Base: Base{Layer: 2, PenColor: 2},
			Text: &Text{
				Start:   Point{X: 250, Y: 200},
				Content: "rotated",
				SizeX:   6,
				SizeY:   10,
				Angle:   30,
			},
		},
		{
			Kind:  KindImage,
			Base:  Base{Layer: 3},
			Image: &Image{X: 20, Y: 200, Width: 60, Height: 40, ImagePath: `%temp%\images\logo.bmp`},
		},
	}

	return &Document{
		Version:   700,
		Memo:      "sample drawing",
		PaperSize: 3,
		Layers: []Layer{
			{ID: 0, Name: "frame", Visible: true},
			{ID: 1, Name: "title", Visible: true},
			{ID: 2, Name: "geometry", Visible: true},
			{ID: 3, Name: "images", Visible: true},
		},
		Entities:      entities,
		PrintSettings: &PrintSettings{Scale: 1},
		EntityCounts:  CountEntities(entities),
	}
}

func lineEntity(layer, pen int, x1, y1, x2, y2 float64) Entity {
	return Entity{
		Kind: KindLine,
		Base: Base{Layer: layer, PenColor: pen, PenWidth: 1},
		Line: &Line{Start: Point{X: x1, Y: y1}, End: Point{X: x2, Y: y2}},
	}
}
