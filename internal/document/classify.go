package document

import (
	"encoding/json"
	"fmt"
	"strings"
)

// attributes is the flattened attribute set of one parser entity. Nested
// point objects are flattened to name_x / name_y, and a "base" object is
// merged into the top level.
type attributes struct {
	nums  map[string]float64
	strs  map[string]string
	bools map[string]bool
}

func (a attributes) has(name string) bool {
	if _, ok := a.nums[name]; ok {
		return true
	}
	if _, ok := a.strs[name]; ok {
		return true
	}
	_, ok := a.bools[name]
	return ok
}

func (a attributes) num(name string) float64 {
	return a.nums[name]
}

func (a attributes) integer(name string) int {
	return int(a.nums[name])
}

func (a attributes) point(prefix string) Point {
	return Point{X: a.nums[prefix+"_x"], Y: a.nums[prefix+"_y"]}
}

// parseAttributes flattens one raw entity object. Objects wrapped in a single
// variant key beginning with "_" are unwrapped first.
func parseAttributes(data json.RawMessage) (attributes, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return attributes{}, fmt.Errorf("entity is not an object: %w", err)
	}

	if len(fields) == 1 {
		for k, v := range fields {
			var inner map[string]json.RawMessage
			if strings.HasPrefix(k, "_") && json.Unmarshal(v, &inner) == nil {
				fields = inner
			}
		}
	}

	attrs := attributes{
		nums:  make(map[string]float64),
		strs:  make(map[string]string),
		bools: make(map[string]bool),
	}
	attrs.merge("", fields)
	return attrs, nil
}

func (a attributes) merge(prefix string, fields map[string]json.RawMessage) {
	for k, v := range fields {
		name := k
		if prefix != "" {
			name = prefix + "_" + k
		}
		if strings.TrimSpace(string(v)) == "null" {
			continue
		}

		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			a.nums[name] = f
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			a.strs[name] = s
			continue
		}
		var b bool
		if err := json.Unmarshal(v, &b); err == nil {
			a.bools[name] = b
			continue
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(v, &obj); err == nil {
			if k == "base" && prefix == "" {
				a.merge("", obj)
			} else {
				a.merge(name, obj)
			}
		}
	}
}

// Classify assigns a Kind using a fixed precedence. The order matters:
// Text also carries start/end, and Image carries x/y.
func classify(a attributes) Kind {
	switch {
	case a.has("content"):
		return KindText
	case a.has("image_path"):
		return KindImage
	case a.has("center_x") && a.has("radius"):
		return KindArc
	case a.has("start_x") && a.has("end_x") && !a.has("center_x"):
		return KindLine
	case a.has("x") && a.has("y") && !a.has("start_x") && !a.has("content"):
		return KindPoint
	case a.has("point1_x"):
		return KindSolid
	case a.has("def_number"):
		return KindBlock
	default:
		return KindUnknown
	}
}

// newEntity builds the typed entity for a flattened attribute set. Missing
// fields fall back to zero values; image size falls back to 100.
func newEntity(a attributes) Entity {
	e := Entity{
		Kind: classify(a),
		Base: Base{
			Layer:    a.integer("layer"),
			PenColor: a.integer("pen_color"),
			PenWidth: a.integer("pen_width"),
		},
		Raw: a.nums,
	}

	switch e.Kind {
	case KindLine:
		e.Line = &Line{Start: a.point("start"), End: a.point("end")}
	case KindArc:
		e.Arc = &Arc{
			Center:       a.point("center"),
			Radius:       a.num("radius"),
			StartAngle:   a.num("start_angle"),
			ArcAngle:     a.num("arc_angle"),
			IsFullCircle: a.bools["is_full_circle"],
		}
	case KindPoint:
		e.Point = &Point{X: a.num("x"), Y: a.num("y")}
	case KindText:
		t := &Text{
			Start:   a.point("start"),
			Content: a.strs["content"],
			SizeX:   a.num("size_x"),
			SizeY:   a.num("size_y"),
			Angle:   a.num("angle"),
			Spacing: a.num("spacing"),
		}
		if a.has("end_x") || a.has("end_y") {
			end := t.Start
			if v, ok := a.nums["end_x"]; ok {
				end.X = v
			}
			if v, ok := a.nums["end_y"]; ok {
				end.Y = v
			}
			t.End = &end
		}
		e.Text = t
	case KindSolid:
		e.Solid = &Solid{Points: [4]Point{
			a.point("point1"), a.point("point2"), a.point("point3"), a.point("point4"),
		}}
	case KindBlock:
		e.Block = &Block{DefNumber: a.integer("def_number")}
	case KindImage:
		img := &Image{
			X:         a.num("x"),
			Y:         a.num("y"),
			Width:     a.num("width"),
			Height:    a.num("height"),
			ImagePath: a.strs["image_path"],
			Rotation:  a.num("rotation"),
		}
		if img.Width == 0 {
			img.Width = 100
		}
		if img.Height == 0 {
			img.Height = 100
		}
		e.Image = img
	}
	return e
}
