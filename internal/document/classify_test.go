package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEntity(t *testing.T, src string) Entity {
	t.Helper()
	attrs, err := parseAttributes(json.RawMessage(src))
	require.NoError(t, err)
	return newEntity(attrs)
}

func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Kind
	}{
		{"text before arc", `{"content":"A","center_x":1,"center_y":2,"radius":3}`, KindText},
		{"text before line", `{"content":"A","start_x":0,"start_y":0,"end_x":1,"end_y":1}`, KindText},
		{"image before point", `{"image_path":"a.bmp","x":1,"y":2}`, KindImage},
		{"arc", `{"center_x":0,"center_y":0,"radius":5}`, KindArc},
		{"line", `{"start_x":0,"start_y":0,"end_x":1,"end_y":1}`, KindLine},
		{"center blocks line", `{"start_x":0,"end_x":1,"center_x":3}`, KindUnknown},
		{"point", `{"x":3,"y":4}`, KindPoint},
		{"solid", `{"point1_x":1,"point1_y":2}`, KindSolid},
		{"block", `{"def_number":7}`, KindBlock},
		{"unknown", `{"foo":1}`, KindUnknown},
		{"nested points", `{"start":{"x":0,"y":0},"end":{"x":5,"y":5}}`, KindLine},
		{"variant wrapper", `{"_0":{"center":{"x":0,"y":0},"radius":2}}`, KindArc},
		{"null ignored", `{"content":null,"x":1,"y":1}`, KindPoint},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mustEntity(t, tc.src).Kind)
		})
	}
}

func TestClassifyIgnoresAttributeOrder(t *testing.T) {
	a := mustEntity(t, `{"radius":3,"center_x":1,"content":"A","center_y":2}`)
	b := mustEntity(t, `{"content":"A","center_y":2,"center_x":1,"radius":3}`)
	assert.Equal(t, KindText, a.Kind)
	assert.Equal(t, a.Kind, b.Kind)
}

func TestNewEntityFields(t *testing.T) {
	e := mustEntity(t, `{"base":{"layer":3,"pen_color":4,"pen_width":2},"center_x":10,"center_y":20,"radius":5,"start_angle":0.5,"arc_angle":1.5,"is_full_circle":false}`)
	require.NotNil(t, e.Arc)
	assert.Equal(t, Base{Layer: 3, PenColor: 4, PenWidth: 2}, e.Base)
	assert.Equal(t, Point{X: 10, Y: 20}, e.Arc.Center)
	assert.Equal(t, 5.0, e.Arc.Radius)
	assert.Equal(t, 1.5, e.Arc.ArcAngle)
	assert.Equal(t, 10.0, e.Raw["center_x"])

	img := mustEntity(t, `{"image_path":"x.png","x":1,"y":2}`)
	require.NotNil(t, img.Image)
	assert.Equal(t, 100.0, img.Image.Width)
	assert.Equal(t, 100.0, img.Image.Height)

	txt := mustEntity(t, `{"content":"hi","start_x":1,"start_y":2}`)
	require.NotNil(t, txt.Text)
	assert.Nil(t, txt.Text.End)

	partial := mustEntity(t, `{"content":"hi","start_x":1,"start_y":2,"end_x":9}`)
	require.NotNil(t, partial.Text.End)
	assert.Equal(t, Point{X: 9, Y: 2}, *partial.Text.End)
}

func TestArcMissingRadiusDefaults(t *testing.T) {
	// Without a radius the entity is not an arc at all; with radius 0 it is
	// a degenerate arc.
	e := mustEntity(t, `{"center_x":1,"center_y":1,"radius":0}`)
	require.Equal(t, KindArc, e.Kind)
	assert.Zero(t, e.Arc.Radius)
	assert.Zero(t, e.Arc.ArcAngle)
}
