package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragKeepsRotationPivotOnText(t *testing.T) {
	s := newSession(t)
	n := s.scene.NodesById["jww-e1"]
	n.Text.Rotation = -30

	require.True(t, s.drag.Begin(n, 0, 0))
	s.drag.Move(10, -5, 1)

	assert.Equal(t, 20.0, n.Text.X)
	assert.Equal(t, 15.0, n.Text.Y)
	assert.Equal(t, -30.0, n.Text.Rotation)
	assert.Equal(t, "rotate(-30 20 15)", TextTransform(n.Text))
	assert.True(t, s.drag.End())
	assert.False(t, s.drag.End())
}

func TestDragRefusesNonText(t *testing.T) {
	s := newSession(t)
	assert.False(t, s.drag.Begin(s.scene.NodesById["jww-e0"], 0, 0))
	assert.False(t, s.drag.Begin(nil, 0, 0))
	assert.False(t, s.drag.Move(1, 1, 1))
}

func TestFontScaleIsAbsolute(t *testing.T) {
	s := newSession(t)
	tp := s.scene.NodesById["jww-e1"].Text
	base := tp.BaseFontSize

	s.drag.SetFontScale(2)
	s.drag.SetFontScale(2)
	assert.Equal(t, base*2, tp.FontSize)

	assert.Equal(t, MaxFontScale, s.drag.SetFontScale(10))
	assert.Equal(t, MinFontScale, s.drag.SetFontScale(0.01))
	assert.Equal(t, base*MinFontScale, tp.FontSize)
}

func TestResetPositionsRestoresTextAndScale(t *testing.T) {
	s := newSession(t)
	n := s.scene.NodesById["jww-e1"]
	before := n.Bounds

	s.drag.Begin(n, 0, 0)
	s.drag.Move(30, 30, 2)
	s.drag.End()
	s.drag.SetFontScale(1.5)
	require.NotEqual(t, before, n.Bounds)

	s.drag.ResetPositions()
	assert.Equal(t, n.Text.OrigX, n.Text.X)
	assert.Equal(t, n.Text.OrigY, n.Text.Y)
	assert.Equal(t, 1.0, s.drag.FontScale())
	assert.Equal(t, n.Text.BaseFontSize, n.Text.FontSize)
	assert.Equal(t, before, n.Bounds)
}

func TestTextTransformScale(t *testing.T) {
	tp := &TextPrimitive{X: 5, Y: 6, ScaleX: 0.5}
	assert.Equal(t, "translate(5 6) scale(0.5 1) translate(-5 -6)", TextTransform(tp))

	tp.ScaleX = 1
	assert.Empty(t, TextTransform(tp))

	// a full turn places the text exactly as no rotation does
	tp.Rotation = -360
	assert.Empty(t, TextTransform(tp))
}

func TestTextMatrixMatchesTransform(t *testing.T) {
	tp := &TextPrimitive{X: 5, Y: 6, ScaleX: 2, Rotation: 90}
	// local point one unit right of the anchor: scaled to 2, then rotated
	// clockwise on screen to point down
	x, y := tp.Matrix().TransformPoint(6, 6)
	assert.InDelta(t, 5, x, 1e-9)
	assert.InDelta(t, 8, y, 1e-9)
}
