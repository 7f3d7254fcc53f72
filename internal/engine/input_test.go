package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svgjww/viewer/internal/document"
)

type session struct {
	scene  *SceneGraph
	vp     *Viewport
	drag   *TextDragController
	picker *PickingController
	input  *InputController
}

// newSession builds a 100x100 drawing holding one line along y=50 and one
// text anchored at render (10, 20). The original viewBox is 140 units wide
// and the container 70 px, so one pixel is two scene units.
func newSession(t *testing.T) *session {
	t.Helper()
	doc := &document.Document{
		Bounds: &document.Bounds{MaxX: 100, MaxY: 100},
		Entities: []document.Entity{
			line(0, 0, 50, 100, 50),
			{
				Kind: document.KindText,
				Base: document.Base{Layer: 1},
				Text: &document.Text{Start: document.Point{X: 10, Y: 80}, Content: "label", SizeX: 4, SizeY: 4},
			},
		},
	}
	b := documentBounds(doc)
	sg := BuildScene(doc, NewCoordinateTransform(b), b, "")
	vp := NewViewport(sg.ViewBox, 70, 70)
	drag := NewTextDragController(sg)
	picker := NewPickingController(sg)
	return &session{
		scene:  sg,
		vp:     vp,
		drag:   drag,
		picker: picker,
		input:  NewInputController(sg, vp, drag, picker),
	}
}

func TestTextDragScenario(t *testing.T) {
	s := newSession(t)
	require.InDelta(t, 2.0, s.vp.UnitsPerPixel(), 1e-12)

	tp := s.scene.NodesById["jww-e1"].Text
	require.Equal(t, 10.0, tp.X)
	require.Equal(t, 20.0, tp.Y)

	s.input.Pointer(PointerEvent{Kind: PointerDown, X: 100, Y: 100, TargetID: "jww-e1-0"})
	res := s.input.Pointer(PointerEvent{Kind: PointerMove, X: 105, Y: 105})
	assert.True(t, res.Has(EffectText))
	assert.Equal(t, "jww-e1", res.Text.ID)
	assert.InDelta(t, 20, tp.X, 1e-9)
	assert.InDelta(t, 30, tp.Y, 1e-9)

	// the viewport did not pan
	ox, oy := s.vp.Offset()
	assert.Zero(t, ox)
	assert.Zero(t, oy)

	s.input.Pointer(PointerEvent{Kind: PointerUp, X: 105, Y: 105})
	assert.False(t, s.drag.Active())

	// the click that follows the drag does not pick
	s.input.Click(ClickEvent{X: 105, Y: 105, TargetID: "jww-e1-0"})
	assert.Nil(t, s.picker.Selected())
}

func TestClickAfterPanDoesNotPick(t *testing.T) {
	s := newSession(t)
	s.input.Pointer(PointerEvent{Kind: PointerDown, X: 10, Y: 10})
	res := s.input.Pointer(PointerEvent{Kind: PointerMove, X: 30, Y: 15})
	assert.True(t, res.Has(EffectView))
	s.input.Pointer(PointerEvent{Kind: PointerUp, X: 30, Y: 15})

	res = s.input.Click(ClickEvent{X: 30, Y: 15, TargetID: "jww-e0"})
	assert.False(t, res.Has(EffectSelection))
	assert.Nil(t, s.picker.Selected())

	// flags are consumed by that click
	s.input.Pointer(PointerEvent{Kind: PointerDown, X: 30, Y: 15})
	s.input.Pointer(PointerEvent{Kind: PointerUp, X: 30, Y: 15})
	res = s.input.Click(ClickEvent{X: 30, Y: 15, TargetID: "jww-e0"})
	assert.True(t, res.Has(EffectSelection))
	sel := s.picker.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, "jww-e0", sel.NodeID)
	assert.Equal(t, document.KindLine, sel.Meta.Type)
}

func TestClickOnBackgroundClears(t *testing.T) {
	s := newSession(t)
	s.input.Click(ClickEvent{TargetID: "jww-e0"})
	require.NotNil(t, s.picker.Selected())

	s.input.Click(ClickEvent{TargetID: "jww-background"})
	assert.Nil(t, s.picker.Selected())
}

func TestTextTargetNeverPans(t *testing.T) {
	s := newSession(t)
	s.input.Pointer(PointerEvent{Kind: PointerDown, X: 0, Y: 0, TargetID: "jww-e1"})
	s.input.Pointer(PointerEvent{Kind: PointerMove, X: 40, Y: 40})
	ox, oy := s.vp.Offset()
	assert.Zero(t, ox)
	assert.Zero(t, oy)
}

func TestTextDisabledPressNeitherDragsNorPans(t *testing.T) {
	s := newSession(t)
	s.input.TextEnabled = false

	res := s.input.Pointer(PointerEvent{Kind: PointerDown, X: 0, Y: 0, TargetID: "jww-e1-0"})
	assert.True(t, res.Handled)
	res = s.input.Pointer(PointerEvent{Kind: PointerMove, X: 40, Y: 40})
	assert.Zero(t, res.Effect)
	assert.False(t, s.drag.Active())
	ox, oy := s.vp.Offset()
	assert.Zero(t, ox)
	assert.Zero(t, oy)
	assert.Equal(t, 10.0, s.scene.NodesById["jww-e1"].Text.X)

	s.input.Pointer(PointerEvent{Kind: PointerUp, X: 40, Y: 40})
	res = s.input.Click(ClickEvent{X: 40, Y: 40, TargetID: "jww-e1-0"})
	assert.True(t, res.Has(EffectSelection))
	require.NotNil(t, s.picker.Selected())
	assert.Equal(t, "jww-e1", s.picker.Selected().NodeID)
}

func TestTextDisabledTouchDoesNotPan(t *testing.T) {
	s := newSession(t)
	s.input.TextEnabled = false

	s.input.Touch(TouchEvent{Kind: TouchStart, Touches: []TouchPoint{{X: 0, Y: 0}}, TargetID: "jww-e1"})
	res := s.input.Touch(TouchEvent{Kind: TouchMove, Touches: []TouchPoint{{X: 30, Y: 30}}})
	assert.Zero(t, res.Effect)
	ox, oy := s.vp.Offset()
	assert.Zero(t, ox)
	assert.Zero(t, oy)
}

func TestSecondaryButtonIgnored(t *testing.T) {
	s := newSession(t)
	s.input.Pointer(PointerEvent{Kind: PointerDown, Button: 2})
	res := s.input.Pointer(PointerEvent{Kind: PointerMove, X: 10, Y: 10})
	assert.Zero(t, res.Effect)
}

func TestPointerUpWithoutDownResets(t *testing.T) {
	s := newSession(t)
	res := s.input.Pointer(PointerEvent{Kind: PointerUp})
	assert.Zero(t, res.Effect)

	s.input.Pointer(PointerEvent{Kind: PointerDown, X: 5, Y: 5})
	s.input.Touch(TouchEvent{Kind: TouchEnd})
	res = s.input.Pointer(PointerEvent{Kind: PointerMove, X: 50, Y: 50})
	assert.Zero(t, res.Effect)
}

func TestPinchScenario(t *testing.T) {
	s := newSession(t)
	s.input.Touch(TouchEvent{Kind: TouchStart, Touches: []TouchPoint{{X: 25, Y: 35}, {X: 45, Y: 35}}})
	res := s.input.Touch(TouchEvent{Kind: TouchMove, Touches: []TouchPoint{{X: 15, Y: 35}, {X: 55, Y: 35}}})
	assert.True(t, res.Has(EffectView))
	assert.InDelta(t, 2.0, s.vp.Scale(), 1e-12)

	// midpoint stays fixed: screen 35 is the center, scene x 50
	x, _ := s.vp.ScreenToScene(35, 35)
	assert.InDelta(t, 50, x, 1e-9)

	s.input.Touch(TouchEvent{Kind: TouchMove, Touches: []TouchPoint{{X: 0, Y: 35}, {X: 1000, Y: 35}}})
	assert.Equal(t, MaxPinchScale, s.vp.Scale())

	s.input.Touch(TouchEvent{Kind: TouchEnd})
	res = s.input.Click(ClickEvent{TargetID: "jww-e0"})
	assert.False(t, res.Has(EffectSelection))
}

func TestSingleTouchPans(t *testing.T) {
	s := newSession(t)
	s.input.Touch(TouchEvent{Kind: TouchStart, Touches: []TouchPoint{{X: 10, Y: 10}}})
	s.input.Touch(TouchEvent{Kind: TouchMove, Touches: []TouchPoint{{X: 20, Y: 10}}})
	ox, _ := s.vp.Offset()
	assert.InDelta(t, -20, ox, 1e-9)
}

func TestWheelZoom(t *testing.T) {
	s := newSession(t)
	s.input.Wheel(WheelEvent{X: 10, Y: 10, DeltaY: 100})
	assert.InDelta(t, 0.9, s.vp.Scale(), 1e-12)

	s = newSession(t)
	s.input.Wheel(WheelEvent{X: 10, Y: 10, DeltaY: -100})
	assert.InDelta(t, 1.1, s.vp.Scale(), 1e-12)
}

func TestKeyboardShortcuts(t *testing.T) {
	s := newSession(t)

	assert.True(t, s.input.Key(KeyEvent{Key: "+"}).Has(EffectView))
	assert.InDelta(t, 1.2, s.vp.Scale(), 1e-12)
	s.input.Key(KeyEvent{Key: "="})
	assert.InDelta(t, 1.44, s.vp.Scale(), 1e-12)
	s.input.Key(KeyEvent{Key: "_"})
	s.input.Key(KeyEvent{Key: "-"})
	assert.InDelta(t, 1.0, s.vp.Scale(), 1e-12)

	res := s.input.Key(KeyEvent{Key: "r"})
	assert.False(t, res.Handled)

	s.input.Key(KeyEvent{Key: "+"})
	assert.True(t, s.input.Key(KeyEvent{Key: "R", Meta: true}).Handled)
	assert.Equal(t, 1.0, s.vp.Scale())

	assert.False(t, s.input.Key(KeyEvent{Key: "x"}).Handled)

	// a 70 px container cannot hold the fit padding
	assert.Zero(t, s.input.Key(KeyEvent{Key: "f"}).Effect)
	s.vp.Resize(300, 300)
	assert.True(t, s.input.Key(KeyEvent{Key: "F"}).Has(EffectView))
}
