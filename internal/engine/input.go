package engine

import "math"

type PointerKind string

const (
	PointerDown   PointerKind = "down"
	PointerMove   PointerKind = "move"
	PointerUp     PointerKind = "up"
	PointerCancel PointerKind = "cancel"
)

type TouchKind string

const (
	TouchStart  TouchKind = "start"
	TouchMove   TouchKind = "move"
	TouchEnd    TouchKind = "end"
	TouchCancel TouchKind = "cancel"
)

// PointerEvent coordinates are container-relative screen pixels. TargetID is
// the id of the element under the pointer, if the host knows it.
type PointerEvent struct {
	Kind     PointerKind `json:"kind"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Button   int         `json:"button"`
	TargetID string      `json:"targetId"`
}

type TouchPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type TouchEvent struct {
	Kind     TouchKind    `json:"kind"`
	Touches  []TouchPoint `json:"touches"`
	TargetID string       `json:"targetId"`
}

type WheelEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

type KeyEvent struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
	Meta bool   `json:"meta"`
}

type ClickEvent struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	TargetID string  `json:"targetId"`
}

// Effect tells the host what to redraw after an event.
type Effect uint8

const (
	EffectView Effect = 1 << iota
	EffectText
	EffectSelection
)

// Result of handling one device event. Handled asks the host to suppress
// the browser default.
type Result struct {
	Effect  Effect
	Text    *SceneNode
	Handled bool
}

func (r Result) Has(e Effect) bool { return r.Effect&e != 0 }

// InputController arbitrates raw device events between the viewport, the
// text drag controller and the picker. Every handler runs to completion; the
// latest event always wins.
type InputController struct {
	scene  *SceneGraph
	vp     *Viewport
	drag   *TextDragController
	picker *PickingController

	// TextEnabled makes text primitives drag targets. A press on text never
	// pans either way.
	TextEnabled bool

	panning      bool
	touchPanning bool
	lastX, lastY float64

	pinching        bool
	pinchStartDist  float64
	pinchStartScale float64

	// set during a press-release cycle, consumed by the following click
	didPan  bool
	didDrag bool
}

func NewInputController(sg *SceneGraph, vp *Viewport, drag *TextDragController, picker *PickingController) *InputController {
	return &InputController{scene: sg, vp: vp, drag: drag, picker: picker, TextEnabled: true}
}

// textTarget resolves a target id to the text node it belongs to, if any.
func (c *InputController) textTarget(id string) *SceneNode {
	if id == "" {
		return nil
	}
	return c.scene.TextAncestor(id)
}

// claimText takes a press on text: it starts a drag when text features are
// on and is otherwise swallowed so the following click can still pick it.
func (c *InputController) claimText(n *SceneNode, x, y float64) Result {
	if c.TextEnabled {
		c.drag.Begin(n, x, y)
	}
	return Result{Handled: true}
}

func (c *InputController) Pointer(ev PointerEvent) Result {
	switch ev.Kind {
	case PointerDown:
		if ev.Button != 0 {
			return Result{}
		}
		c.didPan, c.didDrag = false, false
		if n := c.textTarget(ev.TargetID); n != nil {
			return c.claimText(n, ev.X, ev.Y)
		}
		c.panning = true
		c.lastX, c.lastY = ev.X, ev.Y
		return Result{Handled: true}

	case PointerMove:
		if c.drag.Active() {
			n := c.drag.Node()
			if !c.drag.Move(ev.X, ev.Y, c.vp.UnitsPerPixel()) {
				return Result{}
			}
			return Result{Effect: EffectText, Text: n, Handled: true}
		}
		if c.panning {
			dx, dy := ev.X-c.lastX, ev.Y-c.lastY
			c.lastX, c.lastY = ev.X, ev.Y
			if c.vp.Pan(dx, dy) {
				c.didPan = true
				return Result{Effect: EffectView | c.selectionEffect(), Handled: true}
			}
		}
		return Result{}

	case PointerUp, PointerCancel:
		c.endGestures()
		return Result{}
	}
	return Result{}
}

// endGestures unconditionally ends pan, drag and pinch, even when the start
// event was never seen.
func (c *InputController) endGestures() {
	c.panning = false
	c.touchPanning = false
	c.pinching = false
	if c.drag.End() {
		c.didDrag = true
	}
}

func (c *InputController) Touch(ev TouchEvent) Result {
	switch ev.Kind {
	case TouchStart:
		c.didPan, c.didDrag = false, false
		if len(ev.Touches) >= 2 {
			c.drag.End()
			c.touchPanning = false
			c.pinching = true
			c.pinchStartDist = touchDistance(ev.Touches[0], ev.Touches[1])
			c.pinchStartScale = c.vp.Scale()
			return Result{Handled: true}
		}
		if len(ev.Touches) == 1 {
			t := ev.Touches[0]
			if n := c.textTarget(ev.TargetID); n != nil {
				return c.claimText(n, t.X, t.Y)
			}
			c.touchPanning = true
			c.lastX, c.lastY = t.X, t.Y
			return Result{Handled: true}
		}
		return Result{}

	case TouchMove:
		if c.pinching && len(ev.Touches) >= 2 {
			a, b := ev.Touches[0], ev.Touches[1]
			if c.pinchStartDist <= 0 {
				return Result{Handled: true}
			}
			scale := c.pinchStartScale * touchDistance(a, b) / c.pinchStartDist
			if c.vp.PinchZoomTo((a.X+b.X)/2, (a.Y+b.Y)/2, scale) {
				c.didPan = true
				return Result{Effect: EffectView | c.selectionEffect(), Handled: true}
			}
			return Result{Handled: true}
		}
		if len(ev.Touches) != 1 {
			return Result{}
		}
		t := ev.Touches[0]
		if c.drag.Active() {
			n := c.drag.Node()
			c.drag.Move(t.X, t.Y, c.vp.UnitsPerPixel())
			return Result{Effect: EffectText, Text: n, Handled: true}
		}
		if c.touchPanning {
			dx, dy := t.X-c.lastX, t.Y-c.lastY
			c.lastX, c.lastY = t.X, t.Y
			if c.vp.Pan(dx, dy) {
				c.didPan = true
				return Result{Effect: EffectView | c.selectionEffect(), Handled: true}
			}
		}
		return Result{}

	case TouchEnd, TouchCancel:
		c.endGestures()
		return Result{}
	}
	return Result{}
}

func touchDistance(a, b TouchPoint) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Wheel zooms at the cursor: scrolling down zooms out.
func (c *InputController) Wheel(ev WheelEvent) Result {
	factor := WheelZoomIn
	if ev.DeltaY > 0 {
		factor = WheelZoomOut
	}
	if !c.vp.ZoomAtPoint(ev.X, ev.Y, factor) {
		return Result{Handled: true}
	}
	return Result{Effect: EffectView, Handled: true}
}

// Key handles the viewer shortcuts. Unrecognized keys are left to the host.
func (c *InputController) Key(ev KeyEvent) Result {
	var changed bool
	switch ev.Key {
	case "+", "=":
		changed = c.vp.ZoomIn()
	case "-", "_":
		changed = c.vp.ZoomOut()
	case "f", "F":
		changed = c.vp.Fit()
	case "r", "R":
		if !ev.Ctrl && !ev.Meta {
			return Result{}
		}
		c.vp.Reset()
		changed = true
	default:
		return Result{}
	}
	if !changed {
		return Result{Handled: true}
	}
	return Result{Effect: EffectView, Handled: true}
}

// Click picks unless the press that produced it panned or dragged text. The
// suppression flags are consumed either way.
func (c *InputController) Click(ev ClickEvent) Result {
	suppressed := c.didPan || c.didDrag
	c.didPan, c.didDrag = false, false
	if suppressed {
		return Result{}
	}
	x, y := c.vp.ScreenToScene(ev.X, ev.Y)
	c.picker.Pick(x, y, ev.TargetID, PickTolerance*c.vp.UnitsPerPixel())
	return Result{Effect: EffectSelection}
}

// selectionEffect is reported alongside view changes so hosts that draw the
// overlay in screen space can reposition it.
func (c *InputController) selectionEffect() Effect {
	if c.picker.selected != nil {
		return EffectSelection
	}
	return 0
}
