package engine

import "math"

const (
	MinFontScale = 0.5
	MaxFontScale = 3.0
)

// TextDragController repositions text primitives independently of the
// viewport. At most one drag session exists at a time.
type TextDragController struct {
	scene     *SceneGraph
	session   *dragSession
	fontScale float64
}

type dragSession struct {
	node           *SceneNode
	origX, origY   float64 // primitive position at press
	startX, startY float64 // pointer position at press, screen pixels
	moved          bool
}

func NewTextDragController(sg *SceneGraph) *TextDragController {
	return &TextDragController{scene: sg, fontScale: 1}
}

// Begin claims a text node for dragging. Non-text nodes are refused.
func (c *TextDragController) Begin(node *SceneNode, sx, sy float64) bool {
	if node == nil || node.Text == nil {
		return false
	}
	c.session = &dragSession{
		node:   node,
		origX:  node.Text.X,
		origY:  node.Text.Y,
		startX: sx,
		startY: sy,
	}
	return true
}

// Move places the dragged text at its press position plus the pointer delta
// converted by ratio (viewBox width over screen width).
func (c *TextDragController) Move(sx, sy, ratio float64) bool {
	s := c.session
	if s == nil {
		return false
	}
	dx := (sx - s.startX) * ratio
	dy := (sy - s.startY) * ratio
	if math.IsNaN(dx) || math.IsNaN(dy) {
		return false
	}
	t := s.node.Text
	t.X = s.origX + dx
	t.Y = s.origY + dy
	if dx != 0 || dy != 0 {
		s.moved = true
	}
	s.node.updateTextBounds()
	return true
}

// End closes the session and reports whether the text moved.
func (c *TextDragController) End() bool {
	s := c.session
	c.session = nil
	return s != nil && s.moved
}

func (c *TextDragController) Active() bool { return c.session != nil }

// Node returns the text being dragged, or nil.
func (c *TextDragController) Node() *SceneNode {
	if c.session == nil {
		return nil
	}
	return c.session.node
}

func (c *TextDragController) FontScale() float64 { return c.fontScale }

// SetFontScale applies scale to every text's base size. It is absolute, not
// cumulative.
func (c *TextDragController) SetFontScale(scale float64) float64 {
	if math.IsNaN(scale) {
		scale = 1
	}
	scale = math.Max(MinFontScale, math.Min(MaxFontScale, scale))
	c.fontScale = scale
	for _, n := range c.scene.TextNodes() {
		t := n.Text
		t.FontSize = t.BaseFontSize * scale
		t.LineHeight = t.BaseLineHeight * scale
		n.updateTextBounds()
	}
	return scale
}

// ResetPositions restores every text to where it was built and drops any
// font scaling.
func (c *TextDragController) ResetPositions() {
	c.session = nil
	for _, n := range c.scene.TextNodes() {
		n.Text.X, n.Text.Y = n.Text.OrigX, n.Text.OrigY
	}
	c.SetFontScale(1)
}
