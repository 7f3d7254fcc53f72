package engine

import "math"

// PickTolerance is the hit slop in screen pixels for geometric picking.
const PickTolerance = 4.0

// Selection is the single picked entity with its overlay outline.
type Selection struct {
	NodeID string      `json:"id"`
	Meta   *EntityMeta `json:"meta"`
	Bounds Rect        `json:"bounds"`
}

// PickingController resolves clicks to entity primitives and holds the
// current selection.
type PickingController struct {
	scene    *SceneGraph
	selected *SceneNode
}

func NewPickingController(sg *SceneGraph) *PickingController {
	return &PickingController{scene: sg}
}

// Pick selects the entity under a click. With a target id the render-tree
// ancestry is walked; without one, visible primitives are hit-tested at the
// scene point (x, y), topmost first. A miss clears the selection.
func (p *PickingController) Pick(x, y float64, targetID string, tolerance float64) *Selection {
	var hit *SceneNode
	if targetID != "" {
		hit = p.scene.EntityAncestor(targetID)
		if hit != nil && !shown(hit) {
			hit = nil
		}
	} else {
		hit = p.hitTest(x, y, tolerance)
	}

	p.selected = hit
	return p.Selected()
}

func (p *PickingController) Clear() {
	p.selected = nil
}

// Selected returns the current selection with up-to-date bounds, or nil.
func (p *PickingController) Selected() *Selection {
	n := p.selected
	if n == nil {
		return nil
	}
	if !shown(n) {
		p.selected = nil
		return nil
	}
	return &Selection{NodeID: n.ID, Meta: n.Meta, Bounds: n.Bounds}
}

// shown reports whether a node and all its ancestors are visible.
func shown(n *SceneNode) bool {
	for ; n != nil; n = n.Parent {
		if !n.Visible {
			return false
		}
	}
	return true
}

func (p *PickingController) hitTest(x, y, tol float64) *SceneNode {
	if p.scene.Root == nil {
		return nil
	}
	var candidates []*SceneNode
	for _, layer := range p.scene.Root.Children {
		if layer.Type != NodeLayer || !layer.Visible {
			continue
		}
		for _, n := range layer.Children {
			if n.Meta != nil {
				candidates = append(candidates, n)
			}
		}
	}
	for i := len(candidates) - 1; i >= 0; i-- {
		if hits(candidates[i], x, y, tol) {
			return candidates[i]
		}
	}
	return nil
}

func hits(n *SceneNode, x, y, tol float64) bool {
	switch n.Type {
	case NodeLine:
		return distanceToSegment(x, y, n.X1, n.Y1, n.X2, n.Y2) <= tol
	case NodeCircle:
		return math.Abs(math.Hypot(x-n.CX, y-n.CY)-n.R) <= tol
	case NodeArc:
		return math.Abs(math.Hypot(x-n.CX, y-n.CY)-n.R) <= tol && onArc(n, x, y)
	case NodeText:
		return n.containsText(x, y, tol)
	case NodeBlock:
		return false
	default:
		return !n.Bounds.IsEmpty() && n.Bounds.Inset(tol).Contains(x, y)
	}
}

// onArc tests whether the direction of (x, y) from the arc center lies within
// the drawn sweep. Angles are taken counter-clockwise on screen.
func onArc(n *SceneNode, x, y float64) bool {
	angle := func(px, py float64) float64 { return math.Atan2(n.CY-py, px-n.CX) }
	s := angle(n.X1, n.Y1)
	e := angle(n.X2, n.Y2)
	a := angle(x, y)

	const eps = 1e-9
	if !n.Sweep {
		span := normAngle(e - s)
		if span < eps && n.LargeArc {
			return true
		}
		return normAngle(a-s) <= span+eps
	}
	span := normAngle(s - e)
	if span < eps && n.LargeArc {
		return true
	}
	return normAngle(s-a) <= span+eps
}

func normAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
