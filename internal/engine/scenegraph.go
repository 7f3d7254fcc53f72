package engine

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/svgjww/viewer/internal/document"
)

// SceneGraph is the render tree built once per loaded document. Pan and zoom
// never touch it; only text drag and font scaling mutate text primitives.
type SceneGraph struct {
	Root      *SceneNode
	NodesById map[string]*SceneNode
	Layers    []LayerGroup

	// ViewBox is the unzoomed viewBox: bounds plus padding.
	ViewBox Rect
	Bounds  document.Bounds
}

// LayerGroup is the per-layer grouping of entities. Node is nil for layers
// that hold no entity.
type LayerGroup struct {
	ID       int
	Name     string
	Visible  bool
	Entities []document.Entity
	Node     *SceneNode
}

type NodeType string

const (
	NodeRoot       NodeType = "root"
	NodeBackground NodeType = "background"
	NodeLayer      NodeType = "layer"
	NodeLine       NodeType = "line"
	NodeCircle     NodeType = "circle"
	NodeArc        NodeType = "arc"
	NodePoint      NodeType = "point"
	NodeText       NodeType = "text"
	NodeTextLine   NodeType = "tspan"
	NodeSolid      NodeType = "solid"
	NodeBlock      NodeType = "block"
	NodeImage      NodeType = "image"
	NodeUnknown    NodeType = "unknown"
)

// SceneNode is one element of the render tree. All Y values are already in
// render (Y-down) space.
type SceneNode struct {
	ID      string
	Type    NodeType
	Visible bool

	Parent   *SceneNode
	Children []*SceneNode

	// Meta identifies the source entity. Structural nodes have none.
	Meta *EntityMeta

	Stroke      string
	Fill        string
	StrokeWidth float64

	// Line and arc endpoints.
	X1, Y1, X2, Y2 float64
	// Circle, arc and point geometry.
	CX, CY, R float64
	LargeArc  bool
	Sweep     bool

	Points []document.Point // solid corners
	Text   *TextPrimitive
	Line   string // tspan content
	Image  *ImagePrimitive

	Comment string // unknown entities

	// Bounds is the axis-aligned box in render space, used for hit testing
	// and the selection overlay.
	Bounds Rect
}

// EntityMeta is attached to every entity primitive so that picking never
// needs to re-derive anything from the document.
type EntityMeta struct {
	Type      document.Kind      `json:"type"`
	Index     int                `json:"index"`
	Layer     int                `json:"layer"`
	PenColor  int                `json:"penColor"`
	PenWidth  int                `json:"penWidth"`
	Content   string             `json:"content,omitempty"`
	ImagePath string             `json:"imagePath,omitempty"`
	Raw       map[string]float64 `json:"raw,omitempty"`
}

// TextPrimitive holds the mutable state of a text element.
type TextPrimitive struct {
	X, Y           float64 // current anchor, moved by drag
	OrigX, OrigY   float64 // anchor as built, restored by reset
	FontSize       float64
	BaseFontSize   float64
	LineHeight     float64
	BaseLineHeight float64
	Rotation       float64 // degrees, render space
	ScaleX         float64
	Lines          []string
}

// Matrix returns the placement transform of the text element.
func (t *TextPrimitive) Matrix() Matrix2D {
	return TextMatrix(t.X, t.Y, t.Rotation, t.ScaleX)
}

type ImagePrimitive struct {
	X, Y, Width, Height float64
	Rotation            float64 // degrees, render space, about (X, Y+Height)
	Href                string
	SourcePath          string
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSceneGraph creates an empty scene graph.
func NewSceneGraph() *SceneGraph {
	return &SceneGraph{
		NodesById: make(map[string]*SceneNode),
	}
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Inset grows the rect by d on every side (shrinks it for negative d).
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// String formats the rect as an SVG viewBox value.
func (r Rect) String() string {
	return formatFloat(r.X) + " " + formatFloat(r.Y) + " " + formatFloat(r.Width) + " " + formatFloat(r.Height)
}

func (sg *SceneGraph) add(parent, node *SceneNode) {
	node.Parent = parent
	if parent != nil {
		parent.Children = append(parent.Children, node)
	}
	if node.ID != "" {
		sg.NodesById[node.ID] = node
	}
}

// EntityAncestor walks from the node with the given id up to the nearest
// node carrying entity metadata.
func (sg *SceneGraph) EntityAncestor(id string) *SceneNode {
	for n := sg.NodesById[id]; n != nil; n = n.Parent {
		if n.Meta != nil {
			return n
		}
	}
	return nil
}

// TextAncestor walks from the node with the given id up to the nearest text
// element, so a press on a tspan resolves to its text.
func (sg *SceneGraph) TextAncestor(id string) *SceneNode {
	for n := sg.NodesById[id]; n != nil; n = n.Parent {
		if n.Type == NodeText {
			return n
		}
	}
	return nil
}

// TextNodes returns every text primitive in document order.
func (sg *SceneGraph) TextNodes() []*SceneNode {
	var out []*SceneNode
	var walk func(n *SceneNode)
	walk = func(n *SceneNode) {
		if n.Type == NodeText {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	if sg.Root != nil {
		walk(sg.Root)
	}
	return out
}

// Layer returns the group for a layer id.
func (sg *SceneGraph) Layer(id int) *LayerGroup {
	for i := range sg.Layers {
		if sg.Layers[i].ID == id {
			return &sg.Layers[i]
		}
	}
	return nil
}

// updateTextBounds recomputes the bounds of a text node from its current
// anchor, font size and line widths. Wide glyphs count as a full em, narrow
// ones as half.
func (n *SceneNode) updateTextBounds() {
	t := n.Text
	if t == nil {
		return
	}
	n.Bounds = t.Matrix().TransformRect(t.localBox())

	for _, c := range n.Children {
		c.Bounds = n.Bounds
	}
}

// containsText tests a scene point against the unrotated text box.
func (n *SceneNode) containsText(x, y, tol float64) bool {
	t := n.Text
	lx, ly := t.Matrix().Invert().TransformPoint(x, y)
	return t.localBox().Inset(tol).Contains(lx, ly)
}

// localBox is the text extent before rotation and horizontal scaling: the
// first baseline sits at the anchor, later lines stack below it.
func (t *TextPrimitive) localBox() Rect {
	cells := 0
	for _, line := range t.Lines {
		cells = max(cells, runewidth.StringWidth(line))
	}
	return Rect{
		X:      t.X,
		Y:      t.Y - t.FontSize,
		Width:  float64(cells) * t.FontSize / 2,
		Height: t.FontSize + float64(max(len(t.Lines)-1, 0))*t.LineHeight,
	}
}

// splitLines splits text content on newlines, dropping carriage returns.
func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r", ""), "\n")
}

func distanceToSegment(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-x1, py-y1)
	}
	t := ((px-x1)*dx + (py-y1)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
}
