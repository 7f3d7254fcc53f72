package engine

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// SVGOptions controls how a scene is projected to markup. The scene itself is
// never modified by rendering.
type SVGOptions struct {
	// ViewBox overrides the scene's original viewBox when not empty.
	ViewBox Rect
	Theme   Theme
	// Selection draws an outline rect on top of the drawing.
	Selection *Rect
	// ImageURLs maps an entity's recorded image path to a substituted URL.
	ImageURLs map[string]string

	// WidthMM and HeightMM size the root element in millimetres. When zero
	// the root fills its container.
	WidthMM  float64
	HeightMM float64
	// OmitSize leaves width and height off so consumers size by viewBox.
	OmitSize bool

	// OmitHidden leaves hidden layers out instead of emitting them hidden.
	OmitHidden bool
	// Bare drops the identifying data attributes.
	Bare bool
}

// RenderSVG writes the scene as a standalone SVG document.
func RenderSVG(sg *SceneGraph, opts SVGOptions) string {
	vb := opts.ViewBox
	if vb.IsEmpty() {
		vb = sg.ViewBox
	}

	w := &svgWriter{opts: opts}
	w.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" id="jww-root"`)
	w.attr("viewBox", vb.String())
	switch {
	case opts.OmitSize:
	case opts.WidthMM > 0 && opts.HeightMM > 0:
		w.attr("width", formatFloat(opts.WidthMM)+"mm")
		w.attr("height", formatFloat(opts.HeightMM)+"mm")
	default:
		w.attr("width", "100%")
		w.attr("height", "100%")
	}
	w.attr("preserveAspectRatio", "xMidYMid meet")
	w.WriteString(">")

	for _, child := range sg.Root.Children {
		w.node(child)
	}

	if opts.Selection != nil && !opts.Bare {
		s := *opts.Selection
		w.WriteString(`<rect id="jww-selection"`)
		w.num("x", s.X)
		w.num("y", s.Y)
		w.num("width", s.Width)
		w.num("height", s.Height)
		w.attr("fill", "none")
		w.attr("stroke", opts.Theme.Accent)
		w.attr("stroke-width", "2")
		w.attr("stroke-dasharray", "4 2")
		w.attr("vector-effect", "non-scaling-stroke")
		w.attr("pointer-events", "none")
		w.WriteString("/>")
	}

	w.WriteString("</svg>")
	return w.String()
}

type svgWriter struct {
	strings.Builder
	opts SVGOptions
}

func (w *svgWriter) attr(name, value string) {
	w.WriteString(" ")
	w.WriteString(name)
	w.WriteString(`="`)
	w.WriteString(escape(value))
	w.WriteString(`"`)
}

func (w *svgWriter) num(name string, v float64) {
	w.attr(name, formatFloat(v))
}

func (w *svgWriter) open(tag string, n *SceneNode) {
	w.WriteString("<")
	w.WriteString(tag)
	if n.ID != "" {
		w.attr("id", n.ID)
	}
	if n.Meta != nil && !w.opts.Bare {
		w.meta(n.Meta)
	}
}

func (w *svgWriter) meta(m *EntityMeta) {
	w.attr("data-type", string(m.Type))
	w.attr("data-index", strconv.Itoa(m.Index))
	w.attr("data-layer", strconv.Itoa(m.Layer))
	w.attr("data-pen-color", strconv.Itoa(m.PenColor))
	w.attr("data-pen-width", strconv.Itoa(m.PenWidth))

	keys := make([]string, 0, len(m.Raw))
	for k := range m.Raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.num("data-"+strings.ReplaceAll(k, "_", "-"), m.Raw[k])
	}
}

func (w *svgWriter) stroke(n *SceneNode) {
	w.attr("stroke", n.Stroke)
	w.num("stroke-width", n.StrokeWidth)
	w.attr("fill", n.Fill)
	w.attr("vector-effect", "non-scaling-stroke")
}

func (w *svgWriter) node(n *SceneNode) {
	switch n.Type {
	case NodeBackground:
		w.open("rect", n)
		w.num("x", n.Bounds.X)
		w.num("y", n.Bounds.Y)
		w.num("width", n.Bounds.Width)
		w.num("height", n.Bounds.Height)
		w.attr("fill", w.opts.Theme.Background)
		w.WriteString("/>")

	case NodeLayer:
		if !n.Visible && w.opts.OmitHidden {
			return
		}
		w.open("g", n)
		if !w.opts.Bare {
			w.attr("data-layer", strings.TrimPrefix(n.ID, "layer-"))
		}
		if !n.Visible {
			w.attr("display", "none")
		}
		w.WriteString(">")
		for _, c := range n.Children {
			w.node(c)
		}
		w.WriteString("</g>")

	case NodeLine:
		w.open("line", n)
		w.num("x1", n.X1)
		w.num("y1", n.Y1)
		w.num("x2", n.X2)
		w.num("y2", n.Y2)
		w.stroke(n)
		w.WriteString("/>")

	case NodeCircle, NodePoint:
		w.open("circle", n)
		w.num("cx", n.CX)
		w.num("cy", n.CY)
		w.num("r", n.R)
		w.stroke(n)
		w.WriteString("/>")

	case NodeArc:
		w.open("path", n)
		w.attr("d", ArcPath(n))
		w.stroke(n)
		w.WriteString("/>")

	case NodeSolid:
		pts := make([]string, len(n.Points))
		for i, p := range n.Points {
			pts[i] = formatFloat(p.X) + "," + formatFloat(p.Y)
		}
		w.open("polygon", n)
		w.attr("points", strings.Join(pts, " "))
		w.attr("fill", n.Fill)
		w.attr("stroke", "none")
		w.WriteString("/>")

	case NodeText:
		w.text(n)

	case NodeImage:
		img := n.Image
		href := img.Href
		if u, ok := w.opts.ImageURLs[img.SourcePath]; ok {
			href = u
		}
		w.open("image", n)
		w.num("x", img.X)
		w.num("y", img.Y)
		w.num("width", img.Width)
		w.num("height", img.Height)
		w.attr("href", href)
		w.attr("preserveAspectRatio", "none")
		if img.Rotation != 0 {
			w.attr("transform", fmt.Sprintf("rotate(%s %s %s)",
				formatFloat(img.Rotation), formatFloat(img.X), formatFloat(img.Y+img.Height)))
		}
		w.WriteString("/>")

	case NodeBlock:
		w.open("g", n)
		w.WriteString("/>")

	case NodeUnknown:
		w.WriteString("<!-- ")
		w.WriteString(strings.ReplaceAll(n.Comment, "--", "- -"))
		w.WriteString(" -->")
	}
}

func (w *svgWriter) text(n *SceneNode) {
	t := n.Text
	w.open("text", n)
	w.num("x", t.X)
	w.num("y", t.Y)
	w.num("font-size", t.FontSize)
	w.attr("font-family", "sans-serif")
	w.attr("fill", w.opts.Theme.Text)
	if tf := TextTransform(t); tf != "" {
		w.attr("transform", tf)
	}
	w.WriteString(">")
	for k, c := range n.Children {
		dy := 0.0
		if k > 0 {
			dy = t.LineHeight
		}
		w.open("tspan", c)
		w.num("x", t.X)
		w.num("dy", dy)
		w.WriteString(">")
		w.WriteString(escape(c.Line))
		w.WriteString("</tspan>")
	}
	w.WriteString("</text>")
}

// TextTransform returns the transform attribute of a text element, or an
// empty string when its placement matrix is the identity. Rotation pivots on the
// current anchor so it follows a dragged text.
func TextTransform(t *TextPrimitive) string {
	if t.Matrix().IsIdentity() {
		return ""
	}
	var parts []string
	x, y := formatFloat(t.X), formatFloat(t.Y)
	if t.Rotation != 0 {
		parts = append(parts, fmt.Sprintf("rotate(%s %s %s)", formatFloat(t.Rotation), x, y))
	}
	if t.ScaleX != 1 && t.ScaleX > 0 {
		parts = append(parts,
			fmt.Sprintf("translate(%s %s)", x, y),
			fmt.Sprintf("scale(%s 1)", formatFloat(t.ScaleX)),
			fmt.Sprintf("translate(%s %s)", formatFloat(-t.X), formatFloat(-t.Y)))
	}
	return strings.Join(parts, " ")
}

// ArcPath returns the path data of a partial arc node.
func ArcPath(n *SceneNode) string {
	large, sweep := 0, 0
	if n.LargeArc {
		large = 1
	}
	if n.Sweep {
		sweep = 1
	}
	r := formatFloat(n.R)
	return fmt.Sprintf("M %s %s A %s %s 0 %d %d %s %s",
		formatFloat(n.X1), formatFloat(n.Y1), r, r, large, sweep, formatFloat(n.X2), formatFloat(n.Y2))
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// formatFloat prints a coordinate with at most four decimals.
func formatFloat(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
