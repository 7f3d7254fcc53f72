package engine

import (
	"fmt"
	"log/slog"
	"math"
	"path"
	"sort"
	"strings"

	"github.com/svgjww/viewer/internal/document"
)

const (
	// MaxLayers is the number of layer slots; entities on higher ids are not
	// grouped and therefore not rendered.
	MaxLayers = 16

	defaultFontSize  = 2.5
	lineHeightFactor = 1.2
	pointRadius      = 1.0
)

// penPalette is indexed by pen_color. It does not follow the theme.
var penPalette = [...]string{
	"#000000",
	"#00FFFF",
	"#FFFFFF",
	"#00FF00",
	"#FFFF00",
	"#FF00FF",
	"#0000FF",
	"#00FF80",
	"#FF0000",
	"#C0C0C0",
}

// PenColor maps a pen number into the palette, clamping out-of-range values.
func PenColor(pen int) string {
	pen = max(0, min(pen, len(penPalette)-1))
	return penPalette[pen]
}

// BuildScene converts a document into a render tree. Every Y coordinate goes
// through tr; X passes unchanged. sourceName is the file name the document
// was loaded from and anchors relative image paths.
func BuildScene(doc *document.Document, tr CoordinateTransform, bounds document.Bounds, sourceName string) *SceneGraph {
	sg := NewSceneGraph()
	sg.Bounds = bounds
	sg.ViewBox = initialViewBox(bounds)

	root := &SceneNode{ID: "jww-root", Type: NodeRoot, Visible: true, Bounds: sg.ViewBox}
	sg.add(nil, root)
	sg.Root = root

	sg.add(root, &SceneNode{ID: "jww-background", Type: NodeBackground, Visible: true, Bounds: sg.ViewBox})

	sg.Layers = groupLayers(doc)
	for li := range sg.Layers {
		group := &sg.Layers[li]
		if len(group.Entities) == 0 {
			continue
		}
		layerNode := &SceneNode{
			ID:      fmt.Sprintf("layer-%d", group.ID),
			Type:    NodeLayer,
			Visible: group.Visible,
		}
		sg.add(root, layerNode)
		group.Node = layerNode
	}

	b := &builder{sg: sg, tr: tr, sourceDir: sourceDir(sourceName)}
	for i := range doc.Entities {
		e := &doc.Entities[i]
		group := sg.Layer(e.Base.Layer)
		if group == nil || group.Node == nil {
			continue
		}
		b.entity(group.Node, i, e)
	}

	return sg
}

// groupLayers collects entities per layer id. Declared layers keep their
// name and visibility; ids used by entities but never declared get a default
// entry. Layers outside [0, MaxLayers) are dropped.
func groupLayers(doc *document.Document) []LayerGroup {
	byID := make(map[int]*LayerGroup)
	for _, l := range doc.Layers {
		if l.ID < 0 || l.ID >= MaxLayers {
			slog.Debug("layer out of range", "layer", l.ID)
			continue
		}
		byID[l.ID] = &LayerGroup{ID: l.ID, Name: l.Name, Visible: l.Visible}
	}

	dropped := 0
	for _, e := range doc.Entities {
		id := e.Base.Layer
		if id < 0 || id >= MaxLayers {
			dropped++
			continue
		}
		g, ok := byID[id]
		if !ok {
			g = &LayerGroup{ID: id, Name: fmt.Sprintf("Layer %d", id), Visible: true}
			byID[id] = g
		}
		g.Entities = append(g.Entities, e)
	}
	if dropped > 0 {
		slog.Debug("entities on out-of-range layers dropped", "count", dropped)
	}

	groups := make([]LayerGroup, 0, len(byID))
	for _, g := range byID {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups
}

type builder struct {
	sg        *SceneGraph
	tr        CoordinateTransform
	sourceDir string
}

func (b *builder) entity(parent *SceneNode, index int, e *document.Entity) {
	node := &SceneNode{
		ID:      fmt.Sprintf("jww-e%d", index),
		Visible: true,
		Meta: &EntityMeta{
			Type:     e.Kind,
			Index:    index,
			Layer:    e.Base.Layer,
			PenColor: e.Base.PenColor,
			PenWidth: e.Base.PenWidth,
			Raw:      e.Raw,
		},
		Stroke:      PenColor(e.Base.PenColor),
		Fill:        "none",
		StrokeWidth: strokeWidth(e.Base.PenWidth),
	}

	switch {
	case e.Kind == document.KindLine && e.Line != nil:
		b.line(node, e.Line)
	case e.Kind == document.KindArc && e.Arc != nil:
		b.arc(node, e.Arc)
	case e.Kind == document.KindPoint && e.Point != nil:
		b.point(node, *e.Point)
	case e.Kind == document.KindText && e.Text != nil:
		b.sg.add(parent, node)
		b.text(node, e.Text)
		return
	case e.Kind == document.KindSolid && e.Solid != nil:
		b.solid(node, e.Solid)
	case e.Kind == document.KindBlock:
		node.Type = NodeBlock
	case e.Kind == document.KindImage && e.Image != nil:
		b.image(node, e.Image)
	default:
		slog.Warn("unknown entity kind", "index", index, "layer", e.Base.Layer)
		node.Type = NodeUnknown
		node.Meta = nil
		node.Comment = fmt.Sprintf("unknown entity %d", index)
	}
	b.sg.add(parent, node)
}

func strokeWidth(pen int) float64 {
	if pen <= 0 {
		return 1
	}
	return float64(pen)
}

func (b *builder) line(node *SceneNode, l *document.Line) {
	node.Type = NodeLine
	node.X1, node.Y1 = b.tr.TransformPoint(l.Start)
	node.X2, node.Y2 = b.tr.TransformPoint(l.End)
	node.Bounds = Rect{
		X:      math.Min(node.X1, node.X2),
		Y:      math.Min(node.Y1, node.Y2),
		Width:  math.Abs(node.X2 - node.X1),
		Height: math.Abs(node.Y2 - node.Y1),
	}
}

// arc emits either a circle or an elliptical arc. Angles are measured
// counter-clockwise in document space; after the Y flip a positive sweep runs
// counter-clockwise on screen, which is SVG sweep-flag 0.
const fullTurnEpsilon = 1e-9

func (b *builder) arc(node *SceneNode, a *document.Arc) {
	r := math.Abs(a.Radius)
	node.CX, node.CY = b.tr.TransformPoint(a.Center)
	node.R = r
	node.Bounds = Rect{X: node.CX - r, Y: node.CY - r, Width: 2 * r, Height: 2 * r}

	// A sweep of a full turn or more has coincident endpoints, which an SVG
	// arc command does not draw.
	if a.IsFullCircle || math.Abs(a.ArcAngle) >= 2*math.Pi-fullTurnEpsilon {
		node.Type = NodeCircle
		return
	}

	node.Type = NodeArc
	start := a.StartAngle
	end := a.StartAngle + a.ArcAngle
	node.X1, node.Y1 = b.tr.TransformPoint(document.Point{
		X: a.Center.X + r*math.Cos(start),
		Y: a.Center.Y + r*math.Sin(start),
	})
	node.X2, node.Y2 = b.tr.TransformPoint(document.Point{
		X: a.Center.X + r*math.Cos(end),
		Y: a.Center.Y + r*math.Sin(end),
	})
	node.LargeArc = math.Abs(a.ArcAngle*180/math.Pi) > 180
	node.Sweep = a.ArcAngle < 0
}

func (b *builder) point(node *SceneNode, p document.Point) {
	node.Type = NodePoint
	node.CX, node.CY = b.tr.TransformPoint(p)
	node.R = pointRadius
	node.Fill = node.Stroke
	node.Bounds = Rect{X: node.CX - pointHalo, Y: node.CY - pointHalo, Width: 2 * pointHalo, Height: 2 * pointHalo}
}

func (b *builder) solid(node *SceneNode, s *document.Solid) {
	node.Type = NodeSolid
	node.Fill = node.Stroke
	node.Points = make([]document.Point, len(s.Points))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range s.Points {
		x, y := b.tr.TransformPoint(p)
		node.Points[i] = document.Point{X: x, Y: y}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	node.Bounds = Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (b *builder) text(node *SceneNode, t *document.Text) {
	node.Type = NodeText
	node.Meta.Content = t.Content

	fontSize := t.SizeY
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	lineHeight := fontSize * lineHeightFactor
	if t.End != nil {
		if h := math.Abs(t.End.Y - t.Start.Y); h > fontSize {
			lineHeight = h
		}
	}
	scaleX := 1.0
	if t.SizeX > 0 && t.SizeY > 0 {
		scaleX = t.SizeX / t.SizeY
	}

	x, y := b.tr.TransformPoint(t.Start)
	node.Stroke = ""
	node.Fill = PenColor(node.Meta.PenColor)
	node.Text = &TextPrimitive{
		X:              x,
		Y:              y,
		OrigX:          x,
		OrigY:          y,
		FontSize:       fontSize,
		BaseFontSize:   fontSize,
		LineHeight:     lineHeight,
		BaseLineHeight: lineHeight,
		Rotation:       -t.Angle,
		ScaleX:         scaleX,
		Lines:          splitLines(t.Content),
	}

	for k, line := range node.Text.Lines {
		b.sg.add(node, &SceneNode{
			ID:      fmt.Sprintf("%s-%d", node.ID, k),
			Type:    NodeTextLine,
			Visible: true,
			Line:    line,
		})
	}
	node.updateTextBounds()
}

// image places the picture by its lower-left document corner. The rotation
// pivot is that corner in render space.
func (b *builder) image(node *SceneNode, img *document.Image) {
	node.Type = NodeImage
	node.Meta.ImagePath = img.ImagePath
	node.Stroke = ""

	w, h := img.Width, img.Height
	if w <= 0 {
		w = 100
	}
	if h <= 0 {
		h = 100
	}
	top := b.tr.TransformY(img.Y + h)
	prim := &ImagePrimitive{
		X:          img.X,
		Y:          top,
		Width:      w,
		Height:     h,
		Rotation:   -img.Rotation,
		Href:       resolveImagePath(img.ImagePath, b.sourceDir),
		SourcePath: img.ImagePath,
	}
	node.Image = prim
	node.Bounds = prim.Matrix().TransformRect(Rect{X: prim.X, Y: prim.Y, Width: w, Height: h})
}

// Matrix returns the rotation of the image about its pivot corner.
func (p *ImagePrimitive) Matrix() Matrix2D {
	if p.Rotation == 0 {
		return Identity()
	}
	px, py := p.X, p.Y+p.Height
	return Translate(px, py).Multiply(RotateDegrees(p.Rotation)).Multiply(Translate(-px, -py))
}

func sourceDir(sourceName string) string {
	if sourceName == "" {
		return ""
	}
	dir := path.Dir(strings.ReplaceAll(sourceName, `\`, "/"))
	if dir == "." {
		return ""
	}
	return dir
}

// resolveImagePath turns a path recorded by the CAD program into one
// relative to the drawing. A leading %VAR% placeholder is removed and
// backslashes become slashes.
func resolveImagePath(p, dir string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if strings.HasPrefix(p, "%") {
		if i := strings.Index(p[1:], "%"); i >= 0 {
			p = p[i+2:]
		}
	}
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return ""
	}
	if dir == "" {
		return path.Clean(p)
	}
	return path.Join(dir, p)
}
