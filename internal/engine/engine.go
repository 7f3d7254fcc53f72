package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/svgjww/viewer/internal/document"
	"github.com/svgjww/viewer/internal/typeid"
)

var (
	ErrUnknownRole  = errors.New("unknown action role")
	ErrUnknownLayer = errors.New("unknown layer")
	ErrNoPrinter    = errors.New("no print surface configured")
)

// Printer turns the current scene into print output.
type Printer func(sg *SceneGraph, doc *document.Document) (string, error)

// Engine owns one loaded document's view session: the render tree, the
// viewport and the controllers that mutate them. Loading another document
// replaces the whole session. Display preferences (theme, text features,
// grid/ruler/print-area flags) outlive sessions.
type Engine struct {
	// Document state
	doc        *document.Document
	sourceName string
	sessionID  string
	bounds     document.Bounds
	transform  CoordinateTransform

	// Retained render tree and controllers
	scene    *SceneGraph
	viewport *Viewport
	drag     *TextDragController
	picker   *PickingController
	input    *InputController

	// image_path -> substituted URL
	imageURLs map[string]string

	theme       Theme
	textEnabled bool
	grid        bool
	ruler       bool
	printArea   bool

	width, height float64
	printer       Printer
}

// NewEngine creates an engine with no document loaded. Text features start
// off until the user enables them.
func NewEngine() *Engine {
	theme, _ := LookupTheme(ThemeSystem, false)
	return &Engine{
		theme:     theme,
		imageURLs: make(map[string]string),
	}
}

// SetPrinter installs the print surface used by the print action.
func (e *Engine) SetPrinter(p Printer) {
	e.printer = p
}

// --- Commands (host → engine) ---

// LoadDocument discards the current session and builds a new one.
func (e *Engine) LoadDocument(doc *document.Document, sourceName string) {
	e.doc = doc
	e.sourceName = sourceName
	e.sessionID = typeid.NewSessionID()
	e.bounds = documentBounds(doc)
	e.transform = NewCoordinateTransform(e.bounds)
	e.scene = BuildScene(doc, e.transform, e.bounds, sourceName)

	e.viewport = NewViewport(e.scene.ViewBox, e.width, e.height)
	e.drag = NewTextDragController(e.scene)
	e.picker = NewPickingController(e.scene)
	e.input = NewInputController(e.scene, e.viewport, e.drag, e.picker)
	e.input.TextEnabled = e.textEnabled
	e.imageURLs = make(map[string]string)

	e.viewport.Fit()

	slog.Info("document loaded",
		"session", e.sessionID,
		"source", sourceName,
		"entities", len(doc.Entities),
		"layers", len(e.scene.Layers),
	)
}

// LoadJSON decodes parser output and loads it.
func (e *Engine) LoadJSON(data []byte, sourceName string) error {
	doc, err := document.Decode(data)
	if err != nil {
		return err
	}
	e.LoadDocument(doc, sourceName)
	return nil
}

// LoadFile runs parse over the raw drawing bytes and loads the result. Parser
// failures come back as *document.ParseError and leave the session as it was.
func (e *Engine) LoadFile(parse document.ParseFunc, data []byte, sourceName string) error {
	doc, err := document.Load(parse, data)
	if err != nil {
		slog.Error("parse document", "source", sourceName, "error", err)
		return err
	}
	e.LoadDocument(doc, sourceName)
	return nil
}

// LoadSampleDocument loads the built-in sample drawing.
func (e *Engine) LoadSampleDocument() {
	e.LoadDocument(document.NewSampleDocument(), "sample.jww")
}

func (e *Engine) Loaded() bool { return e.doc != nil }

// Scene exposes the render tree to print surfaces and tests.
func (e *Engine) Scene() *SceneGraph { return e.scene }

func (e *Engine) Document() *document.Document { return e.doc }

func (e *Engine) SessionID() string { return e.sessionID }

// --- Device events ---

func (e *Engine) Pointer(ev PointerEvent) Result {
	if e.input == nil {
		return Result{}
	}
	return e.input.Pointer(ev)
}

func (e *Engine) Touch(ev TouchEvent) Result {
	if e.input == nil {
		return Result{}
	}
	return e.input.Touch(ev)
}

func (e *Engine) Wheel(ev WheelEvent) Result {
	if e.input == nil {
		return Result{}
	}
	return e.input.Wheel(ev)
}

func (e *Engine) Key(ev KeyEvent) Result {
	if e.input == nil {
		return Result{}
	}
	return e.input.Key(ev)
}

func (e *Engine) Click(ev ClickEvent) Result {
	if e.input == nil {
		return Result{}
	}
	return e.input.Click(ev)
}

// --- Role-keyed actions ---

// Action is a control invocation. Only the fields its role reads are used.
type Action struct {
	Role        string  `json:"role"`
	Layer       int     `json:"layer"`
	Enabled     *bool   `json:"enabled,omitempty"`
	Value       float64 `json:"value"`
	Theme       string  `json:"theme"`
	PrefersDark bool    `json:"prefersDark"`
	Path        string  `json:"path"`
	URL         string  `json:"url"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

type ActionResult struct {
	Effect Effect
	// Output carries the print document for the print role.
	Output string
}

type actionHandler struct {
	needsDocument bool
	run           func(e *Engine, a Action) (ActionResult, error)
}

var actionHandlers = map[string]actionHandler{
	"zoom_in": {true, func(e *Engine, a Action) (ActionResult, error) {
		return viewEffect(e.viewport.ZoomIn()), nil
	}},
	"zoom_out": {true, func(e *Engine, a Action) (ActionResult, error) {
		return viewEffect(e.viewport.ZoomOut()), nil
	}},
	"fit": {true, func(e *Engine, a Action) (ActionResult, error) {
		return viewEffect(e.viewport.Fit()), nil
	}},
	"reset": {true, func(e *Engine, a Action) (ActionResult, error) {
		e.viewport.Reset()
		return viewEffect(true), nil
	}},
	"toggle_layer": {true, func(e *Engine, a Action) (ActionResult, error) {
		g := e.scene.Layer(a.Layer)
		if g == nil {
			return ActionResult{}, fmt.Errorf("layer %d: %w", a.Layer, ErrUnknownLayer)
		}
		return e.setLayerVisible(g, !g.Visible), nil
	}},
	"set_layer_visible": {true, func(e *Engine, a Action) (ActionResult, error) {
		g := e.scene.Layer(a.Layer)
		if g == nil {
			return ActionResult{}, fmt.Errorf("layer %d: %w", a.Layer, ErrUnknownLayer)
		}
		return e.setLayerVisible(g, a.Enabled == nil || *a.Enabled), nil
	}},
	"toggle_text": {false, func(e *Engine, a Action) (ActionResult, error) {
		return e.setTextEnabled(!e.textEnabled), nil
	}},
	"set_text_enabled": {false, func(e *Engine, a Action) (ActionResult, error) {
		return e.setTextEnabled(a.Enabled == nil || *a.Enabled), nil
	}},
	"font_size": {true, func(e *Engine, a Action) (ActionResult, error) {
		if !e.textEnabled {
			return ActionResult{}, nil
		}
		e.drag.SetFontScale(a.Value)
		return ActionResult{Effect: EffectText | e.selectionEffect()}, nil
	}},
	"reset_text": {true, func(e *Engine, a Action) (ActionResult, error) {
		e.drag.ResetPositions()
		return ActionResult{Effect: EffectText | e.selectionEffect()}, nil
	}},
	"toggle_grid": {false, func(e *Engine, a Action) (ActionResult, error) {
		e.grid = !e.grid
		return ActionResult{Effect: EffectView}, nil
	}},
	"toggle_ruler": {false, func(e *Engine, a Action) (ActionResult, error) {
		e.ruler = !e.ruler
		return ActionResult{Effect: EffectView}, nil
	}},
	"toggle_print_area": {false, func(e *Engine, a Action) (ActionResult, error) {
		e.printArea = !e.printArea
		return ActionResult{Effect: EffectView}, nil
	}},
	"theme": {false, func(e *Engine, a Action) (ActionResult, error) {
		theme, err := LookupTheme(a.Theme, a.PrefersDark)
		if err != nil {
			return ActionResult{}, err
		}
		e.theme = theme
		return ActionResult{Effect: EffectView | EffectText}, nil
	}},
	"print": {true, func(e *Engine, a Action) (ActionResult, error) {
		if e.printer == nil {
			return ActionResult{}, ErrNoPrinter
		}
		out, err := e.printer(e.scene, e.doc)
		if err != nil {
			return ActionResult{}, fmt.Errorf("print: %w", err)
		}
		return ActionResult{Output: out}, nil
	}},
	"resize": {false, func(e *Engine, a Action) (ActionResult, error) {
		e.Resize(a.Width, a.Height)
		return viewEffect(e.viewport != nil), nil
	}},
	"clear_selection": {true, func(e *Engine, a Action) (ActionResult, error) {
		e.picker.Clear()
		return ActionResult{Effect: EffectSelection}, nil
	}},
	"substitute_image": {true, func(e *Engine, a Action) (ActionResult, error) {
		if a.URL == "" {
			delete(e.imageURLs, a.Path)
		} else {
			e.imageURLs[a.Path] = a.URL
		}
		return ActionResult{Effect: EffectView}, nil
	}},
}

// Roles lists the action roles the engine understands.
func Roles() []string {
	roles := make([]string, 0, len(actionHandlers))
	for r := range actionHandlers {
		roles = append(roles, r)
	}
	return roles
}

// Dispatch runs the handler registered for the action's role.
func (e *Engine) Dispatch(a Action) (ActionResult, error) {
	h, ok := actionHandlers[a.Role]
	if !ok {
		return ActionResult{}, fmt.Errorf("%w: %q", ErrUnknownRole, a.Role)
	}
	if h.needsDocument && e.doc == nil {
		return ActionResult{}, document.ErrNoDocument
	}
	return h.run(e, a)
}

func viewEffect(changed bool) ActionResult {
	if !changed {
		return ActionResult{}
	}
	return ActionResult{Effect: EffectView}
}

func (e *Engine) selectionEffect() Effect {
	if e.picker != nil && e.picker.selected != nil {
		return EffectSelection
	}
	return 0
}

func (e *Engine) setLayerVisible(g *LayerGroup, visible bool) ActionResult {
	g.Visible = visible
	if g.Node != nil {
		g.Node.Visible = visible
	}
	// drops a selection that is now hidden
	e.picker.Selected()
	return ActionResult{Effect: EffectView | EffectSelection}
}

// setTextEnabled switches text drag on or off. Turning it off also drops any
// font scaling.
func (e *Engine) setTextEnabled(enabled bool) ActionResult {
	e.textEnabled = enabled
	if e.input != nil {
		e.input.TextEnabled = enabled
	}
	if !enabled && e.drag != nil {
		e.drag.End()
		e.drag.SetFontScale(1)
	}
	return ActionResult{Effect: EffectText}
}

// Resize records the container size in screen pixels.
func (e *Engine) Resize(width, height float64) {
	e.width, e.height = width, height
	if e.viewport != nil {
		e.viewport.Resize(width, height)
	}
}

// --- Queries (engine → host) ---

// Render returns the full SVG for the current session.
func (e *Engine) Render() (string, error) {
	if e.doc == nil {
		return "", document.ErrNoDocument
	}
	opts := SVGOptions{
		ViewBox:   e.viewport.ViewBox(),
		Theme:     e.theme,
		ImageURLs: e.imageURLs,
	}
	if sel := e.picker.Selected(); sel != nil {
		opts.Selection = &sel.Bounds
	}
	return RenderSVG(e.scene, opts), nil
}

// ViewBox returns the current visible rectangle.
func (e *Engine) ViewBox() Rect {
	if e.viewport == nil {
		return Rect{}
	}
	return e.viewport.ViewBox()
}

func (e *Engine) ScalePercent() int {
	if e.viewport == nil {
		return 100
	}
	return e.viewport.ScalePercent()
}

func (e *Engine) Theme() Theme { return e.theme }

type LayerInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Visible     bool   `json:"visible"`
	EntityCount int    `json:"entityCount"`
}

// Layers lists the layer groups in id order.
func (e *Engine) Layers() []LayerInfo {
	if e.scene == nil {
		return nil
	}
	out := make([]LayerInfo, 0, len(e.scene.Layers))
	for _, g := range e.scene.Layers {
		out = append(out, LayerInfo{ID: g.ID, Name: g.Name, Visible: g.Visible, EntityCount: len(g.Entities)})
	}
	return out
}

type DocumentInfo struct {
	Session       string                  `json:"session"`
	Source        string                  `json:"source"`
	Version       int                     `json:"version"`
	PaperSize     string                  `json:"paperSize"`
	Memo          string                  `json:"memo"`
	Bounds        document.Bounds         `json:"bounds"`
	EntityCounts  document.EntityCounts   `json:"entityCounts"`
	PrintSettings *document.PrintSettings `json:"printSettings,omitempty"`
}

func (e *Engine) DocumentInfo() (DocumentInfo, error) {
	if e.doc == nil {
		return DocumentInfo{}, document.ErrNoDocument
	}
	return DocumentInfo{
		Session:       e.sessionID,
		Source:        e.sourceName,
		Version:       e.doc.Version,
		PaperSize:     document.PaperSizeLabel(e.doc.PaperSize),
		Memo:          e.doc.Memo,
		Bounds:        e.bounds,
		EntityCounts:  e.doc.EntityCounts,
		PrintSettings: e.doc.PrintSettings,
	}, nil
}

// Selection returns the picked entity, or nil.
func (e *Engine) Selection() *Selection {
	if e.picker == nil {
		return nil
	}
	return e.picker.Selected()
}

type DisplayStatus struct {
	Theme        string  `json:"theme"`
	TextEnabled  bool    `json:"textEnabled"`
	FontScale    float64 `json:"fontScale"`
	Grid         bool    `json:"grid"`
	Ruler        bool    `json:"ruler"`
	PrintArea    bool    `json:"printArea"`
	ScalePercent int     `json:"scalePercent"`
}

func (e *Engine) DisplayStatus() DisplayStatus {
	scale := 1.0
	if e.drag != nil {
		scale = e.drag.FontScale()
	}
	return DisplayStatus{
		Theme:        e.theme.Name,
		TextEnabled:  e.textEnabled,
		FontScale:    scale,
		Grid:         e.grid,
		Ruler:        e.ruler,
		PrintArea:    e.printArea,
		ScalePercent: e.ScalePercent(),
	}
}
