package engine

import "math"

const (
	ZoomStep      = 1.2
	WheelZoomIn   = 1.1
	WheelZoomOut  = 0.9
	MinPinchScale = 0.1
	MaxPinchScale = 10.0
	FitPadding    = 40.0
)

// Viewport owns zoom and pan. The visible rectangle is always derived from
// the original viewBox captured at construction; nothing else is stored.
type Viewport struct {
	orig    Rect
	scale   float64
	offsetX float64
	offsetY float64

	// container size in screen pixels
	width  float64
	height float64
}

func NewViewport(orig Rect, width, height float64) *Viewport {
	return &Viewport{orig: orig, scale: 1, width: width, height: height}
}

// Resize records the container size. Scale and offsets are kept.
func (v *Viewport) Resize(width, height float64) {
	v.width, v.height = width, height
}

func (v *Viewport) Scale() float64 { return v.scale }

func (v *Viewport) Offset() (float64, float64) { return v.offsetX, v.offsetY }

func (v *Viewport) Original() Rect { return v.orig }

func (v *Viewport) Size() (float64, float64) { return v.width, v.height }

// ScalePercent is the zoom level as shown to users.
func (v *Viewport) ScalePercent() int {
	return int(math.Round(v.scale * 100))
}

// ViewBox returns the current visible rectangle in scene units.
func (v *Viewport) ViewBox() Rect {
	return Rect{
		X:      v.orig.X + v.offsetX,
		Y:      v.orig.Y + v.offsetY,
		Width:  v.orig.Width / v.scale,
		Height: v.orig.Height / v.scale,
	}
}

func (v *Viewport) hasSize() bool {
	return v.width > 0 && v.height > 0
}

// UnitsPerPixel is the horizontal viewBox-to-screen ratio.
func (v *Viewport) UnitsPerPixel() float64 {
	if !v.hasSize() {
		return 1
	}
	return v.ViewBox().Width / v.width
}

// ScreenToScene maps a container-relative pixel to scene units through the
// current viewBox.
func (v *Viewport) ScreenToScene(sx, sy float64) (float64, float64) {
	vb := v.ViewBox()
	if !v.hasSize() {
		return vb.X + sx, vb.Y + sy
	}
	return vb.X + sx/v.width*vb.Width, vb.Y + sy/v.height*vb.Height
}

// ZoomAtPoint multiplies the scale by factor while keeping the scene point
// under (sx, sy) fixed on screen. Scale is not bounded here.
func (v *Viewport) ZoomAtPoint(sx, sy, factor float64) bool {
	if factor <= 0 || !v.hasSize() || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return false
	}
	return v.zoomTo(sx, sy, v.scale*factor)
}

// PinchZoomTo sets an absolute scale, clamped to the pinch range, anchored
// at the pinch midpoint.
func (v *Viewport) PinchZoomTo(sx, sy, scale float64) bool {
	if !v.hasSize() || math.IsNaN(scale) {
		return false
	}
	scale = math.Max(MinPinchScale, math.Min(MaxPinchScale, scale))
	return v.zoomTo(sx, sy, scale)
}

func (v *Viewport) zoomTo(sx, sy, scale float64) bool {
	if scale <= 0 || math.IsInf(scale, 0) {
		return false
	}
	px, py := v.ScreenToScene(sx, sy)

	newW := v.orig.Width / scale
	newH := v.orig.Height / scale
	v.scale = scale
	v.offsetX = px - newW*(sx/v.width) - v.orig.X
	v.offsetY = py - newH*(sy/v.height) - v.orig.Y
	return true
}

func (v *Viewport) ZoomIn() bool {
	return v.ZoomAtPoint(v.width/2, v.height/2, ZoomStep)
}

func (v *Viewport) ZoomOut() bool {
	return v.ZoomAtPoint(v.width/2, v.height/2, 1/ZoomStep)
}

// Fit scales the original viewBox into the padded container without ever
// zooming past 100%. A container too small to hold the padding is a no-op.
func (v *Viewport) Fit() bool {
	availW := v.width - 2*FitPadding
	availH := v.height - 2*FitPadding
	if availW <= 0 || availH <= 0 || v.orig.IsEmpty() {
		return false
	}
	v.scale = math.Min(math.Min(availW/v.orig.Width, availH/v.orig.Height), 1)
	v.offsetX, v.offsetY = 0, 0
	return true
}

func (v *Viewport) Reset() {
	v.scale = 1
	v.offsetX, v.offsetY = 0, 0
}

// Pan moves the view by a screen-pixel delta. Dragging right reveals content
// to the left, so offsets move against the pointer.
func (v *Viewport) Pan(dx, dy float64) bool {
	if !v.hasSize() || (dx == 0 && dy == 0) {
		return false
	}
	vb := v.ViewBox()
	v.offsetX -= dx * vb.Width / v.width
	v.offsetY -= dy * vb.Height / v.height
	return true
}
