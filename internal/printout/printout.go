// Package printout renders the scene for paper: a standalone SVG sized in
// millimetres, and a PNG rasterization of it.
package printout

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/svgjww/viewer/internal/document"
	"github.com/svgjww/viewer/internal/engine"
)

var ErrEmptyScene = errors.New("nothing to print")

// Paper is a landscape sheet in millimetres.
type Paper struct {
	Name   string
	Width  float64
	Height float64
}

var papers = map[int]Paper{
	0:  {"A0", 1189, 841},
	1:  {"A1", 841, 594},
	2:  {"A2", 594, 420},
	3:  {"A3", 420, 297},
	4:  {"A4", 297, 210},
	8:  {"2A", 1682, 1189},
	9:  {"3A", 2378, 1682},
	10: {"4A", 3364, 2378},
	11: {"5A", 4756, 3364},
}

// PaperFor returns the sheet for a JWW paper size code. Codes without a
// sheet size (the 10m/50m/100m drafting ranges) report false.
func PaperFor(code int) (Paper, bool) {
	p, ok := papers[code]
	return p, ok
}

func printTheme() engine.Theme {
	theme, err := engine.NewTheme("print", "#ffffff", "#000000")
	if err != nil {
		panic(err)
	}
	return theme
}

// SVG renders the unzoomed scene with only visible layers on a white
// background. The sheet follows the paper size when it is known; otherwise
// one drawing unit prints as one millimetre.
func SVG(sg *engine.SceneGraph, paperSize int) (string, error) {
	if sg == nil || sg.Root == nil {
		return "", ErrEmptyScene
	}
	opts := engine.SVGOptions{
		Theme:      printTheme(),
		OmitHidden: true,
		Bare:       true,
	}
	if p, ok := PaperFor(paperSize); ok {
		opts.WidthMM, opts.HeightMM = p.Width, p.Height
	} else {
		opts.WidthMM, opts.HeightMM = sg.ViewBox.Width, sg.ViewBox.Height
	}
	return engine.RenderSVG(sg, opts), nil
}

// Printer adapts SVG to the engine's print action.
func Printer(sg *engine.SceneGraph, doc *document.Document) (string, error) {
	code := -1
	if doc != nil {
		code = doc.PaperSize
	}
	return SVG(sg, code)
}

// PNG rasterizes the printable scene at the given pixel width. Text and
// images are not drawn by the rasterizer.
func PNG(sg *engine.SceneGraph, widthPx int) ([]byte, error) {
	if sg == nil || sg.Root == nil {
		return nil, ErrEmptyScene
	}
	vb := sg.ViewBox
	if vb.IsEmpty() || widthPx <= 0 {
		return nil, fmt.Errorf("invalid raster size %dpx for %s: %w", widthPx, vb, ErrEmptyScene)
	}
	heightPx := int(float64(widthPx) * vb.Height / vb.Width)
	if heightPx <= 0 {
		heightPx = 1
	}

	svg := engine.RenderSVG(sg, engine.SVGOptions{Theme: printTheme(), OmitHidden: true, Bare: true, OmitSize: true})
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("read print svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(widthPx), float64(heightPx))

	img := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(widthPx, heightPx, img, img.Bounds())
	dasher := rasterx.NewDasher(widthPx, heightPx, scanner)
	icon.Draw(dasher, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
