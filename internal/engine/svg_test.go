package engine

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svgjww/viewer/internal/document"
)

func TestRenderSVGStructure(t *testing.T) {
	s := newSession(t)
	theme, err := LookupTheme(ThemeSolarizedDark, false)
	require.NoError(t, err)

	svg := RenderSVG(s.scene, SVGOptions{Theme: theme})

	assert.Contains(t, svg, `viewBox="-20 -20 140 140"`)
	assert.Contains(t, svg, `<rect id="jww-background" x="-20" y="-20" width="140" height="140" fill="#002b36"/>`)
	assert.Contains(t, svg, `<g id="layer-0" data-layer="0">`)
	assert.Contains(t, svg, `<line id="jww-e0" data-type="line" data-index="0" data-layer="0" data-pen-color="1" data-pen-width="1" x1="0" y1="50" x2="100" y2="50"`)
	assert.Contains(t, svg, `fill="#839496"`)
	assert.Contains(t, svg, `<tspan id="jww-e1-0" x="10" dy="0">label</tspan>`)
	assert.NotContains(t, svg, "jww-selection")

	// well-formed
	dec := xml.NewDecoder(strings.NewReader(svg))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestRenderSVGHiddenLayers(t *testing.T) {
	s := newSession(t)
	s.scene.Layer(1).Node.Visible = false

	svg := RenderSVG(s.scene, SVGOptions{})
	assert.Contains(t, svg, `<g id="layer-1" data-layer="1" display="none">`)

	svg = RenderSVG(s.scene, SVGOptions{OmitHidden: true, Bare: true})
	assert.NotContains(t, svg, "layer-1")
	assert.NotContains(t, svg, "data-type")
}

func TestRenderSVGEscapesText(t *testing.T) {
	doc := &document.Document{Entities: []document.Entity{{
		Kind: document.KindText,
		Text: &document.Text{Content: `a<b & "c"`},
	}}}
	svg := RenderSVG(buildDoc(t, doc, ""), SVGOptions{})
	assert.Contains(t, svg, `a&lt;b &amp; &#34;c&#34;`)
}

func TestRenderSVGRawAttributes(t *testing.T) {
	doc := &document.Document{Entities: []document.Entity{{
		Kind: document.KindPoint,
		Point: &document.Point{X: 1, Y: 2},
		Raw:   map[string]float64{"x": 1, "y": 2, "pen_style": 3},
	}}}
	svg := RenderSVG(buildDoc(t, doc, ""), SVGOptions{})
	assert.Contains(t, svg, `data-pen-style="3" data-x="1" data-y="2"`)
}

func TestRenderSVGSubstitutesImages(t *testing.T) {
	doc := &document.Document{Entities: []document.Entity{{
		Kind:  document.KindImage,
		Image: &document.Image{Width: 10, Height: 10, ImagePath: "a.bmp", Rotation: 45},
	}}}
	sg := buildDoc(t, doc, "")

	svg := RenderSVG(sg, SVGOptions{})
	assert.Contains(t, svg, `href="a.bmp"`)
	assert.Contains(t, svg, `transform="rotate(-45 0 10)"`)

	svg = RenderSVG(sg, SVGOptions{ImageURLs: map[string]string{"a.bmp": "/assets/asset_1.png"}})
	assert.Contains(t, svg, `href="/assets/asset_1.png"`)
}

func TestRenderSVGSelectionOverlay(t *testing.T) {
	s := newSession(t)
	sel := Rect{X: 1, Y: 2, Width: 3, Height: 4}
	svg := RenderSVG(s.scene, SVGOptions{Selection: &sel, WidthMM: 420, HeightMM: 297})
	assert.Contains(t, svg, `<rect id="jww-selection" x="1" y="2" width="3" height="4"`)
	assert.Contains(t, svg, `width="420mm" height="297mm"`)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0", formatFloat(-0.00001))
	assert.Equal(t, "1.2346", formatFloat(1.23456))
	assert.Equal(t, "-3", formatFloat(-3))
}
