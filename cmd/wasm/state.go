//go:build js && wasm

package main

import "github.com/svgjww/viewer/internal/engine"

// stateResponse tells the page what to repaint after a call. The viewBox is
// always included so the page can update the root attribute directly.
type stateResponse struct {
	Effects      []string          `json:"effects"`
	ViewBox      string            `json:"viewBox"`
	ScalePercent int               `json:"scalePercent"`
	Handled      bool              `json:"handled,omitempty"`
	Text         *textState        `json:"text,omitempty"`
	Selection    *engine.Selection `json:"selection,omitempty"`
	Output       string            `json:"output,omitempty"`
}

// textState is the new placement of a dragged or rescaled text element.
type textState struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	FontSize  float64 `json:"fontSize"`
	Transform string  `json:"transform"`
}

func effectNames(e engine.Effect) []string {
	names := []string{}
	if e&engine.EffectView != 0 {
		names = append(names, "view")
	}
	if e&engine.EffectText != 0 {
		names = append(names, "text")
	}
	if e&engine.EffectSelection != 0 {
		names = append(names, "selection")
	}
	return names
}

func viewState(effect engine.Effect) stateResponse {
	out := stateResponse{
		Effects:      effectNames(effect),
		ScalePercent: eng.ScalePercent(),
	}
	if eng.Loaded() {
		out.ViewBox = eng.ViewBox().String()
	}
	if effect&engine.EffectSelection != 0 {
		out.Selection = eng.Selection()
	}
	return out
}

func eventResponse(res engine.Result) stateResponse {
	out := viewState(res.Effect)
	out.Handled = res.Handled
	if n := res.Text; n != nil && n.Text != nil {
		out.Text = &textState{
			ID:        n.ID,
			X:         n.Text.X,
			Y:         n.Text.Y,
			FontSize:  n.Text.FontSize,
			Transform: engine.TextTransform(n.Text),
		}
	}
	return out
}
