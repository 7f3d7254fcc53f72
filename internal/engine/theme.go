package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

const (
	ThemeSystem         = "system"
	ThemeSolarizedLight = "solarizedLight"
	ThemeSolarizedDark  = "solarizedDark"
)

var ErrUnknownTheme = errors.New("unknown theme")

// Theme swaps the background and text colors. Pen colors are not themed.
type Theme struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Text       string `json:"text"`
	// Accent outlines the selection; derived from the background.
	Accent string `json:"accent"`
}

// LookupTheme resolves a theme name. The system theme follows the host's
// dark-mode preference.
func LookupTheme(name string, prefersDark bool) (Theme, error) {
	var bg, fg string
	switch name {
	case ThemeSystem, "":
		name = ThemeSystem
		if prefersDark {
			bg, fg = "#000000", "#ffffff"
		} else {
			bg, fg = "#ffffff", "#000000"
		}
	case ThemeSolarizedLight:
		bg, fg = "#fdf6e3", "#657b83"
	case ThemeSolarizedDark:
		bg, fg = "#002b36", "#839496"
	default:
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return NewTheme(name, bg, fg)
}

// NewTheme builds a theme from CSS colors.
func NewTheme(name, background, text string) (Theme, error) {
	accent, err := accentFor(background)
	if err != nil {
		return Theme{}, err
	}
	if _, err := csscolorparser.Parse(text); err != nil {
		return Theme{}, fmt.Errorf("text color: %w", err)
	}
	return Theme{Name: name, Background: background, Text: text, Accent: accent}, nil
}

// accentFor picks a saturated color opposite the background hue, light on
// dark backgrounds and dark on light ones.
func accentFor(background string) (string, error) {
	c, err := csscolorparser.Parse(background)
	if err != nil {
		return "", fmt.Errorf("background color: %w", err)
	}
	h, _, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	lightness := 0.35
	if l < 0.5 {
		lightness = 0.65
	}
	return colorful.Hsl(math.Mod(h+180, 360), 0.8, lightness).Clamped().Hex(), nil
}

// IsDark reports whether the theme background is dark.
func (t Theme) IsDark() bool {
	c, err := csscolorparser.Parse(t.Background)
	if err != nil {
		return false
	}
	_, _, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	return l < 0.5
}
