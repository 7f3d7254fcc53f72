package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupTheme(t *testing.T) {
	tests := []struct {
		name     string
		dark     bool
		wantBG   string
		wantText string
		wantDark bool
	}{
		{ThemeSystem, false, "#ffffff", "#000000", false},
		{ThemeSystem, true, "#000000", "#ffffff", true},
		{"", false, "#ffffff", "#000000", false},
		{ThemeSolarizedLight, true, "#fdf6e3", "#657b83", false},
		{ThemeSolarizedDark, false, "#002b36", "#839496", true},
	}
	for _, tc := range tests {
		theme, err := LookupTheme(tc.name, tc.dark)
		require.NoError(t, err)
		assert.Equal(t, tc.wantBG, theme.Background)
		assert.Equal(t, tc.wantText, theme.Text)
		assert.Equal(t, tc.wantDark, theme.IsDark())
		assert.NotEmpty(t, theme.Accent)
		assert.NotEqual(t, theme.Background, theme.Accent)
	}
}

func TestLookupThemeUnknown(t *testing.T) {
	_, err := LookupTheme("neon", false)
	assert.ErrorIs(t, err, ErrUnknownTheme)
}

func TestNewThemeRejectsBadColors(t *testing.T) {
	_, err := NewTheme("x", "not-a-color", "#000")
	assert.Error(t, err)
	_, err = NewTheme("x", "#fff", "nope")
	assert.Error(t, err)
}
