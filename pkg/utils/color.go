package utils

import (
	"fmt"
	"math"
	"strings"
)

// Theme palette derivation from a single primary color. Deriving the
// remaining five colors algorithmically is faster than asking the LLM and
// gives better color harmony.

// HexToRGB parses "#1E88E5" or the short "#ABC" form into 0-255 components.
func HexToRGB(hexColor string) (r, g, b int, err error) {
	h := strings.TrimPrefix(hexColor, "#")
	if len(h) == 3 {
		h = fmt.Sprintf("%c%c%c%c%c%c", h[0], h[0], h[1], h[1], h[2], h[2])
	}
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %q", hexColor)
	}
	if _, err := fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %q", hexColor)
	}
	return r, g, b, nil
}

// RGBToHex formats components (clamped to 0-255) as "#rrggbb".
func RGBToHex(r, g, b int) string {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return v
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
}

// ThemePalette holds the six derived theme colors.
type ThemePalette struct {
	Primary    string
	Secondary  string
	Background string
	Surface    string
	Text       string
	TextMuted  string
}

// DeriveThemePalette builds a complete palette from one primary color:
// secondary is the complement (hue +180°, saturation at 80%), and the
// background scheme flips light/dark on the primary's lightness.
func DeriveThemePalette(primaryHex string) (ThemePalette, error) {
	r, g, b, err := HexToRGB(primaryHex)
	if err != nil {
		return ThemePalette{}, err
	}

	h, l, s := rgbToHLS(float64(r)/255, float64(g)/255, float64(b)/255)

	compH := math.Mod(h+0.5, 1.0)
	compR, compG, compB := hlsToRGB(compH, l, s*0.8)
	secondary := RGBToHex(int(compR*255), int(compG*255), int(compB*255))

	// Lightness > 0.5 means the primary is light, so use the light scheme.
	var background, surface, text string
	if l > 0.5 {
		background = "#f8fafc" // Slate 50
		surface = "#ffffff"
		text = "#0f172a" // Slate 900
	} else {
		background = "#1e293b" // Slate 800
		surface = "#334155"    // Slate 700
		text = "#f8fafc"       // Slate 50
	}

	primary := strings.ToLower(primaryHex)
	if !strings.HasPrefix(primary, "#") {
		primary = "#" + primary
	}

	return ThemePalette{
		Primary:    primary,
		Secondary:  secondary,
		Background: background,
		Surface:    surface,
		Text:       text,
		TextMuted:  "#64748b", // Slate 500, works with both schemes
	}, nil
}

// rgbToHLS converts 0-1 RGB to hue/lightness/saturation, all in 0-1.
func rgbToHLS(r, g, b float64) (h, l, s float64) {
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l = (maxC + minC) / 2

	if maxC == minC {
		return 0, l, 0
	}

	d := maxC - minC
	if l <= 0.5 {
		s = d / (maxC + minC)
	} else {
		s = d / (2 - maxC - minC)
	}

	rc := (maxC - r) / d
	gc := (maxC - g) / d
	bc := (maxC - b) / d
	switch maxC {
	case r:
		h = bc - gc
	case g:
		h = 2 + rc - bc
	default:
		h = 4 + gc - rc
	}
	h = math.Mod(h/6, 1.0)
	if h < 0 {
		h += 1.0
	}
	return h, l, s
}

// hlsToRGB is the inverse conversion, returning 0-1 components.
func hlsToRGB(h, l, s float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}

	var m2 float64
	if l <= 0.5 {
		m2 = l * (1 + s)
	} else {
		m2 = l + s - l*s
	}
	m1 := 2*l - m2

	return hlsValue(m1, m2, h+1.0/3.0), hlsValue(m1, m2, h), hlsValue(m1, m2, h-1.0/3.0)
}

func hlsValue(m1, m2, hue float64) float64 {
	hue = math.Mod(hue, 1.0)
	if hue < 0 {
		hue += 1.0
	}
	switch {
	case hue < 1.0/6.0:
		return m1 + (m2-m1)*hue*6
	case hue < 0.5:
		return m2
	case hue < 2.0/3.0:
		return m1 + (m2-m1)*(2.0/3.0-hue)*6
	default:
		return m1
	}
}
