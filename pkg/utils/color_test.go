package utils

import "testing"

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		r, g, b int
		wantErr bool
	}{
		{"standard blue", "#1E88E5", 30, 136, 229, false},
		{"short form", "#ABC", 170, 187, 204, false},
		{"no hash prefix", "1e88e5", 30, 136, 229, false},
		{"black", "#000000", 0, 0, 0, false},
		{"white", "#ffffff", 255, 255, 255, false},
		{"garbage", "#zzzzzz", 0, 0, 0, true},
		{"wrong length", "#12345", 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, err := HexToRGB(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HexToRGB(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("HexToRGB(%q) = (%d,%d,%d), want (%d,%d,%d)", tt.input, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestRGBToHex(t *testing.T) {
	if got := RGBToHex(30, 136, 229); got != "#1e88e5" {
		t.Errorf("RGBToHex = %q, want #1e88e5", got)
	}
	// Out-of-range values clamp instead of wrapping.
	if got := RGBToHex(-20, 300, 128); got != "#00ff80" {
		t.Errorf("RGBToHex clamp = %q, want #00ff80", got)
	}
}

func TestDeriveThemePaletteLightScheme(t *testing.T) {
	p, err := DeriveThemePalette("#1E88E5")
	if err != nil {
		t.Fatal(err)
	}
	if p.Primary != "#1e88e5" {
		t.Errorf("primary = %q", p.Primary)
	}
	// Blue's complement lands in the orange range.
	if p.Secondary == "" || p.Secondary == p.Primary {
		t.Errorf("secondary not derived: %q", p.Secondary)
	}
	if p.Background != "#f8fafc" || p.Surface != "#ffffff" || p.Text != "#0f172a" {
		t.Errorf("expected light scheme, got bg=%s surface=%s text=%s", p.Background, p.Surface, p.Text)
	}
	if p.TextMuted != "#64748b" {
		t.Errorf("text_muted = %q", p.TextMuted)
	}
}

func TestDeriveThemePaletteDarkScheme(t *testing.T) {
	p, err := DeriveThemePalette("#000088")
	if err != nil {
		t.Fatal(err)
	}
	if p.Background != "#1e293b" || p.Surface != "#334155" || p.Text != "#f8fafc" {
		t.Errorf("expected dark scheme, got bg=%s surface=%s text=%s", p.Background, p.Surface, p.Text)
	}
}

func TestDeriveThemePaletteGrayHasNoHueShift(t *testing.T) {
	// Zero saturation: complement equals the primary tone.
	p, err := DeriveThemePalette("#808080")
	if err != nil {
		t.Fatal(err)
	}
	if p.Secondary != "#808080" {
		t.Errorf("gray secondary = %q, want #808080", p.Secondary)
	}
}

func TestDeriveThemePaletteInvalid(t *testing.T) {
	if _, err := DeriveThemePalette("not-a-color"); err == nil {
		t.Fatal("expected error for invalid color")
	}
}
