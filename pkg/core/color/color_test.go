package color

import (
	"errors"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RGB
	}{
		{"six digits with hash", "#FF8000", RGB{255, 128, 0}},
		{"six digits without hash", "00ff7f", RGB{0, 255, 127}},
		{"three digits", "#abc", RGB{0xAA, 0xBB, 0xCC}},
		{"three digits without hash", "F0A", RGB{0xFF, 0x00, 0xAA}},
		{"lowercase", "#1a2b3c", RGB{0x1A, 0x2B, 0x3C}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if err != nil {
				t.Fatalf("ParseHex(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHexMalformed(t *testing.T) {
	for _, input := range []string{"", "#", "#12", "#1234", "#12345", "#1234567", "zzzzzz", "#GGGGGG", "rgb(1,2,3)", " #FFFFFF", "#FF FF FF"} {
		t.Run(input, func(t *testing.T) {
			got, err := ParseHex(input)
			if got != Black {
				t.Errorf("ParseHex(%q) = %v, want black", input, got)
			}
			if !errors.Is(err, ErrInvalidHex) {
				t.Errorf("ParseHex(%q) error = %v, want ErrInvalidHex", input, err)
			}
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	tests := map[string]string{
		"#abc":    "#AABBCC",
		"abc":     "#AABBCC",
		"#a1B2c3": "#A1B2C3",
		"000000":  "#000000",
		"#FFFFFF": "#FFFFFF",
		"0f0":     "#00FF00",
	}
	for input, want := range tests {
		c, err := ParseHex(input)
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", input, err)
		}
		if got := FormatHex(c.R, c.G, c.B); got != want {
			t.Errorf("round trip %q = %q, want %q", input, got, want)
		}
	}
}

func TestFromFractional(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"full", map[string]any{"r": 1.0, "g": 0.5, "b": 0.0}, "#FF7F00"},
		{"missing channel", map[string]any{"r": 1.0}, "#FF0000"},
		{"invalid channel", map[string]any{"r": "x", "g": 1.0, "b": 1.0}, "#00FFFF"},
		{"out of range", map[string]any{"r": 2.0, "g": -1.0, "b": 0.2}, "#FF0033"},
		{"not an object", "red", "#000000"},
		{"nil", nil, "#000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromFractional(tt.input); got != tt.want {
				t.Errorf("FromFractional() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		wantHex     string
		wantVisible bool
	}{
		{"hash passthrough", "#abc", "#abc", true},
		{"transparent", "transparent", "", false},
		{"none uppercase", "NONE", "", false},
		{"bare hex", "ff0000", "#ff0000", true},
		{"bare short hex", "f00", "#000000", true},
		{"garbage", "blue", "#000000", true},
		{"fractional", map[string]any{"r": 0.0, "g": 0.0, "b": 1.0}, "#0000FF", true},
		{"object without r", map[string]any{"hex": "#fff"}, "#000000", true},
		{"number", 42.0, "#000000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hex, visible := Normalize(tt.input)
			if hex != tt.wantHex || visible != tt.wantVisible {
				t.Errorf("Normalize(%v) = (%q, %v), want (%q, %v)", tt.input, hex, visible, tt.wantHex, tt.wantVisible)
			}
		})
	}
}

func TestIsTransparent(t *testing.T) {
	tests := []struct {
		input any
		want  bool
	}{
		{nil, true},
		{"", true},
		{"transparent", true},
		{"Transparent", true},
		{"none", true},
		{"#000000", false},
		{map[string]any{}, true},
		{map[string]any{"r": 1.0}, false},
		{0.0, true},
		{0, true},
		{1.0, false},
		{false, true},
	}
	for _, tt := range tests {
		if got := IsTransparent(tt.input); got != tt.want {
			t.Errorf("IsTransparent(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	c, visible, err := Resolve(nil, White)
	if c != White || !visible || err != nil {
		t.Errorf("Resolve(nil) = %v %v %v, want white visible", c, visible, err)
	}

	_, visible, _ = Resolve("none", White)
	if visible {
		t.Error("Resolve(none) should not be visible")
	}

	c, _, err = Resolve("#nothex", White)
	if c != Black || err == nil {
		t.Errorf("Resolve(#nothex) = %v, %v; want black with diagnostic", c, err)
	}
}

func TestContrast(t *testing.T) {
	tests := map[string]string{
		"#FFFFFF": "#000000",
		"#000000": "#FFFFFF",
		"#FFFF00": "#000000",
		"#0000FF": "#FFFFFF",
		"bogus":   "#FFFFFF",
	}
	for input, want := range tests {
		if got := Contrast(input); got != want {
			t.Errorf("Contrast(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLightenDarken(t *testing.T) {
	if got := Lighten("#000000", 0.5); got != "#7F7F7F" {
		t.Errorf("Lighten = %q, want #7F7F7F", got)
	}
	if got := Lighten("#336699", 1); got != "#FFFFFF" {
		t.Errorf("Lighten full = %q, want #FFFFFF", got)
	}
	if got := Darken("#FFFFFF", 0.5); got != "#7F7F7F" {
		t.Errorf("Darken = %q, want #7F7F7F", got)
	}
	if got := Darken("#336699", 2); got != "#000000" {
		t.Errorf("Darken clamp = %q, want #000000", got)
	}
	if got := Lighten("#808080", 0); got != "#808080" {
		t.Errorf("Lighten zero = %q, want #808080", got)
	}
}
