package style

import "testing"

func TestMapFontFamily(t *testing.T) {
	tests := []struct {
		name   string
		family string
		want   string
	}{
		{"exact", "Inter", "Calibri"},
		{"exact case-insensitive", "roboto", "Arial"},
		{"weight suffix", "Inter Semi Bold", "Calibri"},
		{"style suffix", "SF Pro Display Medium", "Segoe UI"},
		{"prefix shared", "Times New Roman Italic", "Times New Roman"},
		{"courier variant", "Courier New Bold", "Courier New"},
		{"unknown", "Comic Neue", DefaultFont},
		{"empty", "", DefaultFont},
		{"whitespace", "  Georgia  ", "Georgia"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapFontFamily(tt.family); got != tt.want {
				t.Errorf("MapFontFamily(%q) = %q, want %q", tt.family, got, tt.want)
			}
		})
	}
}

func TestMapFontFamilyFirstMatchWins(t *testing.T) {
	// "Lato" and "Arial" are both substrings; Arial is listed first.
	if got := MapFontFamily("Arial Lato Mix"); got != "Arial" {
		t.Errorf("MapFontFamily = %q, want Arial", got)
	}
}

func TestMapHorizontal(t *testing.T) {
	tests := map[string]HAlign{
		"left":      AlignLeft,
		"CENTER":    AlignCenter,
		"Right":     AlignRight,
		"justified": AlignJustify,
		"justify":   AlignJustify,
		"":          AlignLeft,
		"middle":    AlignLeft,
	}
	for input, want := range tests {
		if got := MapHorizontal(input); got != want {
			t.Errorf("MapHorizontal(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestMapVertical(t *testing.T) {
	tests := map[string]VAlign{
		"top":    AnchorTop,
		"center": AnchorMiddle,
		"MIDDLE": AnchorMiddle,
		"bottom": AnchorBottom,
		"":       AnchorTop,
		"left":   AnchorTop,
	}
	for input, want := range tests {
		if got := MapVertical(input); got != want {
			t.Errorf("MapVertical(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestIsBold(t *testing.T) {
	tests := map[string]bool{
		"Bold":        true,
		"Semi Bold":   true,
		"SemiBold":    true,
		"ExtraBold":   true,
		"700":         true,
		"900":         true,
		"Regular":     false,
		"400":         false,
		"Italic":      false,
		"":            false,
		"Bold Italic": true,
	}
	for input, want := range tests {
		if got := IsBold(input); got != want {
			t.Errorf("IsBold(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestIsItalic(t *testing.T) {
	tests := map[string]bool{
		"Italic":      true,
		"Bold Italic": true,
		"oblique":     true,
		"Regular":     false,
		"":            false,
	}
	for input, want := range tests {
		if got := IsItalic(input); got != want {
			t.Errorf("IsItalic(%q) = %v, want %v", input, got, want)
		}
	}
}
