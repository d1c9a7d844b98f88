// Package style maps design-tool style vocabulary onto the fixed vocabulary
// of the presentation format: font families, weight/style flags and
// horizontal/vertical text alignment.
//
// All lookups are case-insensitive and total: unknown input resolves to a
// documented default instead of an error.
package style

import "strings"

// DefaultFont is used when a family cannot be mapped.
const DefaultFont = "Arial"

// FontMapping pairs a design-tool family with its presentation counterpart.
type FontMapping struct {
	Source string
	Target string
}

// Fonts is the canonical font table, in match priority order. Partial
// matches walk this slice front to back and the first hit wins, so more
// specific families that share a prefix with a broader one must map to the
// same target or be listed first.
var Fonts = []FontMapping{
	{"Inter", "Calibri"},
	{"Roboto", "Arial"},
	{"Helvetica", "Arial"},
	{"SF Pro Display", "Segoe UI"},
	{"SF Pro Text", "Segoe UI"},
	{"Times", "Times New Roman"},
	{"Times New Roman", "Times New Roman"},
	{"Georgia", "Georgia"},
	{"Courier", "Courier New"},
	{"Courier New", "Courier New"},
	{"Arial", "Arial"},
	{"Calibri", "Calibri"},
	{"Segoe UI", "Segoe UI"},
	{"Open Sans", "Calibri"},
	{"Lato", "Calibri"},
	{"Montserrat", "Calibri"},
	{"Source Sans Pro", "Arial"},
}

// MapFontFamily returns the presentation font for a design-tool family.
//
// Exact (case-insensitive) matches win. Otherwise the first table entry whose
// name appears inside family is used, which handles names carrying weight
// suffixes such as "Inter Semi Bold". Unmatched names map to DefaultFont.
func MapFontFamily(family string) string {
	name := strings.TrimSpace(family)
	if name == "" {
		return DefaultFont
	}
	for _, f := range Fonts {
		if strings.EqualFold(f.Source, name) {
			return f.Target
		}
	}
	lower := strings.ToLower(name)
	for _, f := range Fonts {
		if strings.Contains(lower, strings.ToLower(f.Source)) {
			return f.Target
		}
	}
	return DefaultFont
}

// HAlign is a paragraph alignment.
type HAlign string

// Horizontal alignments. Values are the DrawingML "algn" codes.
const (
	AlignLeft    HAlign = "l"
	AlignCenter  HAlign = "ctr"
	AlignRight   HAlign = "r"
	AlignJustify HAlign = "just"
)

// VAlign is a text-box vertical anchor.
type VAlign string

// Vertical anchors. Values are the DrawingML "anchor" codes.
const (
	AnchorTop    VAlign = "t"
	AnchorMiddle VAlign = "ctr"
	AnchorBottom VAlign = "b"
)

var horizontal = map[string]HAlign{
	"left":      AlignLeft,
	"center":    AlignCenter,
	"right":     AlignRight,
	"justified": AlignJustify,
	"justify":   AlignJustify,
}

var vertical = map[string]VAlign{
	"top":    AnchorTop,
	"center": AnchorMiddle,
	"middle": AnchorMiddle,
	"bottom": AnchorBottom,
}

// MapHorizontal maps a text-align keyword. Unknown or empty input is left.
func MapHorizontal(keyword string) HAlign {
	if a, ok := horizontal[strings.ToLower(strings.TrimSpace(keyword))]; ok {
		return a
	}
	return AlignLeft
}

// MapVertical maps a vertical-align keyword. Unknown or empty input is top.
func MapVertical(keyword string) VAlign {
	if a, ok := vertical[strings.ToLower(strings.TrimSpace(keyword))]; ok {
		return a
	}
	return AnchorTop
}

var boldMarkers = []string{"bold", "semibold", "extrabold", "600", "700", "800", "900"}

// IsBold reports whether a weight string such as "Semi Bold" or "700"
// should render bold.
func IsBold(weight string) bool {
	w := strings.ToLower(weight)
	for _, m := range boldMarkers {
		if strings.Contains(w, m) {
			return true
		}
	}
	return false
}

// IsItalic reports whether a weight/style string carries an italic marker.
func IsItalic(weight string) bool {
	w := strings.ToLower(weight)
	return strings.Contains(w, "italic") || strings.Contains(w, "oblique")
}

// String returns a readable alignment name.
func (a HAlign) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	}
	return "left"
}

// String returns a readable anchor name.
func (a VAlign) String() string {
	switch a {
	case AnchorMiddle:
		return "middle"
	case AnchorBottom:
		return "bottom"
	}
	return "top"
}
