// Package color parses and normalizes the color values found in design-tool
// exports into canonical RGB triples.
//
// Design tools emit colors in several shapes: "#RRGGBB" or "#RGB" hex strings
// (with or without the leading '#'), fractional channel objects such as
// {"r": 0.2, "g": 0.4, "b": 1}, and transparency keywords ("transparent",
// "none"). Everything in this package fails soft: malformed input resolves to
// black and an error describing the problem is returned for the caller to
// log, so cosmetic attributes never abort a conversion.
package color

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ErrInvalidHex is returned when a string is not a 3- or 6-digit hex color.
var ErrInvalidHex = errors.New("invalid hex color")

// Black is the fallback for anything that cannot be parsed.
var Black = RGB{}

// White is the default slide background.
var White = RGB{R: 255, G: 255, B: 255}

var hexPattern = regexp.MustCompile(`^(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as "#RRGGBB" in uppercase.
func (c RGB) Hex() string {
	return FormatHex(c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c RGB) String() string { return c.Hex() }

// MarshalText encodes the color as its hex form so that instruction plans
// serialize as "#RRGGBB" instead of channel objects.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText is the inverse of MarshalText. Malformed values are rejected.
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Luminance returns the perceived brightness in [0, 1].
func (c RGB) Luminance() float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// FormatHex formats channels as "#RRGGBB".
func FormatHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// ParseHex parses "#RGB", "RGB", "#RRGGBB" or "RRGGBB".
// On failure it returns Black together with an error wrapping ErrInvalidHex.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimLeft(s, "#")
	if !hexPattern.MatchString(h) {
		return Black, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	return RGB{
		R: hexByte(h[0])<<4 | hexByte(h[1]),
		G: hexByte(h[2])<<4 | hexByte(h[3]),
		B: hexByte(h[4])<<4 | hexByte(h[5]),
	}, nil
}

func hexByte(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// FromFractional converts a {"r","g","b"} object with channels in [0, 1]
// to hex. Missing or non-numeric channels count as 0. Anything that is not
// an object yields "#000000".
func FromFractional(v any) string {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return Black.Hex()
	}
	return RGB{
		R: fractionToByte(m["r"]),
		G: fractionToByte(m["g"]),
		B: fractionToByte(m["b"]),
	}.Hex()
}

func fractionToByte(v any) uint8 {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) {
		return 0
	}
	return clampByte(f * 255)
}

// Normalize turns any supported color representation into "#RRGGBB"-ish hex.
// visible is false for transparency keywords, meaning "no fill / no stroke".
//
// Strings starting with '#' pass through untouched (validation is left to
// ParseHex); bare 6-digit hex gains a '#'; fractional objects are converted;
// anything else becomes "#000000".
func Normalize(v any) (hex string, visible bool) {
	switch c := v.(type) {
	case string:
		if isTransparentKeyword(c) {
			return "", false
		}
		if strings.HasPrefix(c, "#") {
			return c, true
		}
		if len(c) == 6 && hexPattern.MatchString(c) {
			return "#" + c, true
		}
		return Black.Hex(), true
	case map[string]any:
		if _, ok := c["r"]; ok {
			return FromFractional(c), true
		}
	}
	return Black.Hex(), true
}

// Resolve normalizes v and parses it. fallback is used when v is nil. The
// returned error is a diagnostic only; the color is always usable.
func Resolve(v any, fallback RGB) (c RGB, visible bool, err error) {
	if v == nil {
		return fallback, true, nil
	}
	hex, visible := Normalize(v)
	if !visible {
		return fallback, false, nil
	}
	c, err = ParseHex(hex)
	return c, true, err
}

// IsTransparent reports whether v means "no paint": nil, empty values, a
// numeric zero and the keywords "transparent" / "none" in any case.
func IsTransparent(v any) bool {
	switch c := v.(type) {
	case nil:
		return true
	case string:
		return c == "" || isTransparentKeyword(c)
	case map[string]any:
		return len(c) == 0
	case bool:
		return !c
	case float64:
		return c == 0
	case int:
		return c == 0
	}
	return false
}

func isTransparentKeyword(s string) bool {
	return strings.EqualFold(s, "transparent") || strings.EqualFold(s, "none")
}

// Contrast returns "#000000" for light colors and "#FFFFFF" for dark ones.
func Contrast(hex string) string {
	c, _ := ParseHex(hex)
	if c.Luminance() > 0.5 {
		return Black.Hex()
	}
	return White.Hex()
}

// Lighten moves every channel toward 255 by factor (0..1).
func Lighten(hex string, factor float64) string {
	c, _ := ParseHex(hex)
	return RGB{
		R: clampByte(float64(c.R) + (255-float64(c.R))*factor),
		G: clampByte(float64(c.G) + (255-float64(c.G))*factor),
		B: clampByte(float64(c.B) + (255-float64(c.B))*factor),
	}.Hex()
}

// Darken moves every channel toward 0 by factor (0..1).
func Darken(hex string, factor float64) string {
	c, _ := ParseHex(hex)
	return RGB{
		R: clampByte(float64(c.R) * (1 - factor)),
		G: clampByte(float64(c.G) * (1 - factor)),
		B: clampByte(float64(c.B) * (1 - factor)),
	}.Hex()
}

// clampByte truncates toward zero after clamping to [0, 255].
func clampByte(f float64) uint8 {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= 255:
		return 255
	}
	return uint8(f)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
