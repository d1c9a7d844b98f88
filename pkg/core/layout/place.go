package layout

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Font size bounds in points.
const (
	MinFontSize = 8.0
	MaxFontSize = 72.0

	// PointsPerPixel converts CSS pixels to points at 96 DPI.
	PointsPerPixel = 0.75

	// DPI is the screen resolution design tools assume.
	DPI = 96.0
)

// Place positions a layer on the target slide.
//
// rel holds fractions of the safe area and wins when both are set; abs holds
// source pixels. With neither, the layer gets a default 1×0.5in box at the
// safe area's origin. The result always has at least [MinExtent] on each
// axis and is clamped so its origin stays within the canvas.
func Place(rel, abs *Box, t Transform) Rect {
	var r Rect
	switch {
	case rel != nil:
		r = Rect{
			X:      t.OffsetX + finiteOr(rel.X, 0)*t.AvailableWidth,
			Y:      t.OffsetY + finiteOr(rel.Y, 0)*t.AvailableHeight,
			Width:  finiteOr(rel.Width, 0) * t.AvailableWidth,
			Height: finiteOr(rel.Height, 0) * t.AvailableHeight,
		}
	case abs != nil:
		r = Rect{
			X:      t.OffsetX + finiteOr(abs.X, 0)*t.Scale,
			Y:      t.OffsetY + finiteOr(abs.Y, 0)*t.Scale,
			Width:  finiteOr(abs.Width, 0) * t.Scale,
			Height: finiteOr(abs.Height, 0) * t.Scale,
		}
	default:
		r = Rect{X: t.OffsetX, Y: t.OffsetY, Width: DefaultLayerWidth, Height: DefaultLayerHeight}
	}
	return clampToCanvas(r, t)
}

func clampToCanvas(r Rect, t Transform) Rect {
	r.Width = math.Max(r.Width, MinExtent)
	r.Height = math.Max(r.Height, MinExtent)
	r.X = clamp(r.X, 0, t.TargetWidth-r.Width)
	r.Y = clamp(r.Y, 0, t.TargetHeight-r.Height)
	return r
}

// AdjustForSafeArea moves r so that it sits inside the safe area. Its size
// is left alone; a box wider than the safe area is pinned to the margin.
func AdjustForSafeArea(r Rect, t Transform) Rect {
	r.X = clamp(r.X, t.SafeMargin, t.TargetWidth-t.SafeMargin-r.Width)
	r.Y = clamp(r.Y, t.SafeMargin, t.TargetHeight-t.SafeMargin-r.Height)
	return r
}

// clamp returns max(lo, min(v, hi)). When hi < lo, lo wins.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// ScaleFontSize converts a source size in pixels to points and applies the
// slide scale. The result is always within [MinFontSize, MaxFontSize].
func ScaleFontSize(px, scale float64) float64 {
	pt := px * PointsPerPixel * scale
	switch {
	case math.IsNaN(pt):
		return MinFontSize
	case pt < MinFontSize:
		return MinFontSize
	case pt > MaxFontSize:
		return MaxFontSize
	}
	return pt
}

// PixelsToInches converts screen pixels at 96 DPI.
func PixelsToInches(px float64) float64 { return px / DPI }

// InchesToPixels converts inches to screen pixels at 96 DPI.
func InchesToPixels(in float64) float64 { return in * DPI }

// AspectRatio returns width/height, or 0 when height is zero.
func AspectRatio(width, height float64) float64 {
	if height == 0 {
		return 0
	}
	return width / height
}

// IsLandscape reports whether width exceeds height.
func IsLandscape(width, height float64) bool { return width > height }

// Text extent heuristics. There are no font metrics here, so these are
// rough averages for proportional Latin fonts.
const (
	charWidthRatio  = 0.6
	lineHeightRatio = 1.2
	minTextWidth    = 0.5
	minTextHeight   = 0.3
)

// EstimateTextBox guesses the size in inches that text set at pt points
// needs, using the longest line and the line count. Empty text yields a
// 1×0.3in box.
func EstimateTextBox(text string, pt float64) (width, height float64) {
	if text == "" {
		return 1.0, minTextHeight
	}
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	width = math.Max(minTextWidth, float64(longest)*pt*charWidthRatio/72)
	height = math.Max(minTextHeight, float64(len(lines))*pt*lineHeightRatio/72)
	return width, height
}

// Overflows reports whether text set at pt points likely spills out of r.
// Boxes word-wrap, so a line wider than r adds rows instead of overflowing
// sideways.
func Overflows(text string, pt float64, r Rect) bool {
	w, h := EstimateTextBox(text, pt)
	if r.Width > 0 && w > r.Width {
		h *= math.Ceil(w / r.Width)
	}
	return h > r.Height
}
