package layout

import (
	"errors"
	"fmt"
	"math"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultTargetWidth is a 16:9 slide width in inches.
	DefaultTargetWidth = 10.0

	// DefaultTargetHeight is a 16:9 slide height in inches.
	DefaultTargetHeight = 5.625

	// DefaultSafeMargin is the inset kept free on every side of the slide.
	DefaultSafeMargin = 0.3

	// DefaultSourceWidth is used when a slide reports a non-positive width.
	DefaultSourceWidth = 1920.0

	// DefaultSourceHeight is used when a slide reports a non-positive height.
	DefaultSourceHeight = 1080.0

	// MinExtent is the smallest width or height a placed layer can have.
	MinExtent = 0.1

	// DefaultLayerWidth and DefaultLayerHeight size layers that carry no
	// position at all.
	DefaultLayerWidth  = 1.0
	DefaultLayerHeight = 0.5
)

// ErrInvalidConfig is returned by [Config.Validate].
var ErrInvalidConfig = errors.New("invalid slide config")

// =============================================================================
// Config
// =============================================================================

// Config describes the target slide. All values are in inches.
type Config struct {
	TargetWidth  float64 `json:"target_width" toml:"width" bson:"target_width"`
	TargetHeight float64 `json:"target_height" toml:"height" bson:"target_height"`
	SafeMargin   float64 `json:"safe_margin" toml:"safe_margin" bson:"safe_margin"`

	// EdgeToEdge selects a zero margin. A zero SafeMargin alone means
	// "unset" and resolves to DefaultSafeMargin.
	EdgeToEdge bool `json:"edge_to_edge,omitempty" toml:"edge_to_edge" bson:"edge_to_edge,omitempty"`
}

// DefaultConfig returns a 10×5.625in slide with a 0.3in safe margin.
func DefaultConfig() Config {
	return Config{
		TargetWidth:  DefaultTargetWidth,
		TargetHeight: DefaultTargetHeight,
		SafeMargin:   DefaultSafeMargin,
	}
}

// WithMargin returns c with the given safe margin. Zero selects
// edge-to-edge placement.
func (c Config) WithMargin(m float64) Config {
	c.SafeMargin = m
	c.EdgeToEdge = m == 0
	return c
}

// WithDefaults fills zero fields from [DefaultConfig], so the zero Config
// resolves to DefaultConfig. EdgeToEdge forces the margin to zero.
func (c Config) WithDefaults() Config {
	if c.TargetWidth == 0 {
		c.TargetWidth = DefaultTargetWidth
	}
	if c.TargetHeight == 0 {
		c.TargetHeight = DefaultTargetHeight
	}
	switch {
	case c.EdgeToEdge:
		c.SafeMargin = 0
	case c.SafeMargin == 0:
		c.SafeMargin = DefaultSafeMargin
	}
	return c
}

// Validate checks that the safe area has a positive size.
func (c Config) Validate() error {
	if !finite(c.TargetWidth) || !finite(c.TargetHeight) || !finite(c.SafeMargin) {
		return fmt.Errorf("%w: dimensions must be finite", ErrInvalidConfig)
	}
	if c.TargetWidth <= 0 || c.TargetHeight <= 0 {
		return fmt.Errorf("%w: target size %.3gx%.3g must be positive", ErrInvalidConfig, c.TargetWidth, c.TargetHeight)
	}
	if c.SafeMargin < 0 {
		return fmt.Errorf("%w: safe margin %.3g is negative", ErrInvalidConfig, c.SafeMargin)
	}
	if c.AvailableWidth() <= 0 || c.AvailableHeight() <= 0 {
		return fmt.Errorf("%w: safe margin %.3g leaves no usable area", ErrInvalidConfig, c.SafeMargin)
	}
	return nil
}

// AvailableWidth is the safe area's width.
func (c Config) AvailableWidth() float64 { return c.TargetWidth - 2*c.SafeMargin }

// AvailableHeight is the safe area's height.
func (c Config) AvailableHeight() float64 { return c.TargetHeight - 2*c.SafeMargin }

// =============================================================================
// Transform
// =============================================================================

// Transform is the per-slide positioning context. It is computed once per
// slide and shared read-only by every layer on it.
type Transform struct {
	Scale           float64 `json:"scale"`
	OffsetX         float64 `json:"offset_x"`
	OffsetY         float64 `json:"offset_y"`
	AvailableWidth  float64 `json:"available_width"`
	AvailableHeight float64 `json:"available_height"`
	SourceWidth     float64 `json:"source_width"`
	SourceHeight    float64 `json:"source_height"`
	TargetWidth     float64 `json:"target_width"`
	TargetHeight    float64 `json:"target_height"`
	SafeMargin      float64 `json:"safe_margin"`
}

// ComputeSlideTransform fits a srcW×srcH pixel canvas into cfg's safe area.
// Non-positive (or non-finite) source dimensions fall back to 1920×1080.
func ComputeSlideTransform(srcW, srcH float64, cfg Config) Transform {
	if !finite(srcW) || srcW <= 0 {
		srcW = DefaultSourceWidth
	}
	if !finite(srcH) || srcH <= 0 {
		srcH = DefaultSourceHeight
	}

	availW := cfg.AvailableWidth()
	availH := cfg.AvailableHeight()
	t := Transform{
		AvailableWidth:  availW,
		AvailableHeight: availH,
		SourceWidth:     srcW,
		SourceHeight:    srcH,
		TargetWidth:     cfg.TargetWidth,
		TargetHeight:    cfg.TargetHeight,
		SafeMargin:      cfg.SafeMargin,
	}

	if srcW/srcH > availW/availH {
		t.Scale = availW / srcW
		t.OffsetX = cfg.SafeMargin
		t.OffsetY = cfg.SafeMargin + (availH-srcH*t.Scale)/2
	} else {
		t.Scale = availH / srcH
		t.OffsetY = cfg.SafeMargin
		t.OffsetX = cfg.SafeMargin + (availW-srcW*t.Scale)/2
	}
	return t
}

// ContentRect is the scaled source canvas inside the safe area.
func (t Transform) ContentRect() Rect {
	return Rect{
		X:      t.OffsetX,
		Y:      t.OffsetY,
		Width:  t.SourceWidth * t.Scale,
		Height: t.SourceHeight * t.Scale,
	}
}

// SafeArea is the target canvas minus the margin.
func (t Transform) SafeArea() Rect {
	return Rect{X: t.SafeMargin, Y: t.SafeMargin, Width: t.AvailableWidth, Height: t.AvailableHeight}
}

// Canvas is the full target slide.
func (t Transform) Canvas() Rect {
	return Rect{Width: t.TargetWidth, Height: t.TargetHeight}
}

// =============================================================================
// Geometry
// =============================================================================

// Box is a position as supplied by the design tool: either fractions of the
// safe area or source pixels, depending on which field of the layer it came
// from.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is a placed rectangle on the target slide, in inches.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns X + Width.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns Y + Height.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether o lies entirely within r, allowing eps of
// floating-point slack.
func (r Rect) Contains(o Rect, eps float64) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteOr(f, fallback float64) float64 {
	if finite(f) {
		return f
	}
	return fallback
}
