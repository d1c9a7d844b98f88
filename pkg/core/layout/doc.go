// Package layout maps design-tool canvases onto a fixed presentation slide.
//
// # Overview
//
// A design slide is an arbitrary-sized canvas measured in pixels. A
// presentation slide has a fixed size measured in inches. This package
// computes, once per slide, a [Transform] that fits the source canvas into
// the slide's safe area, and then places each layer through it with [Place].
//
// # Fitting
//
// [ComputeSlideTransform] uses letterbox/pillarbox fitting:
//
//   - The safe area is the target canvas minus [Config.SafeMargin] on every side.
//   - If the source is relatively wider than the safe area, it is scaled to
//     the safe area's width and centered vertically.
//   - Otherwise it is scaled to the safe area's height and centered
//     horizontally.
//
// The scaled canvas therefore never leaves the safe area.
//
// # Placement
//
// Layers carry one of two position schemes:
//
//   - Relative: fractions in [0, 1] of the safe area (margins excluded).
//   - Absolute: source pixels, scaled by [Transform.Scale].
//
// A layer without either scheme is placed at the safe area's origin with a
// 1×0.5in default size. Every result is then given a minimum footprint of
// [MinExtent] and clamped to the full canvas. When a layer is larger than the
// canvas the clamp pins it to the origin rather than shrinking it.
//
//	t := layout.ComputeSlideTransform(1920, 1080, layout.DefaultConfig())
//	r := layout.Place(&layout.Box{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.2}, nil, t)
//
// # Fonts
//
// [ScaleFontSize] converts source pixels to points (0.75pt per px at 96 DPI),
// multiplies by the slide scale and clamps to [MinFontSize, MaxFontSize].
package layout
