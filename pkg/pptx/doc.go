// Package pptx assembles presentation packages (Office Open XML) from a
// [plan.Deck].
//
// The package is written directly with archive/zip: one master, one blank
// layout, a theme, and one slide part per planned slide. Pictures are stored
// once per use under ppt/media.
//
// Paint order inside a slide follows the plan: the background (a solid fill
// in the slide's background properties, or a full-bleed picture as the first
// shape), the placed layers in order, then any overlay.
//
// Text boxes carry a single paragraph whose lines are separated by breaks.
// Shapes always carry an explicit fill (or noFill), an explicit outline (or
// noFill line) and an empty effect list so the theme never adds a shadow.
//
// Use [WithCreated] to make output byte-for-byte reproducible, which the
// artifact cache relies on.
package pptx
