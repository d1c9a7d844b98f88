// Package plan turns decoded design documents into drawing instructions.
//
// # Overview
//
// [Build] walks a [scene.Document] slide by slide. For each slide it
// computes a [layout.Transform], resolves the background, sorts the layers
// into paint order and produces one [Outcome] per layer. An outcome is
// either a [PlacedLayer] (a positioned, fully styled text box, shape or
// picture) or a [Skip] explaining why the layer was left out.
//
// The resulting [Deck] is the contract with output sinks: a sink paints each
// slide's background, then its placed layers in order, then its overlay. It
// never needs to look at source fonts, colors or coordinates.
//
// # Failure isolation
//
// Planning is best effort at layer granularity. Unknown layer types, empty
// text, missing or undecodable image data, malformed layer JSON and even
// panics while planning a layer become skips; sibling layers and slides are
// unaffected. Malformed colors never skip a layer: they resolve to black and
// are logged. A background that cannot be decoded is dropped with a warning.
//
// # Diagnostics
//
// All diagnostics go to [Options.Logger]. Nothing is printed otherwise, so
// the planner runs silently in tests and servers.
package plan
