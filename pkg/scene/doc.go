// Package scene decodes design-tool exports into typed documents.
//
// # JSON Format
//
// A document is a named list of slides, each a pixel canvas holding layers:
//
//	{
//	  "fileName": "Pitch",
//	  "slides": [{
//	    "id": "1:2", "name": "Cover", "width": 1920, "height": 1080,
//	    "background": {"type": "SOLID", "color": "#F5F5F5"},
//	    "layers": [{
//	      "type": "TEXT", "name": "Title", "zIndex": 1,
//	      "relativePosition": {"x": 0.1, "y": 0.1, "width": 0.8, "height": 0.2},
//	      "content": "Hello",
//	      "style": {"fontSize": 64, "fontFamily": "Inter", "fontWeight": "Bold"}
//	    }]
//	  }]
//	}
//
// # Leniency
//
// Decoding is forgiving at layer granularity. A layer whose fields have the
// wrong JSON types does not fail the document; it decodes with
// [Layer.Malformed] set so the planner can skip it and carry on. The same
// holds for a slide's background. Only a document that is not JSON at all,
// or whose top-level shape is wrong, is rejected.
//
// Position objects count as present only when they hold at least one key,
// so an exporter sending "position": {} is treated as sending nothing.
//
// # Defaults
//
// Missing values take the defaults in [DefaultStyle] and the Default*
// constants; they are applied while decoding so that downstream code never
// needs to special-case absent fields.
package scene
