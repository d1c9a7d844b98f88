// Package pkg provides the core libraries for figslides design-to-deck
// conversion.
//
// # Overview
//
// figslides turns the JSON export of a design document (frames holding
// positioned text, shape and image layers) into an editable PowerPoint
// presentation. Each frame becomes one 16:9 slide; layers are scaled into
// the slide's safe area and drawn in z-order. Layers that cannot be
// represented are skipped with a reason instead of failing the document.
//
// # Architecture
//
// The data flow through figslides:
//
//	design export JSON
//	         ↓
//	    [scene] package (decode, validate, hash)
//	         ↓
//	    [core/plan] package (color, style and position resolution per layer)
//	         ↓
//	    [pptx] / [preview] packages (PresentationML package, SVG preview)
//
// [pipeline] runs these stages with caching and history and is shared by
// the CLI and the HTTP server.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/figslides/pkg/core/plan"
//	    "github.com/matzehuels/figslides/pkg/pptx"
//	    "github.com/matzehuels/figslides/pkg/scene"
//	)
//
//	doc, _ := scene.ImportJSON("design.json")
//	deck, _ := plan.Build(doc, plan.Options{})
//	data, _ := pptx.Render(deck)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/color] - Color parsing: hex strings, fractional {r,g,b} objects and
// transparency keywords.
//
// [core/style] - Font family, weight, alignment and geometry mapping to
// presentation vocabulary.
//
// [core/layout] - Slide configuration, the per-slide scale transform, layer
// placement, clamping and unit conversion.
//
// [core/imagedata] - Base64 and data-URI image payload decoding and format
// sniffing.
//
// [core/plan] - The layer pipeline: z-order sorting and per-layer planning
// into placed layers or skips.
//
// ## Output
//
// [pptx] - PresentationML writer for planned decks.
//
// [preview] - SVG rendering of planned decks for quick inspection.
//
// ## Infrastructure
//
// [pipeline] - Plan and render orchestration with cache lookups.
//
// [cache] - Plan and artifact caches: null, file and Redis backends.
//
// [history] - Conversion records: memory, file and MongoDB stores.
//
// [server] - HTTP API (chi) for conversions and history.
//
// [config] - TOML configuration.
//
// [httputil] - Remote design export fetching with retries.
//
// [observability] - Hook interfaces for metrics and tracing.
//
// [errors] - Coded errors mapped to HTTP statuses.
//
// # Testing
//
//	go test ./...                                    # All tests
//	FIGSLIDES_TEST_REDIS=localhost:6379 go test ./pkg/cache
//	FIGSLIDES_TEST_MONGO=mongodb://localhost go test ./pkg/history
//
// [scene]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/scene
// [core/plan]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/core/plan
// [core/color]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/core/color
// [core/style]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/core/style
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/core/layout
// [core/imagedata]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/core/imagedata
// [pptx]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/pptx
// [preview]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/preview
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/cache
// [history]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/history
// [server]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/figslides/pkg/httputil
package pkg
