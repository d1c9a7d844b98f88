// Package preview draws an instruction plan as a single SVG document.
//
// The preview is a debugging aid: it shows where every placed layer lands
// on the target slide without opening the presentation. Slides are stacked
// top to bottom at 96 pixels per inch, each painted in the same order the
// presentation assembler uses (background, layers, overlay).
//
//	deck, _ := plan.Build(doc, plan.Options{})
//	svg := preview.RenderSVG(deck, preview.WithSafeArea())
//
// Text is drawn as plain SVG text with the mapped font family; wrapping is
// not simulated, so long lines run past their frame where the presentation
// would wrap them.
package preview
