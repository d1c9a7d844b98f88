package pptx

import (
	"github.com/matzehuels/figslides/pkg/core/color"
	"github.com/matzehuels/figslides/pkg/core/layout"
	"github.com/matzehuels/figslides/pkg/core/plan"
	"github.com/matzehuels/figslides/pkg/core/style"
)

// SmokeText is the content of the smoke-test deck's only text box.
const SmokeText = "Test from backend!"

// SmokeTest returns a one-slide deck with a single text box at (1in, 1in),
// 8in wide and 1in tall. It checks that the assembler produces a file
// presentation software will open.
func SmokeTest() *plan.Deck {
	cfg := layout.DefaultConfig()
	t := layout.ComputeSlideTransform(layout.DefaultSourceWidth, layout.DefaultSourceHeight, cfg)
	box := plan.PlacedLayer{
		Kind:  plan.KindText,
		Name:  "Smoke Test",
		Frame: layout.Rect{X: 1, Y: 1, Width: 8, Height: 1},
		Text: &plan.Text{
			Lines:    []string{SmokeText},
			Font:     style.DefaultFont,
			Size:     18,
			Color:    color.Black,
			Align:    style.AlignLeft,
			Anchor:   style.AnchorTop,
			Padding:  plan.TextPadding,
			WordWrap: true,
		},
	}
	return &plan.Deck{
		Title:  "Test",
		Config: cfg,
		Slides: []plan.Slide{{
			Name:      "Test",
			Transform: t,
			Outcomes:  []plan.Outcome{{Placed: &box}},
		}},
	}
}
