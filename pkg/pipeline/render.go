package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/figslides/pkg/buildinfo"
	"github.com/matzehuels/figslides/pkg/core/plan"
	"github.com/matzehuels/figslides/pkg/errors"
	"github.com/matzehuels/figslides/pkg/pptx"
	"github.com/matzehuels/figslides/pkg/preview"
)

// Render generates output artifacts in the requested formats. It fails as a
// whole: either every format is produced or none is returned.
func Render(deck *plan.Deck, opts Options) (map[string][]byte, error) {
	if deck == nil {
		return nil, errors.New(errors.ErrCodeInternal, "render: nil plan")
	}
	opts.SetRenderDefaults()

	// Shallow copy: the plan may be shared with the cache.
	titled := *deck
	titled.Title = resolveTitle(deck, opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPPTX:
			data, err = pptx.Render(deck, buildPPTXOptions(deck, opts)...)
		case FormatJSON:
			data, err = MarshalPlan(&titled)
		case FormatSVG:
			data = preview.RenderSVG(&titled, preview.WithSafeArea(), preview.WithLabels())
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "Failed to generate %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// buildPPTXOptions builds the assembler options for a deck.
func buildPPTXOptions(deck *plan.Deck, opts Options) []pptx.Option {
	pptxOpts := []pptx.Option{pptx.WithCreator(buildinfo.UserAgent())}
	if title := resolveTitle(deck, opts); title != "" {
		pptxOpts = append(pptxOpts, pptx.WithTitle(title))
	}
	if !opts.Created.IsZero() {
		pptxOpts = append(pptxOpts, pptx.WithCreated(opts.Created))
	}
	return pptxOpts
}

func resolveTitle(deck *plan.Deck, opts Options) string {
	if opts.FileName != "" {
		return opts.FileName
	}
	return deck.Title
}

// MarshalPlan encodes a plan for inspection. Picture data is left out; the
// pictures keep their format and pixel size.
func MarshalPlan(deck *plan.Deck) ([]byte, error) {
	data, err := json.MarshalIndent(deck.WithoutImageData(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	return append(data, '\n'), nil
}
