package plan

import (
	"github.com/samber/lo"

	"github.com/matzehuels/figslides/pkg/core/color"
	"github.com/matzehuels/figslides/pkg/core/layout"
	"github.com/matzehuels/figslides/pkg/core/style"
)

// Kind is the variant of a placed layer.
type Kind string

// Placed layer kinds.
const (
	KindText  Kind = "text"
	KindShape Kind = "shape"
	KindImage Kind = "image"
)

// SkipReason says why a layer produced no output.
type SkipReason string

// Skip reasons.
const (
	SkipUnknownType      SkipReason = "unknown_type"
	SkipMalformed        SkipReason = "malformed_layer"
	SkipEmptyContent     SkipReason = "empty_content"
	SkipMissingImageData SkipReason = "missing_image_data"
	SkipImageDecode      SkipReason = "image_decode"
	SkipInternal         SkipReason = "internal"
)

// Geometry is a preset shape outline. Values are DrawingML preset names.
type Geometry string

// Supported geometries.
const (
	GeometryRect    Geometry = "rect"
	GeometryEllipse Geometry = "ellipse"
)

// Deck is the instruction plan for a whole document: one Slide per input
// slide, in input order.
type Deck struct {
	Title  string        `json:"title"`
	Config layout.Config `json:"config"`
	Slides []Slide       `json:"slides"`
}

// Slide holds the instructions for one output slide. Background is painted
// first, then Outcomes in order (skips paint nothing), then Overlay.
type Slide struct {
	Index      int              `json:"index"`
	ID         string           `json:"id,omitempty"`
	Name       string           `json:"name"`
	Transform  layout.Transform `json:"transform"`
	Background *Background      `json:"background,omitempty"`
	Outcomes   []Outcome        `json:"outcomes"`
	Overlay    []PlacedLayer    `json:"overlay,omitempty"`
}

// Outcome is the result of planning one layer: exactly one of Placed and
// Skip is set.
type Outcome struct {
	Placed *PlacedLayer `json:"placed,omitempty"`
	Skip   *Skip        `json:"skip,omitempty"`
}

// Skipped reports whether the layer was left out.
func (o Outcome) Skipped() bool { return o.Skip != nil }

// Skip records a layer that was left out and why.
type Skip struct {
	Layer  string     `json:"layer"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
	Err    error      `json:"-"`
}

// PlacedLayer is a fully resolved drawing instruction. Exactly one of Text,
// Shape and Image is set, matching Kind. Nothing in it refers to source
// vocabulary: fonts, colors and alignments are already mapped.
type PlacedLayer struct {
	Kind   Kind        `json:"kind"`
	Name   string      `json:"name"`
	ZIndex float64     `json:"z_index"`
	Frame  layout.Rect `json:"frame"`
	Text   *Text       `json:"text,omitempty"`
	Shape  *Shape      `json:"shape,omitempty"`
	Image  *Picture    `json:"image,omitempty"`
}

// Text is a text box. Lines are rendered as one paragraph separated by line
// breaks.
type Text struct {
	Lines    []string     `json:"lines"`
	Font     string       `json:"font"`
	Size     float64      `json:"size_pt"`
	Bold     bool         `json:"bold"`
	Italic   bool         `json:"italic"`
	Color    color.RGB    `json:"color"`
	Align    style.HAlign `json:"align"`
	Anchor   style.VAlign `json:"anchor"`
	Padding  float64      `json:"padding_in"`
	WordWrap bool         `json:"word_wrap"`
	AutoFit  bool         `json:"auto_fit"`
}

// Shape is a preset geometry with fill and outline. Shadows are never drawn.
type Shape struct {
	Geometry Geometry `json:"geometry"`
	Fill     Paint    `json:"fill"`
	Line     Line     `json:"line"`
}

// Paint is a solid fill or explicitly none.
type Paint struct {
	None  bool      `json:"none"`
	Color color.RGB `json:"color"`
}

// Line is an outline or explicitly none. Width is in points.
type Line struct {
	None  bool      `json:"none"`
	Color color.RGB `json:"color"`
	Width float64   `json:"width_pt"`
}

// Picture is a decoded raster image.
type Picture struct {
	Format string `json:"format"`
	Width  int    `json:"width_px"`
	Height int    `json:"height_px"`
	Data   []byte `json:"data,omitempty"`
}

// BackgroundKind discriminates backgrounds.
type BackgroundKind string

// Background kinds.
const (
	BackgroundSolid BackgroundKind = "solid"
	BackgroundImage BackgroundKind = "image"
)

// Background is a solid slide fill or a full-bleed picture.
type Background struct {
	Kind  BackgroundKind `json:"kind"`
	Color color.RGB      `json:"color"`
	Image *Picture       `json:"image,omitempty"`
	Frame layout.Rect    `json:"frame"`
}

// =============================================================================
// Accessors
// =============================================================================

// Placed returns the slide's placed layers in paint order.
func (s Slide) Placed() []PlacedLayer {
	placed := lo.Filter(s.Outcomes, func(o Outcome, _ int) bool { return o.Placed != nil })
	return lo.Map(placed, func(o Outcome, _ int) PlacedLayer { return *o.Placed })
}

// Skips returns the slide's skipped layers in input-sorted order.
func (s Slide) Skips() []Skip {
	skipped := lo.Filter(s.Outcomes, func(o Outcome, _ int) bool { return o.Skip != nil })
	return lo.Map(skipped, func(o Outcome, _ int) Skip { return *o.Skip })
}

// Stats summarizes a deck.
type Stats struct {
	Slides  int                `json:"slides"`
	Placed  int                `json:"placed"`
	Skipped int                `json:"skipped"`
	ByKind  map[Kind]int       `json:"by_kind"`
	Reasons map[SkipReason]int `json:"reasons,omitempty"`
}

// Stats counts placed and skipped layers across the deck.
func (d *Deck) Stats() Stats {
	st := Stats{Slides: len(d.Slides), ByKind: map[Kind]int{}, Reasons: map[SkipReason]int{}}
	for _, s := range d.Slides {
		for _, o := range s.Outcomes {
			switch {
			case o.Placed != nil:
				st.Placed++
				st.ByKind[o.Placed.Kind]++
			case o.Skip != nil:
				st.Skipped++
				st.Reasons[o.Skip.Reason]++
			}
		}
	}
	return st
}

// WithoutImageData returns a copy of d whose pictures carry only their
// metadata. It is used when exporting a plan for inspection.
func (d *Deck) WithoutImageData() *Deck {
	out := *d
	out.Slides = lo.Map(d.Slides, func(s Slide, _ int) Slide {
		if s.Background != nil && s.Background.Image != nil {
			bg := *s.Background
			bg.Image = stripPicture(bg.Image)
			s.Background = &bg
		}
		s.Outcomes = lo.Map(s.Outcomes, func(o Outcome, _ int) Outcome {
			if o.Placed != nil && o.Placed.Image != nil {
				p := *o.Placed
				p.Image = stripPicture(p.Image)
				o.Placed = &p
			}
			return o
		})
		return s
	})
	return &out
}

func stripPicture(p *Picture) *Picture {
	c := *p
	c.Data = nil
	return &c
}
