package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/figslides/pkg/core/layout"
)

// Document defaults.
const (
	DefaultFileName   = "Untitled Presentation"
	DefaultSlideName  = "Untitled Slide"
	DefaultLayerName  = "Untitled Layer"
	DefaultFontSize   = 16.0
	DefaultFontFamily = "Arial"
	DefaultFontWeight = "Regular"
	DefaultColor      = "#000000"
	DefaultTextAlign  = "left"
	DefaultVAlign     = "top"
	DefaultShapeType  = "rectangle"
	DefaultBackground = "#FFFFFF"
)

// LayerType discriminates layer variants.
type LayerType string

// Known layer types. Anything else is skipped by the planner.
const (
	LayerText  LayerType = "TEXT"
	LayerShape LayerType = "SHAPE"
	LayerImage LayerType = "IMAGE"
)

// Known reports whether t is one of the supported variants.
func (t LayerType) Known() bool {
	switch t {
	case LayerText, LayerShape, LayerImage:
		return true
	}
	return false
}

// BackgroundType discriminates slide backgrounds.
type BackgroundType string

// Supported background kinds.
const (
	BackgroundSolid BackgroundType = "SOLID"
	BackgroundImage BackgroundType = "IMAGE"
)

// Document is a complete design export.
type Document struct {
	FileName string  `json:"fileName"`
	Slides   []Slide `json:"slides"`
}

// Slide is one design frame. Width and Height are the source canvas in
// pixels and may differ from slide to slide.
type Slide struct {
	ID         ID          `json:"id"`
	Name       string      `json:"name"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Background *Background `json:"background,omitempty"`
	Layers     []Layer     `json:"layers"`
}

// Size returns the source canvas, substituting 1920×1080 for non-positive
// dimensions.
func (s Slide) Size() (w, h float64) {
	w, h = s.Width, s.Height
	if w <= 0 {
		w = layout.DefaultSourceWidth
	}
	if h <= 0 {
		h = layout.DefaultSourceHeight
	}
	return w, h
}

// Background is a slide's backdrop.
type Background struct {
	Type      BackgroundType `json:"type"`
	Color     any            `json:"color,omitempty"`
	ImageData string         `json:"imageData,omitempty"`

	// Malformed is set when the background object could not be decoded.
	Malformed error `json:"-"`
}

// Layer is one positioned element. Which of Content, ImageData and
// ShapeType matter depends on Type.
type Layer struct {
	Type             LayerType   `json:"type"`
	ID               ID          `json:"id,omitempty"`
	Name             string      `json:"name"`
	ZIndex           float64     `json:"zIndex"`
	Depth            float64     `json:"depth"`
	Position         *layout.Box `json:"position,omitempty"`
	RelativePosition *layout.Box `json:"relativePosition,omitempty"`
	Style            Style       `json:"style"`
	Content          string      `json:"content,omitempty"`
	ImageData        string      `json:"imageData,omitempty"`
	ShapeType        string      `json:"shapeType,omitempty"`

	// Malformed is set when the layer's JSON had fields of the wrong type.
	// Such a layer keeps whatever name could be recovered for diagnostics.
	Malformed error `json:"-"`
}

// Style is the per-layer style record. Color-valued fields hold either a
// string (hex or a transparency keyword) or a fractional {r,g,b} object.
type Style struct {
	FontSize      float64 `json:"fontSize"`
	FontFamily    string  `json:"fontFamily"`
	FontWeight    Weight  `json:"fontWeight"`
	Color         any     `json:"color,omitempty"`
	TextAlign     string  `json:"textAlign"`
	VerticalAlign string  `json:"verticalAlign"`
	Fill          any     `json:"fill,omitempty"`
	Stroke        any     `json:"stroke,omitempty"`
	StrokeWidth   float64 `json:"strokeWidth"`
}

// DefaultStyle is the style of a layer that specifies nothing: 16px black
// Arial, left/top aligned, no fill and no stroke.
func DefaultStyle() Style {
	return Style{
		FontSize:      DefaultFontSize,
		FontFamily:    DefaultFontFamily,
		FontWeight:    DefaultFontWeight,
		Color:         DefaultColor,
		TextAlign:     DefaultTextAlign,
		VerticalAlign: DefaultVAlign,
	}
}

// =============================================================================
// Decoding
// =============================================================================

var null = []byte("null")

func isNull(b []byte) bool { return bytes.Equal(bytes.TrimSpace(b), null) }

// UnmarshalJSON applies defaults before decoding so that absent keys keep
// them and explicit values override them.
func (d *Document) UnmarshalJSON(b []byte) error {
	type plain Document
	p := plain{FileName: DefaultFileName}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = Document(p)
	return nil
}

// UnmarshalJSON decodes a slide, defaulting its name.
func (s *Slide) UnmarshalJSON(b []byte) error {
	type plain Slide
	p := plain{Name: DefaultSlideName}
	if !isNull(b) {
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
	}
	*s = Slide(p)
	return nil
}

// UnmarshalJSON decodes a background. Decoding never fails: a malformed
// object is recorded in Malformed instead.
func (bg *Background) UnmarshalJSON(b []byte) error {
	type plain Background
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		*bg = Background{Malformed: err}
		return nil
	}
	*bg = Background(p)
	return nil
}

// UnmarshalJSON fills defaults for every field absent from b.
func (s *Style) UnmarshalJSON(b []byte) error {
	type plain Style
	p := plain(DefaultStyle())
	if !isNull(b) {
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
	}
	*s = Style(p)
	return nil
}

// layerFields mirrors Layer with positions held raw, so that "{}" can be
// told apart from a populated object.
type layerFields struct {
	Type             LayerType       `json:"type"`
	ID               ID              `json:"id"`
	Name             *string         `json:"name"`
	ZIndex           float64         `json:"zIndex"`
	Depth            float64         `json:"depth"`
	Position         json.RawMessage `json:"position"`
	RelativePosition json.RawMessage `json:"relativePosition"`
	Style            Style           `json:"style"`
	Content          string          `json:"content"`
	ImageData        string          `json:"imageData"`
	ShapeType        string          `json:"shapeType"`
}

// UnmarshalJSON decodes a layer. It never returns an error; problems are
// recorded in Malformed so one bad layer cannot fail its document.
func (l *Layer) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*l = Layer{Name: DefaultLayerName, Style: DefaultStyle()}
		return nil
	}

	f := layerFields{Style: DefaultStyle()}
	if err := json.Unmarshal(b, &f); err != nil {
		*l = Layer{Name: recoverName(b), Style: DefaultStyle(), Malformed: err}
		return nil
	}

	out := Layer{
		Type:      f.Type,
		ID:        f.ID,
		Name:      DefaultLayerName,
		ZIndex:    f.ZIndex,
		Depth:     f.Depth,
		Style:     f.Style,
		Content:   f.Content,
		ImageData: f.ImageData,
		ShapeType: f.ShapeType,
	}
	if f.Name != nil {
		out.Name = *f.Name
	}
	if out.ShapeType == "" {
		out.ShapeType = DefaultShapeType
	}

	var err error
	if out.RelativePosition, err = decodeBox(f.RelativePosition); err != nil {
		out.Malformed = fmt.Errorf("relativePosition: %w", err)
	} else if out.Position, err = decodeBox(f.Position); err != nil {
		out.Malformed = fmt.Errorf("position: %w", err)
	}
	*l = out
	return nil
}

// decodeBox returns nil for absent, null or empty positions.
func decodeBox(raw json.RawMessage) (*layout.Box, error) {
	if len(raw) == 0 || isNull(raw) {
		return nil, nil
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	var box layout.Box
	if err := json.Unmarshal(raw, &box); err != nil {
		return nil, err
	}
	return &box, nil
}

func recoverName(b []byte) string {
	var n struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(b, &n) == nil && n.Name != "" {
		return n.Name
	}
	return DefaultLayerName
}

// =============================================================================
// Loose scalar types
// =============================================================================

// ID is an identifier that exporters send either as a string or a number.
type ID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Weight is a font weight or style name such as "Semi Bold" or "700". Numeric
// weights are kept in their decimal form.
type Weight string

// UnmarshalJSON accepts strings, numbers and null.
func (w *Weight) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*w = DefaultFontWeight
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*w = Weight(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("fontWeight must be a string or number: %w", err)
	}
	*w = Weight(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// String returns the weight as sent.
func (w Weight) String() string { return string(w) }

// =============================================================================
// Summaries
// =============================================================================

// LayerCount returns the number of layers across all slides.
func (d *Document) LayerCount() int {
	n := 0
	for _, s := range d.Slides {
		n += len(s.Layers)
	}
	return n
}

// Label returns a short human-readable description of a layer.
func (l Layer) Label() string {
	t := strings.ToLower(string(l.Type))
	if t == "" {
		t = "untyped"
	}
	return fmt.Sprintf("%s %q", t, l.Name)
}
