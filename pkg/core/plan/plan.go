package plan

import (
	"fmt"
	"io"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figslides/pkg/core/color"
	"github.com/matzehuels/figslides/pkg/core/imagedata"
	"github.com/matzehuels/figslides/pkg/core/layout"
	"github.com/matzehuels/figslides/pkg/core/style"
	"github.com/matzehuels/figslides/pkg/scene"
)

const (
	// TextPadding is the inset on every side of a text box, in inches.
	TextPadding = 0.05

	// MinLineWidth is the thinnest outline drawn, in points.
	MinLineWidth = 0.25
)

// Options configures planning.
type Options struct {
	// Config is the target slide. Zero dimensions take the defaults.
	Config layout.Config

	// SlideNumbers adds the slide name and an "n / total" counter on top of
	// every slide.
	SlideNumbers bool

	// ConstrainToSafeArea keeps placements inside the safe area instead of
	// only inside the canvas.
	ConstrainToSafeArea bool

	// Logger receives per-layer diagnostics. Nil discards them.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	o.Config = o.Config.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Build plans every slide of doc in input order. It fails only when the
// slide configuration is unusable; problems with individual layers become
// skips in the returned deck.
func Build(doc *scene.Document, opts Options) (*Deck, error) {
	opts.setDefaults()
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	deck := &Deck{
		Title:  doc.FileName,
		Config: opts.Config,
		Slides: make([]Slide, 0, len(doc.Slides)),
	}
	for i, s := range doc.Slides {
		deck.Slides = append(deck.Slides, planSlide(s, i, len(doc.Slides), opts))
	}
	return deck, nil
}

// PlanSlide plans a single slide. index is zero-based; total is used for
// the page counter overlay.
func PlanSlide(s scene.Slide, index, total int, opts Options) Slide {
	opts.setDefaults()
	return planSlide(s, index, total, opts)
}

func planSlide(s scene.Slide, index, total int, opts Options) Slide {
	logger := opts.Logger.With("slide", s.Name)

	w, h := s.Size()
	t := layout.ComputeSlideTransform(w, h, opts.Config)
	logger.Debug("computed transform",
		"source", fmt.Sprintf("%gx%g", w, h),
		"scale", t.Scale,
		"offset_x", t.OffsetX,
		"offset_y", t.OffsetY)

	out := Slide{
		Index:      index,
		ID:         string(s.ID),
		Name:       s.Name,
		Transform:  t,
		Background: planBackground(s.Background, t, logger),
	}

	layers := SortLayers(s.Layers)
	out.Outcomes = make([]Outcome, 0, len(layers))
	for _, l := range layers {
		o := planLayer(l, t, opts, logger)
		if o.Skip != nil {
			logger.Warn("skipped layer", "layer", o.Skip.Layer, "reason", o.Skip.Reason, "detail", o.Skip.Detail)
		}
		out.Outcomes = append(out.Outcomes, o)
	}

	if opts.SlideNumbers {
		out.Overlay = slideOverlay(s.Name, index+1, total, t)
	}

	logger.Info("planned slide",
		"placed", len(out.Placed()),
		"skipped", len(out.Outcomes)-len(out.Placed()))
	return out
}

// SortLayers returns the layers in paint order: ascending zIndex, ties kept
// in input order. The input slice is not modified.
func SortLayers(layers []scene.Layer) []scene.Layer {
	sorted := slices.Clone(layers)
	slices.SortStableFunc(sorted, func(a, b scene.Layer) int {
		switch {
		case a.ZIndex < b.ZIndex:
			return -1
		case a.ZIndex > b.ZIndex:
			return 1
		}
		return 0
	})
	return sorted
}

// PlanLayer resolves one layer against a slide transform.
func PlanLayer(l scene.Layer, t layout.Transform, opts Options) Outcome {
	opts.setDefaults()
	return planLayer(l, t, opts, opts.Logger)
}

func planLayer(l scene.Layer, t layout.Transform, opts Options, logger *log.Logger) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("layer panicked", "layer", l.Name, "panic", r, "stack", string(debug.Stack()))
			out = skip(l, SkipInternal, fmt.Errorf("panic: %v", r))
		}
	}()

	if l.Malformed != nil {
		return skip(l, SkipMalformed, l.Malformed)
	}
	if !l.Type.Known() {
		return skip(l, SkipUnknownType, fmt.Errorf("unknown layer type %q", l.Type))
	}

	frame := layout.Place(l.RelativePosition, l.Position, t)
	if opts.ConstrainToSafeArea {
		frame = layout.AdjustForSafeArea(frame, t)
	}
	placed := &PlacedLayer{Name: l.Name, ZIndex: l.ZIndex, Frame: frame}

	switch l.Type {
	case scene.LayerText:
		if strings.TrimSpace(l.Content) == "" {
			return skip(l, SkipEmptyContent, nil)
		}
		placed.Kind = KindText
		placed.Text = planText(l, t, logger)
		if layout.Overflows(l.Content, placed.Text.Size, frame) {
			logger.Debug("text may overflow its box", "layer", l.Name, "size_pt", placed.Text.Size)
		}
	case scene.LayerShape:
		placed.Kind = KindShape
		placed.Shape = planShape(l, t, logger)
	case scene.LayerImage:
		if strings.TrimSpace(l.ImageData) == "" {
			return skip(l, SkipMissingImageData, nil)
		}
		pic, err := decodePicture(l.ImageData)
		if err != nil {
			return skip(l, SkipImageDecode, err)
		}
		placed.Kind = KindImage
		placed.Image = pic
	}
	return Outcome{Placed: placed}
}

func skip(l scene.Layer, reason SkipReason, err error) Outcome {
	s := &Skip{Layer: l.Name, Reason: reason, Err: err}
	if err != nil {
		s.Detail = err.Error()
	}
	return Outcome{Skip: s}
}

func planText(l scene.Layer, t layout.Transform, logger *log.Logger) *Text {
	st := l.Style
	weight := st.FontWeight.String()
	return &Text{
		Lines:    strings.Split(l.Content, "\n"),
		Font:     style.MapFontFamily(st.FontFamily),
		Size:     max(layout.MinFontSize, layout.ScaleFontSize(st.FontSize, t.Scale)),
		Bold:     style.IsBold(weight),
		Italic:   style.IsItalic(weight),
		Color:    resolveColor(st.Color, color.Black, "color", l.Name, logger),
		Align:    style.MapHorizontal(st.TextAlign),
		Anchor:   style.MapVertical(st.VerticalAlign),
		Padding:  TextPadding,
		WordWrap: true,
	}
}

func planShape(l scene.Layer, t layout.Transform, logger *log.Logger) *Shape {
	st := l.Style
	sh := &Shape{
		Geometry: mapGeometry(l.ShapeType),
		Fill:     Paint{None: true},
		Line:     Line{None: true},
	}
	if !color.IsTransparent(st.Fill) {
		sh.Fill = Paint{Color: resolveColor(st.Fill, color.Black, "fill", l.Name, logger)}
	}
	if !color.IsTransparent(st.Stroke) && st.StrokeWidth > 0 {
		sh.Line = Line{
			Color: resolveColor(st.Stroke, color.Black, "stroke", l.Name, logger),
			Width: max(MinLineWidth, st.StrokeWidth*t.Scale),
		}
	}
	return sh
}

func mapGeometry(shapeType string) Geometry {
	if strings.EqualFold(shapeType, "ellipse") {
		return GeometryEllipse
	}
	return GeometryRect
}

// resolveColor never fails: malformed values fall back to black and are
// logged.
func resolveColor(v any, fallback color.RGB, field, layer string, logger *log.Logger) color.RGB {
	c, _, err := color.Resolve(v, fallback)
	if err != nil {
		logger.Warn("invalid color, using black", "layer", layer, "field", field, "err", err)
	}
	return c
}

func decodePicture(payload string) (*Picture, error) {
	img, err := imagedata.Decode(payload)
	if err != nil {
		return nil, err
	}
	return &Picture{Format: img.Format, Width: img.Width, Height: img.Height, Data: img.Data}, nil
}

func planBackground(bg *scene.Background, t layout.Transform, logger *log.Logger) *Background {
	if bg == nil {
		return nil
	}
	if bg.Malformed != nil {
		logger.Warn("ignoring malformed background", "err", bg.Malformed)
		return nil
	}

	canvas := t.Canvas()
	switch bg.Type {
	case scene.BackgroundSolid:
		v := bg.Color
		if v == nil {
			v = scene.DefaultBackground
		}
		c, visible, err := color.Resolve(v, color.White)
		if err != nil {
			logger.Warn("invalid background color, using black", "err", err)
		}
		if !visible {
			return nil
		}
		return &Background{Kind: BackgroundSolid, Color: c, Frame: canvas}
	case scene.BackgroundImage:
		if strings.TrimSpace(bg.ImageData) == "" {
			return nil
		}
		pic, err := decodePicture(bg.ImageData)
		if err != nil {
			logger.Warn("dropping background image", "err", err)
			return nil
		}
		return &Background{Kind: BackgroundImage, Image: pic, Frame: canvas}
	}
	if bg.Type != "" {
		logger.Debug("ignoring background", "type", bg.Type)
	}
	return nil
}

// =============================================================================
// Slide overlay
// =============================================================================

var (
	titleColor   = color.RGB{R: 0x66, G: 0x66, B: 0x66}
	counterColor = color.RGB{R: 0x88, G: 0x88, B: 0x88}
)

// slideOverlay builds the slide title and page counter. The title spans the
// slide's top edge; the counter sits in the bottom-right corner.
func slideOverlay(name string, n, total int, t layout.Transform) []PlacedLayer {
	title := PlacedLayer{
		Kind:  KindText,
		Name:  "Slide Title",
		Frame: layout.Rect{X: 0.2, Y: 0.05, Width: t.TargetWidth - 0.4, Height: 0.3},
		Text: &Text{
			Lines:   []string{name},
			Font:    style.DefaultFont,
			Size:    10,
			Bold:    true,
			Color:   titleColor,
			Align:   style.AlignLeft,
			Anchor:  style.AnchorTop,
			Padding: TextPadding,
		},
	}
	counter := PlacedLayer{
		Kind:  KindText,
		Name:  "Slide Number",
		Frame: layout.Rect{X: t.TargetWidth - 1.5, Y: t.TargetHeight - 0.4, Width: 1.3, Height: 0.3},
		Text: &Text{
			Lines:   []string{fmt.Sprintf("%d / %d", n, total)},
			Font:    style.DefaultFont,
			Size:    8,
			Color:   counterColor,
			Align:   style.AlignRight,
			Anchor:  style.AnchorTop,
			Padding: TextPadding,
		},
	}
	return []PlacedLayer{title, counter}
}
