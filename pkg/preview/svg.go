package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/figslides/pkg/core/layout"
	"github.com/matzehuels/figslides/pkg/core/plan"
	"github.com/matzehuels/figslides/pkg/core/style"
)

const (
	// DefaultGap is the vertical space between slides, in pixels.
	DefaultGap = 24.0

	labelHeight = 18.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	gap      float64
	safeArea bool
	images   bool
	labels   bool
}

// WithSafeArea outlines each slide's safe area with a dashed rectangle.
func WithSafeArea() SVGOption { return func(r *svgRenderer) { r.safeArea = true } }

// WithoutImages draws pictures as hatched placeholders instead of embedding
// their data.
func WithoutImages() SVGOption { return func(r *svgRenderer) { r.images = false } }

// WithLabels writes each slide's name above it.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithGap sets the space between slides in pixels.
func WithGap(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px >= 0 {
			r.gap = px
		}
	}
}

// RenderSVG draws every slide of deck. A nil or empty deck yields an empty
// drawing sized to one blank slide.
func RenderSVG(deck *plan.Deck, opts ...SVGOption) []byte {
	r := svgRenderer{gap: DefaultGap, images: true}
	for _, opt := range opts {
		opt(&r)
	}

	cfg := layout.DefaultConfig()
	var slides []plan.Slide
	if deck != nil {
		cfg = deck.Config.WithDefaults()
		slides = deck.Slides
	}

	slideW := px(cfg.TargetWidth)
	slideH := px(cfg.TargetHeight)
	pitch := slideH + r.gap
	if r.labels {
		pitch += labelHeight
	}
	totalH := slideH
	if n := len(slides); n > 0 {
		totalH = float64(n)*pitch - r.gap
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		slideW, totalH, slideW, totalH)
	if deck != nil && deck.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", esc(deck.Title))
	}
	buf.WriteString(`  <defs><pattern id="hatch" width="8" height="8" patternUnits="userSpaceOnUse" patternTransform="rotate(45)">` +
		`<line x1="0" y1="0" x2="0" y2="8" stroke="#BBBBBB" stroke-width="2"/></pattern></defs>` + "\n")

	for i, s := range slides {
		y := float64(i) * pitch
		if r.labels {
			fmt.Fprintf(&buf, `  <text x="0" y="%.1f" font-family="%s" font-size="12" fill="#666666">%d. %s</text>`+"\n",
				y+12, style.DefaultFont, i+1, esc(s.Name))
			y += labelHeight
		}
		r.renderSlide(&buf, s, y, slideW, slideH)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderSlide(buf *bytes.Buffer, s plan.Slide, y, w, h float64) {
	fmt.Fprintf(buf, `  <g id="slide-%d" transform="translate(0, %.1f)">`+"\n", s.Index+1, y)
	fmt.Fprintf(buf, `    <clipPath id="clip-%d"><rect width="%.1f" height="%.1f"/></clipPath>`+"\n", s.Index+1, w, h)
	fmt.Fprintf(buf, `    <g clip-path="url(#clip-%d)">`+"\n", s.Index+1)

	fill := "#FFFFFF"
	if bg := s.Background; bg != nil && bg.Kind == plan.BackgroundSolid {
		fill = bg.Color.Hex()
	}
	fmt.Fprintf(buf, `    <rect class="canvas" width="%.1f" height="%.1f" fill="%s" stroke="#CCCCCC"/>`+"\n", w, h, fill)
	if bg := s.Background; bg != nil && bg.Kind == plan.BackgroundImage && bg.Image != nil {
		r.renderPicture(buf, "Background", bg.Frame, bg.Image)
	}

	for _, p := range s.Placed() {
		r.renderLayer(buf, p)
	}
	for _, p := range s.Overlay {
		r.renderLayer(buf, p)
	}
	buf.WriteString("    </g>\n")

	if r.safeArea {
		sa := s.Transform.SafeArea()
		fmt.Fprintf(buf, `    <rect class="safe-area" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#FF00FF" stroke-dasharray="4 3"/>`+"\n",
			px(sa.X), px(sa.Y), px(sa.Width), px(sa.Height))
	}
	for _, sk := range s.Skips() {
		fmt.Fprintf(buf, "    <!-- skipped %s: %s -->\n", commentSafe(sk.Layer), sk.Reason)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderLayer(buf *bytes.Buffer, p plan.PlacedLayer) {
	switch {
	case p.Text != nil:
		renderText(buf, p.Name, p.Frame, p.Text)
	case p.Shape != nil:
		renderShape(buf, p.Name, p.Frame, p.Shape)
	case p.Image != nil:
		r.renderPicture(buf, p.Name, p.Frame, p.Image)
	}
}

func renderShape(buf *bytes.Buffer, name string, f layout.Rect, s *plan.Shape) {
	fill := "none"
	if !s.Fill.None {
		fill = s.Fill.Color.Hex()
	}
	stroke := `stroke="none"`
	if !s.Line.None {
		stroke = fmt.Sprintf(`stroke="%s" stroke-width="%.2f"`, s.Line.Color.Hex(), ptToPx(s.Line.Width))
	}

	if s.Geometry == plan.GeometryEllipse {
		fmt.Fprintf(buf, `      <ellipse data-name="%s" cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="%s" %s/>`+"\n",
			esc(name), px(f.X+f.Width/2), px(f.Y+f.Height/2), px(f.Width/2), px(f.Height/2), fill, stroke)
		return
	}
	fmt.Fprintf(buf, `      <rect data-name="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" %s/>`+"\n",
		esc(name), px(f.X), px(f.Y), px(f.Width), px(f.Height), fill, stroke)
}

func renderText(buf *bytes.Buffer, name string, f layout.Rect, t *plan.Text) {
	size := ptToPx(t.Size)
	lineH := size * 1.2
	pad := px(t.Padding)

	x, anchor := px(f.X)+pad, "start"
	switch t.Align {
	case style.AlignCenter:
		x, anchor = px(f.X+f.Width/2), "middle"
	case style.AlignRight:
		x, anchor = px(f.Right())-pad, "end"
	}

	blockH := lineH * float64(len(t.Lines))
	top := px(f.Y) + pad
	switch t.Anchor {
	case style.AnchorMiddle:
		top = px(f.Y) + (px(f.Height)-blockH)/2
	case style.AnchorBottom:
		top = px(f.Bottom()) - pad - blockH
	}

	weight, fontStyle := "normal", "normal"
	if t.Bold {
		weight = "bold"
	}
	if t.Italic {
		fontStyle = "italic"
	}

	fmt.Fprintf(buf, `      <text data-name="%s" font-family="%s" font-size="%.1f" font-weight="%s" font-style="%s" fill="%s" text-anchor="%s">`,
		esc(name), esc(t.Font), size, weight, fontStyle, t.Color.Hex(), anchor)
	for i, line := range t.Lines {
		// baseline at 80% of the line box
		fmt.Fprintf(buf, `<tspan x="%.1f" y="%.1f">%s</tspan>`, x, top+float64(i)*lineH+size*0.96, esc(line))
	}
	buf.WriteString("</text>\n")
}

func (r *svgRenderer) renderPicture(buf *bytes.Buffer, name string, f layout.Rect, p *plan.Picture) {
	if !r.images || len(p.Data) == 0 {
		fmt.Fprintf(buf, `      <rect data-name="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="url(#hatch)" stroke="#999999"/>`+"\n",
			esc(name), px(f.X), px(f.Y), px(f.Width), px(f.Height))
		return
	}
	fmt.Fprintf(buf, `      <image data-name="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="none" href="data:%s;base64,%s"/>`+"\n",
		esc(name), px(f.X), px(f.Y), px(f.Width), px(f.Height), mimeType(p.Format), base64.StdEncoding.EncodeToString(p.Data))
}

// =============================================================================
// Helpers
// =============================================================================

func px(inches float64) float64 { return layout.InchesToPixels(inches) }

func ptToPx(pt float64) float64 { return pt * layout.DPI / 72 }

func esc(s string) string { return html.EscapeString(s) }

// commentSafe keeps user text from closing an XML comment early.
func commentSafe(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

func mimeType(format string) string {
	switch format {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "tif", "tiff":
		return "image/tiff"
	}
	return "image/" + format
}
