package pptx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/figslides/pkg/core/color"
	"github.com/matzehuels/figslides/pkg/core/layout"
	"github.com/matzehuels/figslides/pkg/core/plan"
)

type renderedSlide struct {
	xml  []byte
	rels xmlRelationships
}

// slideBuilder accumulates one slide's shape tree. Shape IDs start at 2;
// ID 1 is the tree itself. Relationship rId1 is the layout.
type slideBuilder struct {
	buf    bytes.Buffer
	media  *mediaSet
	rels   xmlRelationships
	nextID int
}

func renderSlide(s plan.Slide, media *mediaSet) renderedSlide {
	b := &slideBuilder{
		media:  media,
		nextID: 2,
		rels: rels(xmlRelationship{
			ID: rID(1), Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml",
		}),
	}

	b.buf.WriteString(xmlDecl)
	fmt.Fprintf(&b.buf, `<p:sld %s><p:cSld name="%s">`, nsAttrs, xmlEscape(s.Name))
	if bg := s.Background; bg != nil && bg.Kind == plan.BackgroundSolid {
		fmt.Fprintf(&b.buf, `<p:bg><p:bgPr>%s<a:effectLst/></p:bgPr></p:bg>`, solidFill(bg.Color))
	}
	b.buf.WriteString(emptyTree)

	if bg := s.Background; bg != nil && bg.Kind == plan.BackgroundImage && bg.Image != nil {
		b.picture("Background", bg.Frame, bg.Image)
	}
	for _, o := range s.Outcomes {
		if o.Placed != nil {
			b.layer(*o.Placed)
		}
	}
	for _, p := range s.Overlay {
		b.layer(p)
	}

	b.buf.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return renderedSlide{xml: b.buf.Bytes(), rels: b.rels}
}

func (b *slideBuilder) id() int {
	id := b.nextID
	b.nextID++
	return id
}

func (b *slideBuilder) layer(p plan.PlacedLayer) {
	switch {
	case p.Text != nil:
		b.textBox(p.Name, p.Frame, p.Text)
	case p.Shape != nil:
		b.shape(p.Name, p.Frame, p.Shape)
	case p.Image != nil:
		b.picture(p.Name, p.Frame, p.Image)
	}
}

func (b *slideBuilder) textBox(name string, r layout.Rect, t *plan.Text) {
	pad := emu(t.Padding)
	wrap := "none"
	if t.WordWrap {
		wrap = "square"
	}
	autofit := "<a:noAutofit/>"
	if t.AutoFit {
		autofit = "<a:normAutofit/>"
	}

	fmt.Fprintf(&b.buf, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`,
		b.id(), xmlEscape(name))
	fmt.Fprintf(&b.buf, `<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`, xfrm(r))
	fmt.Fprintf(&b.buf, `<p:txBody><a:bodyPr wrap="%s" lIns="%d" tIns="%d" rIns="%d" bIns="%d" anchor="%s" rtlCol="0">%s</a:bodyPr><a:lstStyle/>`,
		wrap, pad, pad, pad, pad, string(t.Anchor), autofit)

	rPr := runProperties(t)
	fmt.Fprintf(&b.buf, `<a:p><a:pPr algn="%s"/>`, string(t.Align))
	for i, line := range t.Lines {
		if i > 0 {
			fmt.Fprintf(&b.buf, `<a:br>%s</a:br>`, rPr)
		}
		if line == "" {
			continue
		}
		fmt.Fprintf(&b.buf, `<a:r>%s<a:t>%s</a:t></a:r>`, rPr, xmlEscape(line))
	}
	fmt.Fprintf(&b.buf, `<a:endParaRPr lang="en-US" sz="%d" dirty="0"/></a:p></p:txBody></p:sp>`, fontSize(t.Size))
}

func runProperties(t *plan.Text) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<a:rPr lang="en-US" sz="%d" b="%s" i="%s" dirty="0">`, fontSize(t.Size), flag(t.Bold), flag(t.Italic))
	sb.WriteString(solidFill(t.Color))
	font := xmlEscape(t.Font)
	fmt.Fprintf(&sb, `<a:latin typeface="%s"/><a:cs typeface="%s"/></a:rPr>`, font, font)
	return sb.String()
}

func (b *slideBuilder) shape(name string, r layout.Rect, s *plan.Shape) {
	fmt.Fprintf(&b.buf, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`,
		b.id(), xmlEscape(name))
	fmt.Fprintf(&b.buf, `<p:spPr>%s<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, xfrm(r), s.Geometry)
	if s.Fill.None {
		b.buf.WriteString(`<a:noFill/>`)
	} else {
		b.buf.WriteString(solidFill(s.Fill.Color))
	}
	if s.Line.None {
		b.buf.WriteString(`<a:ln><a:noFill/></a:ln>`)
	} else {
		fmt.Fprintf(&b.buf, `<a:ln w="%d">%s</a:ln>`, lineEMU(s.Line.Width), solidFill(s.Line.Color))
	}
	// An empty effect list overrides the theme's shadow.
	b.buf.WriteString(`<a:effectLst/></p:spPr></p:sp>`)
}

func (b *slideBuilder) picture(name string, r layout.Rect, p *plan.Picture) {
	rid := rID(len(b.rels.Relationships) + 1)
	b.rels.Relationships = append(b.rels.Relationships, xmlRelationship{
		ID: rid, Type: relImage, Target: b.media.add(p),
	})

	fmt.Fprintf(&b.buf, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`,
		b.id(), xmlEscape(name))
	fmt.Fprintf(&b.buf, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, rid)
	fmt.Fprintf(&b.buf, `<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`, xfrm(r))
}

func xfrm(r layout.Rect) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		emu(r.X), emu(r.Y), emu(r.Width), emu(r.Height))
}

func solidFill(c color.RGB) string {
	return fmt.Sprintf(`<a:solidFill><a:srgbClr val="%02X%02X%02X"/></a:solidFill>`, c.R, c.G, c.B)
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
