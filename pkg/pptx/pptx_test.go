package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/figslides/pkg/core/color"
	"github.com/matzehuels/figslides/pkg/core/layout"
	"github.com/matzehuels/figslides/pkg/core/plan"
	"github.com/matzehuels/figslides/pkg/core/style"
)

var fixed = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func openPackage(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error: %v", err)
	}
	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts[f.Name] = string(b)
	}
	return parts
}

func wellFormed(t *testing.T, name, content string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("%s is not well-formed: %v", name, err)
		}
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func sampleDeck(t *testing.T) *plan.Deck {
	pic := &plan.Picture{Format: "png", Width: 1, Height: 1, Data: pngBytes(t)}
	text := plan.PlacedLayer{
		Kind:  plan.KindText,
		Name:  "Title & Co",
		Frame: layout.Rect{X: 1, Y: 0.5, Width: 4, Height: 1},
		Text: &plan.Text{
			Lines:    []string{"Hello <world>", "", "Bye"},
			Font:     "Calibri",
			Size:     24,
			Bold:     true,
			Color:    color.RGB{R: 0xFF},
			Align:    style.AlignCenter,
			Anchor:   style.AnchorMiddle,
			Padding:  plan.TextPadding,
			WordWrap: true,
		},
	}
	shape := plan.PlacedLayer{
		Kind:  plan.KindShape,
		Name:  "Card",
		Frame: layout.Rect{X: 2, Y: 2, Width: 3, Height: 1.5},
		Shape: &plan.Shape{
			Geometry: plan.GeometryEllipse,
			Fill:     plan.Paint{None: true},
			Line:     plan.Line{Color: color.RGB{B: 0xFF}, Width: 2},
		},
	}
	bare := plan.PlacedLayer{
		Kind:  plan.KindShape,
		Name:  "Bare",
		Frame: layout.Rect{Width: 1, Height: 1},
		Shape: &plan.Shape{
			Geometry: plan.GeometryRect,
			Fill:     plan.Paint{Color: color.RGB{G: 0x80}},
			Line:     plan.Line{None: true},
		},
	}
	photo := plan.PlacedLayer{Kind: plan.KindImage, Name: "Photo", Frame: layout.Rect{X: 6, Y: 1, Width: 2, Height: 2}, Image: pic}

	return &plan.Deck{
		Title:  "Quarterly Review",
		Config: layout.DefaultConfig(),
		Slides: []plan.Slide{
			{
				Name:       "Intro",
				Background: &plan.Background{Kind: plan.BackgroundSolid, Color: color.RGB{R: 0x11, G: 0x22, B: 0x33}},
				Outcomes: []plan.Outcome{
					{Placed: &shape},
					{Skip: &plan.Skip{Layer: "vector", Reason: plan.SkipUnknownType}},
					{Placed: &text},
					{Placed: &bare},
				},
			},
			{
				Name:       "Gallery",
				Background: &plan.Background{Kind: plan.BackgroundImage, Image: pic, Frame: layout.Rect{Width: 10, Height: 5.625}},
				Outcomes:   []plan.Outcome{{Placed: &photo}},
			},
		},
	}
}

func TestRenderPackageParts(t *testing.T) {
	data, err := Render(sampleDeck(t), WithCreated(fixed))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	parts := openPackage(t, data)

	for _, name := range []string{
		partContentTypes, partRootRels, partApp, partCore,
		partPresentation, partPresRels, partPresProps, partViewProps, partTableStyles,
		partMaster, partMasterRels, partLayout, partLayoutRels, partTheme,
		"ppt/slides/slide1.xml", "ppt/slides/_rels/slide1.xml.rels",
		"ppt/slides/slide2.xml", "ppt/slides/_rels/slide2.xml.rels",
		"ppt/media/image1.png",
	} {
		content, ok := parts[name]
		if !ok {
			t.Errorf("missing part %s", name)
			continue
		}
		if strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels") {
			wellFormed(t, name, content)
		}
	}

	ct := parts[partContentTypes]
	for _, want := range []string{`PartName="/ppt/slides/slide2.xml"`, `Extension="png" ContentType="image/png"`} {
		if !strings.Contains(ct, want) {
			t.Errorf("content types missing %s", want)
		}
	}
	if strings.Count(ct, `Extension="png"`) != 1 {
		t.Error("image extension registered more than once")
	}

	pres := parts[partPresentation]
	if !strings.Contains(pres, `<p:sldSz cx="9144000" cy="5143500"/>`) {
		t.Errorf("slide size wrong: %s", pres)
	}
	if !strings.Contains(pres, `<p:sldId id="256" r:id="rId2"/><p:sldId id="257" r:id="rId3"/>`) {
		t.Errorf("slide id list wrong: %s", pres)
	}
	if !strings.Contains(parts[partCore], "<dc:title>Quarterly Review</dc:title>") {
		t.Error("title not recorded")
	}
}

func TestRenderFirstPartIsContentTypes(t *testing.T) {
	data, err := Render(SmokeTest(), WithCreated(fixed))
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if zr.File[0].Name != partContentTypes {
		t.Errorf("first part = %s, want %s", zr.File[0].Name, partContentTypes)
	}
}

func TestRenderSlideContent(t *testing.T) {
	data, err := Render(sampleDeck(t), WithCreated(fixed))
	if err != nil {
		t.Fatal(err)
	}
	slide := openPackage(t, data)["ppt/slides/slide1.xml"]

	wants := []string{
		`<p:bg><p:bgPr><a:solidFill><a:srgbClr val="112233"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`,
		`<p:cNvPr id="2" name="Card"/>`,
		`<a:prstGeom prst="ellipse">`,
		`<a:noFill/><a:ln w="25400"><a:solidFill><a:srgbClr val="0000FF"/></a:solidFill></a:ln><a:effectLst/>`,
		`<p:cNvPr id="3" name="Title &amp; Co"/><p:cNvSpPr txBox="1"/>`,
		`<a:off x="914400" y="457200"/><a:ext cx="3657600" cy="914400"/>`,
		`wrap="square" lIns="45720" tIns="45720" rIns="45720" bIns="45720" anchor="ctr"`,
		`<a:noAutofit/>`,
		`<a:pPr algn="ctr"/>`,
		`sz="2400" b="1" i="0"`,
		`<a:srgbClr val="FF0000"/>`,
		`<a:latin typeface="Calibri"/>`,
		`<a:t>Hello &lt;world&gt;</a:t>`,
		`<a:solidFill><a:srgbClr val="008000"/></a:solidFill><a:ln><a:noFill/></a:ln><a:effectLst/>`,
	}
	for _, want := range wants {
		if !strings.Contains(slide, want) {
			t.Errorf("slide1 missing %s", want)
		}
	}

	if got := strings.Count(slide, "<a:br>"); got != 2 {
		t.Errorf("line breaks = %d, want 2", got)
	}
	if strings.Contains(slide, "vector") {
		t.Error("skipped layer was rendered")
	}
	if i, j := strings.Index(slide, `name="Card"`), strings.Index(slide, `name="Bare"`); i > j {
		t.Error("paint order not preserved")
	}
}

func TestRenderPictures(t *testing.T) {
	data, err := Render(sampleDeck(t), WithCreated(fixed))
	if err != nil {
		t.Fatal(err)
	}
	parts := openPackage(t, data)
	slide := parts["ppt/slides/slide2.xml"]
	relsXML := parts["ppt/slides/_rels/slide2.xml.rels"]

	bg := strings.Index(slide, `name="Background"`)
	photo := strings.Index(slide, `name="Photo"`)
	if bg < 0 || photo < 0 || bg > photo {
		t.Errorf("background picture must come first: bg=%d photo=%d", bg, photo)
	}
	if !strings.Contains(slide, `<a:off x="0" y="0"/><a:ext cx="9144000" cy="5143500"/>`) {
		t.Error("background picture is not full-bleed")
	}
	if strings.Contains(slide, "<p:bg>") {
		t.Error("image background must not set slide background properties")
	}
	for _, want := range []string{`r:embed="rId2"`, `r:embed="rId3"`} {
		if !strings.Contains(slide, want) {
			t.Errorf("slide2 missing %s", want)
		}
	}
	for _, want := range []string{`Id="rId2"`, `Id="rId3"`, `Target="../media/image1.png"`, `Target="../slideLayouts/slideLayout1.xml"`} {
		if !strings.Contains(relsXML, want) {
			t.Errorf("slide2 rels missing %s", want)
		}
	}
	if !bytes.Equal([]byte(parts["ppt/media/image1.png"]), pngBytes(t)) {
		t.Error("media bytes changed")
	}
}

func TestMediaSetSharesIdenticalPictures(t *testing.T) {
	var m mediaSet
	a := m.add(&plan.Picture{Format: "png", Data: []byte("one")})
	b := m.add(&plan.Picture{Format: "png", Data: []byte("two")})
	c := m.add(&plan.Picture{Format: "png", Data: []byte("one")})
	d := m.add(&plan.Picture{Format: "jpeg", Data: []byte("one")})

	if a != c {
		t.Errorf("identical pictures got %s and %s", a, c)
	}
	if a == b || a == d {
		t.Errorf("distinct pictures share a part: %s %s %s", a, b, d)
	}
	if len(m.files) != 3 {
		t.Errorf("files = %d, want 3", len(m.files))
	}
}

func TestRenderDeterministic(t *testing.T) {
	a, err := Render(sampleDeck(t), WithCreated(fixed))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Render(sampleDeck(t), WithCreated(fixed))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Render() with a pinned timestamp should be reproducible")
	}
}

func TestRenderOptions(t *testing.T) {
	data, err := Render(SmokeTest(), WithCreated(fixed), WithTitle("Other"), WithCreator("alice"))
	if err != nil {
		t.Fatal(err)
	}
	core := openPackage(t, data)[partCore]
	for _, want := range []string{"<dc:title>Other</dc:title>", "<dc:creator>alice</dc:creator>", "2024-05-01T12:00:00Z"} {
		if !strings.Contains(core, want) {
			t.Errorf("core properties missing %s", want)
		}
	}
}

func TestRenderNilDeck(t *testing.T) {
	if _, err := Render(nil); !errors.Is(err, ErrNilDeck) {
		t.Errorf("Render(nil) error = %v, want ErrNilDeck", err)
	}
}

func TestRenderEmptyDeck(t *testing.T) {
	data, err := Render(&plan.Deck{}, WithCreated(fixed))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	parts := openPackage(t, data)
	if strings.Contains(parts[partPresentation], "sldIdLst") {
		t.Error("empty deck must not write an empty slide list")
	}
	if !strings.Contains(parts[partPresentation], `cx="9144000"`) {
		t.Error("empty deck should use the default slide size")
	}
}

func TestSmokeTest(t *testing.T) {
	deck := SmokeTest()
	if len(deck.Slides) != 1 {
		t.Fatalf("slides = %d, want 1", len(deck.Slides))
	}
	p := deck.Slides[0].Placed()
	if len(p) != 1 || p[0].Frame != (layout.Rect{X: 1, Y: 1, Width: 8, Height: 1}) {
		t.Errorf("smoke layer = %+v", p)
	}

	data, err := Render(deck, WithCreated(fixed))
	if err != nil {
		t.Fatal(err)
	}
	slide := openPackage(t, data)["ppt/slides/slide1.xml"]
	if !strings.Contains(slide, "<a:t>"+SmokeText+"</a:t>") {
		t.Error("smoke text missing")
	}
	if !strings.Contains(slide, `<a:off x="914400" y="914400"/><a:ext cx="7315200" cy="914400"/>`) {
		t.Error("smoke text box misplaced")
	}
}

func TestMimeType(t *testing.T) {
	tests := map[string]string{
		"png":  "image/png",
		"jpeg": "image/jpeg",
		"jpg":  "image/jpeg",
		"gif":  "image/gif",
		"bmp":  "image/bmp",
		"tiff": "image/tiff",
	}
	for ext, want := range tests {
		if got := mimeType(ext); got != want {
			t.Errorf("mimeType(%q) = %q, want %q", ext, got, want)
		}
	}
}
