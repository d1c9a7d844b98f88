package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPresentation  = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawing       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeRels    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsCoreProps     = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsExtProps      = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsDocPropsVT    = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	nsDC            = "http://purl.org/dc/elements/1.1/"
	nsDCTerms       = "http://purl.org/dc/terms/"
	nsXSI           = "http://www.w3.org/2001/XMLSchema-instance"

	relOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relPresProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/presProps"
	relViewProps   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/viewProps"
	relTableStyles = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/tableStyles"
	relImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctPresProps    = "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"
	ctViewProps    = "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"
	ctTableStyles  = "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"
	ctCoreProps    = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels         = "application/vnd.openxmlformats-package.relationships+xml"
)

// Part names inside the package.
const (
	partContentTypes = "[Content_Types].xml"
	partRootRels     = "_rels/.rels"
	partApp          = "docProps/app.xml"
	partCore         = "docProps/core.xml"
	partPresentation = "ppt/presentation.xml"
	partPresRels     = "ppt/_rels/presentation.xml.rels"
	partPresProps    = "ppt/presProps.xml"
	partViewProps    = "ppt/viewProps.xml"
	partTableStyles  = "ppt/tableStyles.xml"
	partMaster       = "ppt/slideMasters/slideMaster1.xml"
	partMasterRels   = "ppt/slideMasters/_rels/slideMaster1.xml.rels"
	partLayout       = "ppt/slideLayouts/slideLayout1.xml"
	partLayoutRels   = "ppt/slideLayouts/_rels/slideLayout1.xml.rels"
	partTheme        = "ppt/theme/theme1.xml"
)

func slidePart(n int) string     { return fmt.Sprintf("ppt/slides/slide%d.xml", n) }
func slideRelsPart(n int) string { return fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n) }
func mediaPart(n int, ext string) string {
	return fmt.Sprintf("ppt/media/image%d.%s", n, ext)
}

// =============================================================================
// Zip helpers
// =============================================================================

func (w *writer) create(path string) (io.Writer, error) {
	fw, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     path,
		Method:   zip.Deflate,
		Modified: w.opts.created,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return fw, nil
}

func (w *writer) writeXML(path string, v any) error {
	fw, err := w.create(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(fw, xml.Header); err != nil {
		return err
	}
	if err := xml.NewEncoder(fw).Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func (w *writer) writeRaw(path string, content []byte) error {
	fw, err := w.create(path)
	if err != nil {
		return err
	}
	_, err = fw.Write(content)
	return err
}

func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

// =============================================================================
// Content types and relationships
// =============================================================================

type xmlTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

func rels(rs ...xmlRelationship) xmlRelationships {
	return xmlRelationships{Xmlns: nsRelationships, Relationships: rs}
}

func rID(n int) string { return fmt.Sprintf("rId%d", n) }

func (w *writer) writeContentTypes() error {
	ct := xmlTypes{
		Xmlns: nsContentTypes,
		Defaults: []xmlDefault{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []xmlOverride{
			{PartName: "/" + partPresentation, ContentType: ctPresentation},
			{PartName: "/" + partPresProps, ContentType: ctPresProps},
			{PartName: "/" + partViewProps, ContentType: ctViewProps},
			{PartName: "/" + partTableStyles, ContentType: ctTableStyles},
			{PartName: "/" + partMaster, ContentType: ctSlideMaster},
			{PartName: "/" + partLayout, ContentType: ctSlideLayout},
			{PartName: "/" + partTheme, ContentType: ctTheme},
			{PartName: "/" + partCore, ContentType: ctCoreProps},
			{PartName: "/" + partApp, ContentType: ctExtProps},
		},
	}
	for _, ext := range w.media.extensions() {
		ct.Defaults = append(ct.Defaults, xmlDefault{Extension: ext, ContentType: mimeType(ext)})
	}
	for i := range w.slides {
		ct.Overrides = append(ct.Overrides, xmlOverride{PartName: "/" + slidePart(i+1), ContentType: ctSlide})
	}
	return w.writeXML(partContentTypes, ct)
}

func (w *writer) writeRootRels() error {
	return w.writeXML(partRootRels, rels(
		xmlRelationship{ID: "rId1", Type: relOfficeDoc, Target: partPresentation},
		xmlRelationship{ID: "rId2", Type: relCoreProps, Target: partCore},
		xmlRelationship{ID: "rId3", Type: relExtProps, Target: partApp},
	))
}

// Presentation relationships: rId1 is the master, slides follow from rId2,
// then the property parts and the theme.
func (w *writer) writePresentationRels() error {
	r := rels(xmlRelationship{ID: rID(1), Type: relSlideMaster, Target: "slideMasters/slideMaster1.xml"})
	n := 2
	for i := range w.slides {
		r.Relationships = append(r.Relationships, xmlRelationship{
			ID: rID(n), Type: relSlide, Target: fmt.Sprintf("slides/slide%d.xml", i+1),
		})
		n++
	}
	for _, p := range []struct{ typ, target string }{
		{relPresProps, "presProps.xml"},
		{relViewProps, "viewProps.xml"},
		{relTableStyles, "tableStyles.xml"},
		{relTheme, "theme/theme1.xml"},
	} {
		r.Relationships = append(r.Relationships, xmlRelationship{ID: rID(n), Type: p.typ, Target: p.target})
		n++
	}
	return w.writeXML(partPresRels, r)
}

// =============================================================================
// Document properties
// =============================================================================

func (w *writer) writeAppProperties() error {
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="%s" xmlns:vt="%s"><Application>%s</Application><Slides>%d</Slides><PresentationFormat>Custom</PresentationFormat></Properties>`,
		nsExtProps, nsDocPropsVT, xmlEscape(w.opts.application), len(w.slides))
	return w.writeRaw(partApp, []byte(content))
}

func (w *writer) writeCoreProperties() error {
	ts := w.opts.created.UTC().Format(time.RFC3339)
	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="%s" xmlns:dc="%s" xmlns:dcterms="%s" xmlns:xsi="%s"><dc:title>%s</dc:title><dc:creator>%s</dc:creator><cp:lastModifiedBy>%s</cp:lastModifiedBy><cp:revision>1</cp:revision><dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created><dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified></cp:coreProperties>`,
		nsCoreProps, nsDC, nsDCTerms, nsXSI,
		xmlEscape(w.opts.title), xmlEscape(w.opts.creator), xmlEscape(w.opts.creator), ts, ts)
	return w.writeRaw(partCore, []byte(content))
}

// =============================================================================
// Presentation
// =============================================================================

const (
	firstSlideID   = 256
	masterID       = 2147483648
	notesWidthEMU  = 6858000
	notesHeightEMU = 9144000
)

func (w *writer) writePresentation() error {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">`, nsDrawing, nsOfficeRels, nsPresentation)
	fmt.Fprintf(&b, `<p:sldMasterIdLst><p:sldMasterId id="%d" r:id="rId1"/></p:sldMasterIdLst>`, masterID)
	if len(w.slides) > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := range w.slides {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="%s"/>`, firstSlideID+i, rID(i+2))
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/><p:notesSz cx="%d" cy="%d"/>`,
		w.width, w.height, notesWidthEMU, notesHeightEMU)
	b.WriteString(`</p:presentation>`)
	return w.writeRaw(partPresentation, []byte(b.String()))
}

func (w *writer) writeStaticParts() error {
	parts := []struct {
		path    string
		content string
	}{
		{partPresProps, presPropsXML},
		{partViewProps, viewPropsXML},
		{partTableStyles, tableStylesXML},
		{partMaster, slideMasterXML},
		{partLayout, slideLayoutXML},
		{partTheme, themeXML},
	}
	for _, p := range parts {
		if err := w.writeRaw(p.path, []byte(p.content)); err != nil {
			return err
		}
	}
	if err := w.writeXML(partMasterRels, rels(
		xmlRelationship{ID: "rId1", Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		xmlRelationship{ID: "rId2", Type: relTheme, Target: "../theme/theme1.xml"},
	)); err != nil {
		return err
	}
	return w.writeXML(partLayoutRels, rels(
		xmlRelationship{ID: "rId1", Type: relSlideMaster, Target: "../slideMasters/slideMaster1.xml"},
	))
}

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const nsAttrs = `xmlns:a="` + nsDrawing + `" xmlns:r="` + nsOfficeRels + `" xmlns:p="` + nsPresentation + `"`

const emptyTree = `<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const presPropsXML = xmlDecl + `<p:presentationPr ` + nsAttrs + `/>`

const viewPropsXML = xmlDecl + `<p:viewPr ` + nsAttrs + `><p:normalViewPr/>` +
	`<p:slideViewPr><p:cSldViewPr><p:cViewPr varScale="1"><p:scale><a:sx n="100" d="100"/><a:sy n="100" d="100"/></p:scale>` +
	`<p:origin x="0" y="0"/></p:cViewPr><p:guideLst/></p:cSldViewPr></p:slideViewPr><p:gridSpacing cx="76200" cy="76200"/></p:viewPr>`

const tableStylesXML = xmlDecl + `<a:tblStyleLst xmlns:a="` + nsDrawing + `" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`

const slideMasterXML = xmlDecl + `<p:sldMaster ` + nsAttrs + `><p:cSld>` +
	`<p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg>` +
	emptyTree + `</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" ` +
	`accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst></p:sldMaster>`

const slideLayoutXML = xmlDecl + `<p:sldLayout ` + nsAttrs + ` type="blank" preserve="1">` +
	`<p:cSld name="Blank">` + emptyTree + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

const themeXML = xmlDecl + `<a:theme xmlns:a="` + nsDrawing + `" name="Office Theme"><a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="44546A"/></a:dk2><a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4472C4"/></a:accent1><a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink></a:clrScheme>` +
	`<a:fontScheme name="Office"><a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
	`<a:lnStyleLst><a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>` +
	`</a:fmtScheme></a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`
