package pptx

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/matzehuels/figslides/pkg/core/plan"
)

// MIMEType is the content type of a presentation package.
const MIMEType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// EMUPerInch converts inches to English Metric Units.
const EMUPerInch = 914400

// EMUPerPoint converts points to English Metric Units.
const EMUPerPoint = 12700

// ErrNilDeck is returned when Render is called without a plan.
var ErrNilDeck = errors.New("pptx: nil deck")

// Option configures document metadata.
type Option func(*options)

type options struct {
	title       string
	creator     string
	application string
	created     time.Time
}

// WithTitle overrides the document title. It defaults to the deck title.
func WithTitle(s string) Option { return func(o *options) { o.title = s } }

// WithCreator sets the author recorded in the document properties.
func WithCreator(s string) Option { return func(o *options) { o.creator = s } }

// WithCreated pins the creation timestamp. Identical decks rendered with the
// same timestamp produce identical bytes.
func WithCreated(t time.Time) Option { return func(o *options) { o.created = t } }

// Render assembles a presentation package from a plan.
func Render(deck *plan.Deck, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, deck, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write assembles a presentation package from a plan and writes it to out.
// Slides appear in deck order; within a slide the background is painted
// first, then placed layers in order, then the overlay.
func Write(out io.Writer, deck *plan.Deck, opts ...Option) error {
	if deck == nil {
		return ErrNilDeck
	}
	o := options{
		title:       deck.Title,
		creator:     "figslides",
		application: "figslides",
		created:     time.Now(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.created = o.created.UTC().Truncate(time.Second)

	cfg := deck.Config.WithDefaults()
	w := &writer{
		zw:     zip.NewWriter(out),
		opts:   o,
		width:  emu(cfg.TargetWidth),
		height: emu(cfg.TargetHeight),
	}
	for _, s := range deck.Slides {
		w.slides = append(w.slides, renderSlide(s, &w.media))
	}

	if err := w.writeAll(); err != nil {
		w.zw.Close()
		return fmt.Errorf("pptx: %w", err)
	}
	return w.zw.Close()
}

type writer struct {
	zw     *zip.Writer
	opts   options
	width  int64
	height int64
	slides []renderedSlide
	media  mediaSet
}

func (w *writer) writeAll() error {
	steps := []func() error{
		w.writeContentTypes,
		w.writeRootRels,
		w.writeAppProperties,
		w.writeCoreProperties,
		w.writePresentation,
		w.writePresentationRels,
		w.writeStaticParts,
		w.writeSlides,
		w.writeMedia,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeSlides() error {
	for i, s := range w.slides {
		if err := w.writeRaw(slidePart(i+1), s.xml); err != nil {
			return err
		}
		if err := w.writeXML(slideRelsPart(i+1), s.rels); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeMedia() error {
	for _, m := range w.media.files {
		if err := w.writeRaw(m.part, m.data); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Media
// =============================================================================

type mediaFile struct {
	part string
	ext  string
	data []byte
}

type mediaKey struct {
	ext string
	sum [sha256.Size]byte
}

// mediaSet numbers pictures across the whole package. Identical pictures
// share one part.
type mediaSet struct {
	files []mediaFile
	seen  map[mediaKey]string
}

// add stores a picture and returns its target relative to a slide part.
func (m *mediaSet) add(p *plan.Picture) string {
	ext := p.Format
	if ext == "" {
		ext = "png"
	}
	key := mediaKey{ext: ext, sum: sha256.Sum256(p.Data)}
	if target, ok := m.seen[key]; ok {
		return target
	}
	part := mediaPart(len(m.files)+1, ext)
	m.files = append(m.files, mediaFile{part: part, ext: ext, data: p.Data})
	target := "../media/" + part[len("ppt/media/"):]
	if m.seen == nil {
		m.seen = make(map[mediaKey]string)
	}
	m.seen[key] = target
	return target
}

func (m *mediaSet) extensions() []string {
	return lo.Uniq(lo.Map(m.files, func(f mediaFile, _ int) string { return f.ext }))
}

func mimeType(ext string) string {
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "tif", "tiff":
		return "image/tiff"
	case "svg":
		return "image/svg+xml"
	}
	return "image/" + ext
}

// =============================================================================
// Units
// =============================================================================

func emu(inches float64) int64 {
	return int64(math.Round(inches * EMUPerInch))
}

func lineEMU(pt float64) int64 {
	return int64(math.Round(pt * EMUPerPoint))
}

// fontSize converts points to the hundredths used by run properties.
func fontSize(pt float64) int {
	return int(math.Round(pt * 100))
}
