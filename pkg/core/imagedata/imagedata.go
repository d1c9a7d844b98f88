// Package imagedata decodes the base64 image payloads embedded in design
// exports into raster bytes a presentation can embed.
//
// Payloads arrive either as bare base64 or as data URIs
// ("data:image/png;base64,..."). The format is sniffed from the decoded
// bytes rather than trusted from the URI. PNG, JPEG, GIF, BMP and TIFF pass
// through unchanged; WebP, which presentation readers do not open, is
// transcoded to PNG.
package imagedata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var (
	// ErrEmpty is returned for an empty payload.
	ErrEmpty = errors.New("image data is empty")

	// ErrBase64 is returned when the payload is not valid base64.
	ErrBase64 = errors.New("invalid base64 image data")

	// ErrFormat is returned when the bytes are not a supported raster format.
	ErrFormat = errors.New("unsupported image format")

	// ErrTooLarge is returned for images beyond MaxDimension on either side.
	ErrTooLarge = errors.New("image dimensions too large")
)

// MaxDimension caps width and height of embedded images.
const MaxDimension = 16384

// Image is a decoded payload ready to embed.
type Image struct {
	Data   []byte `json:"-"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Ext returns the file extension used inside the document package. It is
// the sniffed format name ("png", "jpeg", "gif", "bmp", "tiff").
func (i *Image) Ext() string { return i.Format }

// MIME returns the content type of the image.
func (i *Image) MIME() string {
	return "image/" + i.Format
}

// Decode turns a base64 or data-URI payload into an embeddable image.
func Decode(payload string) (*Image, error) {
	raw, err := DecodeBase64(payload)
	if err != nil {
		return nil, err
	}
	return Sniff(raw)
}

// DecodeBase64 strips an optional data-URI header and decodes the rest.
// Standard and URL-safe alphabets are accepted, padded or not.
func DecodeBase64(payload string) ([]byte, error) {
	s := StripDataURI(strings.TrimSpace(payload))
	if s == "" {
		return nil, ErrEmpty
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t', ' ':
			return -1
		}
		return r
	}, s)

	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			if len(b) == 0 {
				return nil, ErrEmpty
			}
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrBase64, firstErr)
}

// StripDataURI removes a "data:image...," header if present.
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:image") {
		return s
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[i+1:]
	}
	return ""
}

// Sniff identifies raw image bytes, transcoding formats that presentations
// cannot embed.
func Sniff(raw []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrFormat, cfg.Width, cfg.Height)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img := &Image{Data: raw, Format: format, Width: cfg.Width, Height: cfg.Height}
	if format == "webp" {
		if err := img.transcodePNG(); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func (i *Image) transcodePNG() error {
	src, err := webp.Decode(bytes.NewReader(i.Data))
	if err != nil {
		return fmt.Errorf("%w: webp: %v", ErrFormat, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return fmt.Errorf("transcode webp: %w", err)
	}
	i.Data = buf.Bytes()
	i.Format = "png"
	return nil
}
