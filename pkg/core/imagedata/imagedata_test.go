package imagedata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 80), B: 200, A: 255})
		}
	}
	return img
}

func encoded(t *testing.T, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := enc(&buf, testImage()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		format string
		enc    func(*bytes.Buffer, image.Image) error
	}{
		{"png", func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) }},
		{"jpeg", func(b *bytes.Buffer, m image.Image) error { return jpeg.Encode(b, m, nil) }},
		{"gif", func(b *bytes.Buffer, m image.Image) error { return gif.Encode(b, m, nil) }},
		{"bmp", func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) }},
		{"tiff", func(b *bytes.Buffer, m image.Image) error { return tiff.Encode(b, m, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			raw := encoded(t, tt.enc)
			img, err := Decode(base64.StdEncoding.EncodeToString(raw))
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if img.Format != tt.format {
				t.Errorf("Format = %q, want %q", img.Format, tt.format)
			}
			if img.Width != 4 || img.Height != 3 {
				t.Errorf("size = %dx%d, want 4x3", img.Width, img.Height)
			}
			if !bytes.Equal(img.Data, raw) {
				t.Error("Data should pass through unchanged")
			}
			if img.Ext() != tt.format || img.MIME() != "image/"+tt.format {
				t.Errorf("Ext/MIME = %q/%q", img.Ext(), img.MIME())
			}
		})
	}
}

func TestDecodeDataURI(t *testing.T) {
	raw := encoded(t, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) })
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	img, err := Decode(uri)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if img.Format != "png" {
		t.Errorf("Format = %q, want png", img.Format)
	}
}

func TestDecodeSniffsInsteadOfTrustingURI(t *testing.T) {
	raw := encoded(t, func(b *bytes.Buffer, m image.Image) error { return jpeg.Encode(b, m, nil) })
	img, err := Decode("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if img.Format != "jpeg" {
		t.Errorf("Format = %q, want jpeg", img.Format)
	}
}

func TestDecodeUnpaddedAndWrapped(t *testing.T) {
	raw := encoded(t, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) })

	unpadded := base64.RawStdEncoding.EncodeToString(raw)
	if _, err := Decode(unpadded); err != nil {
		t.Errorf("unpadded: %v", err)
	}

	std := base64.StdEncoding.EncodeToString(raw)
	wrapped := std[:20] + "\n" + std[20:40] + "\r\n" + std[40:]
	if _, err := Decode(wrapped); err != nil {
		t.Errorf("line-wrapped: %v", err)
	}
}

func TestDecodeWebPTranscodes(t *testing.T) {
	// 1x1 lossless WebP.
	const webp1x1 = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

	img, err := Decode("data:image/webp;base64," + webp1x1)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if img.Format != "png" {
		t.Errorf("Format = %q, want png", img.Format)
	}
	if _, err := png.Decode(bytes.NewReader(img.Data)); err != nil {
		t.Errorf("transcoded data is not PNG: %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{"empty", "", ErrEmpty},
		{"whitespace", "   ", ErrEmpty},
		{"uri without data", "data:image/png;base64,", ErrEmpty},
		{"uri without comma", "data:image/png;base64", ErrEmpty},
		{"not base64", "!!!not base64!!!", ErrBase64},
		{"base64 of text", base64.StdEncoding.EncodeToString([]byte("hello world")), ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStripDataURI(t *testing.T) {
	tests := map[string]string{
		"data:image/png;base64,QUJD": "QUJD",
		"QUJD":                       "QUJD",
		"data:text/plain,QUJD":       "data:text/plain,QUJD",
	}
	for input, want := range tests {
		if got := StripDataURI(input); got != want {
			t.Errorf("StripDataURI(%q) = %q, want %q", input, got, want)
		}
	}
}
