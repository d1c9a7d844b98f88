package layout

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestPlaceRelativeFullArea(t *testing.T) {
	tr := ComputeSlideTransform(1920, 1080, DefaultConfig())
	got := Place(&Box{X: 0, Y: 0, Width: 1, Height: 1}, nil, tr)

	want := Rect{X: tr.OffsetX, Y: tr.OffsetY, Width: tr.AvailableWidth, Height: tr.AvailableHeight}
	if !approx(got.X, want.X) || !approx(got.Y, want.Y) || !approx(got.Width, want.Width) || !approx(got.Height, want.Height) {
		t.Errorf("Place() = %+v, want %+v", got, want)
	}
}

func TestPlaceRelativeWinsOverAbsolute(t *testing.T) {
	tr := ComputeSlideTransform(1920, 1080, DefaultConfig())
	rel := &Box{X: 0.5, Y: 0.5, Width: 0.1, Height: 0.1}
	abs := &Box{X: 0, Y: 0, Width: 100, Height: 100}

	got := Place(rel, abs, tr)
	if want := tr.OffsetX + 0.5*tr.AvailableWidth; !approx(got.X, want) {
		t.Errorf("X = %v, want %v", got.X, want)
	}
}

func TestPlaceAbsolute(t *testing.T) {
	tr := ComputeSlideTransform(1920, 1080, DefaultConfig())
	got := Place(nil, &Box{X: 100, Y: 200, Width: 400, Height: 300}, tr)

	want := Rect{
		X:      tr.OffsetX + 100*tr.Scale,
		Y:      tr.OffsetY + 200*tr.Scale,
		Width:  400 * tr.Scale,
		Height: 300 * tr.Scale,
	}
	if !approx(got.X, want.X) || !approx(got.Y, want.Y) || !approx(got.Width, want.Width) || !approx(got.Height, want.Height) {
		t.Errorf("Place() = %+v, want %+v", got, want)
	}
}

func TestPlaceDefault(t *testing.T) {
	tr := ComputeSlideTransform(1920, 1080, DefaultConfig())
	got := Place(nil, nil, tr)

	if !approx(got.X, tr.OffsetX) || !approx(got.Y, tr.OffsetY) {
		t.Errorf("origin = (%v, %v), want (%v, %v)", got.X, got.Y, tr.OffsetX, tr.OffsetY)
	}
	if got.Width != DefaultLayerWidth || got.Height != DefaultLayerHeight {
		t.Errorf("size = %vx%v, want 1x0.5", got.Width, got.Height)
	}
}

func TestPlaceMinimumExtent(t *testing.T) {
	tr := ComputeSlideTransform(1920, 1080, DefaultConfig())
	got := Place(nil, &Box{X: 10, Y: 10, Width: 0, Height: -5}, tr)
	if got.Width != MinExtent || got.Height != MinExtent {
		t.Errorf("size = %vx%v, want %vx%v", got.Width, got.Height, MinExtent, MinExtent)
	}
}

func TestPlaceClampsToCanvas(t *testing.T) {
	tr := ComputeSlideTransform(1920, 1080, DefaultConfig())

	tests := []struct {
		name string
		abs  Box
	}{
		{"past right edge", Box{X: 5000, Y: 10, Width: 100, Height: 100}},
		{"past bottom edge", Box{X: 10, Y: 5000, Width: 100, Height: 100}},
		{"negative origin", Box{X: -5000, Y: -5000, Width: 100, Height: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Place(nil, &tt.abs, tr)
			if !tr.Canvas().Contains(got, eps) {
				t.Errorf("Place() = %+v escapes canvas", got)
			}
		})
	}
}

func TestPlaceOversizedPinsToOrigin(t *testing.T) {
	tr := ComputeSlideTransform(1920, 1080, DefaultConfig())
	got := Place(&Box{X: 0.5, Y: 0.5, Width: 3, Height: 3}, nil, tr)

	if got.X != 0 || got.Y != 0 {
		t.Errorf("origin = (%v, %v), want (0, 0)", got.X, got.Y)
	}
	if !approx(got.Width, 3*tr.AvailableWidth) {
		t.Errorf("Width = %v, want unshrunk %v", got.Width, 3*tr.AvailableWidth)
	}
}

func TestPlaceNonFinite(t *testing.T) {
	tr := ComputeSlideTransform(1920, 1080, DefaultConfig())
	got := Place(nil, &Box{X: math.NaN(), Y: math.Inf(1), Width: math.NaN(), Height: 10}, tr)
	for _, v := range []float64{got.X, got.Y, got.Width, got.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("Place() = %+v, want finite", got)
		}
	}
}

func TestPlaceProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 5000; i++ {
		srcW := 100 + rng.Float64()*4000
		srcH := 100 + rng.Float64()*4000
		tr := ComputeSlideTransform(srcW, srcH, DefaultConfig())

		var got Rect
		switch i % 3 {
		case 0:
			got = Place(&Box{
				X:      rng.Float64()*3 - 1,
				Y:      rng.Float64()*3 - 1,
				Width:  rng.Float64(),
				Height: rng.Float64(),
			}, nil, tr)
		case 1:
			got = Place(nil, &Box{
				X:      rng.Float64()*3*srcW - srcW,
				Y:      rng.Float64()*3*srcH - srcH,
				Width:  rng.Float64() * srcW,
				Height: rng.Float64() * srcH,
			}, tr)
		default:
			got = Place(nil, nil, tr)
		}

		if got.Width < MinExtent || got.Height < MinExtent {
			t.Fatalf("size below minimum: %+v", got)
		}
		if got.X < 0 || got.Y < 0 {
			t.Fatalf("negative origin: %+v", got)
		}
		if got.Right() > tr.TargetWidth+eps || got.Bottom() > tr.TargetHeight+eps {
			t.Fatalf("escapes canvas: %+v", got)
		}
	}
}

func TestAdjustForSafeArea(t *testing.T) {
	tr := ComputeSlideTransform(1920, 1080, DefaultConfig())

	got := AdjustForSafeArea(Rect{X: 0, Y: 0, Width: 1, Height: 1}, tr)
	if got.X != 0.3 || got.Y != 0.3 {
		t.Errorf("origin = (%v, %v), want (0.3, 0.3)", got.X, got.Y)
	}

	got = AdjustForSafeArea(Rect{X: 9.5, Y: 5, Width: 1, Height: 1}, tr)
	if !approx(got.Right(), 9.7) || !approx(got.Bottom(), 5.325) {
		t.Errorf("far edge = (%v, %v), want (9.7, 5.325)", got.Right(), got.Bottom())
	}
	if !tr.SafeArea().Contains(got, eps) {
		t.Errorf("%+v not inside safe area", got)
	}
}

func TestScaleFontSize(t *testing.T) {
	tests := []struct {
		name      string
		px, scale float64
		want      float64
	}{
		{"plain", 32, 1, 24},
		{"scaled", 100, 0.5, 37.5},
		{"floor", 16, 0.005, MinFontSize},
		{"ceiling", 400, 1, MaxFontSize},
		{"zero", 0, 1, MinFontSize},
		{"negative", -20, 1, MinFontSize},
		{"nan", math.NaN(), 1, MinFontSize},
		{"inf", math.Inf(1), 1, MaxFontSize},
		{"negative inf", math.Inf(-1), 1, MinFontSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleFontSize(tt.px, tt.scale); got != tt.want {
				t.Errorf("ScaleFontSize(%v, %v) = %v, want %v", tt.px, tt.scale, got, tt.want)
			}
		})
	}
}

func TestScaleFontSizeAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 2000; i++ {
		px := (rng.Float64() - 0.5) * 1e6
		scale := (rng.Float64() - 0.5) * 1e3
		got := ScaleFontSize(px, scale)
		if got < MinFontSize || got > MaxFontSize {
			t.Fatalf("ScaleFontSize(%v, %v) = %v, out of range", px, scale, got)
		}
	}
}

func TestUnits(t *testing.T) {
	if got := PixelsToInches(192); got != 2 {
		t.Errorf("PixelsToInches(192) = %v, want 2", got)
	}
	if got := InchesToPixels(1.5); got != 144 {
		t.Errorf("InchesToPixels(1.5) = %v, want 144", got)
	}
	if got := AspectRatio(1920, 1080); !approx(got, 16.0/9.0) {
		t.Errorf("AspectRatio = %v, want 1.777", got)
	}
	if got := AspectRatio(5, 0); got != 0 {
		t.Errorf("AspectRatio(5, 0) = %v, want 0", got)
	}
	if !IsLandscape(1920, 1080) || IsLandscape(1080, 1920) || IsLandscape(10, 10) {
		t.Error("IsLandscape mismatch")
	}
}

func TestEstimateTextBox(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		pt    float64
		wantW float64
		wantH float64
	}{
		{"empty", "", 12, 1.0, 0.3},
		{"short line hits minimums", "Hi", 12, 0.5, 0.3},
		{"long line", "0123456789012345678901234567890123456789", 12, 40 * 12 * 0.6 / 72, 0.3},
		{"multiline", "a\nb\nc\nd\ne", 24, 0.5, 5 * 24 * 1.2 / 72},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := EstimateTextBox(tt.text, tt.pt)
			if !approx(w, tt.wantW) {
				t.Errorf("width = %v, want %v", w, tt.wantW)
			}
			if !approx(h, tt.wantH) {
				t.Errorf("height = %v, want %v", h, tt.wantH)
			}
		})
	}
}

func TestOverflows(t *testing.T) {
	box := Rect{Width: 2, Height: 0.5}
	if Overflows("Title", 18, box) {
		t.Error("short title should fit")
	}
	if !Overflows("line\nline\nline\nline\nline", 18, box) {
		t.Error("five lines at 18pt should overflow 0.5in")
	}
}
