package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestCoverFit(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH float64
		want                   Rect
	}{
		{"same aspect", 1920, 1080, 1600, 900, Rect{X: 0, Y: 0, W: 1600, H: 900}},
		{"taller target", 1920, 1080, 900, 1600, Rect{X: -972.2222222222222, Y: 0, W: 2844.4444444444443, H: 1600}},
		{"wider target", 1000, 1000, 1600, 900, Rect{X: 0, Y: -350, W: 1600, H: 1600}},
		{"empty source", 0, 1080, 1600, 900, Rect{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoverFit(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
			if !rectClose(got, tt.want, 1e-6) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCoverFitProperties(t *testing.T) {
	sizes := []float64{1, 3, 240, 720, 1080, 1280, 1920, 3840}
	for _, sw := range sizes {
		for _, sh := range sizes {
			for _, dw := range sizes {
				for _, dh := range sizes {
					r := CoverFit(sw, sh, dw, dh)

					// aspect preserved
					if math.Abs(r.W/r.H-sw/sh) > 1e-9*(sw/sh) {
						t.Fatalf("%vx%v -> %vx%v: aspect %v != %v", sw, sh, dw, dh, r.W/r.H, sw/sh)
					}
					// covers the target fully, exactly on one axis
					if r.W < dw-1e-9 || r.H < dh-1e-9 {
						t.Fatalf("%vx%v -> %vx%v: %+v does not cover", sw, sh, dw, dh, r)
					}
					if math.Abs(r.W-dw) > 1e-9 && math.Abs(r.H-dh) > 1e-9 {
						t.Fatalf("%vx%v -> %vx%v: %+v matches no axis", sw, sh, dw, dh, r)
					}
					// centered overflow
					if math.Abs(r.X+r.W/2-dw/2) > 1e-6 || math.Abs(r.Y+r.H/2-dh/2) > 1e-6 {
						t.Fatalf("%vx%v -> %vx%v: %+v not centered", sw, sh, dw, dh, r)
					}
				}
			}
		}
	}
}

func TestGeometryBackingSize(t *testing.T) {
	tests := []struct {
		g            Geometry
		wantW, wantH int
	}{
		{Geometry{Width: 1600, Height: 900, DPR: 1}, 1600, 900},
		{Geometry{Width: 1600, Height: 900, DPR: 2}, 3200, 1800},
		{Geometry{Width: 1440, Height: 900, DPR: 1.5}, 2160, 1350},
		{Geometry{Width: 800, Height: 600}, 800, 600},
	}

	for _, tt := range tests {
		w, h := tt.g.BackingSize()
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("%+v: got %dx%d, want %dx%d", tt.g, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestSurfaceDrawCover(t *testing.T) {
	s := NewSurface(Geometry{Width: 160, Height: 90, DPR: 2})
	defer s.Release()

	if b := s.Image().Bounds(); b.Dx() != 320 || b.Dy() != 180 {
		t.Fatalf("Backing store should be in device pixels, got %v", b)
	}

	red := solid(192, 108, color.RGBA{R: 255, A: 255})
	r := s.DrawCover(red)
	if !rectClose(r, Rect{W: 320, H: 180}, 1e-9) {
		t.Errorf("Unexpected cover rect %+v", r)
	}
	first := append([]byte(nil), s.Image().Pix...)

	// idempotent: same inputs produce the same pixels
	s.DrawCover(red)
	for i := range first {
		if first[i] != s.Image().Pix[i] {
			t.Fatalf("Second draw differs at byte %d", i)
		}
	}

	// no ghosting: a smaller, differently shaped frame leaves no red behind
	blue := solid(10, 90, color.RGBA{B: 255, A: 255})
	s.DrawCover(blue)
	for y := 0; y < 180; y++ {
		for x := 0; x < 320; x++ {
			c := s.Image().RGBAAt(x, y)
			if c.R > 0 {
				t.Fatalf("Residual red pixel at %d,%d: %v", x, y, c)
			}
		}
	}
}

func TestSurfaceResize(t *testing.T) {
	s := NewSurface(Geometry{Width: 100, Height: 50, DPR: 1})
	defer s.Release()

	if !s.Resize(Geometry{Width: 200, Height: 50, DPR: 1}) {
		t.Error("Expected resize to report a change")
	}
	if s.Image().Bounds().Dx() != 200 {
		t.Errorf("Expected width 200, got %d", s.Image().Bounds().Dx())
	}
	if s.Resize(Geometry{Width: 200, Height: 50, DPR: 1}) {
		t.Error("Same geometry should not report a change")
	}
}

func TestSurfaceTextAndLoading(t *testing.T) {
	s := NewSurface(Geometry{Width: 320, Height: 200, DPR: 1})
	defer s.Release()

	w := s.MeasureText("Zenith X", TextStyle{Size: 32, Bold: true})
	if w <= 0 {
		t.Fatalf("Expected positive text width, got %v", w)
	}

	s.DrawLoading(0, 3, 120)
	if !hasBrightPixel(s.Image()) {
		t.Error("Loading screen should draw a visible spinner/caption")
	}

	s.Clear(Background)
	s.DrawText("Hear Everything", 160, 100, TextStyle{Size: 24, Color: White(1), Align: AlignCenter}, 0)
	if hasBrightPixel(s.Image()) {
		t.Error("Zero opacity text must not paint")
	}
}

func TestQR(t *testing.T) {
	q, err := NewQR("https://zenith.example/explore")
	if err != nil {
		t.Fatalf("NewQR failed: %v", err)
	}
	if q.Size() < 21 {
		t.Errorf("Unexpected module count %d", q.Size())
	}

	s := NewSurface(Geometry{Width: 200, Height: 200, DPR: 1})
	defer s.Release()
	s.DrawQR(q, 50, 50, 100, 1)
	if !hasBrightPixel(s.Image()) {
		t.Error("QR plate should be visible")
	}
}

func TestParseAlign(t *testing.T) {
	for in, want := range map[string]Align{"": AlignCenter, "left": AlignLeft, "right": AlignRight, "center": AlignCenter} {
		got, err := ParseAlign(in)
		if err != nil || got != want {
			t.Errorf("ParseAlign(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseAlign("justify"); err == nil {
		t.Error("Expected error for unknown alignment")
	}
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func hasBrightPixel(img *image.RGBA) bool {
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 128 && img.Pix[i+1] > 128 && img.Pix[i+2] > 128 {
			return true
		}
	}
	return false
}

func rectClose(a, b Rect, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.W-b.W) <= eps && math.Abs(a.H-b.H) <= eps
}
