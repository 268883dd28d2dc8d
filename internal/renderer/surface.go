package renderer

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/ivlev/framescroll/internal/system"
)

// Background is the page background (#050505).
var Background = color.RGBA{R: 5, G: 5, B: 5, A: 255}

// Surface is the frame player's render target: an RGBA backing store in device
// pixels. Drawing methods take CSS pixel coordinates and apply the device pixel
// ratio themselves. A Surface is not safe for concurrent use.
type Surface struct {
	geom   Geometry
	img    *image.RGBA
	fonts  *faceCache
	scaler draw.Scaler
}

func NewSurface(g Geometry) *Surface {
	s := &Surface{scaler: draw.ApproxBiLinear}
	s.Resize(g)
	return s
}

// SetScaler overrides the interpolator used by DrawCover.
func (s *Surface) SetScaler(sc draw.Scaler) {
	if sc != nil {
		s.scaler = sc
	}
}

func (s *Surface) Geometry() Geometry { return s.geom }

// Image exposes the backing store. It is replaced on Resize.
func (s *Surface) Image() *image.RGBA { return s.img }

// Resize reallocates the backing store when the device pixel size changes and
// reports whether it did.
func (s *Surface) Resize(g Geometry) bool {
	w, h := g.BackingSize()
	old := s.geom
	s.geom = g
	if s.img != nil && s.img.Rect.Dx() == w && s.img.Rect.Dy() == h {
		return old != g
	}

	if s.img != nil {
		system.PutImage(s.img)
	}
	s.img = system.GetImage(image.Rect(0, 0, w, h))
	s.Clear(Background)
	return true
}

// Release returns the backing store to the pool. The Surface must not be used
// afterwards.
func (s *Surface) Release() {
	if s.img != nil {
		system.PutImage(s.img)
		s.img = nil
	}
}

func (s *Surface) Clear(c color.Color) {
	if s.img == nil {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawCover clears the surface and paints img cover-fitted to the whole surface.
// It returns the destination rectangle in device pixels.
func (s *Surface) DrawCover(img image.Image) Rect {
	s.Clear(Background)
	if img == nil || s.img == nil {
		return Rect{}
	}
	b := img.Bounds()
	w, h := s.geom.BackingSize()
	r := CoverFit(float64(b.Dx()), float64(b.Dy()), float64(w), float64(h))
	if r.W == 0 || r.H == 0 {
		return r
	}
	s.scaler.Scale(s.img, r.Image(), img, b, draw.Src, nil)
	return r
}

// FillRect blends c over the CSS-pixel rectangle r with the given opacity.
func (s *Surface) FillRect(r Rect, c color.Color, opacity float64) {
	if s.img == nil || opacity <= 0 {
		return
	}
	dr := r.Scaled(s.geom.Scale()).Image()
	draw.DrawMask(s.img, dr, image.NewUniform(c), image.Point{}, alphaMask(opacity), image.Point{}, draw.Over)
}

// DrawImage blends img into the CSS-pixel rectangle r, scaling as needed.
func (s *Surface) DrawImage(img image.Image, r Rect, opacity float64) {
	if s.img == nil || img == nil || opacity <= 0 {
		return
	}
	dr := r.Scaled(s.geom.Scale()).Image()
	opts := &draw.Options{SrcMask: alphaMask(opacity)}
	draw.NearestNeighbor.Scale(s.img, dr, img, img.Bounds(), draw.Over, opts)
}

func alphaMask(opacity float64) image.Image {
	if opacity >= 1 {
		return nil
	}
	return image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
}
