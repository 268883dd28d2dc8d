package renderer

import (
	"image"
	"math"
)

// Geometry is the drawing surface size in CSS pixels plus the device pixel
// ratio. The backing store is Width*DPR x Height*DPR device pixels.
type Geometry struct {
	Width  int
	Height int
	DPR    float64
}

// Scale returns the device pixel ratio, treating an unset ratio as 1.
func (g Geometry) Scale() float64 {
	if g.DPR <= 0 || math.IsNaN(g.DPR) {
		return 1
	}
	return g.DPR
}

// BackingSize returns the backing store dimensions in device pixels.
func (g Geometry) BackingSize() (int, int) {
	s := g.Scale()
	w := int(math.Round(float64(g.Width) * s))
	h := int(math.Round(float64(g.Height) * s))
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

func (g Geometry) Empty() bool {
	w, h := g.BackingSize()
	return w == 0 || h == 0
}

// Rect is a floating point rectangle (origin + size).
type Rect struct {
	X, Y, W, H float64
}

// Scaled multiplies every component by s.
func (r Rect) Scaled(s float64) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}

// Around scales the rectangle by s about its center.
func (r Rect) Around(s float64) Rect {
	w, h := r.W*s, r.H*s
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// Image rounds the rectangle to integer pixel bounds.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)),
		int(math.Round(r.Y+r.H)),
	)
}

// CoverFit scales a srcW x srcH image to fill a dstW x dstH target while keeping
// its aspect ratio. The constrained axis matches the target exactly and the
// overflow on the other axis is split evenly (negative offset).
func CoverFit(srcW, srcH, dstW, dstH float64) Rect {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return Rect{}
	}

	dstAspect := dstW / dstH
	srcAspect := srcW / srcH

	if dstAspect > srcAspect {
		// target is wider than the image
		drawW := dstW
		drawH := drawW / srcAspect
		return Rect{X: 0, Y: (dstH - drawH) / 2, W: drawW, H: drawH}
	}

	drawH := dstH
	drawW := drawH * srcAspect
	return Rect{X: (dstW - drawW) / 2, Y: 0, W: drawW, H: drawH}
}
