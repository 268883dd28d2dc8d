package overlay

import (
	"math"

	"github.com/ivlev/framescroll/internal/renderer"
)

const (
	sideMarginWide   = 80
	sideMarginNarrow = 32
	mdBreakpoint     = 768
	qrSize           = 88
)

// Draw paints every caption visible at progress p on top of the current frame.
func (d *Driver) Draw(s *renderer.Surface, p float64) {
	for i, op := range d.Opacities(p) {
		if op <= 0 {
			continue
		}
		d.drawCaption(s, i, op)
	}
}

func (d *Driver) drawCaption(s *renderer.Surface, i int, opacity float64) {
	c := d.captions[i]
	align := d.aligns[i]
	g := s.Geometry()
	w, h := float64(g.Width), float64(g.Height)

	headSize := math.Min(72, w/12)
	if len(c.Heading) == 1 && c.Button == "" {
		headSize = math.Min(128, w/8)
	} else if len(c.Heading) == 1 {
		headSize = math.Min(96, w/10)
	}
	bodySize := 16.0
	if w >= mdBreakpoint {
		bodySize = 20
	}
	lineH := headSize * 1.05

	blockH := lineH * float64(len(c.Heading))
	if c.Body != "" {
		blockH += bodySize*1.6 + 16
	}
	if c.Button != "" {
		blockH += 56 + 24
	}
	if d.qrs[i] != nil {
		blockH += qrSize + 32
	}

	x := w / 2
	margin := float64(sideMarginNarrow)
	if w >= mdBreakpoint {
		margin = sideMarginWide
	}
	switch align {
	case renderer.AlignLeft:
		x = margin
	case renderer.AlignRight:
		x = w - margin
	}

	y := (h - blockH) / 2
	head := renderer.TextStyle{Size: headSize, Bold: true, Color: renderer.White(0.9), Align: align}
	for _, line := range c.Heading {
		y += lineH
		s.DrawText(line, x, y-headSize*0.2, head, opacity)
	}

	if c.Body != "" {
		y += 16 + bodySize*1.6
		s.DrawText(c.Body, x, y-bodySize*0.4, renderer.TextStyle{Size: bodySize, Color: renderer.White(0.6), Align: align}, opacity)
	}

	if c.Button != "" {
		y += 24
		label := renderer.TextStyle{Size: 14, Bold: true, Color: renderer.Dark(1), Align: renderer.AlignCenter}
		bw := s.MeasureText(c.Button, label) + 64
		bx := anchor(x, bw, align)
		s.FillRect(renderer.Rect{X: bx, Y: y, W: bw, H: 56}, renderer.White(1), opacity)
		s.DrawText(c.Button, bx+bw/2, y+33, label, opacity)
		y += 56
	}

	if q := d.qrs[i]; q != nil {
		y += 32
		s.DrawQR(q, anchor(x, qrSize, align), y, qrSize, opacity)
	}
}

// anchor returns the left edge of a box of width bw aligned to x.
func anchor(x, bw float64, align renderer.Align) float64 {
	switch align {
	case renderer.AlignCenter:
		return x - bw/2
	case renderer.AlignRight:
		return x - bw
	}
	return x
}
