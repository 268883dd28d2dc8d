package renderer

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QR is a pre-computed QR code module grid.
type QR struct {
	Content string
	modules [][]bool
}

// NewQR encodes content with medium error correction and no quiet zone; the
// white plate drawn behind it provides the margin.
func NewQR(content string) (*QR, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr %q: %w", content, err)
	}
	q.DisableBorder = true
	return &QR{Content: content, modules: q.Bitmap()}, nil
}

// Size returns the number of modules per side.
func (q *QR) Size() int { return len(q.modules) }

// DrawQR paints q as a square of side size CSS pixels with its top-left corner
// at (x, y), on a white plate.
func (s *Surface) DrawQR(q *QR, x, y, size, opacity float64) {
	if q == nil || q.Size() == 0 || opacity <= 0 {
		return
	}
	pad := size * 0.08
	s.FillRect(Rect{X: x - pad, Y: y - pad, W: size + 2*pad, H: size + 2*pad}, White(1), opacity)

	n := float64(q.Size())
	cell := size / n
	dark := Background
	for row, line := range q.modules {
		for col, on := range line {
			if !on {
				continue
			}
			s.FillRect(Rect{X: x + float64(col)*cell, Y: y + float64(row)*cell, W: cell, H: cell}, dark, opacity)
		}
	}
}
