package renderer

import (
	"fmt"
	"image/color"
	"math"
)

// LoadingText is shown under the spinner while frames load.
const LoadingText = "LOADING EXPERIENCE"

// DrawLoading paints the blocking loading screen: a spinner ring rotated by
// phase (radians), the loading caption and, when total > 0, a loaded/total
// counter.
func (s *Surface) DrawLoading(phase float64, loaded, total int) {
	s.Clear(Background)
	if s.img == nil {
		return
	}
	g := s.geom
	cx, cy := float64(g.Width)/2, float64(g.Height)/2-16

	s.drawRing(cx, cy, 24, 4, 0, 2*math.Pi, White(0.1))
	s.drawRing(cx, cy, 24, 4, phase, phase+math.Pi/2, White(1))

	st := TextStyle{Size: 14, Color: White(0.6), Align: AlignCenter}
	s.DrawText(LoadingText, cx, cy+56, st, 1)
	if total > 0 {
		st.Size = 12
		st.Color = White(0.4)
		s.DrawText(fmt.Sprintf("%d / %d", loaded, total), cx, cy+80, st, 1)
	}
}

// DrawError paints an explicit error state in place of the frames.
func (s *Surface) DrawError(title, detail string) {
	s.Clear(Background)
	g := s.geom
	cx, cy := float64(g.Width)/2, float64(g.Height)/2
	s.DrawText(title, cx, cy, TextStyle{Size: 20, Bold: true, Color: White(0.9), Align: AlignCenter}, 1)
	s.DrawText(detail, cx, cy+32, TextStyle{Size: 13, Color: White(0.5), Align: AlignCenter}, 1)
}

// drawRing fills the annulus between r-width and r from angle a0 to a1, with
// the ring centered at (cx, cy) in CSS pixels.
func (s *Surface) drawRing(cx, cy, r, width, a0, a1 float64, c color.NRGBA) {
	scale := s.geom.Scale()
	cx, cy, r, width = cx*scale, cy*scale, r*scale, width*scale
	inner := r - width

	b := s.img.Bounds()
	minX, maxX := int(cx-r)-1, int(cx+r)+1
	minY, maxY := int(cy-r)-1, int(cy+r)+1
	span := a1 - a0

	for y := minY; y <= maxY; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			d := math.Hypot(dx, dy)
			if d < inner || d > r {
				continue
			}
			if span < 2*math.Pi {
				a := math.Atan2(dy, dx) - a0
				a = math.Mod(a, 2*math.Pi)
				if a < 0 {
					a += 2 * math.Pi
				}
				if a > span {
					continue
				}
			}
			s.blend(x, y, c)
		}
	}
}

func (s *Surface) blend(x, y int, c color.NRGBA) {
	i := s.img.PixOffset(x, y)
	a := uint32(c.A)
	for k, v := range [3]uint8{c.R, c.G, c.B} {
		dst := uint32(s.img.Pix[i+k])
		s.img.Pix[i+k] = uint8((uint32(v)*a + dst*(255-a)) / 255)
	}
	s.img.Pix[i+3] = 255
}
