package renderer

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Align is the horizontal anchor of a text line.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ParseAlign accepts "left", "center" and "right"; empty means center.
func ParseAlign(s string) (Align, error) {
	switch s {
	case "", "center":
		return AlignCenter, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	}
	return AlignCenter, fmt.Errorf("unknown alignment %q", s)
}

// TextStyle describes one line of text in CSS pixels.
type TextStyle struct {
	Size  float64
	Bold  bool
	Color color.NRGBA
	Align Align
}

var (
	parseOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	parseErr    error
)

func loadFonts() error {
	parseOnce.Do(func() {
		regularFont, parseErr = opentype.Parse(goregular.TTF)
		if parseErr != nil {
			return
		}
		boldFont, parseErr = opentype.Parse(gobold.TTF)
	})
	return parseErr
}

type faceKey struct {
	bold bool
	size float64
}

// faceCache belongs to one Surface: opentype faces are not safe for
// concurrent use.
type faceCache struct {
	faces map[faceKey]font.Face
}

func (c *faceCache) face(bold bool, px float64) (font.Face, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	key := faceKey{bold: bold, size: px}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	src := regularFont
	if bold {
		src = boldFont
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	c.faces[key] = f
	return f, nil
}

// MeasureText returns the advance width of text in CSS pixels.
func (s *Surface) MeasureText(text string, st TextStyle) float64 {
	face, err := s.face(st)
	if err != nil {
		return 0
	}
	return float64(font.MeasureString(face, text).Ceil()) / s.geom.Scale()
}

// DrawText draws text with its baseline at y. x is the left edge, center or
// right edge depending on st.Align. Returns the drawn width in CSS pixels.
func (s *Surface) DrawText(text string, x, y float64, st TextStyle, opacity float64) float64 {
	if s.img == nil || text == "" {
		return 0
	}
	face, err := s.face(st)
	if err != nil {
		return 0
	}
	scale := s.geom.Scale()
	width := float64(font.MeasureString(face, text).Ceil())

	px := x * scale
	switch st.Align {
	case AlignCenter:
		px -= width / 2
	case AlignRight:
		px -= width
	}

	if opacity <= 0 {
		return width / scale
	}
	c := st.Color
	if opacity < 1 {
		c.A = uint8(float64(c.A)*opacity + 0.5)
	}

	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(int(px+0.5), int(y*scale+0.5)),
	}
	d.DrawString(text)
	return width / scale
}

func (s *Surface) face(st TextStyle) (font.Face, error) {
	if s.fonts == nil {
		s.fonts = &faceCache{faces: make(map[faceKey]font.Face)}
	}
	size := st.Size
	if size <= 0 {
		size = 16
	}
	return s.fonts.face(st.Bold, size*s.geom.Scale())
}

// White returns white with the given alpha fraction, the palette used by the
// page (text-white/90, text-white/60 ...).
func White(alpha float64) color.NRGBA {
	return color.NRGBA{R: 255, G: 255, B: 255, A: uint8(alpha*255 + 0.5)}
}

// Dark returns the page background color with the given alpha fraction.
func Dark(alpha float64) color.NRGBA {
	return color.NRGBA{R: Background.R, G: Background.G, B: Background.B, A: uint8(alpha*255 + 0.5)}
}
