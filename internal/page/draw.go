package page

import (
	"image"
	"image/color"
	"math"

	"github.com/ivlev/framescroll/internal/renderer"
)

// frame transforms section-local CSS coordinates to the screen, applying the
// section's scale around its center and its opacity.
type frame struct {
	s       *renderer.Surface
	opacity float64
	scale   float64
	cx, cy  float64
	top     float64
}

func (f frame) pt(x, y float64) (float64, float64) {
	sy := f.top + y
	return f.cx + (x-f.cx)*f.scale, f.cy + (sy-f.cy)*f.scale
}

func (f frame) text(str string, x, y float64, st renderer.TextStyle) {
	if f.opacity <= 0 || str == "" {
		return
	}
	st.Size *= f.scale
	px, py := f.pt(x, y)
	f.s.DrawText(str, px, py, st, f.opacity)
}

func (f frame) rect(r renderer.Rect, c color.Color, alpha float64) {
	x0, y0 := f.pt(r.X, r.Y)
	f.s.FillRect(renderer.Rect{X: x0, Y: y0, W: r.W * f.scale, H: r.H * f.scale}, c, f.opacity*alpha)
}

// Draw paints the page at st: the pinned hero image (the player's output,
// drawn only while the hero is in view), the static sections and the navbar.
func (p *Page) Draw(s *renderer.Surface, st State, hero *image.RGBA) {
	s.Clear(renderer.Background)
	g := s.Geometry()
	w, h := float64(g.Width), float64(g.Height)

	if hero != nil && st.HeroInView {
		s.DrawImage(hero, renderer.Rect{X: 0, Y: st.HeroTop, W: w, H: h}, 1)
	}

	for _, ss := range st.Sections {
		if !ss.InView || ss.Kind == Hero {
			continue
		}
		top := ss.Region.Top - st.ScrollY
		f := frame{
			s:       s,
			opacity: ss.Opacity,
			scale:   ss.Scale,
			cx:      w / 2,
			cy:      top + ss.Region.Height/2,
			top:     top,
		}
		switch ss.Kind {
		case CTA:
			p.drawBlock(f, p.content.CTA, w, ss.Region.Height*0.4)
		case Features:
			p.drawBlock(f, p.content.Features, w, 80)
			p.drawCards(s, st, w)
		case Video:
			p.drawVideo(f, w, ss.Region.Height)
		case Specs:
			p.drawSpecs(f, w)
		case Footer:
			p.drawFooter(f, w)
		}
	}

	p.drawNav(s, st, w)
}

func headingSize(w float64) float64 {
	return math.Max(32, math.Min(72, w/14))
}

// drawBlock draws a centered heading block starting at y and returns the y
// below it.
func (p *Page) drawBlock(f frame, b Block, w, y float64) float64 {
	hs := headingSize(w)
	head := renderer.TextStyle{Size: hs, Bold: true, Color: renderer.White(0.9), Align: renderer.AlignCenter}
	for _, line := range b.Heading {
		y += hs * 1.05
		f.text(line, w/2, y, head)
	}
	if b.Body != "" {
		y += 40
		f.text(b.Body, w/2, y, renderer.TextStyle{Size: 18, Color: renderer.White(0.6), Align: renderer.AlignCenter})
	}
	if b.Button != "" {
		y += 32
		label := renderer.TextStyle{Size: 14, Bold: true, Color: renderer.Dark(1), Align: renderer.AlignCenter}
		bw := f.s.MeasureText(b.Button, label) + 48
		f.rect(renderer.Rect{X: w/2 - bw/2, Y: y, W: bw, H: 44}, renderer.White(1), 1)
		f.text(b.Button, w/2, y+27, label)
		y += 44
	}
	return y
}

func (p *Page) drawCards(s *renderer.Surface, st State, w float64) {
	gap := 32.0
	colW := (w - 3*gap) / featureCols
	for i, cs := range st.Cards {
		if !cs.InView || i >= len(p.content.Cards) {
			continue
		}
		card := p.content.Cards[i]
		x := gap + float64(i%featureCols)*(colW+gap)
		top := cs.Region.Top - st.ScrollY + cs.Y
		f := frame{
			s:       s,
			opacity: cs.Opacity,
			scale:   cs.Scale,
			cx:      x + colW/2,
			cy:      top + cs.Region.Height/2,
			top:     top,
		}
		f.rect(renderer.Rect{X: x, Y: 0, W: colW, H: cs.Region.Height}, renderer.White(1), 0.05)
		title := renderer.TextStyle{Size: math.Min(36, colW/14), Bold: true, Color: renderer.White(0.9)}
		f.text(card.Title, x+32, cs.Region.Height*0.4, title)
		f.text(card.Description, x+32, cs.Region.Height*0.4+40, renderer.TextStyle{Size: 15, Color: renderer.White(0.6)})
	}
}

func (p *Page) drawVideo(f frame, w, sectionH float64) {
	c := p.content.Video
	y := p.drawBlock(f, Block{Heading: c.Heading, Body: c.Body}, w, 96)

	boxW := math.Min(w-64, 1200)
	boxH := math.Min(boxW*9/16, sectionH*0.45)
	box := renderer.Rect{X: (w - boxW) / 2, Y: y + 48, W: boxW, H: boxH}
	f.rect(box, renderer.White(1), 0.07)
	f.text(c.Button, w/2, box.Y+boxH/2+40, renderer.TextStyle{Size: 14, Color: renderer.White(0.6), Align: renderer.AlignCenter})

	y = box.Y + boxH + 96
	n := float64(len(p.content.Stats))
	for i, st := range p.content.Stats {
		x := w * (float64(i) + 0.5) / n
		f.text(st.Value, x, y, renderer.TextStyle{Size: math.Min(56, w/16), Bold: true, Color: renderer.White(1), Align: renderer.AlignCenter})
		f.text(st.Label, x, y+32, renderer.TextStyle{Size: 14, Color: renderer.White(0.6), Align: renderer.AlignCenter})
	}
}

func (p *Page) drawSpecs(f frame, w float64) {
	y := p.drawBlock(f, Block{Heading: p.content.Specs.Heading, Body: p.content.Specs.Body}, w, 96)
	cols := 3
	if w < 1024 {
		cols = 2
	}
	y += 96
	for i, sp := range p.content.SpecList {
		x := w * (float64(i%cols) + 0.5) / float64(cols)
		row := y + float64(i/cols)*120
		f.text(sp.Label, x, row, renderer.TextStyle{Size: 13, Color: renderer.White(0.4), Align: renderer.AlignCenter})
		f.text(sp.Value, x, row+48, renderer.TextStyle{Size: math.Min(44, w/20), Bold: true, Color: renderer.White(1), Align: renderer.AlignCenter})
	}
	rows := (len(p.content.SpecList) + cols - 1) / cols
	p.drawBlock(f, Block{Button: p.content.Specs.Button}, w, y+float64(rows)*120)
}

func (p *Page) drawFooter(f frame, w float64) {
	f.rect(renderer.Rect{X: 0, Y: 0, W: w, H: 1}, renderer.White(1), 0.1)

	cols := float64(len(p.content.Footer) + 1)
	colW := (w - 64) / cols
	f.text(p.content.Brand, 32, 80, renderer.TextStyle{Size: 24, Bold: true, Color: renderer.White(1)})
	f.text(p.content.Tagline, 32, 112, renderer.TextStyle{Size: 13, Color: renderer.White(0.6)})
	for i, g := range p.content.Footer {
		x := 32 + float64(i+1)*colW
		f.text(g.Title, x, 80, renderer.TextStyle{Size: 13, Bold: true, Color: renderer.White(0.9)})
		for j, link := range g.Links {
			f.text(link, x, 112+float64(j)*28, renderer.TextStyle{Size: 13, Color: renderer.White(0.6)})
		}
	}

	y := 280.0
	nl := p.content.Newsletter
	sub := renderer.TextStyle{Size: 24, Bold: true, Color: renderer.White(0.9), Align: renderer.AlignCenter}
	for _, line := range nl.Heading {
		y += 32
		f.text(line, w/2, y, sub)
	}
	f.text(nl.Body, w/2, y+32, renderer.TextStyle{Size: 15, Color: renderer.White(0.6), Align: renderer.AlignCenter})
	f.text(p.content.Copyright, 32, y+120, renderer.TextStyle{Size: 13, Color: renderer.White(0.4)})
}

func (p *Page) drawNav(s *renderer.Surface, st State, w float64) {
	s.FillRect(renderer.Rect{W: w, H: NavHeight}, renderer.Background, st.NavAlpha)
	if st.NavBorder {
		s.FillRect(renderer.Rect{Y: NavHeight - 1, W: w, H: 1}, renderer.White(1), 0.1)
	}
	s.DrawText(p.content.Brand, 32, 42, renderer.TextStyle{Size: 24, Bold: true, Color: renderer.White(1)}, 1)

	if w < 768 {
		for i := 0; i < 3; i++ {
			s.FillRect(renderer.Rect{X: w - 56, Y: 22 + float64(i)*9, W: 24, H: 2}, renderer.White(1), 0.7)
		}
		return
	}

	label := renderer.TextStyle{Size: 14, Bold: true, Color: renderer.Dark(1), Align: renderer.AlignCenter}
	bw := s.MeasureText(p.content.NavCTA, label) + 32
	bx := w - 32 - bw
	if p.content.NavCTA != "" {
		s.FillRect(renderer.Rect{X: bx, Y: 14, W: bw, H: 36}, renderer.White(1), 1)
		s.DrawText(p.content.NavCTA, bx+bw/2, 37, label, 1)
	}

	item := renderer.TextStyle{Size: 14, Color: renderer.White(0.7), Align: renderer.AlignRight}
	x := bx - 32
	for i := len(p.content.Nav) - 1; i >= 0; i-- {
		n := p.content.Nav[i]
		s.DrawText(n.Label, x, 37, item, 1)
		x -= s.MeasureText(n.Label, item) + 32
	}
}
