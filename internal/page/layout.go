package page

import (
	"fmt"
	"math"

	"github.com/ivlev/framescroll/internal/progress"
)

type Kind string

const (
	Hero     Kind = "hero"
	CTA      Kind = "cta"
	Features Kind = "features"
	Video    Kind = "video"
	Specs    Kind = "specs"
	Footer   Kind = "footer"
)

// NavHeight is the fixed navbar height in CSS pixels.
const NavHeight = 64

// Section is one block of the page; Height is in viewport heights.
type Section struct {
	Kind   Kind    `yaml:"kind"`
	Height float64 `yaml:"height"`
}

// DefaultSections is the page order. The hero is 400vh: three viewports of
// scrubbing while the canvas is pinned.
func DefaultSections() []Section {
	return []Section{
		{Hero, 4},
		{CTA, 1},
		{Features, 0},
		{Video, 1.6},
		{Specs, 1.4},
		{Footer, 1},
	}
}

// feature grid geometry, in viewport heights
const (
	featureHeader = 0.6
	featureRow    = 0.75
	featureCols   = 2
)

func validateSections(sections []Section) error {
	seen := make(map[Kind]bool)
	for i, s := range sections {
		switch s.Kind {
		case Hero, CTA, Features, Video, Specs, Footer:
		default:
			return fmt.Errorf("section %d: unknown kind %q", i, s.Kind)
		}
		if seen[s.Kind] {
			return fmt.Errorf("section %d: duplicate %q", i, s.Kind)
		}
		seen[s.Kind] = true
		// feature height derives from the card count
		if s.Height < 0 || (s.Height == 0 && s.Kind != Features) {
			return fmt.Errorf("section %q: height must be positive", s.Kind)
		}
	}
	if !seen[Hero] {
		return fmt.Errorf("page has no %q section", Hero)
	}
	return nil
}

// Placed is a section positioned on the document.
type Placed struct {
	Section
	Region progress.Region
}

// Layout is the document laid out for one viewport height.
type Layout struct {
	ViewportH float64
	Sections  []Placed
	// Cards holds one region per feature card.
	Cards  []progress.Region
	Height float64
}

func (p *Page) Layout(viewportH float64) Layout {
	l := Layout{ViewportH: viewportH}
	top := 0.0
	for _, s := range p.sections {
		h := s.Height * viewportH
		if s.Kind == Features {
			rows := math.Ceil(float64(len(p.content.Cards)) / featureCols)
			if s.Height == 0 {
				h = (featureHeader + rows*featureRow) * viewportH
			}
			cardH := featureRow * viewportH
			for i := range p.content.Cards {
				row := float64(i / featureCols)
				l.Cards = append(l.Cards, progress.Region{
					Top:    top + featureHeader*viewportH + row*cardH,
					Height: cardH * 0.85,
				})
			}
		}
		l.Sections = append(l.Sections, Placed{Section: s, Region: progress.Region{Top: top, Height: h}})
		top += h
	}
	l.Height = top
	return l
}

// Find returns the placed section of kind k.
func (l Layout) Find(k Kind) (Placed, bool) {
	for _, s := range l.Sections {
		if s.Kind == k {
			return s, true
		}
	}
	return Placed{}, false
}

// MaxScroll is the largest scrollY for this layout.
func (l Layout) MaxScroll() float64 {
	return math.Max(0, l.Height-l.ViewportH)
}
