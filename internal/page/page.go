// Package page models the landing page around the frame player: section layout,
// scroll-linked section animation and the static sections' drawing.
package page

import (
	"fmt"

	"github.com/ivlev/framescroll/internal/anim"
	"github.com/ivlev/framescroll/internal/progress"
	"github.com/ivlev/framescroll/internal/visibility"
)

type Page struct {
	content  Content
	sections []Section
}

func New(content Content, sections []Section) (*Page, error) {
	if len(sections) == 0 {
		sections = DefaultSections()
	}
	if err := content.Validate(); err != nil {
		return nil, fmt.Errorf("page content: %w", err)
	}
	if err := validateSections(sections); err != nil {
		return nil, err
	}
	return &Page{content: content, sections: append([]Section(nil), sections...)}, nil
}

func (p *Page) Content() Content { return p.content }

// SectionState is the animated state of one section (or feature card).
type SectionState struct {
	Kind     Kind
	Region   progress.Region
	Progress float64
	InView   bool
	Opacity  float64
	Y        float64
	Scale    float64
}

// State is the whole page at one scroll position.
type State struct {
	ScrollY   float64
	ViewportH float64
	Layout    Layout

	// Hero is the frame player progress; HeroInView gates the pinned canvas.
	Hero       float64
	HeroInView bool
	// HeroTop is where the pinned canvas sits on screen: 0 while pinned,
	// negative once the hero scrolls away.
	HeroTop float64

	NavAlpha  float64
	NavBorder bool

	Sections []SectionState
	Cards    []SectionState
}

// State evaluates every scroll-linked value at scrollY.
func (p *Page) State(scrollY, viewportH float64) State {
	l := p.Layout(viewportH)
	if scrollY < 0 {
		scrollY = 0
	}
	if m := l.MaxScroll(); scrollY > m {
		scrollY = m
	}

	st := State{
		ScrollY:   scrollY,
		ViewportH: viewportH,
		Layout:    l,
		NavAlpha:  anim.NavBackground.At(scrollY),
		NavBorder: scrollY > anim.NavBorderThreshold,
	}

	for _, s := range l.Sections {
		ss := SectionState{
			Kind:   s.Kind,
			Region: s.Region,
			InView: visibility.Intersects(s.Region, scrollY, viewportH),
		}
		switch s.Kind {
		case Hero:
			ss.Progress = progress.Scroll(s.Region, scrollY, viewportH, progress.StartStart)
			ss.Opacity, ss.Scale = 1, 1
			st.Hero = ss.Progress
			st.HeroInView = ss.InView
			st.HeroTop = min(0, s.Region.Bottom()-viewportH-scrollY)
		case Video:
			ss.Progress = progress.Scroll(s.Region, scrollY, viewportH, progress.StartEnd)
			ss.Opacity = anim.SectionOpacity.At(ss.Progress)
			ss.Scale = anim.PulseScale.At(ss.Progress)
		case Specs:
			ss.Progress = progress.Scroll(s.Region, scrollY, viewportH, progress.StartEnd)
			ss.Opacity = anim.SectionOpacity.At(ss.Progress)
			ss.Scale = anim.SectionScale.At(ss.Progress)
		default:
			ss.Progress = progress.Scroll(s.Region, scrollY, viewportH, progress.StartEnd)
			ss.Opacity, ss.Scale = 1, 1
		}
		st.Sections = append(st.Sections, ss)
	}

	for _, r := range l.Cards {
		pr := progress.Scroll(r, scrollY, viewportH, progress.StartEnd)
		st.Cards = append(st.Cards, SectionState{
			Kind:     Features,
			Region:   r,
			Progress: pr,
			InView:   visibility.Intersects(r, scrollY, viewportH),
			Opacity:  anim.RevealOpacity.At(pr),
			Y:        anim.RevealY.At(pr),
			Scale:    anim.RevealScale.At(pr),
		})
	}
	return st
}

// Section returns the state of kind k.
func (st State) Section(k Kind) (SectionState, bool) {
	for _, s := range st.Sections {
		if s.Kind == k {
			return s, true
		}
	}
	return SectionState{}, false
}
