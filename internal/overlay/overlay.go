package overlay

import (
	"fmt"

	"github.com/ivlev/framescroll/internal/renderer"
)

// Caption is one text overlay drawn over the frame sequence.
type Caption struct {
	Name    string   `yaml:"name"`
	Region  Region   `yaml:"region"`
	Heading []string `yaml:"heading"`
	Body    string   `yaml:"body"`
	// Align is "center", "left" or "right".
	Align string `yaml:"align"`
	// Button and Link turn the caption into a call-to-action; Link is also
	// encoded as a QR badge.
	Button string `yaml:"button,omitempty"`
	Link   string `yaml:"link,omitempty"`
}

// Defaults are the four hero overlays of the landing page.
func Defaults() []Caption {
	return []Caption{
		{
			Name:    "title",
			Region:  Region{FadeInStart: 0, FullyVisible: 0, FadeOutStart: 0.15, FadeOutEnd: 0.25},
			Heading: []string{"Zenith X"},
			Body:    "PURE SOUND",
			Align:   "center",
		},
		{
			Name:    "precision",
			Region:  Region{FadeInStart: 0.25, FullyVisible: 0.35, FadeOutStart: 0.35, FadeOutEnd: 0.5},
			Heading: []string{"Precision", "Engineering"},
			Body:    "Every component meticulously crafted for acoustic perfection",
			Align:   "left",
		},
		{
			Name:    "titanium",
			Region:  Region{FadeInStart: 0.5, FullyVisible: 0.6, FadeOutStart: 0.6, FadeOutEnd: 0.75},
			Heading: []string{"Titanium", "Drivers"},
			Body:    "40mm high-fidelity drivers with crystalline clarity",
			Align:   "right",
		},
		{
			Name:    "cta",
			Region:  Region{FadeInStart: 0.8, FullyVisible: 0.9},
			Heading: []string{"Hear Everything"},
			Button:  "EXPLORE ZENITH X",
			Link:    "https://zenith-x.example/explore",
			Align:   "center",
		},
	}
}

// Driver maps progress to the opacity of every caption. Each caption is
// evaluated independently.
type Driver struct {
	captions []Caption
	aligns   []renderer.Align
	qrs      []*renderer.QR
}

// NewDriver validates the captions and prepares their QR badges.
func NewDriver(captions []Caption) (*Driver, error) {
	d := &Driver{
		captions: append([]Caption(nil), captions...),
		aligns:   make([]renderer.Align, len(captions)),
		qrs:      make([]*renderer.QR, len(captions)),
	}
	seen := make(map[string]bool)
	for i, c := range d.captions {
		if c.Name == "" {
			return nil, fmt.Errorf("overlay %d: empty name", i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("overlay %q: duplicate name", c.Name)
		}
		seen[c.Name] = true
		if err := c.Region.Validate(); err != nil {
			return nil, fmt.Errorf("overlay %q: %w", c.Name, err)
		}
		align, err := renderer.ParseAlign(c.Align)
		if err != nil {
			return nil, fmt.Errorf("overlay %q: %w", c.Name, err)
		}
		d.aligns[i] = align
		if c.Link != "" {
			q, err := renderer.NewQR(c.Link)
			if err != nil {
				return nil, fmt.Errorf("overlay %q: %w", c.Name, err)
			}
			d.qrs[i] = q
		}
	}
	return d, nil
}

func (d *Driver) Len() int { return len(d.captions) }

func (d *Driver) Captions() []Caption {
	return append([]Caption(nil), d.captions...)
}

// Opacities returns one opacity per caption, in configuration order.
func (d *Driver) Opacities(p float64) []float64 {
	out := make([]float64, len(d.captions))
	for i, c := range d.captions {
		out[i] = c.Region.Opacity(p)
	}
	return out
}

// Primary returns the index of the most visible caption at p, or -1 when none
// is visible. Ties go to the earlier caption.
func (d *Driver) Primary(p float64) int {
	best, bestOp := -1, 0.0
	for i, op := range d.Opacities(p) {
		if op > bestOp {
			best, bestOp = i, op
		}
	}
	return best
}

// Overlaps lists caption pairs whose visibility windows intersect. They are
// design warnings, not errors.
func (d *Driver) Overlaps() [][2]string {
	var out [][2]string
	for i := 0; i < len(d.captions); i++ {
		for j := i + 1; j < len(d.captions); j++ {
			if d.captions[i].Region.Overlaps(d.captions[j].Region) {
				out = append(out, [2]string{d.captions[i].Name, d.captions[j].Name})
			}
		}
	}
	return out
}
