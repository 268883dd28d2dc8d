package page

import (
	"errors"
	"fmt"
)

type NavItem struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Feature struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Spec struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type LinkGroup struct {
	Title string   `yaml:"title"`
	Links []string `yaml:"links"`
}

// Block is a heading with a lead paragraph and an optional button.
type Block struct {
	Heading []string `yaml:"heading"`
	Body    string   `yaml:"body"`
	Button  string   `yaml:"button,omitempty"`
}

// Content is every piece of copy on the landing page outside the hero overlays.
type Content struct {
	Brand   string    `yaml:"brand"`
	Tagline string    `yaml:"tagline"`
	Nav     []NavItem `yaml:"nav"`
	NavCTA  string    `yaml:"nav_cta"`

	CTA      Block     `yaml:"cta"`
	Features Block     `yaml:"features"`
	Cards    []Feature `yaml:"cards"`
	Video    Block     `yaml:"video"`
	Stats    []Stat    `yaml:"stats"`
	Specs    Block     `yaml:"specs"`
	SpecList []Spec    `yaml:"spec_list"`

	Footer     []LinkGroup `yaml:"footer"`
	Newsletter Block       `yaml:"newsletter"`
	Copyright  string      `yaml:"copyright"`
}

func DefaultContent() Content {
	return Content{
		Brand:   "Zenith X",
		Tagline: "Pure sound, engineered to perfection.",
		Nav: []NavItem{
			{"Features", "#features"},
			{"Technology", "#technology"},
			{"Specs", "#specs"},
			{"Shop", "#shop"},
		},
		NavCTA: "Buy Now",
		CTA: Block{
			Heading: []string{"Silence the World.", "Hear Everything."},
			Body:    "Zenith X is available now in Midnight Titanium.",
			Button:  "Buy Now",
		},
		Features: Block{
			Heading: []string{"Engineered for", "Perfection"},
			Body:    "Every detail refined. Every feature purposeful.",
		},
		Cards: []Feature{
			{"Active Noise Cancellation", "Immerse yourself in pure sound. Our advanced ANC technology blocks out the world, letting only the music through."},
			{"40-Hour Battery Life", "Power through your longest days with fast charging and all-day battery that keeps the music going."},
			{"Spatial Audio", "Experience sound in every dimension. Cinematic audio that surrounds you from every angle."},
			{"Premium Materials", "Crafted from aerospace-grade titanium and memory foam. Designed for comfort, built to last."},
		},
		Video: Block{
			Heading: []string{"Sound That Moves You"},
			Body:    "Experience the difference that precision engineering makes",
			Button:  "Watch the Story",
		},
		Stats: []Stat{
			{"99%", "Noise Reduction"},
			{"40hrs", "Battery Life"},
			{"4.9★", "User Rating"},
		},
		Specs: Block{
			Heading: []string{"Technical Excellence"},
			Body:    "Specifications that define audiophile-grade performance",
			Button:  "Download Full Specs Sheet",
		},
		SpecList: []Spec{
			{"Driver Size", "40mm"},
			{"Frequency Response", "20Hz - 40kHz"},
			{"Impedance", "32Ω"},
			{"Weight", "250g"},
			{"Bluetooth", "5.3"},
			{"Codec Support", "LDAC, aptX HD"},
		},
		Footer: []LinkGroup{
			{"Product", []string{"Features", "Technology", "Specs", "Accessories"}},
			{"Support", []string{"Setup Guide", "Warranty", "Repairs", "Contact"}},
			{"Company", []string{"About", "Careers", "Press", "Privacy"}},
			{"Social", []string{"Instagram", "Twitter", "YouTube", "LinkedIn"}},
		},
		Newsletter: Block{
			Heading: []string{"Stay Updated"},
			Body:    "Get the latest updates on new products and exclusive offers.",
			Button:  "Sign Up",
		},
		Copyright: "© 2026 Zenith X. All rights reserved.",
	}
}

// Validate reports every missing required field at once.
func (c Content) Validate() error {
	var errs []error
	if c.Brand == "" {
		errs = append(errs, errors.New("brand is empty"))
	}
	for i, n := range c.Nav {
		if n.Label == "" {
			errs = append(errs, fmt.Errorf("nav[%d]: empty label", i))
		}
	}
	for i, f := range c.Cards {
		if f.Title == "" {
			errs = append(errs, fmt.Errorf("cards[%d]: empty title", i))
		}
	}
	for i, s := range c.SpecList {
		if s.Label == "" || s.Value == "" {
			errs = append(errs, fmt.Errorf("spec_list[%d]: label and value are required", i))
		}
	}
	for i, s := range c.Stats {
		if s.Value == "" {
			errs = append(errs, fmt.Errorf("stats[%d]: empty value", i))
		}
	}
	for i, g := range c.Footer {
		if g.Title == "" {
			errs = append(errs, fmt.Errorf("footer[%d]: empty title", i))
		}
		if len(g.Links) == 0 {
			errs = append(errs, fmt.Errorf("footer[%d] %q: no links", i, g.Title))
		}
	}
	return errors.Join(errs...)
}
