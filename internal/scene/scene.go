// Package scene is the YAML description of one landing page: where the frames
// come from, the hero overlays, the page copy and section layout.
package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/ivlev/framescroll/internal/loader"
	"github.com/ivlev/framescroll/internal/overlay"
	"github.com/ivlev/framescroll/internal/page"
	"github.com/ivlev/framescroll/internal/sequence"
)

const Version = "1"

// Scene represents a complete landing page
type Scene struct {
	Version  string            `yaml:"version"`
	Sequence Sequence          `yaml:"sequence"`
	Loader   Loader            `yaml:"loader"`
	Overlays []overlay.Caption `yaml:"overlays"`
	Content  page.Content      `yaml:"content"`
	Layout   []page.Section    `yaml:"layout"`
}

// Sequence locates the frames: a directory, a base URL or a PDF.
type Sequence struct {
	Location string `yaml:"location"`
	Prefix   string `yaml:"prefix"`
	Ext      string `yaml:"ext"`
	Pad      int    `yaml:"pad,omitempty"`
	// Count is required for URLs; for directories 0 means discover.
	Count int `yaml:"count,omitempty"`
	// DPI applies to PDF sources.
	DPI int `yaml:"dpi,omitempty"`
}

// Loader tunes frame preloading.
type Loader struct {
	Concurrency  int           `yaml:"concurrency,omitempty"`
	FrameTimeout time.Duration `yaml:"frame_timeout,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	MinReady     int           `yaml:"min_ready,omitempty"`
}

// Default is the Zenith X page: 120 frames named ezgif-frame-NNN.jpg.
func Default() *Scene {
	return &Scene{
		Version: Version,
		Sequence: Sequence{
			Location: "sequence",
			Prefix:   "ezgif-frame",
			Ext:      "jpg",
			Pad:      sequence.DefaultPad,
			Count:    120,
		},
		Loader: Loader{
			FrameTimeout: 10 * time.Second,
			Timeout:      30 * time.Second,
			MinReady:     96,
		},
		Overlays: overlay.Defaults(),
		Content:  page.DefaultContent(),
		Layout:   page.DefaultSections(),
	}
}

func (s *Scene) Template() sequence.Template {
	return sequence.Template{
		Dir:    s.Sequence.Location,
		Prefix: s.Sequence.Prefix,
		Ext:    s.Sequence.Ext,
		Pad:    s.Sequence.Pad,
	}
}

func (s *Scene) LoaderOptions() loader.Options {
	return loader.Options{
		Concurrency:  s.Loader.Concurrency,
		FrameTimeout: s.Loader.FrameTimeout,
		Timeout:      s.Loader.Timeout,
		MinReady:     s.Loader.MinReady,
	}
}

// Validate checks the whole scene and reports every problem. Overlapping
// overlays are returned as warnings.
func (s *Scene) Validate() (warnings []string, err error) {
	var errs []error
	if s.Version != Version {
		errs = append(errs, fmt.Errorf("unsupported version %q", s.Version))
	}
	if s.Sequence.Location == "" {
		errs = append(errs, errors.New("sequence.location is empty"))
	}
	if s.Sequence.Count < 0 {
		errs = append(errs, errors.New("sequence.count must not be negative"))
	}
	if s.Sequence.Count > 0 {
		if _, err := sequence.New(s.Template(), s.Sequence.Count); err != nil {
			errs = append(errs, fmt.Errorf("sequence: %w", err))
		}
	}
	if s.Loader.MinReady < 0 || (s.Sequence.Count > 0 && s.Loader.MinReady > s.Sequence.Count) {
		errs = append(errs, fmt.Errorf("loader.min_ready %d out of range", s.Loader.MinReady))
	}
	if s.Loader.FrameTimeout < 0 || s.Loader.Timeout < 0 {
		errs = append(errs, errors.New("loader timeouts must not be negative"))
	}

	drv, err := overlay.NewDriver(s.Overlays)
	if err != nil {
		errs = append(errs, err)
	} else {
		for _, pair := range drv.Overlaps() {
			warnings = append(warnings, fmt.Sprintf("overlays %q and %q are visible at the same time", pair[0], pair[1]))
		}
	}
	if _, err := page.New(s.Content, s.Layout); err != nil {
		errs = append(errs, err)
	}
	return warnings, errors.Join(errs...)
}
