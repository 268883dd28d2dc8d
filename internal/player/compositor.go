package player

import (
	"image"

	"github.com/ivlev/framescroll/internal/loader"
	"github.com/ivlev/framescroll/internal/overlay"
	"github.com/ivlev/framescroll/internal/progress"
	"github.com/ivlev/framescroll/internal/renderer"
)

// FrameSet is the read side of a frame loader.
type FrameSet interface {
	Len() int
	Frame(index int) (image.Image, int, error)
}

// FrameInfo describes one painted frame.
type FrameInfo struct {
	Progress float64
	// Index is the frame the progress maps to; Shown is the frame actually
	// drawn (a neighbour when the load is degraded), -1 when none was drawn.
	Index    int
	Shown    int
	Status   loader.Status
	Geometry renderer.Geometry
	InView   bool
	// Caption names the most visible overlay, empty when none is.
	Caption string
}

// Compositor paints the hero: the frame selected by progress, cover-fitted,
// with the caption overlays on top. It is stateless apart from its inputs.
type Compositor struct {
	Frames   FrameSet
	Overlays *overlay.Driver
}

// Paint draws progress p onto s. It fails with loader.ErrNotReady until frames
// are available and leaves s untouched in that case.
func (c *Compositor) Paint(s *renderer.Surface, p float64) (FrameInfo, error) {
	p = progress.Clamp01(p)
	info := FrameInfo{Progress: p, Index: progress.FrameIndex(p, c.Frames.Len()), Shown: -1, Geometry: s.Geometry()}

	img, shown, err := c.Frames.Frame(info.Index)
	if err != nil {
		return info, err
	}
	s.DrawCover(img)
	info.Shown = shown
	if c.Overlays != nil {
		c.Overlays.Draw(s, p)
		if i := c.Overlays.Primary(p); i >= 0 {
			info.Caption = c.Overlays.Captions()[i].Name
		}
	}
	return info, nil
}
