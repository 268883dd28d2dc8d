package progress

// Region is a vertical span of the page in CSS pixels, measured from the top of
// the document.
type Region struct {
	Top    float64 `yaml:"top"`
	Height float64 `yaml:"height"`
}

func (r Region) Bottom() float64 { return r.Top + r.Height }

// Offset selects which pair of edges defines progress 0 and 1.
type Offset int

const (
	// StartStart: 0 when the region's top meets the viewport top, 1 when its
	// bottom meets the viewport bottom. Used by pinned scroll sections.
	StartStart Offset = iota
	// StartEnd: 0 when the region's top enters at the viewport bottom, 1 when
	// its bottom leaves at the viewport top.
	StartEnd
)

// Scroll computes the region's progress for a document scrolled to scrollY with
// a viewport viewportH tall. The result is clamped to [0,1].
func Scroll(r Region, scrollY, viewportH float64, offset Offset) float64 {
	var start, distance float64
	switch offset {
	case StartEnd:
		start = r.Top - viewportH
		distance = r.Height + viewportH
	default:
		start = r.Top
		distance = r.Height - viewportH
	}
	if distance <= 0 {
		if scrollY >= start {
			return 1
		}
		return 0
	}
	return Clamp01((scrollY - start) / distance)
}
