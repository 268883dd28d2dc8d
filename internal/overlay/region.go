package overlay

import (
	"fmt"

	"github.com/ivlev/framescroll/internal/progress"
)

// Region is the visibility window of one overlay, in progress units:
// invisible below FadeInStart, ramping to fully visible at FullyVisible, held
// until FadeOutStart, then ramping back to invisible at FadeOutEnd. A zero
// FadeOutEnd means the overlay never fades out.
type Region struct {
	FadeInStart  float64 `yaml:"fade_in_start"`
	FullyVisible float64 `yaml:"fully_visible"`
	FadeOutStart float64 `yaml:"fade_out_start"`
	FadeOutEnd   float64 `yaml:"fade_out_end"`
}

func (r Region) HasFadeOut() bool { return r.FadeOutEnd > 0 }

// Validate requires 0 <= FadeInStart <= FullyVisible <= FadeOutStart <= FadeOutEnd <= 1
// (the last two only when the region fades out).
func (r Region) Validate() error {
	pts := []float64{r.FadeInStart, r.FullyVisible}
	if r.HasFadeOut() {
		pts = append(pts, r.FadeOutStart, r.FadeOutEnd)
	}
	for i, p := range pts {
		if p < 0 || p > 1 {
			return fmt.Errorf("breakpoint %v outside [0,1]", p)
		}
		if i > 0 && p < pts[i-1] {
			return fmt.Errorf("breakpoints must not decrease: %v", pts)
		}
	}
	return nil
}

// Opacity evaluates the trapezoid at progress p.
func (r Region) Opacity(p float64) float64 {
	p = progress.Clamp01(p)
	a, b := r.FadeInStart, r.FullyVisible

	if r.HasFadeOut() && p >= r.FadeOutEnd {
		return 0
	}
	if p < a {
		return 0
	}
	if p < b {
		return (p - a) / (b - a)
	}
	if !r.HasFadeOut() || p < r.FadeOutStart {
		return 1
	}
	c, d := r.FadeOutStart, r.FadeOutEnd
	return 1 - (p-c)/(d-c)
}

// span returns the open interval where the region has non-zero opacity.
func (r Region) span() (float64, float64) {
	end := 1.0
	if r.HasFadeOut() {
		end = r.FadeOutEnd
	}
	return r.FadeInStart, end
}

// Overlaps reports whether two regions are visible at the same time for a
// non-empty stretch of progress.
func (r Region) Overlaps(o Region) bool {
	a0, a1 := r.span()
	b0, b1 := o.span()
	lo, hi := a0, a1
	if b0 > lo {
		lo = b0
	}
	if b1 < hi {
		hi = b1
	}
	return hi > lo
}
