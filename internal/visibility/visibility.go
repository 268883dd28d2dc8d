// Package visibility tracks whether a page region intersects the viewport.
package visibility

import (
	"github.com/ivlev/framescroll/internal/progress"
)

// Gate holds a single "in view" flag. It has no other state: it neither
// suspends rendering nor releases frames.
type Gate struct {
	inView *progress.Value[bool]
}

func NewGate() *Gate {
	return &Gate{inView: progress.NewValue(false)}
}

// Intersects reports whether region overlaps the viewport [scrollY, scrollY+viewportH).
func Intersects(region progress.Region, scrollY, viewportH float64) bool {
	if viewportH <= 0 || region.Height <= 0 {
		return false
	}
	return region.Top < scrollY+viewportH && region.Bottom() > scrollY
}

// Update recomputes the flag and returns it. Listeners fire only on change.
func (g *Gate) Update(region progress.Region, scrollY, viewportH float64) bool {
	v := Intersects(region, scrollY, viewportH)
	g.inView.Set(v)
	return v
}

func (g *Gate) InView() bool { return g.inView.Get() }

// OnChange subscribes to flag transitions.
func (g *Gate) OnChange(fn func(inView bool)) (unsubscribe func()) {
	return g.inView.Subscribe(fn)
}

// Listeners reports live subscriptions.
func (g *Gate) Listeners() int { return g.inView.Subscribers() }
