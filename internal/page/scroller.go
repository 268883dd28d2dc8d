package page

import "math"

// Scroller is the document scroll position. Input moves a target; Step eases
// the position toward it. Both stay within [0, Max].
type Scroller struct {
	pos, target float64
	max         float64
	// Smoothing is the fraction of the remaining distance covered per 1/60 s.
	// 1 disables easing.
	Smoothing float64
}

func NewScroller(max float64) *Scroller {
	return &Scroller{max: math.Max(0, max), Smoothing: 0.2}
}

func (s *Scroller) Pos() float64    { return s.pos }
func (s *Scroller) Target() float64 { return s.target }
func (s *Scroller) Max() float64    { return s.max }

// SetMax changes the scroll range, e.g. after a resize, clamping the position.
func (s *Scroller) SetMax(max float64) {
	s.max = math.Max(0, max)
	s.pos = s.clamp(s.pos)
	s.target = s.clamp(s.target)
}

// By scrolls by delta pixels, positive down.
func (s *Scroller) By(delta float64) {
	s.target = s.clamp(s.target + delta)
}

// To scrolls to y.
func (s *Scroller) To(y float64) {
	s.target = s.clamp(y)
}

// Jump moves immediately, without easing.
func (s *Scroller) Jump(y float64) {
	s.target = s.clamp(y)
	s.pos = s.target
}

// Step advances the easing by dt seconds and returns the new position.
func (s *Scroller) Step(dt float64) float64 {
	k := s.Smoothing
	if k <= 0 || k >= 1 || dt <= 0 {
		s.pos = s.target
		return s.pos
	}
	// frame-rate independent exponential approach
	f := 1 - math.Pow(1-k, dt*60)
	s.pos += (s.target - s.pos) * f
	if math.Abs(s.target-s.pos) < 0.5 {
		s.pos = s.target
	}
	return s.pos
}

func (s *Scroller) clamp(y float64) float64 {
	if math.IsNaN(y) || y < 0 {
		return 0
	}
	if y > s.max {
		return s.max
	}
	return y
}
