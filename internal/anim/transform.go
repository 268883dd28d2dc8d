package anim

import (
	"fmt"
	"math"
	"sort"
)

// Transform maps an input (usually scroll progress) through piecewise-linear
// segments: Stops[i] -> Values[i]. Input outside the first/last stop is clamped
// to the first/last value.
type Transform struct {
	Stops  []float64 `yaml:"stops"`
	Values []float64 `yaml:"values"`
	// Ease, when set, reshapes t inside every segment.
	Ease func(t float64) float64 `yaml:"-"`
}

// NewTransform validates stops and values.
func NewTransform(stops, values []float64) (Transform, error) {
	tr := Transform{Stops: stops, Values: values}
	return tr, tr.Validate()
}

// MustTransform is NewTransform for package-level presets.
func MustTransform(stops, values []float64) Transform {
	tr, err := NewTransform(stops, values)
	if err != nil {
		panic(err)
	}
	return tr
}

func (tr Transform) Validate() error {
	if len(tr.Stops) == 0 {
		return fmt.Errorf("transform: no stops")
	}
	if len(tr.Stops) != len(tr.Values) {
		return fmt.Errorf("transform: %d stops but %d values", len(tr.Stops), len(tr.Values))
	}
	if !sort.Float64sAreSorted(tr.Stops) {
		return fmt.Errorf("transform: stops must be ascending: %v", tr.Stops)
	}
	return nil
}

// At evaluates the transform at x.
func (tr Transform) At(x float64) float64 {
	n := len(tr.Stops)
	if n == 0 {
		return 0
	}
	if math.IsNaN(x) || x <= tr.Stops[0] {
		return tr.Values[0]
	}
	if x >= tr.Stops[n-1] {
		return tr.Values[n-1]
	}

	// first stop strictly greater than x
	i := sort.Search(n, func(i int) bool { return tr.Stops[i] > x })
	prev, next := i-1, i
	span := tr.Stops[next] - tr.Stops[prev]
	if span == 0 {
		return tr.Values[next]
	}
	t := (x - tr.Stops[prev]) / span
	if tr.Ease != nil {
		t = tr.Ease(t)
	}
	return Lerp(tr.Values[prev], tr.Values[next], t)
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// EaseInOutCubic applies smooth easing.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Linear is the identity easing.
func Linear(t float64) float64 { return t }
