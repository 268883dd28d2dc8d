// Package progress holds the normalized scroll progress primitive shared by the
// frame player and the page sections.
package progress

import (
	"math"
	"sync"
)

// FrameIndex maps progress p in [0,1] onto a frame of an n-frame sequence:
// floor(p*n) clamped to [0, n-1]. Out of range and NaN input is clamped, never
// rejected.
func FrameIndex(p float64, n int) int {
	if n <= 0 || math.IsNaN(p) || p <= 0 {
		return 0
	}
	if p >= 1 {
		return n - 1
	}
	idx := int(math.Floor(p * float64(n)))
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// Clamp01 clamps v to [0,1]; NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Value is an observable value. Subscribers are called synchronously, in
// subscription order, on the goroutine that calls Set.
type Value[T comparable] struct {
	mu     sync.RWMutex
	v      T
	nextID int
	subs   map[int]func(T)
	order  []int
}

func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[int]func(T))}
}

func (o *Value[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.v
}

// Set stores v and notifies subscribers when it changed.
func (o *Value[T]) Set(v T) {
	o.mu.Lock()
	if o.v == v {
		o.mu.Unlock()
		return
	}
	o.v = v
	fns := make([]func(T), 0, len(o.order))
	for _, id := range o.order {
		fns = append(fns, o.subs[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn for change notifications. The returned func removes
// the subscription and is safe to call more than once.
func (o *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	o.mu.Lock()
	if o.subs == nil {
		o.subs = make(map[int]func(T))
	}
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	o.order = append(o.order, id)
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
			for i, sid := range o.order {
				if sid == id {
					o.order = append(o.order[:i], o.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers reports the number of live subscriptions.
func (o *Value[T]) Subscribers() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs)
}

// Signal is a progress value confined to [0,1].
type Signal struct {
	*Value[float64]
}

func NewSignal() *Signal {
	return &Signal{Value: NewValue(0.0)}
}

func (s *Signal) Set(p float64) {
	s.Value.Set(Clamp01(p))
}
