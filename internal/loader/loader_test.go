package loader

import (
	"context"
	"errors"
	"image"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeSource serves tiny images; frames listed in fail return an error and
// frames listed in hang block until the context ends.
type fakeSource struct {
	n      int
	fail   map[int]bool
	hang   map[int]bool
	ignore bool // hanging frames ignore ctx
	jitter time.Duration

	inFlight, peak atomic.Int32
}

func (f *fakeSource) FrameCount() int { return f.n }

func (f *fakeSource) FrameDimensions(context.Context, int) (float64, float64, error) { return 4, 4, nil }

func (f *fakeSource) LoadFrame(ctx context.Context, index int) (image.Image, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if cur <= p || f.peak.CompareAndSwap(p, cur) {
			break
		}
	}

	if f.jitter > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(f.jitter))))
	}
	if f.hang[index] {
		if f.ignore {
			select {}
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.fail[index] {
		return nil, errors.New("boom")
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Pix[0] = uint8(index)
	return img, nil
}

func (f *fakeSource) Close() error { return nil }

func TestLoadAllReady(t *testing.T) {
	src := &fakeSource{n: 120, jitter: 2 * time.Millisecond}

	var readyCalls atomic.Int32
	var mu sync.Mutex
	var last int
	l := New(src, Options{
		Concurrency: 8,
		OnReady:     func(Status) { readyCalls.Add(1) },
		OnProgress: func(loaded, total int) {
			mu.Lock()
			if loaded > last {
				last = loaded
			}
			mu.Unlock()
		},
	})

	if l.Ready() {
		t.Fatal("Loader must not be ready before Load")
	}
	if _, _, err := l.Frame(0); !errors.Is(err, ErrNotReady) {
		t.Errorf("Frame before ready: %v", err)
	}

	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if l.Status() != Ready {
		t.Errorf("Status = %v, want ready", l.Status())
	}
	if got := readyCalls.Load(); got != 1 {
		t.Errorf("OnReady called %d times", got)
	}
	if last != 120 {
		t.Errorf("Last progress %d, want 120", last)
	}
	if p := src.peak.Load(); p > 8 {
		t.Errorf("Concurrency exceeded: %d", p)
	}

	for _, i := range []int{0, 59, 119} {
		img, got, err := l.Frame(i)
		if err != nil || got != i {
			t.Fatalf("Frame(%d) = %d, %v", i, got, err)
		}
		if img.(*image.RGBA).Pix[0] != uint8(i) {
			t.Errorf("Frame(%d) returned wrong image", i)
		}
	}

	select {
	case <-l.Done():
	default:
		t.Error("Done should be closed")
	}
}

func TestLoadDegraded(t *testing.T) {
	src := &fakeSource{n: 10, fail: map[int]bool{3: true, 4: true}}
	l := New(src, Options{MinReady: 5})

	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if l.Status() != Degraded {
		t.Fatalf("Status = %v, want degraded", l.Status())
	}

	loaded, failed, total := l.Counts()
	if loaded != 8 || failed != 2 || total != 10 {
		t.Errorf("Counts = %d/%d/%d", loaded, failed, total)
	}

	errs := l.Errors()
	if len(errs) != 2 || errs[0].Index != 3 || errs[1].Index != 4 {
		t.Errorf("Unexpected errors %v", errs)
	}

	// missing frames resolve to a neighbour, earlier first
	if _, got, _ := l.Frame(3); got != 2 {
		t.Errorf("Frame(3) resolved to %d, want 2", got)
	}
	if _, got, _ := l.Frame(4); got != 5 {
		t.Errorf("Frame(4) resolved to %d, want 5", got)
	}
}

func TestLoadFailed(t *testing.T) {
	src := &fakeSource{n: 4, fail: map[int]bool{0: true, 1: true, 2: true}}
	var status Status
	l := New(src, Options{OnReady: func(s Status) { status = s }})

	err := l.Load(context.Background())
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Expected ErrIncomplete, got %v", err)
	}
	if status != Failed || l.Ready() {
		t.Errorf("Status = %v", status)
	}
	var fe *FrameError
	if !errors.As(err, &fe) {
		t.Error("Error should carry frame errors")
	}
}

func TestLoadTimeout(t *testing.T) {
	tests := []struct {
		name     string
		ignore   bool
		minReady int
		want     Status
	}{
		{"degraded", false, 8, Degraded},
		{"failed", false, 0, Failed},
		{"source ignores ctx", true, 8, Degraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{n: 10, hang: map[int]bool{9: true}, ignore: tt.ignore}
			l := New(src, Options{Timeout: 50 * time.Millisecond, MinReady: tt.minReady})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			start := time.Now()
			l.Load(ctx)
			if time.Since(start) > 2*time.Second {
				t.Fatal("Load did not honour the timeout")
			}
			if l.Status() != tt.want {
				t.Errorf("Status = %v, want %v", l.Status(), tt.want)
			}
		})
	}
}

func TestFrameTimeout(t *testing.T) {
	src := &fakeSource{n: 3, hang: map[int]bool{1: true}, ignore: true}
	l := New(src, Options{FrameTimeout: 20 * time.Millisecond, MinReady: 2})

	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if l.Status() != Degraded {
		t.Errorf("Status = %v, want degraded", l.Status())
	}
	errs := l.Errors()
	if len(errs) != 1 || !errors.Is(errs[0], context.DeadlineExceeded) {
		t.Errorf("Unexpected errors %v", errs)
	}
}

func TestLoadCancelled(t *testing.T) {
	src := &fakeSource{n: 5, hang: map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}}
	l := New(src, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if err := l.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if l.Status() != Failed {
		t.Errorf("Status = %v", l.Status())
	}
}

func TestEmptySource(t *testing.T) {
	l := New(&fakeSource{}, Options{})
	if err := l.Load(context.Background()); !errors.Is(err, ErrNoFrames) {
		t.Errorf("Expected ErrNoFrames, got %v", err)
	}
}
