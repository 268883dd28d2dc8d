package player

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/ivlev/framescroll/internal/loader"
	"github.com/ivlev/framescroll/internal/overlay"
	"github.com/ivlev/framescroll/internal/progress"
	"github.com/ivlev/framescroll/internal/renderer"
	"github.com/ivlev/framescroll/internal/visibility"
)

// solidSource serves frame i as a uniform image whose red channel is i. With
// hold set, every fetch waits until hold is closed.
type solidSource struct {
	n    int
	fail bool
	hold chan struct{}
}

func (s *solidSource) FrameCount() int { return s.n }

func (s *solidSource) FrameDimensions(context.Context, int) (float64, float64, error) { return 16, 9, nil }

func (s *solidSource) LoadFrame(ctx context.Context, i int) (image.Image, error) {
	if s.hold != nil {
		select {
		case <-s.hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.fail {
		return nil, errors.New("offline")
	}
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	for p := 0; p < len(img.Pix); p += 4 {
		img.Pix[p], img.Pix[p+3] = uint8(i), 255
	}
	return img, nil
}

func (s *solidSource) Close() error { return nil }

type fixture struct {
	progress *progress.Signal
	viewport *progress.Value[renderer.Geometry]
	gate     *visibility.Gate
	infos    chan FrameInfo
	player   *Player
}

func newFixture(t *testing.T, src *solidSource) *fixture {
	t.Helper()
	f := &fixture{
		progress: progress.NewSignal(),
		viewport: progress.NewValue(renderer.Geometry{Width: 64, Height: 36, DPR: 1}),
		gate:     visibility.NewGate(),
		infos:    make(chan FrameInfo, 4096),
	}
	p, err := New(Options{
		Source:   src,
		Progress: f.progress,
		Viewport: f.viewport,
		Gate:     f.gate,
		Presenter: PresenterFunc(func(img *image.RGBA, info FrameInfo) {
			select {
			case f.infos <- info:
			default:
			}
		}),
		SpinnerInterval: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	f.player = p
	t.Cleanup(p.Unmount)
	return f
}

func (f *fixture) waitFor(t *testing.T, what string, pred func(FrameInfo) bool) FrameInfo {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case info := <-f.infos:
			if pred(info) {
				return info
			}
		case <-timeout:
			t.Fatalf("Timed out waiting for %s", what)
		}
	}
}

func TestFirstPaintAfterReady(t *testing.T) {
	f := newFixture(t, &solidSource{n: 120})
	f.progress.Set(0.5)

	if err := f.player.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}

	info := f.waitFor(t, "ready paint", func(i FrameInfo) bool { return i.Status.IsReady() })
	if info.Index != 60 || info.Shown != 60 {
		t.Errorf("First paint showed %d/%d, want 60", info.Index, info.Shown)
	}
	if f.player.Status() != loader.Ready {
		t.Errorf("Status = %v", f.player.Status())
	}

	f.progress.Set(0.999)
	info = f.waitFor(t, "repaint", func(i FrameInfo) bool { return i.Index == 119 })
	if info.Shown != 119 {
		t.Errorf("Shown = %d", info.Shown)
	}

	f.viewport.Set(renderer.Geometry{Width: 32, Height: 32, DPR: 2})
	info = f.waitFor(t, "resize repaint", func(i FrameInfo) bool { return i.Geometry.DPR == 2 })
	if info.Index != 119 {
		t.Errorf("Resize repaint showed %d", info.Index)
	}
}

func TestLoadingIndicatorUntilReady(t *testing.T) {
	src := &solidSource{n: 10, hold: make(chan struct{})}
	f := newFixture(t, src)
	f.progress.Set(0.35)

	if err := f.player.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}

	// the spinner repaints while fetches are held
	for i := 0; i < 5; i++ {
		info := f.waitFor(t, "loading paint", func(FrameInfo) bool { return true })
		if info.Status != loader.Loading || info.Shown != -1 || info.Index != -1 {
			t.Fatalf("Paint while loading = %+v, want loading indicator only", info)
		}
	}
	if f.player.Status() != loader.Loading {
		t.Fatalf("Status = %v before release", f.player.Status())
	}

	close(src.hold)
	timeout := time.After(3 * time.Second)
	for {
		select {
		case info := <-f.infos:
			if info.Status == loader.Loading {
				if info.Shown != -1 {
					t.Fatalf("Loading paint showed frame %d", info.Shown)
				}
				continue
			}
			want := progress.FrameIndex(0.35, 10)
			if info.Status != loader.Ready || info.Index != want || info.Shown != want {
				t.Errorf("First paint after release = %+v, want frame %d", info, want)
			}
			return
		case <-timeout:
			t.Fatal("Timed out waiting for the first ready paint")
		}
	}
}

func TestUnmountReleasesListeners(t *testing.T) {
	f := newFixture(t, &solidSource{n: 4})

	if err := f.player.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := f.player.Mount(context.Background()); !errors.Is(err, ErrMounted) {
		t.Errorf("Expected ErrMounted, got %v", err)
	}
	if f.progress.Subscribers() != 1 || f.viewport.Subscribers() != 1 || f.gate.Listeners() != 1 {
		t.Fatal("Mount should subscribe to progress, viewport and gate")
	}

	f.player.Unmount()
	f.player.Unmount()

	if f.progress.Subscribers() != 0 || f.viewport.Subscribers() != 0 || f.gate.Listeners() != 0 {
		t.Error("Unmount left listeners attached")
	}
	if f.player.Mounted() {
		t.Error("Player still mounted")
	}

	// drain, then make sure nothing paints after unmount
	for len(f.infos) > 0 {
		<-f.infos
	}
	f.progress.Set(0.7)
	select {
	case info := <-f.infos:
		t.Errorf("Painted after unmount: %+v", info)
	case <-time.After(30 * time.Millisecond):
	}

	if err := f.player.Mount(context.Background()); err != nil {
		t.Fatalf("Remount failed: %v", err)
	}
	f.waitFor(t, "paint after remount", func(i FrameInfo) bool { return i.Status.IsReady() && i.Index == 2 })
}

func TestFailedLoadShowsError(t *testing.T) {
	f := newFixture(t, &solidSource{n: 3, fail: true})
	if err := f.player.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	info := f.waitFor(t, "error paint", func(i FrameInfo) bool { return i.Status == loader.Failed })
	if info.Shown != -1 {
		t.Errorf("Failed paint should not show a frame, got %d", info.Shown)
	}

	// the error screen is painted once; the spinner no longer drives the loop
	time.Sleep(20 * 5 * time.Millisecond)
	if n := len(f.infos); n != 0 {
		t.Errorf("Expected no repaints after the error screen, got %d", n)
	}
}

func TestNewValidates(t *testing.T) {
	sig := progress.NewSignal()
	vp := progress.NewValue(renderer.Geometry{Width: 1, Height: 1, DPR: 1})
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"no source", Options{Progress: sig, Viewport: vp}, ErrNoSource},
		{"no progress", Options{Source: &solidSource{n: 1}, Viewport: vp}, ErrNoProgress},
		{"no viewport", Options{Source: &solidSource{n: 1}, Progress: sig}, ErrNoViewport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("New() = %v, want %v", err, tt.want)
			}
		})
	}
}

type staticFrames []image.Image

func (s staticFrames) Len() int { return len(s) }

func (s staticFrames) Frame(i int) (image.Image, int, error) {
	if len(s) == 0 {
		return nil, -1, loader.ErrNotReady
	}
	return s[i], i, nil
}

func TestCompositorPaint(t *testing.T) {
	s := renderer.NewSurface(renderer.Geometry{Width: 40, Height: 20, DPR: 1})
	defer s.Release()

	marker := color.RGBA{R: 200, A: 255}
	s.Clear(marker)
	c := &Compositor{Frames: staticFrames(nil)}
	if _, err := c.Paint(s, 0.5); !errors.Is(err, loader.ErrNotReady) {
		t.Fatalf("Expected ErrNotReady, got %v", err)
	}
	if s.Image().Pix[0] != 200 {
		t.Error("Paint must leave the surface untouched when not ready")
	}

	frames := make(staticFrames, 4)
	for i := range frames {
		img := image.NewRGBA(image.Rect(0, 0, 8, 4))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+3] = uint8(10*(i+1)), 255
		}
		frames[i] = img
	}
	drv, err := overlay.NewDriver(nil)
	if err != nil {
		t.Fatal(err)
	}
	c = &Compositor{Frames: frames, Overlays: drv}
	info, err := c.Paint(s, 0.6)
	if err != nil {
		t.Fatal(err)
	}
	if info.Index != 2 || info.Shown != 2 {
		t.Errorf("Paint(0.6) = %+v", info)
	}
	if got := s.Image().Pix[0]; got != 30 {
		t.Errorf("Pixel red = %d, want 30", got)
	}

	drv, err = overlay.NewDriver(overlay.Defaults())
	if err != nil {
		t.Fatal(err)
	}
	c.Overlays = drv
	if info, _ = c.Paint(s, 0.05); info.Caption != drv.Captions()[0].Name {
		t.Errorf("Caption at 0.05 = %q, want %q", info.Caption, drv.Captions()[0].Name)
	}
}
