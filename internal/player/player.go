// Package player drives a frame sequence from a scroll progress signal. One
// goroutine owns the render surface; progress, viewport, visibility and load
// notifications only wake it, so bursts of events coalesce into a single paint
// of the latest state.
package player

import (
	"context"
	"errors"
	"image"
	"log"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ivlev/framescroll/internal/loader"
	"github.com/ivlev/framescroll/internal/overlay"
	"github.com/ivlev/framescroll/internal/progress"
	"github.com/ivlev/framescroll/internal/renderer"
	"github.com/ivlev/framescroll/internal/source"
	"github.com/ivlev/framescroll/internal/visibility"
)

var (
	ErrMounted    = errors.New("player: already mounted")
	ErrNoSource   = errors.New("player: source is required")
	ErrNoProgress = errors.New("player: progress signal is required")
	ErrNoViewport = errors.New("player: viewport is required")
)

// Presenter receives every finished frame. img belongs to the player and is
// only valid until Present returns.
type Presenter interface {
	Present(img *image.RGBA, info FrameInfo)
}

type PresenterFunc func(img *image.RGBA, info FrameInfo)

func (f PresenterFunc) Present(img *image.RGBA, info FrameInfo) { f(img, info) }

type Options struct {
	Source   source.Source
	Loader   loader.Options
	Overlays *overlay.Driver

	Progress *progress.Signal
	Viewport *progress.Value[renderer.Geometry]
	// Gate is optional; its flag is only reported in FrameInfo.
	Gate *visibility.Gate

	Presenter Presenter
	// SpinnerInterval is the repaint period of the loading indicator.
	SpinnerInterval time.Duration
}

// Player is one mountable instance. Mount and Unmount may be repeated; every
// mount loads the frames again.
type Player struct {
	opts Options

	mu       sync.Mutex
	mounted  bool
	cancel   context.CancelFunc
	releases []func()
	wg       sync.WaitGroup
	loader   *loader.Loader
	kick     func()

	overlays atomic.Pointer[overlay.Driver]
}

func New(opts Options) (*Player, error) {
	switch {
	case opts.Source == nil:
		return nil, ErrNoSource
	case opts.Progress == nil:
		return nil, ErrNoProgress
	case opts.Viewport == nil:
		return nil, ErrNoViewport
	}
	if opts.SpinnerInterval <= 0 {
		opts.SpinnerInterval = 50 * time.Millisecond
	}
	p := &Player{opts: opts}
	p.overlays.Store(opts.Overlays)
	return p, nil
}

// SetOverlays swaps the caption overlays and repaints.
func (p *Player) SetOverlays(d *overlay.Driver) {
	p.overlays.Store(d)
	p.mu.Lock()
	kick := p.kick
	p.mu.Unlock()
	if kick != nil {
		kick()
	}
}

// Mount starts loading and the render loop. Every listener acquired here is
// released by Unmount.
func (p *Player) Mount(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mounted {
		return ErrMounted
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.releases = p.releases[:0]

	// kick wakes the loop; pending wakes collapse into one.
	wake := make(chan struct{}, 1)
	kick := func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}

	lopts := p.opts.Loader
	onReady, onProgress := lopts.OnReady, lopts.OnProgress
	lopts.OnReady = func(s loader.Status) {
		if onReady != nil {
			onReady(s)
		}
		kick()
	}
	lopts.OnProgress = func(loaded, total int) {
		if onProgress != nil {
			onProgress(loaded, total)
		}
		kick()
	}
	p.loader = loader.New(p.opts.Source, lopts)
	p.kick = kick

	p.acquire(p.opts.Progress.Subscribe(func(float64) { kick() }))
	p.acquire(p.opts.Viewport.Subscribe(func(renderer.Geometry) { kick() }))
	if p.opts.Gate != nil {
		p.acquire(p.opts.Gate.OnChange(func(bool) { kick() }))
	}

	l := p.loader
	p.wg.Add(2)
	go func() {
		defer p.wg.Done()
		if err := l.Load(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[!] Загрузка кадров: %v", err)
		}
	}()
	go func() {
		defer p.wg.Done()
		p.loop(ctx, l, wake)
	}()

	p.mounted = true
	return nil
}

func (p *Player) acquire(release func()) {
	p.releases = append(p.releases, release)
}

// Unmount detaches every listener, aborts in-flight fetches and waits for the
// render loop to exit. It is safe to call when not mounted.
func (p *Player) Unmount() {
	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return
	}
	for i := len(p.releases) - 1; i >= 0; i-- {
		p.releases[i]()
	}
	p.releases = nil
	p.kick = nil
	p.cancel()
	p.mounted = false
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Player) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// Status reports the current mount's load status.
func (p *Player) Status() loader.Status {
	p.mu.Lock()
	l := p.loader
	p.mu.Unlock()
	if l == nil {
		return loader.Loading
	}
	return l.Status()
}

// Loader exposes the current mount's loader, nil before the first Mount.
func (p *Player) Loader() *loader.Loader {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loader
}

type paintKey struct {
	progress float64
	geom     renderer.Geometry
	status   loader.Status
	shown    int
	inView   bool
	overlays *overlay.Driver
}

func (p *Player) loop(ctx context.Context, l *loader.Loader, wake <-chan struct{}) {
	surface := renderer.NewSurface(p.opts.Viewport.Get())
	defer surface.Release()

	comp := &Compositor{Frames: l}
	spinner := time.NewTicker(p.opts.SpinnerInterval)
	defer spinner.Stop()

	start := time.Now()
	var last paintKey
	painted := false

	for {
		status := l.Status()
		geom := p.opts.Viewport.Get()
		surface.Resize(geom)

		info := FrameInfo{Progress: p.opts.Progress.Get(), Index: -1, Shown: -1, Status: status, Geometry: geom}
		if p.opts.Gate != nil {
			info.InView = p.opts.Gate.InView()
		}

		switch status {
		case loader.Loading:
			loaded, _, total := l.Counts()
			surface.DrawLoading(time.Since(start).Seconds()*2*math.Pi, loaded, total)
			p.present(surface, info)
		case loader.Failed:
			spinner.Stop()
			key := paintKey{geom: geom, status: status}
			if !painted || key != last {
				detail := "нет кадров"
				if err := l.Err(); err != nil {
					detail = summarize(err)
				}
				surface.DrawError("UNABLE TO LOAD EXPERIENCE", detail)
				p.present(surface, info)
				last, painted = key, true
			}
		default:
			spinner.Stop()
			comp.Overlays = p.overlays.Load()
			key := paintKey{progress: info.Progress, geom: geom, status: status, inView: info.InView, overlays: comp.Overlays}
			key.shown = shownFor(l, info.Progress)
			if !painted || key != last {
				out, err := comp.Paint(surface, info.Progress)
				if err == nil {
					out.Status, out.InView = status, info.InView
					p.present(surface, out)
					last, painted = key, true
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-wake:
		case <-spinner.C:
		}
	}
}

// shownFor returns the frame index a paint at progress would draw; it changes
// while a degraded load fills in frames.
func shownFor(l *loader.Loader, pr float64) int {
	_, shown, err := l.Frame(progress.FrameIndex(pr, l.Len()))
	if err != nil {
		return -1
	}
	return shown
}

func (p *Player) present(s *renderer.Surface, info FrameInfo) {
	if p.opts.Presenter != nil {
		p.opts.Presenter.Present(s.Image(), info)
	}
}

// summarize keeps the first line of a joined error for the error screen.
func summarize(err error) string {
	first, _, more := strings.Cut(err.Error(), "\n")
	if more {
		return first + " …"
	}
	return first
}
