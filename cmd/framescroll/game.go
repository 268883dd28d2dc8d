package main

import (
	"image"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ivlev/framescroll/internal/overlay"
	"github.com/ivlev/framescroll/internal/page"
	"github.com/ivlev/framescroll/internal/player"
	"github.com/ivlev/framescroll/internal/progress"
	"github.com/ivlev/framescroll/internal/renderer"
	"github.com/ivlev/framescroll/internal/visibility"
)

const (
	wheelStep = 80.0
	arrowStep = 40.0
)

// reload is a parsed scene ready to be swapped in on the game goroutine.
type reload struct {
	page     *page.Page
	overlays *overlay.Driver
}

// Game drives one page: input moves the scroller, the scroll position feeds
// the hero progress and the pinned canvas is taken from the player.
type Game struct {
	page     *page.Page
	player   *player.Player
	progress *progress.Signal
	viewport *progress.Value[renderer.Geometry]
	gate     *visibility.Gate
	scroller *page.Scroller

	surface *renderer.Surface
	geom    renderer.Geometry

	mu   sync.Mutex
	hero *image.RGBA

	reloads chan reload
}

func NewGame(pg *page.Page, p *progress.Signal, vp *progress.Value[renderer.Geometry], gate *visibility.Gate) *Game {
	return &Game{
		page:     pg,
		progress: p,
		viewport: vp,
		gate:     gate,
		scroller: page.NewScroller(0),
		reloads:  make(chan reload, 1),
	}
}

// Present copies the player's frame. It runs on the player goroutine.
func (g *Game) Present(img *image.RGBA, info player.FrameInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.hero == nil || g.hero.Rect != img.Rect {
		g.hero = image.NewRGBA(img.Rect)
	}
	copy(g.hero.Pix, img.Pix)
}

// Reload queues a new page and overlay set; a pending one is replaced.
func (g *Game) Reload(pg *page.Page, d *overlay.Driver) {
	r := reload{page: pg, overlays: d}
	for {
		select {
		case g.reloads <- r:
			return
		default:
		}
		select {
		case <-g.reloads:
		default:
		}
	}
}

func (g *Game) Update() error {
	select {
	case r := <-g.reloads:
		g.page = r.page
		if g.player != nil {
			g.player.SetOverlays(r.overlays)
		}
		log.Printf("[*] Сцена перезагружена")
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	vh := float64(g.geom.Height)
	l := g.page.Layout(vh)
	g.scroller.SetMax(l.MaxScroll())

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.scroller.By(-wy * wheelStep)
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyDown):
		g.scroller.By(arrowStep)
	case ebiten.IsKeyPressed(ebiten.KeyUp):
		g.scroller.By(-arrowStep)
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.scroller.By(vh * 0.9)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.scroller.By(-vh * 0.9)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		g.scroller.To(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		g.scroller.To(l.MaxScroll())
	}

	y := g.scroller.Step(1 / float64(ebiten.TPS()))
	st := g.page.State(y, vh)
	g.progress.Set(st.Hero)
	if hero, ok := l.Find(page.Hero); ok {
		g.gate.Update(hero.Region, st.ScrollY, vh)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.geom.Empty() {
		return
	}
	if g.surface == nil {
		g.surface = renderer.NewSurface(g.geom)
	} else {
		g.surface.Resize(g.geom)
	}

	st := g.page.State(g.scroller.Pos(), float64(g.geom.Height))
	g.mu.Lock()
	g.page.Draw(g.surface, st, g.hero)
	g.mu.Unlock()

	screen.WritePixels(g.surface.Image().Pix)
}

// Layout keeps the page in CSS pixels and renders at the monitor's scale.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	geom := renderer.Geometry{
		Width:  outsideWidth,
		Height: outsideHeight,
		DPR:    ebiten.Monitor().DeviceScaleFactor(),
	}
	if geom != g.geom {
		g.geom = geom
		g.viewport.Set(geom)
	}
	return geom.BackingSize()
}
