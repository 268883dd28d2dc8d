package engine

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/framescroll/internal/anim"
	"github.com/ivlev/framescroll/internal/config"
	"github.com/ivlev/framescroll/internal/overlay"
	"github.com/ivlev/framescroll/internal/player"
	"github.com/ivlev/framescroll/internal/renderer"
	"github.com/ivlev/framescroll/internal/system"
	"github.com/ivlev/framescroll/internal/video"
)

// Exporter scrubs the hero from progress 0 to 1 and encodes the result.
type Exporter struct {
	Config   *config.Config
	Frames   player.FrameSet
	Overlays *overlay.Driver
	Encoder  video.VideoEncoder
	// LogPath receives the benchmark line when Config.ShowStats is set.
	LogPath string
}

func NewExporter(cfg *config.Config, frames player.FrameSet, overlays *overlay.Driver, enc video.VideoEncoder) *Exporter {
	return &Exporter{
		Config:   cfg,
		Frames:   frames,
		Overlays: overlays,
		Encoder:  enc,
		LogPath:  "benchmark.log",
	}
}

// Stats summarizes one export.
type Stats struct {
	Frames     int
	Total      time.Duration
	Render     time.Duration
	Throughput float64
}

type renderResult struct {
	index int
	img   *image.RGBA
}

// FrameCount is the number of video frames for the configured duration.
func (e *Exporter) FrameCount() int {
	n := int(math.Round(e.Config.Duration * float64(e.Config.FPS)))
	if n < 1 {
		n = 1
	}
	return n
}

// ProgressAt maps video frame k to scroll progress.
func (e *Exporter) ProgressAt(k int) float64 {
	n := e.FrameCount()
	if n == 1 {
		return 0
	}
	t := float64(k) / float64(n-1)
	if strings.EqualFold(e.Config.Ease, "ease") {
		t = anim.EaseInOutCubic(t)
	}
	return t
}

// Geometry is the render geometry: the configured size, with the backing store
// rounded down to even dimensions for yuv420p.
func (e *Exporter) Geometry() renderer.Geometry {
	dpr := e.Config.DPR
	if dpr <= 0 {
		dpr = 1
	}
	g := renderer.Geometry{Width: e.Config.Width, Height: e.Config.Height, DPR: dpr}
	w, h := g.BackingSize()
	if w%2 != 0 || h%2 != 0 {
		g = renderer.Geometry{Width: w &^ 1, Height: h &^ 1, DPR: 1}
	}
	return g
}

func (e *Exporter) Run(ctx context.Context) (Stats, error) {
	startTime := time.Now()
	total := e.FrameCount()
	geom := e.Geometry()
	bw, bh := geom.BackingSize()

	workers := e.Config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	fmt.Println("--- [FRAMESCROLL EXPORT] ---")
	fmt.Printf("[*] Кадров последовательности: %d | Кадров видео: %d\n", e.Frames.Len(), total)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Потоков: %d\n", bw, bh, e.Config.FPS, workers)
	fmt.Println("----------------------------")

	g, gctx := errgroup.WithContext(ctx)

	// jobs -> render pool -> results -> reorder -> encoder
	jobs := make(chan int)
	results := make(chan renderResult, workers)
	ordered := make(chan *image.RGBA)
	// window bounds how far rendering may run ahead of the encoder
	window := make(chan struct{}, 2*workers)

	g.Go(func() error {
		defer close(jobs)
		for k := 0; k < total; k++ {
			select {
			case window <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			select {
			case jobs <- k:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	renderStart := time.Now()
	var renderEnd time.Time
	renderers, rctx := errgroup.WithContext(gctx)
	for w := 0; w < workers; w++ {
		renderers.Go(func() error {
			surface := renderer.NewSurface(geom)
			defer surface.Release()
			surface.SetScaler(draw.CatmullRom)
			comp := &player.Compositor{Frames: e.Frames, Overlays: e.Overlays}

			for k := range jobs {
				if _, err := comp.Paint(surface, e.ProgressAt(k)); err != nil {
					return fmt.Errorf("кадр %d: %w", k, err)
				}
				out := system.GetImage(surface.Image().Rect)
				copy(out.Pix, surface.Image().Pix)
				select {
				case results <- renderResult{index: k, img: out}:
				case <-rctx.Done():
					system.PutImage(out)
					return rctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		err := renderers.Wait()
		renderEnd = time.Now()
		close(results)
		return err
	})

	// Восстанавливаем порядок кадров
	next := 0
	g.Go(func() error {
		defer close(ordered)
		pending := make(map[int]*image.RGBA)
		var prev *image.RGBA
		for res := range results {
			pending[res.index] = res.img
			for {
				img, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				select {
				case ordered <- img:
				case <-gctx.Done():
					return gctx.Err()
				}
				// the encoder has taken img, so it is done with prev
				if prev != nil {
					system.PutImage(prev)
				}
				prev = img
				<-window
				next++
				if next%e.Config.FPS == 0 || next == total {
					fmt.Printf("\r[>] Кадров: %d/%d", next, total)
				}
			}
		}
		return nil
	})

	params := config.StreamParams{
		Width:        bw,
		Height:       bh,
		FPS:          e.Config.FPS,
		Duration:     float64(total) / float64(e.Config.FPS),
		FadeDuration: e.Config.FadeDuration,
		AudioPath:    e.Config.AudioPath,
		VideoEncoder: e.Config.VideoEncoder,
		Quality:      e.Config.Quality,
	}
	g.Go(func() error {
		err := e.Encoder.EncodeStream(gctx, ordered, e.Config.OutputVideo, params)
		if err != nil {
			return fmt.Errorf("ошибка кодирования видео: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		fmt.Println()
		return Stats{}, err
	}
	fmt.Println()
	if next != total {
		return Stats{}, fmt.Errorf("получено %d из %d кадров", next, total)
	}

	stats := Stats{
		Frames: total,
		Total:  time.Since(startTime),
		Render: renderEnd.Sub(renderStart),
	}
	stats.Throughput = float64(total) / stats.Total.Seconds()

	if e.Config.ShowStats {
		e.report(stats)
	}
	return stats, nil
}

func (e *Exporter) report(s Stats) {
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering (CPU): %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		e.Config.BuildVersion, s.Total.Seconds(), s.Render.Seconds(), s.Throughput,
	)
	fmt.Print(report)

	if e.LogPath == "" {
		return
	}
	logEntry := fmt.Sprintf("[%s] Build: %s | Scene: %s | Frames: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		e.Config.BuildVersion,
		filepath.Base(e.Config.ScenePath),
		s.Frames,
		s.Total.Seconds(),
		s.Render.Seconds(),
		s.Throughput,
	)

	f, err := os.OpenFile(e.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать %s: %v\n", e.LogPath, err)
	}
}
