package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ivlev/framescroll/internal/config"
	"github.com/ivlev/framescroll/internal/loader"
	"github.com/ivlev/framescroll/internal/overlay"
	"github.com/ivlev/framescroll/internal/page"
	"github.com/ivlev/framescroll/internal/player"
	"github.com/ivlev/framescroll/internal/progress"
	"github.com/ivlev/framescroll/internal/renderer"
	"github.com/ivlev/framescroll/internal/scene"
	"github.com/ivlev/framescroll/internal/source"
	"github.com/ivlev/framescroll/internal/system"
	"github.com/ivlev/framescroll/internal/visibility"
	"github.com/ivlev/framescroll/internal/watch"
)

const scenesDir = "scenes"

var BuildVersion = "dev"

func main() {
	system.InitResourceLimits(8192)

	cfg := &config.Config{BuildVersion: BuildVersion}
	flag.StringVar(&cfg.ScenePath, "scene", "", "Путь к YAML сцене (по умолчанию последняя в scenes/)")
	flag.StringVar(&cfg.FramesPath, "frames", "", "Каталог, URL или PDF с кадрами (переопределяет сцену)")
	flag.IntVar(&cfg.Width, "width", 1280, "Ширина окна")
	flag.IntVar(&cfg.Height, "height", 720, "Высота окна")
	flag.BoolVar(&cfg.Watch, "watch", false, "Перезагружать сцену при изменении файла")
	initScene := flag.Bool("init", false, "Записать сцену по умолчанию в scenes/ и выйти")
	baseMonitor := flag.Bool("m", false, "Использовать первый монитор вместо основного")
	flag.Parse()

	fmt.Printf("[*] framescroll %s\n", cfg.BuildVersion)

	if *initScene {
		path := scene.GenerateScenePath(scenesDir)
		if err := scene.WriteScene(scene.Default(), path); err != nil {
			log.Fatalf("[-] Ошибка записи сцены: %v", err)
		}
		fmt.Printf("[+++] Сцена записана: %s\n", path)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Некорректные параметры: %v", err)
	}

	sc := loadScene(cfg)
	if cfg.FramesPath != "" {
		sc.Sequence.Location = cfg.FramesPath
	}

	drv, err := overlay.NewDriver(sc.Overlays)
	if err != nil {
		log.Fatalf("[-] Ошибка оверлеев: %v", err)
	}
	pg, err := page.New(sc.Content, sc.Layout)
	if err != nil {
		log.Fatalf("[-] Ошибка страницы: %v", err)
	}

	src, err := source.Open(sc.Sequence.Location, sc.Template(), sc.Sequence.Count, sc.Sequence.DPI)
	if err != nil {
		log.Fatalf("[-] Ошибка открытия кадров: %v", err)
	}
	defer src.Close()

	res := system.Probe()
	lopts := sc.LoaderOptions()
	if lopts.Concurrency == 0 {
		lopts.Concurrency = res.FetchConcurrency(src.FrameCount())
	}
	lopts.OnReady = func(s loader.Status) {
		fmt.Printf("[*] Загрузка кадров завершена: %s\n", s)
	}

	prog := progress.NewSignal()
	viewport := progress.NewValue(renderer.Geometry{})
	gate := visibility.NewGate()
	game := NewGame(pg, prog, viewport, gate)

	p, err := player.New(player.Options{
		Source:    src,
		Loader:    lopts,
		Overlays:  drv,
		Progress:  prog,
		Viewport:  viewport,
		Gate:      gate,
		Presenter: game,
	})
	if err != nil {
		log.Fatalf("[-] Ошибка плеера: %v", err)
	}
	game.player = p

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Mount(ctx); err != nil {
		log.Fatalf("[-] Ошибка запуска плеера: %v", err)
	}
	defer p.Unmount()
	go checkFrameMemory(ctx, src, res, lopts.FrameTimeout)

	if cfg.Watch && cfg.ScenePath != "" {
		w, err := watch.NewWatcher(cfg.ScenePath)
		if err != nil {
			log.Printf("[!] Не удалось следить за сценой: %v", err)
		} else {
			defer w.Close()
			go watchScene(w, game)
		}
	}

	if *baseMonitor {
		if monitors := ebiten.AppendMonitors(nil); len(monitors) > 0 {
			ebiten.SetMonitor(monitors[0])
		} else {
			log.Printf("[!] Мониторы не найдены, используется основной")
		}
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(sc.Content.Brand)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// checkFrameMemory warns when the decoded sequence may not fit in memory. It
// runs beside the player so a slow source never delays the window.
func checkFrameMemory(ctx context.Context, src source.Source, res system.Resources, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, frameProbeTimeout(timeout))
	defer cancel()
	w, h, err := src.FrameDimensions(ctx, 0)
	if err != nil {
		return
	}
	if err := res.CheckFrameMemory(src.FrameCount(), int(w), int(h)); err != nil {
		log.Printf("[!] Предупреждение: %v", err)
	}
}

func frameProbeTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

// loadScene reads -scene, falls back to the newest file in scenes/ and then
// to the built-in scene.
func loadScene(cfg *config.Config) *scene.Scene {
	sc, path, err := scene.Load(cfg.ScenePath, scenesDir)
	if err != nil {
		log.Fatalf("[-] Ошибка чтения сцены: %v", err)
	}
	if path == "" {
		fmt.Println("[*] Сцена не найдена, используется встроенная")
		return sc
	}
	cfg.ScenePath = path

	warnings, err := sc.Validate()
	if err != nil {
		log.Fatalf("[-] Сцена некорректна: %v", err)
	}
	for _, w := range warnings {
		log.Printf("[!] %s", w)
	}
	fmt.Printf("[*] Сцена: %s\n", path)
	return sc
}

// watchScene rebuilds the page and overlays on every scene write. Invalid
// scenes are logged and the running one is kept.
func watchScene(w *watch.Watcher, game *Game) {
	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			sc, err := scene.ReadScene(path)
			if err == nil {
				_, err = sc.Validate()
			}
			if err != nil {
				log.Printf("[!] Сцена не перезагружена: %v", err)
				continue
			}
			drv, err := overlay.NewDriver(sc.Overlays)
			if err != nil {
				log.Printf("[!] Сцена не перезагружена: %v", err)
				continue
			}
			pg, err := page.New(sc.Content, sc.Layout)
			if err != nil {
				log.Printf("[!] Сцена не перезагружена: %v", err)
				continue
			}
			game.Reload(pg, drv)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("[!] Ошибка наблюдения: %v", err)
		}
	}
}
