package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/framescroll/internal/config"
	"github.com/ivlev/framescroll/internal/engine"
	"github.com/ivlev/framescroll/internal/loader"
	"github.com/ivlev/framescroll/internal/overlay"
	"github.com/ivlev/framescroll/internal/scene"
	"github.com/ivlev/framescroll/internal/source"
	"github.com/ivlev/framescroll/internal/system"
	"github.com/ivlev/framescroll/internal/video"
)

const scenesDir = "scenes"

var BuildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits(8192)

	for _, d := range []string{"input/audio", "output"} {
		os.MkdirAll(d, 0755)
	}

	res := system.Probe()

	scenePtr := flag.String("scene", "", "Путь к YAML сцене (по умолчанию последняя в scenes/)")
	framesPtr := flag.String("frames", "", "Каталог, URL или PDF с кадрами (переопределяет сцену)")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	durationPtr := flag.Float64("duration", 8, "Длительность прокрутки героя в секундах")
	fpsPtr := flag.Int("fps", 30, "FPS")
	widthPtr := flag.Int("width", 1280, "Ширина")
	heightPtr := flag.Int("height", 720, "Высота")
	dprPtr := flag.Float64("dpr", 1, "Плотность пикселей")
	workersPtr := flag.Int("workers", res.RenderWorkers(), "Потоки")
	fadePtr := flag.Float64("fade", 0, "Затухание звука в начале и конце (сек)")
	easePtr := flag.String("ease", "linear", "Сглаживание прокрутки: linear, ease")
	audioPtr := flag.String("audio", "", "Путь к аудио (по умолчанию: самый свежий файл в input/audio/)")
	audioSyncPtr := flag.Bool("audio-sync", true, "Синхронизировать длительность видео с аудио")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	statsPtr := flag.Bool("stats", false, "Записать отчет производительности в benchmark.log")
	flag.Parse()

	sc, scenePath, err := scene.Load(*scenePtr, scenesDir)
	if err != nil {
		log.Fatalf("[-] Ошибка чтения сцены: %v", err)
	}
	if scenePath != "" {
		fmt.Printf("[*] Сцена: %s\n", scenePath)
	}
	if *framesPtr != "" {
		sc.Sequence.Location = *framesPtr
	}
	warnings, err := sc.Validate()
	if err != nil {
		log.Fatalf("[-] Сцена некорректна: %v", err)
	}
	for _, w := range warnings {
		log.Printf("[!] %s", w)
	}

	totalDuration := *durationPtr

	audioPath := *audioPtr
	if audioPath != "" && !system.IsAudioFile(audioPath) {
		log.Printf("[!] Неизвестный формат аудио: %s", audioPath)
	}
	if audioPath == "" {
		latest, err := system.FindLatestAudio("input/audio")
		if err == nil {
			audioPath = latest
			fmt.Printf("[*] Выбрано аудио: %s\n", audioPath)
		}
	}
	if audioPath != "" && *audioSyncPtr {
		audioDur, err := system.GetAudioDuration(audioPath)
		if err == nil {
			totalDuration = audioDur
			fmt.Printf("[*] Длительность видео установлена по аудио: %.2fs\n", totalDuration)
		} else {
			log.Printf("[!] Не удалось получить длительность аудио: %v", err)
		}
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		nameSource := sc.Content.Brand
		if audioPath != "" {
			nameSource = strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
		}
		cleanName := strings.ReplaceAll(nameSource, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
	}

	encoderName, _ := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
	}
	quality := *qualityPtr
	if quality == 0 {
		switch encoderName {
		case "h264_videotoolbox":
			quality = 75
		case "h264_nvenc":
			quality = 28
		default:
			quality = 23
		}
	}

	cfg := &config.Config{
		ScenePath:    scenePath,
		FramesPath:   sc.Sequence.Location,
		Width:        *widthPtr,
		Height:       *heightPtr,
		DPR:          *dprPtr,
		OutputVideo:  finalOutput,
		Duration:     totalDuration,
		FPS:          *fpsPtr,
		Workers:      *workersPtr,
		FadeDuration: *fadePtr,
		Ease:         *easePtr,
		AudioPath:    audioPath,
		VideoEncoder: encoderName,
		Quality:      quality,
		ShowStats:    *statsPtr,
		BuildVersion: BuildVersion,
	}
	if err := cfg.ValidateExport(); err != nil {
		log.Fatalf("[-] Некорректные параметры: %v", err)
	}

	drv, err := overlay.NewDriver(sc.Overlays)
	if err != nil {
		log.Fatalf("[-] Ошибка оверлеев: %v", err)
	}

	src, err := source.Open(sc.Sequence.Location, sc.Template(), sc.Sequence.Count, sc.Sequence.DPI)
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации источника: %v", err)
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frames, err := loadFrames(ctx, src, sc, res)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки кадров: %v", err)
	}

	exp := engine.NewExporter(cfg, frames, drv, &video.FFmpegEncoder{})
	if _, err := exp.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка экспорта: %v", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputVideo)
}

// loadFrames fetches the whole sequence before rendering starts. A degraded
// load is accepted and reported.
func loadFrames(ctx context.Context, src source.Source, sc *scene.Scene, res system.Resources) (*loader.Loader, error) {
	total := src.FrameCount()
	if total == 0 {
		return nil, loader.ErrNoFrames
	}
	fmt.Printf("[*] Кадры: %s | Всего: %d\n", sc.Sequence.Location, total)

	opts := sc.LoaderOptions()
	if opts.Concurrency == 0 {
		opts.Concurrency = res.FetchConcurrency(total)
	}
	if w, h, err := frameSize(ctx, src, opts.FrameTimeout); err == nil {
		if err := res.CheckFrameMemory(total, int(w), int(h)); err != nil {
			log.Printf("[!] Предупреждение: %v", err)
		}
	} else {
		log.Printf("[!] Размер кадра не определен: %v", err)
	}
	step := total / 10
	if step < 1 {
		step = 1
	}
	opts.OnProgress = func(loaded, total int) {
		if loaded%step == 0 || loaded == total {
			fmt.Printf("[>] Загружено: %d/%d\n", loaded, total)
		}
	}

	l := loader.New(src, opts)
	if err := l.Load(ctx); err != nil && !l.Ready() {
		return nil, err
	}
	if l.Status() == loader.Degraded {
		_, failed, _ := l.Counts()
		log.Printf("[!] Не загружено кадров: %d, используются соседние", failed)
		for _, fe := range l.Errors() {
			log.Printf("[!] %v", fe)
		}
	}
	return l, nil
}

// frameSize reads the first frame's size within the per-frame timeout.
func frameSize(ctx context.Context, src source.Source, timeout time.Duration) (float64, float64, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return src.FrameDimensions(ctx, 0)
}
