package engine

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/framescroll/internal/config"
	"github.com/ivlev/framescroll/internal/loader"
)

type staticFrames []image.Image

func (s staticFrames) Len() int { return len(s) }

func (s staticFrames) Frame(i int) (image.Image, int, error) {
	if len(s) == 0 {
		return nil, -1, loader.ErrNotReady
	}
	return s[i], i, nil
}

func solidFrames(n int) staticFrames {
	frames := make(staticFrames, n)
	for i := range frames {
		img := image.NewRGBA(image.Rect(0, 0, 16, 9))
		for p := 0; p < len(img.Pix); p += 4 {
			img.Pix[p], img.Pix[p+3] = uint8(10*(i+1)), 255
		}
		frames[i] = img
	}
	return frames
}

// recordingEncoder keeps the red value of every frame's first pixel.
type recordingEncoder struct {
	reds   []uint8
	params config.StreamParams
	fail   error
}

func (r *recordingEncoder) EncodeStream(ctx context.Context, frames <-chan *image.RGBA, path string, params config.StreamParams) error {
	r.params = params
	if r.fail != nil {
		return r.fail
	}
	for img := range frames {
		r.reds = append(r.reds, img.Pix[0])
	}
	return nil
}

func newConfig() *config.Config {
	return &config.Config{
		Width:       32,
		Height:      18,
		DPR:         1,
		Duration:    1,
		FPS:         10,
		Workers:     3,
		OutputVideo: "out.mp4",
	}
}

func TestExportOrder(t *testing.T) {
	enc := &recordingEncoder{}
	e := NewExporter(newConfig(), solidFrames(4), nil, enc)
	e.LogPath = ""

	stats, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Frames != 10 {
		t.Errorf("Frames = %d", stats.Frames)
	}

	// progress k/9 over 4 frames
	want := []uint8{10, 10, 10, 20, 20, 30, 30, 40, 40, 40}
	if len(enc.reds) != len(want) {
		t.Fatalf("Encoded %d frames, want %d", len(enc.reds), len(want))
	}
	for i := range want {
		if enc.reds[i] != want[i] {
			t.Errorf("Frame %d red = %d, want %d", i, enc.reds[i], want[i])
		}
	}
	if enc.params.Width != 32 || enc.params.Height != 18 || enc.params.Duration != 1 {
		t.Errorf("Unexpected stream params %+v", enc.params)
	}
}

func TestExportNotReady(t *testing.T) {
	e := NewExporter(newConfig(), staticFrames(nil), nil, &recordingEncoder{})
	if _, err := e.Run(context.Background()); !errors.Is(err, loader.ErrNotReady) {
		t.Errorf("Expected ErrNotReady, got %v", err)
	}
}

func TestExportEncoderFailure(t *testing.T) {
	boom := errors.New("ffmpeg missing")
	e := NewExporter(newConfig(), solidFrames(2), nil, &recordingEncoder{fail: boom})
	if _, err := e.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected encoder error, got %v", err)
	}
}

func TestProgressAt(t *testing.T) {
	cfg := newConfig()
	e := NewExporter(cfg, solidFrames(1), nil, nil)

	if e.ProgressAt(0) != 0 || e.ProgressAt(9) != 1 {
		t.Error("Progress must span [0,1]")
	}
	linear := e.ProgressAt(2)

	cfg.Ease = "ease"
	if eased := e.ProgressAt(2); eased >= linear {
		t.Errorf("Ease should start slower: %v vs %v", eased, linear)
	}
	if e.ProgressAt(9) != 1 {
		t.Error("Eased progress must end at 1")
	}

	cfg.Duration = 0
	if e.FrameCount() != 1 || e.ProgressAt(0) != 0 {
		t.Error("Zero duration should yield one frame")
	}
}

func TestGeometryEven(t *testing.T) {
	cfg := newConfig()
	cfg.Width, cfg.Height, cfg.DPR = 641, 361, 1
	w, h := NewExporter(cfg, nil, nil, nil).Geometry().BackingSize()
	if w%2 != 0 || h%2 != 0 {
		t.Errorf("Backing size %dx%d is not even", w, h)
	}

	cfg.Width, cfg.Height, cfg.DPR = 640, 360, 2
	g := NewExporter(cfg, nil, nil, nil).Geometry()
	if w, h := g.BackingSize(); w != 1280 || h != 720 || g.Width != 640 {
		t.Errorf("Unexpected geometry %+v", g)
	}
}

func TestReportWritesBenchmarkLog(t *testing.T) {
	cfg := newConfig()
	cfg.ShowStats = true
	cfg.ScenePath = "scenes/zenith.yaml"
	e := NewExporter(cfg, solidFrames(2), nil, &recordingEncoder{})
	e.LogPath = filepath.Join(t.TempDir(), "benchmark.log")

	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(e.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Scene: zenith.yaml | Frames: 10") {
		t.Errorf("Unexpected log line %q", data)
	}
}
