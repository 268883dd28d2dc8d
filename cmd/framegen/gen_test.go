package main

import (
	"context"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/framescroll/internal/sequence"
)

func TestGeneratorFramesDiffer(t *testing.T) {
	g := &Generator{Width: 64, Height: 36}
	a := g.Frame(0, 8)
	b := g.Frame(2, 8)
	if a.Rect.Dx() != 64 || a.Rect.Dy() != 36 {
		t.Fatalf("Frame size = %v", a.Rect)
	}
	same := true
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Frames at different angles should differ")
	}
}

func TestGeneratorWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "seq")
	seq, err := sequence.New(sequence.Template{Dir: dir, Prefix: "shot", Ext: "png", Pad: 2}, 5)
	if err != nil {
		t.Fatal(err)
	}

	g := &Generator{Width: 32, Height: 18, Workers: 2}
	var written int
	done := make(chan int, 5)
	if err := g.Write(context.Background(), seq, func(i int) { done <- i }); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	close(done)
	for range done {
		written++
	}
	if written != 5 {
		t.Errorf("onDone called %d times, want 5", written)
	}

	f, err := os.Open(filepath.Join(dir, "shot-03.png"))
	if err != nil {
		t.Fatalf("Frame missing: %v", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 32 || cfg.Height != 18 {
		t.Errorf("Frame size = %dx%d", cfg.Width, cfg.Height)
	}

	found, err := sequence.Discover(dir)
	if err != nil || found.Len() != 5 {
		t.Errorf("Discover = %v, %v", found, err)
	}
}

func TestEncoderFor(t *testing.T) {
	for _, ext := range []string{"jpg", ".png", "bmp", "TIFF"} {
		if _, err := encoderFor(ext); err != nil {
			t.Errorf("encoderFor(%q): %v", ext, err)
		}
	}
	if _, err := encoderFor("webp"); err == nil {
		t.Error("webp should not be writable")
	}
}
