package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFetchConcurrency(t *testing.T) {
	tests := []struct {
		cpus, frames, want int
	}{
		{0, 120, 4},
		{1, 120, 4},
		{4, 120, 16},
		{32, 120, 64},
		{8, 10, 10},
		{8, 0, 32},
	}
	for _, tt := range tests {
		r := Resources{LogicalCPUs: tt.cpus}
		if got := r.FetchConcurrency(tt.frames); got != tt.want {
			t.Errorf("FetchConcurrency(cpus=%d, frames=%d) = %d, want %d", tt.cpus, tt.frames, got, tt.want)
		}
	}
}

func TestCheckFrameMemory(t *testing.T) {
	r := Resources{AvailableBytes: 1 << 30}
	if err := r.CheckFrameMemory(120, 640, 360); err != nil {
		t.Errorf("Small sequence rejected: %v", err)
	}
	if err := r.CheckFrameMemory(120, 3840, 2160); err == nil {
		t.Error("Expected warning for 4K frames in 1GB")
	}
	if err := (Resources{}).CheckFrameMemory(1e6, 1e4, 1e4); err != nil {
		t.Error("Unknown memory should not warn")
	}
}

func TestFindLatestAudio(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.mp3", "b.wav", "cover.jpg"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
		mod := time.Now().Add(time.Duration(i) * time.Minute)
		os.Chtimes(path, mod, mod)
	}

	got, err := FindLatestAudio(dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "b.wav" {
		t.Errorf("Expected b.wav, got %s", got)
	}

	if _, err := FindLatestAudio(t.TempDir()); err == nil {
		t.Error("Expected error for dir without audio")
	}
	if !IsAudioFile("track.FLAC") || IsAudioFile("frame.png") {
		t.Error("IsAudioFile misclassifies")
	}
}

func TestImagePoolReuse(t *testing.T) {
	rect := image.Rect(0, 0, 8, 8)
	img := GetImage(rect)
	if img.Rect != rect {
		t.Fatalf("Unexpected rect %v", img.Rect)
	}
	PutImage(img)
	PutImage(nil)

	other := GetImage(image.Rect(0, 0, 4, 4))
	if other.Rect.Dx() != 4 {
		t.Error("Pool returned image of wrong size")
	}
}
