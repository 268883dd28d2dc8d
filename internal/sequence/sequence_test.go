package sequence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSequenceNames(t *testing.T) {
	seq, err := New(Template{Dir: "/headphone-sequence", Prefix: "ezgif-frame", Ext: "jpg"}, 120)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		index int
		want  string
	}{
		{1, "ezgif-frame-001.jpg"},
		{60, "ezgif-frame-060.jpg"},
		{120, "ezgif-frame-120.jpg"},
	}

	for _, tt := range tests {
		if got := seq.Name(tt.index); got != tt.want {
			t.Errorf("Name(%d) = %s, want %s", tt.index, got, tt.want)
		}
	}

	if got := seq.Path(1); got != filepath.Join("/headphone-sequence", "ezgif-frame-001.jpg") {
		t.Errorf("unexpected path: %s", got)
	}
	if seq.Len() != 120 {
		t.Errorf("Expected 120 frames, got %d", seq.Len())
	}
}

func TestSequencePadding(t *testing.T) {
	tests := []struct {
		pad     int
		n       int
		wantErr bool
	}{
		{3, 999, false},
		{3, 1000, true},
		{4, 1000, false},
		{0, 999, false}, // default pad
		{3, 0, true},
	}

	for _, tt := range tests {
		_, err := New(Template{Prefix: "f", Ext: ".png", Pad: tt.pad}, tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("pad=%d n=%d: err=%v, wantErr=%v", tt.pad, tt.n, err, tt.wantErr)
		}
	}

	_, err := New(Template{Prefix: "f", Ext: "png"}, 1000)
	if !errors.Is(err, ErrPadding) {
		t.Errorf("Expected ErrPadding, got %v", err)
	}
}

func TestPathsIsCopy(t *testing.T) {
	seq, err := New(Template{Prefix: "f", Ext: "png"}, 3)
	if err != nil {
		t.Fatal(err)
	}
	paths := seq.Paths()
	paths[0] = "mutated"
	if seq.Paths()[0] == "mutated" {
		t.Error("Paths must not expose internal state")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"shot-01.png", "shot-02.png", "shot-03.png", "notes.txt"} {
		os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644)
	}

	seq, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if seq.Len() != 3 {
		t.Errorf("Expected 3 frames, got %d", seq.Len())
	}
	if tpl := seq.Template(); tpl.Prefix != "shot" || tpl.Pad != 2 || tpl.Ext != "png" {
		t.Errorf("Unexpected template: %+v", tpl)
	}

	os.Remove(filepath.Join(dir, "shot-02.png"))
	if _, err := Discover(dir); !errors.Is(err, ErrGap) {
		t.Errorf("Expected ErrGap, got %v", err)
	}
}
