package source

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ivlev/framescroll/internal/sequence"
)

// SequenceSource decodes frames from files named by a sequence.
type SequenceSource struct {
	paths []string
}

func NewSequenceSource(seq *sequence.Sequence) *SequenceSource {
	return &SequenceSource{paths: seq.Paths()}
}

func (s *SequenceSource) FrameCount() int {
	return len(s.paths)
}

func (s *SequenceSource) FrameDimensions(ctx context.Context, index int) (float64, float64, error) {
	if index < 0 || index >= len(s.paths) {
		return 0, 0, fmt.Errorf("frame %d out of range", index)
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	f, err := os.Open(s.paths[index])
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

func (s *SequenceSource) LoadFrame(ctx context.Context, index int) (image.Image, error) {
	if index < 0 || index >= len(s.paths) {
		return nil, fmt.Errorf("frame %d out of range", index)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.paths[index], err)
	}
	return img, nil
}

func (s *SequenceSource) Close() error {
	return nil
}
