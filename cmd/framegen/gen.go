package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/framescroll/internal/renderer"
	"github.com/ivlev/framescroll/internal/sequence"
)

// Generator renders a turntable of a headphone silhouette, one full turn
// over the sequence.
type Generator struct {
	Width, Height int
	Workers       int
	Label         bool
}

// Frame draws frame i of n.
func (g *Generator) Frame(i, n int) *image.RGBA {
	s := renderer.NewSurface(renderer.Geometry{Width: g.Width, Height: g.Height, DPR: 1})
	img := s.Image()

	w, h := float64(g.Width), float64(g.Height)
	cx, cy := w/2, h*0.52
	r := math.Min(w, h) * 0.3
	theta := 2 * math.Pi * float64(i) / float64(max(n, 1))
	facing := math.Cos(theta)
	squash := math.Max(math.Abs(facing), 0.12)

	band := color.RGBA{R: 70, G: 70, B: 78, A: 255}
	cupFront := color.RGBA{R: 200, G: 200, B: 210, A: 255}
	cupBack := color.RGBA{R: 120, G: 120, B: 130, A: 255}

	cupRX := r * 0.22 * (0.45 + 0.55*math.Abs(math.Sin(theta)))
	cupRY := r * 0.36
	for y := 0; y < g.Height; y++ {
		fy := float64(y) + 0.5
		for x := 0; x < g.Width; x++ {
			fx := float64(x) + 0.5

			// headband: upper half of a ring squashed by the turn
			dx := (fx - cx) / squash
			dy := fy - cy
			if dy < 0 {
				d := math.Hypot(dx, dy)
				if d > r*0.92 && d < r {
					img.SetRGBA(x, y, band)
				}
			}

			// ear cups sit at the ends of the band
			for side := -1.0; side <= 1; side += 2 {
				ccx := cx + side*r*squash
				ex := (fx - ccx) / cupRX
				ey := (fy - (cy + r*0.1)) / cupRY
				if ex*ex+ey*ey <= 1 {
					c := cupBack
					if side*math.Sin(theta) >= 0 {
						c = cupFront
					}
					img.SetRGBA(x, y, c)
				}
			}
		}
	}

	if g.Label {
		st := renderer.TextStyle{Size: math.Max(h*0.04, 10), Color: renderer.White(0.6), Align: renderer.AlignRight}
		s.DrawText(fmt.Sprintf("%03d", i+1), w-h*0.03, h-h*0.03, st, 1)
	}
	return img
}

// Write renders every frame of seq into its directory.
func (g *Generator) Write(ctx context.Context, seq *sequence.Sequence, onDone func(i int)) error {
	if err := os.MkdirAll(seq.Template().Dir, 0755); err != nil {
		return err
	}
	enc, err := encoderFor(seq.Template().Ext)
	if err != nil {
		return err
	}

	gr, ctx := errgroup.WithContext(ctx)
	gr.SetLimit(max(g.Workers, 1))
	n := seq.Len()
	for i := 0; i < n; i++ {
		index := i
		gr.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img := g.Frame(index, n)
			if err := writeImage(seq.Path(index+1), img, enc); err != nil {
				return fmt.Errorf("кадр %d: %w", index+1, err)
			}
			if onDone != nil {
				onDone(index)
			}
			return nil
		})
	}
	return gr.Wait()
}

type encodeFunc func(io.Writer, image.Image) error

func encoderFor(ext string) (encodeFunc, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
		}, nil
	case "png":
		return png.Encode, nil
	case "bmp":
		return bmp.Encode, nil
	case "tif", "tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	}
	return nil, fmt.Errorf("формат %q не поддерживается для записи", ext)
}

func writeImage(path string, img image.Image, enc encodeFunc) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := enc(f, img); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, filepath.Clean(path))
}
