package source

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"

	"github.com/ivlev/framescroll/internal/sequence"
)

// Source fetches decoded frames by 0-based index. Implementations must be safe
// for concurrent LoadFrame calls.
type Source interface {
	FrameCount() int
	FrameDimensions(ctx context.Context, index int) (width, height float64, err error)
	LoadFrame(ctx context.Context, index int) (image.Image, error)
	Close() error
}

// Open picks a Source for location: an http(s) base URL, a PDF document, or a
// directory holding a frame sequence. tpl and count describe the sequence for the
// URL case and, when count > 0, for the directory case; otherwise the directory
// is scanned with sequence.Discover.
func Open(location string, tpl sequence.Template, count, dpi int) (Source, error) {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		tpl.Dir = ""
		seq, err := sequence.New(tpl, count)
		if err != nil {
			return nil, err
		}
		return NewHTTPSource(location, seq, nil), nil
	case strings.HasSuffix(lower, ".pdf"):
		return NewFitzPDFSource(location, dpi)
	}

	var seq *sequence.Sequence
	var err error
	if count > 0 {
		tpl.Dir = location
		seq, err = sequence.New(tpl, count)
	} else {
		seq, err = sequence.Discover(location)
	}
	if err != nil {
		return nil, err
	}
	return NewSequenceSource(seq), nil
}

// FitzPDFSource treats every page of a PDF as one frame.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
	// fitz documents are not safe for concurrent use
	mu sync.Mutex
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) FrameCount() int {
	return f.doc.NumPage()
}

// FrameDimensions reports the rendered size in pixels: the page bound is in
// 72 dpi points and frames are rendered at f.dpi.
func (f *FitzPDFSource) FrameDimensions(ctx context.Context, index int) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return pixelSize(float64(rect.Dx()), float64(rect.Dy()), f.dpi)
}

func pixelSize(w, h float64, dpi int) (float64, float64, error) {
	scale := float64(dpi) / 72
	return w * scale, h * scale, nil
}

func (f *FitzPDFSource) LoadFrame(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Separate document per call so parallel loads don't serialise on mu.
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	img, err := workerDoc.ImageDPI(index, float64(f.dpi))
	if err != nil {
		return nil, fmt.Errorf("pdf page %d: %w", index+1, err)
	}
	return img, nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
