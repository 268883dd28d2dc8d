package sequence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultPad is the zero padding width of frame indices ("-001").
const DefaultPad = 3

var (
	ErrEmpty   = errors.New("sequence: frame count must be positive")
	ErrPadding = errors.New("sequence: frame count does not fit index padding")
	ErrGap     = errors.New("sequence: frame indices are not contiguous")
)

// Template describes how a frame index becomes a file name:
// {Dir}/{Prefix}-{index:0Pad}.{Ext}
type Template struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Ext    string `yaml:"ext"`
	Pad    int    `yaml:"pad"`
}

// Validate checks that the template can name frames at all.
func (t Template) Validate() error {
	if t.Prefix == "" {
		return fmt.Errorf("sequence: empty prefix")
	}
	if strings.TrimPrefix(t.Ext, ".") == "" {
		return fmt.Errorf("sequence: empty extension")
	}
	if t.Pad < 0 {
		return fmt.Errorf("sequence: negative padding %d", t.Pad)
	}
	return nil
}

func (t Template) pad() int {
	if t.Pad == 0 {
		return DefaultPad
	}
	return t.Pad
}

// MaxFrames returns the largest frame count the padding can express.
func (t Template) MaxFrames() int {
	max := 1
	for i := 0; i < t.pad(); i++ {
		max *= 10
	}
	return max - 1
}

// Sequence is an immutable, gap-free list of frame names indexed from 1.
type Sequence struct {
	tpl   Template
	names []string
}

// New builds a sequence of n frames from the template.
func New(tpl Template, n int) (*Sequence, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, ErrEmpty
	}
	if n > tpl.MaxFrames() {
		return nil, fmt.Errorf("%w: %d frames, pad %d allows %d", ErrPadding, n, tpl.pad(), tpl.MaxFrames())
	}

	ext := strings.TrimPrefix(tpl.Ext, ".")
	names := make([]string, n)
	for i := 1; i <= n; i++ {
		names[i-1] = fmt.Sprintf("%s-%0*d.%s", tpl.Prefix, tpl.pad(), i, ext)
	}
	tpl.Ext = ext
	return &Sequence{tpl: tpl, names: names}, nil
}

func (s *Sequence) Len() int { return len(s.names) }

func (s *Sequence) Template() Template { return s.tpl }

// Name returns the file name of frame i (1-based).
func (s *Sequence) Name(i int) string {
	if i < 1 || i > len(s.names) {
		panic(fmt.Sprintf("sequence: index %d out of range [1,%d]", i, len(s.names)))
	}
	return s.names[i-1]
}

// Path joins Name(i) with the template directory.
func (s *Sequence) Path(i int) string {
	return filepath.Join(s.tpl.Dir, s.Name(i))
}

// Paths returns a copy of all frame paths in order.
func (s *Sequence) Paths() []string {
	paths := make([]string, len(s.names))
	for i := range s.names {
		paths[i] = filepath.Join(s.tpl.Dir, s.names[i])
	}
	return paths
}

var framePattern = regexp.MustCompile(`^(.+)-(\d+)\.([A-Za-z0-9]+)$`)

// Discover inspects dir and infers the template and frame count from files named
// prefix-NNN.ext. All matching files must share prefix, extension and padding,
// and indices must run from 1 without gaps.
func Discover(dir string) (*Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var tpl Template
	var indices []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := framePattern.FindStringSubmatch(entry.Name())
		if m == nil || !isImageExt(m[3]) {
			continue
		}
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if len(indices) == 0 {
			tpl = Template{Dir: dir, Prefix: m[1], Ext: m[3], Pad: len(m[2])}
		} else if m[1] != tpl.Prefix || m[3] != tpl.Ext || len(m[2]) != tpl.Pad {
			return nil, fmt.Errorf("sequence: mixed frame names in %s (%s)", dir, entry.Name())
		}
		indices = append(indices, idx)
	}

	if len(indices) == 0 {
		return nil, fmt.Errorf("sequence: no frames found in %s", dir)
	}

	sort.Ints(indices)
	for i, idx := range indices {
		if idx != i+1 {
			return nil, fmt.Errorf("%w: expected frame %d, found %d", ErrGap, i+1, idx)
		}
	}

	return New(tpl, len(indices))
}

func isImageExt(ext string) bool {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg", "png", "webp", "bmp", "tif", "tiff":
		return true
	}
	return false
}
