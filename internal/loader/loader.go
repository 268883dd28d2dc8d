// Package loader preloads every frame of a sequence in parallel and tracks the
// aggregate "ready" state the player waits on.
package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/framescroll/internal/source"
)

// DefaultConcurrency caps parallel fetches when Options.Concurrency is unset.
const DefaultConcurrency = 16

var (
	ErrNoFrames   = errors.New("loader: source has no frames")
	ErrIncomplete = errors.New("loader: not enough frames loaded")
	ErrNotReady   = errors.New("loader: frames not ready")
)

// Status is the aggregate load state. It leaves Loading exactly once.
type Status int

const (
	Loading Status = iota
	// Ready: every frame loaded.
	Ready
	// Degraded: the deadline passed or some frames failed, but at least
	// MinReady frames loaded. Missing frames resolve to a loaded neighbour.
	Degraded
	// Failed: fewer than MinReady frames loaded.
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Degraded:
		return "degraded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// IsReady reports whether frames can be painted.
func (s Status) IsReady() bool { return s == Ready || s == Degraded }

// FrameError records why one frame did not load.
type FrameError struct {
	Index int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Index+1, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }

// ProgressFunc reports load progress: called after every finished fetch,
// successful or not, from loader goroutines.
type ProgressFunc func(loaded, total int)

type Options struct {
	// Concurrency caps simultaneous fetches.
	Concurrency int
	// FrameTimeout bounds a single fetch. Zero means no per-frame limit.
	FrameTimeout time.Duration
	// Timeout bounds the whole load. Zero means no deadline.
	Timeout time.Duration
	// MinReady is the number of loaded frames that allows a degraded start.
	// Zero or anything above the frame count requires every frame.
	MinReady int

	OnProgress ProgressFunc
	// OnReady is called once, when Status leaves Loading.
	OnReady func(Status)
}

// Loader fetches all frames of a source. Create one per mount.
type Loader struct {
	src  source.Source
	opts Options

	mu     sync.RWMutex
	frames []image.Image
	errs   map[int]error
	loaded int
	status Status
	err    error

	done chan struct{}
	once sync.Once
}

func New(src source.Source, opts Options) *Loader {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	n := src.FrameCount()
	if opts.MinReady <= 0 || opts.MinReady > n {
		opts.MinReady = n
	}
	return &Loader{
		src:    src,
		opts:   opts,
		frames: make([]image.Image, n),
		errs:   make(map[int]error),
		done:   make(chan struct{}),
	}
}

// Load issues every fetch and returns once the status is settled: nil for
// Ready and Degraded, an error for Failed. Fetches still running after a
// degraded start keep filling in frames until ctx is cancelled.
func (l *Loader) Load(ctx context.Context) error {
	total := len(l.frames)
	if total == 0 {
		l.finish(Failed, ErrNoFrames)
		return ErrNoFrames
	}

	loadCtx, cancel := context.WithCancel(ctx)
	deadline := (<-chan time.Time)(nil)
	if l.opts.Timeout > 0 {
		timer := time.NewTimer(l.opts.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	var g errgroup.Group
	g.SetLimit(l.opts.Concurrency)

	allDone := make(chan struct{})
	go func() {
		defer close(allDone)
		for i := 0; i < total; i++ {
			if loadCtx.Err() != nil {
				break
			}
			index := i
			g.Go(func() error {
				l.fetch(loadCtx, index)
				return nil
			})
		}
		g.Wait()
	}()

	select {
	case <-allDone:
		cancel()
		l.settle(nil)
	case <-deadline:
		l.settle(fmt.Errorf("timed out after %s", l.opts.Timeout))
		if l.Status() == Failed {
			cancel()
			break
		}
		// Degraded loads keep fetching; stragglers stop when ctx ends.
		go func() {
			<-allDone
			cancel()
		}()
	case <-ctx.Done():
		cancel()
		l.finish(Failed, ctx.Err())
	case <-l.done:
		// every frame arrived; the group is draining
		cancel()
		<-allDone
	}

	return l.Err()
}

// fetch loads one frame, enforcing FrameTimeout even when the source ignores
// its context.
func (l *Loader) fetch(ctx context.Context, index int) {
	fctx := ctx
	if l.opts.FrameTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, l.opts.FrameTimeout)
		defer cancel()
	}

	type result struct {
		img image.Image
		err error
	}
	ch := make(chan result, 1)
	go func() {
		img, err := l.src.LoadFrame(fctx, index)
		ch <- result{img, err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-fctx.Done():
		res.err = fctx.Err()
	}
	if res.err == nil && res.img == nil {
		res.err = errors.New("source returned no image")
	}
	l.record(index, res.img, res.err)
}

func (l *Loader) record(index int, img image.Image, err error) {
	l.mu.Lock()
	if err != nil {
		l.errs[index] = err
	} else if l.frames[index] == nil {
		l.frames[index] = img
		delete(l.errs, index)
		l.loaded++
	}
	loaded, total := l.loaded, len(l.frames)
	l.mu.Unlock()

	if l.opts.OnProgress != nil {
		l.opts.OnProgress(loaded, total)
	}
	if loaded == total {
		l.finish(Ready, nil)
	}
}

// settle decides between Ready, Degraded and Failed once fetching stops or the
// deadline passes.
func (l *Loader) settle(cause error) {
	l.mu.RLock()
	loaded, total := l.loaded, len(l.frames)
	errs := l.frameErrorsLocked()
	l.mu.RUnlock()

	switch {
	case loaded == total:
		l.finish(Ready, nil)
	case loaded >= l.opts.MinReady:
		l.finish(Degraded, nil)
	default:
		all := make([]error, 0, len(errs)+1)
		if cause != nil {
			all = append(all, cause)
		}
		for _, fe := range errs {
			all = append(all, fe)
		}
		l.finish(Failed, fmt.Errorf("%w: %d/%d (need %d): %w",
			ErrIncomplete, loaded, total, l.opts.MinReady, errors.Join(all...)))
	}
}

func (l *Loader) finish(status Status, err error) {
	l.once.Do(func() {
		l.mu.Lock()
		l.status = status
		l.err = err
		l.mu.Unlock()
		close(l.done)
		if l.opts.OnReady != nil {
			l.opts.OnReady(status)
		}
	})
}

// Done is closed when the status leaves Loading.
func (l *Loader) Done() <-chan struct{} { return l.done }

func (l *Loader) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.status
}

func (l *Loader) Ready() bool { return l.Status().IsReady() }

// Err is non-nil only for Failed.
func (l *Loader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Counts returns loaded and failed frame counts and the total.
func (l *Loader) Counts() (loaded, failed, total int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded, len(l.errs), len(l.frames)
}

// Len is the sequence length.
func (l *Loader) Len() int { return len(l.frames) }

// Errors lists per-frame failures ordered by index.
func (l *Loader) Errors() []*FrameError {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frameErrorsLocked()
}

func (l *Loader) frameErrorsLocked() []*FrameError {
	out := make([]*FrameError, 0, len(l.errs))
	for i, err := range l.errs {
		out = append(out, &FrameError{Index: i, Err: err})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Index < out[b].Index })
	return out
}

// Frame returns frame index, or the nearest loaded neighbour (earlier frames
// first) when it is missing. The second result is the index actually returned.
func (l *Loader) Frame(index int) (image.Image, int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.status.IsReady() {
		return nil, -1, ErrNotReady
	}
	n := len(l.frames)
	if index < 0 {
		index = 0
	}
	if index >= n {
		index = n - 1
	}
	for d := 0; d < n; d++ {
		if i := index - d; i >= 0 && l.frames[i] != nil {
			return l.frames[i], i, nil
		}
		if i := index + d; i < n && l.frames[i] != nil {
			return l.frames[i], i, nil
		}
	}
	return nil, -1, ErrNotReady
}
