package source

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"strings"

	"github.com/ivlev/framescroll/internal/sequence"
)

// HTTPSource fetches frames from {baseURL}/{name}, one request per frame.
type HTTPSource struct {
	base   string
	names  []string
	client *http.Client
}

// NewHTTPSource uses http.DefaultClient when client is nil. Per-request deadlines
// come from the caller's context, not from the client.
func NewHTTPSource(baseURL string, seq *sequence.Sequence, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	names := make([]string, seq.Len())
	for i := range names {
		names[i] = seq.Name(i + 1)
	}
	return &HTTPSource{
		base:   strings.TrimSuffix(baseURL, "/"),
		names:  names,
		client: client,
	}
}

func (s *HTTPSource) FrameCount() int {
	return len(s.names)
}

func (s *HTTPSource) URL(index int) string {
	return s.base + "/" + s.names[index]
}

// FrameDimensions reads only the image header of frame index. The request is
// bound to ctx; the client itself has no timeout.
func (s *HTTPSource) FrameDimensions(ctx context.Context, index int) (float64, float64, error) {
	resp, err := s.get(ctx, index)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", s.URL(index), err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

func (s *HTTPSource) LoadFrame(ctx context.Context, index int) (image.Image, error) {
	resp, err := s.get(ctx, index)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.URL(index), err)
	}
	return img, nil
}

func (s *HTTPSource) get(ctx context.Context, index int) (*http.Response, error) {
	if index < 0 || index >= len(s.names) {
		return nil, fmt.Errorf("frame %d out of range", index)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(index), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", s.URL(index), resp.Status)
	}
	return resp, nil
}

func (s *HTTPSource) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
