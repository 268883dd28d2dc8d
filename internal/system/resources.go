package system

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	minFetchers = 4
	maxFetchers = 64
)

// Resources is a snapshot of the host used to size worker pools.
type Resources struct {
	LogicalCPUs    int
	AvailableBytes uint64
}

// Probe reads CPU count and available memory. Missing values stay zero.
func Probe() Resources {
	var r Resources
	if n, err := cpu.Counts(true); err == nil {
		r.LogicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		r.AvailableBytes = vm.Available
	}
	return r
}

// FetchConcurrency picks how many frames to fetch at once: four per logical
// CPU, within [4, 64], never more than the frame count.
func (r Resources) FetchConcurrency(frames int) int {
	n := r.LogicalCPUs * 4
	if n < minFetchers {
		n = minFetchers
	}
	if n > maxFetchers {
		n = maxFetchers
	}
	if frames > 0 && n > frames {
		n = frames
	}
	return n
}

// RenderWorkers is the CPU-bound pool size for exporting.
func (r Resources) RenderWorkers() int {
	if r.LogicalCPUs < 1 {
		return 1
	}
	return r.LogicalCPUs
}

// CheckFrameMemory warns when holding every decoded frame would use more than
// half of the available memory. Decoded frames are kept as 4 bytes per pixel.
func (r Resources) CheckFrameMemory(frames, width, height int) error {
	if r.AvailableBytes == 0 {
		return nil
	}
	need := uint64(frames) * uint64(width) * uint64(height) * 4
	if need > r.AvailableBytes/2 {
		return fmt.Errorf("кадры займут %d МБ при доступных %d МБ", need>>20, r.AvailableBytes>>20)
	}
	return nil
}
