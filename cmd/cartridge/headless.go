package main

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/cartridge-host/audio"
	"github.com/wippyai/cartridge-host/gpu"
	"github.com/wippyai/cartridge-host/machine"
)

// frameTime is the simulated tick length of a headless run.
const frameTime = time.Second / 60

// virtualClock advances only when told to, so headless runs are
// reproducible and not tied to wall time.
type virtualClock struct {
	now time.Time
	mu  sync.Mutex
}

func newVirtualClock(start time.Time) *virtualClock {
	return &virtualClock{now: start.Round(0)}
}

func (c *virtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *virtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// headless runs a started machine without a window.
type headless struct {
	m     *machine.Machine
	clock *virtualClock
	rec   *audio.Recorder
	log   *zap.Logger
}

// step runs one frame and advances simulated time.
func (h *headless) step(ctx context.Context) error {
	h.clock.Advance(frameTime)
	if err := h.m.Frame(ctx, gpu.Discard); err != nil {
		return err
	}
	if h.rec != nil {
		h.rec.Advance(frameTime)
	}
	return nil
}

// run steps frames times, or until ctx is done when frames is 0.
func (h *headless) run(ctx context.Context, frames int) error {
	for i := 0; frames == 0 || i < frames; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := h.step(ctx); err != nil {
			return err
		}
	}

	s := h.m.Stats()
	h.log.Info("headless run finished",
		zap.Uint64("frames", s.Frames),
		zap.Int("draw_calls", s.GPU.DrawCalls),
		zap.Int("textures", s.Textures),
		zap.Int("meshes", s.Meshes))
	return nil
}
