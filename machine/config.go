package machine

import (
	"time"

	"github.com/wippyai/cartridge-host/audio"
	"github.com/wippyai/cartridge-host/caps"
	"github.com/wippyai/cartridge-host/gpu"
	"github.com/wippyai/cartridge-host/runtime"
	"github.com/wippyai/cartridge-host/storage"
)

// Config holds machine configuration.
type Config struct {
	Runtime runtime.Config
	GPU     gpu.Config

	// Surface size reported to the guest and read back by Framebuffer.
	ScreenWidth  uint32
	ScreenHeight uint32

	// StoragePath is loaded on New and written on Close.
	// Empty keeps storage in memory only.
	StoragePath string
	StorageSize int

	MaxSounds  int
	SampleRate int

	// StrictProtocol traps the guest when a gpu submission fails to decode.
	// Otherwise the submission is dropped and logged.
	StrictProtocol bool

	// Clock is the time source for update timestamps and the system clock.
	// nil means time.Now.
	Clock func() time.Time
}

// DefaultConfig returns the default machine configuration.
func DefaultConfig() Config {
	return Config{
		Runtime:        runtime.DefaultConfig(),
		GPU:            gpu.DefaultConfig(),
		ScreenWidth:    caps.DefaultWidth,
		ScreenHeight:   caps.DefaultHeight,
		StoragePath:    storage.DefaultFile,
		StorageSize:    storage.DefaultSize,
		MaxSounds:      audio.DefaultMaxSounds,
		SampleRate:     audio.DefaultSampleRate,
		StrictProtocol: true,
		Clock:          time.Now,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ScreenWidth == 0 || c.ScreenHeight == 0 {
		c.ScreenWidth, c.ScreenHeight = d.ScreenWidth, d.ScreenHeight
	}
	if c.StorageSize <= 0 {
		c.StorageSize = d.StorageSize
	}
	if c.MaxSounds <= 0 {
		c.MaxSounds = d.MaxSounds
	}
	if c.SampleRate <= 0 {
		c.SampleRate = d.SampleRate
	}
	if c.Clock == nil {
		c.Clock = d.Clock
	}
	return c
}
