package machine

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/cartridge-host/audio"
	"github.com/wippyai/cartridge-host/caps"
	"github.com/wippyai/cartridge-host/errors"
	"github.com/wippyai/cartridge-host/gpu"
	"github.com/wippyai/cartridge-host/input"
	"github.com/wippyai/cartridge-host/profiler"
	"github.com/wippyai/cartridge-host/runtime"
	"github.com/wippyai/cartridge-host/storage"
)

// Devices are the peripherals a machine talks to. Nil fields get headless
// defaults: silent audio, an idle input.State and the package logger.
type Devices struct {
	Audio   audio.Backend
	Input   input.Source
	Console *zap.Logger
}

// Stats describes the machine after the last frame.
type Stats struct {
	Frames      uint64
	GPU         gpu.Stats
	Textures    int
	Meshes      int
	Sounds      int
	MemoryBytes uint32
	Profile     []profiler.Average
}

// Machine is one cartridge with everything it can reach: the guest runtime,
// the capability hosts and the state behind them. Load, Start and Frame are
// called from a single goroutine.
type Machine struct {
	cfg      Config
	rt       *runtime.Runtime
	textures *gpu.TextureRegistry
	meshes   *gpu.MeshRegistry
	renderer *gpu.Renderer
	camera   *gpu.Camera
	store    *storage.Store
	sounds   *audio.Manager
	input    input.Source
	prof     *profiler.Profiler
	epoch    time.Time
	last     int64
	frames   uint64
	started  bool
}

// New builds a machine and registers every capability namespace. Storage
// is loaded from cfg.StoragePath when set.
func New(ctx context.Context, cfg Config, dev Devices) (*Machine, error) {
	cfg = cfg.withDefaults()
	if dev.Audio == nil {
		dev.Audio = audio.Nop{}
	}
	if dev.Input == nil {
		dev.Input = input.NewState()
	}

	store := storage.New(cfg.StorageSize)
	if cfg.StoragePath != "" {
		if err := store.Load(cfg.StoragePath); err != nil {
			return nil, err
		}
	}

	rt, err := runtime.New(ctx, cfg.Runtime)
	if err != nil {
		return nil, err
	}

	textures := gpu.NewTextureRegistry()
	meshes := gpu.NewMeshRegistry()
	m := &Machine{
		cfg:      cfg,
		rt:       rt,
		textures: textures,
		meshes:   meshes,
		renderer: gpu.NewRenderer(cfg.GPU, textures, meshes),
		camera:   &gpu.Camera{},
		store:    store,
		sounds:   audio.NewManager(dev.Audio, cfg.MaxSounds, cfg.SampleRate),
		input:    dev.Input,
		prof:     profiler.NewWithClock(cfg.Clock),
	}

	hosts := []runtime.Host{
		caps.NewConsoleHost(dev.Console),
		caps.NewMemoryHost(),
		caps.NewFramebufferHost(cfg.ScreenWidth, cfg.ScreenHeight),
		caps.NewSystemHost(cfg.Clock),
		caps.NewInputHost(m.input),
		caps.NewStorageHost(m.store),
		caps.NewAudioHost(m.sounds),
		caps.NewGPUHost(m.renderer, m.camera, cfg.StrictProtocol),
	}
	for _, h := range hosts {
		if err := rt.RegisterHost(h); err != nil {
			_ = rt.Close(ctx)
			return nil, err
		}
	}
	return m, nil
}

// Load compiles and instantiates the cartridge.
func (m *Machine) Load(ctx context.Context, wasm []byte) error {
	return m.rt.Load(ctx, wasm)
}

// Start runs the cartridge's main entry point. It may be called once.
// Commands submitted during main are executed before Start returns; their
// draws are discarded since no frame is on screen yet, so the first Frame
// starts with an empty queue.
func (m *Machine) Start(ctx context.Context) error {
	if m.started {
		return errors.InvalidInput(errors.PhaseRuntime, "main already called")
	}
	m.started = true
	m.epoch = m.cfg.Clock()

	m.prof.Push("main")
	defer m.prof.Pop()
	if err := m.rt.Main(ctx); err != nil {
		return err
	}
	if err := m.renderer.Execute(gpu.Discard); err != nil {
		return err
	}
	st := m.renderer.Stats()
	Logger().Info("cartridge started",
		zap.Int("commands", st.Commands),
		zap.Int("textures", m.textures.Len()),
		zap.Int("meshes", m.meshes.Len()))
	return nil
}

// Frame runs one tick: the guest update, then the queued gpu commands into
// d, then audio and input bookkeeping. A returned error is fatal.
func (m *Machine) Frame(ctx context.Context, d gpu.Drawer) error {
	if !m.started {
		return errors.NotInitialized(errors.PhaseRuntime, "machine not started")
	}

	m.prof.Push("frame")
	defer m.prof.Pop()

	m.prof.Push("update")
	err := m.rt.Update(ctx, m.timestamp())
	m.prof.Pop()
	if err != nil {
		return err
	}

	m.prof.Push("execute")
	err = m.renderer.Execute(d)
	m.prof.Pop()
	if err != nil {
		return err
	}

	m.sounds.Update()
	m.input.EndFrame()
	m.frames++
	return nil
}

// timestamp returns Unix nanoseconds taken from the clock's monotonic
// reading since Start, strictly increasing across calls.
func (m *Machine) timestamp() int64 {
	now := m.epoch.UnixNano() + m.cfg.Clock().Sub(m.epoch).Nanoseconds()
	if now <= m.last {
		now = m.last + 1
	}
	m.last = now
	return now
}

// Framebuffer copies the guest framebuffer into dst, which must hold
// ScreenWidth*ScreenHeight*4 bytes of RGBA.
func (m *Machine) Framebuffer(ctx context.Context, dst []byte) error {
	size := m.cfg.ScreenWidth * m.cfg.ScreenHeight * 4
	if uint64(len(dst)) < uint64(size) {
		return errors.InvalidInput(errors.PhaseRuntime, "framebuffer destination too small")
	}
	ptr, err := m.rt.Framebuffer(ctx)
	if err != nil {
		return err
	}
	src, err := m.rt.View().Read(ptr, size)
	if err != nil {
		return err
	}
	copy(dst, src)
	return nil
}

// Camera returns the guest-controlled camera.
func (m *Machine) Camera() *gpu.Camera {
	return m.camera
}

// Textures returns the texture registry.
func (m *Machine) Textures() *gpu.TextureRegistry {
	return m.textures
}

// Storage returns the persistent store.
func (m *Machine) Storage() *storage.Store {
	return m.store
}

// Sounds returns the audio manager.
func (m *Machine) Sounds() *audio.Manager {
	return m.sounds
}

// Input returns the input source the guest reads.
func (m *Machine) Input() input.Source {
	return m.input
}

// Config returns the effective configuration.
func (m *Machine) Config() Config {
	return m.cfg
}

// Stats reports counters after the last frame.
func (m *Machine) Stats() Stats {
	var mem uint32
	if m.rt.Loaded() {
		mem = m.rt.View().Size()
	}
	return Stats{
		Frames:      m.frames,
		GPU:         m.renderer.Stats(),
		Textures:    m.textures.Len(),
		Meshes:      m.meshes.Len(),
		Sounds:      m.sounds.Active(),
		MemoryBytes: mem,
		Profile:     m.prof.Averages(),
	}
}

// Close writes storage back, silences audio and releases the runtime.
func (m *Machine) Close(ctx context.Context) error {
	var err error
	if m.cfg.StoragePath != "" {
		err = multierr.Append(err, m.store.Flush(m.cfg.StoragePath))
	}
	m.sounds.StopAll()
	err = multierr.Append(err, m.sounds.Close())
	err = multierr.Append(err, m.rt.Close(ctx))
	if err != nil {
		Logger().Error("machine close", zap.Error(err))
	}
	return err
}
