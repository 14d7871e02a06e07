package runtime

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	cartridge "github.com/wippyai/cartridge-host"
	"github.com/wippyai/cartridge-host/errors"
)

// Runtime is the guest boundary: it owns the wazero runtime, the capability
// table and the single loaded cartridge. Entry points are called from one
// goroutine at a time.
type Runtime struct {
	rt     wazero.Runtime
	hosts  *HostRegistry
	mod    api.Module
	main   api.Function
	update api.Function
	fb     api.Function
	cfg    Config
}

// New creates a runtime with no cartridge loaded.
func New(ctx context.Context, cfg Config) (*Runtime, error) {
	cfg = cfg.withDefaults()

	rc := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	return &Runtime{
		rt:    wazero.NewRuntimeWithConfig(ctx, rc),
		hosts: NewHostRegistry(),
		cfg:   cfg,
	}, nil
}

// Close releases the cartridge and the wazero runtime.
func (r *Runtime) Close(ctx context.Context) error {
	return r.rt.Close(ctx)
}

// RegisterHost adds a capability namespace.
// Must be called BEFORE Load.
func (r *Runtime) RegisterHost(h Host) error {
	return r.hosts.RegisterHost(h)
}

// Hosts returns the capability table.
func (r *Runtime) Hosts() *HostRegistry {
	return r.hosts
}

// Load compiles and instantiates a cartridge. Every function the cartridge
// imports must be registered, and it must export linear memory.
func (r *Runtime) Load(ctx context.Context, wasm []byte) error {
	if r.mod != nil {
		return errors.InvalidInput(errors.PhaseLoad, "a cartridge is already loaded")
	}

	compiled, err := r.rt.CompileModule(ctx, wasm)
	if err != nil {
		return errors.Load("compile module", err)
	}

	if missing := r.hosts.missing(compiled); len(missing) > 0 {
		_ = compiled.Close(ctx)
		return errors.NewMissingImportsError(missing)
	}
	if _, ok := compiled.ExportedMemories()[r.cfg.MemoryExport]; !ok {
		_ = compiled.Close(ctx)
		return errors.NotFound(errors.PhaseLoad, "memory export", r.cfg.MemoryExport)
	}

	if err := r.hosts.bind(ctx, r.rt); err != nil {
		_ = compiled.Close(ctx)
		return errors.Load("bind hosts", err)
	}

	mod, err := r.rt.InstantiateModule(ctx, compiled,
		wazero.NewModuleConfig().WithName("cartridge").WithStartFunctions())
	if err != nil {
		return errors.Instantiation(err)
	}

	r.mod = mod
	r.main = mod.ExportedFunction(r.cfg.MainExport)
	r.update = mod.ExportedFunction(r.cfg.UpdateExport)
	r.fb = mod.ExportedFunction(r.cfg.FramebufferExport)

	Logger().Info("cartridge loaded",
		zap.Int("imports", len(compiled.ImportedFunctions())),
		zap.Uint32("memory_bytes", mod.Memory().Size()),
		zap.Bool("has_main", r.main != nil),
		zap.Bool("has_update", r.update != nil))
	return nil
}

// Loaded reports whether a cartridge is instantiated.
func (r *Runtime) Loaded() bool {
	return r.mod != nil
}

// Memory returns the cartridge's linear memory, or nil before Load.
func (r *Runtime) Memory() cartridge.Memory {
	if r.mod == nil {
		return nil
	}
	return r.mod.Memory()
}

// View returns a bounds-checked view of the cartridge memory.
func (r *Runtime) View() *View {
	return ViewOf(r.mod)
}

// HasExport reports whether the cartridge exports a function named name.
func (r *Runtime) HasExport(name string) bool {
	return r.mod != nil && r.mod.ExportedFunction(name) != nil
}

// Main calls the cartridge's main entry point once. Arguments, if the
// export declares any, are zero.
func (r *Runtime) Main(ctx context.Context) error {
	if err := r.ready(r.main, r.cfg.MainExport); err != nil {
		return err
	}
	params := make([]uint64, len(r.main.Definition().ParamTypes()))
	_, err := r.call(ctx, r.cfg.MainExport, r.main, params...)
	return err
}

// Update calls the cartridge's per-frame entry point with the host time.
func (r *Runtime) Update(ctx context.Context, nanos int64) error {
	if err := r.ready(r.update, r.cfg.UpdateExport); err != nil {
		return err
	}
	_, err := r.call(ctx, r.cfg.UpdateExport, r.update, api.EncodeI64(nanos))
	return err
}

// Framebuffer returns the guest address of the cartridge framebuffer.
func (r *Runtime) Framebuffer(ctx context.Context) (uint32, error) {
	if err := r.ready(r.fb, r.cfg.FramebufferExport); err != nil {
		return 0, err
	}
	res, err := r.call(ctx, r.cfg.FramebufferExport, r.fb)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, errors.InvalidData(errors.PhaseRuntime, []string{r.cfg.FramebufferExport}, "no result")
	}
	return api.DecodeU32(res[0]), nil
}

// Call invokes any exported function by name.
func (r *Runtime) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	if r.mod == nil {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "cartridge")
	}
	fn := r.mod.ExportedFunction(name)
	if err := r.ready(fn, name); err != nil {
		return nil, err
	}
	return r.call(ctx, name, fn, params...)
}

func (r *Runtime) ready(fn api.Function, name string) error {
	if r.mod == nil {
		return errors.NotInitialized(errors.PhaseRuntime, "cartridge")
	}
	if fn == nil {
		return errors.NotFound(errors.PhaseRuntime, "export", name)
	}
	return nil
}

func (r *Runtime) call(ctx context.Context, entry string, fn api.Function, params ...uint64) ([]uint64, error) {
	res, err := fn.Call(ctx, params...)
	if err != nil {
		Logger().Error("guest trapped", zap.String("entry", entry), zap.Error(err))
		return nil, errors.Trap(entry, err)
	}
	return res, nil
}
