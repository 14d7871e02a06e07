package runtime

import (
	"context"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/cartridge-host/errors"
)

// Value types for capability signatures.
const (
	I32 = api.ValueTypeI32
	I64 = api.ValueTypeI64
	F32 = api.ValueTypeF32
	F64 = api.ValueTypeF64
)

// Func is one capability function exported to the guest.
type Func struct {
	Handler api.GoModuleFunc
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

// Host is a capability namespace. Namespace is the import module name the
// guest uses; Functions lists what it exports.
type Host interface {
	Namespace() string
	Functions() []Func
}

// HostRegistry collects capability functions by namespace.
type HostRegistry struct {
	funcs map[string]map[string]Func
	mu    sync.RWMutex
}

func NewHostRegistry() *HostRegistry {
	return &HostRegistry{
		funcs: make(map[string]map[string]Func),
	}
}

// RegisterHost registers every function of h under h.Namespace().
// Registering a name twice in one namespace fails.
func (r *HostRegistry) RegisterHost(h Host) error {
	ns := h.Namespace()
	if ns == "" {
		return errors.InvalidInput(errors.PhaseHost, "namespace cannot be empty")
	}
	for _, f := range h.Functions() {
		if err := r.RegisterFunc(ns, f); err != nil {
			return err
		}
	}
	return nil
}

// RegisterFunc registers a single function.
func (r *HostRegistry) RegisterFunc(namespace string, f Func) error {
	if f.Name == "" || f.Handler == nil {
		return errors.Registration(namespace, f.Name,
			errors.InvalidInput(errors.PhaseHost, "function needs a name and a handler"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.funcs[namespace] == nil {
		r.funcs[namespace] = make(map[string]Func)
	}
	if _, dup := r.funcs[namespace][f.Name]; dup {
		return errors.Registration(namespace, f.Name,
			errors.InvalidInput(errors.PhaseHost, "already registered"))
	}
	r.funcs[namespace][f.Name] = f
	return nil
}

// Has reports whether namespace#name is registered.
func (r *HostRegistry) Has(namespace, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.funcs[namespace][name]
	return ok
}

// Namespaces returns the registered namespaces in sorted order.
func (r *HostRegistry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.funcs))
	for ns := range r.funcs {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// missing returns "namespace#name" for every function import of compiled
// that has no registered handler.
func (r *HostRegistry) missing(compiled wazero.CompiledModule) []string {
	var out []string
	for _, def := range compiled.ImportedFunctions() {
		ns, name, _ := def.Import()
		if !r.Has(ns, name) {
			out = append(out, ns+"#"+name)
		}
	}
	return out
}

// bind instantiates one wazero host module per namespace.
func (r *HostRegistry) bind(ctx context.Context, rt wazero.Runtime) error {
	for _, ns := range r.Namespaces() {
		if rt.Module(ns) != nil {
			continue
		}

		r.mu.RLock()
		names := make([]string, 0, len(r.funcs[ns]))
		for name := range r.funcs[ns] {
			names = append(names, name)
		}
		sort.Strings(names)
		builder := rt.NewHostModuleBuilder(ns)
		for _, name := range names {
			f := r.funcs[ns][name]
			builder.NewFunctionBuilder().
				WithGoModuleFunction(f.Handler, f.Params, f.Results).
				WithName(name).
				Export(name)
		}
		r.mu.RUnlock()

		if _, err := builder.Instantiate(ctx); err != nil {
			return errors.Registration(ns, "", err)
		}
	}
	return nil
}
