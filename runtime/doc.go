// Package runtime is the boundary between the host and a cartridge.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx, runtime.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	// Capabilities first: Load refuses cartridges with unresolved imports.
//	rt.RegisterHost(consoleHost)
//
//	if err := rt.Load(ctx, wasmBytes); err != nil {
//	    log.Fatal(err)
//	}
//	if err := rt.Main(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    if err := rt.Update(ctx, time.Now().UnixNano()); err != nil {
//	        log.Fatal(err) // *errors.Error, kind trap
//	    }
//	}
//
// # Capabilities
//
// A Host is one import namespace. Each Func is bound as a wazero Go module
// function, so handlers receive the raw stack of i32/i64/f32/f64 values:
//
//	runtime.Func{
//	    Name:   "log",
//	    Params: []api.ValueType{runtime.I32, runtime.I32},
//	    Handler: func(ctx context.Context, mod api.Module, stack []uint64) {
//	        msg, err := runtime.ViewOf(mod).String(api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
//	        ...
//	    },
//	}
//
// # Guest Memory
//
// Handlers must reach guest memory only through View. View checks
// ptr+len against the memory size in 64-bit arithmetic, so a range that
// wraps around 2^32 is refused rather than truncated. A refused access
// returns an *errors.Error of kind out_of_bounds; capabilities turn that
// into a zero or no-op result and the guest keeps running.
//
// A handler that must fail the whole call uses Abort; the entry point then
// returns a trap error.
package runtime
