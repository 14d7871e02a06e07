// Package machine wires a cartridge to its capabilities and drives it.
//
// A Machine owns the guest runtime, the gpu registries and renderer, the
// camera, persistent storage, the audio manager, the input source and a
// profiler. Drivers call Start once and then Frame per tick:
//
//	m, err := machine.New(ctx, machine.DefaultConfig(), machine.Devices{})
//	if err != nil { ... }
//	defer m.Close(ctx)
//	if err := m.Load(ctx, wasm); err != nil { ... }
//	if err := m.Start(ctx); err != nil { ... }
//	for {
//		if err := m.Frame(ctx, drawer); err != nil { ... }
//	}
//
// Any error from Start or Frame is fatal for the cartridge.
package machine
