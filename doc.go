// Package cartridge hosts sandboxed WebAssembly cartridges: small guest
// programs that draw through a GPU command channel and a framebuffer, read
// input, play audio and persist a byte store, all through a fixed import
// table.
//
// # Architecture Overview
//
//	cartridge/          Root package with the guest Memory interface
//	├── runtime/        wazero guest boundary, bounded memory View, host registry
//	├── protocol/       GPU command wire codec
//	├── gpu/            transform stack, texture and mesh registries, renderer, camera
//	├── cell/           shared single-owner cell with a reentrancy guard
//	├── resource/       monotonic ID tables of cells
//	├── caps/           capability hosts, one per import namespace
//	├── storage/        fixed-size persistent byte store
//	├── audio/          voice manager and playback backends
//	├── input/          keyboard and mouse state
//	├── profiler/       frame section timing
//	├── machine/        application context and per-frame driver
//	├── display/        ebiten window, input and audio
//	├── errors/         structured error types
//	└── cmd/cartridge   command line host
//
// # Quick Start
//
//	m, err := machine.New(ctx, machine.DefaultConfig(), machine.Devices{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close(ctx)
//
//	if err := m.Load(ctx, wasmBytes); err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    if err := m.Frame(ctx, drawer); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Frame Model
//
// A frame is one synchronous call into the guest's update export followed by
// one renderer pass. While update runs, gpu.submit_gpu_commands decodes the
// submitted bytes and queues commands; after it returns the renderer drains
// the queue, updating the transform stack and the mesh and texture registries
// and emitting draw calls. Guest memory is only touched through runtime.View,
// which refuses any range that does not fit.
package cartridge
