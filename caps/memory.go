package caps

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/cartridge-host/runtime"
)

// MemoryHost does bulk operations inside guest memory.
type MemoryHost struct{}

func NewMemoryHost() *MemoryHost {
	return &MemoryHost{}
}

func (h *MemoryHost) Namespace() string {
	return "memory"
}

// Fill sets [ptr, ptr+length) to the low byte of value.
func (h *MemoryHost) Fill(v *runtime.View, ptr, length, value uint32) error {
	return v.Fill(ptr, length, byte(value))
}

// Copy moves length bytes from src to dst. The ranges may overlap.
func (h *MemoryHost) Copy(v *runtime.View, dst, src, length uint32) error {
	return v.Copy(dst, src, length)
}

func (h *MemoryHost) Functions() []runtime.Func {
	return []runtime.Func{
		{
			Name:   "mem_fill",
			Params: threeI32,
			Handler: func(_ context.Context, mod api.Module, stack []uint64) {
				err := h.Fill(runtime.ViewOf(mod),
					api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2]))
				if err != nil {
					refused("memory.mem_fill", err)
				}
			},
			Results: noValues,
		},
		{
			Name:   "mem_copy",
			Params: threeI32,
			Handler: func(_ context.Context, mod api.Module, stack []uint64) {
				err := h.Copy(runtime.ViewOf(mod),
					api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2]))
				if err != nil {
					refused("memory.mem_copy", err)
				}
			},
			Results: noValues,
		},
	}
}
