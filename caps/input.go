package caps

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/cartridge-host/input"
	"github.com/wippyai/cartridge-host/runtime"
)

// InputHost exposes an input.Source to the guest.
type InputHost struct {
	src input.Source
}

func NewInputHost(src input.Source) *InputHost {
	return &InputHost{src: src}
}

func (h *InputHost) Namespace() string {
	return "input"
}

// KeyCode pops the next typed character, or -1 when none is pending.
func (h *InputHost) KeyCode() int32 {
	if r, ok := h.src.NextChar(); ok {
		return int32(r)
	}
	return -1
}

func (h *InputHost) Functions() []runtime.Func {
	f64 := []api.ValueType{runtime.F64}
	return []runtime.Func{
		{
			Name:   "get_key_code",
			Params: noValues,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = api.EncodeI32(h.KeyCode())
			},
			Results: oneI32,
		},
		{
			Name:   "get_key",
			Params: oneI32,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(h.src.KeyDown(input.Key(api.DecodeI32(stack[0]))))
			},
			Results: oneI32,
		},
		{
			Name:   "get_mouse_button",
			Params: oneI32,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(h.src.ButtonDown(input.Button(api.DecodeI32(stack[0]))))
			},
			Results: oneI32,
		},
		{
			Name:   "get_mouse_x",
			Params: noValues,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				x, _ := h.src.Cursor()
				stack[0] = api.EncodeI32(x)
			},
			Results: oneI32,
		},
		{
			Name:   "get_mouse_y",
			Params: noValues,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				_, y := h.src.Cursor()
				stack[0] = api.EncodeI32(y)
			},
			Results: oneI32,
		},
		{
			Name:   "get_mouse_accumulated_dx",
			Params: noValues,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				dx, _ := h.src.Delta()
				stack[0] = api.EncodeF64(dx)
			},
			Results: f64,
		},
		{
			Name:   "get_mouse_accumulated_dy",
			Params: noValues,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				_, dy := h.src.Delta()
				stack[0] = api.EncodeF64(dy)
			},
			Results: f64,
		},
		{
			Name:   "is_mouse_grabbed",
			Params: noValues,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(h.src.Grabbed())
			},
			Results: oneI32,
		},
		{
			Name:   "grab_mouse",
			Params: noValues,
			Handler: func(context.Context, api.Module, []uint64) {
				h.src.SetGrabbed(true)
			},
			Results: noValues,
		},
		{
			Name:   "release_mouse",
			Params: noValues,
			Handler: func(context.Context, api.Module, []uint64) {
				h.src.SetGrabbed(false)
			},
			Results: noValues,
		},
	}
}
