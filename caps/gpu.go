package caps

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/cartridge-host/errors"
	"github.com/wippyai/cartridge-host/gpu"
	"github.com/wippyai/cartridge-host/protocol"
	"github.com/wippyai/cartridge-host/runtime"
)

// GPUHost accepts command submissions and camera updates.
type GPUHost struct {
	renderer *gpu.Renderer
	camera   *gpu.Camera
	strict   bool
}

// NewGPUHost queues decoded commands on r. With strict set, a submission
// that fails to decode traps the guest; otherwise it is dropped.
func NewGPUHost(r *gpu.Renderer, c *gpu.Camera, strict bool) *GPUHost {
	return &GPUHost{renderer: r, camera: c, strict: strict}
}

func (h *GPUHost) Namespace() string {
	return "gpu"
}

// Submit decodes the command buffer at [ptr, ptr+length) and queues it.
// Either every command is queued or none is.
func (h *GPUHost) Submit(v *runtime.View, ptr, length uint32) error {
	buf, err := v.Read(ptr, length)
	if err != nil {
		return err
	}
	cmds, err := protocol.Decode(buf)
	if err != nil {
		return err
	}
	h.renderer.Enqueue(cmds...)
	return nil
}

// CameraTransform writes x, y, z, yaw, pitch as five f32 at ptr.
func (h *GPUHost) CameraTransform(v *runtime.View, ptr uint32) error {
	return v.Write(ptr, h.camera.Get().AppendBinary(make([]byte, 0, gpu.CameraSize)))
}

// Read zero-fills [ptr, ptr+length). The host keeps no readback data.
func (h *GPUHost) Read(v *runtime.View, offset, ptr, length uint32) error {
	return v.Zero(ptr, length)
}

func (h *GPUHost) submit(mod api.Module, ptr, length uint32) {
	err := h.Submit(runtime.ViewOf(mod), ptr, length)
	switch {
	case err == nil:
	case errors.Is(err, errors.ErrOutOfBounds):
		refused("gpu.submit_gpu_commands", err)
	case h.strict:
		runtime.Abort(err)
	default:
		Logger().Warn("gpu submission dropped", zap.Uint32("bytes", length), zap.Error(err))
	}
}

func (h *GPUHost) Functions() []runtime.Func {
	return []runtime.Func{
		{
			Name:   "get_camera_transform",
			Params: oneI32,
			Handler: func(_ context.Context, mod api.Module, stack []uint64) {
				if err := h.CameraTransform(runtime.ViewOf(mod), api.DecodeU32(stack[0])); err != nil {
					refused("gpu.get_camera_transform", err)
				}
			},
			Results: noValues,
		},
		{
			Name: "set_camera_transform",
			Params: []api.ValueType{
				runtime.F32, runtime.F32, runtime.F32, runtime.F32, runtime.F32,
			},
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				h.camera.Set(
					api.DecodeF32(stack[0]), api.DecodeF32(stack[1]), api.DecodeF32(stack[2]),
					api.DecodeF32(stack[3]), api.DecodeF32(stack[4]))
			},
			Results: noValues,
		},
		{
			Name:   "submit_gpu_commands",
			Params: twoI32,
			Handler: func(_ context.Context, mod api.Module, stack []uint64) {
				h.submit(mod, api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
			},
			Results: noValues,
		},
		{
			Name:   "gpu_read",
			Params: threeI32,
			Handler: func(_ context.Context, mod api.Module, stack []uint64) {
				err := h.Read(runtime.ViewOf(mod),
					api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2]))
				if err != nil {
					refused("gpu.gpu_read", err)
				}
			},
			Results: noValues,
		},
	}
}
