package caps

import (
	"context"
	"math"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/cartridge-host/errors"
	"github.com/wippyai/cartridge-host/runtime"
)

// Default surface size.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Blit describes a copy of a src_w x src_h RGBA image at SrcPtr onto a
// DestW x DestH surface at DestPtr, placed at (X, Y). Pixels that fall off
// the surface are clipped.
type Blit struct {
	DestPtr, DestW, DestH uint32
	X, Y                  int32
	SrcW, SrcH            uint32
	SrcPtr                uint32
	// Blend composites premultiplied source over destination; otherwise
	// source pixels with nonzero alpha replace the destination.
	Blend bool
}

// FramebufferHost is the software drawing surface API.
type FramebufferHost struct {
	width, height uint32
}

// NewFramebufferHost reports a width x height surface to the guest.
func NewFramebufferHost(width, height uint32) *FramebufferHost {
	return &FramebufferHost{width: width, height: height}
}

func (h *FramebufferHost) Namespace() string {
	return "framebuffer"
}

func (h *FramebufferHost) Width() uint32  { return h.width }
func (h *FramebufferHost) Height() uint32 { return h.height }

// Clear fills size bytes at ptr with color repeated as little-endian RGBA:
// byte i takes bits (i%4)*8 of color.
func (h *FramebufferHost) Clear(v *runtime.View, ptr, size, color uint32) error {
	b, err := v.Read(ptr, size)
	if err != nil {
		return err
	}
	var px [4]byte
	for i := range px {
		px[i] = byte(color >> (i * 8))
	}
	for i := range b {
		b[i] = px[i%4]
	}
	return nil
}

// Draw performs b. The source is copied first, so it may overlap the
// destination.
func (h *FramebufferHost) Draw(v *runtime.View, b Blit) error {
	destLen, ok := surfaceBytes(b.DestW, b.DestH)
	if !ok {
		return errors.OutOfBounds(b.DestPtr, math.MaxUint32, v.Size())
	}
	srcLen, ok := surfaceBytes(b.SrcW, b.SrcH)
	if !ok {
		return errors.OutOfBounds(b.SrcPtr, math.MaxUint32, v.Size())
	}
	src, err := v.Bytes(b.SrcPtr, srcLen)
	if err != nil {
		return err
	}
	dest, err := v.Read(b.DestPtr, destLen)
	if err != nil {
		return err
	}
	if b.SrcW == 0 || b.SrcH == 0 {
		return nil
	}

	left := max(int64(b.X), 0)
	top := max(int64(b.Y), 0)
	right := min(int64(b.X)+int64(b.SrcW), int64(b.DestW))
	bottom := min(int64(b.Y)+int64(b.SrcH), int64(b.DestH))
	if left >= right || top >= bottom {
		return nil
	}

	for y := top; y < bottom; y++ {
		srow := (y - int64(b.Y)) * int64(b.SrcW) * 4
		drow := y * int64(b.DestW) * 4
		for x := left; x < right; x++ {
			si := srow + (x-int64(b.X))*4
			di := drow + x*4
			over(dest[di:di+4], src[si:si+4], b.Blend)
		}
	}
	return nil
}

// over composites one premultiplied RGBA pixel.
func over(d, s []byte, blend bool) {
	sa := uint32(s[3])
	if sa == 0 {
		return
	}
	if !blend || sa == 255 {
		copy(d, s)
		return
	}
	inv := 255 - sa
	for i := range 4 {
		out := uint32(s[i]) + (uint32(d[i])*inv+127)/255
		d[i] = byte(min(out, 255))
	}
}

func surfaceBytes(w, h uint32) (uint32, bool) {
	n := uint64(w) * uint64(h) * 4
	if n > math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}

func (h *FramebufferHost) Functions() []runtime.Func {
	blitParams := make([]api.ValueType, 9)
	for i := range blitParams {
		blitParams[i] = runtime.I32
	}
	return []runtime.Func{
		{
			Name:   "get_framebuffer_width",
			Params: noValues,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = api.EncodeU32(h.width)
			},
			Results: oneI32,
		},
		{
			Name:   "get_framebuffer_height",
			Params: noValues,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = api.EncodeU32(h.height)
			},
			Results: oneI32,
		},
		{
			Name:   "clear_surface",
			Params: threeI32,
			Handler: func(_ context.Context, mod api.Module, stack []uint64) {
				err := h.Clear(runtime.ViewOf(mod),
					api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2]))
				if err != nil {
					refused("framebuffer.clear_surface", err)
				}
			},
			Results: noValues,
		},
		{
			Name:   "blit_premultiplied_clipped",
			Params: blitParams,
			Handler: func(_ context.Context, mod api.Module, stack []uint64) {
				blend := api.DecodeI32(stack[8])
				if blend != 0 && blend != 1 {
					refused("framebuffer.blit_premultiplied_clipped",
						errors.InvalidEnum(errors.PhaseBoundary, []string{"blend"}, blend, "bool"))
					return
				}
				err := h.Draw(runtime.ViewOf(mod), Blit{
					DestPtr: api.DecodeU32(stack[0]),
					DestW:   api.DecodeU32(stack[1]),
					DestH:   api.DecodeU32(stack[2]),
					X:       api.DecodeI32(stack[3]),
					Y:       api.DecodeI32(stack[4]),
					SrcW:    api.DecodeU32(stack[5]),
					SrcH:    api.DecodeU32(stack[6]),
					SrcPtr:  api.DecodeU32(stack[7]),
					Blend:   blend == 1,
				})
				if err != nil {
					refused("framebuffer.blit_premultiplied_clipped", err)
				}
			},
			Results: noValues,
		},
	}
}
