package caps

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/cartridge-host/runtime"
	"github.com/wippyai/cartridge-host/storage"
)

// StorageHost gives the guest the persistent store.
type StorageHost struct {
	store *storage.Store
}

func NewStorageHost(s *storage.Store) *StorageHost {
	return &StorageHost{store: s}
}

func (h *StorageHost) Namespace() string {
	return "storage"
}

// Read copies up to length bytes at offset in the store to ptr and returns
// the count. The length is clipped to the store; a guest range that does
// not fit the clipped length copies nothing.
func (h *StorageHost) Read(v *runtime.View, offset, ptr, length uint32) uint32 {
	n := h.store.Clip(offset, length)
	dst, err := v.Read(ptr, n)
	if err != nil {
		refused("storage.storage_read", err)
		return 0
	}
	return uint32(h.store.ReadAt(offset, dst))
}

// Write copies up to length bytes from ptr into the store at offset and
// returns the count.
func (h *StorageHost) Write(v *runtime.View, offset, ptr, length uint32) uint32 {
	n := h.store.Clip(offset, length)
	src, err := v.Read(ptr, n)
	if err != nil {
		refused("storage.storage_write", err)
		return 0
	}
	return uint32(h.store.WriteAt(offset, src))
}

func (h *StorageHost) Functions() []runtime.Func {
	return []runtime.Func{
		{
			Name:   "storage_read",
			Params: threeI32,
			Handler: func(_ context.Context, mod api.Module, stack []uint64) {
				stack[0] = api.EncodeU32(h.Read(runtime.ViewOf(mod),
					api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2])))
			},
			Results: oneI32,
		},
		{
			Name:   "storage_write",
			Params: threeI32,
			Handler: func(_ context.Context, mod api.Module, stack []uint64) {
				stack[0] = api.EncodeU32(h.Write(runtime.ViewOf(mod),
					api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2])))
			},
			Results: oneI32,
		},
		{
			Name:   "storage_size",
			Params: noValues,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = api.EncodeU32(h.store.Size())
			},
			Results: oneI32,
		},
		{
			Name:   "storage_clear",
			Params: noValues,
			Handler: func(context.Context, api.Module, []uint64) {
				h.store.Clear()
			},
			Results: noValues,
		},
	}
}
