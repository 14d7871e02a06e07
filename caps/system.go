package caps

import (
	"context"
	"time"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/cartridge-host/runtime"
)

// SystemHost answers permission and clock queries.
type SystemHost struct {
	now func() time.Time
}

// NewSystemHost reads wall time from now, or time.Now when nil.
func NewSystemHost(now func() time.Time) *SystemHost {
	if now == nil {
		now = time.Now
	}
	return &SystemHost{now: now}
}

func (h *SystemHost) Namespace() string {
	return "system"
}

// HasPermission grants everything.
func (h *SystemHost) HasPermission(int32) bool {
	return true
}

// TimeNanos returns nanoseconds since the Unix epoch.
func (h *SystemHost) TimeNanos() int64 {
	return h.now().UnixNano()
}

func (h *SystemHost) Functions() []runtime.Func {
	return []runtime.Func{
		{
			Name:   "has_permission",
			Params: oneI32,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = boolResult(h.HasPermission(api.DecodeI32(stack[0])))
			},
			Results: oneI32,
		},
		{
			Name:   "get_time_nanos",
			Params: noValues,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				stack[0] = api.EncodeI64(h.TimeNanos())
			},
			Results: []api.ValueType{runtime.I64},
		},
	}
}
