package caps

import (
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/cartridge-host/runtime"
)

var (
	noValues = []api.ValueType{}
	oneI32   = []api.ValueType{runtime.I32}
	twoI32   = []api.ValueType{runtime.I32, runtime.I32}
	threeI32 = []api.ValueType{runtime.I32, runtime.I32, runtime.I32}
)

// refused logs a guest access that was turned away.
func refused(op string, err error) {
	Logger().Debug("guest access refused", zap.String("op", op), zap.Error(err))
}

func boolResult(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
