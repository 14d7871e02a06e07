package caps

import (
	"context"
	"unicode/utf8"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/cartridge-host/runtime"
)

// InvalidUTF8 replaces guest text that is not valid UTF-8.
const InvalidUTF8 = "<invalid utf8>"

// ConsoleHost prints guest text.
type ConsoleHost struct {
	log *zap.Logger
}

// NewConsoleHost logs guest output to l. A nil l uses the package logger
// named "cartridge".
func NewConsoleHost(l *zap.Logger) *ConsoleHost {
	if l == nil {
		l = Logger().Named("cartridge")
	}
	return &ConsoleHost{log: l}
}

func (h *ConsoleHost) Namespace() string {
	return "console"
}

// Log writes the text at [ptr, ptr+length) and returns what was logged.
func (h *ConsoleHost) Log(v *runtime.View, ptr, length uint32) (string, bool) {
	b, err := v.Read(ptr, length)
	if err != nil {
		refused("console.log", err)
		return "", false
	}
	text := InvalidUTF8
	if utf8.Valid(b) {
		text = string(b)
	}
	h.log.Info(text, zap.String("source", "console"))
	return text, true
}

func (h *ConsoleHost) Functions() []runtime.Func {
	return []runtime.Func{
		{
			Name:   "log",
			Params: twoI32,
			Handler: func(_ context.Context, mod api.Module, stack []uint64) {
				h.Log(runtime.ViewOf(mod), api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
			},
			Results: noValues,
		},
	}
}
