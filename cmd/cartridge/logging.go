package main

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/cartridge-host/caps"
	"github.com/wippyai/cartridge-host/display"
	"github.com/wippyai/cartridge-host/gpu"
	"github.com/wippyai/cartridge-host/machine"
	"github.com/wippyai/cartridge-host/runtime"
)

// newLogger builds the process logger. With w set every entry goes to w as
// console text; otherwise a terminal on stderr gets the development
// encoder and anything else gets JSON.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if w != nil {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.TimeKey = ""
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
		return zap.New(core), nil
	}

	cfg := zap.NewProductionConfig()
	if term.IsTerminal(int(os.Stderr.Fd())) {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func setLoggers(l *zap.Logger) {
	runtime.SetLogger(l.Named("runtime"))
	gpu.SetLogger(l.Named("gpu"))
	caps.SetLogger(l.Named("caps"))
	machine.SetLogger(l.Named("machine"))
	display.SetLogger(l.Named("display"))
}

// lineBuffer keeps the last max lines written to it.
type lineBuffer struct {
	lines []string
	max   int
	mu    sync.Mutex
}

func newLineBuffer(limit int) *lineBuffer {
	return &lineBuffer{max: limit}
}

func (b *lineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		b.lines = append(b.lines, line)
	}
	if over := len(b.lines) - b.max; over > 0 {
		b.lines = append(b.lines[:0], b.lines[over:]...)
	}
	return len(p), nil
}

// Tail returns up to n of the most recent lines, oldest first.
func (b *lineBuffer) Tail(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	n = min(n, len(b.lines))
	out := make([]string, n)
	copy(out, b.lines[len(b.lines)-n:])
	return out
}
