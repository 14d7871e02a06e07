package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/cartridge-host/audio"
	"github.com/wippyai/cartridge-host/internal/wasmtest"
	"github.com/wippyai/cartridge-host/machine"
)

func TestWriteSnapshot(t *testing.T) {
	rgba := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	}
	tests := []struct {
		name  string
		scale int
		w, h  int
	}{
		{"native", 1, 2, 2},
		{"zero scale", 0, 2, 2},
		{"scaled", 3, 6, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.png")
			if err := writeSnapshot(path, rgba, 2, 2, tt.scale); err != nil {
				t.Fatalf("writeSnapshot: %v", err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != tt.w || b.Dy() != tt.h {
				t.Fatalf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.w, tt.h)
			}
			r, g, bl, _ := img.At(b.Max.X-1, 0).RGBA()
			if r != 0 || g != 0xffff || bl != 0 {
				t.Errorf("top right pixel = %x %x %x, want green", r, g, bl)
			}
		})
	}
}

func TestLineBuffer(t *testing.T) {
	b := newLineBuffer(3)
	for _, s := range []string{"one\n", "two\nthree\n", "four\n"} {
		if _, err := b.Write([]byte(s)); err != nil {
			t.Fatal(err)
		}
	}
	if got := strings.Join(b.Tail(10), ","); got != "two,three,four" {
		t.Errorf("Tail(10) = %q", got)
	}
	if got := strings.Join(b.Tail(1), ","); got != "four" {
		t.Errorf("Tail(1) = %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	b := newLineBuffer(10)
	log, err := newLogger("warn", b)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown", zap.Int("n", 1))
	tail := b.Tail(10)
	if len(tail) != 1 || !strings.Contains(tail[0], "shown") {
		t.Errorf("log lines = %q", tail)
	}

	if _, err := newLogger("loud", nil); err == nil {
		t.Error("unknown level should fail")
	}
}

func TestVirtualClock(t *testing.T) {
	start := time.Unix(100, 0)
	c := newVirtualClock(start)
	c.Advance(frameTime)
	c.Advance(frameTime)
	if got := c.Now().Sub(start); got != 2*frameTime {
		t.Errorf("elapsed = %v", got)
	}
}

// beeper builds a cartridge whose main starts one sound.
func beeper() []byte {
	m := wasmtest.New()
	play := m.Import("audio", "play_audio", []byte{wasmtest.I32, wasmtest.I32}, []byte{wasmtest.I64})
	main := m.Func(nil, nil, nil,
		wasmtest.I32Const(0), wasmtest.I32Const(8), wasmtest.Call(play),
		wasmtest.Drop,
	)
	update := m.Func([]byte{wasmtest.I64}, nil, nil)
	m.Export("main", main).
		Export("update", update).
		Memory(1, "memory").
		Data(0, []byte{0, 16, 0, 16, 0, 16, 0, 16})
	return m.Bytes()
}

func TestHeadless_Run(t *testing.T) {
	ctx := context.Background()
	wav := filepath.Join(t.TempDir(), "out.wav")

	clock := newVirtualClock(time.Unix(1_700_000_000, 0))
	cfg := machine.DefaultConfig()
	cfg.StoragePath = ""
	cfg.SampleRate = 600
	cfg.Clock = clock.Now
	rec := audio.NewRecorder(wav, cfg.SampleRate)

	m, err := machine.New(ctx, cfg, machine.Devices{Audio: rec})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Load(ctx, beeper()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	h := &headless{m: m, clock: clock, rec: rec, log: zap.NewNop()}
	if err := h.run(ctx, 30); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := m.Stats().Frames; got != 30 {
		t.Errorf("Frames = %d, want 30", got)
	}
	if got := rec.Frames(); got < 299 || got > 300 {
		t.Errorf("recorded %d audio frames, want about 300", got)
	}

	if err := m.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	info, err := os.Stat(wav)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() <= 44 {
		t.Errorf("wav file is %d bytes", info.Size())
	}
}

func TestHeadless_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	clock := newVirtualClock(time.Unix(0, 0))
	cfg := machine.DefaultConfig()
	cfg.StoragePath = ""
	cfg.Clock = clock.Now
	m, err := machine.New(context.Background(), cfg, machine.Devices{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close(context.Background())
	if err := m.Load(context.Background(), beeper()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	h := &headless{m: m, clock: clock, log: zap.NewNop()}
	if err := h.run(ctx, 0); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := m.Stats().Frames; got != 0 {
		t.Errorf("Frames = %d after cancel", got)
	}
}
