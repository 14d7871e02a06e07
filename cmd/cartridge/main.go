package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/cartridge-host/audio"
	"github.com/wippyai/cartridge-host/display"
	"github.com/wippyai/cartridge-host/input"
	"github.com/wippyai/cartridge-host/machine"
	"github.com/wippyai/cartridge-host/profiler"
	"github.com/wippyai/cartridge-host/storage"
)

type options struct {
	wasm          string
	storage       string
	recordAudio   string
	snapshot      string
	logLevel      string
	frames        int
	snapshotScale int
	scale         int
	memoryPages   uint
	headless      bool
	interactive   bool
	statsview     bool
	lenient       bool
}

func main() {
	var opts options
	flag.StringVar(&opts.wasm, "wasm", "", "Path to cartridge wasm file")
	flag.StringVar(&opts.storage, "storage", storage.DefaultFile, "Persistent storage file (empty keeps storage in memory)")
	flag.BoolVar(&opts.headless, "headless", false, "Run without a window")
	flag.IntVar(&opts.frames, "frames", 0, "Frames to run headless (0 runs until interrupted)")
	flag.BoolVar(&opts.interactive, "i", false, "Headless run with a live statistics TUI")
	flag.StringVar(&opts.recordAudio, "record-audio", "", "Write headless audio output to this WAV file")
	flag.StringVar(&opts.snapshot, "snapshot", "", "Save the final framebuffer to this PNG file")
	flag.IntVar(&opts.snapshotScale, "snapshot-scale", 1, "Integer upscale factor for -snapshot")
	flag.IntVar(&opts.scale, "scale", 2, "Window scale factor")
	flag.BoolVar(&opts.statsview, "statsview", false, "Serve live runtime charts on "+profiler.DefaultStatsviewAddr)
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.UintVar(&opts.memoryPages, "memory-pages", 0, "Guest memory limit in 64 KiB pages (0 is the wazero default)")
	flag.BoolVar(&opts.lenient, "lenient", false, "Drop malformed gpu submissions instead of trapping the cartridge")
	flag.Parse()

	if opts.wasm == "" {
		fmt.Fprintln(os.Stderr, "Usage: cartridge -wasm <file.wasm> [-storage storage.bin]")
		fmt.Fprintln(os.Stderr, "       cartridge -wasm <file.wasm> -headless -frames 600 [-snapshot out.png] [-record-audio out.wav]")
		fmt.Fprintln(os.Stderr, "       cartridge -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var lines *lineBuffer
	var logw io.Writer
	if opts.interactive {
		lines = newLineBuffer(200)
		logw = lines
	}
	log, err := newLogger(opts.logLevel, logw)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	setLoggers(log)

	if opts.statsview {
		stopStats := profiler.LaunchStatsview(profiler.DefaultStatsviewAddr, os.Stderr)
		defer stopStats()
	}

	data, err := os.ReadFile(opts.wasm)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	windowed := !opts.headless && !opts.interactive
	cfg := machine.DefaultConfig()
	cfg.StoragePath = opts.storage
	cfg.Runtime.MemoryLimitPages = uint32(opts.memoryPages)
	cfg.StrictProtocol = !opts.lenient

	state := input.NewState()
	dev := machine.Devices{Input: state, Console: log.Named("cartridge")}

	var rec *audio.Recorder
	var clock *virtualClock
	if windowed {
		if opts.recordAudio != "" {
			log.Warn("-record-audio applies to headless runs only")
		}
		speaker, err := display.NewSpeaker(cfg.SampleRate)
		if err != nil {
			log.Warn("audio unavailable", zap.Error(err))
		} else {
			dev.Audio = speaker
		}
	} else {
		clock = newVirtualClock(time.Now())
		cfg.Clock = clock.Now
		if opts.recordAudio != "" {
			rec = audio.NewRecorder(opts.recordAudio, cfg.SampleRate)
			dev.Audio = rec
		}
	}

	m, err := machine.New(ctx, cfg, dev)
	if err != nil {
		return fmt.Errorf("create machine: %w", err)
	}
	defer func() {
		if err := m.Close(context.Background()); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	if err := m.Load(ctx, data); err != nil {
		return fmt.Errorf("load cartridge: %w", err)
	}
	if err := m.Start(ctx); err != nil {
		return fmt.Errorf("main: %w", err)
	}

	h := &headless{m: m, clock: clock, rec: rec, log: log}
	switch {
	case windowed:
		err = display.Run(ctx, m, state, "Cartridge - "+filepath.Base(opts.wasm), opts.scale)
	case opts.interactive:
		err = runInteractive(ctx, h, lines, opts)
	default:
		err = h.run(ctx, opts.frames)
	}
	if err != nil {
		return err
	}

	if opts.snapshot != "" {
		return snapshot(ctx, m, opts)
	}
	return nil
}

func snapshot(ctx context.Context, m *machine.Machine, opts options) error {
	cfg := m.Config()
	w, h := int(cfg.ScreenWidth), int(cfg.ScreenHeight)
	fb := make([]byte, w*h*4)
	if err := m.Framebuffer(ctx, fb); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := writeSnapshot(opts.snapshot, fb, w, h, opts.snapshotScale); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}
