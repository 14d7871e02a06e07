package caps

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	cartridge "github.com/wippyai/cartridge-host"
	"github.com/wippyai/cartridge-host/audio"
	"github.com/wippyai/cartridge-host/errors"
	"github.com/wippyai/cartridge-host/gpu"
	"github.com/wippyai/cartridge-host/input"
	"github.com/wippyai/cartridge-host/protocol"
	"github.com/wippyai/cartridge-host/runtime"
	"github.com/wippyai/cartridge-host/storage"
)

func newView(size uint32) (*runtime.View, cartridge.Buffer) {
	buf := cartridge.NewBuffer(size)
	return runtime.NewView(buf), buf
}

func TestHosts_Register(t *testing.T) {
	textures := gpu.NewTextureRegistry()
	meshes := gpu.NewMeshRegistry()
	hosts := []runtime.Host{
		NewConsoleHost(nil),
		NewMemoryHost(),
		NewFramebufferHost(DefaultWidth, DefaultHeight),
		NewSystemHost(nil),
		NewInputHost(input.NewState()),
		NewStorageHost(storage.New(64)),
		NewAudioHost(audio.NewManager(audio.Nop{}, 4, audio.DefaultSampleRate)),
		NewGPUHost(gpu.NewRenderer(gpu.DefaultConfig(), textures, meshes), &gpu.Camera{}, true),
	}

	reg := runtime.NewHostRegistry()
	for _, h := range hosts {
		if err := reg.RegisterHost(h); err != nil {
			t.Fatalf("RegisterHost(%s): %v", h.Namespace(), err)
		}
	}

	want := map[string][]string{
		"console":     {"log"},
		"memory":      {"mem_fill", "mem_copy"},
		"framebuffer": {"get_framebuffer_width", "get_framebuffer_height", "clear_surface", "blit_premultiplied_clipped"},
		"system":      {"has_permission", "get_time_nanos"},
		"input": {"get_key_code", "get_key", "get_mouse_button", "get_mouse_x", "get_mouse_y",
			"get_mouse_accumulated_dx", "get_mouse_accumulated_dy", "is_mouse_grabbed", "grab_mouse", "release_mouse"},
		"storage": {"storage_read", "storage_write", "storage_size", "storage_clear"},
		"audio":   {"play_audio", "stop_audio", "stop_all_audio", "set_audio_volume", "set_audio_pitch", "is_audio_playing"},
		"gpu":     {"get_camera_transform", "set_camera_transform", "submit_gpu_commands", "gpu_read"},
	}
	for ns, names := range want {
		for _, name := range names {
			if !reg.Has(ns, name) {
				t.Errorf("%s#%s not registered", ns, name)
			}
		}
	}
	if got := len(reg.Namespaces()); got != len(want) {
		t.Errorf("namespaces = %d, want %d", got, len(want))
	}
}

func TestConsole_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := NewConsoleHost(zap.New(core))
	v, buf := newView(64)
	copy(buf[8:], "hi there")
	copy(buf[32:], []byte{0xff, 0xfe})

	if text, ok := h.Log(v, 8, 8); !ok || text != "hi there" {
		t.Errorf("Log = %q, %v", text, ok)
	}
	if text, _ := h.Log(v, 32, 2); text != InvalidUTF8 {
		t.Errorf("invalid utf8 logged as %q", text)
	}
	if _, ok := h.Log(v, 60, 8); ok {
		t.Error("out of range text should be refused")
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("logged %d entries, want 2", len(entries))
	}
	if entries[0].Message != "hi there" || entries[0].ContextMap()["source"] != "console" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestMemory_FillCopy(t *testing.T) {
	h := NewMemoryHost()
	v, buf := newView(32)

	if err := h.Fill(v, 4, 4, 0x1AB); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if !bytes.Equal(buf[4:8], []byte{0xAB, 0xAB, 0xAB, 0xAB}) {
		t.Errorf("fill = %x", buf[4:8])
	}

	copy(buf[0:], []byte{1, 2, 3, 4, 5, 6})
	if err := h.Copy(v, 2, 0, 4); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if !bytes.Equal(buf[:6], []byte{1, 2, 1, 2, 3, 4}) {
		t.Errorf("overlapping copy = %v", buf[:6])
	}

	before := append([]byte(nil), buf...)
	if err := h.Fill(v, 30, 4, 9); !errors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("Fill past end: %v", err)
	}
	if err := h.Copy(v, 0, 30, 4); !errors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("Copy from past end: %v", err)
	}
	if !bytes.Equal(before, buf) {
		t.Error("refused operations changed memory")
	}
}

func TestSystem(t *testing.T) {
	at := time.Unix(12, 34)
	h := NewSystemHost(func() time.Time { return at })
	if !h.HasPermission(7) {
		t.Error("HasPermission should grant")
	}
	if got := h.TimeNanos(); got != 12_000_000_034 {
		t.Errorf("TimeNanos = %d", got)
	}
}

func TestInput_KeyCode(t *testing.T) {
	s := input.NewState()
	h := NewInputHost(s)
	if got := h.KeyCode(); got != -1 {
		t.Errorf("KeyCode with nothing typed = %d, want -1", got)
	}
	s.Type('a', 'Z')
	if got := h.KeyCode(); got != 'a' {
		t.Errorf("KeyCode = %d, want 'a'", got)
	}
	if got := h.KeyCode(); got != 'Z' {
		t.Errorf("KeyCode = %d, want 'Z'", got)
	}
}

func TestStorage_ReadWrite(t *testing.T) {
	store := storage.New(16)
	h := NewStorageHost(store)
	v, buf := newView(64)
	copy(buf[0:], "abcdefgh")

	tests := []struct {
		name   string
		offset uint32
		ptr    uint32
		length uint32
		want   uint32
	}{
		{"whole", 0, 0, 8, 8},
		{"clipped at end", 12, 0, 8, 4},
		{"offset past end", 16, 0, 8, 0},
		{"negative offset", math.MaxUint32, 0, 8, 0},
		{"guest range refused", 0, 60, 8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Write(v, tt.offset, tt.ptr, tt.length); got != tt.want {
				t.Errorf("Write = %d, want %d", got, tt.want)
			}
		})
	}

	if got := h.Read(v, 0, 32, 8); got != 8 {
		t.Fatalf("Read = %d, want 8", got)
	}
	if string(buf[32:40]) != "abcdefgh" {
		t.Errorf("read back %q", buf[32:40])
	}
	if got := h.Read(v, 12, 48, 100); got != 4 || string(buf[48:52]) != "abcd" {
		t.Errorf("clipped read = %d %q", got, buf[48:52])
	}
}

func TestAudio_Play(t *testing.T) {
	mgr := audio.NewManager(audio.NewMixer(audio.DefaultSampleRate), 1, audio.DefaultSampleRate)
	h := NewAudioHost(mgr)
	v, buf := newView(64)
	binary.LittleEndian.PutUint16(buf[0:], 1000)
	binary.LittleEndian.PutUint16(buf[2:], 1000)

	id := h.Play(v, 0, 4)
	if id != 0 {
		t.Fatalf("first sound id = %d, want 0", id)
	}
	if !mgr.Playing(audio.SoundID(id)) {
		t.Error("sound should be playing")
	}
	if got := h.Play(v, 0, 4); got != -1 {
		t.Errorf("sound over the limit = %d, want -1", got)
	}
	if got := h.Play(v, 62, 4); got != -1 {
		t.Errorf("out of range pcm = %d, want -1", got)
	}
	if _, ok := h.sound(-1); ok {
		t.Error("negative ids never name a sound")
	}
}

func TestGPU_Submit(t *testing.T) {
	r := gpu.NewRenderer(gpu.DefaultConfig(), gpu.NewTextureRegistry(), gpu.NewMeshRegistry())
	h := NewGPUHost(r, &gpu.Camera{}, true)
	v, buf := newView(256)

	cmds := protocol.Append(nil, protocol.Push{}, protocol.Translate{X: 1}, protocol.Pop{})
	copy(buf, cmds)
	if err := h.Submit(v, 0, uint32(len(cmds))); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if r.Pending() != 3 {
		t.Errorf("Pending = %d, want 3", r.Pending())
	}

	copy(buf[100:], append(protocol.Append(nil, protocol.Push{}), 0x30))
	if err := h.Submit(v, 100, 2); !errors.Is(err, errors.ErrUnknownOpcode) {
		t.Errorf("Submit with unknown opcode: %v", err)
	}
	if r.Pending() != 3 {
		t.Errorf("rejected submission queued commands: Pending = %d", r.Pending())
	}

	if err := h.Submit(v, 250, 10); !errors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("Submit past end: %v", err)
	}
}

func TestGPU_Camera(t *testing.T) {
	cam := &gpu.Camera{}
	h := NewGPUHost(nil, cam, true)
	v, buf := newView(32)

	cam.Set(1, 2, 3, 0.5, 3)
	if err := h.CameraTransform(v, 4); err != nil {
		t.Fatalf("CameraTransform: %v", err)
	}
	want := []float32{1, 2, 3, 0.5, gpu.MaxPitch}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[4+4*i:]))
		if got != w {
			t.Errorf("field %d = %v, want %v", i, got, w)
		}
	}
	if err := h.CameraTransform(v, 16); !errors.Is(err, errors.ErrOutOfBounds) {
		t.Errorf("CameraTransform past end: %v", err)
	}
}

func TestGPU_ReadZeroFills(t *testing.T) {
	h := NewGPUHost(nil, &gpu.Camera{}, true)
	v, buf := newView(16)
	for i := range buf {
		buf[i] = 0xEE
	}
	if err := h.Read(v, 0, 4, 8); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(buf[4:12], make([]byte, 8)) || buf[3] != 0xEE || buf[12] != 0xEE {
		t.Errorf("buf = %x", buf)
	}
}
