package caps

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/cartridge-host/audio"
	"github.com/wippyai/cartridge-host/runtime"
)

// AudioHost plays guest PCM through an audio.Manager. Sound IDs cross the
// boundary as i64; -1 means the sound was not started.
type AudioHost struct {
	mgr *audio.Manager
}

func NewAudioHost(m *audio.Manager) *AudioHost {
	return &AudioHost{mgr: m}
}

func (h *AudioHost) Namespace() string {
	return "audio"
}

// Play starts the interleaved stereo i16 PCM at [ptr, ptr+length).
func (h *AudioHost) Play(v *runtime.View, ptr, length uint32) int64 {
	raw, err := v.Read(ptr, length)
	if err != nil {
		refused("audio.play_audio", err)
		return -1
	}
	id, err := h.mgr.Play(audio.DecodePCM(raw))
	if err != nil {
		Logger().Warn("sound not started", zap.Error(err))
		return -1
	}
	return int64(id)
}

func (h *AudioHost) sound(id int64) (audio.SoundID, bool) {
	if id < 0 {
		return 0, false
	}
	return audio.SoundID(id), true
}

func (h *AudioHost) Functions() []runtime.Func {
	oneI64 := []api.ValueType{runtime.I64}
	idF32 := []api.ValueType{runtime.I64, runtime.F32}
	return []runtime.Func{
		{
			Name:   "play_audio",
			Params: twoI32,
			Handler: func(_ context.Context, mod api.Module, stack []uint64) {
				stack[0] = api.EncodeI64(h.Play(runtime.ViewOf(mod),
					api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
			},
			Results: oneI64,
		},
		{
			Name:   "stop_audio",
			Params: oneI64,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				if id, ok := h.sound(int64(stack[0])); ok {
					h.mgr.Stop(id)
				}
			},
			Results: noValues,
		},
		{
			Name:   "stop_all_audio",
			Params: noValues,
			Handler: func(context.Context, api.Module, []uint64) {
				h.mgr.StopAll()
			},
			Results: noValues,
		},
		{
			Name:   "set_audio_volume",
			Params: idF32,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				if id, ok := h.sound(int64(stack[0])); ok {
					h.mgr.SetVolume(id, float64(api.DecodeF32(stack[1])))
				}
			},
			Results: noValues,
		},
		{
			Name:   "set_audio_pitch",
			Params: idF32,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				if id, ok := h.sound(int64(stack[0])); ok {
					h.mgr.SetPitch(id, float64(api.DecodeF32(stack[1])))
				}
			},
			Results: noValues,
		},
		{
			Name:   "is_audio_playing",
			Params: oneI64,
			Handler: func(_ context.Context, _ api.Module, stack []uint64) {
				id, ok := h.sound(int64(stack[0]))
				stack[0] = boolResult(ok && h.mgr.Playing(id))
			},
			Results: oneI32,
		},
	}
}
