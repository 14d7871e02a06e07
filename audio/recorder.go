package audio

import (
	"encoding/binary"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/wippyai/cartridge-host/errors"
)

// Recorder is a Backend for headless runs. It mixes voices like Mixer
// and, as the host advances time, appends the mix to a WAV file written on
// Close.
type Recorder struct {
	*Mixer
	path    string
	samples []int
	scratch []byte
	carry   float64
}

// NewRecorder creates a recorder writing to path.
func NewRecorder(path string, sampleRate int) *Recorder {
	return &Recorder{Mixer: NewMixer(sampleRate), path: path}
}

// Advance renders d worth of audio. Fractional frames carry over.
func (r *Recorder) Advance(d time.Duration) {
	exact := d.Seconds()*float64(r.SampleRate()) + r.carry
	frames := int(exact)
	r.carry = exact - float64(frames)
	if frames <= 0 {
		return
	}

	if cap(r.scratch) < frames*4 {
		r.scratch = make([]byte, frames*4)
	}
	buf := r.scratch[:frames*4]
	_, _ = r.Mixer.Read(buf)
	for i := 0; i < len(buf); i += 2 {
		r.samples = append(r.samples, int(int16(binary.LittleEndian.Uint16(buf[i:]))))
	}
}

// Frames returns the number of recorded stereo frames.
func (r *Recorder) Frames() int {
	return len(r.samples) / 2
}

// Close stops every voice and writes the WAV file.
func (r *Recorder) Close() error {
	_ = r.Mixer.Close()

	f, err := os.Create(r.path)
	if err != nil {
		return errors.IO(errors.PhaseAudio, "create "+r.path, err)
	}

	enc := wav.NewEncoder(f, r.SampleRate(), 16, 2, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: r.SampleRate()},
		Data:           r.samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return errors.IO(errors.PhaseAudio, "encode "+r.path, err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return errors.IO(errors.PhaseAudio, "finish "+r.path, err)
	}
	if err := f.Close(); err != nil {
		return errors.IO(errors.PhaseAudio, "close "+r.path, err)
	}
	return nil
}

// Nop is a Backend that plays nothing. Its voices finish at once.
type Nop struct{}

// Play implements Backend.
func (Nop) Play(Clip) (Voice, error) { return nopVoice{}, nil }

// Close implements Backend.
func (Nop) Close() error { return nil }

type nopVoice struct{}

func (nopVoice) Stop()             {}
func (nopVoice) SetVolume(float64) {}
func (nopVoice) SetPitch(float64)  {}
func (nopVoice) Playing() bool     { return false }
