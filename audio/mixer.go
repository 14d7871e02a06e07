package audio

import (
	"encoding/binary"
	"math"
	"sync"
)

// Mixer is a Backend that renders all voices into a single 16-bit
// little-endian stereo stream read through Read. Safe for concurrent use.
type Mixer struct {
	voices     []*mixVoice
	sampleRate int
	mu         sync.Mutex
}

// NewMixer creates a mixer producing sampleRate frames per second.
func NewMixer(sampleRate int) *Mixer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Mixer{sampleRate: sampleRate}
}

// SampleRate returns the output rate.
func (m *Mixer) SampleRate() int {
	return m.sampleRate
}

// Play implements Backend.
func (m *Mixer) Play(c Clip) (Voice, error) {
	rate := float64(c.SampleRate)
	if rate <= 0 {
		rate = float64(m.sampleRate)
	}
	v := &mixVoice{
		clip:   c,
		volume: 1,
		pitch:  1,
		step:   rate / float64(m.sampleRate),
	}
	m.mu.Lock()
	m.voices = append(m.voices, v)
	m.mu.Unlock()
	return v, nil
}

// Voices returns the number of voices still producing sound.
func (m *Mixer) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.voices {
		if v.Playing() {
			n++
		}
	}
	return n
}

// Read fills p with mixed frames. It always fills whole frames and never
// returns an error; silence is produced when nothing plays.
func (m *Mixer) Read(p []byte) (int, error) {
	frames := len(p) / 4

	m.mu.Lock()
	defer m.mu.Unlock()

	for f := 0; f < frames; f++ {
		var l, r float64
		for _, v := range m.voices {
			vl, vr, ok := v.next()
			if ok {
				l += vl
				r += vr
			}
		}
		binary.LittleEndian.PutUint16(p[f*4:], uint16(saturate(l)))
		binary.LittleEndian.PutUint16(p[f*4+2:], uint16(saturate(r)))
	}

	live := m.voices[:0]
	for _, v := range m.voices {
		if v.Playing() {
			live = append(live, v)
		}
	}
	clear(m.voices[len(live):])
	m.voices = live

	return frames * 4, nil
}

// Close implements Backend. It silences every voice.
func (m *Mixer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.voices {
		v.Stop()
	}
	m.voices = nil
	return nil
}

func saturate(v float64) int16 {
	switch {
	case v >= math.MaxInt16:
		return math.MaxInt16
	case v <= math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}

type mixVoice struct {
	clip    Clip
	pos     float64
	volume  float64
	pitch   float64
	step    float64
	stopped bool
	mu      sync.Mutex
}

func (v *mixVoice) next() (l, r float64, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := int(v.pos)
	if v.stopped || i >= v.clip.Frames() {
		return 0, 0, false
	}
	l = float64(v.clip.Samples[2*i]) * v.volume
	r = float64(v.clip.Samples[2*i+1]) * v.volume
	v.pos += v.step * v.pitch
	return l, r, true
}

func (v *mixVoice) Stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
}

func (v *mixVoice) SetVolume(vol float64) {
	v.mu.Lock()
	v.volume = vol
	v.mu.Unlock()
}

func (v *mixVoice) SetPitch(p float64) {
	v.mu.Lock()
	v.pitch = p
	v.mu.Unlock()
}

func (v *mixVoice) Playing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.stopped && int(v.pos) < v.clip.Frames()
}
