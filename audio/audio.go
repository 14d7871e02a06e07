// Package audio plays guest PCM clips.
//
// The Manager hands out sound IDs and enforces the voice limit; a Backend
// does the playing. Mixer is a software backend that renders every voice
// into one 16-bit little-endian stereo stream; the display plays that
// stream through ebiten, and Recorder captures it to a WAV file.
package audio

import (
	"encoding/binary"
	"sync"

	"github.com/wippyai/cartridge-host/errors"
)

const (
	// DefaultSampleRate is the rate guest PCM is played at.
	DefaultSampleRate = 44100
	// DefaultMaxSounds is the voice limit.
	DefaultMaxSounds = 1000

	MinVolume = 0.0
	MaxVolume = 10.0
	MinPitch  = 0.1
	MaxPitch  = 10.0
)

// SoundID identifies a started sound. IDs start at 0 and are never reused.
type SoundID uint64

// Clip is interleaved stereo PCM.
type Clip struct {
	Samples    []int16
	SampleRate int
}

// Frames returns the number of stereo frames.
func (c Clip) Frames() int {
	return len(c.Samples) / 2
}

// DecodePCM converts little-endian i16 bytes to samples, dropping an odd
// trailing byte.
func DecodePCM(raw []byte) []int16 {
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return out
}

// Voice controls one playing clip.
type Voice interface {
	Stop()
	SetVolume(v float64)
	SetPitch(p float64)
	Playing() bool
}

// Backend starts voices.
type Backend interface {
	Play(c Clip) (Voice, error)
	Close() error
}

// Manager tracks the active voices of one guest.
type Manager struct {
	backend    Backend
	active     map[SoundID]Voice
	next       SoundID
	maxSounds  int
	sampleRate int
	mu         sync.Mutex
}

// NewManager creates a manager over b. Zero limits select the defaults.
func NewManager(b Backend, maxSounds, sampleRate int) *Manager {
	if maxSounds <= 0 {
		maxSounds = DefaultMaxSounds
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Manager{
		backend:    b,
		active:     make(map[SoundID]Voice),
		maxSounds:  maxSounds,
		sampleRate: sampleRate,
	}
}

// Play starts interleaved stereo samples at the manager's sample rate.
func (m *Manager) Play(samples []int16) (SoundID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.active) >= m.maxSounds {
		return 0, errors.Limit(errors.PhaseAudio, "too many sounds")
	}

	v, err := m.backend.Play(Clip{Samples: samples, SampleRate: m.sampleRate})
	if err != nil {
		return 0, errors.Wrap(errors.PhaseAudio, errors.KindIO, err, "backend refused clip")
	}

	id := m.next
	m.next++
	m.active[id] = v
	return id, nil
}

// Stop stops and forgets a sound. Unknown IDs are ignored.
func (m *Manager) Stop(id SoundID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.active[id]; ok {
		v.Stop()
		delete(m.active, id)
	}
}

// StopAll stops every sound.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, v := range m.active {
		v.Stop()
		delete(m.active, id)
	}
}

// SetVolume sets a linear gain clamped to [MinVolume, MaxVolume].
func (m *Manager) SetVolume(id SoundID, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.active[id]; ok {
		v.SetVolume(clamp(volume, MinVolume, MaxVolume))
	}
}

// SetPitch sets the playback rate clamped to [MinPitch, MaxPitch].
func (m *Manager) SetPitch(id SoundID, pitch float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.active[id]; ok {
		v.SetPitch(clamp(pitch, MinPitch, MaxPitch))
	}
}

// Playing reports whether id is still tracked. A sound that finished on
// its own is tracked until the next Update.
func (m *Manager) Playing(id SoundID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[id]
	return ok
}

// Update forgets sounds that finished playing.
func (m *Manager) Update() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, v := range m.active {
		if !v.Playing() {
			delete(m.active, id)
		}
	}
}

// Active returns the number of tracked sounds.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Close stops every sound and closes the backend.
func (m *Manager) Close() error {
	m.StopAll()
	return m.backend.Close()
}

func clamp(v, lo, hi float64) float64 {
	if v != v {
		return lo
	}
	return max(lo, min(v, hi))
}
