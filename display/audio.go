package display

import (
	"time"

	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/wippyai/cartridge-host/audio"
)

// Speaker is an audio.Backend that plays the software mixer through
// ebiten's audio context.
type Speaker struct {
	*audio.Mixer
	player *ebitenaudio.Player
}

// NewSpeaker opens the audio device at sampleRate. Only one ebiten audio
// context may exist per process.
func NewSpeaker(sampleRate int) (*Speaker, error) {
	mixer := audio.NewMixer(sampleRate)
	ctx := ebitenaudio.NewContext(mixer.SampleRate())
	p, err := ctx.NewPlayer(mixer)
	if err != nil {
		return nil, err
	}
	p.SetBufferSize(50 * time.Millisecond)
	p.Play()
	return &Speaker{Mixer: mixer, player: p}, nil
}

// Close stops the device and silences every voice.
func (s *Speaker) Close() error {
	err := s.player.Close()
	if mErr := s.Mixer.Close(); err == nil {
		err = mErr
	}
	return err
}
