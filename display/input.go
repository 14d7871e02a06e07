package display

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/wippyai/cartridge-host/input"
)

// Keyboard copies window input into an input.State once per tick.
type Keyboard struct {
	state   *input.State
	lastX   int
	lastY   int
	grabbed bool
	primed  bool
}

// NewKeyboard feeds s.
func NewKeyboard(s *input.State) *Keyboard {
	return &Keyboard{state: s}
}

// Poll reads ebiten's input state. Call it from Game.Update before the
// guest runs.
func (k *Keyboard) Poll() {
	for ek, gk := range keyMap {
		k.state.SetKey(gk, ebiten.IsKeyPressed(ek))
	}
	for eb, b := range buttonMap {
		k.state.SetButton(b, ebiten.IsMouseButtonPressed(eb))
	}
	k.state.Type(ebiten.AppendInputChars(nil)...)

	x, y := ebiten.CursorPosition()
	if k.primed {
		k.state.AddDelta(float64(x-k.lastX), float64(y-k.lastY))
	}
	k.lastX, k.lastY, k.primed = x, y, true
	k.state.SetCursor(int32(x), int32(y))

	if grab := k.state.Grabbed(); grab != k.grabbed {
		k.grabbed = grab
		if grab {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
		}
	}
}
