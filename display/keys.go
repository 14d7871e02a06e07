package display

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/wippyai/cartridge-host/input"
)

// keyMap maps ebiten keys to the GLFW codes cartridges use.
var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeySpace:          input.KeySpace,
	ebiten.KeyQuote:          input.KeyApostrophe,
	ebiten.KeyComma:          input.KeyComma,
	ebiten.KeyMinus:          input.KeyMinus,
	ebiten.KeyPeriod:         input.KeyPeriod,
	ebiten.KeySlash:          input.KeySlash,
	ebiten.KeySemicolon:      input.KeySemicolon,
	ebiten.KeyEqual:          input.KeyEqual,
	ebiten.KeyBracketLeft:    input.KeyLeftBracket,
	ebiten.KeyBackslash:      input.KeyBackslash,
	ebiten.KeyBracketRight:   input.KeyRightBracket,
	ebiten.KeyBackquote:      input.KeyGraveAccent,
	ebiten.KeyEscape:         input.KeyEscape,
	ebiten.KeyEnter:          input.KeyEnter,
	ebiten.KeyTab:            input.KeyTab,
	ebiten.KeyBackspace:      input.KeyBackspace,
	ebiten.KeyInsert:         input.KeyInsert,
	ebiten.KeyDelete:         input.KeyDelete,
	ebiten.KeyArrowRight:     input.KeyRight,
	ebiten.KeyArrowLeft:      input.KeyLeft,
	ebiten.KeyArrowDown:      input.KeyDown,
	ebiten.KeyArrowUp:        input.KeyUp,
	ebiten.KeyPageUp:         input.KeyPageUp,
	ebiten.KeyPageDown:       input.KeyPageDown,
	ebiten.KeyHome:           input.KeyHome,
	ebiten.KeyEnd:            input.KeyEnd,
	ebiten.KeyCapsLock:       input.KeyCapsLock,
	ebiten.KeyScrollLock:     input.KeyScrollLock,
	ebiten.KeyNumLock:        input.KeyNumLock,
	ebiten.KeyPrintScreen:    input.KeyPrintScreen,
	ebiten.KeyPause:          input.KeyPause,
	ebiten.KeyNumpadDecimal:  input.KeyKPDecimal,
	ebiten.KeyNumpadDivide:   input.KeyKPDivide,
	ebiten.KeyNumpadMultiply: input.KeyKPMultiply,
	ebiten.KeyNumpadSubtract: input.KeyKPSubtract,
	ebiten.KeyNumpadAdd:      input.KeyKPAdd,
	ebiten.KeyNumpadEnter:    input.KeyKPEnter,
	ebiten.KeyNumpadEqual:    input.KeyKPEqual,
	ebiten.KeyShiftLeft:      input.KeyLeftShift,
	ebiten.KeyControlLeft:    input.KeyLeftControl,
	ebiten.KeyAltLeft:        input.KeyLeftAlt,
	ebiten.KeyMetaLeft:       input.KeyLeftSuper,
	ebiten.KeyShiftRight:     input.KeyRightShift,
	ebiten.KeyControlRight:   input.KeyRightControl,
	ebiten.KeyAltRight:       input.KeyRightAlt,
	ebiten.KeyMetaRight:      input.KeyRightSuper,
	ebiten.KeyContextMenu:    input.KeyMenu,
}

// Runs of consecutive GLFW codes.
var (
	letterKeys = []ebiten.Key{
		ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF, ebiten.KeyG, ebiten.KeyH, ebiten.KeyI,
		ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL, ebiten.KeyM, ebiten.KeyN, ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR,
		ebiten.KeyS, ebiten.KeyT, ebiten.KeyU, ebiten.KeyV, ebiten.KeyW, ebiten.KeyX, ebiten.KeyY, ebiten.KeyZ,
	}
	digitKeys = []ebiten.Key{
		ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
	}
	numpadKeys = []ebiten.Key{
		ebiten.KeyNumpad0, ebiten.KeyNumpad1, ebiten.KeyNumpad2, ebiten.KeyNumpad3, ebiten.KeyNumpad4,
		ebiten.KeyNumpad5, ebiten.KeyNumpad6, ebiten.KeyNumpad7, ebiten.KeyNumpad8, ebiten.KeyNumpad9,
	}
	fnKeys = []ebiten.Key{
		ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5, ebiten.KeyF6,
		ebiten.KeyF7, ebiten.KeyF8, ebiten.KeyF9, ebiten.KeyF10, ebiten.KeyF11, ebiten.KeyF12,
	}
)

func init() {
	runs := []struct {
		keys  []ebiten.Key
		first input.Key
	}{
		{letterKeys, input.KeyA},
		{digitKeys, input.Key0},
		{numpadKeys, input.KeyKP0},
		{fnKeys, input.KeyF1},
	}
	for _, r := range runs {
		for i, k := range r.keys {
			keyMap[k] = r.first + input.Key(i)
		}
	}
}

// MapKey returns the GLFW code for k, or input.KeyUnknown.
func MapKey(k ebiten.Key) input.Key {
	if g, ok := keyMap[k]; ok {
		return g
	}
	return input.KeyUnknown
}

var buttonMap = map[ebiten.MouseButton]input.Button{
	ebiten.MouseButtonLeft:   input.ButtonLeft,
	ebiten.MouseButtonRight:  input.ButtonRight,
	ebiten.MouseButtonMiddle: input.ButtonMiddle,
}
