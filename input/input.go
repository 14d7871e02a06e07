// Package input carries keyboard and mouse state to the guest.
//
// Key codes are the GLFW (LWJGL) numbers cartridges are written against;
// mouse buttons are 0 left, 1 right, 2 middle.
package input

import "sync"

// Key is a GLFW key code.
type Key int32

// Key codes. Printable keys use their ASCII value: KeyA+i, Key0+i.
const (
	KeyUnknown      Key = -1
	KeySpace        Key = 32
	KeyApostrophe   Key = 39
	KeyComma        Key = 44
	KeyMinus        Key = 45
	KeyPeriod       Key = 46
	KeySlash        Key = 47
	Key0            Key = 48
	KeySemicolon    Key = 59
	KeyEqual        Key = 61
	KeyA            Key = 65
	KeyLeftBracket  Key = 91
	KeyBackslash    Key = 92
	KeyRightBracket Key = 93
	KeyGraveAccent  Key = 96
	KeyEscape       Key = 256
	KeyEnter        Key = 257
	KeyTab          Key = 258
	KeyBackspace    Key = 259
	KeyInsert       Key = 260
	KeyDelete       Key = 261
	KeyRight        Key = 262
	KeyLeft         Key = 263
	KeyDown         Key = 264
	KeyUp           Key = 265
	KeyPageUp       Key = 266
	KeyPageDown     Key = 267
	KeyHome         Key = 268
	KeyEnd          Key = 269
	KeyCapsLock     Key = 280
	KeyScrollLock   Key = 281
	KeyNumLock      Key = 282
	KeyPrintScreen  Key = 283
	KeyPause        Key = 284
	KeyF1           Key = 290
	KeyKP0          Key = 320
	KeyKPDecimal    Key = 330
	KeyKPDivide     Key = 331
	KeyKPMultiply   Key = 332
	KeyKPSubtract   Key = 333
	KeyKPAdd        Key = 334
	KeyKPEnter      Key = 335
	KeyKPEqual      Key = 336
	KeyLeftShift    Key = 340
	KeyLeftControl  Key = 341
	KeyLeftAlt      Key = 342
	KeyLeftSuper    Key = 343
	KeyRightShift   Key = 344
	KeyRightControl Key = 345
	KeyRightAlt     Key = 346
	KeyRightSuper   Key = 347
	KeyMenu         Key = 348
)

// Button is a mouse button.
type Button int32

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Source is what the input capability reads.
type Source interface {
	KeyDown(k Key) bool
	ButtonDown(b Button) bool
	// Cursor is the pointer position in framebuffer pixels.
	Cursor() (x, y int32)
	// Delta is the pointer motion accumulated this frame.
	Delta() (dx, dy float64)
	// NextChar pops the next typed character.
	NextChar() (rune, bool)
	Grabbed() bool
	SetGrabbed(grab bool)
	// EndFrame resets per-frame state.
	EndFrame()
}

// State is a Source fed by explicit calls. Headless hosts and tests drive
// it directly; the display fills one from the window each tick.
// Safe for concurrent use.
type State struct {
	keys    map[Key]bool
	chars   []rune
	buttons [3]bool
	dx, dy  float64
	x, y    int32
	grabbed bool
	mu      sync.Mutex
}

// NewState returns an idle state.
func NewState() *State {
	return &State{keys: make(map[Key]bool)}
}

// SetKey records a key as held or released.
func (s *State) SetKey(k Key, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if down {
		s.keys[k] = true
	} else {
		delete(s.keys, k)
	}
}

// SetButton records a mouse button as held or released.
func (s *State) SetButton(b Button, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b >= 0 && int(b) < len(s.buttons) {
		s.buttons[b] = down
	}
}

// SetCursor moves the pointer.
func (s *State) SetCursor(x, y int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x, s.y = x, y
}

// AddDelta accumulates pointer motion for this frame.
func (s *State) AddDelta(dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dx += dx
	s.dy += dy
}

// Type queues typed characters.
func (s *State) Type(chars ...rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chars = append(s.chars, chars...)
}

// KeyDown implements Source.
func (s *State) KeyDown(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[k]
}

// ButtonDown implements Source.
func (s *State) ButtonDown(b Button) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b < 0 || int(b) >= len(s.buttons) {
		return false
	}
	return s.buttons[b]
}

// Cursor implements Source.
func (s *State) Cursor() (int32, int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y
}

// Delta implements Source.
func (s *State) Delta() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dx, s.dy
}

// NextChar implements Source.
func (s *State) NextChar() (rune, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chars) == 0 {
		return 0, false
	}
	r := s.chars[0]
	s.chars = s.chars[1:]
	return r, true
}

// Grabbed implements Source.
func (s *State) Grabbed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grabbed
}

// SetGrabbed implements Source.
func (s *State) SetGrabbed(grab bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grabbed = grab
}

// EndFrame implements Source. It clears accumulated motion.
func (s *State) EndFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dx, s.dy = 0, 0
}
