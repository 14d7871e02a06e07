package protocol

import (
	"bytes"
	"io"
	"reflect"
	"testing"

	"github.com/wippyai/cartridge-host/errors"
)

func allCommands() []Command {
	var m Matrix
	for i := range m {
		m[i] = float32(i) * 0.5
	}
	return []Command{
		Push{},
		Pop{},
		PushRecord{Kind: Triangles},
		PushRecord{Kind: Quads},
		PopRecord{},
		DrawRecorded{ID: 7},
		EmitVertex{Vertex: Vertex{X: 1, Y: -2, Z: 3.25, U: 0, V: 1}},
		BindTexture{ID: 0xDEADBEEF},
		RegisterTexture{Width: 2, Height: 1, Pixels: []byte{255, 0, 0, 255, 0, 255, 0, 128}},
		RegisterTexture{Width: 0, Height: 5, Pixels: []byte{}},
		Translate{X: 1, Y: 2, Z: 3},
		RotateAxis{X: 0, Y: 1, Z: 0, Angle: 1.5707964},
		RotateEuler{Yaw: 0.1, Pitch: -0.2, Roll: 0.3},
		Scale{X: 2, Y: 2, Z: 2},
		LoadMatrix{M: m},
		MulMatrix{M: m},
		Identity{},
	}
}

func TestRoundTrip_EachOpcode(t *testing.T) {
	for _, c := range allCommands() {
		t.Run(c.Opcode().String(), func(t *testing.T) {
			buf := Append(nil, c)
			if len(buf) != EncodedSize(c) {
				t.Fatalf("encoded %d bytes, EncodedSize says %d", len(buf), EncodedSize(c))
			}

			cmds, err := Decode(buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(cmds) != 1 {
				t.Fatalf("decoded %d commands, want 1", len(cmds))
			}
			if !reflect.DeepEqual(cmds[0], c) {
				t.Fatalf("decoded %#v, want %#v", cmds[0], c)
			}
			if again := Append(nil, cmds...); !bytes.Equal(again, buf) {
				t.Fatalf("re-encoding differs:\n got %x\nwant %x", again, buf)
			}
		})
	}
}

func TestRoundTrip_Sequence(t *testing.T) {
	var e Encoder
	e.Encode(allCommands()...)

	cmds, err := Decode(e.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(cmds, allCommands()) {
		t.Fatal("sequence did not survive the round trip")
	}
}

func TestDecode_WireLayout(t *testing.T) {
	buf := []byte{
		0x02, 0x00, // PushRecord triangles
		0x05, // EmitVertex 0,0,0,0,0
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0x04, 0x2A, 0x00, 0x00, 0x00, // DrawRecorded 42
		0x08, 0x00, 0x00, 0x80, 0x3F, 0, 0, 0, 0, 0, 0, 0, 0, // Translate 1,0,0
	}
	want := []Command{
		PushRecord{Kind: Triangles},
		EmitVertex{},
		DrawRecorded{ID: 42},
		Translate{X: 1},
	}

	cmds, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(cmds, want) {
		t.Fatalf("got %#v, want %#v", cmds, want)
	}
}

func TestDecode_Empty(t *testing.T) {
	cmds, err := Decode(nil)
	if err != nil || len(cmds) != 0 {
		t.Fatalf("Decode(nil) = %v, %v", cmds, err)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want *errors.Error
	}{
		{"unknown opcode", []byte{0x0F}, errors.ErrUnknownOpcode},
		{"unknown after valid", []byte{0x00, 0x01, 0xFF}, errors.ErrUnknownOpcode},
		{"push record no kind", []byte{0x02}, errors.ErrTruncated},
		{"draw recorded short", []byte{0x04, 1, 2, 3}, errors.ErrTruncated},
		{"bind texture short", []byte{0x06}, errors.ErrTruncated},
		{"emit vertex short", append([]byte{0x05}, make([]byte, 19)...), errors.ErrTruncated},
		{"translate short", append([]byte{0x08}, make([]byte, 11)...), errors.ErrTruncated},
		{"rotate axis short", append([]byte{0x09}, make([]byte, 15)...), errors.ErrTruncated},
		{"euler short", append([]byte{0x0A}, make([]byte, 8)...), errors.ErrTruncated},
		{"scale short", []byte{0x0B, 0}, errors.ErrTruncated},
		{"load matrix short", append([]byte{0x0C}, make([]byte, 63)...), errors.ErrTruncated},
		{"mul matrix short", append([]byte{0x0D}, make([]byte, 60)...), errors.ErrTruncated},
		{"texture header short", []byte{0x07, 1, 0, 0, 0}, errors.ErrTruncated},
		{"texture pixels short", []byte{0x07, 1, 0, 0, 0, 1, 0, 0, 0, 1, 2, 3}, errors.ErrTruncated},
		{"texture huge dimensions", []byte{0x07, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, errors.ErrTruncated},
		{"texture size wraps to zero", []byte{0x07, 0, 0, 0, 0x80, 0, 0, 0, 0x80, 0x06, 0, 0, 0, 0}, errors.ErrTruncated},
		{"texture side over limit", oversizedTexture(), &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindInvalidData}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, err := Decode(tt.buf)
			if err == nil {
				t.Fatalf("expected error, got %d commands", len(cmds))
			}
			if cmds != nil {
				t.Fatal("a rejected submission must yield no commands")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error %v does not match %v", err, tt.want)
			}
		})
	}
}

// oversizedTexture encodes a fully backed texture one pixel wider than
// MaxTextureSize.
func oversizedTexture() []byte {
	w := uint32(MaxTextureSize + 1)
	return Append(nil, RegisterTexture{Width: w, Height: 1, Pixels: make([]byte, w*4)})
}

func TestDecoder_Exhausted(t *testing.T) {
	for _, d := range []*Decoder{NewDecoder(nil), NewDecoder([]byte{byte(OpPush)})} {
		for d.More() {
			if _, err := d.Next(); err != nil {
				t.Fatal(err)
			}
		}
		if c, err := d.Next(); err != io.EOF || c != nil {
			t.Fatalf("Next past end = %v, %v, want io.EOF", c, err)
		}
	}
}

func TestDecode_InvalidPrimitiveKind(t *testing.T) {
	_, err := Decode([]byte{0x02, 0x02})
	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if e.Kind != errors.KindInvalidEnum || e.Value != uint8(2) {
		t.Fatalf("unexpected error %+v", e)
	}
}

func TestDecode_UnknownOpcodeOffset(t *testing.T) {
	buf := Append(nil, Push{}, Translate{}, Pop{})
	buf = append(buf, 0x42)

	_, err := Decode(buf)
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "at offset 15"; !bytes.Contains([]byte(err.Error()), []byte(want)) {
		t.Fatalf("error %q should report %q", err, want)
	}
}

func TestDecode_TexturePixelsCopied(t *testing.T) {
	buf := Append(nil, RegisterTexture{Width: 1, Height: 1, Pixels: []byte{1, 2, 3, 4}})
	cmds, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	buf[9] = 99
	if got := cmds[0].(RegisterTexture).Pixels[0]; got != 1 {
		t.Fatalf("pixels alias the submission buffer: got %d", got)
	}
}

func TestDecoder_Stepwise(t *testing.T) {
	d := NewDecoder(Append(nil, Push{}, Scale{X: 1, Y: 1, Z: 1}))
	var ops []Opcode
	for d.More() {
		c, err := d.Next()
		if err != nil {
			t.Fatal(err)
		}
		ops = append(ops, c.Opcode())
	}
	if len(ops) != 2 || ops[0] != OpPush || ops[1] != OpScale {
		t.Fatalf("ops = %v", ops)
	}
	if d.Offset() != 14 {
		t.Fatalf("Offset = %d, want 14", d.Offset())
	}
}

func TestOpcode_String(t *testing.T) {
	if OpRegisterTexture.String() != "RegisterTexture" {
		t.Errorf("got %q", OpRegisterTexture.String())
	}
	if Opcode(0x30).String() != "Opcode(0x30)" {
		t.Errorf("got %q", Opcode(0x30).String())
	}
	if Opcode(0x0F).Valid() || !OpIdentity.Valid() {
		t.Error("Valid disagrees with the opcode table")
	}
}
