package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/bits"

	"github.com/wippyai/cartridge-host/errors"
)

// Decode parses a whole submission. It either returns every command in
// order or an error and no commands. RegisterTexture pixels are copied, so
// the result does not alias buf.
func Decode(buf []byte) ([]Command, error) {
	d := Decoder{buf: buf}
	var cmds []Command
	for d.More() {
		c, err := d.Next()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

// Decoder reads commands one record at a time.
type Decoder struct {
	buf []byte
	off int
	// start of the record being decoded, for error offsets
	rec int
}

// NewDecoder returns a decoder over buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// More reports whether unread bytes remain.
func (d *Decoder) More() bool {
	return d.off < len(d.buf)
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.off
}

// Next decodes the next record. It returns io.EOF once the buffer is
// consumed.
func (d *Decoder) Next() (Command, error) {
	if !d.More() {
		return nil, io.EOF
	}
	d.rec = d.off
	op := Opcode(d.buf[d.off])
	d.off++

	switch op {
	case OpPush:
		return Push{}, nil
	case OpPop:
		return Pop{}, nil
	case OpPopRecord:
		return PopRecord{}, nil
	case OpIdentity:
		return Identity{}, nil

	case OpPushRecord:
		if err := d.need(op, 1); err != nil {
			return nil, err
		}
		kind := PrimitiveKind(d.buf[d.off])
		d.off++
		if !kind.Valid() {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidEnum).
				Path(op.String(), "kind").
				Value(uint8(kind)).
				Detail("primitive kind %d at offset %d, want 0 or 1", uint8(kind), d.off-1).
				Build()
		}
		return PushRecord{Kind: kind}, nil

	case OpDrawRecorded, OpBindTexture:
		if err := d.need(op, 4); err != nil {
			return nil, err
		}
		id := d.u32()
		if op == OpDrawRecorded {
			return DrawRecorded{ID: id}, nil
		}
		return BindTexture{ID: id}, nil

	case OpEmitVertex:
		if err := d.need(op, vertexSize); err != nil {
			return nil, err
		}
		return EmitVertex{Vertex: Vertex{X: d.f32(), Y: d.f32(), Z: d.f32(), U: d.f32(), V: d.f32()}}, nil

	case OpRegisterTexture:
		if err := d.need(op, 8); err != nil {
			return nil, err
		}
		w, h := d.u32(), d.u32()
		hi, size := bits.Mul64(uint64(w)*uint64(h), 4)
		if hi != 0 || size > uint64(len(d.buf)-d.off) {
			need := math.MaxInt32
			if hi == 0 && size < math.MaxInt32-9 {
				need = int(size) + 9
			}
			return nil, errors.Truncated(op.String(), d.rec, need, len(d.buf)-d.rec)
		}
		if w > MaxTextureSize || h > MaxTextureSize {
			return nil, errors.InvalidData(errors.PhaseDecode, []string{op.String()},
				fmt.Sprintf("texture %dx%d at offset %d exceeds %d pixels per side", w, h, d.rec, MaxTextureSize))
		}
		pixels := make([]byte, size)
		copy(pixels, d.buf[d.off:])
		d.off += int(size)
		return RegisterTexture{Width: w, Height: h, Pixels: pixels}, nil

	case OpTranslate, OpRotateEuler, OpScale:
		if err := d.need(op, vec3Size); err != nil {
			return nil, err
		}
		a, b, c := d.f32(), d.f32(), d.f32()
		switch op {
		case OpTranslate:
			return Translate{X: a, Y: b, Z: c}, nil
		case OpRotateEuler:
			return RotateEuler{Yaw: a, Pitch: b, Roll: c}, nil
		default:
			return Scale{X: a, Y: b, Z: c}, nil
		}

	case OpRotateAxis:
		if err := d.need(op, vec4Size); err != nil {
			return nil, err
		}
		return RotateAxis{X: d.f32(), Y: d.f32(), Z: d.f32(), Angle: d.f32()}, nil

	case OpLoadMatrix, OpMulMatrix:
		if err := d.need(op, matrixSize); err != nil {
			return nil, err
		}
		var m Matrix
		for i := range m {
			m[i] = d.f32()
		}
		if op == OpLoadMatrix {
			return LoadMatrix{M: m}, nil
		}
		return MulMatrix{M: m}, nil
	}

	return nil, errors.UnknownOpcode(byte(op), d.rec)
}

func (d *Decoder) need(op Opcode, n int) error {
	if len(d.buf)-d.off < n {
		return errors.Truncated(op.String(), d.rec, n+1, len(d.buf)-d.rec)
	}
	return nil
}

func (d *Decoder) u32() uint32 {
	v := binary.LittleEndian.Uint32(d.buf[d.off:])
	d.off += 4
	return v
}

func (d *Decoder) f32() float32 {
	return math.Float32frombits(d.u32())
}
