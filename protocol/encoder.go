package protocol

import (
	"encoding/binary"
	"math"
)

// Encoder accumulates commands into a submission buffer.
// The zero value is ready to use.
type Encoder struct {
	buf []byte
}

// Encode appends the records for cmds.
func (e *Encoder) Encode(cmds ...Command) *Encoder {
	e.buf = Append(e.buf, cmds...)
	return e
}

// Bytes returns the accumulated submission.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the accumulated size in bytes.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Reset empties the buffer, keeping its capacity.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Append appends the encoded records for cmds to dst.
// A RegisterTexture whose Pixels length disagrees with its dimensions is
// written as given; Decode will reject it.
func Append(dst []byte, cmds ...Command) []byte {
	for _, c := range cmds {
		dst = append(dst, byte(c.Opcode()))
		switch c := c.(type) {
		case PushRecord:
			dst = append(dst, byte(c.Kind))
		case DrawRecorded:
			dst = binary.LittleEndian.AppendUint32(dst, c.ID)
		case BindTexture:
			dst = binary.LittleEndian.AppendUint32(dst, c.ID)
		case EmitVertex:
			dst = appendF32(dst, c.Vertex.X, c.Vertex.Y, c.Vertex.Z, c.Vertex.U, c.Vertex.V)
		case RegisterTexture:
			dst = binary.LittleEndian.AppendUint32(dst, c.Width)
			dst = binary.LittleEndian.AppendUint32(dst, c.Height)
			dst = append(dst, c.Pixels...)
		case Translate:
			dst = appendF32(dst, c.X, c.Y, c.Z)
		case RotateAxis:
			dst = appendF32(dst, c.X, c.Y, c.Z, c.Angle)
		case RotateEuler:
			dst = appendF32(dst, c.Yaw, c.Pitch, c.Roll)
		case Scale:
			dst = appendF32(dst, c.X, c.Y, c.Z)
		case LoadMatrix:
			dst = appendF32(dst, c.M[:]...)
		case MulMatrix:
			dst = appendF32(dst, c.M[:]...)
		}
	}
	return dst
}

func appendF32(dst []byte, vs ...float32) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}
