package protocol

import "fmt"

// Opcode tags a command record.
type Opcode byte

const (
	OpPush Opcode = iota
	OpPop
	OpPushRecord
	OpPopRecord
	OpDrawRecorded
	OpEmitVertex
	OpBindTexture
	OpRegisterTexture
	OpTranslate
	OpRotateAxis
	OpRotateEuler
	OpScale
	OpLoadMatrix
	OpMulMatrix
	OpIdentity
)

var opcodeNames = [...]string{
	OpPush:            "Push",
	OpPop:             "Pop",
	OpPushRecord:      "PushRecord",
	OpPopRecord:       "PopRecord",
	OpDrawRecorded:    "DrawRecorded",
	OpEmitVertex:      "EmitVertex",
	OpBindTexture:     "BindTexture",
	OpRegisterTexture: "RegisterTexture",
	OpTranslate:       "Translate",
	OpRotateAxis:      "RotateAxis",
	OpRotateEuler:     "RotateEuler",
	OpScale:           "Scale",
	OpLoadMatrix:      "LoadMatrix",
	OpMulMatrix:       "MulMatrix",
	OpIdentity:        "Identity",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return fmt.Sprintf("Opcode(0x%02x)", byte(o))
}

// Valid reports whether o is a known opcode.
func (o Opcode) Valid() bool {
	return o <= OpIdentity
}

// PrimitiveKind selects how emitted vertices are grouped into triangles.
type PrimitiveKind uint8

const (
	Triangles PrimitiveKind = 0
	Quads     PrimitiveKind = 1
)

func (k PrimitiveKind) String() string {
	switch k {
	case Triangles:
		return "triangles"
	case Quads:
		return "quads"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", uint8(k))
	}
}

// Valid reports whether k is a known kind.
func (k PrimitiveKind) Valid() bool {
	return k == Triangles || k == Quads
}

// Vertex is a position with texture coordinates.
type Vertex struct {
	X, Y, Z float32
	U, V    float32
}

// Matrix is a 4x4 matrix in column-major order.
type Matrix [16]float32

const (
	vertexSize = 5 * 4
	matrixSize = 16 * 4
	vec3Size   = 3 * 4
	vec4Size   = 4 * 4
)

// MaxTextureSize is the largest RegisterTexture width or height accepted.
const MaxTextureSize = 8192
