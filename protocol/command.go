package protocol

// Command is one decoded GPU command record.
type Command interface {
	Opcode() Opcode
	// payloadSize is the encoded size after the opcode byte.
	payloadSize() int
}

type (
	// Push duplicates the top of the transform stack.
	Push struct{}
	// Pop discards the top of the transform stack.
	Pop struct{}
	// PushRecord opens a new recorded mesh.
	PushRecord struct{ Kind PrimitiveKind }
	// PopRecord closes the innermost recorded mesh.
	PopRecord struct{}
	// DrawRecorded draws a previously recorded mesh.
	DrawRecorded struct{ ID uint32 }
	// EmitVertex appends a vertex to the open mesh.
	EmitVertex struct{ Vertex Vertex }
	// BindTexture selects a texture for subsequent draws.
	BindTexture struct{ ID uint32 }
	// Identity resets the top of the transform stack.
	Identity struct{}
)

// RegisterTexture uploads RGBA pixels as a new texture.
// len(Pixels) is Width*Height*4.
type RegisterTexture struct {
	Pixels []byte
	Width  uint32
	Height uint32
}

// Translate right-multiplies a translation onto the top matrix.
type Translate struct{ X, Y, Z float32 }

// RotateAxis right-multiplies a rotation of Angle radians about (X, Y, Z).
type RotateAxis struct{ X, Y, Z, Angle float32 }

// RotateEuler right-multiplies yaw (Y), pitch (X) and roll (Z) rotations, in that order.
type RotateEuler struct{ Yaw, Pitch, Roll float32 }

// Scale right-multiplies a scale onto the top matrix.
type Scale struct{ X, Y, Z float32 }

// LoadMatrix replaces the top matrix.
type LoadMatrix struct{ M Matrix }

// MulMatrix right-multiplies the top matrix.
type MulMatrix struct{ M Matrix }

func (Push) Opcode() Opcode            { return OpPush }
func (Pop) Opcode() Opcode             { return OpPop }
func (PushRecord) Opcode() Opcode      { return OpPushRecord }
func (PopRecord) Opcode() Opcode       { return OpPopRecord }
func (DrawRecorded) Opcode() Opcode    { return OpDrawRecorded }
func (EmitVertex) Opcode() Opcode      { return OpEmitVertex }
func (BindTexture) Opcode() Opcode     { return OpBindTexture }
func (RegisterTexture) Opcode() Opcode { return OpRegisterTexture }
func (Translate) Opcode() Opcode       { return OpTranslate }
func (RotateAxis) Opcode() Opcode      { return OpRotateAxis }
func (RotateEuler) Opcode() Opcode     { return OpRotateEuler }
func (Scale) Opcode() Opcode           { return OpScale }
func (LoadMatrix) Opcode() Opcode      { return OpLoadMatrix }
func (MulMatrix) Opcode() Opcode       { return OpMulMatrix }
func (Identity) Opcode() Opcode        { return OpIdentity }

func (Push) payloadSize() int              { return 0 }
func (Pop) payloadSize() int               { return 0 }
func (PushRecord) payloadSize() int        { return 1 }
func (PopRecord) payloadSize() int         { return 0 }
func (DrawRecorded) payloadSize() int      { return 4 }
func (EmitVertex) payloadSize() int        { return vertexSize }
func (BindTexture) payloadSize() int       { return 4 }
func (c RegisterTexture) payloadSize() int { return 8 + len(c.Pixels) }
func (Translate) payloadSize() int         { return vec3Size }
func (RotateAxis) payloadSize() int        { return vec4Size }
func (RotateEuler) payloadSize() int       { return vec3Size }
func (Scale) payloadSize() int             { return vec3Size }
func (LoadMatrix) payloadSize() int        { return matrixSize }
func (MulMatrix) payloadSize() int         { return matrixSize }
func (Identity) payloadSize() int          { return 0 }

// EncodedSize returns the full record size of c, opcode included.
func EncodedSize(c Command) int {
	return 1 + c.payloadSize()
}
