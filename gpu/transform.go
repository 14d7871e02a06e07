package gpu

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/wippyai/cartridge-host/errors"
)

// axisEpsilon is the squared length below which a rotation axis is ignored.
const axisEpsilon = 1e-12

// TransformStack is a bounded stack of model matrices. The bottom entry
// always exists, so depth stays within [1, max].
type TransformStack struct {
	stack []mgl32.Mat4
	max   int
}

// NewTransformStack returns a stack holding one identity matrix.
// maxDepth below 1 is treated as 1.
func NewTransformStack(maxDepth int) *TransformStack {
	if maxDepth < 1 {
		maxDepth = 1
	}
	s := &TransformStack{
		stack: make([]mgl32.Mat4, 1, maxDepth),
		max:   maxDepth,
	}
	s.stack[0] = mgl32.Ident4()
	return s
}

// Depth returns the number of matrices on the stack.
func (s *TransformStack) Depth() int {
	return len(s.stack)
}

// MaxDepth returns the stack capacity.
func (s *TransformStack) MaxDepth() int {
	return s.max
}

// Top returns the current matrix.
func (s *TransformStack) Top() mgl32.Mat4 {
	return s.stack[len(s.stack)-1]
}

// Push duplicates the top matrix.
func (s *TransformStack) Push() error {
	if len(s.stack) >= s.max {
		return errors.StackOverflow("transform", s.max)
	}
	s.stack = append(s.stack, s.Top())
	return nil
}

// Pop discards the top matrix. The base matrix cannot be popped.
func (s *TransformStack) Pop() error {
	if len(s.stack) <= 1 {
		return errors.StackUnderflow("transform")
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// Reset drops everything above the base and resets it to identity.
func (s *TransformStack) Reset() {
	s.stack = s.stack[:1]
	s.stack[0] = mgl32.Ident4()
}

func (s *TransformStack) mul(m mgl32.Mat4) {
	top := &s.stack[len(s.stack)-1]
	*top = top.Mul4(m)
}

// Translate right-multiplies a translation.
func (s *TransformStack) Translate(x, y, z float32) {
	s.mul(mgl32.Translate3D(x, y, z))
}

// Scale right-multiplies a scale.
func (s *TransformStack) Scale(x, y, z float32) {
	s.mul(mgl32.Scale3D(x, y, z))
}

// RotateAxis right-multiplies a rotation of angle radians about (x, y, z).
// The axis need not be normalized; a zero axis leaves the matrix unchanged.
func (s *TransformStack) RotateAxis(x, y, z, angle float32) {
	axis := mgl32.Vec3{x, y, z}
	if axis.LenSqr() <= axisEpsilon {
		return
	}
	s.mul(mgl32.HomogRotate3D(angle, axis.Normalize()))
}

// RotateEuler right-multiplies yaw about Y, then pitch about X, then roll about Z.
func (s *TransformStack) RotateEuler(yaw, pitch, roll float32) {
	r := mgl32.HomogRotate3DY(yaw).
		Mul4(mgl32.HomogRotate3DX(pitch)).
		Mul4(mgl32.HomogRotate3DZ(roll))
	s.mul(r)
}

// Load replaces the top matrix. m is column-major.
func (s *TransformStack) Load(m [16]float32) {
	s.stack[len(s.stack)-1] = mgl32.Mat4(m)
}

// Mul right-multiplies the top matrix by m. m is column-major.
func (s *TransformStack) Mul(m [16]float32) {
	s.mul(mgl32.Mat4(m))
}

// Identity replaces the top matrix with identity.
func (s *TransformStack) Identity() {
	s.stack[len(s.stack)-1] = mgl32.Ident4()
}
