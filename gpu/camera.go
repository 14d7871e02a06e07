package gpu

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch is the largest pitch magnitude, 89 degrees in radians.
var MaxPitch = mgl32.DegToRad(89)

// CameraSize is the encoded size of a camera transform: five f32 values.
const CameraSize = 5 * 4

// CameraState is a camera position with yaw and pitch in radians.
type CameraState struct {
	X, Y, Z    float32
	Yaw, Pitch float32
}

// Forward returns the unit view direction. Yaw 0 looks down +X.
func (c CameraState) Forward() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	return mgl32.Vec3{
		cp * float32(math.Cos(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		cp * float32(math.Sin(float64(c.Yaw))),
	}
}

// View returns the world-to-camera matrix.
func (c CameraState) View() mgl32.Mat4 {
	eye := mgl32.Vec3{c.X, c.Y, c.Z}
	return mgl32.LookAtV(eye, eye.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

// AppendBinary appends x, y, z, yaw, pitch as little-endian f32.
func (c CameraState) AppendBinary(dst []byte) []byte {
	for _, v := range [...]float32{c.X, c.Y, c.Z, c.Yaw, c.Pitch} {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// Camera holds the guest-controlled camera. Safe for concurrent use.
type Camera struct {
	state CameraState
	mu    sync.Mutex
}

// Get returns the current transform.
func (c *Camera) Get() CameraState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Set replaces the transform. Pitch is clamped to [-MaxPitch, MaxPitch].
func (c *Camera) Set(x, y, z, yaw, pitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = CameraState{X: x, Y: y, Z: z, Yaw: yaw, Pitch: mgl32.Clamp(pitch, -MaxPitch, MaxPitch)}
}

// Projection returns a perspective projection for the given aspect ratio.
func Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(70), aspect, 0.05, 1000)
}
