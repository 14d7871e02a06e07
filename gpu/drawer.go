package gpu

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/wippyai/cartridge-host/cell"
	"github.com/wippyai/cartridge-host/protocol"
	"github.com/wippyai/cartridge-host/resource"
)

// TextureRef identifies the texture a draw uses. Pixels are shared with the
// registry and must not be modified.
type TextureRef struct {
	Pixels   []byte
	ID       resource.ID
	Width    uint32
	Height   uint32
	Fallback bool
}

func textureRef(id resource.ID, c *cell.Cell[Texture], found bool) *TextureRef {
	t := c.GetMut()
	return &TextureRef{
		ID:       id,
		Width:    t.Width,
		Height:   t.Height,
		Pixels:   t.Pixels,
		Fallback: !found,
	}
}

// DrawCall is one indexed draw. Vertices are in model space and Transform
// maps them to world space. Texture is nil for an untextured draw.
type DrawCall struct {
	Vertices  []protocol.Vertex
	Indices   []uint32
	Texture   *TextureRef
	Transform mgl32.Mat4
	Mesh      resource.ID
	Immediate bool
}

// Triangles returns the number of triangles in the call.
func (d DrawCall) Triangles() int {
	return len(d.Indices) / 3
}

// Drawer consumes draw calls. Draw runs on the renderer's goroutine.
// Slices in the call must not be modified.
type Drawer interface {
	Draw(DrawCall)
}

// DrawerFunc adapts a function to the Drawer interface.
type DrawerFunc func(DrawCall)

// Draw implements Drawer.
func (f DrawerFunc) Draw(d DrawCall) { f(d) }

// Recorder is a Drawer that keeps every call.
type Recorder struct {
	Calls []DrawCall
}

// Draw implements Drawer.
func (r *Recorder) Draw(d DrawCall) {
	r.Calls = append(r.Calls, d)
}

// Reset drops recorded calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Discard is a Drawer that drops every call.
var Discard Drawer = DrawerFunc(func(DrawCall) {})
