package gpu

import (
	"fmt"

	"github.com/wippyai/cartridge-host/cell"
	"github.com/wippyai/cartridge-host/errors"
	"github.com/wippyai/cartridge-host/protocol"
	"github.com/wippyai/cartridge-host/resource"
)

// Texture is an RGBA image, 4 bytes per pixel, rows top to bottom.
type Texture struct {
	Pixels []byte
	Width  uint32
	Height uint32
}

// At returns the RGBA bytes of pixel (x, y).
func (t *Texture) At(x, y uint32) [4]byte {
	i := (uint64(y)*uint64(t.Width) + uint64(x)) * 4
	return [4]byte{t.Pixels[i], t.Pixels[i+1], t.Pixels[i+2], t.Pixels[i+3]}
}

const fallbackSize = 8

// fallbackTexture is an 8x8 magenta and black checkerboard.
func fallbackTexture() Texture {
	px := make([]byte, fallbackSize*fallbackSize*4)
	for y := 0; y < fallbackSize; y++ {
		for x := 0; x < fallbackSize; x++ {
			i := (y*fallbackSize + x) * 4
			if (x+y)%2 == 0 {
				px[i], px[i+2] = 0xFF, 0xFF
			}
			px[i+3] = 0xFF
		}
	}
	return Texture{Width: fallbackSize, Height: fallbackSize, Pixels: px}
}

// TextureRegistry stores textures by ID and owns the fallback texture.
type TextureRegistry struct {
	table    *resource.Table[Texture]
	fallback *cell.Cell[Texture]
}

// NewTextureRegistry creates an empty registry.
func NewTextureRegistry() *TextureRegistry {
	return &TextureRegistry{
		table:    resource.NewTable[Texture]("texture"),
		fallback: cell.New(fallbackTexture()),
	}
}

// Create stores a new texture. Neither side may exceed
// protocol.MaxTextureSize and len(rgba) must be w*h*4.
func (r *TextureRegistry) Create(w, h uint32, rgba []byte) (resource.ID, *cell.Cell[Texture], error) {
	if w > protocol.MaxTextureSize || h > protocol.MaxTextureSize {
		return 0, nil, errors.InvalidData(errors.PhaseExecute, []string{"texture"},
			fmt.Sprintf("texture %dx%d exceeds %d pixels per side", w, h, protocol.MaxTextureSize))
	}
	if uint64(len(rgba)) != uint64(w)*uint64(h)*4 {
		return 0, nil, errors.InvalidData(errors.PhaseExecute, []string{"texture"},
			"pixel data does not match dimensions")
	}
	id, c := r.table.Create(Texture{Width: w, Height: h, Pixels: rgba})
	return id, c, nil
}

// Find looks up a texture.
func (r *TextureRegistry) Find(id resource.ID) (*cell.Cell[Texture], bool) {
	return r.table.Find(id)
}

// Default returns the fallback texture.
func (r *TextureRegistry) Default() *cell.Cell[Texture] {
	return r.fallback.Clone()
}

// Resolve returns the texture for id, or the fallback if there is none.
// found reports which.
func (r *TextureRegistry) Resolve(id resource.ID) (c *cell.Cell[Texture], found bool) {
	if c, ok := r.table.Find(id); ok {
		return c, true
	}
	return r.Default(), false
}

// Len returns the number of registered textures, fallback excluded.
func (r *TextureRegistry) Len() int {
	return r.table.Len()
}

// Table exposes the underlying table for observers.
func (r *TextureRegistry) Table() *resource.Table[Texture] {
	return r.table
}
