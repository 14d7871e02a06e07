package runtime

import (
	"encoding/binary"
	"math"

	"github.com/tetratelabs/wazero/api"

	cartridge "github.com/wippyai/cartridge-host"
	"github.com/wippyai/cartridge-host/errors"
)

// View is the bounds-checked window onto guest memory. Every range is
// checked as ptr+len <= size in 64-bit arithmetic before memory is
// touched; a failing check returns an out_of_bounds error and leaves
// memory unchanged.
//
// Slices returned by Read alias guest memory and are only valid until the
// guest runs again or grows its memory.
type View struct {
	mem cartridge.Memory
}

// NewView wraps mem. A nil mem behaves as zero-sized memory.
func NewView(mem cartridge.Memory) *View {
	return &View{mem: mem}
}

// ViewOf returns the view of the calling module's memory.
func ViewOf(mod api.Module) *View {
	if mod == nil {
		return &View{}
	}
	if mem := mod.Memory(); mem != nil {
		return &View{mem: mem}
	}
	return &View{}
}

// Size returns the current memory size in bytes.
func (v *View) Size() uint32 {
	if v.mem == nil {
		return 0
	}
	return v.mem.Size()
}

// Check reports whether [ptr, ptr+length) fits.
func (v *View) Check(ptr, length uint32) error {
	size := v.Size()
	if uint64(ptr)+uint64(length) > uint64(size) {
		return errors.OutOfBounds(ptr, length, size)
	}
	return nil
}

// Read returns the bytes in [ptr, ptr+length), aliasing guest memory.
func (v *View) Read(ptr, length uint32) ([]byte, error) {
	if err := v.Check(ptr, length); err != nil {
		return nil, err
	}
	if length == 0 {
		return []byte{}, nil
	}
	b, ok := v.mem.Read(ptr, length)
	if !ok {
		return nil, errors.OutOfBounds(ptr, length, v.Size())
	}
	return b, nil
}

// Bytes returns a copy of [ptr, ptr+length).
func (v *View) Bytes(ptr, length uint32) ([]byte, error) {
	b, err := v.Read(ptr, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// String returns [ptr, ptr+length) as a string.
func (v *View) String(ptr, length uint32) (string, error) {
	b, err := v.Read(ptr, length)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Write copies data to ptr.
func (v *View) Write(ptr uint32, data []byte) error {
	if uint64(len(data)) > math.MaxUint32 {
		return errors.OutOfBounds(ptr, math.MaxUint32, v.Size())
	}
	if err := v.Check(ptr, uint32(len(data))); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if !v.mem.Write(ptr, data) {
		return errors.OutOfBounds(ptr, uint32(len(data)), v.Size())
	}
	return nil
}

// ReadU32 reads a little-endian u32.
func (v *View) ReadU32(ptr uint32) (uint32, error) {
	b, err := v.Read(ptr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// WriteU32 writes a little-endian u32.
func (v *View) WriteU32(ptr, value uint32) error {
	return v.Write(ptr, binary.LittleEndian.AppendUint32(nil, value))
}

// WriteF32s writes values as consecutive little-endian f32.
func (v *View) WriteF32s(ptr uint32, values ...float32) error {
	buf := make([]byte, 0, 4*len(values))
	for _, f := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return v.Write(ptr, buf)
}

// Fill sets every byte of [ptr, ptr+length) to value.
func (v *View) Fill(ptr, length uint32, value byte) error {
	b, err := v.Read(ptr, length)
	if err != nil {
		return err
	}
	for i := range b {
		b[i] = value
	}
	return nil
}

// Copy moves length bytes from src to dst. The ranges may overlap.
func (v *View) Copy(dst, src, length uint32) error {
	if err := v.Check(src, length); err != nil {
		return err
	}
	to, err := v.Read(dst, length)
	if err != nil {
		return err
	}
	from, _ := v.Read(src, length)
	copy(to, from)
	return nil
}

// Zero clears [ptr, ptr+length).
func (v *View) Zero(ptr, length uint32) error {
	return v.Fill(ptr, length, 0)
}
