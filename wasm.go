package cartridge

// Memory is guest linear memory. wazero's api.Memory satisfies it.
// Read returns a view aliasing the memory, not a copy; ok is false when the
// range does not fit.
type Memory interface {
	Size() uint32
	Read(offset, length uint32) ([]byte, bool)
	Write(offset uint32, data []byte) bool
}

// Buffer is a Memory backed by a plain byte slice. Used for headless hosts
// and tests.
type Buffer []byte

// NewBuffer allocates a zeroed buffer of size bytes.
func NewBuffer(size uint32) Buffer {
	return make(Buffer, size)
}

// Size returns the buffer length in bytes.
func (b Buffer) Size() uint32 {
	return uint32(len(b))
}

// Read returns the bytes in [offset, offset+length).
func (b Buffer) Read(offset, length uint32) ([]byte, bool) {
	if uint64(offset)+uint64(length) > uint64(len(b)) {
		return nil, false
	}
	return b[offset : offset+length : offset+length], true
}

// Write copies data to offset.
func (b Buffer) Write(offset uint32, data []byte) bool {
	if uint64(offset)+uint64(len(data)) > uint64(len(b)) {
		return false
	}
	copy(b[offset:], data)
	return true
}
