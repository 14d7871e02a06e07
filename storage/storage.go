// Package storage is the cartridge's persistent byte store: a fixed-size
// zero-initialized array saved to a single file between runs.
package storage

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/wippyai/cartridge-host/errors"
)

const (
	// DefaultSize is the store size in bytes.
	DefaultSize = 8 * 1024 * 1024
	// DefaultFile is the file the store persists to.
	DefaultFile = "storage.bin"
)

// Store is a fixed-size byte array. Safe for concurrent use.
type Store struct {
	data  []byte
	mu    sync.Mutex
	dirty bool
}

// New returns a zeroed store of size bytes. size <= 0 means DefaultSize.
func New(size int) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	return &Store{data: make([]byte, size)}
}

// Size returns the store size in bytes.
func (s *Store) Size() uint32 {
	return uint32(len(s.data))
}

// Clip returns how many of length bytes starting at offset lie inside the
// store. An offset at or past the end yields 0.
func (s *Store) Clip(offset, length uint32) uint32 {
	size := uint32(len(s.data))
	if offset >= size {
		return 0
	}
	return min(length, size-offset)
}

// ReadAt copies bytes at offset into dst and returns the count, clipped to
// the store size.
func (s *Store) ReadAt(offset uint32, dst []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.Clip(offset, uint32(len(dst)))
	if n == 0 {
		return 0
	}
	return copy(dst[:n], s.data[offset:])
}

// WriteAt copies src to offset and returns the count, clipped to the store
// size.
func (s *Store) WriteAt(offset uint32, src []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.Clip(offset, uint32(len(src)))
	if n == 0 {
		return 0
	}
	s.dirty = true
	return copy(s.data[offset:], src[:n])
}

// Clear zeroes the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.data)
	s.dirty = true
}

// Dirty reports whether the store changed since the last Load or Flush.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Load replaces the contents with the file at path. A missing file leaves
// the store zeroed. A file of a different size is truncated or zero-padded.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.IO(errors.PhaseStorage, "read "+path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := copy(s.data, data)
	clear(s.data[n:])
	s.dirty = false
	return nil
}

// Flush writes the store to path if it is dirty. The file is replaced
// atomically.
func (s *Store) Flush(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return errors.IO(errors.PhaseStorage, "create temp file", err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(s.data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return errors.IO(errors.PhaseStorage, "write "+name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return errors.IO(errors.PhaseStorage, "close "+name, err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return errors.IO(errors.PhaseStorage, "rename to "+path, err)
	}

	s.dirty = false
	return nil
}
