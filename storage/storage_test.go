package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_ReadWrite(t *testing.T) {
	s := New(16)

	if n := s.WriteAt(2, []byte{1, 2, 3}); n != 3 {
		t.Fatalf("WriteAt = %d, want 3", n)
	}
	if !s.Dirty() {
		t.Fatal("write should mark the store dirty")
	}

	buf := make([]byte, 5)
	if n := s.ReadAt(1, buf); n != 5 {
		t.Fatalf("ReadAt = %d, want 5", n)
	}
	if !bytes.Equal(buf, []byte{0, 1, 2, 3, 0}) {
		t.Fatalf("read %v", buf)
	}
}

func TestStore_Clipping(t *testing.T) {
	tests := []struct {
		name   string
		offset uint32
		length int
		want   int
	}{
		{"inside", 0, 16, 16},
		{"tail", 12, 10, 4},
		{"at end", 16, 4, 0},
		{"past end", 100, 4, 0},
		{"huge offset", 0xFFFFFFFF, 4, 0},
		{"empty", 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(16)
			if n := s.WriteAt(tt.offset, make([]byte, tt.length)); n != tt.want {
				t.Errorf("WriteAt = %d, want %d", n, tt.want)
			}
			if n := s.ReadAt(tt.offset, make([]byte, tt.length)); n != tt.want {
				t.Errorf("ReadAt = %d, want %d", n, tt.want)
			}
			if got := s.Clip(tt.offset, uint32(tt.length)); int(got) != tt.want {
				t.Errorf("Clip = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStore_DefaultSize(t *testing.T) {
	if New(0).Size() != DefaultSize {
		t.Fatal("New(0) should use DefaultSize")
	}
}

func TestStore_Clear(t *testing.T) {
	s := New(8)
	s.WriteAt(0, []byte{9, 9, 9})
	s.Clear()
	buf := make([]byte, 8)
	s.ReadAt(0, buf)
	if !bytes.Equal(buf, make([]byte, 8)) {
		t.Fatalf("Clear left %v", buf)
	}
}

func TestStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	s := New(8)
	if err := s.Load(path); err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}
	if err := s.Flush(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("clean store should not be written")
	}

	s.WriteAt(4, []byte{7, 8})
	if err := s.Flush(path); err != nil {
		t.Fatal(err)
	}
	if s.Dirty() {
		t.Fatal("Flush should clear dirty")
	}

	loaded := New(8)
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 8)
	loaded.ReadAt(0, buf)
	if !bytes.Equal(buf, []byte{0, 0, 0, 0, 7, 8, 0, 0}) {
		t.Fatalf("loaded %v", buf)
	}
}

func TestStore_LoadResizes(t *testing.T) {
	dir := t.TempDir()

	short := filepath.Join(dir, "short.bin")
	if err := os.WriteFile(short, []byte{1, 2}, 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(4)
	s.WriteAt(0, []byte{9, 9, 9, 9})
	if err := s.Load(short); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 4)
	s.ReadAt(0, buf)
	if !bytes.Equal(buf, []byte{1, 2, 0, 0}) {
		t.Fatalf("short file loaded as %v", buf)
	}

	long := filepath.Join(dir, "long.bin")
	if err := os.WriteFile(long, []byte{1, 2, 3, 4, 5, 6}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(long); err != nil {
		t.Fatal(err)
	}
	if s.Size() != 4 {
		t.Fatal("Load must not change the store size")
	}
}

func TestStore_LoadError(t *testing.T) {
	if err := New(4).Load(t.TempDir()); err == nil {
		t.Fatal("loading a directory should fail")
	}
}
