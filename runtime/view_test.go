package runtime

import (
	"bytes"
	"math"
	"testing"

	cartridge "github.com/wippyai/cartridge-host"
	"github.com/wippyai/cartridge-host/errors"
)

func TestView_BoundsGrid(t *testing.T) {
	const size = 64 * 1024
	v := NewView(cartridge.NewBuffer(size))

	tests := []struct {
		name   string
		ptr    uint32
		length uint32
		ok     bool
	}{
		{"zero length at zero", 0, 0, true},
		{"zero length at end", size, 0, true},
		{"zero length past end", size + 1, 0, false},
		{"first byte", 0, 1, true},
		{"last byte", size - 1, 1, true},
		{"whole memory", 0, size, true},
		{"one past end", size - 1, 2, false},
		{"ptr at end", size, 1, false},
		{"length exceeds memory", 0, size + 1, false},
		{"wraparound", math.MaxUint32, 2, false},
		{"max ptr and length", math.MaxUint32, math.MaxUint32, false},
		{"large ptr small length", 0x80000000, 16, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(tt.ptr, tt.length)
			if (err == nil) != tt.ok {
				t.Fatalf("Check = %v, want ok=%v", err, tt.ok)
			}
			if !tt.ok && !errors.Is(err, errors.ErrOutOfBounds) {
				t.Fatalf("error %v should be out_of_bounds", err)
			}

			b, err := v.Read(tt.ptr, tt.length)
			if (err == nil) != tt.ok {
				t.Fatalf("Read err = %v", err)
			}
			if tt.ok && uint32(len(b)) != tt.length {
				t.Fatalf("Read returned %d bytes", len(b))
			}

			if tt.length <= 4096 {
				if err := v.Write(tt.ptr, make([]byte, tt.length)); (err == nil) != tt.ok {
					t.Fatalf("Write err = %v", err)
				}
			}
			if err := v.Fill(tt.ptr, tt.length, 0xAA); (err == nil) != tt.ok {
				t.Fatalf("Fill err = %v", err)
			}
		})
	}
}

func TestView_RefusedWriteLeavesMemory(t *testing.T) {
	buf := cartridge.NewBuffer(8)
	v := NewView(buf)

	if err := v.Write(6, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected refusal")
	}
	if !bytes.Equal(buf, make([]byte, 8)) {
		t.Fatalf("memory changed: %v", []byte(buf))
	}
	if err := v.Fill(4, 5, 9); err == nil {
		t.Fatal("expected refusal")
	}
	if !bytes.Equal(buf, make([]byte, 8)) {
		t.Fatalf("memory changed: %v", []byte(buf))
	}
}

func TestView_NilMemory(t *testing.T) {
	v := NewView(nil)
	if v.Size() != 0 {
		t.Fatal("nil memory has size 0")
	}
	if _, err := v.Read(0, 0); err != nil {
		t.Fatalf("empty read should succeed: %v", err)
	}
	if _, err := v.Read(0, 1); err == nil {
		t.Fatal("read from nil memory should fail")
	}
	if ViewOf(nil).Size() != 0 {
		t.Fatal("ViewOf(nil) should be empty")
	}
}

func TestView_Scalars(t *testing.T) {
	buf := cartridge.NewBuffer(32)
	v := NewView(buf)

	if err := v.WriteU32(4, 0xCAFEBABE); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf[4:8], []byte{0xBE, 0xBA, 0xFE, 0xCA}) {
		t.Fatalf("WriteU32 layout: %x", buf[4:8])
	}
	got, err := v.ReadU32(4)
	if err != nil || got != 0xCAFEBABE {
		t.Fatalf("ReadU32 = %x, %v", got, err)
	}

	if err := v.WriteF32s(8, 1, -2); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf[8:16], []byte{0, 0, 0x80, 0x3F, 0, 0, 0, 0xC0}) {
		t.Fatalf("WriteF32s layout: %x", buf[8:16])
	}
	if err := v.WriteF32s(24, 1, 2, 3); err == nil {
		t.Fatal("WriteF32s past end should fail")
	}
	if _, err := v.ReadU32(30); err == nil {
		t.Fatal("ReadU32 past end should fail")
	}
}

func TestView_Copy(t *testing.T) {
	tests := []struct {
		name     string
		dst, src uint32
		length   uint32
		want     []byte
		ok       bool
	}{
		{"disjoint", 4, 0, 3, []byte{1, 2, 3, 4, 1, 2, 3, 8}, true},
		{"overlap forward", 1, 0, 4, []byte{1, 1, 2, 3, 4, 6, 7, 8}, true},
		{"overlap backward", 0, 2, 4, []byte{3, 4, 5, 6, 5, 6, 7, 8}, true},
		{"src out of range", 0, 6, 3, nil, false},
		{"dst out of range", 6, 0, 3, nil, false},
		{"zero length", 8, 8, 0, []byte{1, 2, 3, 4, 5, 6, 7, 8}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := cartridge.Buffer{1, 2, 3, 4, 5, 6, 7, 8}
			err := NewView(buf).Copy(tt.dst, tt.src, tt.length)
			if (err == nil) != tt.ok {
				t.Fatalf("Copy err = %v", err)
			}
			if tt.ok && !bytes.Equal(buf, tt.want) {
				t.Fatalf("memory = %v, want %v", []byte(buf), tt.want)
			}
			if !tt.ok && !bytes.Equal(buf, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
				t.Fatal("refused copy changed memory")
			}
		})
	}
}

func TestView_BytesCopies(t *testing.T) {
	buf := cartridge.Buffer("hello")
	v := NewView(buf)

	b, err := v.Bytes(0, 5)
	if err != nil {
		t.Fatal(err)
	}
	buf[0] = 'j'
	if string(b) != "hello" {
		t.Fatal("Bytes must copy")
	}

	s, err := v.String(0, 5)
	if err != nil || s != "jello" {
		t.Fatalf("String = %q, %v", s, err)
	}
}
