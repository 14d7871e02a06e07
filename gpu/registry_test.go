package gpu

import (
	"testing"

	"github.com/wippyai/cartridge-host/errors"
	"github.com/wippyai/cartridge-host/protocol"
	"github.com/wippyai/cartridge-host/resource"
)

func TestTextureRegistry_CreateFind(t *testing.T) {
	r := NewTextureRegistry()

	for want := resource.ID(0); want < 3; want++ {
		id, c, err := r.Create(1, 1, []byte{1, 2, 3, 4})
		if err != nil {
			t.Fatal(err)
		}
		if id != want {
			t.Fatalf("ID = %d, want %d", id, want)
		}
		c.Release()
	}

	c, ok := r.Find(1)
	if !ok {
		t.Fatal("Find(1) missed")
	}
	if got := c.GetMut().At(0, 0); got != [4]byte{1, 2, 3, 4} {
		t.Fatalf("pixel = %v", got)
	}

	if _, ok := r.Find(3); ok {
		t.Fatal("Find(3) should miss")
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
}

func TestTextureRegistry_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		w, h   uint32
		pixels []byte
	}{
		{"size mismatch", 2, 2, make([]byte, 15)},
		{"dimensions wrap to zero", 0x80000000, 0x80000000, nil},
		{"wide", protocol.MaxTextureSize + 1, 1, make([]byte, (protocol.MaxTextureSize+1)*4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTextureRegistry()
			_, _, err := r.Create(tt.w, tt.h, tt.pixels)
			var e *errors.Error
			if !errors.As(err, &e) || e.Kind != errors.KindInvalidData {
				t.Fatalf("expected invalid data error, got %v", err)
			}
			if r.Len() != 0 || r.Table().NextID() != 0 {
				t.Fatal("rejected texture must not consume an ID")
			}
		})
	}
}

func TestTextureRegistry_Fallback(t *testing.T) {
	r := NewTextureRegistry()

	def := r.Default().GetMut()
	if def.Width != 8 || def.Height != 8 || len(def.Pixels) != 8*8*4 {
		t.Fatalf("fallback is %dx%d with %d bytes", def.Width, def.Height, len(def.Pixels))
	}
	if def.At(0, 0) != [4]byte{0xFF, 0, 0xFF, 0xFF} {
		t.Fatalf("(0,0) = %v, want magenta", def.At(0, 0))
	}
	if def.At(1, 0) != [4]byte{0, 0, 0, 0xFF} {
		t.Fatalf("(1,0) = %v, want black", def.At(1, 0))
	}

	c, found := r.Resolve(99)
	if found {
		t.Fatal("Resolve(99) should fall back")
	}
	if c.GetMut().Width != 8 {
		t.Fatal("Resolve should return the fallback")
	}
	if r.Len() != 0 {
		t.Fatal("fallback is not a registered texture")
	}
}

func TestMeshRegistry(t *testing.T) {
	r := NewMeshRegistry()

	id0, _ := r.Create(protocol.Triangles)
	id1, m := r.Create(protocol.Quads)
	if id0 != 0 || id1 != 1 {
		t.Fatalf("IDs = %d, %d", id0, id1)
	}
	if m.GetMut().Kind != protocol.Quads {
		t.Fatal("kind not stored")
	}

	m.GetMut().Append(protocol.Vertex{})
	found, ok := r.Find(id1)
	if !ok || len(found.GetMut().Vertices) != 1 {
		t.Fatal("Find should share the stored mesh")
	}

	if _, ok := r.Find(2); ok {
		t.Fatal("Find(2) should miss")
	}
}

func TestRegistry_MissEvents(t *testing.T) {
	r := NewMeshRegistry()
	var misses []resource.ID
	r.Table().Subscribe(resource.ObserverFunc(func(e resource.Event) {
		if e.Type == resource.EventMiss {
			misses = append(misses, e.ID)
		}
	}))

	r.Find(5)
	if len(misses) != 1 || misses[0] != 5 {
		t.Fatalf("misses = %v", misses)
	}
}
