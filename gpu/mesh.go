package gpu

import (
	"github.com/wippyai/cartridge-host/cell"
	"github.com/wippyai/cartridge-host/protocol"
	"github.com/wippyai/cartridge-host/resource"
)

// Mesh is an indexed vertex list. Indices are derived as vertices arrive:
// one triangle per 3 vertices, or two per 4 for quads.
type Mesh struct {
	Vertices []protocol.Vertex
	Indices  []uint32
	Texture  *TextureRef
	Kind     protocol.PrimitiveKind
}

// Append adds v and any indices it completes.
func (m *Mesh) Append(v protocol.Vertex) {
	m.Vertices = append(m.Vertices, v)
	n := uint32(len(m.Vertices))
	switch m.Kind {
	case protocol.Triangles:
		if n%3 == 0 {
			m.Indices = append(m.Indices, n-3, n-2, n-1)
		}
	case protocol.Quads:
		if n%4 == 0 {
			m.Indices = append(m.Indices, n-4, n-3, n-2, n-4, n-2, n-1)
		}
	}
}

// Empty reports whether the mesh has no complete primitive.
func (m *Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// MeshRegistry stores meshes by ID.
type MeshRegistry struct {
	table *resource.Table[Mesh]
}

// NewMeshRegistry creates an empty registry.
func NewMeshRegistry() *MeshRegistry {
	return &MeshRegistry{table: resource.NewTable[Mesh]("mesh")}
}

// Create stores a new empty mesh.
func (r *MeshRegistry) Create(kind protocol.PrimitiveKind) (resource.ID, *cell.Cell[Mesh]) {
	return r.table.Create(Mesh{Kind: kind})
}

// Find looks up a mesh.
func (r *MeshRegistry) Find(id resource.ID) (*cell.Cell[Mesh], bool) {
	return r.table.Find(id)
}

// Len returns the number of meshes.
func (r *MeshRegistry) Len() int {
	return r.table.Len()
}

// Table exposes the underlying table for observers.
func (r *MeshRegistry) Table() *resource.Table[Mesh] {
	return r.table
}
