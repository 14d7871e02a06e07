// Package cell provides a shared, single-owner value cell with a runtime
// reentrancy guard.
//
// Textures and meshes are created by the registries and handed to the gpu
// command interpreter without copying. Both sides hold a *Cell to the same
// value; mutation happens inside a With scope:
//
//	mesh := cell.New(gpu.Mesh{Kind: protocol.Triangles})
//	shared := mesh.Clone()
//
//	err := shared.With(func(m *gpu.Mesh) error {
//	    m.Append(v)
//	    return nil
//	})
//
// Opening a second scope on the same value while one is open panics: that is
// an aliasing bug in the host, never a guest-controlled condition.
//
// # Build Tags
//
// The guard is on by default. Building with -tags cell_unchecked removes it
// once the host is known to be correct.
package cell
