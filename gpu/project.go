package gpu

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// nearW is the smallest clip-space w kept; anything closer is behind the eye.
const nearW = 1e-4

// ScreenVertex is a projected vertex in pixels with its texture coordinate.
type ScreenVertex struct {
	X, Y float32
	U, V float32
}

// ScreenTriangle is one projected triangle. Depth is the mean NDC z of its
// corners; larger is farther.
type ScreenTriangle struct {
	Texture *TextureRef
	V       [3]ScreenVertex
	Depth   float32
}

// Project appends the triangles of call, transformed by viewProj times the
// call's model matrix, to dst in pixel coordinates of a width x height
// target. Triangles with a corner behind the eye are dropped.
func Project(dst []ScreenTriangle, call DrawCall, viewProj mgl32.Mat4, width, height float32) []ScreenTriangle {
	mvp := viewProj.Mul4(call.Transform)
	idx := call.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		tri := ScreenTriangle{Texture: call.Texture}
		keep := true
		for k := range 3 {
			j := idx[i+k]
			if int(j) >= len(call.Vertices) {
				keep = false
				break
			}
			v := call.Vertices[j]
			clip := mvp.Mul4x1(mgl32.Vec4{v.X, v.Y, v.Z, 1})
			if clip.W() <= nearW {
				keep = false
				break
			}
			ndc := clip.Vec3().Mul(1 / clip.W())
			tri.V[k] = ScreenVertex{
				X: (ndc.X() + 1) / 2 * width,
				Y: (1 - ndc.Y()) / 2 * height,
				U: v.U,
				V: v.V,
			}
			tri.Depth += ndc.Z() / 3
		}
		if keep {
			dst = append(dst, tri)
		}
	}
	return dst
}

// SortFarToNear orders triangles for painter's drawing.
func SortFarToNear(tris []ScreenTriangle) {
	sort.SliceStable(tris, func(i, j int) bool { return tris[i].Depth > tris[j].Depth })
}
