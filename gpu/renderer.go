package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/wippyai/cartridge-host/cell"
	"github.com/wippyai/cartridge-host/protocol"
	"github.com/wippyai/cartridge-host/resource"
)

type recording struct {
	mesh *cell.Cell[Mesh]
	id   resource.ID
}

// Stats counts the work done by the last Execute.
type Stats struct {
	Commands  int
	DrawCalls int
	Triangles int
	Misses    int
}

// Renderer interprets queued commands. It is driven from a single
// goroutine: Enqueue during the guest call, Execute after it returns.
type Renderer struct {
	textures  *TextureRegistry
	meshes    *MeshRegistry
	stack     *TransformStack
	bound     *TextureRef
	queue     []protocol.Command
	recording []recording
	immediate Mesh
	// closed immediate batches, one per texture binding
	batches []DrawCall
	stats     Stats
}

// NewRenderer creates a renderer over shared registries.
func NewRenderer(cfg Config, textures *TextureRegistry, meshes *MeshRegistry) *Renderer {
	return &Renderer{
		textures: textures,
		meshes:   meshes,
		stack:    NewTransformStack(cfg.maxDepth()),
	}
}

// Enqueue appends commands to the queue.
func (r *Renderer) Enqueue(cmds ...protocol.Command) {
	r.queue = append(r.queue, cmds...)
}

// Pending returns the number of queued commands.
func (r *Renderer) Pending() int {
	return len(r.queue)
}

// Recording returns the number of open recordings.
func (r *Renderer) Recording() int {
	return len(r.recording)
}

// Stack returns the transform stack.
func (r *Renderer) Stack() *TransformStack {
	return r.stack
}

// Stats returns counters for the last Execute.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Execute drains the queue in order, sending draws to d, then draws and
// discards the immediate mesh and unbinds the global texture. Immediate
// vertices emitted under different texture bindings are drawn as separate
// calls, in emission order. On a
// transform stack error it discards the remaining queue and the open
// recordings and returns the error.
func (r *Renderer) Execute(d Drawer) error {
	r.stats = Stats{}
	queue := r.queue
	r.queue = nil

	for _, c := range queue {
		r.stats.Commands++
		if err := r.apply(c, d); err != nil {
			Logger().Error("gpu command failed",
				zap.Stringer("op", c.Opcode()),
				zap.Int("index", r.stats.Commands-1),
				zap.Int("dropped", len(queue)-r.stats.Commands),
				zap.Error(err))
			r.abort()
			return err
		}
	}

	r.flushImmediate(d)
	return nil
}

func (r *Renderer) abort() {
	for _, rec := range r.recording {
		rec.mesh.Release()
	}
	r.recording = nil
	r.immediate = Mesh{}
	r.batches = nil
	r.bound = nil
}

// closeImmediate ends the immediate batch drawn with the current binding.
// Vertices of an unfinished triangle move to the next batch.
func (r *Renderer) closeImmediate() {
	if r.immediate.Empty() {
		return
	}
	done := len(r.immediate.Vertices) - len(r.immediate.Vertices)%3
	r.batches = append(r.batches, DrawCall{
		Vertices:  r.immediate.Vertices[:done:done],
		Indices:   r.immediate.Indices,
		Texture:   r.bound,
		Transform: mgl32.Ident4(),
		Immediate: true,
	})
	rest := r.immediate.Vertices[done:]
	r.immediate = Mesh{}
	for _, v := range rest {
		r.immediate.Append(v)
	}
}

func (r *Renderer) flushImmediate(d Drawer) {
	r.closeImmediate()
	for _, call := range r.batches {
		r.emit(d, call)
	}
	r.batches = nil
	r.immediate = Mesh{}
	r.bound = nil
}

func (r *Renderer) emit(d Drawer, call DrawCall) {
	r.stats.DrawCalls++
	r.stats.Triangles += call.Triangles()
	d.Draw(call)
}

func (r *Renderer) apply(c protocol.Command, d Drawer) error {
	switch c := c.(type) {
	case protocol.Push:
		return r.stack.Push()
	case protocol.Pop:
		return r.stack.Pop()
	case protocol.PushRecord:
		id, mesh := r.meshes.Create(c.Kind)
		r.recording = append(r.recording, recording{id: id, mesh: mesh})
	case protocol.PopRecord:
		r.popRecord()
	case protocol.DrawRecorded:
		r.drawRecorded(resource.ID(c.ID), d)
	case protocol.EmitVertex:
		r.emitVertex(c.Vertex)
	case protocol.BindTexture:
		r.bindTexture(resource.ID(c.ID))
	case protocol.RegisterTexture:
		id, tex, err := r.textures.Create(c.Width, c.Height, c.Pixels)
		if err != nil {
			// the decoder sizes pixels from the dimensions
			Logger().Warn("texture rejected", zap.Error(err))
			return nil
		}
		tex.Release()
		Logger().Debug("texture registered",
			zap.Uint64("id", uint64(id)),
			zap.Uint32("width", c.Width),
			zap.Uint32("height", c.Height))
	case protocol.Translate:
		r.stack.Translate(c.X, c.Y, c.Z)
	case protocol.RotateAxis:
		r.stack.RotateAxis(c.X, c.Y, c.Z, c.Angle)
	case protocol.RotateEuler:
		r.stack.RotateEuler(c.Yaw, c.Pitch, c.Roll)
	case protocol.Scale:
		r.stack.Scale(c.X, c.Y, c.Z)
	case protocol.LoadMatrix:
		r.stack.Load(c.M)
	case protocol.MulMatrix:
		r.stack.Mul(c.M)
	case protocol.Identity:
		r.stack.Identity()
	}
	return nil
}

func (r *Renderer) popRecord() {
	n := len(r.recording)
	if n == 0 {
		Logger().Warn("PopRecord with no open recording")
		return
	}
	r.recording[n-1].mesh.Release()
	r.recording = r.recording[:n-1]
}

func (r *Renderer) drawRecorded(id resource.ID, d Drawer) {
	mesh, ok := r.meshes.Find(id)
	if !ok {
		r.stats.Misses++
		Logger().Debug("mesh not found, draw skipped", zap.Uint64("id", uint64(id)))
		return
	}
	defer mesh.Release()

	var call DrawCall
	_ = mesh.With(func(m *Mesh) error {
		if m.Empty() {
			return nil
		}
		tex := m.Texture
		if r.bound != nil {
			tex = r.bound
		}
		call = DrawCall{
			Vertices:  m.Vertices[:len(m.Vertices):len(m.Vertices)],
			Indices:   m.Indices[:len(m.Indices):len(m.Indices)],
			Texture:   tex,
			Transform: r.stack.Top(),
			Mesh:      id,
		}
		return nil
	})
	if call.Indices != nil {
		r.emit(d, call)
	}
}

func (r *Renderer) emitVertex(v protocol.Vertex) {
	if n := len(r.recording); n > 0 {
		_ = r.recording[n-1].mesh.With(func(m *Mesh) error {
			m.Append(v)
			return nil
		})
		return
	}

	p := r.stack.Top().Mul4x1(mgl32.Vec4{v.X, v.Y, v.Z, 1})
	r.immediate.Append(protocol.Vertex{X: p[0], Y: p[1], Z: p[2], U: v.U, V: v.V})
}

func (r *Renderer) bindTexture(id resource.ID) {
	c, found := r.textures.Resolve(id)
	defer c.Release()
	if !found {
		r.stats.Misses++
		Logger().Debug("texture not found, using fallback", zap.Uint64("id", uint64(id)))
	}
	ref := textureRef(id, c, found)

	if n := len(r.recording); n > 0 {
		_ = r.recording[n-1].mesh.With(func(m *Mesh) error {
			m.Texture = ref
			return nil
		})
		return
	}
	if !sameTexture(r.bound, ref) {
		r.closeImmediate()
	}
	r.bound = ref
}

func sameTexture(a, b *TextureRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Fallback == b.Fallback
}
