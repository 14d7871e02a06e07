// Package gpu interprets decoded GPU commands.
//
// A Renderer owns a FIFO of protocol commands, a TransformStack and a stack
// of meshes being recorded. Execute drains the queue in order: transform
// commands change the top matrix at once, emitted vertices go to the mesh
// being recorded or, when none is open, to an immediate-mode mesh drawn once
// at the end of the pass. Draw calls are handed to a Drawer.
//
// Textures and meshes live in registries shared with the rest of the host.
// IDs are assigned from 0 upward and never reused. A texture lookup that
// misses resolves to a generated fallback texture; a mesh lookup that
// misses skips the draw. Both are logged and neither is fatal.
//
// Transform stack misuse is fatal: Execute stops at the offending command,
// drops the rest of the queue and the open recordings and returns an
// *errors.Error of kind stack_overflow or stack_underflow.
package gpu
