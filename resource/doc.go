// Package resource provides the registry table behind textures and meshes.
//
// A Table maps IDs to cell.Cell values. IDs are assigned in strictly
// increasing order starting at 0 and are never reused, so a guest that
// registers resources in a known order can predict their IDs.
//
//	textures := resource.NewTable[gpu.Texture]("texture")
//
//	id, tex := textures.Create(gpu.Texture{Width: 1, Height: 1, Pixels: rgba})
//
//	shared, ok := textures.Find(id) // never creates a placeholder
//
// # Observers
//
// Observers receive EventCreated for every Create and EventMiss for every
// Find of an unknown ID. The machine uses them for per-run statistics.
//
// # Thread Safety
//
// Tables are guarded by an internal lock. Within the single-threaded frame
// loop the lock is uncontended; it exists for callers such as background
// asset loading.
package resource
