// Package caps implements the capability namespaces a cartridge imports.
//
// Implements:
//   - console     guest log output
//   - memory      bulk fill and copy inside guest memory
//   - framebuffer surface size, clear and clipped blits
//   - system      permissions and wall clock
//   - input       keyboard and mouse state
//   - storage     persistent byte store
//   - audio       PCM playback
//   - gpu         command submission and camera
//
// Each host exposes its operations as plain methods over a runtime.View and
// lists them for the guest through Functions. A guest pointer that does not
// fit in memory is refused: the call does nothing and returns zero.
package caps
