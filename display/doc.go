// Package display runs a machine in a desktop window with ebiten.
//
// Game paints the gpu draw calls of each frame, projected through the
// guest camera, and then the guest framebuffer on top. Keyboard fills an
// input.State from the window and Speaker plays the audio mixer on the
// default output device.
package display
