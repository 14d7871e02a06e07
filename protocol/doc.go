// Package protocol implements the GPU command wire format.
//
// A submission is a sequence of records laid out back to back, each an
// opcode byte followed by a fixed or length-derived little-endian payload.
// Decode turns a submission into a slice of Command values, or rejects it
// as a whole; Append produces the exact byte sequence Decode consumes.
//
//	cmds, err := protocol.Decode(buf)
//	if err != nil {
//	    // *errors.Error with kind unknown_opcode, truncated or invalid_enum
//	}
//
// Record layout:
//
//	0x00 Push             -
//	0x01 Pop              -
//	0x02 PushRecord       u8 kind (0 triangles, 1 quads)
//	0x03 PopRecord        -
//	0x04 DrawRecorded     u32 mesh id
//	0x05 EmitVertex       f32 x, y, z, u, v
//	0x06 BindTexture      u32 texture id
//	0x07 RegisterTexture  u32 width, u32 height, width*height*4 bytes RGBA
//	0x08 Translate        f32 x, y, z
//	0x09 RotateAxis       f32 x, y, z, angle
//	0x0A RotateEuler      f32 yaw, pitch, roll
//	0x0B Scale            f32 x, y, z
//	0x0C LoadMatrix       16 x f32, column-major
//	0x0D MulMatrix        16 x f32, column-major
//	0x0E Identity         -
package protocol
