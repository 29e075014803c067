package renderer

import (
	"encoding/binary"
	"math"

	"github.com/prism3d/prism/engine/camera"
)

// FrameUniformsSize is the byte size of the per-frame uniform block: the
// camera block plus the viewport resolution, scene traversal extents, and
// global shading gains, padded to 16-byte uniform alignment.
const FrameUniformsSize = camera.GPUCameraSize + 32

// FrameUniforms is the per-frame uniform block consumed by the fragment
// shader: everything ray generation and traversal need that changes between
// frames.
type FrameUniforms struct {
	// Camera is the inverse view-projection matrix and eye position.
	Camera camera.GPUCamera

	// Resolution is the viewport size in pixels.
	Resolution [2]float32

	// ObjectCount is the number of live rows in the scene texture, the upper
	// bound of the per-pixel traversal loop.
	ObjectCount uint32

	// RowTexels is the scene texture width in texels.
	RowTexels uint32

	// DiffuseGain and SpecularGain are the scene-global shading coefficients
	// multiplied into every material's diffuse and specular terms.
	DiffuseGain  float32
	SpecularGain float32
}

// Marshal serializes the block to its little-endian wire form.
//
// Returns:
//   - []byte: the serialized block, exactly FrameUniformsSize bytes
func (f FrameUniforms) Marshal() []byte {
	buf := make([]byte, FrameUniformsSize)
	copy(buf, f.Camera.Marshal())

	off := camera.GPUCameraSize
	binary.LittleEndian.PutUint32(buf[off:], floatBits(f.Resolution[0]))
	binary.LittleEndian.PutUint32(buf[off+4:], floatBits(f.Resolution[1]))
	binary.LittleEndian.PutUint32(buf[off+8:], f.ObjectCount)
	binary.LittleEndian.PutUint32(buf[off+12:], f.RowTexels)
	binary.LittleEndian.PutUint32(buf[off+16:], floatBits(f.DiffuseGain))
	binary.LittleEndian.PutUint32(buf[off+20:], floatBits(f.SpecularGain))
	return buf
}

func floatBits(f float32) uint32 {
	return math.Float32bits(f)
}
