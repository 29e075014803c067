package camera

import (
	"encoding/binary"
	"math"
)

// GPUCameraSize is the byte size of the camera uniform block: the inverse
// view-projection matrix plus the vec4-padded eye position.
const GPUCameraSize = 80

// GPUCamera is the fixed layout of the camera block inside the frame uniform
// buffer. Ray generation needs only the inverse view-projection matrix and
// the eye position; the forward matrices never leave the host.
type GPUCamera struct {
	// InverseViewProjection is the column-major inverse view-projection
	// matrix.
	InverseViewProjection [16]float32

	// Eye is the world-space camera position.
	Eye [3]float32
}

// Marshal serializes the block to its 80-byte little-endian wire form. The
// eye position is padded to a full vec4.
//
// Returns:
//   - []byte: the serialized block, exactly GPUCameraSize bytes
func (g GPUCamera) Marshal() []byte {
	buf := make([]byte, GPUCameraSize)
	for i, f := range g.InverseViewProjection {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	for i, f := range g.Eye {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(f))
	}
	return buf
}
