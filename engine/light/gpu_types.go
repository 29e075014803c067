package light

import (
	"encoding/binary"
	"math"
)

// MaxLights bounds the per-pixel light loop in the shading stage. The light
// uniform buffer is always marshaled at this fixed capacity so the GPU-side
// array type never changes size.
const MaxLights = 16

// GPULightSize is the byte size of one GPULight record: four vec4-aligned
// rows of four float32 fields.
const GPULightSize = 64

// GPULightHeaderSize is the byte size of the buffer header preceding the
// light array: the scene ambient color plus the active light count.
const GPULightHeaderSize = 16

// GPULight is the fixed std140-compatible layout of one light record. Field
// grouping matches the WGSL struct: every vec3 shares its fourth lane with a
// scalar so no implicit padding appears on either side.
type GPULight struct {
	Position  [3]float32
	LightType float32

	Color     [3]float32
	Intensity float32

	Direction [3]float32
	Radius    float32 // reserved soft-shadow emitter radius

	// Reserved area-light parameters.
	Penumbra float32
	Angle    float32
	Width    float32
	Height   float32
}

// Marshal serializes the record to its 64-byte little-endian wire form.
//
// Returns:
//   - []byte: the serialized record, exactly GPULightSize bytes
func (g GPULight) Marshal() []byte {
	buf := make([]byte, GPULightSize)
	fields := [16]float32{
		g.Position[0], g.Position[1], g.Position[2], g.LightType,
		g.Color[0], g.Color[1], g.Color[2], g.Intensity,
		g.Direction[0], g.Direction[1], g.Direction[2], g.Radius,
		g.Penumbra, g.Angle, g.Width, g.Height,
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// MarshalLightBuffer serializes the scene ambient color and up to MaxLights
// lights into the full uniform buffer image: a 16-byte header followed by
// MaxLights fixed 64-byte records. Lights beyond the cap are dropped;
// unused trailing records are zero.
//
// Parameters:
//   - ambient: the scene ambient light color
//   - lights: the active lights
//
// Returns:
//   - []byte: the serialized buffer, GPULightHeaderSize + MaxLights*GPULightSize bytes
func MarshalLightBuffer(ambient [3]float32, lights []Light) []byte {
	if len(lights) > MaxLights {
		lights = lights[:MaxLights]
	}

	buf := make([]byte, GPULightHeaderSize+MaxLights*GPULightSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(ambient[0]))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(ambient[1]))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(ambient[2]))
	binary.LittleEndian.PutUint32(buf[12:], uint32(len(lights)))

	for i, l := range lights {
		copy(buf[GPULightHeaderSize+i*GPULightSize:], l.ToGPU().Marshal())
	}
	return buf
}
