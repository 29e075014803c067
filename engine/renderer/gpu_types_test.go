package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/engine/camera"
)

func TestFrameUniformsMarshalLayout(t *testing.T) {
	var f FrameUniforms
	for i := range f.Camera.InverseViewProjection {
		f.Camera.InverseViewProjection[i] = float32(i)
	}
	f.Camera.Eye = [3]float32{1.5, 2.5, 3.5}
	f.Resolution = [2]float32{1280, 720}
	f.ObjectCount = 38
	f.RowTexels = 9
	f.DiffuseGain = 0.75
	f.SpecularGain = 0.5

	buf := f.Marshal()
	require.Len(t, buf, FrameUniformsSize)

	readF32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}

	assert.Equal(t, float32(0), readF32(0))
	assert.Equal(t, float32(15), readF32(60))
	assert.Equal(t, float32(1.5), readF32(64))
	assert.Equal(t, float32(3.5), readF32(72))

	off := camera.GPUCameraSize
	assert.Equal(t, float32(1280), readF32(off))
	assert.Equal(t, float32(720), readF32(off+4))
	assert.Equal(t, uint32(38), binary.LittleEndian.Uint32(buf[off+8:]))
	assert.Equal(t, uint32(9), binary.LittleEndian.Uint32(buf[off+12:]))
	assert.Equal(t, float32(0.75), readF32(off+16))
	assert.Equal(t, float32(0.5), readF32(off+20))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[off+24:]))
}

func TestShaderSourceCarriesLayoutHeader(t *testing.T) {
	src := ShaderSource()
	assert.Contains(t, src, "const TEXELS_PER_ROW: u32 = 9u;")
	assert.Contains(t, src, "fn fs_main")
	assert.Contains(t, src, "fn vs_main")
}
