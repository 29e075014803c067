package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/common"
)

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(Point)
	assert.Equal(t, Point, l.Type())
	assert.Equal(t, common.V3(0, 0, 0), l.Position())
	assert.Equal(t, common.V3(0, -1, 0), l.Direction())
	assert.Equal(t, common.V3(1, 1, 1), l.Color())
	assert.Equal(t, float32(1), l.Intensity())
}

func TestBuilderOptionsApply(t *testing.T) {
	l := NewLight(Directional,
		WithPosition(1, 2, 3),
		WithDirection(0, 0, -2),
		WithColor(0.5, 0.25, 0.125),
		WithIntensity(3),
	)

	assert.Equal(t, Directional, l.Type())
	assert.Equal(t, common.V3(1, 2, 3), l.Position())
	assert.Equal(t, common.V3(0, 0, -1), l.Direction(), "direction must be normalized")
	assert.Equal(t, common.V3(0.5, 0.25, 0.125), l.Color())
	assert.Equal(t, float32(3), l.Intensity())
}

func TestSetDirectionNormalizes(t *testing.T) {
	l := NewLight(Directional)
	l.SetDirection(common.V3(3, 0, 4))
	d := l.Direction()
	assert.InDelta(t, 0.6, d.X, 1e-6)
	assert.InDelta(t, 0.8, d.Z, 1e-6)
}

func TestGPULightMarshalLayout(t *testing.T) {
	g := GPULight{
		Position:  [3]float32{1, 2, 3},
		LightType: float32(Directional),
		Color:     [3]float32{0.1, 0.2, 0.3},
		Intensity: 2,
		Direction: [3]float32{0, 0, -1},
		Radius:    0.25,
		Penumbra:  0.5,
		Angle:     0.75,
		Width:     4,
		Height:    5,
	}

	buf := g.Marshal()
	require.Len(t, buf, GPULightSize)

	assert.Equal(t, float32(1), f32At(buf, 0))
	assert.Equal(t, float32(Directional), f32At(buf, 12))
	assert.Equal(t, float32(2), f32At(buf, 28))
	assert.Equal(t, float32(-1), f32At(buf, 40))
	assert.Equal(t, float32(0.25), f32At(buf, 44))
	assert.Equal(t, float32(5), f32At(buf, 60))
}

func TestMarshalLightBufferLayout(t *testing.T) {
	lights := []Light{
		NewLight(Point, WithPosition(1, 2, 3), WithIntensity(2)),
		NewLight(Directional, WithDirection(0, -1, 0)),
	}
	buf := MarshalLightBuffer([3]float32{0.1, 0.2, 0.3}, lights)
	require.Len(t, buf, GPULightHeaderSize+MaxLights*GPULightSize)

	assert.Equal(t, float32(0.2), f32At(buf, 4))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[12:]))

	// First record starts right after the header.
	assert.Equal(t, float32(1), f32At(buf, GPULightHeaderSize))
	assert.Equal(t, float32(2), f32At(buf, GPULightHeaderSize+28))

	// Unused trailing records stay zero.
	tail := buf[GPULightHeaderSize+2*GPULightSize:]
	for _, b := range tail {
		require.Zero(t, b)
	}
}

func TestMarshalLightBufferDropsBeyondCap(t *testing.T) {
	lights := make([]Light, MaxLights+4)
	for i := range lights {
		lights[i] = NewLight(Point)
	}
	buf := MarshalLightBuffer([3]float32{}, lights)
	assert.Equal(t, uint32(MaxLights), binary.LittleEndian.Uint32(buf[12:]))
	assert.Len(t, buf, GPULightHeaderSize+MaxLights*GPULightSize)
}
