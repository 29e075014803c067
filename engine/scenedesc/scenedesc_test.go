package scenedesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/engine/light"
	"github.com/prism3d/prism/engine/scenebuffer"
)

const sampleScene = `
ambient: [0.1, 0.2, 0.3]
camera:
  target: [0, 1, 0]
  yaw: 45
  pitch: 15
  distance: 6
  fov_degrees: 50
textures:
  - assets/checker.png
objects:
  - type: sphere
    position: [0, 1, 0]
    scale: [2, 2, 2]
    material:
      diffuse: [0.8, 0.2, 0.2]
      shininess: 64
  - type: cube
    position: [0, -0.5, 0]
    scale: [10, 1, 10]
    material:
      diffuse: [0.4, 0.4, 0.4]
      texture: 0
      repeat: [4, 4]
lights:
  - type: point
    position: [2, 5, 3]
    intensity: 1.5
  - type: directional
    direction: [0, -1, 0]
    color: [1, 0.9, 0.8]
`

func TestParseSampleScene(t *testing.T) {
	desc, err := Parse([]byte(sampleScene))
	require.NoError(t, err)

	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, desc.Ambient)
	assert.Equal(t, float32(6), desc.Camera.Distance)
	assert.Len(t, desc.Textures, 1)
	assert.Len(t, desc.Objects, 2)
	assert.Len(t, desc.Lights, 2)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("objects: [{{"))
	assert.Error(t, err)
}

func TestParseRejectsTooManyLights(t *testing.T) {
	yaml := "lights:\n"
	for i := 0; i < light.MaxLights+1; i++ {
		yaml += "  - type: point\n"
	}
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cap")
}

func TestParseAppliesDefaults(t *testing.T) {
	desc, err := Parse([]byte("objects:\n  - type: sphere\n"))
	require.NoError(t, err)

	assert.Equal(t, [3]float32{1, 1, 1}, desc.Objects[0].Scale)
	assert.Equal(t, [2]float32{1, 1}, desc.Objects[0].Material.Repeat)
	assert.Equal(t, float32(5), desc.Camera.Distance)
	assert.Equal(t, float32(60), desc.Camera.FOVDegrees)
	assert.Equal(t, float32(1), desc.Diffuse)
	assert.Equal(t, float32(1), desc.Specular)
}

func TestBuildObjectsConversion(t *testing.T) {
	desc, err := Parse([]byte(sampleScene))
	require.NoError(t, err)

	objects := desc.BuildObjects()
	require.Len(t, objects, 2)

	sphere := objects[0]
	assert.Equal(t, scenebuffer.PrimitiveSphere, sphere.Type)
	assert.False(t, sphere.Material.TextureEnabled)
	// Row-major authored form keeps translation in the last column.
	assert.Equal(t, float32(0), sphere.World[3])
	assert.Equal(t, float32(1), sphere.World[7])
	assert.Equal(t, float32(2), sphere.World[0], "scale sits on the diagonal")

	floor := objects[1]
	assert.Equal(t, scenebuffer.PrimitiveCube, floor.Type)
	assert.True(t, floor.Material.TextureEnabled)
	assert.Equal(t, 0, floor.Material.TextureIndex)
	assert.Equal(t, float32(4), floor.Material.RepeatU)
}

func TestBuildObjectsSkipsUnknownTypes(t *testing.T) {
	desc, err := Parse([]byte("objects:\n  - type: torus\n  - type: cone\n"))
	require.NoError(t, err)

	objects := desc.BuildObjects()
	require.Len(t, objects, 1)
	assert.Equal(t, scenebuffer.PrimitiveCone, objects[0].Type)
}

func TestBuildLightsConversion(t *testing.T) {
	desc, err := Parse([]byte(sampleScene))
	require.NoError(t, err)

	lights := desc.BuildLights()
	require.Len(t, lights, 2)

	assert.Equal(t, light.Point, lights[0].Type())
	assert.Equal(t, float32(1.5), lights[0].Intensity())
	assert.Equal(t, float32(1), lights[0].Color().X, "omitted color defaults to white")

	assert.Equal(t, light.Directional, lights[1].Type())
	assert.Equal(t, float32(-1), lights[1].Direction().Y)
}

func TestBuildCameraStartPose(t *testing.T) {
	desc, err := Parse([]byte(sampleScene))
	require.NoError(t, err)

	cam := desc.BuildCamera(1)
	assert.InDelta(t, 6, cam.Eye().Sub(cam.Target()).Length(), 1e-3)
	assert.Equal(t, float32(1), cam.Target().Y)
}

func TestEncodedSceneRoundTrips(t *testing.T) {
	desc, err := Parse([]byte(sampleScene))
	require.NoError(t, err)

	buf, err := scenebuffer.Encode(desc.BuildObjects())
	require.NoError(t, err)
	assert.Equal(t, 2, buf.StaticCount())
	assert.Equal(t, 2+scenebuffer.SkeletonPartCount, buf.RowCount())
}
