package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/common"
)

const tol = 1e-4

func TestNewCameraEyeOnOrbit(t *testing.T) {
	c := NewCamera(WithTarget(1, 2, 3), WithOrbit(0, 0, 5))
	eye := c.Eye()
	// Yaw 0, pitch 0 places the eye on the target's +Z axis.
	assert.InDelta(t, 1, eye.X, tol)
	assert.InDelta(t, 2, eye.Y, tol)
	assert.InDelta(t, 8, eye.Z, tol)
}

func TestOrbitKeepsDistance(t *testing.T) {
	c := NewCamera(WithOrbit(0, 0, 5))
	c.Orbit(1.3, 0.7)
	assert.InDelta(t, 5, c.Eye().Sub(c.Target()).Length(), tol)
}

func TestOrbitClampsPitch(t *testing.T) {
	c := NewCamera(WithOrbit(0, 0, 5))
	c.Orbit(0, 10) // far past the pole
	eye := c.Eye()
	// Clamped short of straight up: the eye never reaches distance*1.0 in Y.
	assert.Less(t, eye.Y, float32(5))
	assert.Greater(t, eye.Y, float32(4.9))
}

func TestZoomFloorsAtNearPlane(t *testing.T) {
	c := NewCamera(WithOrbit(0, 0, 5), WithPerspective(1.0, 1.0, 0.5, 100))
	c.Zoom(0.0001)
	assert.InDelta(t, 0.5, c.Eye().Sub(c.Target()).Length(), tol)
}

func TestInverseViewProjectionRoundTrips(t *testing.T) {
	c := NewCamera(WithOrbit(0.4, 0.3, 6))
	vp := c.ViewProjectionMatrix()
	inv := c.InverseViewProjectionMatrix()

	var prod [16]float32
	common.Mul4(prod[:], vp[:], inv[:])

	var identity [16]float32
	common.Identity(identity[:])
	for i := range prod {
		assert.InDeltaf(t, identity[i], prod[i], 1e-3, "element %d of VP * VP⁻¹", i)
	}
}

func TestUnprojectedRayPassesThroughTarget(t *testing.T) {
	c := NewCamera(WithTarget(0, 0, 0), WithOrbit(0.9, -0.2, 4))
	inv := c.InverseViewProjectionMatrix()

	// Unproject the NDC center at the near and far planes.
	nx, ny, nz := unproject(inv, 0, 0, 0)
	fx, fy, fz := unproject(inv, 0, 0, 1)

	dir := common.V3(fx-nx, fy-ny, fz-nz).Normalize()
	want := c.Target().Sub(c.Eye()).Normalize()
	assert.InDelta(t, want.X, dir.X, 1e-3)
	assert.InDelta(t, want.Y, dir.Y, 1e-3)
	assert.InDelta(t, want.Z, dir.Z, 1e-3)
}

func TestSetAspectIgnoresNonPositive(t *testing.T) {
	c := NewCamera()
	before := c.ProjectionMatrix()
	c.SetAspect(0)
	assert.Equal(t, before, c.ProjectionMatrix())
	c.SetAspect(2)
	assert.NotEqual(t, before, c.ProjectionMatrix())
}

func TestToGPUMarshalLayout(t *testing.T) {
	c := NewCamera(WithOrbit(0.5, 0.25, 3))
	g := c.ToGPU()
	buf := g.Marshal()
	require.Len(t, buf, GPUCameraSize)

	assert.Equal(t, c.InverseViewProjectionMatrix(), g.InverseViewProjection)
	assert.Equal(t, c.Eye().Array(), g.Eye)
}

func TestNewCameraPanicsOnDegenerateDistance(t *testing.T) {
	assert.Panics(t, func() {
		NewCamera(WithOrbit(0, 0, 0.01), WithPerspective(1, 1, 0.1, 100))
	})
}

// unproject applies the inverse view-projection to an NDC point with a
// perspective divide.
func unproject(inv [16]float32, x, y, z float32) (float32, float32, float32) {
	ox := inv[0]*x + inv[4]*y + inv[8]*z + inv[12]
	oy := inv[1]*x + inv[5]*y + inv[9]*z + inv[13]
	oz := inv[2]*x + inv[6]*y + inv[10]*z + inv[14]
	ow := inv[3]*x + inv[7]*y + inv[11]*z + inv[15]
	return ox / ow, oy / ow, oz / ow
}
