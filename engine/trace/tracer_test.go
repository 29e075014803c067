package trace

import (
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/camera"
	"github.com/prism3d/prism/engine/light"
	"github.com/prism3d/prism/engine/scenebuffer"
)

const tol = 1e-3

// rowMajorTranslateScale builds an authored-form (row-major) transform with a
// uniform scale and a translation.
func rowMajorTranslateScale(tx, ty, tz, s float32) [16]float32 {
	return [16]float32{
		s, 0, 0, tx,
		0, s, 0, ty,
		0, 0, s, tz,
		0, 0, 0, 1,
	}
}

func testMaterial() scenebuffer.Material {
	return scenebuffer.Material{
		Ambient:   [3]float32{0.1, 0.1, 0.1},
		Diffuse:   [3]float32{0.5, 0.2, 0.1},
		Specular:  [3]float32{0.2, 0.2, 0.2},
		Shininess: 32,
		RepeatU:   1,
		RepeatV:   1,
	}
}

func sphereAt(tx, ty, tz, s float32) scenebuffer.Object {
	return scenebuffer.Object{
		Type:     scenebuffer.PrimitiveSphere,
		World:    rowMajorTranslateScale(tx, ty, tz, s),
		Material: testMaterial(),
	}
}

func newTestTracer(t *testing.T, objects []scenebuffer.Object, lights []light.Light) Tracer {
	t.Helper()
	buf, err := scenebuffer.Encode(objects)
	require.NoError(t, err)

	// Park the default skeleton far outside every test ray's reach.
	park := make([]scenebuffer.Object, scenebuffer.SkeletonPartCount)
	for i := range park {
		park[i] = scenebuffer.DefaultSkeletonPart(i)
		park[i].World = rowMajorTranslateScale(0, -1000, 0, 0.001)
	}
	require.NoError(t, buf.UpdateRegion(buf.SkeletonStart(), scenebuffer.EncodeRecords(park)))

	return NewTracer(
		WithScene(buf),
		WithLights(lights),
		WithWorkers(2, 64),
	)
}

func TestTraceRayMissReturnsBlack(t *testing.T) {
	tr := newTestTracer(t, nil, nil)
	c := tr.TraceRay(common.V3(0, 0, 3), common.V3(0, 0, -1))
	assert.Equal(t, common.Vec3{}, c)
}

func TestTraceRayLitSphere(t *testing.T) {
	lights := []light.Light{light.NewLight(light.Point, light.WithPosition(0, 0, 5))}
	tr := newTestTracer(t, []scenebuffer.Object{sphereAt(0, 0, 0, 1)}, lights)

	c := tr.TraceRay(common.V3(0, 0, 3), common.V3(0, 0, -1))
	// Head-on hit: full diffuse and full specular on top of ambient.
	assert.InDelta(t, 0.8, c.X, tol)
	assert.InDelta(t, 0.5, c.Y, tol)
	assert.InDelta(t, 0.4, c.Z, tol)
}

func TestTraceRayDirectionalMatchesPoint(t *testing.T) {
	point := newTestTracer(t, []scenebuffer.Object{sphereAt(0, 0, 0, 1)},
		[]light.Light{light.NewLight(light.Point, light.WithPosition(0, 0, 5))})
	directional := newTestTracer(t, []scenebuffer.Object{sphereAt(0, 0, 0, 1)},
		[]light.Light{light.NewLight(light.Directional, light.WithDirection(0, 0, -1))})

	origin, dir := common.V3(0, 0, 3), common.V3(0, 0, -1)
	p := point.TraceRay(origin, dir)
	d := directional.TraceRay(origin, dir)
	assert.InDelta(t, p.X, d.X, tol)
	assert.InDelta(t, p.Y, d.Y, tol)
	assert.InDelta(t, p.Z, d.Z, tol)
}

func TestTraceRayHardShadow(t *testing.T) {
	blocker := scenebuffer.Object{
		Type:     scenebuffer.PrimitiveCube,
		World:    rowMajorTranslateScale(0, 0, 2, 1),
		Material: testMaterial(),
	}
	lights := []light.Light{light.NewLight(light.Point, light.WithPosition(0, 0, 5))}
	tr := newTestTracer(t, []scenebuffer.Object{sphereAt(0, 0, 0, 1), blocker}, lights)

	// Approach from the side so the blocker is not hit first.
	c := tr.TraceRay(common.V3(3, 0, 0.4999), common.V3(-1, 0, 0))
	// The hit point faces the light but the blocker sits between them: only
	// the ambient term survives.
	assert.InDelta(t, 0.1, c.X, 5e-3)
	assert.InDelta(t, 0.1, c.Y, 5e-3)
	assert.InDelta(t, 0.1, c.Z, 5e-3)
}

func TestRowMajorTranslationIsHonored(t *testing.T) {
	tr := newTestTracer(t, []scenebuffer.Object{sphereAt(2, 0, 0, 1)},
		[]light.Light{light.NewLight(light.Point, light.WithPosition(0, 0, 5))})

	miss := tr.TraceRay(common.V3(0, 0, 3), common.V3(0, 0, -1))
	assert.Equal(t, common.Vec3{}, miss, "sphere translated to x=2 must not sit at the origin")

	hit := tr.TraceRay(common.V3(2, 0, 3), common.V3(0, 0, -1))
	assert.NotEqual(t, common.Vec3{}, hit)
}

func TestSingularTransformIsSkipped(t *testing.T) {
	flat := sphereAt(0, 0, 0, 0) // zero scale cannot be inverted
	tr := newTestTracer(t, []scenebuffer.Object{flat}, nil)
	c := tr.TraceRay(common.V3(0, 0, 3), common.V3(0, 0, -1))
	assert.Equal(t, common.Vec3{}, c)
}

func TestScaledSphereHitAtTrueExtent(t *testing.T) {
	// A sphere scaled 4x has world radius 2: a ray offset 1 unit off-axis
	// still hits it.
	tr := newTestTracer(t, []scenebuffer.Object{sphereAt(0, 0, 0, 4)},
		[]light.Light{light.NewLight(light.Point, light.WithPosition(0, 0, 5))})
	c := tr.TraceRay(common.V3(1, 0, 5), common.V3(0, 0, -1))
	assert.NotEqual(t, common.Vec3{}, c)
}

func TestRenderFramesSphere(t *testing.T) {
	cam := camera.NewCamera(
		camera.WithOrbit(0, 0, 3),
		camera.WithPerspective(1.0472, 1, 0.1, 100),
	)
	buf, err := scenebuffer.Encode([]scenebuffer.Object{sphereAt(0, 0, 0, 1)})
	require.NoError(t, err)
	park := make([]scenebuffer.Object, scenebuffer.SkeletonPartCount)
	for i := range park {
		park[i] = scenebuffer.DefaultSkeletonPart(i)
		park[i].World = rowMajorTranslateScale(0, -1000, 0, 0.001)
	}
	require.NoError(t, buf.UpdateRegion(buf.SkeletonStart(), scenebuffer.EncodeRecords(park)))

	tr := NewTracer(
		WithCamera(cam),
		WithScene(buf),
		WithLights([]light.Light{light.NewLight(light.Point, light.WithPosition(0, 0, 5))}),
		WithWorkers(2, 64),
	)

	img, err := tr.Render(context.Background(), 32, 32)
	require.NoError(t, err)
	require.Equal(t, 32, img.Bounds().Dx())
	require.Equal(t, 32, img.Bounds().Dy())

	center := img.RGBAAt(16, 16)
	assert.Greater(t, center.R, uint8(0), "center pixel should see the sphere")
	assert.Equal(t, uint8(255), center.A)

	corner := img.RGBAAt(0, 0)
	assert.Equal(t, color.RGBA{A: 255}, corner, "corner pixel should be background")
}

func TestRenderRejectsBadDimensions(t *testing.T) {
	tr := newTestTracer(t, nil, nil)
	_, err := tr.Render(context.Background(), 0, 32)
	assert.Error(t, err)
}

func TestRenderHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := newTestTracer(t, []scenebuffer.Object{sphereAt(0, 0, 0, 1)}, nil)
	_, err := tr.Render(ctx, 8, 8)
	assert.Error(t, err)
}
