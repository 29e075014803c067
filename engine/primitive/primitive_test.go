package primitive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/scenebuffer"
)

const tol = 1e-4

func hitPoint(origin, dir common.Vec3, t float32) common.Vec3 {
	return origin.Add(dir.Scale(t))
}

func TestIntersectFrontalHits(t *testing.T) {
	origin := common.V3(0, 0, 2)
	dir := common.V3(0, 0, -1)

	tests := []struct {
		name string
		typ  scenebuffer.PrimitiveType
		want float32
	}{
		{"sphere front surface", scenebuffer.PrimitiveSphere, 1.5},
		{"cube front face", scenebuffer.PrimitiveCube, 1.5},
		{"cylinder lateral surface", scenebuffer.PrimitiveCylinder, 1.5},
		{"cone waist at mid-height", scenebuffer.PrimitiveCone, 1.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersect(tt.typ, origin, dir)
			assert.InDelta(t, tt.want, got, tol)
		})
	}
}

func TestIntersectMisses(t *testing.T) {
	tests := []struct {
		name        string
		typ         scenebuffer.PrimitiveType
		origin, dir common.Vec3
	}{
		{"sphere offset beyond radius", scenebuffer.PrimitiveSphere, common.V3(0.6, 0, 2), common.V3(0, 0, -1)},
		{"cube ray pointing away", scenebuffer.PrimitiveCube, common.V3(0, 0, 2), common.V3(0, 0, 1)},
		{"cylinder above the caps", scenebuffer.PrimitiveCylinder, common.V3(0, 0.75, 2), common.V3(0, 0, -1)},
		{"cone outside the base radius", scenebuffer.PrimitiveCone, common.V3(0.45, 0.4, 2), common.V3(0, 0, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, NoHit, Intersect(tt.typ, tt.origin, tt.dir))
		})
	}
}

func TestIntersectUnknownTypeMisses(t *testing.T) {
	got := Intersect(scenebuffer.PrimitiveType(99), common.V3(0, 0, 2), common.V3(0, 0, -1))
	assert.Equal(t, NoHit, got)
}

func TestIntersectFromInsideHitsExit(t *testing.T) {
	tests := []struct {
		name string
		typ  scenebuffer.PrimitiveType
		want float32
	}{
		{"inside cube exits far face", scenebuffer.PrimitiveCube, 0.5},
		{"inside sphere exits far surface", scenebuffer.PrimitiveSphere, 0.5},
		{"inside cylinder exits lateral surface", scenebuffer.PrimitiveCylinder, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersect(tt.typ, common.V3(0, 0, 0), common.V3(0, 0, -1))
			assert.InDelta(t, tt.want, got, tol)
		})
	}
}

func TestIntersectSphereTangentRay(t *testing.T) {
	// Ray grazing the sphere exactly at its equator radius.
	got := IntersectSphere(common.V3(0.5, 0, 2), common.V3(0, 0, -1))
	if got != NoHit {
		p := hitPoint(common.V3(0.5, 0, 2), common.V3(0, 0, -1), got)
		assert.InDelta(t, 0.5, p.Length(), tol)
	}
}

func TestIntersectCylinderCapBeatsLateral(t *testing.T) {
	// Straight down onto the top cap: the lateral surface is never hit.
	origin := common.V3(0.2, 2, 0)
	dir := common.V3(0, -1, 0)
	got := IntersectCylinder(origin, dir)
	require.NotEqual(t, NoHit, got)
	assert.InDelta(t, 1.5, got, tol)

	p := hitPoint(origin, dir, got)
	assert.Equal(t, common.V3(0, 1, 0), NormalCylinder(p))
}

func TestIntersectConeBaseCap(t *testing.T) {
	origin := common.V3(0.2, -2, 0)
	dir := common.V3(0, 1, 0)
	got := IntersectCone(origin, dir)
	require.NotEqual(t, NoHit, got)
	assert.InDelta(t, 1.5, got, tol)

	p := hitPoint(origin, dir, got)
	assert.Equal(t, common.V3(0, -1, 0), NormalCone(p))
}

func TestHitPointsLieOnSurface(t *testing.T) {
	origin := common.V3(0.1, 0.2, 3)
	dir := common.V3(-0.05, -0.1, -1).Normalize()

	t.Run("sphere", func(t *testing.T) {
		tt := IntersectSphere(origin, dir)
		require.NotEqual(t, NoHit, tt)
		assert.InDelta(t, 0.5, hitPoint(origin, dir, tt).Length(), tol)
	})
	t.Run("cylinder", func(t *testing.T) {
		tt := IntersectCylinder(origin, dir)
		require.NotEqual(t, NoHit, tt)
		p := hitPoint(origin, dir, tt)
		radial := common.V3(p.X, 0, p.Z).Length()
		onLateral := radial >= 0.5-tol && radial <= 0.5+tol
		onCap := p.Y >= 0.5-tol || p.Y <= -0.5+tol
		assert.True(t, onLateral || onCap, "hit point %v is not on the cylinder surface", p)
	})
	t.Run("cone", func(t *testing.T) {
		tt := IntersectCone(origin, dir)
		require.NotEqual(t, NoHit, tt)
		p := hitPoint(origin, dir, tt)
		radial := common.V3(p.X, 0, p.Z).Length()
		expect := float32(coneSlope) * (coneApexY - p.Y)
		onLateral := radial >= expect-tol && radial <= expect+tol
		onBase := p.Y <= coneBaseY+tol
		assert.True(t, onLateral || onBase, "hit point %v is not on the cone surface", p)
	})
}

func TestNormalsAreUnitLength(t *testing.T) {
	points := map[scenebuffer.PrimitiveType]common.Vec3{
		scenebuffer.PrimitiveSphere:   common.V3(0.3, 0.4, 0).Normalize().Scale(0.5),
		scenebuffer.PrimitiveCube:     common.V3(0.5, 0.1, -0.2),
		scenebuffer.PrimitiveCylinder: common.V3(0.5, 0.1, 0),
		scenebuffer.PrimitiveCone:     common.V3(0.25, 0, 0),
	}
	for typ, p := range points {
		n := Normal(typ, p)
		assert.InDeltaf(t, 1.0, n.Length(), tol, "normal for type %d is not unit length", typ)
	}
}

func TestNormalCubePicksDominantAxis(t *testing.T) {
	assert.Equal(t, common.V3(1, 0, 0), NormalCube(common.V3(0.5, 0.2, -0.3)))
	assert.Equal(t, common.V3(0, -1, 0), NormalCube(common.V3(0.1, -0.5, 0.3)))
	assert.Equal(t, common.V3(0, 0, 1), NormalCube(common.V3(-0.1, 0.2, 0.5)))
}

func TestUVStaysInUnitSquare(t *testing.T) {
	surface := []struct {
		typ scenebuffer.PrimitiveType
		p   common.Vec3
	}{
		{scenebuffer.PrimitiveSphere, common.V3(0.1, -0.3, 0.2).Normalize().Scale(0.5)},
		{scenebuffer.PrimitiveCube, common.V3(-0.5, 0.25, 0.25)},
		{scenebuffer.PrimitiveCylinder, common.V3(-0.5, 0.2, 0)},
		{scenebuffer.PrimitiveCylinder, common.V3(0.1, 0.5, 0.2)},
		{scenebuffer.PrimitiveCone, common.V3(0.2, -0.5, 0.1)},
		{scenebuffer.PrimitiveCone, common.V3(0, 0, 0.25)},
	}
	for _, s := range surface {
		u, v := UV(s.typ, s.p)
		assert.GreaterOrEqual(t, u, float32(0)-tol)
		assert.LessOrEqual(t, u, float32(1)+tol)
		assert.GreaterOrEqual(t, v, float32(0)-tol)
		assert.LessOrEqual(t, v, float32(1)+tol)
	}
}
