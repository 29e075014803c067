// Package primitive implements ray intersection, surface normals, and UV
// parameterization for the four canonical solids in object space. Every solid
// is unit-sized and origin-centered; instances get their world placement from
// the per-object transform, so this package never sees a matrix.
package primitive

import (
	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/scenebuffer"
)

const (
	// Epsilon is the minimum accepted ray parameter. Hits closer than this are
	// treated as self-intersection noise and skipped.
	Epsilon = 1e-3

	// NoHit is the sentinel ray parameter returned when a ray misses a solid.
	NoHit = float32(-1)
)

// Intersect returns the nearest object-space ray parameter t > Epsilon at
// which the ray origin + t*dir hits the given solid, or NoHit on a miss.
// Unknown primitive tags miss everything, so a malformed record cannot shade.
//
// Parameters:
//   - typ: the primitive tag
//   - origin: the ray origin in object space
//   - dir: the ray direction in object space (need not be normalized)
//
// Returns:
//   - float32: the hit parameter, or NoHit
func Intersect(typ scenebuffer.PrimitiveType, origin, dir common.Vec3) float32 {
	switch typ {
	case scenebuffer.PrimitiveCube:
		return IntersectCube(origin, dir)
	case scenebuffer.PrimitiveCylinder:
		return IntersectCylinder(origin, dir)
	case scenebuffer.PrimitiveCone:
		return IntersectCone(origin, dir)
	case scenebuffer.PrimitiveSphere:
		return IntersectSphere(origin, dir)
	default:
		return NoHit
	}
}

// Normal returns the object-space surface normal of the given solid at a
// point on its surface. The result is unit length.
//
// Parameters:
//   - typ: the primitive tag
//   - p: the surface point in object space
//
// Returns:
//   - common.Vec3: the unit surface normal
func Normal(typ scenebuffer.PrimitiveType, p common.Vec3) common.Vec3 {
	switch typ {
	case scenebuffer.PrimitiveCube:
		return NormalCube(p)
	case scenebuffer.PrimitiveCylinder:
		return NormalCylinder(p)
	case scenebuffer.PrimitiveCone:
		return NormalCone(p)
	case scenebuffer.PrimitiveSphere:
		return NormalSphere(p)
	default:
		return common.V3(0, 1, 0)
	}
}

// UV returns the texture parameterization of the given solid at a surface
// point. Both coordinates land in [0, 1] before material repeat factors are
// applied.
//
// Parameters:
//   - typ: the primitive tag
//   - p: the surface point in object space
//
// Returns:
//   - float32: the U coordinate
//   - float32: the V coordinate
func UV(typ scenebuffer.PrimitiveType, p common.Vec3) (float32, float32) {
	switch typ {
	case scenebuffer.PrimitiveCube:
		return UVCube(p)
	case scenebuffer.PrimitiveCylinder:
		return UVCylinder(p)
	case scenebuffer.PrimitiveCone:
		return UVCone(p)
	case scenebuffer.PrimitiveSphere:
		return UVSphere(p)
	default:
		return 0, 0
	}
}

// nearestRoot picks the smaller quadratic root above Epsilon, falling back to
// the larger one for rays starting inside the solid.
func nearestRoot(t0, t1 float32) float32 {
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	if t0 > Epsilon {
		return t0
	}
	if t1 > Epsilon {
		return t1
	}
	return NoHit
}

// closer keeps the smaller of two candidate parameters, treating NoHit as
// infinitely far.
func closer(a, b float32) float32 {
	if a == NoHit {
		return b
	}
	if b == NoHit {
		return a
	}
	if a < b {
		return a
	}
	return b
}
