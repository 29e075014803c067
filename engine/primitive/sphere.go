package primitive

import (
	"github.com/chewxy/math32"

	"github.com/prism3d/prism/common"
)

// sphereRadius is the canonical sphere radius: the solid fits the unit cube.
const sphereRadius = 0.5

// IntersectSphere intersects a ray with the canonical sphere of radius 0.5
// centered at the origin.
//
// Parameters:
//   - origin: the ray origin in object space
//   - dir: the ray direction in object space
//
// Returns:
//   - float32: the nearest hit parameter > Epsilon, or NoHit
func IntersectSphere(origin, dir common.Vec3) float32 {
	a := dir.Dot(dir)
	if a == 0 {
		return NoHit
	}
	b := 2 * origin.Dot(dir)
	c := origin.Dot(origin) - sphereRadius*sphereRadius

	disc := b*b - 4*a*c
	if disc < 0 {
		return NoHit
	}
	sq := math32.Sqrt(disc)
	return nearestRoot((-b-sq)/(2*a), (-b+sq)/(2*a))
}

// NormalSphere returns the outward normal at a point on the canonical sphere,
// which is simply the direction from the center.
func NormalSphere(p common.Vec3) common.Vec3 {
	return p.Normalize()
}

// UVSphere maps a sphere surface point with an equirectangular
// parameterization: U wraps the longitude, V spans pole to pole.
//
// Parameters:
//   - p: the surface point in object space
//
// Returns:
//   - float32: the U coordinate in [0, 1]
//   - float32: the V coordinate in [0, 1]
func UVSphere(p common.Vec3) (float32, float32) {
	u := 0.5 + math32.Atan2(p.Z, p.X)/(2*math32.Pi)
	y := p.Y / sphereRadius
	if y > 1 {
		y = 1
	} else if y < -1 {
		y = -1
	}
	v := 0.5 - math32.Asin(y)/math32.Pi
	return u, v
}
