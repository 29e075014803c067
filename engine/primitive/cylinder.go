package primitive

import (
	"github.com/chewxy/math32"

	"github.com/prism3d/prism/common"
)

const (
	cylinderRadius = 0.5
	cylinderHalf   = 0.5 // half the canonical cylinder height
)

// IntersectCylinder intersects a ray with the canonical Y-axis cylinder of
// radius 0.5 and height 1 centered at the origin. The lateral surface and
// both end caps are candidates; the nearest valid one wins.
//
// Parameters:
//   - origin: the ray origin in object space
//   - dir: the ray direction in object space
//
// Returns:
//   - float32: the nearest hit parameter > Epsilon, or NoHit
func IntersectCylinder(origin, dir common.Vec3) float32 {
	best := NoHit

	// Lateral surface: project onto the XZ plane.
	a := dir.X*dir.X + dir.Z*dir.Z
	if a != 0 {
		b := 2 * (origin.X*dir.X + origin.Z*dir.Z)
		c := origin.X*origin.X + origin.Z*origin.Z - cylinderRadius*cylinderRadius
		if disc := b*b - 4*a*c; disc >= 0 {
			sq := math32.Sqrt(disc)
			for _, t := range [2]float32{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t <= Epsilon {
					continue
				}
				y := origin.Y + t*dir.Y
				if y >= -cylinderHalf && y <= cylinderHalf {
					best = closer(best, t)
				}
			}
		}
	}

	// End caps.
	if dir.Y != 0 {
		for _, capY := range [2]float32{cylinderHalf, -cylinderHalf} {
			t := (capY - origin.Y) / dir.Y
			if t <= Epsilon {
				continue
			}
			x := origin.X + t*dir.X
			z := origin.Z + t*dir.Z
			if x*x+z*z <= cylinderRadius*cylinderRadius {
				best = closer(best, t)
			}
		}
	}

	return best
}

// NormalCylinder returns the outward normal at a cylinder surface point. Cap
// membership is decided by Y proximity so points on the cap rim resolve to
// the cap they sit on.
func NormalCylinder(p common.Vec3) common.Vec3 {
	if p.Y >= cylinderHalf-Epsilon {
		return common.V3(0, 1, 0)
	}
	if p.Y <= -cylinderHalf+Epsilon {
		return common.V3(0, -1, 0)
	}
	return common.V3(p.X, 0, p.Z).Normalize()
}

// UVCylinder maps the lateral surface with U wrapping the circumference and V
// climbing the height; cap points get a planar projection instead.
//
// Parameters:
//   - p: the surface point in object space
//
// Returns:
//   - float32: the U coordinate in [0, 1]
//   - float32: the V coordinate in [0, 1]
func UVCylinder(p common.Vec3) (float32, float32) {
	if p.Y >= cylinderHalf-Epsilon || p.Y <= -cylinderHalf+Epsilon {
		return p.X + 0.5, p.Z + 0.5
	}
	u := 0.5 + math32.Atan2(p.Z, p.X)/(2*math32.Pi)
	v := p.Y + cylinderHalf
	return u, v
}
