package primitive

import (
	"github.com/chewxy/math32"

	"github.com/prism3d/prism/common"
)

const (
	coneBaseRadius = 0.5
	coneApexY      = 0.5
	coneBaseY      = -0.5

	// coneSlope is the radius growth per unit of distance below the apex.
	coneSlope = coneBaseRadius / (coneApexY - coneBaseY)
)

// IntersectCone intersects a ray with the canonical cone: apex at Y=+0.5,
// circular base of radius 0.5 at Y=-0.5. The lateral surface and the base
// cap are candidates; the nearest valid one wins.
//
// Parameters:
//   - origin: the ray origin in object space
//   - dir: the ray direction in object space
//
// Returns:
//   - float32: the nearest hit parameter > Epsilon, or NoHit
func IntersectCone(origin, dir common.Vec3) float32 {
	best := NoHit

	// Lateral surface: x² + z² = (slope · (apexY - y))² between base and apex.
	k := float32(coneSlope)
	oy := coneApexY - origin.Y
	a := dir.X*dir.X + dir.Z*dir.Z - k*k*dir.Y*dir.Y
	b := 2 * (origin.X*dir.X + origin.Z*dir.Z + k*k*oy*dir.Y)
	c := origin.X*origin.X + origin.Z*origin.Z - k*k*oy*oy

	if a != 0 {
		if disc := b*b - 4*a*c; disc >= 0 {
			sq := math32.Sqrt(disc)
			for _, t := range [2]float32{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t <= Epsilon {
					continue
				}
				y := origin.Y + t*dir.Y
				if y >= coneBaseY && y <= coneApexY {
					best = closer(best, t)
				}
			}
		}
	} else if b != 0 {
		// Ray parallel to the cone surface: the quadratic degenerates to linear.
		if t := -c / b; t > Epsilon {
			y := origin.Y + t*dir.Y
			if y >= coneBaseY && y <= coneApexY {
				best = closer(best, t)
			}
		}
	}

	// Base cap.
	if dir.Y != 0 {
		t := (coneBaseY - origin.Y) / dir.Y
		if t > Epsilon {
			x := origin.X + t*dir.X
			z := origin.Z + t*dir.Z
			if x*x+z*z <= coneBaseRadius*coneBaseRadius {
				best = closer(best, t)
			}
		}
	}

	return best
}

// NormalCone returns the outward normal at a cone surface point: the base
// cap points straight down, the lateral surface follows the implicit
// gradient, and the apex degenerates to straight up.
func NormalCone(p common.Vec3) common.Vec3 {
	if p.Y <= coneBaseY+Epsilon {
		return common.V3(0, -1, 0)
	}
	k := float32(coneSlope)
	n := common.V3(p.X, k*k*(coneApexY-p.Y), p.Z)
	if n.Length() == 0 {
		return common.V3(0, 1, 0)
	}
	return n.Normalize()
}

// UVCone is reserved: conical texture mapping is not implemented and every
// surface point maps to the texture center. Textured cones render with a
// single flat sample.
//
// Parameters:
//   - p: the surface point in object space
//
// Returns:
//   - float32: the constant U coordinate 0.5
//   - float32: the constant V coordinate 0.5
func UVCone(p common.Vec3) (float32, float32) {
	return 0.5, 0.5
}
