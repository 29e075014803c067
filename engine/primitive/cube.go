package primitive

import (
	"github.com/chewxy/math32"

	"github.com/prism3d/prism/common"
)

// cubeHalf is half the canonical cube's edge length.
const cubeHalf = 0.5

// IntersectCube intersects a ray with the axis-aligned unit cube centered at
// the origin using the slab method. Rays starting inside the cube hit the
// exit face.
//
// Parameters:
//   - origin: the ray origin in object space
//   - dir: the ray direction in object space
//
// Returns:
//   - float32: the nearest hit parameter > Epsilon, or NoHit
func IntersectCube(origin, dir common.Vec3) float32 {
	tMin := float32(math32.Inf(-1))
	tMax := float32(math32.Inf(1))

	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{dir.X, dir.Y, dir.Z}
	for axis := 0; axis < 3; axis++ {
		if d[axis] == 0 {
			if o[axis] < -cubeHalf || o[axis] > cubeHalf {
				return NoHit
			}
			continue
		}
		inv := 1 / d[axis]
		t0 := (-cubeHalf - o[axis]) * inv
		t1 := (cubeHalf - o[axis]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax < tMin {
			return NoHit
		}
	}

	return nearestRoot(tMin, tMax)
}

// NormalCube returns the outward face normal at a point on the cube surface:
// the axis with the largest magnitude wins, signed toward the point.
func NormalCube(p common.Vec3) common.Vec3 {
	ax := math32.Abs(p.X)
	ay := math32.Abs(p.Y)
	az := math32.Abs(p.Z)

	switch {
	case ax >= ay && ax >= az:
		return common.V3(sign(p.X), 0, 0)
	case ay >= az:
		return common.V3(0, sign(p.Y), 0)
	default:
		return common.V3(0, 0, sign(p.Z))
	}
}

// UVCube projects a cube surface point onto its face plane, so each face
// carries the full [0, 1] square.
//
// Parameters:
//   - p: the surface point in object space
//
// Returns:
//   - float32: the U coordinate in [0, 1]
//   - float32: the V coordinate in [0, 1]
func UVCube(p common.Vec3) (float32, float32) {
	n := NormalCube(p)
	switch {
	case n.X != 0:
		return p.Z*sign(n.X) + 0.5, p.Y + 0.5
	case n.Y != 0:
		return p.X + 0.5, p.Z*sign(n.Y) + 0.5
	default:
		return p.X*sign(-n.Z) + 0.5, p.Y + 0.5
	}
}

func sign(f float32) float32 {
	if f < 0 {
		return -1
	}
	return 1
}
