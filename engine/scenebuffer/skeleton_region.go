package scenebuffer

// Slot layout of the reserved skeleton region. The region is a fixed
// SkeletonPartCount rows appended after the static scene; its starting row is
// recorded once at encode time (Buffer.SkeletonStart) and never moves.
const (
	// SkeletonSlotHead is the single head sphere.
	SkeletonSlotHead = 0

	// SkeletonSlotTorso is the single torso cylinder.
	SkeletonSlotTorso = 1

	// SkeletonSlotJoints is the first of 12 joint spheres.
	SkeletonSlotJoints = 2

	// SkeletonSlotBones is the first of 8 bone cylinders.
	SkeletonSlotBones = 14
)

// DefaultSkeletonPart returns the inert record a skeleton slot holds before
// any landmark frame arrives: an identity transform and the part type's
// default material. Slots keep these contents for as long as no pose data is
// received, so an un-tracked skeleton renders as a default-posed, visibly
// colored figure rather than garbage.
//
// Parameters:
//   - slot: the region-relative slot index, in [0, SkeletonPartCount)
//
// Returns:
//   - Object: the default record for that slot
func DefaultSkeletonPart(slot int) Object {
	var obj Object
	Identity16(&obj.World)

	switch {
	case slot == SkeletonSlotHead:
		obj.Type = PrimitiveSphere
		obj.Material = skeletonMaterial([3]float32{0.87, 0.72, 0.58}) // skin tone
	case slot == SkeletonSlotTorso:
		obj.Type = PrimitiveCylinder
		obj.Material = skeletonMaterial([3]float32{0.2, 0.3, 0.8}) // blue
	case slot >= SkeletonSlotJoints && slot < SkeletonSlotBones:
		obj.Type = PrimitiveSphere
		obj.Material = skeletonMaterial([3]float32{1, 1, 1}) // white
	default:
		obj.Type = PrimitiveCylinder
		obj.Material = skeletonMaterial([3]float32{0.5, 0.5, 0.5}) // gray
	}

	return obj
}

// Identity16 resets a fixed-size 16-float matrix to identity. Row-major and
// column-major identity coincide, so this is layout-neutral.
//
// Parameters:
//   - m: the matrix to reset
func Identity16(m *[16]float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// skeletonMaterial builds the standard overlay material around a base color:
// the base drives ambient and diffuse, with a soft white specular highlight.
func skeletonMaterial(base [3]float32) Material {
	return Material{
		Ambient:   [3]float32{base[0] * 0.4, base[1] * 0.4, base[2] * 0.4},
		Diffuse:   base,
		Specular:  [3]float32{0.3, 0.3, 0.3},
		Shininess: 16,
		RepeatU:   1,
		RepeatV:   1,
	}
}
