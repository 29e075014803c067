package skeleton

import "github.com/prism3d/prism/common"

// RigBuilderOption is a function that configures a Rig instance during construction.
type RigBuilderOption func(*rigImpl)

// NewRig creates a rig with proportions tuned for a roughly 2-unit-tall
// figure centered near the origin: image coordinates span 2 world units,
// joints are small spheres, and bones are slim cylinders.
//
// Parameters:
//   - opts: optional configuration applied in order
//
// Returns:
//   - Rig: the constructed rig
func NewRig(opts ...RigBuilderOption) Rig {
	r := &rigImpl{
		worldScale:          common.V3(2, 2, 2),
		worldOffset:         common.V3(0, 0, 0),
		visibilityThreshold: 0.5,
		headRadius:          0.12,
		jointRadius:         0.05,
		boneRadius:          0.035,
		torsoRadius:         0.14,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.headRadius <= 0 || r.jointRadius <= 0 || r.boneRadius <= 0 || r.torsoRadius <= 0 {
		panic("skeleton: rig part radii must be positive")
	}
	return r
}

// WithWorldScale is an option builder that sets the world-unit span of the
// normalized landmark space per axis.
//
// Parameters:
//   - x, y, z: the world span per axis
//
// Returns:
//   - RigBuilderOption: a function that applies the scale option to a rig
func WithWorldScale(x, y, z float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.worldScale = common.V3(x, y, z)
	}
}

// WithWorldOffset is an option builder that sets the world-space offset added
// to every mapped landmark, placing the figure inside the scene.
//
// Parameters:
//   - x, y, z: the offset components
//
// Returns:
//   - RigBuilderOption: a function that applies the offset option to a rig
func WithWorldOffset(x, y, z float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.worldOffset = common.V3(x, y, z)
	}
}

// WithVisibilityThreshold is an option builder that sets the minimum landmark
// confidence below which a part is parked instead of placed.
//
// Parameters:
//   - threshold: the confidence threshold in [0, 1]
//
// Returns:
//   - RigBuilderOption: a function that applies the threshold option to a rig
func WithVisibilityThreshold(threshold float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.visibilityThreshold = threshold
	}
}

// WithPartRadii is an option builder that sets the rig part proportions.
//
// Parameters:
//   - head: the head sphere radius
//   - joint: the joint sphere radius
//   - bone: the bone cylinder radius
//   - torso: the torso cylinder radius
//
// Returns:
//   - RigBuilderOption: a function that applies the radii option to a rig
func WithPartRadii(head, joint, bone, torso float32) RigBuilderOption {
	return func(r *rigImpl) {
		r.headRadius = head
		r.jointRadius = joint
		r.boneRadius = bone
		r.torsoRadius = torso
	}
}
