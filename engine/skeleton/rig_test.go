package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/scenebuffer"
)

const tol = 1e-4

// frameAt builds a fully visible frame with every landmark at the image
// center, then overrides selected landmarks so they map to the given world
// points under the default rig mapping (2-unit span, no offset).
func frameAt(points map[int]common.Vec3) LandmarkFrame {
	landmarks := make([]Landmark, LandmarkCount)
	for i := range landmarks {
		landmarks[i] = Landmark{X: 0.5, Y: 0.5, Z: 0, Visibility: 1}
	}
	for index, p := range points {
		landmarks[index] = Landmark{
			X:          0.5 - p.X/2,
			Y:          0.5 - p.Y/2,
			Z:          -p.Z / 2,
			Visibility: 1,
		}
	}
	return LandmarkFrame{TimestampMS: 1000, Landmarks: landmarks}
}

// applyRowMajor transforms a point by an authored row-major matrix.
func applyRowMajor(w [16]float32, p common.Vec3) common.Vec3 {
	return common.V3(
		w[0]*p.X+w[1]*p.Y+w[2]*p.Z+w[3],
		w[4]*p.X+w[5]*p.Y+w[6]*p.Z+w[7],
		w[8]*p.X+w[9]*p.Y+w[10]*p.Z+w[11],
	)
}

func assertVecInDelta(t *testing.T, want, got common.Vec3, delta float32) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, float64(delta))
	assert.InDelta(t, want.Y, got.Y, float64(delta))
	assert.InDelta(t, want.Z, got.Z, float64(delta))
}

func TestBuildPartsSlotTypesMatchDefaults(t *testing.T) {
	rig := NewRig()
	parts := rig.BuildParts(frameAt(nil))
	require.Len(t, parts, scenebuffer.SkeletonPartCount)

	for i, part := range parts {
		def := scenebuffer.DefaultSkeletonPart(i)
		assert.Equalf(t, def.Type, part.Type, "slot %d primitive type", i)
		assert.Equalf(t, def.Material, part.Material, "slot %d material", i)
	}
}

func TestHeadFollowsNose(t *testing.T) {
	nose := common.V3(0.3, 0.8, -0.2)
	rig := NewRig()
	parts := rig.BuildParts(frameAt(map[int]common.Vec3{LandmarkNose: nose}))

	head := parts[scenebuffer.SkeletonSlotHead]
	center := applyRowMajor(head.World, common.Vec3{})
	assertVecInDelta(t, nose, center, tol)

	// Canonical sphere radius 0.5 scaled to the default head radius.
	surface := applyRowMajor(head.World, common.V3(0.5, 0, 0))
	assert.InDelta(t, 0.12, surface.Sub(center).Length(), tol)
}

func TestBoneSpansItsEndpoints(t *testing.T) {
	shoulder := common.V3(-0.4, 0.5, 0)
	elbow := common.V3(-0.6, 0.1, 0.1)
	rig := NewRig()
	parts := rig.BuildParts(frameAt(map[int]common.Vec3{
		LandmarkLeftShoulder: shoulder,
		LandmarkLeftElbow:    elbow,
	}))

	upperArm := parts[scenebuffer.SkeletonSlotBones].World
	top := applyRowMajor(upperArm, common.V3(0, 0.5, 0))
	bottom := applyRowMajor(upperArm, common.V3(0, -0.5, 0))

	// The cylinder's Y extent spans the endpoints, in either direction.
	spans := top.Sub(shoulder).Length() < tol && bottom.Sub(elbow).Length() < tol ||
		top.Sub(elbow).Length() < tol && bottom.Sub(shoulder).Length() < tol
	assert.True(t, spans, "bone endpoints %v / %v not spanned by %v / %v", shoulder, elbow, top, bottom)
}

func TestVerticalBoneFallbackReference(t *testing.T) {
	hip := common.V3(0.2, 0.5, 0)
	knee := common.V3(0.2, -0.5, 0) // exactly world-vertical
	rig := NewRig()
	parts := rig.BuildParts(frameAt(map[int]common.Vec3{
		LandmarkLeftHip:  hip,
		LandmarkLeftKnee: knee,
	}))

	thigh := parts[scenebuffer.SkeletonSlotBones+4].World
	for i, f := range thigh {
		assert.Falsef(t, f != f, "element %d is NaN", i)
	}

	// Radial directions keep the configured thickness.
	center := applyRowMajor(thigh, common.Vec3{})
	side := applyRowMajor(thigh, common.V3(0.5, 0, 0))
	assert.InDelta(t, 0.035, side.Sub(center).Length(), tol)
}

func TestLowVisibilityParksPart(t *testing.T) {
	frame := frameAt(nil)
	frame.Landmarks[LandmarkLeftWrist].Visibility = 0.1

	rig := NewRig()
	parts := rig.BuildParts(frame)

	wristSlot := scenebuffer.SkeletonSlotJoints + 4
	center := applyRowMajor(parts[wristSlot].World, common.Vec3{})
	assert.Less(t, center.Y, float32(-1000), "low-visibility part must be parked off-scene")

	// Forearm depends on the wrist and is parked too.
	forearm := applyRowMajor(parts[scenebuffer.SkeletonSlotBones+2].World, common.Vec3{})
	assert.Less(t, forearm.Y, float32(-1000))
}

func TestIncompleteFrameParksEverything(t *testing.T) {
	rig := NewRig()
	parts := rig.BuildParts(LandmarkFrame{Landmarks: make([]Landmark, 5)})
	for i, part := range parts {
		center := applyRowMajor(part.World, common.Vec3{})
		assert.Lessf(t, center.Y, float32(-1000), "slot %d must be parked", i)
	}
}

func TestDegenerateBoneIsParkedButInvertible(t *testing.T) {
	p := common.V3(0.1, 0.2, 0.3)
	rig := NewRig()
	parts := rig.BuildParts(frameAt(map[int]common.Vec3{
		LandmarkLeftKnee:  p,
		LandmarkLeftAnkle: p, // zero-length shin
	}))

	shin := parts[scenebuffer.SkeletonSlotBones+6].World
	center := applyRowMajor(shin, common.Vec3{})
	assert.Less(t, center.Y, float32(-1000))

	var col, inv [16]float32
	common.Transpose4(col[:], shin[:])
	assert.True(t, common.Invert4(inv[:], col[:]), "parked transform must stay invertible")
}

func TestBuildRegionIsIdempotent(t *testing.T) {
	frame := frameAt(map[int]common.Vec3{LandmarkNose: common.V3(0, 0.9, 0)})
	rig := NewRig()

	first := rig.BuildRegion(frame)
	second := rig.BuildRegion(frame)
	require.Len(t, first, scenebuffer.SkeletonPartCount*scenebuffer.RowWidth)
	assert.Equal(t, first, second)
}

func TestWorldOffsetShiftsFigure(t *testing.T) {
	rig := NewRig(WithWorldOffset(0, 1, -3))
	parts := rig.BuildParts(frameAt(map[int]common.Vec3{LandmarkNose: common.Vec3{}}))
	center := applyRowMajor(parts[scenebuffer.SkeletonSlotHead].World, common.Vec3{})
	assertVecInDelta(t, common.V3(0, 1, -3), center, tol)
}
