package skeleton

import (
	"github.com/chewxy/math32"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/scenebuffer"
)

// parallelLimit is the |cos| threshold beyond which a bone axis counts as
// parallel to the primary reference vector and the frame construction
// switches to the fallback reference.
const parallelLimit = 0.99

// degenerateLength is the bone length below which an endpoint pair counts as
// collapsed and the part is parked instead of oriented.
const degenerateLength = 1e-5

// bone pairs endpoints by landmark index, in slot order.
var boneEndpoints = [8][2]int{
	{LandmarkLeftShoulder, LandmarkLeftElbow},
	{LandmarkRightShoulder, LandmarkRightElbow},
	{LandmarkLeftElbow, LandmarkLeftWrist},
	{LandmarkRightElbow, LandmarkRightWrist},
	{LandmarkLeftHip, LandmarkLeftKnee},
	{LandmarkRightHip, LandmarkRightKnee},
	{LandmarkLeftKnee, LandmarkLeftAnkle},
	{LandmarkRightKnee, LandmarkRightAnkle},
}

// jointLandmarks lists the landmark behind each joint sphere, in slot order.
var jointLandmarks = [12]int{
	LandmarkLeftShoulder, LandmarkRightShoulder,
	LandmarkLeftElbow, LandmarkRightElbow,
	LandmarkLeftWrist, LandmarkRightWrist,
	LandmarkLeftHip, LandmarkRightHip,
	LandmarkLeftKnee, LandmarkRightKnee,
	LandmarkLeftAnkle, LandmarkRightAnkle,
}

// Rig maps landmark frames onto the skeleton region's record slots.
type Rig interface {
	// BuildParts computes the 22 part records for a frame. Frames without a
	// complete landmark set, and individual parts whose landmarks fall below
	// the visibility threshold or collapse to zero length, are parked far
	// outside the scene at negligible scale so they can never shade a pixel.
	//
	// Parameters:
	//   - frame: the landmark frame
	//
	// Returns:
	//   - []scenebuffer.Object: exactly SkeletonPartCount records in slot order
	BuildParts(frame LandmarkFrame) []scenebuffer.Object

	// BuildRegion computes the flat region payload for a frame, ready for the
	// scene buffer's region update. The same frame always yields identical
	// floats.
	//
	// Parameters:
	//   - frame: the landmark frame
	//
	// Returns:
	//   - []float32: SkeletonPartCount rows of flat record data
	BuildRegion(frame LandmarkFrame) []float32
}

var _ Rig = &rigImpl{}

type rigImpl struct {
	worldScale          common.Vec3
	worldOffset         common.Vec3
	visibilityThreshold float32

	headRadius  float32
	jointRadius float32
	boneRadius  float32
	torsoRadius float32
}

func (r *rigImpl) BuildParts(frame LandmarkFrame) []scenebuffer.Object {
	parts := make([]scenebuffer.Object, scenebuffer.SkeletonPartCount)
	for i := range parts {
		parts[i] = scenebuffer.DefaultSkeletonPart(i)
	}

	if !frame.Valid() {
		for i := range parts {
			parkPart(&parts[i])
		}
		return parts
	}

	// Head.
	if p, ok := r.landmarkPoint(frame, LandmarkNose); ok {
		spherePart(&parts[scenebuffer.SkeletonSlotHead], p, r.headRadius)
	} else {
		parkPart(&parts[scenebuffer.SkeletonSlotHead])
	}

	// Torso: a cylinder spanning the shoulder midpoint to the hip midpoint.
	ls, okLS := r.landmarkPoint(frame, LandmarkLeftShoulder)
	rs, okRS := r.landmarkPoint(frame, LandmarkRightShoulder)
	lh, okLH := r.landmarkPoint(frame, LandmarkLeftHip)
	rh, okRH := r.landmarkPoint(frame, LandmarkRightHip)
	if okLS && okRS && okLH && okRH {
		shoulderMid := ls.Add(rs).Scale(0.5)
		hipMid := lh.Add(rh).Scale(0.5)
		r.cylinderPart(&parts[scenebuffer.SkeletonSlotTorso], shoulderMid, hipMid, r.torsoRadius)
	} else {
		parkPart(&parts[scenebuffer.SkeletonSlotTorso])
	}

	// Joints.
	for i, lm := range jointLandmarks {
		slot := scenebuffer.SkeletonSlotJoints + i
		if p, ok := r.landmarkPoint(frame, lm); ok {
			spherePart(&parts[slot], p, r.jointRadius)
		} else {
			parkPart(&parts[slot])
		}
	}

	// Bones.
	for i, ends := range boneEndpoints {
		slot := scenebuffer.SkeletonSlotBones + i
		a, okA := r.landmarkPoint(frame, ends[0])
		b, okB := r.landmarkPoint(frame, ends[1])
		if okA && okB {
			r.cylinderPart(&parts[slot], a, b, r.boneRadius)
		} else {
			parkPart(&parts[slot])
		}
	}

	return parts
}

func (r *rigImpl) BuildRegion(frame LandmarkFrame) []float32 {
	return scenebuffer.EncodeRecords(r.BuildParts(frame))
}

// landmarkPoint maps one landmark into world space, rejecting low-confidence
// points. Image X is mirrored and image Y flipped so the skeleton faces the
// camera the way the tracked person does.
func (r *rigImpl) landmarkPoint(frame LandmarkFrame, index int) (common.Vec3, bool) {
	l := frame.Landmarks[index]
	if l.Visibility < r.visibilityThreshold {
		return common.Vec3{}, false
	}
	p := common.V3(
		(0.5-l.X)*r.worldScale.X,
		(0.5-l.Y)*r.worldScale.Y,
		-l.Z*r.worldScale.Z,
	)
	return p.Add(r.worldOffset), true
}

// spherePart writes a uniform scale plus translation into a part's authored
// row-major transform. The canonical sphere has radius 0.5, so the scale is
// the target diameter.
func spherePart(part *scenebuffer.Object, center common.Vec3, radius float32) {
	s := radius * 2
	part.World = [16]float32{
		s, 0, 0, center.X,
		0, s, 0, center.Y,
		0, 0, s, center.Z,
		0, 0, 0, 1,
	}
}

// cylinderPart orients a part's canonical Y-axis cylinder to span two world
// points. The basis is built from the bone axis with a fixed reference
// vector, switching to a fallback reference when the axis runs parallel to
// it, so near-vertical bones keep a stable roll.
func (r *rigImpl) cylinderPart(part *scenebuffer.Object, a, b common.Vec3, radius float32) {
	d := b.Sub(a)
	length := d.Length()
	if length < degenerateLength {
		parkPart(part)
		return
	}

	axisY := d.Scale(1 / length)
	ref := common.V3(0, 1, 0)
	if math32.Abs(axisY.Dot(ref)) > parallelLimit {
		ref = common.V3(1, 0, 0)
	}
	axisX := ref.Cross(axisY).Normalize()
	axisZ := axisX.Cross(axisY)

	mid := a.Add(b).Scale(0.5)
	thickness := radius * 2

	// Authored row-major: rows carry the scaled basis vectors' components.
	part.World = [16]float32{
		axisX.X * thickness, axisY.X * length, axisZ.X * thickness, mid.X,
		axisX.Y * thickness, axisY.Y * length, axisZ.Y * thickness, mid.Y,
		axisX.Z * thickness, axisY.Z * length, axisZ.Z * thickness, mid.Z,
		0, 0, 0, 1,
	}
}

// parkPart collapses a part to negligible scale far below the scene so an
// untracked slot can never intersect a ray, while its transform stays
// invertible.
func parkPart(part *scenebuffer.Object) {
	const tiny = 1e-4
	part.World = [16]float32{
		tiny, 0, 0, 0,
		0, tiny, 0, -1e6,
		0, 0, tiny, 0,
		0, 0, 0, 1,
	}
}
