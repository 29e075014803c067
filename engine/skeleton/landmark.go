// Package skeleton converts pose landmark frames into the 22 primitive
// records of the reserved skeleton region: a head sphere, a torso cylinder,
// 12 joint spheres, and 8 bone cylinders. The output is a plain record slice;
// the scene buffer's region update applies it, so rebuilding from the same
// frame is byte-for-byte idempotent.
package skeleton

// LandmarkCount is the number of pose landmarks in one frame, following the
// standard 33-point body topology.
const LandmarkCount = 33

// Indices of the landmarks the rig consumes, in the standard 33-point
// topology.
const (
	LandmarkNose          = 0
	LandmarkLeftShoulder  = 11
	LandmarkRightShoulder = 12
	LandmarkLeftElbow     = 13
	LandmarkRightElbow    = 14
	LandmarkLeftWrist     = 15
	LandmarkRightWrist    = 16
	LandmarkLeftHip       = 23
	LandmarkRightHip      = 24
	LandmarkLeftKnee      = 25
	LandmarkRightKnee     = 26
	LandmarkLeftAnkle     = 27
	LandmarkRightAnkle    = 28
)

// Landmark is a single tracked body point. X and Y are normalized image
// coordinates in [0, 1] with Y growing downward; Z is depth relative to the
// hip midpoint, negative toward the camera. Visibility is the tracker's
// confidence in [0, 1].
type Landmark struct {
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Z          float32 `json:"z"`
	Visibility float32 `json:"visibility"`
}

// LandmarkFrame is one tracked pose sample as received from the pose stream.
type LandmarkFrame struct {
	// TimestampMS is the capture timestamp in milliseconds.
	TimestampMS int64 `json:"timestamp_ms"`

	// Landmarks holds the tracked points. A well-formed frame has
	// LandmarkCount entries; shorter frames are treated as fully untracked.
	Landmarks []Landmark `json:"landmarks"`
}

// Valid reports whether the frame carries a complete landmark set.
func (f LandmarkFrame) Valid() bool {
	return len(f.Landmarks) >= LandmarkCount
}
