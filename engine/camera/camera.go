package camera

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/prism3d/prism/common"
)

// pitchLimit keeps the orbit away from the poles so the view basis never
// degenerates against the up vector.
const pitchLimit = math32.Pi/2 - 0.01

type cameraImpl struct {
	mu sync.Mutex

	target   common.Vec3
	up       common.Vec3
	yaw      float32
	pitch    float32
	distance float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	eye                   common.Vec3
	viewMatrix            [16]float32
	projectionMatrix      [16]float32
	viewProjectionMatrix  [16]float32
	inverseViewProjection [16]float32
}

// Camera is an orbit camera: it circles a target point at a distance, driven
// by yaw/pitch deltas from input callbacks. Ray generation consumes its
// inverse view-projection matrix and eye position rather than the forward
// matrices, so both are recomputed together by Update.
type Camera interface {
	// Eye returns the world-space camera position as of the last Update.
	//
	// Returns:
	//   - common.Vec3: the eye position
	Eye() common.Vec3

	// Target returns the orbit center.
	//
	// Returns:
	//   - common.Vec3: the target point
	Target() common.Vec3

	// SetTarget moves the orbit center and recomputes matrices.
	//
	// Parameters:
	//   - t: the new target point
	SetTarget(t common.Vec3)

	// Orbit applies yaw and pitch deltas in radians and recomputes matrices.
	// Pitch is clamped short of the poles.
	//
	// Parameters:
	//   - dYaw: the yaw delta in radians
	//   - dPitch: the pitch delta in radians
	Orbit(dYaw, dPitch float32)

	// Zoom scales the orbit distance by the given factor and recomputes
	// matrices. The distance never drops below the near plane.
	//
	// Parameters:
	//   - factor: the multiplicative distance factor
	Zoom(factor float32)

	// SetAspect updates the viewport aspect ratio and recomputes matrices.
	// Called on window resize.
	//
	// Parameters:
	//   - aspect: the new width/height ratio
	SetAspect(aspect float32)

	// ViewMatrix returns the current 4x4 view matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the combined view-projection matrix
	// (column-major).
	//
	// Returns:
	//   - [16]float32: the combined matrix
	ViewProjectionMatrix() [16]float32

	// InverseViewProjectionMatrix returns the inverse of the combined
	// view-projection matrix. Ray generation unprojects NDC corners through it.
	//
	// Returns:
	//   - [16]float32: the inverse view-projection matrix
	InverseViewProjectionMatrix() [16]float32

	// ToGPU returns the fixed-layout camera block uploaded to the frame
	// uniform buffer.
	//
	// Returns:
	//   - GPUCamera: the camera uniform block
	ToGPU() GPUCamera
}

var _ Camera = &cameraImpl{}

func (c *cameraImpl) Eye() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Target() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) SetTarget(t common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
	c.update()
}

func (c *cameraImpl) Orbit(dYaw, dPitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw += dYaw
	c.pitch += dPitch
	if c.pitch > pitchLimit {
		c.pitch = pitchLimit
	} else if c.pitch < -pitchLimit {
		c.pitch = -pitchLimit
	}
	c.update()
}

func (c *cameraImpl) Zoom(factor float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distance *= factor
	if c.distance < c.near {
		c.distance = c.near
	}
	c.update()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.update()
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) InverseViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseViewProjection
}

func (c *cameraImpl) ToGPU() GPUCamera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCamera{
		InverseViewProjection: c.inverseViewProjection,
		Eye:                   c.eye.Array(),
	}
}

// update recomputes the eye position and all four matrices. Callers hold the
// mutex.
func (c *cameraImpl) update() {
	cp := math32.Cos(c.pitch)
	c.eye = c.target.Add(common.V3(
		c.distance*cp*math32.Sin(c.yaw),
		c.distance*math32.Sin(c.pitch),
		c.distance*cp*math32.Cos(c.yaw),
	))

	common.LookAt(c.viewMatrix[:],
		c.eye.X, c.eye.Y, c.eye.Z,
		c.target.X, c.target.Y, c.target.Z,
		c.up.X, c.up.Y, c.up.Z)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])

	if !common.Invert4(c.inverseViewProjection[:], c.viewProjectionMatrix[:]) {
		common.Identity(c.inverseViewProjection[:])
	}
}
