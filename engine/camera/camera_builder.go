package camera

import "github.com/prism3d/prism/common"

// CameraBuilderOption is a function that configures a Camera instance during construction.
type CameraBuilderOption func(*cameraImpl)

// NewCamera creates an orbit camera with sensible defaults: orbiting the
// origin at distance 5, 60° vertical field of view, 16:9 aspect, near 0.1 and
// far 100. Matrices are valid immediately after construction.
//
// Parameters:
//   - opts: optional configuration applied in order
//
// Returns:
//   - Camera: the constructed camera
func NewCamera(opts ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		target:   common.V3(0, 0, 0),
		up:       common.V3(0, 1, 0),
		distance: 5,
		fov:      1.0472, // 60°
		aspect:   16.0 / 9.0,
		near:     0.1,
		far:      100,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.distance < c.near {
		panic("camera: orbit distance must be at least the near plane distance")
	}
	c.update()
	return c
}

// WithTarget is an option builder that sets the orbit center.
//
// Parameters:
//   - x, y, z: the target point components
//
// Returns:
//   - CameraBuilderOption: a function that applies the target option to a camera
func WithTarget(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = common.V3(x, y, z)
	}
}

// WithUp is an option builder that sets the camera up vector.
//
// Parameters:
//   - x, y, z: the up vector components
//
// Returns:
//   - CameraBuilderOption: a function that applies the up option to a camera
func WithUp(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = common.V3(x, y, z).Normalize()
	}
}

// WithOrbit is an option builder that sets the initial yaw, pitch, and
// distance of the orbit.
//
// Parameters:
//   - yaw: the yaw angle in radians
//   - pitch: the pitch angle in radians
//   - distance: the orbit distance
//
// Returns:
//   - CameraBuilderOption: a function that applies the orbit option to a camera
func WithOrbit(yaw, pitch, distance float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yaw = yaw
		c.pitch = pitch
		c.distance = distance
	}
}

// WithPerspective is an option builder that sets the projection parameters.
//
// Parameters:
//   - fov: the vertical field of view in radians
//   - aspect: the viewport width/height ratio
//   - near: the near clipping plane distance
//   - far: the far clipping plane distance
//
// Returns:
//   - CameraBuilderOption: a function that applies the perspective option to a camera
func WithPerspective(fov, aspect, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
		c.aspect = aspect
		c.near = near
		c.far = far
	}
}
