package light

import "github.com/prism3d/prism/common"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*light)

// NewLight creates a Light of the given kind with sensible defaults: white
// color, unit intensity, positioned at the origin shining straight down.
//
// Parameters:
//   - typ: the light kind
//   - opts: optional configuration applied in order
//
// Returns:
//   - Light: the constructed light
func NewLight(typ Type, opts ...LightBuilderOption) Light {
	l := &light{
		typ:       typ,
		position:  common.V3(0, 0, 0),
		direction: common.V3(0, -1, 0),
		color:     common.V3(1, 1, 1),
		intensity: 1.0,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a light
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *light) {
		l.position = common.V3(x, y, z)
	}
}

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a light
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *light) {
		l.direction = common.V3(x, y, z).Normalize()
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a light
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *light) {
		l.color = common.V3(r, g, b)
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a light
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *light) {
		l.intensity = intensity
	}
}

// WithSoftShadowRadius is an option builder that sets the emitter radius used
// by area soft shadows. The value is carried through the GPU layout; the
// current shading model does not yet sample it.
//
// Parameters:
//   - radius: the emitter radius
//
// Returns:
//   - LightBuilderOption: a function that applies the radius option to a light
func WithSoftShadowRadius(radius float32) LightBuilderOption {
	return func(l *light) {
		l.radius = radius
	}
}

// WithPenumbra is an option builder that sets the penumbra softness factor.
// Carried through the GPU layout; not yet sampled by the shading model.
//
// Parameters:
//   - penumbra: the penumbra softness factor
//
// Returns:
//   - LightBuilderOption: a function that applies the penumbra option to a light
func WithPenumbra(penumbra float32) LightBuilderOption {
	return func(l *light) {
		l.penumbra = penumbra
	}
}

// WithAreaExtent is an option builder that sets the rectangular emitter
// extent and subtended angle for area lights. Carried through the GPU layout;
// not yet sampled by the shading model.
//
// Parameters:
//   - angle: the subtended angle in radians
//   - width: the emitter width
//   - height: the emitter height
//
// Returns:
//   - LightBuilderOption: a function that applies the area extent option to a light
func WithAreaExtent(angle, width, height float32) LightBuilderOption {
	return func(l *light) {
		l.angle = angle
		l.width = width
		l.height = height
	}
}
