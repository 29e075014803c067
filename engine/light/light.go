package light

import "github.com/prism3d/prism/common"

// Type discriminates the supported light kinds.
type Type int

const (
	// Point lights illuminate from a world-space position with no falloff.
	Point Type = iota

	// Directional lights illuminate along a constant direction from infinitely
	// far away.
	Directional
)

// Light represents a single scene light consumed by the shading stage. Point
// lights shade and shadow from their position; directional lights from their
// direction. The soft-shadow parameters (radius, penumbra, angle, width,
// height) travel through the GPU layout but the current shading model casts
// hard shadows only.
type Light interface {
	// Type returns the light kind.
	Type() Type

	// Position returns the world-space position. Meaningful for point lights.
	Position() common.Vec3

	// SetPosition updates the world-space position.
	SetPosition(p common.Vec3)

	// Direction returns the unit illumination direction. Meaningful for
	// directional lights.
	Direction() common.Vec3

	// SetDirection updates the illumination direction. The value is normalized
	// on the way in.
	SetDirection(d common.Vec3)

	// Color returns the light color.
	Color() common.Vec3

	// SetColor updates the light color.
	SetColor(c common.Vec3)

	// Intensity returns the scalar intensity multiplier.
	Intensity() float32

	// SetIntensity updates the scalar intensity multiplier.
	SetIntensity(i float32)

	// ToGPU returns the fixed-layout record uploaded to the light uniform
	// buffer.
	ToGPU() GPULight
}

var _ Light = &light{}

type light struct {
	typ       Type
	position  common.Vec3
	direction common.Vec3
	color     common.Vec3
	intensity float32

	// Reserved soft-shadow parameters, carried but not yet shaded with.
	radius   float32
	penumbra float32
	angle    float32
	width    float32
	height   float32
}

func (l *light) Type() Type {
	return l.typ
}

func (l *light) Position() common.Vec3 {
	return l.position
}

func (l *light) SetPosition(p common.Vec3) {
	l.position = p
}

func (l *light) Direction() common.Vec3 {
	return l.direction
}

func (l *light) SetDirection(d common.Vec3) {
	l.direction = d.Normalize()
}

func (l *light) Color() common.Vec3 {
	return l.color
}

func (l *light) SetColor(c common.Vec3) {
	l.color = c
}

func (l *light) Intensity() float32 {
	return l.intensity
}

func (l *light) SetIntensity(i float32) {
	l.intensity = i
}

func (l *light) ToGPU() GPULight {
	return GPULight{
		Position:  l.position.Array(),
		LightType: float32(l.typ),
		Color:     l.color.Array(),
		Intensity: l.intensity,
		Direction: l.direction.Array(),
		Radius:    l.radius,
		Penumbra:  l.penumbra,
		Angle:     l.angle,
		Width:     l.width,
		Height:    l.height,
	}
}
