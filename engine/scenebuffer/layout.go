package scenebuffer

// PrimitiveType is the numeric tag identifying the canonical solid an object
// record represents. The tag values are part of the buffer wire format and
// must match the dispatch table in the shading stage.
type PrimitiveType int

const (
	// PrimitiveCube is a cube of side 1 centered at the object-space origin.
	PrimitiveCube PrimitiveType = iota

	// PrimitiveCylinder is a cylinder of radius 0.5 and height 1, axis-aligned
	// to object-space Y, centered at the origin.
	PrimitiveCylinder

	// PrimitiveCone is a cone with base radius 0.5 and height 1, apex at
	// object-space Y=+0.5 and base at Y=-0.5.
	PrimitiveCone

	// PrimitiveSphere is a sphere of radius 0.5 centered at the origin.
	PrimitiveSphere
)

// Field offsets of one object record, in floats from the start of its row.
// These constants are the single source of truth for the record layout: the
// encoder, the decoder, and the WGSL header emitted by RecordLayoutWGSL all
// derive from them, so a field writer cannot drift from its reader.
const (
	offType      = 0  // primitive type tag
	offMatrix    = 1  // 16 floats, world matrix in row-major order as authored
	offAmbient   = 17 // material ambient RGB
	offDiffuse   = 20 // material diffuse RGB
	offSpecular  = 23 // material specular RGB
	offShininess = 26 // specular exponent (clamped before use, not at encode)
	offIOR       = 27 // index of refraction (reserved by the shading model)
	offTexEnable = 28 // 1.0 when the material samples an asset texture
	offRepeatU   = 29 // texture repeat count in U
	offRepeatV   = 30 // texture repeat count in V
	offTexIndex  = 31 // asset texture array layer
	offReflect   = 32 // reflective color RGB (reserved by the shading model)

	// FloatsPerObject is the logical scalar count of one record:
	// 1 type tag + 16 matrix + 18 material fields.
	FloatsPerObject = 35

	// RowWidth is FloatsPerObject padded up to a whole number of 4-channel
	// texels. One record occupies exactly one texture row; trailing pad
	// scalars are always zero.
	RowWidth = (FloatsPerObject + 3) / 4 * 4

	// TexelsPerRow is the backing texture's width in RGBA32F texels.
	TexelsPerRow = RowWidth / 4
)

// The record layout is a structural contract: if a field offset is moved past
// the declared scalar count, this constant underflows and the package stops
// compiling.
const _ uint = FloatsPerObject - (offReflect + 3)

const (
	// MaxObjects bounds the linear per-pixel scan in the shading stage. It is a
	// hard iteration limit there, so the encoder refuses buffers beyond it.
	MaxObjects = 256

	// SkeletonPartCount is the fixed size of the reserved skeleton region:
	// 1 head sphere, 1 torso cylinder, 12 joint spheres, 8 bone cylinders.
	SkeletonPartCount = 22
)

// Material holds the 18 scalar material fields of an object record.
type Material struct {
	// Ambient is the ambient reflectance RGB.
	Ambient [3]float32

	// Diffuse is the Lambertian reflectance RGB.
	Diffuse [3]float32

	// Specular is the specular reflectance RGB.
	Specular [3]float32

	// Shininess is the specular exponent. Degenerate authored values are
	// stored as-is; the shading stage clamps to [1, 256] before exponentiation.
	Shininess float32

	// IOR is the index of refraction. Declared by the record format but not
	// consumed by the current shading model.
	IOR float32

	// TextureEnabled selects between the diffuse color and an asset texture
	// sample for the diffuse term.
	TextureEnabled bool

	// RepeatU and RepeatV tile the texture across the surface UVs.
	RepeatU float32
	RepeatV float32

	// TextureIndex is the asset texture array layer, valid when
	// TextureEnabled is set. At most 8 layers are bound.
	TextureIndex int

	// Reflective is the mirror reflectance RGB. Declared by the record format
	// but not consumed by the current shading model.
	Reflective [3]float32
}

// Object is one primitive instance prior to encoding.
type Object struct {
	// Type is the primitive tag.
	Type PrimitiveType

	// World is the object-to-world affine transform in row-major order as
	// authored. The shading stage transposes it on fetch; see Buffer docs.
	World [16]float32

	// Material holds the surface appearance fields.
	Material Material
}
