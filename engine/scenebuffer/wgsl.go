package scenebuffer

import "fmt"

// RecordLayoutWGSL emits the record layout as a WGSL constant header. The
// renderer prepends this to the embedded shader source before compiling, so
// the shader's field offsets are generated from the same constants the Go
// encoder writes with.
//
// Returns:
//   - string: WGSL const declarations for every layout constant
func RecordLayoutWGSL() string {
	return fmt.Sprintf(`// generated record layout, do not edit
const OFF_TYPE: u32 = %du;
const OFF_MATRIX: u32 = %du;
const OFF_AMBIENT: u32 = %du;
const OFF_DIFFUSE: u32 = %du;
const OFF_SPECULAR: u32 = %du;
const OFF_SHININESS: u32 = %du;
const OFF_IOR: u32 = %du;
const OFF_TEX_ENABLE: u32 = %du;
const OFF_REPEAT_U: u32 = %du;
const OFF_REPEAT_V: u32 = %du;
const OFF_TEX_INDEX: u32 = %du;
const OFF_REFLECT: u32 = %du;
const TEXELS_PER_ROW: u32 = %du;
const MAX_OBJECTS: u32 = %du;
const PRIM_CUBE: u32 = %du;
const PRIM_CYLINDER: u32 = %du;
const PRIM_CONE: u32 = %du;
const PRIM_SPHERE: u32 = %du;
`,
		offType, offMatrix, offAmbient, offDiffuse, offSpecular,
		offShininess, offIOR, offTexEnable, offRepeatU, offRepeatV,
		offTexIndex, offReflect,
		TexelsPerRow, MaxObjects,
		PrimitiveCube, PrimitiveCylinder, PrimitiveCone, PrimitiveSphere)
}
