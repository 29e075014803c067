// Package scenebuffer flattens a scene's primitive instances into the
// fixed-layout float buffer consumed by the parallel shading stage. Each
// object occupies exactly one RowWidth-float row (one texture row of RGBA32F
// texels), and the final SkeletonPartCount rows are reserved for the live
// pose overlay.
//
// Matrix layout contract: world matrices are stored row-major exactly as
// authored. The shading stage (both the CPU tracer and the WGSL fragment
// shader) transposes on fetch, because its math library is column-major.
// That transpose happens in exactly one place per consumer — anywhere else
// it is a bug.
package scenebuffer

import "fmt"

// Buffer is the host-owned flat scene encoding. The static region is written
// once per scene load; the trailing skeleton region is the only part mutated
// during steady-state rendering, via UpdateRegion. The GPU-resident texture
// mirror is kept in sync by the renderer and never written by the shading
// stage.
type Buffer struct {
	data []float32

	staticCount   int
	skeletonStart int // row index of the first skeleton record
	rowCount      int
}

// Encode flattens the given objects into a new Buffer and appends the
// reserved skeleton region, pre-filled with identity transforms and
// per-part-type default materials so the overlay is inert but visible before
// any landmark data arrives.
//
// Parameters:
//   - objects: the static scene objects, in draw-independent order
//
// Returns:
//   - *Buffer: the encoded buffer
//   - error: error if the object count exceeds the traversal cap
func Encode(objects []Object) (*Buffer, error) {
	total := len(objects) + SkeletonPartCount
	if total > MaxObjects {
		return nil, fmt.Errorf("scenebuffer: %d objects + %d skeleton parts exceed the %d object cap",
			len(objects), SkeletonPartCount, MaxObjects)
	}

	b := &Buffer{
		data:          make([]float32, total*RowWidth),
		staticCount:   len(objects),
		skeletonStart: len(objects),
		rowCount:      total,
	}

	for i, obj := range objects {
		putRecord(b.data[i*RowWidth:(i+1)*RowWidth], obj)
	}
	for i := 0; i < SkeletonPartCount; i++ {
		row := b.skeletonStart + i
		putRecord(b.data[row*RowWidth:(row+1)*RowWidth], DefaultSkeletonPart(i))
	}

	return b, nil
}

// EncodeRecords flattens a slice of objects into a bare flat array with no
// skeleton region, RowWidth floats per object. This is the encoding used to
// build UpdateRegion payloads.
//
// Parameters:
//   - objects: the objects to encode
//
// Returns:
//   - []float32: the flat encoding, len(objects)*RowWidth floats
func EncodeRecords(objects []Object) []float32 {
	data := make([]float32, len(objects)*RowWidth)
	for i, obj := range objects {
		putRecord(data[i*RowWidth:(i+1)*RowWidth], obj)
	}
	return data
}

// UpdateRegion overwrites whole rows starting at startRow with the given
// flat record data. This is the only mutation path during steady-state
// rendering. It is idempotent: identical input yields identical buffer
// contents, and rows outside [startRow, startRow+len/RowWidth) are never
// touched.
//
// Parameters:
//   - startRow: the first row index to overwrite
//   - data: flat record data, a whole number of RowWidth-float rows
//
// Returns:
//   - error: error if the data is not row-aligned or the range is out of bounds
func (b *Buffer) UpdateRegion(startRow int, data []float32) error {
	if len(data)%RowWidth != 0 {
		return fmt.Errorf("scenebuffer: region data length %d is not a multiple of the %d-float row", len(data), RowWidth)
	}
	rows := len(data) / RowWidth
	if startRow < 0 || startRow+rows > b.rowCount {
		return fmt.Errorf("scenebuffer: region rows [%d, %d) outside buffer of %d rows", startRow, startRow+rows, b.rowCount)
	}
	copy(b.data[startRow*RowWidth:], data)
	return nil
}

// DecodeRecord reads back the object encoded at the given row. Encoding
// followed by decoding reproduces the original type, transform, and material
// fields exactly.
//
// Parameters:
//   - row: the row index to decode
//
// Returns:
//   - Object: the decoded object
//   - error: error if the row index is out of bounds
func (b *Buffer) DecodeRecord(row int) (Object, error) {
	if row < 0 || row >= b.rowCount {
		return Object{}, fmt.Errorf("scenebuffer: row %d outside buffer of %d rows", row, b.rowCount)
	}
	r := b.data[row*RowWidth : (row+1)*RowWidth]

	var obj Object
	obj.Type = PrimitiveType(r[offType])
	copy(obj.World[:], r[offMatrix:offMatrix+16])

	m := &obj.Material
	copy(m.Ambient[:], r[offAmbient:offAmbient+3])
	copy(m.Diffuse[:], r[offDiffuse:offDiffuse+3])
	copy(m.Specular[:], r[offSpecular:offSpecular+3])
	m.Shininess = r[offShininess]
	m.IOR = r[offIOR]
	m.TextureEnabled = r[offTexEnable] != 0
	m.RepeatU = r[offRepeatU]
	m.RepeatV = r[offRepeatV]
	m.TextureIndex = int(r[offTexIndex])
	copy(m.Reflective[:], r[offReflect:offReflect+3])

	return obj, nil
}

// Data returns the flat float contents. The slice is the buffer's backing
// store; callers upload it, they do not mutate it.
func (b *Buffer) Data() []float32 {
	return b.data
}

// Row returns the flat contents of a single row. The slice aliases the
// buffer's backing store.
//
// Parameters:
//   - row: the row index
//
// Returns:
//   - []float32: the RowWidth floats of that row
func (b *Buffer) Row(row int) []float32 {
	return b.data[row*RowWidth : (row+1)*RowWidth]
}

// StaticCount returns the number of static-region records.
func (b *Buffer) StaticCount() int {
	return b.staticCount
}

// SkeletonStart returns the row index of the first skeleton record. It is
// fixed at encode time and never changes while the scene is loaded.
func (b *Buffer) SkeletonStart() int {
	return b.skeletonStart
}

// RowCount returns the total number of rows (static + skeleton).
func (b *Buffer) RowCount() int {
	return b.rowCount
}

// putRecord writes one object into a RowWidth-float destination row,
// zeroing the trailing pad scalars.
func putRecord(dst []float32, obj Object) {
	for i := range dst {
		dst[i] = 0
	}

	dst[offType] = float32(obj.Type)
	copy(dst[offMatrix:offMatrix+16], obj.World[:])

	m := obj.Material
	copy(dst[offAmbient:offAmbient+3], m.Ambient[:])
	copy(dst[offDiffuse:offDiffuse+3], m.Diffuse[:])
	copy(dst[offSpecular:offSpecular+3], m.Specular[:])
	dst[offShininess] = m.Shininess
	dst[offIOR] = m.IOR
	if m.TextureEnabled {
		dst[offTexEnable] = 1
	}
	dst[offRepeatU] = m.RepeatU
	dst[offRepeatV] = m.RepeatV
	dst[offTexIndex] = float32(m.TextureIndex)
	copy(dst[offReflect:offReflect+3], m.Reflective[:])
}
