// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is used by the renderer to stage asset texture layers before creating the
// GPU texture array.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// LoadTexture decodes an image file (PNG or JPEG) and rescales it to edge×edge
// RGBA pixels. All asset textures share one GPU texture array, and array layers
// must have identical dimensions, so every decoded image is resampled to the
// common layer size with bilinear filtering.
//
// Parameters:
//   - path: the image file path
//   - edge: the shared square layer size in pixels
//
// Returns:
//   - TextureStagingData: the staged RGBA pixel data
//   - error: error if the file cannot be opened or decoded
func LoadTexture(path string, edge int) (TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", path, err)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, edge, edge))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	return TextureStagingData{
		Pixels: scaled.Pix,
		Width:  uint32(edge),
		Height: uint32(edge),
	}, nil
}
