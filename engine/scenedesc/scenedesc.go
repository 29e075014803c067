// Package scenedesc loads declarative scene files: the static objects,
// lights, camera start pose, and asset texture list a demo renders. Files are
// YAML; a parse or validation failure is returned as an error so callers can
// keep showing the previously loaded scene.
package scenedesc

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/camera"
	"github.com/prism3d/prism/engine/light"
	"github.com/prism3d/prism/engine/scenebuffer"
)

// MaterialDesc is the authored surface appearance of one object.
type MaterialDesc struct {
	Ambient   [3]float32 `yaml:"ambient"`
	Diffuse   [3]float32 `yaml:"diffuse"`
	Specular  [3]float32 `yaml:"specular"`
	Shininess float32    `yaml:"shininess"`
	IOR       float32    `yaml:"ior"`
	// Texture is the asset texture index. Omit it for an untextured surface.
	Texture *int       `yaml:"texture"`
	Repeat  [2]float32 `yaml:"repeat"`
	Reflect [3]float32 `yaml:"reflect"`
}

// ObjectDesc is one authored primitive instance. Rotation is in degrees,
// applied in yaw-pitch-roll order.
type ObjectDesc struct {
	Type     string       `yaml:"type"`
	Position [3]float32   `yaml:"position"`
	Rotation [3]float32   `yaml:"rotation"`
	Scale    [3]float32   `yaml:"scale"`
	Material MaterialDesc `yaml:"material"`
}

// LightDesc is one authored light.
type LightDesc struct {
	Type      string     `yaml:"type"`
	Position  [3]float32 `yaml:"position"`
	Direction [3]float32 `yaml:"direction"`
	Color     [3]float32 `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
}

// CameraDesc is the authored camera start pose. Angles are in degrees.
type CameraDesc struct {
	Target     [3]float32 `yaml:"target"`
	Yaw        float32    `yaml:"yaw"`
	Pitch      float32    `yaml:"pitch"`
	Distance   float32    `yaml:"distance"`
	FOVDegrees float32    `yaml:"fov_degrees"`
}

// SceneDesc is a fully parsed scene file. Ambient, Diffuse, and Specular are
// the scene-global shading coefficients: Ambient scales every material's
// ambient color, Diffuse and Specular scale the per-light diffuse and
// specular terms.
type SceneDesc struct {
	Ambient  [3]float32   `yaml:"ambient"`
	Diffuse  float32      `yaml:"diffuse"`
	Specular float32      `yaml:"specular"`
	Camera   CameraDesc   `yaml:"camera"`
	Textures []string     `yaml:"textures"`
	Objects  []ObjectDesc `yaml:"objects"`
	Lights   []LightDesc  `yaml:"lights"`
}

// Load reads and parses a scene file.
//
// Parameters:
//   - path: the scene file path
//
// Returns:
//   - *SceneDesc: the parsed scene
//   - error: error if the file cannot be read or parsed
func Load(path string) (*SceneDesc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}
	desc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}
	return desc, nil
}

// Parse parses scene file contents and applies defaults: unit scale for
// zero-scaled objects, unit repeat factors, and a usable camera distance.
//
// Parameters:
//   - data: the raw YAML contents
//
// Returns:
//   - *SceneDesc: the parsed scene
//   - error: error if the YAML is malformed or the light set exceeds the cap
func Parse(data []byte) (*SceneDesc, error) {
	desc := &SceneDesc{}
	if err := yaml.Unmarshal(data, desc); err != nil {
		return nil, fmt.Errorf("malformed scene yaml: %w", err)
	}

	if len(desc.Lights) > light.MaxLights {
		return nil, fmt.Errorf("scene declares %d lights, cap is %d", len(desc.Lights), light.MaxLights)
	}

	for i := range desc.Objects {
		o := &desc.Objects[i]
		if o.Scale == [3]float32{} {
			o.Scale = [3]float32{1, 1, 1}
		}
		if o.Material.Repeat == [2]float32{} {
			o.Material.Repeat = [2]float32{1, 1}
		}
	}
	if desc.Diffuse == 0 {
		desc.Diffuse = 1
	}
	if desc.Specular == 0 {
		desc.Specular = 1
	}
	if desc.Camera.Distance == 0 {
		desc.Camera.Distance = 5
	}
	if desc.Camera.FOVDegrees == 0 {
		desc.Camera.FOVDegrees = 60
	}
	return desc, nil
}

// BuildObjects converts the authored objects into encoder records. Objects
// with an unrecognized primitive type are skipped with a warning rather than
// failing the whole scene.
//
// Returns:
//   - []scenebuffer.Object: the convertible objects, in authored order
func (d *SceneDesc) BuildObjects() []scenebuffer.Object {
	objects := make([]scenebuffer.Object, 0, len(d.Objects))
	for i, o := range d.Objects {
		typ, ok := primitiveFromName(o.Type)
		if !ok {
			log.Printf("scene object %d has unknown type %q, skipping", i, o.Type)
			continue
		}

		var colMajor [16]float32
		common.BuildModelMatrix(colMajor[:],
			o.Position[0], o.Position[1], o.Position[2],
			radians(o.Rotation[0]), radians(o.Rotation[1]), radians(o.Rotation[2]),
			o.Scale[0], o.Scale[1], o.Scale[2])

		obj := scenebuffer.Object{
			Type: typ,
			Material: scenebuffer.Material{
				Ambient:        o.Material.Ambient,
				Diffuse:        o.Material.Diffuse,
				Specular:       o.Material.Specular,
				Shininess:      o.Material.Shininess,
				IOR:            o.Material.IOR,
				TextureEnabled: o.Material.Texture != nil,
				RepeatU:        o.Material.Repeat[0],
				RepeatV:        o.Material.Repeat[1],
				TextureIndex:   textureIndex(o.Material.Texture),
				Reflective:     o.Material.Reflect,
			},
		}
		// Records are authored row-major; the model matrix math is
		// column-major, so convert once here.
		common.Transpose4(obj.World[:], colMajor[:])
		objects = append(objects, obj)
	}
	return objects
}

// BuildLights converts the authored lights. Unknown light types default to
// point lights with a warning.
//
// Returns:
//   - []light.Light: the constructed lights, in authored order
func (d *SceneDesc) BuildLights() []light.Light {
	lights := make([]light.Light, 0, len(d.Lights))
	for i, l := range d.Lights {
		typ := light.Point
		switch strings.ToLower(l.Type) {
		case "point", "":
		case "directional":
			typ = light.Directional
		default:
			log.Printf("scene light %d has unknown type %q, treating as point", i, l.Type)
		}

		intensity := l.Intensity
		if intensity == 0 {
			intensity = 1
		}
		color := l.Color
		if color == [3]float32{} {
			color = [3]float32{1, 1, 1}
		}

		opts := []light.LightBuilderOption{
			light.WithPosition(l.Position[0], l.Position[1], l.Position[2]),
			light.WithColor(color[0], color[1], color[2]),
			light.WithIntensity(intensity),
		}
		if typ == light.Directional {
			opts = append(opts, light.WithDirection(l.Direction[0], l.Direction[1], l.Direction[2]))
		}
		lights = append(lights, light.NewLight(typ, opts...))
	}
	return lights
}

// BuildCamera constructs the orbit camera from the authored start pose.
//
// Parameters:
//   - aspect: the initial viewport aspect ratio
//
// Returns:
//   - camera.Camera: the constructed camera
func (d *SceneDesc) BuildCamera(aspect float32) camera.Camera {
	return camera.NewCamera(
		camera.WithTarget(d.Camera.Target[0], d.Camera.Target[1], d.Camera.Target[2]),
		camera.WithOrbit(radians(d.Camera.Yaw), radians(d.Camera.Pitch), d.Camera.Distance),
		camera.WithPerspective(radians(d.Camera.FOVDegrees), aspect, 0.1, 100),
	)
}

// LoadTextures stages every declared asset texture at the given layer size,
// in declaration order.
//
// Parameters:
//   - edge: the shared square layer size in pixels
//
// Returns:
//   - []common.TextureStagingData: the staged layers
//   - error: error if any texture fails to load
func (d *SceneDesc) LoadTextures(edge int) ([]common.TextureStagingData, error) {
	textures := make([]common.TextureStagingData, 0, len(d.Textures))
	for _, path := range d.Textures {
		tex, err := common.LoadTexture(path, edge)
		if err != nil {
			return nil, err
		}
		textures = append(textures, tex)
	}
	return textures, nil
}

func primitiveFromName(name string) (scenebuffer.PrimitiveType, bool) {
	switch strings.ToLower(name) {
	case "cube":
		return scenebuffer.PrimitiveCube, true
	case "cylinder":
		return scenebuffer.PrimitiveCylinder, true
	case "cone":
		return scenebuffer.PrimitiveCone, true
	case "sphere":
		return scenebuffer.PrimitiveSphere, true
	default:
		return 0, false
	}
}

func textureIndex(t *int) int {
	if t == nil {
		return 0
	}
	return *t
}

func radians(deg float32) float32 {
	return deg * 3.14159265358979 / 180
}
