// Package trace implements the host-side reference ray tracer. It consumes
// the same flat scene buffer the GPU shader reads, walks every object record
// per ray, and shades hits with the same Phong model, so its output is the
// ground truth the shader is validated against and the fallback path when no
// GPU surface is available.
package trace

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/chewxy/math32"

	"github.com/prism3d/prism/common"
	"github.com/prism3d/prism/engine/camera"
	"github.com/prism3d/prism/engine/light"
	"github.com/prism3d/prism/engine/primitive"
	"github.com/prism3d/prism/engine/scenebuffer"
)

const (
	// minShininess and maxShininess bound the specular exponent before
	// exponentiation so degenerate authored values cannot blow up the
	// highlight term.
	minShininess = 1
	maxShininess = 256

	// noObject marks a ray that hit nothing.
	noObject = -1
)

// traceObject is one decoded, traversal-ready object record: the world matrix
// converted to column-major with its inverse precomputed once per scene
// update instead of once per ray.
type traceObject struct {
	typ      scenebuffer.PrimitiveType
	world    [16]float32 // column-major
	inverse  [16]float32
	material scenebuffer.Material
}

// hit is the nearest intersection found along a ray.
type hit struct {
	object   int
	distance float32
	point    common.Vec3
	normal   common.Vec3
	u, v     float32
}

// Tracer renders the scene buffer on the CPU. All mutation happens between
// frames; Render itself only reads, so worker goroutines share state without
// locks.
type Tracer interface {
	// SetScene replaces the traversal set from a freshly encoded or updated
	// scene buffer. Records with unknown primitive tags or singular world
	// matrices are skipped.
	//
	// Parameters:
	//   - buf: the scene buffer to trace
	SetScene(buf *scenebuffer.Buffer)

	// SetLights replaces the active light set.
	//
	// Parameters:
	//   - lights: the lights, truncated to the light cap
	SetLights(lights []light.Light)

	// SetAmbient sets the scene ambient light color.
	//
	// Parameters:
	//   - c: the ambient color
	SetAmbient(c common.Vec3)

	// SetCoefficients sets the scene-global diffuse and specular gains
	// multiplied into every material's diffuse and specular terms.
	//
	// Parameters:
	//   - diffuse: the global diffuse gain
	//   - specular: the global specular gain
	SetCoefficients(diffuse, specular float32)

	// Camera returns the tracer's camera.
	//
	// Returns:
	//   - camera.Camera: the camera rays are generated from
	Camera() camera.Camera

	// TraceRay shades a single world-space ray and returns the resulting
	// color. Rays that hit nothing return black.
	//
	// Parameters:
	//   - origin: the world-space ray origin
	//   - dir: the world-space ray direction (unit length)
	//
	// Returns:
	//   - common.Vec3: the shaded color, clamped to [0, 1]
	TraceRay(origin, dir common.Vec3) common.Vec3

	// Render traces one ray through the center of every pixel and returns the
	// finished frame. Rows are distributed across the worker pool; the call
	// blocks until the frame is complete or the context is canceled.
	//
	// Parameters:
	//   - ctx: cancellation context checked between row bands
	//   - width: the frame width in pixels
	//   - height: the frame height in pixels
	//
	// Returns:
	//   - *image.RGBA: the rendered frame
	//   - error: error if the dimensions are not positive or the context ended
	Render(ctx context.Context, width, height int) (*image.RGBA, error)
}

var _ Tracer = &tracerImpl{}

type tracerImpl struct {
	mu sync.RWMutex

	objects      []traceObject
	lights       []light.Light
	ambient      common.Vec3
	diffuseGain  float32
	specularGain float32
	textures     []common.TextureStagingData

	cam  camera.Camera
	pool worker.DynamicWorkerPool
	cfg  *tracerConfig
}

func (t *tracerImpl) SetScene(buf *scenebuffer.Buffer) {
	objects := make([]traceObject, 0, buf.RowCount())
	for row := 0; row < buf.RowCount(); row++ {
		obj, err := buf.DecodeRecord(row)
		if err != nil {
			continue
		}
		switch obj.Type {
		case scenebuffer.PrimitiveCube, scenebuffer.PrimitiveCylinder,
			scenebuffer.PrimitiveCone, scenebuffer.PrimitiveSphere:
		default:
			continue
		}

		var to traceObject
		to.typ = obj.Type
		to.material = obj.Material
		common.Transpose4(to.world[:], obj.World[:])
		if !common.Invert4(to.inverse[:], to.world[:]) {
			continue
		}
		objects = append(objects, to)
	}

	t.mu.Lock()
	t.objects = objects
	t.mu.Unlock()
}

func (t *tracerImpl) SetLights(lights []light.Light) {
	if len(lights) > light.MaxLights {
		lights = lights[:light.MaxLights]
	}
	t.mu.Lock()
	t.lights = lights
	t.mu.Unlock()
}

func (t *tracerImpl) SetAmbient(c common.Vec3) {
	t.mu.Lock()
	t.ambient = c
	t.mu.Unlock()
}

func (t *tracerImpl) SetCoefficients(diffuse, specular float32) {
	t.mu.Lock()
	t.diffuseGain = diffuse
	t.specularGain = specular
	t.mu.Unlock()
}

func (t *tracerImpl) Camera() camera.Camera {
	return t.cam
}

func (t *tracerImpl) TraceRay(origin, dir common.Vec3) common.Vec3 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.traceLocked(origin, dir)
}

func (t *tracerImpl) Render(ctx context.Context, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("trace: invalid frame dimensions %dx%d", width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	eye, inv := t.frameCamera()

	t.mu.RLock()
	defer t.mu.RUnlock()

	var wg sync.WaitGroup
	for y := 0; y < height; y++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("trace: frame canceled: %w", err)
		}

		wg.Add(1)
		row := y
		t.pool.SubmitTask(worker.Task{
			ID: row,
			Do: func() (any, error) {
				defer wg.Done()
				for x := 0; x < width; x++ {
					dir := pixelRay(inv, eye, x, row, width, height)
					c := t.traceLocked(eye, dir)
					img.SetRGBA(x, row, color.RGBA{
						R: uint8(c.X*255 + 0.5),
						G: uint8(c.Y*255 + 0.5),
						B: uint8(c.Z*255 + 0.5),
						A: 255,
					})
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("trace: frame canceled: %w", err)
	}
	return img, nil
}

// frameCamera snapshots the camera state once per frame so every worker uses
// the same view even if input callbacks move the camera mid-render.
func (t *tracerImpl) frameCamera() (common.Vec3, [16]float32) {
	return t.cam.Eye(), t.cam.InverseViewProjectionMatrix()
}

// pixelRay builds the unit world-space direction through a pixel center by
// unprojecting the far-plane NDC point and subtracting the eye.
func pixelRay(inv [16]float32, eye common.Vec3, x, y, width, height int) common.Vec3 {
	ndcX := (float32(x)+0.5)/float32(width)*2 - 1
	ndcY := 1 - (float32(y)+0.5)/float32(height)*2

	fx := inv[0]*ndcX + inv[4]*ndcY + inv[8] + inv[12]
	fy := inv[1]*ndcX + inv[5]*ndcY + inv[9] + inv[13]
	fz := inv[2]*ndcX + inv[6]*ndcY + inv[10] + inv[14]
	fw := inv[3]*ndcX + inv[7]*ndcY + inv[11] + inv[15]
	if fw == 0 {
		fw = 1
	}
	far := common.V3(fx/fw, fy/fw, fz/fw)
	return far.Sub(eye).Normalize()
}

// traceLocked shades one ray. Callers hold at least a read lock.
func (t *tracerImpl) traceLocked(origin, dir common.Vec3) common.Vec3 {
	h, ok := t.closestHit(origin, dir, noObject, math32.Inf(1))
	if !ok {
		return common.Vec3{} // black background
	}
	return t.shade(h, dir)
}

// closestHit walks every object record linearly and keeps the nearest
// world-space hit beyond the self-intersection epsilon. skip excludes one
// object index, used by shadow rays to ignore the surface they start on.
func (t *tracerImpl) closestHit(origin, dir common.Vec3, skip int, maxDist float32) (hit, bool) {
	best := hit{object: noObject, distance: math32.Inf(1)}

	for i := range t.objects {
		if i == skip {
			continue
		}
		obj := &t.objects[i]

		ox, oy, oz := common.TransformPoint(obj.inverse[:], origin.X, origin.Y, origin.Z)
		dx, dy, dz := common.TransformDir(obj.inverse[:], dir.X, dir.Y, dir.Z)
		localOrigin := common.V3(ox, oy, oz)
		localDir := common.V3(dx, dy, dz)

		lt := primitive.Intersect(obj.typ, localOrigin, localDir)
		if lt == primitive.NoHit {
			continue
		}

		localPoint := localOrigin.Add(localDir.Scale(lt))
		wx, wy, wz := common.TransformPoint(obj.world[:], localPoint.X, localPoint.Y, localPoint.Z)
		worldPoint := common.V3(wx, wy, wz)

		// Distances compare in world space: object-space parameters are not
		// comparable across differently scaled instances.
		dist := worldPoint.Sub(origin).Length()
		if dist <= primitive.Epsilon || dist >= best.distance || dist >= maxDist {
			continue
		}

		localNormal := primitive.Normal(obj.typ, localPoint)
		// Normals transform by the inverse-transpose: inverse rows are the
		// transposed columns, so apply the inverse's rows directly.
		nx := obj.inverse[0]*localNormal.X + obj.inverse[1]*localNormal.Y + obj.inverse[2]*localNormal.Z
		ny := obj.inverse[4]*localNormal.X + obj.inverse[5]*localNormal.Y + obj.inverse[6]*localNormal.Z
		nz := obj.inverse[8]*localNormal.X + obj.inverse[9]*localNormal.Y + obj.inverse[10]*localNormal.Z

		u, v := primitive.UV(obj.typ, localPoint)
		best = hit{
			object:   i,
			distance: dist,
			point:    worldPoint,
			normal:   common.V3(nx, ny, nz).Normalize(),
			u:        u,
			v:        v,
		}
	}

	return best, best.object != noObject
}

// shade evaluates the Phong model at a hit: ambient plus, for every
// unoccluded light, a Lambertian diffuse term and a reflected-ray specular
// term. Light intensity does not fall off with distance.
func (t *tracerImpl) shade(h hit, viewDir common.Vec3) common.Vec3 {
	m := &t.objects[h.object].material

	diffuseColor := common.V3(m.Diffuse[0], m.Diffuse[1], m.Diffuse[2])
	if m.TextureEnabled {
		if c, ok := t.sampleTexture(m, h.u, h.v); ok {
			diffuseColor = c
		}
	}

	ambient := common.V3(m.Ambient[0], m.Ambient[1], m.Ambient[2])
	out := t.ambient.MulComp(ambient)

	n := h.normal
	view := viewDir.Scale(-1)

	for _, l := range t.lights {
		var toLight common.Vec3
		maxDist := math32.Inf(1)
		if l.Type() == light.Directional {
			toLight = l.Direction().Scale(-1)
		} else {
			delta := l.Position().Sub(h.point)
			maxDist = delta.Length()
			if maxDist == 0 {
				continue
			}
			toLight = delta.Scale(1 / maxDist)
		}

		ndotl := n.Dot(toLight)
		if ndotl <= 0 {
			continue
		}
		if t.occluded(h.point, toLight, h.object, maxDist) {
			continue
		}

		contribution := l.Color().Scale(l.Intensity())
		out = out.Add(contribution.MulComp(diffuseColor).Scale(ndotl * t.diffuseGain))

		reflected := n.Scale(2 * ndotl).Sub(toLight)
		if rdotv := reflected.Dot(view); rdotv > 0 {
			shin := m.Shininess
			if shin < minShininess {
				shin = minShininess
			} else if shin > maxShininess {
				shin = maxShininess
			}
			specular := common.V3(m.Specular[0], m.Specular[1], m.Specular[2])
			out = out.Add(contribution.MulComp(specular).Scale(math32.Pow(rdotv, shin) * t.specularGain))
		}
	}

	return out.Clamp01()
}

// occluded casts a hard shadow ray toward a light, ignoring the surface it
// starts on.
func (t *tracerImpl) occluded(point, toLight common.Vec3, selfObject int, maxDist float32) bool {
	_, blocked := t.closestHit(point, toLight, selfObject, maxDist)
	return blocked
}

// sampleTexture fetches a nearest-neighbor texel from a staged asset texture,
// wrapping UVs by the material repeat factors.
func (t *tracerImpl) sampleTexture(m *scenebuffer.Material, u, v float32) (common.Vec3, bool) {
	if m.TextureIndex < 0 || m.TextureIndex >= len(t.textures) {
		return common.Vec3{}, false
	}
	tex := &t.textures[m.TextureIndex]
	if tex.Width == 0 || tex.Height == 0 {
		return common.Vec3{}, false
	}

	u = wrap(u * m.RepeatU)
	v = wrap(v * m.RepeatV)

	x := int(u * float32(tex.Width))
	if x >= int(tex.Width) {
		x = int(tex.Width) - 1
	}
	y := int(v * float32(tex.Height))
	if y >= int(tex.Height) {
		y = int(tex.Height) - 1
	}

	i := (y*int(tex.Width) + x) * 4
	return common.V3(
		float32(tex.Pixels[i])/255,
		float32(tex.Pixels[i+1])/255,
		float32(tex.Pixels[i+2])/255,
	), true
}

// wrap maps a repeat-scaled coordinate back into [0, 1).
func wrap(f float32) float32 {
	f -= math32.Floor(f)
	if f < 0 {
		f += 1
	}
	return f
}
