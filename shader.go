package ripple

import (
	"bytes"
	"fmt"
	"image"
	"strconv"
	"text/template"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Kage shader source ---
// The distortion is written with //kage:unit pixels. DistortionConstants are
// substituted into the text; everything that changes per frame is a uniform.

const distortionShaderTmpl = `//kage:unit pixels
package main

var Time float
var Pointer vec2
var HoverIntensity float
var WaveIntensity float
var RippleIntensity float
var AnimationSpeed float
var WaveFrequency float
var RippleFrequency float
var DistortionAmount float

func displace(uv vec2) vec2 {
	t := Time * AnimationSpeed
	wf := WaveFrequency

	wave := sin(uv.x*wf*{{f (index .WaveScales 0)}}+t*{{f (index .WavePhases 0)}}) * WaveIntensity * {{f (index .WaveWeights 0)}}
	wave += sin(uv.y*wf*{{f (index .WaveScales 1)}}+t*{{f (index .WavePhases 1)}}) * WaveIntensity * {{f (index .WaveWeights 1)}}
	wave += sin((uv.x+uv.y)*wf*{{f (index .WaveScales 2)}}+t*{{f (index .WavePhases 2)}}) * WaveIntensity * {{f (index .WaveWeights 2)}}

	delta := uv - Pointer
	d := length(delta)
	strength := HoverIntensity * RippleIntensity
	wave += sin(d*RippleFrequency*{{f (index .RippleScales 0)}}-t*{{f (index .RippleRates 0)}}) * exp(-d*{{f (index .RippleFalloffs 0)}}) * strength * {{f (index .RippleWeights 0)}}
	wave += sin(d*RippleFrequency*{{f (index .RippleScales 1)}}-t*{{f (index .RippleRates 1)}}) * exp(-d*{{f (index .RippleFalloffs 1)}}) * strength * {{f (index .RippleWeights 1)}}

	amount := DistortionAmount * {{f .SmoothWeight}}
	field := vec2(
		(sin(uv.y*wf*{{f (index .SmoothScales 0)}}+t*{{f (index .SmoothPhases 0)}})+sin(uv.x*wf*{{f (index .SmoothScales 1)}}+t*{{f (index .SmoothPhases 1)}}))*amount,
		(sin(uv.x*wf*{{f (index .SmoothScales 0)}}+t*{{f (index .SmoothPhases 0)}})+sin(uv.y*wf*{{f (index .SmoothScales 1)}}+t*{{f (index .SmoothPhases 1)}}))*amount,
	)

	dir := vec2(0)
	if d > 1e-9 {
		dir = delta / d
	}
	radial := dir * sin(d*RippleFrequency-t) * exp(-d*{{f .RadialFalloff}}) * HoverIntensity * DistortionAmount

	nudge := wave * {{f .NudgeScale}}
	return field + radial + vec2(nudge)
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	origin := imageSrc0Origin()
	size := imageSrc0Size()
	rel := (srcPos - origin) / size
	uv := vec2(rel.x, 1-rel.y)
	suv := clamp(uv+displace(uv), vec2(0), vec2(1))
	texel := clamp(floor(vec2(suv.x, 1-suv.y)*size), vec2(0), size-vec2(1))
	return imageSrc0At(origin + texel + 0.5)
}
`

var distortionShader = template.Must(template.New("distortion").Funcs(template.FuncMap{
	"f": func(v float64) string {
		return "(" + strconv.FormatFloat(v, 'f', -1, 64) + ")"
	},
}).Parse(distortionShaderTmpl))

// DistortionShaderSource renders the Kage program text for the given
// constants.
func DistortionShaderSource(k DistortionConstants) ([]byte, error) {
	var buf bytes.Buffer
	if err := distortionShader.Execute(&buf, k); err != nil {
		return nil, fmt.Errorf("render distortion shader: %w", err)
	}
	return buf.Bytes(), nil
}

// compileShader is swapped in tests to simulate hosts without shader support.
var compileShader = ebiten.NewShader

// --- Program ---

// Program is the compiled distortion unit plus its uniform slots. The slot
// names are fixed; only their values change per frame.
type Program struct {
	mode      RenderMode
	constants DistortionConstants
	shader    *ebiten.Shader
	uniforms  Uniforms
	dirty     bool
	res       resource

	// Persistent uniform map and pointer buffer so per-frame writes don't
	// allocate a new map or slice header.
	shaderUniforms map[string]any
	pointerF32     [2]float32
	pointerSlice   []float32
	triOp          ebiten.DrawTrianglesShaderOptions
	imgOp          ebiten.DrawTrianglesOptions
}

// newProgram builds the program for mode. A shader that fails to compile
// degrades the program to RenderStatic rather than failing the mount.
func newProgram(mode RenderMode, k DistortionConstants) *Program {
	p := &Program{
		mode:           mode,
		constants:      k,
		shaderUniforms: make(map[string]any, 9),
		res:            acquireResource(ResourceProgram),
	}
	p.pointerSlice = p.pointerF32[:]
	p.shaderUniforms["Pointer"] = p.pointerSlice

	if mode == RenderShader {
		s, err := p.compile(k)
		if err != nil {
			Logger().Warn("ripple: distortion shader unavailable, drawing undistorted", "err", err)
			p.mode = RenderStatic
		} else {
			p.shader = s
		}
	}
	return p
}

func (p *Program) compile(k DistortionConstants) (*ebiten.Shader, error) {
	src, err := DistortionShaderSource(k)
	if err != nil {
		return nil, err
	}
	s, err := compileShader(src)
	if err != nil {
		return nil, fmt.Errorf("compile distortion shader: %w", err)
	}
	return s, nil
}

// Mode reports how the program executes.
func (p *Program) Mode() RenderMode { return p.mode }

// Constants returns the constants the current program text was built from,
// or the pending ones if a recompilation is queued.
func (p *Program) Constants() DistortionConstants { return p.constants }

// SetConstants queues a recompilation with new constants. It takes effect at
// the next applyPending call, which the animation tick makes before drawing.
func (p *Program) SetConstants(k DistortionConstants) {
	if k == p.constants {
		return
	}
	p.constants = k
	p.dirty = true
}

// applyPending recompiles the program if its constants changed. On failure
// the previous shader stays in use.
func (p *Program) applyPending() {
	if !p.dirty {
		return
	}
	p.dirty = false
	if p.mode != RenderShader {
		return
	}
	s, err := p.compile(p.constants)
	if err != nil {
		Logger().Warn("ripple: recompile failed, keeping previous program", "err", err)
		return
	}
	if p.shader != nil {
		p.shader.Deallocate()
	}
	p.shader = s
	Logger().Debug("ripple: distortion program recompiled")
}

// SetUniforms writes every uniform slot.
func (p *Program) SetUniforms(u Uniforms) {
	p.uniforms = u
	if p.shaderUniforms == nil {
		return
	}
	p.pointerF32[0] = float32(u.Pointer.X)
	p.pointerF32[1] = float32(u.Pointer.Y)
	// Scalar float32 boxing is unavoidable with Ebitengine's uniform API.
	p.shaderUniforms["Time"] = float32(u.Time)
	p.shaderUniforms["HoverIntensity"] = float32(u.HoverIntensity)
	p.shaderUniforms["WaveIntensity"] = float32(u.WaveIntensity)
	p.shaderUniforms["RippleIntensity"] = float32(u.RippleIntensity)
	p.shaderUniforms["AnimationSpeed"] = float32(u.AnimationSpeed)
	p.shaderUniforms["WaveFrequency"] = float32(u.WaveFrequency)
	p.shaderUniforms["RippleFrequency"] = float32(u.RippleFrequency)
	p.shaderUniforms["DistortionAmount"] = float32(u.DistortionAmount)
}

// Uniforms returns the values most recently written by SetUniforms.
func (p *Program) Uniforms() Uniforms { return p.uniforms }

// Draw issues one draw of the quad into dst, sampling tex.
func (p *Program) Draw(dst, tex *ebiten.Image, quad *Quad) {
	switch p.mode {
	case RenderShader:
		p.triOp.Images[0] = tex
		p.triOp.Uniforms = p.shaderUniforms
		p.triOp.Blend = ebiten.BlendCopy
		dst.DrawTrianglesShader(quad.vertices[:], quad.indices[:], p.shader, &p.triOp)
	default:
		p.imgOp.Blend = ebiten.BlendCopy
		p.imgOp.Filter = ebiten.FilterNearest
		dst.DrawTriangles(quad.vertices[:], quad.indices[:], tex, &p.imgOp)
	}
}

// Render runs the program on the CPU: dst receives src distorted by the
// current uniforms. Both images must have the same size.
func (p *Program) Render(dst, src *image.RGBA) error {
	if p.mode == RenderStatic {
		copy(dst.Pix, src.Pix)
		return nil
	}
	return renderSoftware(dst, src, p.uniforms, p.constants)
}

// Dispose releases the shader. Safe to call more than once.
func (p *Program) Dispose() {
	if !p.res.release() {
		return
	}
	if p.shader != nil {
		p.shader.Deallocate()
		p.shader = nil
	}
	p.shaderUniforms = nil
}
