package ripple

import "math"

// minRadialDistance is the distance below which the radial push has no
// direction. Keeps normalize(uv - pointer) finite when the pointer sits on
// the sample.
const minRadialDistance = 1e-9

// Uniforms is the full set of values written into the distortion program
// once per tick.
type Uniforms struct {
	Time           float64
	Pointer        Vec2
	HoverIntensity float64
	Tunables
}

// Displace returns the sampling offset for the normalized coordinate uv.
// It is the reference for the Kage program and the body of the software
// renderer. With WaveIntensity, RippleIntensity and DistortionAmount all zero
// the result is exactly the zero vector.
func Displace(uv Vec2, u Uniforms, k DistortionConstants) Vec2 {
	t := u.Time * u.AnimationSpeed
	wf := u.WaveFrequency

	// Ambient waves.
	wave := math.Sin(uv.X*wf*k.WaveScales[0]+t*k.WavePhases[0]) * u.WaveIntensity * k.WaveWeights[0]
	wave += math.Sin(uv.Y*wf*k.WaveScales[1]+t*k.WavePhases[1]) * u.WaveIntensity * k.WaveWeights[1]
	wave += math.Sin((uv.X+uv.Y)*wf*k.WaveScales[2]+t*k.WavePhases[2]) * u.WaveIntensity * k.WaveWeights[2]

	// Pointer ripples.
	delta := uv.Sub(u.Pointer)
	d := delta.Len()
	strength := u.HoverIntensity * u.RippleIntensity
	for j := 0; j < 2; j++ {
		wave += math.Sin(d*u.RippleFrequency*k.RippleScales[j]-t*k.RippleRates[j]) *
			math.Exp(-d*k.RippleFalloffs[j]) * strength * k.RippleWeights[j]
	}

	amount := u.DistortionAmount * k.SmoothWeight
	smooth := Vec2{
		X: (math.Sin(uv.Y*wf*k.SmoothScales[0]+t*k.SmoothPhases[0]) +
			math.Sin(uv.X*wf*k.SmoothScales[1]+t*k.SmoothPhases[1])) * amount,
		Y: (math.Sin(uv.X*wf*k.SmoothScales[0]+t*k.SmoothPhases[0]) +
			math.Sin(uv.Y*wf*k.SmoothScales[1]+t*k.SmoothPhases[1])) * amount,
	}

	var dir Vec2
	if d > minRadialDistance {
		dir = delta.Scale(1 / d)
	}
	radial := dir.Scale(math.Sin(d*u.RippleFrequency-t) *
		math.Exp(-d*k.RadialFalloff) * u.HoverIntensity * u.DistortionAmount)

	nudge := wave * k.NudgeScale
	return smooth.Add(radial).Add(Vec2{nudge, nudge})
}

// pixelUV returns the normalized coordinate of the center of pixel (px, py)
// on a w×h surface. V points up, so row 0 is v≈1.
func pixelUV(px, py, w, h int) Vec2 {
	return Vec2{
		X: (float64(px) + 0.5) / float64(w),
		Y: 1 - (float64(py)+0.5)/float64(h),
	}
}

// texelAt maps a normalized coordinate to the nearest texel of a w×h image,
// clamping to the edge.
func texelAt(uv Vec2, w, h int) (int, int) {
	u := clamp(uv.X, 0, 1)
	v := clamp(uv.Y, 0, 1)
	px := clamp(int(u*float64(w)), 0, w-1)
	py := clamp(int((1-v)*float64(h)), 0, h-1)
	return px, py
}
