package ripple

import (
	"math"
	"testing"
)

func zeroUniforms() Uniforms {
	u := Uniforms{Time: 12.5, Pointer: Vec2{0.3, 0.7}, HoverIntensity: 2, Tunables: DefaultTunables()}
	u.WaveIntensity = 0
	u.RippleIntensity = 0
	u.DistortionAmount = 0
	return u
}

// --- Identity ---

func TestDisplaceIdentity(t *testing.T) {
	k := DefaultConstants()
	u := zeroUniforms()
	for _, uv := range []Vec2{{0, 0}, {1, 1}, {0.5, 0.5}, {0.3, 0.7}, {0.123, 0.987}} {
		d := Displace(uv, u, k)
		if d.X != 0 || d.Y != 0 {
			t.Errorf("Displace(%v) = %v, want zero", uv, d)
		}
	}
}

func TestPixelUVTexelRoundTrip(t *testing.T) {
	sizes := [][2]int{{1, 1}, {3, 7}, {920, 955}, {64, 33}}
	for _, s := range sizes {
		w, h := s[0], s[1]
		for _, p := range [][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}, {w / 2, h / 2}} {
			x, y := texelAt(pixelUV(p[0], p[1], w, h), w, h)
			if x != p[0] || y != p[1] {
				t.Errorf("%dx%d: pixel %v maps back to (%d,%d)", w, h, p, x, y)
			}
		}
	}
}

func TestTexelAtClampsToEdge(t *testing.T) {
	tests := []struct {
		name   string
		uv     Vec2
		wx, wy int
	}{
		{"left of image", Vec2{-0.5, 0.5}, 0, 5},
		{"right of image", Vec2{1.5, 0.5}, 9, 5},
		{"above image", Vec2{0.5, 2}, 5, 0},
		{"below image", Vec2{0.5, -2}, 5, 9},
		{"exact top-right", Vec2{1, 1}, 9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := texelAt(tt.uv, 10, 10)
			if x != tt.wx || y != tt.wy {
				t.Errorf("texelAt(%v) = (%d,%d), want (%d,%d)", tt.uv, x, y, tt.wx, tt.wy)
			}
		})
	}
}

// --- Boundedness ---

func TestDisplaceFiniteAtPointer(t *testing.T) {
	u := Uniforms{Time: 3, Pointer: Vec2{0.4, 0.6}, HoverIntensity: 2, Tunables: DefaultTunables()}
	d := Displace(u.Pointer, u, DefaultConstants())
	if !d.IsFinite() {
		t.Fatalf("Displace at pointer = %v, want finite", d)
	}
}

func TestDisplaceBounded(t *testing.T) {
	k := DefaultConstants()
	params := []Tunables{
		DefaultTunables(),
		{WaveIntensity: 1, RippleIntensity: 1, DistortionAmount: 1, AnimationSpeed: 10,
			HoverRippleMultiplier: 5, WaveFrequency: 1000, RippleFrequency: 1000},
		{WaveIntensity: 1e6, RippleIntensity: 1e6, DistortionAmount: 1e6, AnimationSpeed: 0,
			HoverRippleMultiplier: 0, WaveFrequency: 0, RippleFrequency: 0},
	}
	pointers := []Vec2{{0, 0}, {0.5, 0.5}, {1, 1}, {-3, 8}}
	for pi, tun := range params {
		for _, p := range pointers {
			u := Uniforms{Time: 1e4, Pointer: p, HoverIntensity: tun.HoverRippleMultiplier, Tunables: tun}
			for y := 0; y <= 16; y++ {
				for x := 0; x <= 16; x++ {
					uv := Vec2{float64(x) / 16, float64(y) / 16}
					if d := Displace(uv, u, k); !d.IsFinite() {
						t.Fatalf("params %d pointer %v uv %v: displacement %v not finite", pi, p, uv, d)
					}
				}
				if d := Displace(p, u, k); !d.IsFinite() {
					t.Fatalf("params %d: displacement at pointer %v not finite", pi, p)
				}
			}
		}
	}
}

// --- Terms ---

func TestDisplaceAmbientOnly(t *testing.T) {
	k := DefaultConstants()
	u := zeroUniforms()
	u.WaveIntensity = 0.01
	u.HoverIntensity = 0
	uv := Vec2{0.2, 0.6}

	tt := u.Time * u.AnimationSpeed
	wf := u.WaveFrequency
	wave := math.Sin(uv.X*wf*k.WaveScales[0]+tt*k.WavePhases[0])*u.WaveIntensity*k.WaveWeights[0] +
		math.Sin(uv.Y*wf*k.WaveScales[1]+tt*k.WavePhases[1])*u.WaveIntensity*k.WaveWeights[1] +
		math.Sin((uv.X+uv.Y)*wf*k.WaveScales[2]+tt*k.WavePhases[2])*u.WaveIntensity*k.WaveWeights[2]
	want := wave * k.NudgeScale

	d := Displace(uv, u, k)
	assertNear(t, "X", d.X, want)
	assertNear(t, "Y", d.Y, want)
}

func TestDisplaceRadialPointsAwayFromPointer(t *testing.T) {
	k := DefaultConstants()
	u := zeroUniforms()
	u.DistortionAmount = 0.01
	k.SmoothWeight = 0
	u.Time = 0
	u.Pointer = Vec2{0.5, 0.5}

	// Pick a distance where sin(d*rippleFrequency) is positive.
	uv := Vec2{0.5 + 0.05, 0.5}
	d := Displace(uv, u, k)
	if !(d.X > 0) || math.Abs(d.Y) > epsilon {
		t.Errorf("radial push = %v, want +x only", d)
	}
}

func TestDisplaceRipplesScaleWithHover(t *testing.T) {
	k := DefaultConstants()
	u := zeroUniforms()
	u.RippleIntensity = 0.02
	uv := Vec2{0.35, 0.7}

	u.HoverIntensity = 1
	d1 := Displace(uv, u, k)
	u.HoverIntensity = 2
	d2 := Displace(uv, u, k)
	u.HoverIntensity = 0
	d0 := Displace(uv, u, k)

	assertNear(t, "X ratio", d2.X, 2*d1.X)
	if d0.X != 0 || d0.Y != 0 {
		t.Errorf("ripples without hover = %v, want zero", d0)
	}
}

func TestDistortionConstantsValidate(t *testing.T) {
	if err := DefaultConstants().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	k := DefaultConstants()
	k.RadialFalloff = -1
	if k.Validate() == nil {
		t.Error("negative falloff accepted")
	}
	k = DefaultConstants()
	k.WavePhases[1] = math.NaN()
	if k.Validate() == nil {
		t.Error("NaN constant accepted")
	}
}
