package ripple

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// Errors returned by Mount and NewRenderContext.
var (
	ErrInvalidSize = errors.New("ripple: width and height must be positive")
	ErrNoContainer = errors.New("ripple: nil container")
	ErrNoScheduler = errors.New("ripple: nil scheduler")
	ErrNoSource    = errors.New("ripple: empty image source")
)

// RenderMode selects how the distortion program is executed.
type RenderMode string

const (
	// RenderShader runs the distortion as a Kage shader on the GPU.
	RenderShader RenderMode = "shader"
	// RenderSoftware runs the same distortion on the CPU and uploads each frame.
	RenderSoftware RenderMode = "software"
	// RenderStatic draws the texture undistorted. Used automatically when the
	// shader cannot be compiled.
	RenderStatic RenderMode = "static"
)

// Tunables are the per-frame uniform values that do not come from the frame
// loop itself. Changing them never recompiles the program.
type Tunables struct {
	WaveIntensity         float64 `json:"waveIntensity"`
	RippleIntensity       float64 `json:"rippleIntensity"`
	DistortionAmount      float64 `json:"distortionAmount"`
	AnimationSpeed        float64 `json:"animationSpeed"`
	HoverRippleMultiplier float64 `json:"hoverRippleMultiplier"`
	WaveFrequency         float64 `json:"waveFrequency"`
	RippleFrequency       float64 `json:"rippleFrequency"`
}

// DefaultTunables returns the stock uniform values.
func DefaultTunables() Tunables {
	return Tunables{
		WaveIntensity:         0.01,
		RippleIntensity:       0.02,
		DistortionAmount:      0.01,
		AnimationSpeed:        1.0,
		HoverRippleMultiplier: 2.0,
		WaveFrequency:         10.0,
		RippleFrequency:       20.0,
	}
}

func (t Tunables) validate() error {
	vals := [...]struct {
		name string
		v    float64
	}{
		{"waveIntensity", t.WaveIntensity},
		{"rippleIntensity", t.RippleIntensity},
		{"distortionAmount", t.DistortionAmount},
		{"animationSpeed", t.AnimationSpeed},
		{"hoverRippleMultiplier", t.HoverRippleMultiplier},
		{"waveFrequency", t.WaveFrequency},
		{"rippleFrequency", t.RippleFrequency},
	}
	for _, f := range vals {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("ripple: %s must be finite, got %v", f.name, f.v)
		}
	}
	return nil
}

// DistortionConstants are the fixed magnitudes baked into the distortion
// program text. Changing them recompiles the shader at the next tick.
type DistortionConstants struct {
	// Ambient waves along x, y and x+y.
	WaveWeights [3]float64 `json:"waveWeights"`
	WavePhases  [3]float64 `json:"wavePhases"`
	WaveScales  [3]float64 `json:"waveScales"`

	// Concentric pointer ripples.
	RippleScales   [2]float64 `json:"rippleScales"`
	RippleRates    [2]float64 `json:"rippleRates"`
	RippleFalloffs [2]float64 `json:"rippleFalloffs"`
	RippleWeights  [2]float64 `json:"rippleWeights"`

	// NudgeScale scales the summed wave into an isotropic offset.
	NudgeScale float64 `json:"nudgeScale"`

	// Directional smooth field, two sine terms per axis.
	SmoothScales [2]float64 `json:"smoothScales"`
	SmoothPhases [2]float64 `json:"smoothPhases"`
	SmoothWeight float64    `json:"smoothWeight"`

	// RadialFalloff is the decay of the pointer-centred radial push.
	RadialFalloff float64 `json:"radialFalloff"`
}

// DefaultConstants returns the stock distortion magnitudes.
func DefaultConstants() DistortionConstants {
	return DistortionConstants{
		WaveWeights:    [3]float64{1.0, 0.83, 0.25},
		WavePhases:     [3]float64{1.0, 1.3, 1.7},
		WaveScales:     [3]float64{1.0, 1.0, 0.7},
		RippleScales:   [2]float64{1.0, 0.5},
		RippleRates:    [2]float64{2.0, 1.4},
		RippleFalloffs: [2]float64{5.0, 3.0},
		RippleWeights:  [2]float64{1.0, 0.5},
		NudgeScale:     0.35,
		SmoothScales:   [2]float64{0.7, 1.3},
		SmoothPhases:   [2]float64{0.8, 1.1},
		SmoothWeight:   0.5,
		RadialFalloff:  4.0,
	}
}

func (k DistortionConstants) values() []float64 {
	v := make([]float64, 0, 24)
	v = append(v, k.WaveWeights[:]...)
	v = append(v, k.WavePhases[:]...)
	v = append(v, k.WaveScales[:]...)
	v = append(v, k.RippleScales[:]...)
	v = append(v, k.RippleRates[:]...)
	v = append(v, k.RippleFalloffs[:]...)
	v = append(v, k.RippleWeights[:]...)
	v = append(v, k.NudgeScale)
	v = append(v, k.SmoothScales[:]...)
	v = append(v, k.SmoothPhases[:]...)
	v = append(v, k.SmoothWeight, k.RadialFalloff)
	return v
}

// Validate reports whether every constant is finite and every falloff is
// non-negative (a negative falloff grows without bound).
func (k DistortionConstants) Validate() error {
	for _, v := range k.values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("ripple: distortion constants must be finite")
		}
	}
	if k.RippleFalloffs[0] < 0 || k.RippleFalloffs[1] < 0 || k.RadialFalloff < 0 {
		return fmt.Errorf("ripple: distortion falloffs must be non-negative")
	}
	return nil
}

// Config is the construction-time configuration of one renderer instance.
// The zero value is not usable; start from DefaultConfig or LoadConfig.
type Config struct {
	// Name labels the instance in logs and events.
	Name string `json:"name"`
	// Image is the texture source: a file path, file://, http(s):// or data: URI.
	Image string `json:"image"`
	// Width and Height are the surface resolution in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	Tunables

	// Scale is a presentation-only scale applied when the surface is drawn
	// into the host screen. It is not part of the shader math.
	Scale float64 `json:"scale"`
	// HoverZoom multiplies Scale while hovered, tweened over
	// HoverZoomDuration seconds. 1 disables the zoom.
	HoverZoom         float64 `json:"hoverZoom"`
	HoverZoomDuration float64 `json:"hoverZoomDuration"`

	// RestingIntensity is the hover-intensity target while not hovered.
	RestingIntensity float64 `json:"restingIntensity"`
	// EasingFactor is the per-tick exponential smoothing factor in (0, 1].
	EasingFactor float64 `json:"easingFactor"`

	Constants DistortionConstants `json:"constants"`

	Renderer RenderMode `json:"renderer"`
	// ClearColor is the CSS color of blank frames (texture pending or failed).
	ClearColor string `json:"clearColor"`

	// LoadRetries is the number of extra texture load attempts after the
	// first failure, at most 10. RetryDelayMs is the first back-off, doubled
	// per attempt up to 30s.
	LoadRetries  int `json:"loadRetries"`
	RetryDelayMs int `json:"retryDelayMs"`

	// Debug logs per-frame stats at debug level.
	Debug bool `json:"debug"`
}

// DefaultConfig returns a Config with every field at its default. Image is
// left empty and must be set.
func DefaultConfig() Config {
	return Config{
		Name:              "ripple",
		Width:             920,
		Height:            955,
		Tunables:          DefaultTunables(),
		Scale:             1.0,
		HoverZoom:         1.0,
		HoverZoomDuration: 0.35,
		RestingIntensity:  0.3,
		EasingFactor:      0.05,
		Constants:         DefaultConstants(),
		Renderer:          RenderShader,
		ClearColor:        "transparent",
		LoadRetries:       2,
		RetryDelayMs:      250,
	}
}

// LoadConfig parses a JSON document on top of DefaultConfig, so absent
// fields keep their defaults, and validates the result.
func LoadConfig(jsonData []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the renderer cannot use.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if c.Image == "" {
		return ErrNoSource
	}
	if err := c.Tunables.validate(); err != nil {
		return err
	}
	if err := c.Constants.Validate(); err != nil {
		return err
	}
	if !(c.EasingFactor > 0 && c.EasingFactor <= 1) {
		return fmt.Errorf("ripple: easingFactor must be in (0, 1], got %v", c.EasingFactor)
	}
	if !(c.RestingIntensity >= 0) || math.IsInf(c.RestingIntensity, 0) {
		return fmt.Errorf("ripple: restingIntensity must be finite and non-negative, got %v", c.RestingIntensity)
	}
	if !(c.Scale > 0) || !(c.HoverZoom > 0) {
		return fmt.Errorf("ripple: scale and hoverZoom must be positive")
	}
	if c.HoverZoomDuration < 0 {
		return fmt.Errorf("ripple: hoverZoomDuration must not be negative")
	}
	if c.LoadRetries < 0 || c.RetryDelayMs < 0 {
		return fmt.Errorf("ripple: loadRetries and retryDelayMs must not be negative")
	}
	if c.LoadRetries > maxLoadRetries {
		return fmt.Errorf("ripple: loadRetries must be at most %d, got %d", maxLoadRetries, c.LoadRetries)
	}
	switch c.Renderer {
	case RenderShader, RenderSoftware, RenderStatic:
	default:
		return fmt.Errorf("ripple: unknown renderer %q", c.Renderer)
	}
	if _, err := ParseColor(c.ClearColor); err != nil {
		return fmt.Errorf("ripple: clearColor: %w", err)
	}
	return nil
}

// maxLoadRetries bounds Config.LoadRetries.
const maxLoadRetries = 10

func (c Config) retryPolicy() retryPolicy {
	ms := min(c.RetryDelayMs, int(maxRetryDelay/time.Millisecond))
	return retryPolicy{
		retries: c.LoadRetries,
		delay:   time.Duration(ms) * time.Millisecond,
	}
}

// Option configures behavior that cannot be expressed in a Config document.
type Option func(*options)

type options struct {
	onHover func()
	onLeave func()
	onLoad  func()
	onError func(error)
	fetcher Fetcher
	sink    EventSink
}

// OnHover registers a callback fired when the pointer enters the container.
func OnHover(fn func()) Option {
	return func(o *options) { o.onHover = fn }
}

// OnLeave registers a callback fired when the pointer leaves the container.
func OnLeave(fn func()) Option {
	return func(o *options) { o.onLeave = fn }
}

// OnLoad registers a callback fired once the texture is uploaded.
func OnLoad(fn func()) Option {
	return func(o *options) { o.onLoad = fn }
}

// OnError registers a callback fired when the texture load fails for good.
func OnError(fn func(error)) Option {
	return func(o *options) { o.onError = fn }
}

// WithFetcher replaces the default image fetcher (files, HTTP, data URIs).
func WithFetcher(f Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithEventSink forwards lifecycle and hover events to sink.
func WithEventSink(sink EventSink) Option {
	return func(o *options) { o.sink = sink }
}

func buildOptions(opts []Option) options {
	o := options{fetcher: FetchImage}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if o.fetcher == nil {
		o.fetcher = FetchImage
	}
	return o
}
