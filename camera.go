package ripple

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera is the presentation transform of a surface: how the rendered quad
// is placed into its container's layout box. It never affects shader math.
type Camera struct {
	// Zoom is the current presentation scale about the layout center.
	Zoom float64

	base      float64
	hoverZoom float64
	duration  float32
	zoomTween *gween.Tween
}

// newCamera creates a camera at the configured scale. hoverZoom multiplies
// scale while hovered, tweened over duration seconds.
func newCamera(scale, hoverZoom, duration float64) *Camera {
	return &Camera{
		Zoom:      scale,
		base:      scale,
		hoverZoom: hoverZoom,
		duration:  float32(duration),
	}
}

// ZoomTo animates Zoom to z over duration seconds. A non-positive duration
// snaps immediately.
func (c *Camera) ZoomTo(z float64, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		c.Zoom = z
		c.zoomTween = nil
		return
	}
	c.zoomTween = gween.New(float32(c.Zoom), float32(z), duration, easeFn)
}

// Animating reports whether a zoom tween is in progress.
func (c *Camera) Animating() bool { return c.zoomTween != nil }

// setHover retargets the zoom for a hover transition.
func (c *Camera) setHover(active bool) {
	if c.hoverZoom == 1 {
		return
	}
	target := c.base
	if active {
		target = c.base * c.hoverZoom
	}
	c.ZoomTo(target, c.duration, ease.OutCubic)
}

// update advances the zoom tween. Called from the animation tick.
func (c *Camera) update(dt float32) {
	if c.zoomTween == nil {
		return
	}
	val, done := c.zoomTween.Update(dt)
	c.Zoom = float64(val)
	if done {
		c.zoomTween = nil
	}
}

// BoundingRect returns the on-screen rectangle the surface occupies when
// presented into layout.
func (c *Camera) BoundingRect(layout Rect) Rect {
	return layout.ScaleAbout(c.Zoom)
}

// GeoM returns the transform that draws a w×h surface into layout.
func (c *Camera) GeoM(w, h int, layout Rect) ebiten.GeoM {
	var m ebiten.GeoM
	if w <= 0 || h <= 0 {
		return m
	}
	m.Translate(-float64(w)/2, -float64(h)/2)
	m.Scale(layout.Width/float64(w)*c.Zoom, layout.Height/float64(h)*c.Zoom)
	cx, cy := layout.Center()
	m.Translate(cx, cy)
	return m
}
