package ripple

import (
	"image/color"
	"math"

	css "github.com/mazznoer/csscolorparser"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to Ebitengine.
type Color struct {
	R, G, B, A float64
}

// ColorTransparent is the default blank-frame color.
var ColorTransparent = Color{}

// toRGBA converts a straight-alpha Color to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp(c.A, 0, 1)
	return color.RGBA{
		R: uint8(clamp(c.R, 0, 1)*a*255 + 0.5),
		G: uint8(clamp(c.G, 0, 1)*a*255 + 0.5),
		B: uint8(clamp(c.B, 0, 1)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// ParseColor parses any CSS color string ("#1e1b2e", "rgba(0,0,0,0.5)",
// "transparent", "rebeccapurple", ...). An empty string is transparent.
func ParseColor(s string) (Color, error) {
	if s == "" {
		return ColorTransparent, nil
	}
	c, err := css.Parse(s)
	if err != nil {
		return Color{}, err
	}
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

// Vec2 is a 2D vector. Normalized surface coordinates use X to the right and
// Y upward, both in [0, 1].
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Rect is an axis-aligned rectangle in screen space. The origin is the
// top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Empty reports whether the rectangle has no measurable area.
func (r Rect) Empty() bool {
	return !(r.Width > 0) || !(r.Height > 0)
}

// Center returns the rectangle's center point.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// ScaleAbout returns r scaled by s about its own center.
func (r Rect) ScaleAbout(s float64) Rect {
	cx, cy := r.Center()
	w, h := r.Width*s, r.Height*s
	return Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
}

// EventType identifies a container event or a renderer lifecycle event.
type EventType uint8

const (
	EventPointerMove   EventType = iota // pointer moved over a container
	EventPointerEnter                   // pointer entered a container's bounds
	EventPointerLeave                   // pointer left a container's bounds
	EventResize                         // container layout size changed
	EventMounted                        // instance finished mounting
	EventUnmounted                      // instance torn down
	EventHoverStart                     // instance hover became active
	EventHoverEnd                       // instance hover ended
	EventTextureLoaded                  // texture load completed and uploaded
	EventTextureFailed                  // texture load failed after all retries
)

var eventTypeNames = [...]string{
	EventPointerMove:   "pointer-move",
	EventPointerEnter:  "pointer-enter",
	EventPointerLeave:  "pointer-leave",
	EventResize:        "resize",
	EventMounted:       "mounted",
	EventUnmounted:     "unmounted",
	EventHoverStart:    "hover-start",
	EventHoverEnd:      "hover-end",
	EventTextureLoaded: "texture-loaded",
	EventTextureFailed: "texture-failed",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}
