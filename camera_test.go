package ripple

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestCameraDefaults(t *testing.T) {
	cam := newCamera(1.5, 1, 0.3)
	if cam.Zoom != 1.5 {
		t.Errorf("Zoom = %f, want 1.5", cam.Zoom)
	}
	if cam.Animating() {
		t.Error("new camera is animating")
	}
}

func TestCameraZoomTo(t *testing.T) {
	cam := newCamera(1, 1, 0)
	cam.ZoomTo(2, 1.0, ease.Linear)

	// Advance halfway
	cam.update(0.5)
	if !approxEqual(cam.Zoom, 1.5, 0.01) {
		t.Errorf("zoom halfway = %f, want ~1.5", cam.Zoom)
	}

	// Advance to end
	cam.update(0.5)
	if !approxEqual(cam.Zoom, 2, 1e-6) {
		t.Errorf("zoom end = %f, want 2", cam.Zoom)
	}

	// Tween should be cleared
	if cam.zoomTween != nil {
		t.Error("zoomTween not nil after completion")
	}
}

func TestCameraZoomToSnaps(t *testing.T) {
	cam := newCamera(1, 1, 0)
	cam.ZoomTo(3, 0, ease.Linear)
	if cam.Zoom != 3 || cam.Animating() {
		t.Errorf("Zoom = %f animating=%v, want 3 and not animating", cam.Zoom, cam.Animating())
	}
}

func TestCameraHover(t *testing.T) {
	cam := newCamera(2, 1.25, 0.2)
	cam.setHover(true)
	for i := 0; i < 30; i++ {
		cam.update(1.0 / 60)
	}
	if !approxEqual(cam.Zoom, 2.5, 1e-4) {
		t.Errorf("hover zoom = %f, want 2.5", cam.Zoom)
	}
	cam.setHover(false)
	for i := 0; i < 30; i++ {
		cam.update(1.0 / 60)
	}
	if !approxEqual(cam.Zoom, 2, 1e-4) {
		t.Errorf("rest zoom = %f, want 2", cam.Zoom)
	}
}

func TestCameraHoverDisabled(t *testing.T) {
	cam := newCamera(1, 1, 0.2)
	cam.setHover(true)
	if cam.Animating() {
		t.Error("hover zoom of 1 started a tween")
	}
}

func TestCameraGeoMMapsToLayout(t *testing.T) {
	layout := Rect{X: 10, Y: 20, Width: 200, Height: 100}
	tests := []struct {
		name   string
		zoom   float64
		x0, y0 float64
		x1, y1 float64
	}{
		{"identity", 1, 10, 20, 210, 120},
		{"zoomed", 2, -90, -30, 310, 170},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newCamera(tt.zoom, 1, 0)
			m := cam.GeoM(400, 50, layout)
			x0, y0 := m.Apply(0, 0)
			x1, y1 := m.Apply(400, 50)
			assertNear(t, "x0", x0, tt.x0)
			assertNear(t, "y0", y0, tt.y0)
			assertNear(t, "x1", x1, tt.x1)
			assertNear(t, "y1", y1, tt.y1)

			br := cam.BoundingRect(layout)
			assertNear(t, "bounds X", br.X, tt.x0)
			assertNear(t, "bounds width", br.Width, tt.x1-tt.x0)
		})
	}
}
