package ripple

import (
	"context"
	"fmt"
	"image"
	"image/color"
)

// RenderContext owns every GPU-side resource of one renderer: the surface,
// quad, program and texture. It is created attached to its container and
// detached by Teardown. All methods run on the frame thread.
type RenderContext struct {
	name      string
	container Container
	attached  bool

	surface *Surface
	quad    *Quad
	program *Program
	texture *Texture

	source  string
	loader  *textureLoader
	state   TextureState
	loadErr error

	width, height      int
	pendingW, pendingH int
	resizePending      bool

	clear       color.RGBA
	frame       *image.RGBA
	drawCalls   uint64
	blankFrames uint64
	disposed    bool

	onLoad  func()
	onError func(error)
	sink    EventSink
}

// NewRenderContext creates a cfg.Width×cfg.Height surface, attaches it under
// container, builds the quad and program, and starts loading cfg.Image in the
// background. A shader that cannot be compiled degrades the program to
// RenderStatic instead of failing.
func NewRenderContext(container Container, cfg Config, opts ...Option) (*RenderContext, error) {
	if container == nil {
		return nil, ErrNoContainer
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newRenderContext(container, cfg, buildOptions(opts)), nil
}

// newRenderContext expects a validated cfg.
func newRenderContext(container Container, cfg Config, o options) *RenderContext {
	bg, _ := ParseColor(cfg.ClearColor)
	rc := &RenderContext{
		name:      cfg.Name,
		container: container,
		source:    cfg.Image,
		width:     cfg.Width,
		height:    cfg.Height,
		clear:     bg.toRGBA(),
		onLoad:    o.onLoad,
		onError:   o.onError,
		sink:      o.sink,
	}
	cam := newCamera(cfg.Scale, cfg.HoverZoom, cfg.HoverZoomDuration)
	rc.surface = newSurface(cfg.Width, cfg.Height, cam)
	container.AttachSurface(rc.surface)
	rc.attached = true

	rc.quad = newQuad(cfg.Width, cfg.Height)
	rc.program = newProgram(cfg.Renderer, cfg.Constants)
	rc.program.SetUniforms(Uniforms{Pointer: Vec2{0.5, 0.5}, Tunables: cfg.Tunables})

	rc.loader = startTextureLoad(context.Background(), cfg.Image, o.fetcher, cfg.retryPolicy())
	Logger().Debug("ripple: render context created", "instance", rc.name,
		"width", cfg.Width, "height", cfg.Height, "mode", rc.program.Mode())
	return rc
}

// --- Per-tick steps ---

// RequestResize queues a new render resolution, applied at the start of the
// next tick before anything is drawn. Non-positive sizes (container not laid
// out) are ignored; the next resize notification retries.
func (rc *RenderContext) RequestResize(w, h int) {
	if rc.disposed {
		return
	}
	if w <= 0 || h <= 0 {
		Logger().Debug("ripple: resize skipped", "instance", rc.name, "width", w, "height", h)
		return
	}
	rc.pendingW, rc.pendingH = w, h
	rc.resizePending = true
}

func (rc *RenderContext) applyPendingResize() {
	if !rc.resizePending || rc.disposed {
		return
	}
	rc.resizePending = false
	w, h := rc.pendingW, rc.pendingH
	if w == rc.width && h == rc.height {
		return
	}
	rc.width, rc.height = w, h
	rc.surface.resize(w, h)
	rc.quad.resize(w, h)
	if rc.texture != nil {
		rc.texture.fit(w, h)
	}
	rc.frame = nil
	Logger().Debug("ripple: resized", "instance", rc.name, "width", w, "height", h)
}

// pollTexture uploads the loaded image if the background load has finished.
// A disposed context never receives the result.
func (rc *RenderContext) pollTexture() {
	if rc.disposed || rc.loader == nil {
		return
	}
	r, ok := rc.loader.poll()
	if !ok {
		return
	}
	rc.loader = nil

	if r.err != nil {
		rc.state = TextureFailed
		rc.loadErr = fmt.Errorf("load texture %s: %w", sourceLabel(rc.source), r.err)
		Logger().Error("ripple: texture load failed", "instance", rc.name,
			"attempts", r.attempts, "err", r.err)
		emit(rc.sink, Event{Type: EventTextureFailed, Instance: rc.name, Err: rc.loadErr})
		if rc.onError != nil {
			rc.onError(rc.loadErr)
		}
		return
	}

	rc.texture = newTexture(r.img, rc.width, rc.height)
	rc.state = TextureReady
	nw, nh := rc.texture.NaturalSize()
	Logger().Info("ripple: texture loaded", "instance", rc.name,
		"source", sourceLabel(rc.source), "width", nw, "height", nh, "attempts", r.attempts)
	emit(rc.sink, Event{Type: EventTextureLoaded, Instance: rc.name})
	if rc.onLoad != nil {
		rc.onLoad()
	}
}

// draw renders one frame into the surface: the distorted texture, or a blank
// frame in the clear color while no texture is available.
func (rc *RenderContext) draw() {
	if rc.disposed {
		return
	}
	dst := rc.surface.Image()
	if rc.state != TextureReady || rc.texture == nil {
		dst.Fill(rc.clear)
		rc.blankFrames++
		return
	}
	if rc.program.Mode() == RenderSoftware {
		if err := rc.renderFrame(); err != nil {
			Logger().Warn("ripple: software frame failed", "instance", rc.name, "err", err)
			dst.Fill(rc.clear)
			rc.blankFrames++
			return
		}
		dst.WritePixels(rc.frame.Pix)
	} else {
		rc.program.Draw(dst, rc.texture.Image(), rc.quad)
	}
	rc.drawCalls++
}

func (rc *RenderContext) renderFrame() error {
	if rc.frame == nil || rc.frame.Bounds().Dx() != rc.width || rc.frame.Bounds().Dy() != rc.height {
		rc.frame = image.NewRGBA(image.Rect(0, 0, rc.width, rc.height))
	}
	return rc.program.Render(rc.frame, rc.texture.RGBA())
}

// --- Teardown ---

// Teardown stops the pending texture load, marks the context disposed,
// releases the quad, program, texture and surface, and detaches the surface
// from its container. It tolerates partial construction and is safe to call
// any number of times.
func (rc *RenderContext) Teardown() {
	if rc == nil || rc.disposed {
		return
	}
	if rc.loader != nil {
		rc.loader.stop()
		rc.loader = nil
	}
	rc.disposed = true
	rc.resizePending = false

	if rc.quad != nil {
		rc.quad.Dispose()
	}
	if rc.program != nil {
		rc.program.Dispose()
	}
	if rc.texture != nil {
		rc.texture.Dispose()
	}
	if rc.surface != nil {
		rc.surface.Dispose()
	}
	if rc.attached && rc.container != nil {
		rc.container.DetachSurface(rc.surface)
		rc.attached = false
	}
	rc.frame = nil
	Logger().Debug("ripple: render context torn down", "instance", rc.name,
		"draws", rc.drawCalls, "blank", rc.blankFrames)
}

// --- Accessors ---

// Disposed reports whether Teardown has run.
func (rc *RenderContext) Disposed() bool { return rc.disposed }

// Size returns the current render resolution.
func (rc *RenderContext) Size() (int, int) { return rc.width, rc.height }

// TextureState returns the texture load state.
func (rc *RenderContext) TextureState() TextureState { return rc.state }

// LoadError returns the final load error when TextureState is TextureFailed.
func (rc *RenderContext) LoadError() error { return rc.loadErr }

// Surface returns the drawing surface.
func (rc *RenderContext) Surface() *Surface { return rc.surface }

// Program returns the distortion program.
func (rc *RenderContext) Program() *Program { return rc.program }

// DrawCalls returns how many distorted frames were drawn.
func (rc *RenderContext) DrawCalls() uint64 { return rc.drawCalls }

// BlankFrames returns how many frames were cleared because no texture was
// available.
func (rc *RenderContext) BlankFrames() uint64 { return rc.blankFrames }

// Snapshot returns the current frame computed on the CPU with the uniforms
// of the last tick, or nil while no texture is available. The result is a
// copy the caller may keep.
func (rc *RenderContext) Snapshot() *image.RGBA {
	if rc.disposed || rc.state != TextureReady || rc.texture == nil {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, rc.width, rc.height))
	if rc.program.Mode() == RenderSoftware && rc.frame != nil && rc.frame.Bounds().Eq(out.Bounds()) {
		copy(out.Pix, rc.frame.Pix)
		return out
	}
	if err := rc.program.Render(out, rc.texture.RGBA()); err != nil {
		return nil
	}
	return out
}
