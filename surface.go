package ripple

import "github.com/hajimehoshi/ebiten/v2"

// ContainerEvent is a pointer or layout notification delivered by a
// Container. X and Y are screen coordinates for pointer events; Width and
// Height are the new layout size for EventResize.
type ContainerEvent struct {
	Type          EventType
	X, Y          float64
	Width, Height int
}

// Container hosts a renderer's drawing surface. It is the only external
// state a render context mutates: the surface is attached on construction
// and detached on teardown.
type Container interface {
	// AttachSurface adds s to the container's children.
	AttachSurface(s *Surface)
	// DetachSurface removes s. Detaching a surface that is not attached is a
	// no-op.
	DetachSurface(s *Surface)
	// BoundingRect returns the on-screen rectangle of the attached surface.
	// An empty rect means the container is not laid out yet.
	BoundingRect() Rect
	// AddListener subscribes fn to events of type t.
	AddListener(t EventType, fn func(ContainerEvent)) ListenerHandle
}

// --- Listener registry ---

type listener struct {
	id  uint32
	typ EventType
	fn  func(ContainerEvent)
}

// Listeners is a registry of container event callbacks. Container
// implementations embed or hold one and call Emit.
type Listeners struct {
	handlers []listener
	nextID   uint32
}

// ListenerHandle removes a registered listener.
type ListenerHandle struct {
	id  uint32
	reg *Listeners
}

// Add registers fn for events of type t.
func (l *Listeners) Add(t EventType, fn func(ContainerEvent)) ListenerHandle {
	l.nextID++
	id := l.nextID
	l.handlers = append(l.handlers, listener{id: id, typ: t, fn: fn})
	return ListenerHandle{id: id, reg: l}
}

// Emit calls every listener registered for e.Type, in registration order.
// Listeners added during Emit wait for the next event; listeners removed
// during Emit are not called.
func (l *Listeners) Emit(e ContainerEvent) {
	for _, h := range l.handlers {
		if h.typ == e.Type && l.registered(h.id) {
			h.fn(e)
		}
	}
}

func (l *Listeners) registered(id uint32) bool {
	for _, h := range l.handlers {
		if h.id == id {
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (l *Listeners) Len() int { return len(l.handlers) }

// Remove unregisters the listener. Calling Remove more than once, or on the
// zero handle, is a no-op.
func (h ListenerHandle) Remove() {
	if h.reg == nil {
		return
	}
	hs := h.reg.handlers
	for i := range hs {
		if hs[i].id == h.id {
			// Build a new slice so an in-progress Emit keeps its snapshot.
			next := make([]listener, 0, len(hs)-1)
			next = append(next, hs[:i]...)
			h.reg.handlers = append(next, hs[i+1:]...)
			return
		}
	}
}

// --- Surface ---

// Surface is the offscreen image a render context draws into. Its size is the
// render resolution; how it is presented on screen is up to its Camera.
type Surface struct {
	image  *ebiten.Image
	w, h   int
	camera *Camera
	res    resource
	op     ebiten.DrawImageOptions
}

func newSurface(w, h int, cam *Camera) *Surface {
	return &Surface{
		image:  ebiten.NewImage(w, h),
		w:      w,
		h:      h,
		camera: cam,
		res:    acquireResource(ResourceSurface),
	}
}

// resize reallocates the backing image. Content is lost.
func (s *Surface) resize(w, h int) {
	if s.image != nil {
		s.image.Deallocate()
	}
	s.image = ebiten.NewImage(w, h)
	s.w, s.h = w, h
}

// Size returns the render resolution.
func (s *Surface) Size() (int, int) { return s.w, s.h }

// Image returns the backing image, or nil after Dispose.
func (s *Surface) Image() *ebiten.Image { return s.image }

// Camera returns the presentation camera.
func (s *Surface) Camera() *Camera { return s.camera }

// BoundingRect returns where the surface appears when presented into layout.
func (s *Surface) BoundingRect(layout Rect) Rect {
	if s.camera == nil {
		return layout
	}
	return s.camera.BoundingRect(layout)
}

// DrawTo presents the surface into layout on screen.
func (s *Surface) DrawTo(screen *ebiten.Image, layout Rect) {
	if s.image == nil || layout.Empty() {
		return
	}
	s.op.GeoM.Reset()
	if s.camera != nil {
		s.op.GeoM = s.camera.GeoM(s.w, s.h, layout)
	} else {
		s.op.GeoM.Scale(layout.Width/float64(s.w), layout.Height/float64(s.h))
		s.op.GeoM.Translate(layout.X, layout.Y)
	}
	s.op.Filter = ebiten.FilterLinear
	screen.DrawImage(s.image, &s.op)
}

// Dispose releases the backing image. Safe to call more than once.
func (s *Surface) Dispose() {
	if !s.res.release() {
		return
	}
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}
