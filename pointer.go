package ripple

// Normalize maps a screen-space pointer position into normalized surface
// coordinates for the rectangle r: x grows to the right and y grows upward,
// y = 1 - (clientY - top) / height. ok is false when r has no area (the
// container is not laid out), in which case the sample should be left as is.
// Positions outside r map outside [0, 1]; the distortion is defined there.
func Normalize(clientX, clientY float64, r Rect) (x, y float64, ok bool) {
	if r.Empty() {
		return 0, 0, false
	}
	x = (clientX - r.X) / r.Width
	y = 1 - (clientY-r.Y)/r.Height
	return x, y, true
}

// PointerState is the latest pointer sample in normalized surface
// coordinates.
type PointerState struct {
	X, Y        float64
	HoverActive bool
}

// Pointer returns the sample position as a vector.
func (p PointerState) Pointer() Vec2 { return Vec2{p.X, p.Y} }

// PointerTracker turns container pointer events into the latest
// PointerState. Handlers only overwrite the sample; the animation tick reads
// it once per frame, so any number of moves between ticks cost one uniform
// write.
type PointerTracker struct {
	state     PointerState
	container Container
	handles   []ListenerHandle

	onHover func()
	onLeave func()
	sink    EventSink
	name    string
}

// NewPointerTracker returns a tracker with the pointer at the surface center
// and hover inactive. onHover and onLeave may be nil.
func NewPointerTracker(onHover, onLeave func()) *PointerTracker {
	return &PointerTracker{
		state:   PointerState{X: 0.5, Y: 0.5},
		onHover: onHover,
		onLeave: onLeave,
	}
}

// Bind subscribes the tracker to c's pointer events. A tracker binds to one
// container at a time; binding again first unbinds.
func (p *PointerTracker) Bind(c Container) {
	p.Unbind()
	p.container = c
	p.handles = append(p.handles,
		c.AddListener(EventPointerMove, func(e ContainerEvent) { p.HandleMove(e.X, e.Y) }),
		c.AddListener(EventPointerEnter, func(e ContainerEvent) { p.HandleEnter(e.X, e.Y) }),
		c.AddListener(EventPointerLeave, func(ContainerEvent) { p.HandleLeave() }),
	)
}

// Unbind removes every listener added by Bind. Safe to call more than once.
func (p *PointerTracker) Unbind() {
	for _, h := range p.handles {
		h.Remove()
	}
	p.handles = p.handles[:0]
	p.container = nil
}

// Bound reports whether the tracker is subscribed to a container.
func (p *PointerTracker) Bound() bool { return p.container != nil }

// HandleMove records a pointer position in screen coordinates.
func (p *PointerTracker) HandleMove(clientX, clientY float64) {
	if p.container == nil {
		return
	}
	x, y, ok := Normalize(clientX, clientY, p.container.BoundingRect())
	if !ok {
		return
	}
	p.state.X, p.state.Y = x, y
}

// HandleEnter records the position and activates hover.
func (p *PointerTracker) HandleEnter(clientX, clientY float64) {
	if p.container == nil {
		return
	}
	p.HandleMove(clientX, clientY)
	if p.state.HoverActive {
		return
	}
	p.state.HoverActive = true
	emit(p.sink, Event{Type: EventHoverStart, Instance: p.name, X: p.state.X, Y: p.state.Y})
	if p.onHover != nil {
		p.onHover()
	}
}

// HandleLeave deactivates hover. The last position is kept so the ripple
// fades out where the pointer left.
func (p *PointerTracker) HandleLeave() {
	if p.container == nil || !p.state.HoverActive {
		return
	}
	p.state.HoverActive = false
	emit(p.sink, Event{Type: EventHoverEnd, Instance: p.name, X: p.state.X, Y: p.state.Y})
	if p.onLeave != nil {
		p.onLeave()
	}
}

// Sample returns the latest pointer state.
func (p *PointerTracker) Sample() PointerState { return p.state }
