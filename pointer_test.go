package ripple

import "testing"

// fakeContainer is a minimal Container with a fixed bounding rect.
type fakeContainer struct {
	rect      Rect
	listeners Listeners
	attached  []*Surface
	detached  int
}

func (c *fakeContainer) AttachSurface(s *Surface) { c.attached = append(c.attached, s) }

func (c *fakeContainer) DetachSurface(s *Surface) {
	for i, a := range c.attached {
		if a == s {
			c.attached = append(c.attached[:i], c.attached[i+1:]...)
			c.detached++
			return
		}
	}
}

func (c *fakeContainer) BoundingRect() Rect { return c.rect }

func (c *fakeContainer) AddListener(t EventType, fn func(ContainerEvent)) ListenerHandle {
	return c.listeners.Add(t, fn)
}

// --- Normalize ---

func TestNormalize(t *testing.T) {
	r := Rect{X: 100, Y: 50, Width: 200, Height: 100}
	tests := []struct {
		name   string
		cx, cy float64
		wx, wy float64
	}{
		{"bottom-left", 100, 150, 0, 0},
		{"top-right", 300, 50, 1, 1},
		{"top-left", 100, 50, 0, 1},
		{"bottom-right", 300, 150, 1, 0},
		{"center", 200, 100, 0.5, 0.5},
		{"outside", 400, 200, 1.5, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := Normalize(tt.cx, tt.cy, r)
			if !ok {
				t.Fatal("ok = false")
			}
			assertNear(t, "x", x, tt.wx)
			assertNear(t, "y", y, tt.wy)
		})
	}
}

func TestNormalizeEmptyRect(t *testing.T) {
	for _, r := range []Rect{{}, {Width: 10}, {Height: 10}, {Width: -5, Height: 5}} {
		if _, _, ok := Normalize(1, 1, r); ok {
			t.Errorf("Normalize on %v: ok = true, want false", r)
		}
	}
}

// --- PointerTracker ---

func TestPointerTrackerInitialSample(t *testing.T) {
	p := NewPointerTracker(nil, nil)
	s := p.Sample()
	if s.X != 0.5 || s.Y != 0.5 || s.HoverActive {
		t.Errorf("initial sample = %+v", s)
	}
}

func TestPointerTrackerLatestSampleWins(t *testing.T) {
	c := &fakeContainer{rect: Rect{Width: 100, Height: 100}}
	p := NewPointerTracker(nil, nil)
	p.Bind(c)

	for i := 0; i < 20; i++ {
		c.listeners.Emit(ContainerEvent{Type: EventPointerMove, X: float64(i), Y: float64(i)})
	}
	s := p.Sample()
	assertNear(t, "X", s.X, 0.19)
	assertNear(t, "Y", s.Y, 0.81)
}

func TestPointerTrackerHover(t *testing.T) {
	c := &fakeContainer{rect: Rect{Width: 100, Height: 100}}
	var hovers, leaves int
	var events []Event
	p := NewPointerTracker(func() { hovers++ }, func() { leaves++ })
	p.sink = EventSinkFunc(func(e Event) { events = append(events, e) })
	p.name = "card"
	p.Bind(c)

	c.listeners.Emit(ContainerEvent{Type: EventPointerEnter, X: 25, Y: 25})
	c.listeners.Emit(ContainerEvent{Type: EventPointerEnter, X: 25, Y: 25})
	if !p.Sample().HoverActive {
		t.Fatal("hover not active after enter")
	}
	assertNear(t, "X", p.Sample().X, 0.25)
	assertNear(t, "Y", p.Sample().Y, 0.75)

	c.listeners.Emit(ContainerEvent{Type: EventPointerLeave})
	c.listeners.Emit(ContainerEvent{Type: EventPointerLeave})
	if p.Sample().HoverActive {
		t.Fatal("hover still active after leave")
	}
	if hovers != 1 || leaves != 1 {
		t.Errorf("callbacks: hover=%d leave=%d, want 1 and 1", hovers, leaves)
	}
	if len(events) != 2 || events[0].Type != EventHoverStart || events[1].Type != EventHoverEnd {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Instance != "card" {
		t.Errorf("event instance = %q", events[0].Instance)
	}
	// The last position is kept after leave.
	assertNear(t, "X after leave", p.Sample().X, 0.25)
}

func TestPointerTrackerUnlaidContainer(t *testing.T) {
	c := &fakeContainer{}
	p := NewPointerTracker(nil, nil)
	p.Bind(c)
	c.listeners.Emit(ContainerEvent{Type: EventPointerMove, X: 10, Y: 10})
	if s := p.Sample(); s.X != 0.5 || s.Y != 0.5 {
		t.Errorf("sample changed on empty rect: %+v", s)
	}
}

func TestPointerTrackerUnbind(t *testing.T) {
	c := &fakeContainer{rect: Rect{Width: 10, Height: 10}}
	p := NewPointerTracker(nil, nil)
	p.Bind(c)
	if c.listeners.Len() != 3 {
		t.Fatalf("listeners = %d, want 3", c.listeners.Len())
	}
	p.Unbind()
	p.Unbind()
	if c.listeners.Len() != 0 {
		t.Errorf("listeners after Unbind = %d, want 0", c.listeners.Len())
	}
	if p.Bound() {
		t.Error("Bound() = true after Unbind")
	}
	c.listeners.Emit(ContainerEvent{Type: EventPointerEnter, X: 1, Y: 1})
	if p.Sample().HoverActive {
		t.Error("unbound tracker reacted to an event")
	}
}

func TestPointerTrackerUnboundIgnoresDirectCalls(t *testing.T) {
	c := &fakeContainer{rect: Rect{Width: 10, Height: 10}}
	hovers := 0
	p := NewPointerTracker(func() { hovers++ }, nil)
	p.Bind(c)
	p.Unbind()
	p.HandleEnter(5, 5)
	if p.Sample().HoverActive || hovers != 0 {
		t.Errorf("unbound tracker entered: hover=%v calls=%d", p.Sample().HoverActive, hovers)
	}
}

func TestListenersAddDuringEmit(t *testing.T) {
	var l Listeners
	calls := 0
	l.Add(EventResize, func(ContainerEvent) {
		l.Add(EventResize, func(ContainerEvent) { calls++ })
	})
	l.Emit(ContainerEvent{Type: EventResize})
	if calls != 0 {
		t.Errorf("listener added during emit was called %d times", calls)
	}
}

// --- Listeners ---

func TestListenersRemoveDuringEmit(t *testing.T) {
	var l Listeners
	var calls []int
	var h2 ListenerHandle
	l.Add(EventResize, func(ContainerEvent) {
		calls = append(calls, 1)
		h2.Remove()
	})
	h2 = l.Add(EventResize, func(ContainerEvent) { calls = append(calls, 2) })
	l.Add(EventPointerMove, func(ContainerEvent) { calls = append(calls, 3) })

	l.Emit(ContainerEvent{Type: EventResize})
	if len(calls) != 1 {
		t.Fatalf("first emit calls = %v, want [1]", calls)
	}
	l.Emit(ContainerEvent{Type: EventResize})
	if len(calls) != 2 || calls[1] != 1 {
		t.Errorf("second emit calls = %v, want [1 1]", calls)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
	ListenerHandle{}.Remove()
}
