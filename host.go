package ripple

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Panel ---

// Panel is the stock Container: a rectangle of the host screen that one
// renderer is mounted into. Pointer events are derived by the Host from the
// cursor, touches or injected input.
type Panel struct {
	Name string

	layout    Rect
	surface   *Surface
	listeners Listeners

	hovered      bool
	lastX, lastY float64
}

// AttachSurface implements Container. A panel presents one surface; attaching
// another replaces it.
func (p *Panel) AttachSurface(s *Surface) { p.surface = s }

// DetachSurface implements Container.
func (p *Panel) DetachSurface(s *Surface) {
	if p.surface == s {
		p.surface = nil
		p.hovered = false
	}
}

// Surface returns the attached surface, or nil.
func (p *Panel) Surface() *Surface { return p.surface }

// BoundingRect implements Container. It is the layout rectangle transformed
// by the surface camera, so hover zoom grows the hit area with the image.
func (p *Panel) BoundingRect() Rect {
	if p.surface == nil {
		return p.layout
	}
	return p.surface.BoundingRect(p.layout)
}

// AddListener implements Container.
func (p *Panel) AddListener(t EventType, fn func(ContainerEvent)) ListenerHandle {
	return p.listeners.Add(t, fn)
}

// Layout returns the panel's layout rectangle in screen coordinates.
func (p *Panel) Layout() Rect { return p.layout }

// SetBounds moves and resizes the panel. A size change notifies resize
// listeners with the new pixel size.
func (p *Panel) SetBounds(r Rect) {
	old := p.layout
	p.layout = r
	if int(old.Width) != int(r.Width) || int(old.Height) != int(r.Height) {
		p.listeners.Emit(ContainerEvent{Type: EventResize, Width: int(r.Width), Height: int(r.Height)})
	}
}

// dispatchPointer turns one pointer position into enter, move and leave
// events. present is false when no pointer is over the screen.
func (p *Panel) dispatchPointer(x, y float64, present bool) {
	inside := present && p.surface != nil && p.BoundingRect().Contains(x, y)
	switch {
	case inside && !p.hovered:
		p.hovered = true
		p.lastX, p.lastY = x, y
		p.listeners.Emit(ContainerEvent{Type: EventPointerEnter, X: x, Y: y})
	case inside:
		if x == p.lastX && y == p.lastY {
			return
		}
		p.lastX, p.lastY = x, y
		p.listeners.Emit(ContainerEvent{Type: EventPointerMove, X: x, Y: y})
	case p.hovered:
		p.hovered = false
		p.listeners.Emit(ContainerEvent{Type: EventPointerLeave, X: x, Y: y})
	}
}

// --- Host ---

// Host is an ebiten.Game that presents any number of panels, each with its
// own independently mounted renderer. Every Update runs one frame of the
// shared FrameScheduler.
type Host struct {
	// ClearColor fills the screen before panels are drawn.
	ClearColor Color
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string
	// ShowFPS draws the FPS/TPS counter in the top-left corner.
	ShowFPS bool

	sched      *FrameScheduler
	panels     []*Panel
	updateFunc func() error

	injectQueue     []syntheticPointerEvent
	testRunner      *TestRunner
	screenshotQueue []string

	prevTouchIDs []ebiten.TouchID
	screenW      int
	screenH      int
}

// NewHost creates a host with no panels.
func NewHost() *Host {
	return &Host{
		ScreenshotDir: "screenshots",
		sched:         NewFrameScheduler(time.Second / 60),
	}
}

// Scheduler returns the frame scheduler the host advances each Update.
func (h *Host) Scheduler() *FrameScheduler { return h.sched }

// NewPanel adds a panel covering bounds.
func (h *Host) NewPanel(name string, bounds Rect) *Panel {
	p := &Panel{Name: name, layout: bounds}
	h.panels = append(h.panels, p)
	return p
}

// RemovePanel removes p from the host. Instances mounted into p should be
// unmounted first.
func (h *Host) RemovePanel(p *Panel) {
	for i, q := range h.panels {
		if q == p {
			h.panels = append(h.panels[:i], h.panels[i+1:]...)
			return
		}
	}
}

// Panels returns the host's panels in draw order.
func (h *Host) Panels() []*Panel { return h.panels }

// Panel returns the panel with the given name, or nil.
func (h *Host) Panel(name string) *Panel {
	for _, p := range h.panels {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Mount mounts a renderer into p, driven by the host's scheduler.
func (h *Host) Mount(p *Panel, cfg Config, opts ...Option) (*Instance, error) {
	if p == nil {
		return nil, ErrNoContainer
	}
	return Mount(p, h.sched, cfg, opts...)
}

// SetUpdateFunc registers fn to run once per Update, before the frame's
// ticks. A non-nil error ends the game.
func (h *Host) SetUpdateFunc(fn func() error) { h.updateFunc = fn }

// Update implements ebiten.Game.
func (h *Host) Update() error {
	h.sched.SetStep(time.Second / time.Duration(ebiten.TPS()))
	if h.testRunner != nil {
		h.testRunner.step(h)
	}
	if !h.processInjectedInput() {
		h.processPointerInput()
	}
	if h.updateFunc != nil {
		if err := h.updateFunc(); err != nil {
			return err
		}
	}
	h.sched.RunFrame()
	return nil
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(h.ClearColor.toRGBA())
	for _, p := range h.panels {
		if p.surface != nil {
			p.surface.DrawTo(screen, p.layout)
		}
	}
	if h.ShowFPS {
		drawFPS(screen)
	}
	h.flushScreenshots(screen)
}

// Layout implements ebiten.Game.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.screenW, h.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// --- Input ---

// processPointerInput feeds the first touch, or else the cursor, to every
// panel.
func (h *Host) processPointerInput() {
	h.prevTouchIDs = ebiten.AppendTouchIDs(h.prevTouchIDs[:0])
	var x, y int
	if len(h.prevTouchIDs) > 0 {
		x, y = ebiten.TouchPosition(h.prevTouchIDs[0])
	} else {
		x, y = ebiten.CursorPosition()
	}
	present := x >= 0 && y >= 0 && (h.screenW == 0 || x < h.screenW) && (h.screenH == 0 || y < h.screenH)
	h.dispatchPointer(float64(x), float64(y), present)
}

func (h *Host) dispatchPointer(x, y float64, present bool) {
	// Listeners may unmount instances or remove panels.
	panels := append([]*Panel(nil), h.panels...)
	for _, p := range panels {
		p.dispatchPointer(x, y, present)
	}
}

// --- Run ---

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// TPS overrides the tick rate. Zero keeps Ebitengine's default of 60.
	TPS     int
	ShowFPS bool
}

// Run opens a window and runs h until the window is closed or the update
// func returns an error.
func Run(h *Host, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	h.ShowFPS = h.ShowFPS || cfg.ShowFPS
	return ebiten.RunGame(h)
}
