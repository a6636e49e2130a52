package ripple

// syntheticPointerEvent represents a single injected pointer event in screen
// coordinates. present=false means the pointer left the screen.
type syntheticPointerEvent struct {
	screenX, screenY float64
	present          bool
}

// InjectMove queues a pointer position at the given screen coordinates. The
// event is consumed on the next Update in place of real input.
func (h *Host) InjectMove(x, y float64) {
	h.injectQueue = append(h.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y,
		present: true,
	})
}

// InjectLeave queues the pointer leaving the screen, which ends hover on
// every panel.
func (h *Host) InjectLeave() {
	h.injectQueue = append(h.injectQueue, syntheticPointerEvent{})
}

// InjectPath queues a pointer sweep from (fromX, fromY) to (toX, toY) over
// frames frames, one position per frame. Minimum frames is 2.
func (h *Host) InjectPath(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		h.InjectMove(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
}

// processInjectedInput pops one event from the inject queue and dispatches
// it to the panels. Returns true if an event was consumed (real input should
// be skipped).
func (h *Host) processInjectedInput() bool {
	if len(h.injectQueue) == 0 {
		return false
	}
	evt := h.injectQueue[0]
	copy(h.injectQueue, h.injectQueue[1:])
	h.injectQueue = h.injectQueue[:len(h.injectQueue)-1]

	h.dispatchPointer(evt.screenX, evt.screenY, evt.present)
	return true
}
