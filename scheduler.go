package ripple

import "time"

// FrameHandle identifies a pending frame request. The zero handle is never
// issued.
type FrameHandle uint64

// Scheduler runs callbacks once per display frame, like a browser's
// requestAnimationFrame. fn receives the wall-clock step of the frame it runs
// in. All callbacks run on the frame thread.
type Scheduler interface {
	RequestFrame(fn func(dt time.Duration)) FrameHandle
	CancelFrame(h FrameHandle)
}

type frameRequest struct {
	handle FrameHandle
	fn     func(time.Duration)
}

// FrameScheduler is a single-threaded Scheduler advanced by RunFrame, which a
// Host calls once per Update. Callbacks requested while a frame runs are
// deferred to the next frame, so a tick that reschedules itself runs exactly
// once per frame.
type FrameScheduler struct {
	step    time.Duration
	pending []frameRequest
	running []frameRequest
	next    FrameHandle
	frames  uint64
}

// NewFrameScheduler returns a scheduler that reports step as each frame's
// delta. A non-positive step defaults to 1/60 s.
func NewFrameScheduler(step time.Duration) *FrameScheduler {
	s := &FrameScheduler{}
	s.SetStep(step)
	return s
}

// SetStep changes the per-frame delta, e.g. after the host changes its TPS.
func (s *FrameScheduler) SetStep(step time.Duration) {
	if step <= 0 {
		step = time.Second / 60
	}
	s.step = step
}

// Step returns the per-frame delta.
func (s *FrameScheduler) Step() time.Duration { return s.step }

// RequestFrame queues fn for the next RunFrame.
func (s *FrameScheduler) RequestFrame(fn func(time.Duration)) FrameHandle {
	s.next++
	s.pending = append(s.pending, frameRequest{handle: s.next, fn: fn})
	return s.next
}

// CancelFrame removes a pending request, including one queued later in the
// frame currently running. Unknown or already-run handles are ignored.
func (s *FrameScheduler) CancelFrame(h FrameHandle) {
	for i, r := range s.pending {
		if r.handle == h {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
	for i := range s.running {
		if s.running[i].handle == h {
			s.running[i].fn = nil
			return
		}
	}
}

// RunFrame runs every callback that was pending when it was called and
// returns how many ran.
func (s *FrameScheduler) RunFrame() int {
	s.frames++
	s.running, s.pending = s.pending, s.running[:0]
	n := 0
	for i := range s.running {
		if fn := s.running[i].fn; fn != nil {
			s.running[i].fn = nil
			fn(s.step)
			n++
		}
	}
	clear(s.running)
	s.running = s.running[:0]
	return n
}

// Pending returns the number of queued requests.
func (s *FrameScheduler) Pending() int { return len(s.pending) }

// Frames returns how many frames have run.
func (s *FrameScheduler) Frames() uint64 { return s.frames }
