package ripple

import "time"

// DriverState is the animation driver's scheduling state.
type DriverState uint8

const (
	DriverIdle    DriverState = iota // no tick scheduled
	DriverRunning                    // a tick is scheduled
)

func (s DriverState) String() string {
	if s == DriverRunning {
		return "running"
	}
	return "idle"
}

// AnimationDriver runs the per-frame tick of one instance: it advances time,
// samples the pointer once, eases the hover intensity, writes uniforms and
// draws. Ticks are strictly sequential; each one schedules the next.
type AnimationDriver struct {
	name    string
	ctx     *RenderContext
	pointer *PointerTracker
	sched   Scheduler

	state     DriverState
	cancelled bool
	handle    FrameHandle
	tickFn    func(time.Duration)

	time     float64
	hover    float64
	tunables Tunables
	resting  float64
	easing   float64

	debug bool
	stats frameStats
}

// NewAnimationDriver returns an idle driver for rc. The hover intensity
// starts at cfg.RestingIntensity.
func NewAnimationDriver(rc *RenderContext, p *PointerTracker, s Scheduler, cfg Config) *AnimationDriver {
	d := &AnimationDriver{
		name:     cfg.Name,
		ctx:      rc,
		pointer:  p,
		sched:    s,
		hover:    cfg.RestingIntensity,
		tunables: cfg.Tunables,
		resting:  cfg.RestingIntensity,
		easing:   cfg.EasingFactor,
		debug:    cfg.Debug,
	}
	d.tickFn = d.tick
	return d
}

// Start schedules the first tick. It does nothing if the driver is already
// running or its render context has been torn down.
func (d *AnimationDriver) Start() {
	if d.state == DriverRunning || d.ctx.Disposed() {
		return
	}
	d.cancelled = false
	d.state = DriverRunning
	d.handle = d.sched.RequestFrame(d.tickFn)
}

// Stop cancels the loop. A scheduled tick is withdrawn; a tick in progress
// finishes and does not reschedule. Safe to call more than once.
func (d *AnimationDriver) Stop() {
	d.cancelled = true
	if d.handle != 0 {
		d.sched.CancelFrame(d.handle)
		d.handle = 0
	}
	d.state = DriverIdle
}

// State returns the scheduling state.
func (d *AnimationDriver) State() DriverState { return d.state }

// Time returns the accumulated animation time in seconds.
func (d *AnimationDriver) Time() float64 { return d.time }

// HoverIntensity returns the eased hover intensity.
func (d *AnimationDriver) HoverIntensity() float64 { return d.hover }

// Tunables returns the uniform values written each tick.
func (d *AnimationDriver) Tunables() Tunables { return d.tunables }

// SetTunables replaces the uniform values from the next tick on.
func (d *AnimationDriver) SetTunables(t Tunables) { d.tunables = t }

func (d *AnimationDriver) tick(dt time.Duration) {
	d.handle = 0
	rc := d.ctx
	if d.cancelled || rc.Disposed() {
		d.state = DriverIdle
		return
	}
	var start time.Time
	if d.debug {
		start = time.Now()
	}

	d.time += dt.Seconds()
	p := d.pointer.Sample()
	target := d.resting
	if p.HoverActive {
		target = d.tunables.HoverRippleMultiplier
	}
	d.hover += (target - d.hover) * d.easing

	rc.applyPendingResize()
	rc.program.applyPending()
	rc.pollTexture()
	// Load callbacks may unmount the instance.
	if d.cancelled || rc.Disposed() {
		d.state = DriverIdle
		return
	}
	rc.surface.camera.update(float32(dt.Seconds()))

	rc.program.SetUniforms(Uniforms{
		Time:           d.time,
		Pointer:        p.Pointer(),
		HoverIntensity: d.hover,
		Tunables:       d.tunables,
	})
	rc.draw()

	if d.debug {
		d.stats.record(time.Since(start))
		if d.stats.ticks >= debugStatsInterval {
			d.stats.debugLog(d.name, rc)
		}
	}

	if d.cancelled {
		d.state = DriverIdle
		return
	}
	// A Stop and Start from a callback in this tick has already scheduled
	// the next one.
	if d.handle != 0 {
		return
	}
	d.handle = d.sched.RequestFrame(d.tickFn)
}
