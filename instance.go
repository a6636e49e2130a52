package ripple

import (
	"fmt"
	"image"
)

// Instance is one mounted renderer: a render context, the pointer tracker
// feeding it and the animation driver ticking it.
type Instance struct {
	name      string
	ctx       *RenderContext
	pointer   *PointerTracker
	driver    *AnimationDriver
	resize    ListenerHandle
	sink      EventSink
	unmounted bool
}

// Mount validates cfg, creates the render context under c, binds pointer
// and resize listeners and starts the animation loop on s.
func Mount(c Container, s Scheduler, cfg Config, opts ...Option) (*Instance, error) {
	if c == nil {
		return nil, ErrNoContainer
	}
	if s == nil {
		return nil, ErrNoScheduler
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mount %s: %w", cfg.Name, err)
	}
	o := buildOptions(opts)

	rc := newRenderContext(c, cfg, o)
	cam := rc.surface.Camera()
	tracker := NewPointerTracker(
		func() {
			cam.setHover(true)
			if o.onHover != nil {
				o.onHover()
			}
		},
		func() {
			cam.setHover(false)
			if o.onLeave != nil {
				o.onLeave()
			}
		},
	)
	tracker.name = cfg.Name
	tracker.sink = o.sink
	tracker.Bind(c)

	inst := &Instance{
		name:    cfg.Name,
		ctx:     rc,
		pointer: tracker,
		driver:  NewAnimationDriver(rc, tracker, s, cfg),
		sink:    o.sink,
	}
	inst.resize = c.AddListener(EventResize, func(e ContainerEvent) {
		rc.RequestResize(e.Width, e.Height)
	})
	inst.driver.Start()

	Logger().Debug("ripple: mounted", "instance", cfg.Name, "source", sourceLabel(cfg.Image))
	emit(o.sink, Event{Type: EventMounted, Instance: cfg.Name})
	return inst, nil
}

// Unmount stops the loop, removes the pointer and resize listeners and tears
// down the render context, in that order. Safe to call more than once.
func (i *Instance) Unmount() {
	if i == nil || i.unmounted {
		return
	}
	i.unmounted = true
	i.driver.Stop()
	i.pointer.Unbind()
	i.resize.Remove()
	i.ctx.Teardown()

	Logger().Debug("ripple: unmounted", "instance", i.name)
	emit(i.sink, Event{Type: EventUnmounted, Instance: i.name})
}

// Unmounted reports whether Unmount has run.
func (i *Instance) Unmounted() bool { return i.unmounted }

// Name returns the instance label from Config.Name.
func (i *Instance) Name() string { return i.name }

// SetTunables replaces the uniform values. They are written at the next
// tick; the program is not recompiled.
func (i *Instance) SetTunables(t Tunables) error {
	if err := t.validate(); err != nil {
		return err
	}
	i.driver.SetTunables(t)
	return nil
}

// SetConstants replaces the distortion constants. The program is rebuilt at
// the start of the next tick.
func (i *Instance) SetConstants(k DistortionConstants) error {
	if err := k.Validate(); err != nil {
		return err
	}
	if i.unmounted {
		return nil
	}
	i.ctx.program.SetConstants(k)
	return nil
}

// Snapshot returns a CPU rendition of the current frame, or nil while the
// texture is not loaded or after Unmount.
func (i *Instance) Snapshot() *image.RGBA { return i.ctx.Snapshot() }

// Context returns the render context.
func (i *Instance) Context() *RenderContext { return i.ctx }

// Driver returns the animation driver.
func (i *Instance) Driver() *AnimationDriver { return i.driver }

// Pointer returns the pointer tracker.
func (i *Instance) Pointer() *PointerTracker { return i.pointer }
