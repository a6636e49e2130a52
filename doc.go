// Package ripple renders an image with a pointer-reactive water distortion
// for [Ebitengine].
//
// Each mounted renderer draws one image into an offscreen surface through a
// distortion program: slow ambient waves everywhere, plus concentric ripples
// centred on the pointer that swell while the pointer hovers the image and
// settle back when it leaves. Any number of renderers can run side by side.
//
// # Quick start
//
// The simplest way to get started is [Host] and [Run]:
//
//	host := ripple.NewHost()
//	panel := host.NewPanel("hero", ripple.Rect{X: 40, Y: 40, Width: 460, Height: 478})
//
//	cfg := ripple.DefaultConfig()
//	cfg.Image = "card.png"
//	cfg.Width, cfg.Height = 460, 478
//	inst, err := host.Mount(panel, cfg, ripple.OnHover(func() { ... }))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer inst.Unmount()
//
//	ripple.Run(host, ripple.RunConfig{Title: "ripple", Width: 540, Height: 558})
//
// To embed renderers in your own game, implement [Container] for whatever
// owns the screen region, and drive a [FrameScheduler] once per Update:
//
//	sched := ripple.NewFrameScheduler(time.Second / 60)
//	inst, err := ripple.Mount(myContainer, sched, cfg)
//	// in Update:
//	sched.RunFrame()
//	// in Draw:
//	inst.Context().Surface().DrawTo(screen, layout)
//
// # Coordinates
//
// Pointer positions are normalized against the container's bounding
// rectangle with x growing to the right and y growing upward: the
// bottom-left corner is (0, 0) and the top-right is (1, 1). See [Normalize].
//
// # Render modes
//
// [RenderShader] runs the distortion as a Kage shader. [RenderSoftware] runs
// the identical function on the CPU, which is also what [Instance.Snapshot]
// uses. When the shader cannot be compiled the renderer falls back to
// [RenderStatic] and draws the image undistorted instead of failing.
//
// # Configuration
//
// [Config] holds everything that can be serialised, and [LoadConfig] reads it
// from JSON on top of [DefaultConfig]. Callbacks, custom fetchers and event
// sinks are passed as [Option] values. Per-frame values ([Tunables]) can be
// changed at any time with [Instance.SetTunables]; the distortion magnitudes
// ([DistortionConstants]) rebuild the program at the next frame.
//
// # Events
//
// Lifecycle, hover and texture events can be forwarded to an [EventSink].
// The ecs sub-package publishes them into a Donburi world.
//
// # Logging
//
// ripple is silent by default. Install a [log/slog] logger with [SetLogger].
//
// [Ebitengine]: https://ebitengine.org
package ripple
