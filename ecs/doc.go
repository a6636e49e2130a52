// Package ecs provides ECS adapters for ripple's renderer events.
//
// The primary adapter is [NewDonburiSink], which bridges ripple lifecycle
// and hover events into a [Donburi] world as typed events. Subscribe to
// [RippleEventType] in your ECS systems to receive them, or call
// [TrackHover] to keep a [HoverState] component per instance up to date.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	inst, err := host.Mount(panel, cfg, ripple.WithEventSink(sink))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
