package ecs

import (
	"github.com/phanxgames/ripple"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// RippleEventType is the Donburi event type for ripple renderer events.
var RippleEventType = events.NewEventType[ripple.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to RippleEventType and can be consumed with events.Subscribe
// and ProcessEvents.
func NewDonburiSink(world donburi.World) ripple.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) Emit(event ripple.Event) {
	RippleEventType.Publish(s.world, event)
}

// HoverState mirrors the hover state of one mounted instance.
type HoverState struct {
	Instance string
	Active   bool
	X, Y     float64
	Loaded   bool
	Failed   bool
}

// HoverComponent holds a HoverState per instance entity.
var HoverComponent = donburi.NewComponentType[HoverState]()

var hoverQuery = donburi.NewQuery(filter.Contains(HoverComponent))

// TrackHover subscribes to RippleEventType and maintains one HoverComponent
// entity per instance name. Entities are created on mount and removed on
// unmount; they update when events are processed.
func TrackHover(world donburi.World) {
	RippleEventType.Subscribe(world, func(w donburi.World, e ripple.Event) {
		switch e.Type {
		case ripple.EventMounted:
			if findHover(w, e.Instance) == nil {
				entry := w.Entry(w.Create(HoverComponent))
				HoverComponent.SetValue(entry, HoverState{Instance: e.Instance})
			}
		case ripple.EventUnmounted:
			if entry := findHover(w, e.Instance); entry != nil {
				w.Remove(entry.Entity())
			}
		case ripple.EventHoverStart, ripple.EventHoverEnd:
			if entry := findHover(w, e.Instance); entry != nil {
				hs := HoverComponent.Get(entry)
				hs.Active = e.Type == ripple.EventHoverStart
				hs.X, hs.Y = e.X, e.Y
			}
		case ripple.EventTextureLoaded:
			if entry := findHover(w, e.Instance); entry != nil {
				HoverComponent.Get(entry).Loaded = true
			}
		case ripple.EventTextureFailed:
			if entry := findHover(w, e.Instance); entry != nil {
				HoverComponent.Get(entry).Failed = true
			}
		}
	})
}

// Hovered returns the names of instances whose hover is active.
func Hovered(world donburi.World) []string {
	var names []string
	hoverQuery.Each(world, func(entry *donburi.Entry) {
		if hs := HoverComponent.Get(entry); hs.Active {
			names = append(names, hs.Instance)
		}
	})
	return names
}

func findHover(w donburi.World, name string) *donburi.Entry {
	var found *donburi.Entry
	hoverQuery.Each(w, func(entry *donburi.Entry) {
		if found == nil && HoverComponent.Get(entry).Instance == name {
			found = entry
		}
	})
	return found
}
