package ripple

// Event describes a renderer lifecycle or hover transition, delivered to an
// EventSink. X and Y carry the normalized pointer for hover events.
type Event struct {
	Type     EventType
	Instance string
	X, Y     float64
	Err      error
}

// EventSink receives renderer events. Emit is called on the frame thread.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// Emit calls f(e).
func (f EventSinkFunc) Emit(e Event) { f(e) }

func emit(sink EventSink, e Event) {
	if sink != nil {
		sink.Emit(e)
	}
}
