package game

// EventKind identifies a HUD or sound cue.
type EventKind string

const (
	EventScore     EventKind = "score"     // Value = score
	EventTime      EventKind = "time"      // Value = whole seconds
	EventHealth    EventKind = "health"    // Value = health percent
	EventPowerup   EventKind = "powerup"   // Label = kind, "" when cleared; Value = seconds left
	EventLevelUp   EventKind = "level_up"  // Value = new level
	EventGameOver  EventKind = "game_over" // Value = final score
	EventReset     EventKind = "reset"
	EventShot      EventKind = "shot"
	EventHit       EventKind = "hit"
	EventExplosion EventKind = "explosion"
	EventPickup    EventKind = "pickup"
	EventBomb      EventKind = "bomb"
)

// Event is pushed to listeners at the point of change.
type Event struct {
	Kind  EventKind `json:"k" msgpack:"k"`
	Value int       `json:"v,omitempty" msgpack:"v,omitempty"`
	Label string    `json:"l,omitempty" msgpack:"l,omitempty"`
	Tick  uint64    `json:"tick" msgpack:"tick"`
}

// Cosmetic reports whether the event only drives sound or effects.
func (e Event) Cosmetic() bool {
	switch e.Kind {
	case EventShot, EventHit, EventExplosion, EventPickup, EventBomb:
		return true
	}
	return false
}

// Listener receives events. Publish is called synchronously from the tick
// and must not block or call back into the World.
type Listener interface {
	Publish(ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) Publish(ev Event) { f(ev) }

func (w *World) emit(kind EventKind, value int, label string) {
	ev := Event{Kind: kind, Value: value, Label: label, Tick: w.tick}
	for _, l := range w.listeners {
		l.Publish(ev)
	}
}

// Subscribe registers a listener for every subsequent event.
func (w *World) Subscribe(l Listener) {
	w.listeners = append(w.listeners, l)
}
