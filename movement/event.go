package movement

// EventType identifies a predictable movement event.
type EventType uint8

const (
	EventNone EventType = iota
	EventFootstep
	EventFootSplash
	EventFootWade
	EventSwim
	EventStep
	EventJump
	EventTrickJump
	EventFallShort
	EventFallMedium
	EventFallFar
	EventWaterTouch
	EventWaterLeave
	EventWaterUnder
	EventWaterClear
	EventTeleport
)

var eventNames = [...]string{
	"none", "footstep", "foot_splash", "foot_wade", "swim", "step", "jump", "trick_jump",
	"fall_short", "fall_medium", "fall_far", "water_touch", "water_leave", "water_under",
	"water_clear", "teleport",
}

func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Event is an event together with its parameter.
type Event struct {
	Type  EventType `json:"type"`
	Param int32     `json:"param"`
}

// EventQueueSize is the number of events a state remembers. Must be a power of two.
const EventQueueSize = 4

// EventQueue holds the most recent events of a state. Sequence counts every event ever added; event n
// lives in slot n & (EventQueueSize-1), so older events are overwritten once the queue is full.
type EventQueue struct {
	Entries  [EventQueueSize]Event `json:"entries"`
	Sequence uint32                `json:"seq"`
}

// Add queues an event.
func (q *EventQueue) Add(typ EventType, param int32) {
	q.Entries[q.Sequence&(EventQueueSize-1)] = Event{Type: typ, Param: param}
	q.Sequence++
}

// At returns event number seq, if it has not been overwritten yet.
func (q *EventQueue) At(seq uint32) (Event, bool) {
	if d := q.Sequence - seq; d == 0 || d > EventQueueSize {
		return Event{}, false
	}
	return q.Entries[seq&(EventQueueSize-1)], true
}

// Since returns the events numbered from seq onwards that are still held, oldest first.
func (q *EventQueue) Since(seq uint32) []Event {
	if q.Sequence-seq > EventQueueSize {
		seq = q.Sequence - EventQueueSize
	}
	var out []Event
	for ; seq != q.Sequence; seq++ {
		out = append(out, q.Entries[seq&(EventQueueSize-1)])
	}
	return out
}
