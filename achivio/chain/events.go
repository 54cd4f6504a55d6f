package chain

// Event is a structured record a contract prints while committing an
// operation. Events only exist for committed operations; an aborted call
// emits nothing.
type Event struct {
	Height   uint64         `json:"height"`
	Contract string         `json:"contract"`
	Kind     string         `json:"kind"`
	Data     map[string]any `json:"data"`
}

// EventSink receives committed events. The node hands contracts a sink that
// buffers per call and discards the buffer when the call aborts.
type EventSink interface {
	Emit(ev Event)
}

// EventBuffer is the default sink: an in-memory collector the node drains
// into the journal after each committed operation.
type EventBuffer struct {
	events []Event
}

func NewEventBuffer() *EventBuffer { return &EventBuffer{} }

func (b *EventBuffer) Emit(ev Event) {
	b.events = append(b.events, ev)
}

// Drain returns and clears the buffered events.
func (b *EventBuffer) Drain() []Event {
	evs := b.events
	b.events = nil
	return evs
}

// Discard drops anything buffered since the last drain.
func (b *EventBuffer) Discard() {
	b.events = nil
}

// NopSink ignores all events, used by contract unit tests that do not
// assert on event output.
type NopSink struct{}

func (NopSink) Emit(Event) {}
