package events

// Kind identifies the entity write that produced an event.
type Kind string

const (
	ActivityCreated Kind = "activity_created"
	ActivityDeleted Kind = "activity_deleted"
	ActivityCleared Kind = "activity_cleared"
	TaskCreated     Kind = "task_created"
	TaskUpdated     Kind = "task_updated"
	TaskDeleted     Kind = "task_deleted"
	DocumentCreated Kind = "document_created"
	DocumentUpdated Kind = "document_updated"
	DocumentDeleted Kind = "document_deleted"
	MemoryCreated   Kind = "memory_created"
	MemoryDeleted   Kind = "memory_deleted"
)

// Event is published after every successful write so observers can re-read
// instead of relying on implicit invalidation. Only the entity ID is carried;
// consumers query the store for the full record.
type Event struct {
	Kind Kind
	ID   string
}

// Bus is a lightweight in-process pub-sub implementation backed by a buffered
// channel.
type Bus struct {
	ch chan Event
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int) *Bus {
	return &Bus{ch: make(chan Event, buffer)}
}

// Publish attempts to enqueue the event without blocking.
// Returns true if published, false if the buffer is full.
func (b *Bus) Publish(evt Event) bool {
	if b == nil {
		return false
	}
	select {
	case b.ch <- evt:
		return true
	default:
		return false
	}
}

// Subscribe returns a read-only channel for consumers.
func (b *Bus) Subscribe() <-chan Event {
	return b.ch
}
