package domain

// Event is a domain notification carrying its own payload type.
type Event[T any] interface {
	EventName() string
	Payload() T
}
