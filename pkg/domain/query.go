package domain

// Query is a read request carrying its own payload type.
type Query[T any] interface {
	QueryName() string
	Payload() T
}
