package domain

// IDGenerator produces identifiers for newly created aggregates.
type IDGenerator[T any] func() T
