package collector

import "context"

// Result carries one collected item or the error that stopped it.
type Result[T any] struct {
	Result T
	Err    error
}

// Collector streams typed items out of a raw source.
type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}
