package segment

// Sink receives a tiled stream one item at a time. Printers implement it to
// render segments and labels as they are produced.
type Sink[T any] interface {
	Emit(item T) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc[T any] func(item T) error

// Emit calls f(item).
func (f SinkFunc[T]) Emit(item T) error { return f(item) }

// Stream delivers items to s in order and stops at the first error.
func Stream[T any](items []T, s Sink[T]) error {
	for _, item := range items {
		if err := s.Emit(item); err != nil {
			return err
		}
	}
	return nil
}
