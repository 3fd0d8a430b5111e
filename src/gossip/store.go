package gossip

// Store is the append-only record of every delta a node has observed.
// Implementations are not safe for concurrent use; the engine owning a Store
// is only ever driven by one goroutine.
type Store[T any] interface {
	// Append adds d at the end of the Store. It returns a StoreErr of type
	// KeyAlreadyExists if a delta with the same ID is already present.
	Append(d Delta[T]) error

	// Contains reports whether a delta with this ID was appended.
	Contains(id ID) bool

	// Get returns the delta with this ID, or a KeyNotFound StoreErr.
	Get(id ID) (Delta[T], error)

	// Deltas returns every delta in append order.
	Deltas() []Delta[T]

	// Len returns the number of deltas.
	Len() int

	// Close releases the resources held by the Store.
	Close() error
}
